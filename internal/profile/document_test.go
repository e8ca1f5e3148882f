package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linyaa-kiwi/vk-tower/internal/jsontree"
)

func documentProfiles(t *testing.T, d *Document) []string {
	t.Helper()
	names, err := d.ProfileNames()
	require.NoError(t, err)
	return names
}

func documentCapabilities(t *testing.T, d *Document) []string {
	t.Helper()
	caps, err := d.capabilitiesTable()
	require.NoError(t, err)
	if caps == nil {
		return nil
	}
	return caps.Keys()
}

func TestDocument_TreeParsesOnce(t *testing.T) {
	doc := loadedDocument(t, `{"profiles": {"A": {}}}`)

	first, err := doc.Tree()
	require.NoError(t, err)
	second, err := doc.Tree()
	require.NoError(t, err)
	assert.Same(t, first.(*jsontree.Object), second.(*jsontree.Object))
}

func TestDocument_StripOptionals(t *testing.T) {
	doc := loadedDocument(t, `{
        "profiles": {
            "A": {"capabilities": ["c0"], "optionals": ["c1"]},
            "B": {"optionals": [["c2"]]}
        }
    }`)

	require.NoError(t, doc.StripOptionals())

	deps, err := doc.InternalDeps("A")
	require.NoError(t, err)
	assert.Equal(t, []string{"c0"}, deps.LocalCapabilities)

	obj, ok, err := doc.profileObject("B")
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, obj.Has("optionals"))

	require.NoError(t, doc.StripOptionals(), "stripping twice is a no-op")
}

func TestDocument_TrimToProfile(t *testing.T) {
	doc := loadedDocument(t, `{
        "profiles": {
            "A": {"profiles": ["B", "VP_ext"], "capabilities": ["c0"]},
            "B": {"capabilities": [["c1", "c2"]]},
            "C": {"capabilities": ["c3"]}
        },
        "capabilities": {
            "c0": {}, "c1": {}, "c2": {}, "c3": {}, "unused": {}
        }
    }`)

	require.NoError(t, doc.TrimToProfile("A"))

	assert.Equal(t, []string{"A", "B"}, documentProfiles(t, doc),
		"profile C is outside A's closure and gets deleted")
	assert.Equal(t, []string{"c0", "c1", "c2"}, documentCapabilities(t, doc),
		"capability entries outside the local set get deleted")
}

// Round trip: trimming must not change the trimmed profile's own closure.
func TestDocument_TrimRoundTrip(t *testing.T) {
	const content = `{
        "profiles": {
            "A": {"profiles": ["B"], "capabilities": ["c0", ["c1"]]},
            "B": {"optionals": ["c2"]},
            "C": {"profiles": ["A"], "capabilities": ["c3"]}
        },
        "capabilities": {"c0": {}, "c1": {}, "c2": {}, "c3": {}}
    }`

	original := loadedDocument(t, content)
	before, err := original.InternalDeps("A")
	require.NoError(t, err)

	trimmed := loadedDocument(t, content)
	require.NoError(t, trimmed.TrimToProfile("A"))
	after, err := trimmed.InternalDeps("A")
	require.NoError(t, err)

	assert.Equal(t, before.LocalProfiles, after.LocalProfiles)
	assert.Equal(t, before.LocalCapabilities, after.LocalCapabilities)
}

func TestDocument_TrimPreservesProfileBody(t *testing.T) {
	doc := loadedDocument(t, `{
        "profiles": {
            "A": {"api-version": "1.3.204", "capabilities": ["c0"]},
            "B": {"capabilities": ["c1"]}
        },
        "capabilities": {"c0": {"features": {}}}
    }`)

	require.NoError(t, doc.TrimToProfile("A"))

	obj, ok, err := doc.profileObject("A")
	require.NoError(t, err)
	require.True(t, ok)
	version, _ := obj.Get("api-version")
	assert.Equal(t, "1.3.204", version, "trim deletes whole entries, never profile members")
}

func TestDocument_RootNotObject(t *testing.T) {
	doc := loadedDocument(t, `["not", "an", "object"]`)

	_, err := doc.ProfileNames()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ErrInvalidDocShape, verr.Code)
}

func TestDocument_ProfilesMemberNotObject(t *testing.T) {
	doc := loadedDocument(t, `{"profiles": []}`)

	_, err := doc.ProfileNames()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ErrInvalidDocShape, verr.Code)
}
