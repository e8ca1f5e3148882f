package jsontree

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_JSONPreservesMemberOrder(t *testing.T) {
	data := []byte(`{"zeta": 1, "alpha": 2, "mid": {"b": true, "a": null}}`)

	v, err := Decode(data, DialectJSON)
	require.NoError(t, err)

	obj, ok := v.(*Object)
	require.True(t, ok, "top-level value should decode as an object")
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, obj.Keys(),
		"member order must follow the document, not sort order")

	mid, ok := obj.Get("mid")
	require.True(t, ok)
	midObj, ok := mid.(*Object)
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, midObj.Keys())
}

func TestDecode_JSONNumbersStayExact(t *testing.T) {
	v, err := Decode([]byte(`{"n": 12345678901234567890, "f": 1.5}`), DialectJSON)
	require.NoError(t, err)

	obj := v.(*Object)
	n, _ := obj.Get("n")
	require.IsType(t, json.Number(""), n, "integers should not collapse to float64")
	assert.Equal(t, "12345678901234567890", n.(json.Number).String())
}

func TestDecode_JSONRejectsTrailingData(t *testing.T) {
	_, err := Decode([]byte(`{"a": 1} {"b": 2}`), DialectJSON)
	require.Error(t, err)
}

func TestDecode_JSON5AcceptsCommentsAndTrailingCommas(t *testing.T) {
	data := []byte(`{
        // profile metadata
        name: "VP_TEST_example",
        tags: ["a", "b",],
    }`)

	v, err := Decode(data, DialectJSON5)
	require.NoError(t, err)

	obj, ok := v.(*Object)
	require.True(t, ok)
	name, ok := obj.Get("name")
	require.True(t, ok)
	assert.Equal(t, "VP_TEST_example", name)

	tags, ok := obj.Get("tags")
	require.True(t, ok)
	assert.Equal(t, []Value{"a", "b"}, tags)
}

func TestDecode_JSON5ObjectsSortKeys(t *testing.T) {
	v, err := Decode([]byte(`{zeta: 1, alpha: 2}`), DialectJSON5)
	require.NoError(t, err)

	obj := v.(*Object)
	assert.Equal(t, []string{"alpha", "zeta"}, obj.Keys(),
		"json5 decoding orders members by key")
}

func TestDialectForPath(t *testing.T) {
	assert.Equal(t, DialectJSON5, DialectForPath("/r/profiles/VP_a.json5"))
	assert.Equal(t, DialectJSON, DialectForPath("/r/profiles/VP_a.json"))
	assert.Equal(t, DialectJSON, DialectForPath("/r/vk.xml"), "unknown suffixes fall back to json")
}

func TestObject_SetKeepsPositionOnOverwrite(t *testing.T) {
	obj := NewObject()
	obj.Set("a", 1)
	obj.Set("b", 2)
	obj.Set("a", 3)

	assert.Equal(t, []string{"a", "b"}, obj.Keys())
	v, _ := obj.Get("a")
	assert.Equal(t, 3, v)
}

func TestObject_Delete(t *testing.T) {
	obj := NewObject()
	obj.Set("a", 1)
	obj.Set("b", 2)

	require.True(t, obj.Delete("a"))
	assert.False(t, obj.Delete("a"), "second delete should report absence")
	assert.Equal(t, []string{"b"}, obj.Keys())
	assert.Equal(t, 1, obj.Len())
}

func TestObject_MembersIteration(t *testing.T) {
	obj := NewObject()
	obj.Set("x", "1")
	obj.Set("y", "2")
	obj.Set("z", "3")

	var keys []string
	for k, v := range obj.Members() {
		keys = append(keys, k)
		require.NotNil(t, v)
	}
	assert.Equal(t, []string{"x", "y", "z"}, keys)
}

func TestClone_IsDeep(t *testing.T) {
	v, err := Decode([]byte(`{"caps": {"list": ["a"]}, "n": 1}`), DialectJSON)
	require.NoError(t, err)

	clone := Clone(v).(*Object)
	caps, _ := clone.Get("caps")
	caps.(*Object).Set("list", []Value{"changed"})
	clone.Set("n", 99)

	orig := v.(*Object)
	origCaps, _ := orig.Get("caps")
	origList, _ := origCaps.(*Object).Get("list")
	assert.Equal(t, []Value{"a"}, origList, "mutating the clone must not touch the original")
	n, _ := orig.Get("n")
	assert.Equal(t, json.Number("1"), n)
}

func TestIsScalar(t *testing.T) {
	assert.True(t, IsScalar(nil))
	assert.True(t, IsScalar(true))
	assert.True(t, IsScalar("s"))
	assert.True(t, IsScalar(json.Number("4")))
	assert.False(t, IsScalar(NewObject()))
	assert.False(t, IsScalar([]Value{}))
}

func TestEncoder_JSONRoundTripKeepsOrder(t *testing.T) {
	data := []byte(`{"zeta": 1, "alpha": {"b": [true, null], "a": "x"}}`)
	v, err := Decode(data, DialectJSON)
	require.NoError(t, err)

	out, err := NewEncoder(FormatJSON).Marshal(v)
	require.NoError(t, err)

	want := `{
    "zeta": 1,
    "alpha": {
        "b": [
            true,
            null
        ],
        "a": "x"
    }
}`
	assert.Equal(t, want, string(out))
}

func TestEncoder_JSONEmptyContainers(t *testing.T) {
	obj := NewObject()
	obj.Set("o", NewObject())
	obj.Set("a", []Value{})

	out, err := NewEncoder(FormatJSON).Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"o\": {},\n    \"a\": []\n}", string(out))
}

func TestEncoder_JSON5LeavesIdentifierKeysUnquoted(t *testing.T) {
	obj := NewObject()
	obj.Set("name", "VP_TEST_example")
	obj.Set("api-version", "1.3.204")

	out, err := NewEncoder(FormatJSON5).Marshal(obj)
	require.NoError(t, err)
	assert.Contains(t, string(out), "\n    name: ")
	assert.Contains(t, string(out), "\n    \"api-version\": ",
		"keys with punctuation still need quotes")
}

func TestEncoder_YAMLKeepsOrder(t *testing.T) {
	data := []byte(`{"zeta": 1, "alpha": "two"}`)
	v, err := Decode(data, DialectJSON)
	require.NoError(t, err)

	out, err := NewEncoder(FormatYAML).Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, "zeta: 1\nalpha: two\n", string(out))
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"json", "json5", "yaml"} {
		f, err := ParseFormat(name)
		require.NoError(t, err)
		assert.Equal(t, Format(name), f)
	}
	_, err := ParseFormat("xml")
	require.Error(t, err)
}

func TestLoadFile_WrapsErrorsWithPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "VP_broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"unterminated": `), 0o644))

	_, err := LoadFile(path)
	require.Error(t, err)

	var fileErr *FileError
	require.ErrorAs(t, err, &fileErr)
	assert.Equal(t, path, fileErr.Path)
	assert.Contains(t, err.Error(), path)
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist), "os error should stay reachable through the wrapper")
}

func TestLoadFile_JSON5BySuffix(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "VP_ok.json5")
	require.NoError(t, os.WriteFile(path, []byte("{name: 'VP_ok', /*c*/}"), 0o644))

	v, err := LoadFile(path)
	require.NoError(t, err)
	obj, ok := v.(*Object)
	require.True(t, ok)
	name, _ := obj.Get("name")
	assert.Equal(t, "VP_ok", name)
}
