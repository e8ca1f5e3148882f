package vkxml

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/linyaa-kiwi/vk-tower/internal/jsontree"
)

func decodeObject(t *testing.T, src string) *jsontree.Object {
	t.Helper()
	v, err := jsontree.Decode([]byte(src), jsontree.DialectJSON)
	require.NoError(t, err)
	obj, ok := v.(*jsontree.Object)
	require.True(t, ok, "test input must decode to an object")
	return obj
}

func TestNormalize_NoAliasIsFixpoint(t *testing.T) {
	norm := NewNormalizer(NewModel(), false)

	got, err := norm.Normalize("VkPhysicalDeviceLimits")
	require.NoError(t, err)
	assert.Equal(t, "VkPhysicalDeviceLimits", got)
}

func TestNormalize_FollowsChainToFixpoint(t *testing.T) {
	m := modelFromXML(t, `
<registry>
    <type name="OldX" alias="NewX"/>
    <type name="NewX" alias="Newest"/>
</registry>`)
	norm := NewNormalizer(m, false)

	for _, name := range []string{"OldX", "NewX", "Newest"} {
		got, err := norm.Normalize(name)
		require.NoError(t, err)
		assert.Equal(t, "Newest", got, "every name on the chain lands on the final replacement")
	}
}

func TestNormalize_CycleIsError(t *testing.T) {
	m := modelFromXML(t, `
<registry>
    <type name="VkA" alias="VkB"/>
    <type name="VkB" alias="VkA"/>
</registry>`)
	norm := NewNormalizer(m, false)

	_, err := norm.Normalize("VkA")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ErrAliasCycle, verr.Code)
	assert.Contains(t, verr.Message, "VkA -> VkB -> VkA", "the error carries the full chain")
}

func TestNormalize_SelfAliasIsError(t *testing.T) {
	m := modelFromXML(t, `<registry><type name="VkA" alias="VkA"/></registry>`)
	norm := NewNormalizer(m, false)

	_, err := norm.Normalize("VkA")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ErrAliasCycle, verr.Code)
	assert.Contains(t, verr.Message, "VkA -> VkA")
}

func TestNormalize_Property_ReachesFixpoint(t *testing.T) {
	// Property: on an acyclic alias table, normalize lands on a name with
	// no alias entry, and normalizing the result again changes nothing.
	rapid.Check(t, func(t *rapid.T) {
		chainLen := rapid.IntRange(1, 8).Draw(t, "chainLen")
		names := make([]string, chainLen+1)
		for i := range names {
			names[i] = fmt.Sprintf("VkName%c", 'A'+i)
		}
		m := NewModel()
		for i := 0; i < chainLen; i++ {
			m.aliases[names[i]] = names[i+1]
		}
		norm := NewNormalizer(m, false)

		start := rapid.SampledFrom(names).Draw(t, "start")
		got, err := norm.Normalize(start)
		require.NoError(t, err)
		assert.Equal(t, names[chainLen], got, "every chain entry resolves to the final name")

		again, err := norm.Normalize(got)
		require.NoError(t, err)
		assert.Equal(t, got, again, "normalize is idempotent")
		_, aliased := m.Alias(got)
		assert.False(t, aliased, "the result has no alias entry")
	})
}

func TestNormalizeDeep_RewritesKeysAndValues(t *testing.T) {
	m := modelFromXML(t, `
<registry>
    <type name="OldX" alias="NewX"/>
    <type name="NewX" alias="Newest"/>
    <type name="VK_OLD_BIT" alias="VK_NEW_BIT"/>
</registry>`)
	norm := NewNormalizer(m, false)

	in := decodeObject(t, `{
		"OldX": {"flag": "VK_OLD_BIT", "count": 3, "enabled": true, "empty": null},
		"names": ["OldX", "stable"]
	}`)

	out, err := norm.NormalizeDeep(in, "$")
	require.NoError(t, err)
	obj := out.(*jsontree.Object)
	assert.Equal(t, []string{"Newest", "names"}, obj.Keys())

	nestedValue, ok := obj.Get("Newest")
	require.True(t, ok)
	nested := nestedValue.(*jsontree.Object)
	flag, _ := nested.Get("flag")
	assert.Equal(t, "VK_NEW_BIT", flag)
	count, _ := nested.Get("count")
	assert.Equal(t, json.Number("3"), count, "numbers pass through untouched")
	enabled, _ := nested.Get("enabled")
	assert.Equal(t, true, enabled)
	empty, _ := nested.Get("empty")
	assert.Nil(t, empty)

	namesValue, ok := obj.Get("names")
	require.True(t, ok)
	assert.Equal(t, []jsontree.Value{"Newest", "stable"}, namesValue)
}

func TestNormalizeDeep_LeavesInputUntouched(t *testing.T) {
	m := modelFromXML(t, `<registry><type name="OldX" alias="Newest"/></registry>`)
	norm := NewNormalizer(m, false)

	in := decodeObject(t, `{"OldX": "OldX"}`)
	_, err := norm.NormalizeDeep(in, "$")
	require.NoError(t, err)

	assert.Equal(t, []string{"OldX"}, in.Keys())
	v, _ := in.Get("OldX")
	assert.Equal(t, "OldX", v)
}

func TestNormalizeDeep_UnexpectedTypeCarriesPath(t *testing.T) {
	norm := NewNormalizer(NewModel(), false)

	in := jsontree.NewObject()
	in.Set("caps", []jsontree.Value{"fine", 42})

	_, err := norm.NormalizeDeep(in, "$")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ErrUnexpectedValue, verr.Code)
	assert.Equal(t, "$.caps[1]", verr.Path)
	assert.Contains(t, verr.Message, "int")
}

func TestNormalizeDeep_PathUsesOriginalKeys(t *testing.T) {
	m := modelFromXML(t, `<registry><type name="OldX" alias="Newest"/></registry>`)
	norm := NewNormalizer(m, false)

	inner := jsontree.NewObject()
	inner.Set("bad", 42)
	in := jsontree.NewObject()
	in.Set("OldX", inner)

	_, err := norm.NormalizeDeep(in, "$")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "$.OldX.bad", verr.Path, "diagnostics name the key as written, not its replacement")
}

func TestNormalizeStruct_DropsUnknownAndKeepsLayoutMembers(t *testing.T) {
	m := modelFromXML(t, `
<registry>
    <type category="struct" name="Foo">
        <member><type>int32_t</type> <name>a</name></member>
        <member><type>Bar</type> <name>b</name></member>
    </type>
    <type category="struct" name="Bar">
        <member><type>int32_t</type> <name>x</name></member>
    </type>
</registry>`)
	norm := NewNormalizer(m, false)

	in := decodeObject(t, `{"b": {"x": 1, "z": 2}, "extra": 3}`)
	out, err := norm.NormalizeStruct("Foo", in)
	require.NoError(t, err)

	assert.Equal(t, []string{"b"}, out.Keys(), "a is absent from the instance, extra is not in the layout")
	bValue, ok := out.Get("b")
	require.True(t, ok)
	b := bValue.(*jsontree.Object)
	assert.Equal(t, []string{"x"}, b.Keys(), "z is not in Bar's layout")
	x, _ := b.Get("x")
	assert.Equal(t, json.Number("1"), x)
}

func TestNormalizeStruct_EmitsLayoutOrder(t *testing.T) {
	m := modelFromXML(t, `
<registry>
    <type category="struct" name="VkExtent3D">
        <member><type>uint32_t</type> <name>width</name></member>
        <member><type>uint32_t</type> <name>height</name></member>
        <member><type>uint32_t</type> <name>depth</name></member>
    </type>
</registry>`)
	norm := NewNormalizer(m, false)

	in := decodeObject(t, `{"depth": 4, "width": 16}`)
	out, err := norm.NormalizeStruct("VkExtent3D", in)
	require.NoError(t, err)

	assert.Equal(t, []string{"width", "depth"}, out.Keys(), "member order follows the layout, not the instance")
}

func TestNormalizeStruct_NormalizesNameAndMemberTypes(t *testing.T) {
	m := modelFromXML(t, `
<registry>
    <type name="VkFooKHR" alias="Foo"/>
    <type name="BarKHR" alias="Bar"/>
    <type category="struct" name="Foo">
        <member><type>BarKHR</type> <name>b</name></member>
    </type>
    <type category="struct" name="Bar">
        <member><type>int32_t</type> <name>x</name></member>
    </type>
</registry>`)
	norm := NewNormalizer(m, false)

	in := decodeObject(t, `{"b": {"x": 7, "z": 8}}`)
	out, err := norm.NormalizeStruct("VkFooKHR", in)
	require.NoError(t, err)

	bValue, ok := out.Get("b")
	require.True(t, ok)
	assert.Equal(t, []string{"x"}, bValue.(*jsontree.Object).Keys(),
		"the aliased member type resolves to Bar's layout")
}

func TestNormalizeStruct_UnknownStructReturnsInstance(t *testing.T) {
	norm := NewNormalizer(NewModel(), false)

	in := decodeObject(t, `{"anything": 1}`)
	out, err := norm.NormalizeStruct("VkMystery", in)
	require.NoError(t, err)
	assert.Same(t, in, out)
}

func TestNormalizeStruct_StructMemberMustBeObject(t *testing.T) {
	m := modelFromXML(t, `
<registry>
    <type category="struct" name="Foo">
        <member><type>Bar</type> <name>b</name></member>
    </type>
    <type category="struct" name="Bar">
        <member><type>int32_t</type> <name>x</name></member>
    </type>
</registry>`)
	norm := NewNormalizer(m, false)

	in := decodeObject(t, `{"b": 7}`)
	_, err := norm.NormalizeStruct("Foo", in)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ErrUnexpectedValue, verr.Code)
	assert.Contains(t, verr.Message, `"b"`)
	assert.Contains(t, verr.Message, `"Bar"`)
}
