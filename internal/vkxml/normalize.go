package vkxml

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/linyaa-kiwi/vk-tower/internal/cachemanager"
	"github.com/linyaa-kiwi/vk-tower/internal/jsontree"
	"github.com/linyaa-kiwi/vk-tower/internal/log"
)

// Normalizer rewrites deprecated Vulkan names to their replacements by
// following the model's alias chains. The diag flag turns on dropped-member
// logging during struct-aware normalization; it is threaded in explicitly
// rather than read from the environment.
type Normalizer struct {
	model *Model
	diag  bool
	memo  *cachemanager.ReadThroughCache[string, string, string]
}

// NewNormalizer builds a normalizer over a model.
func NewNormalizer(model *Model, diag bool) *Normalizer {
	n := &Normalizer{model: model, diag: diag}
	n.memo = cachemanager.NewReadThroughCache[string, string, string](
		cachemanager.NewInMemoryCacheManager[string, string]("vk-name",
			cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval),
		n.followAliases,
		false,
	)
	return n
}

// Normalize follows name's alias chain to its fixpoint. A name with no
// alias entry comes back unchanged. A cyclic chain is a hard error; the
// registry data is broken and silently picking a name would hide that.
func (n *Normalizer) Normalize(name string) (string, error) {
	return n.memo.Get(name, name, cachemanager.DefaultExpiration)
}

func (n *Normalizer) followAliases(name string) (string, error) {
	seen := map[string]bool{name: true}
	chain := []string{name}
	current := name
	for {
		next, ok := n.model.Alias(current)
		if !ok {
			return current, nil
		}
		chain = append(chain, next)
		if seen[next] {
			return "", &ValidationError{Code: ErrAliasCycle,
				Message: fmt.Sprintf("alias chain does not terminate: %s", strings.Join(chain, " -> "))}
		}
		seen[next] = true
		current = next
	}
}

// NormalizeDeep normalizes every name in a JSON-like tree: object keys and
// string values through Normalize, arrays element by element. Numbers,
// booleans and null pass through. The path argument seeds diagnostics and
// should name the tree's root ("$" works); reported paths use the keys as
// they were before normalization.
func (n *Normalizer) NormalizeDeep(v jsontree.Value, path string) (jsontree.Value, error) {
	switch x := v.(type) {
	case *jsontree.Object:
		out := jsontree.NewObject()
		for key, value := range x.Members() {
			normKey, err := n.Normalize(key)
			if err != nil {
				return nil, err
			}
			normValue, err := n.NormalizeDeep(value, path+"."+key)
			if err != nil {
				return nil, err
			}
			out.Set(normKey, normValue)
		}
		return out, nil
	case []jsontree.Value:
		out := make([]jsontree.Value, len(x))
		for i, item := range x {
			normItem, err := n.NormalizeDeep(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = normItem
		}
		return out, nil
	case string:
		return n.Normalize(x)
	case nil, bool, json.Number, float64:
		return v, nil
	default:
		return nil, &ValidationError{Code: ErrUnexpectedValue, Path: path,
			Message: fmt.Sprintf("value has unexpected type %T", v)}
	}
}

// NormalizeStruct rebuilds a struct instance in its layout's declared
// member order. Members missing from the instance are skipped, since the
// input may be partial; members unknown to the layout are dropped. A
// member whose declared base type names another known struct is normalized
// recursively. An unknown struct name returns the instance unchanged after
// a warning.
func (n *Normalizer) NormalizeStruct(structName string, instance *jsontree.Object) (*jsontree.Object, error) {
	name, err := n.Normalize(structName)
	if err != nil {
		return nil, err
	}
	layout, ok := n.model.Layout(name)
	if !ok {
		log.Warn(log.CatXML, "unknown struct layout", "struct", name)
		return instance, nil
	}

	out := jsontree.NewObject()
	for member, baseType := range layout.Members() {
		value, present := instance.Get(member)
		if !present {
			continue
		}
		normType, err := n.Normalize(baseType)
		if err != nil {
			return nil, err
		}
		if _, isStruct := n.model.Layout(normType); !isStruct {
			out.Set(member, value)
			continue
		}
		nested, isObj := value.(*jsontree.Object)
		if !isObj {
			return nil, &ValidationError{Code: ErrUnexpectedValue,
				Message: fmt.Sprintf("member %q of struct %q must be an object to match struct type %q",
					member, name, normType)}
		}
		normNested, err := n.NormalizeStruct(normType, nested)
		if err != nil {
			return nil, err
		}
		out.Set(member, normNested)
	}

	if n.diag {
		for member := range instance.Members() {
			if !layout.Has(member) {
				log.Debug(log.CatXML, "dropped member not in struct layout",
					"struct", name, "member", member)
			}
		}
	}
	return out, nil
}
