package profile

import (
	"errors"
	"maps"
	"slices"
	"strings"

	"github.com/linyaa-kiwi/vk-tower/internal/jsontree"
)

// InternalDeps is the dependency closure of one profile confined to its own
// document. The slices are sorted, so equal closures compare equal.
type InternalDeps struct {
	LocalProfiles     []string
	LocalCapabilities []string
	ExternalProfiles  []string
}

// Porcelain returns the serializable description of the closure.
func (d *InternalDeps) Porcelain() *jsontree.Object {
	obj := jsontree.NewObject()
	obj.Set("local_profile_names", jsontree.Strings(d.LocalProfiles))
	obj.Set("local_capability_names", jsontree.Strings(d.LocalCapabilities))
	obj.Set("external_profile_names", jsontree.Strings(d.ExternalProfiles))
	return obj
}

// InternalDeps computes the named profile's closure within this document.
// The traversal runs on an explicit work stack with a visited set, so deep
// profile chains cannot exhaust the call stack, and a name is classified at
// most once.
func (d *Document) InternalDeps(name string) (*InternalDeps, error) {
	table, err := d.profilesTable()
	if err != nil {
		return nil, err
	}

	local := make(map[string]struct{})
	external := make(map[string]struct{})
	caps := make(map[string]struct{})
	visited := make(map[string]bool)
	stack := []string{name}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[n] {
			continue
		}
		visited[n] = true

		var v jsontree.Value
		ok := false
		if table != nil {
			v, ok = table.Get(n)
		}
		if !ok {
			external[n] = struct{}{}
			continue
		}
		obj, isObj := v.(*jsontree.Object)
		if !isObj {
			return nil, newValidationf(ErrInvalidProfileShape, d.file.Path, "profiles."+n,
				"profile entry is not an object")
		}
		local[n] = struct{}{}

		refs, has := obj.Get("profiles")
		if !has {
			continue
		}
		arr, isArr := refs.([]jsontree.Value)
		if !isArr {
			return nil, newValidationf(ErrInvalidProfileShape, d.file.Path, "profiles."+n+".profiles",
				"profiles field is not an array")
		}
		for _, item := range arr {
			ref, isStr := item.(string)
			if !isStr {
				return nil, newValidationf(ErrInvalidProfileShape, d.file.Path, "profiles."+n+".profiles",
					"profile reference is not a string")
			}
			if !visited[ref] {
				stack = append(stack, ref)
			}
		}
	}

	for n := range local {
		v, _ := table.Get(n)
		obj := v.(*jsontree.Object)
		for _, field := range []string{"capabilities", "optionals"} {
			fv, has := obj.Get(field)
			if !has {
				continue
			}
			if err := d.flattenCapabilities(fv, "profiles."+n+"."+field, caps); err != nil {
				return nil, err
			}
		}
	}

	return &InternalDeps{
		LocalProfiles:     slices.Sorted(maps.Keys(local)),
		LocalCapabilities: slices.Sorted(maps.Keys(caps)),
		ExternalProfiles:  slices.Sorted(maps.Keys(external)),
	}, nil
}

// flattenCapabilities collects capability names from a "capabilities" or
// "optionals" field. Elements are names or arbitrarily nested sequences of
// names; a nested sequence is an alternative group, and flattening keeps
// every alternative.
func (d *Document) flattenCapabilities(v jsontree.Value, path string, into map[string]struct{}) error {
	arr, ok := v.([]jsontree.Value)
	if !ok {
		return newValidationf(ErrInvalidCapabilityShape, d.file.Path, path, "field is not an array")
	}
	stack := slices.Clone(arr)
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch x := item.(type) {
		case string:
			into[x] = struct{}{}
		case []jsontree.Value:
			stack = append(stack, x...)
		default:
			return newValidationf(ErrInvalidCapabilityShape, d.file.Path, path,
				"capability entry has unexpected type %T", item)
		}
	}
	return nil
}

// ProfileCapability ties a capability to the profile whose closure uses it.
// The same capability under two profiles stays distinct.
type ProfileCapability struct {
	Profile    string
	Capability string
}

// Key renders the pair as "profile.capability".
func (pc ProfileCapability) Key() string {
	return pc.Profile + "." + pc.Capability
}

// GlobalDeps is the dependency closure of one profile across the whole
// store. Uses is sorted by profile then capability; UndefinedProfiles
// holds referenced names no document defines.
type GlobalDeps struct {
	Uses              []ProfileCapability
	UndefinedProfiles []string
}

// Porcelain returns the serializable description of the closure.
func (g *GlobalDeps) Porcelain() *jsontree.Object {
	uses := make([]jsontree.Value, len(g.Uses))
	for i, pc := range g.Uses {
		uses[i] = pc.Key()
	}
	obj := jsontree.NewObject()
	obj.Set("uses", uses)
	obj.Set("undefined_profiles", jsontree.Strings(g.UndefinedProfiles))
	return obj
}

// GlobalDeps computes the named profile's closure across every document in
// the store. Each visited profile contributes its in-document capability
// closure under its own name; external references resolve through the
// store and either continue the traversal or land in UndefinedProfiles.
func (s *Store) GlobalDeps(name string) (*GlobalDeps, error) {
	start, err := s.Profile(name)
	if err != nil {
		return nil, err
	}

	uses := make(map[ProfileCapability]struct{})
	undefined := make(map[string]struct{})
	visited := make(map[string]bool)
	stack := []*Profile{start}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[p.Name()] {
			continue
		}
		visited[p.Name()] = true

		deps, err := p.Doc().InternalDeps(p.Name())
		if err != nil {
			return nil, err
		}
		for _, cap := range deps.LocalCapabilities {
			uses[ProfileCapability{Profile: p.Name(), Capability: cap}] = struct{}{}
		}
		for _, ext := range deps.ExternalProfiles {
			if visited[ext] {
				continue
			}
			q, err := s.Profile(ext)
			if err != nil {
				if errors.Is(err, ErrProfileNotFound) {
					undefined[ext] = struct{}{}
					continue
				}
				return nil, err
			}
			stack = append(stack, q)
		}
	}

	pairs := slices.Collect(maps.Keys(uses))
	slices.SortFunc(pairs, func(a, b ProfileCapability) int {
		if c := strings.Compare(a.Profile, b.Profile); c != 0 {
			return c
		}
		return strings.Compare(a.Capability, b.Capability)
	})

	return &GlobalDeps{
		Uses:              pairs,
		UndefinedProfiles: slices.Sorted(maps.Keys(undefined)),
	}, nil
}
