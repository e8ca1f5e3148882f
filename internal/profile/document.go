package profile

import (
	"github.com/linyaa-kiwi/vk-tower/internal/jsontree"
	"github.com/linyaa-kiwi/vk-tower/internal/log"
	"github.com/linyaa-kiwi/vk-tower/internal/registry"
)

// Document is one profile registry file and its parsed tree. Parsing is
// lazy and happens at most once; transforms mutate the parsed tree in
// place.
type Document struct {
	file registry.RegistryFile
	tree jsontree.Value
	read bool
}

// NewDocument wraps a discovered profile file without reading it.
func NewDocument(file registry.RegistryFile) *Document {
	return &Document{file: file}
}

// File returns the registry file backing this document.
func (d *Document) File() registry.RegistryFile {
	return d.file
}

// Tree returns the document's parsed tree, reading the file on first use.
func (d *Document) Tree() (jsontree.Value, error) {
	if d.read {
		return d.tree, nil
	}
	tree, err := jsontree.LoadFile(d.file.Path)
	if err != nil {
		return nil, err
	}
	d.tree = tree
	d.read = true
	log.Debug(log.CatProfile, "document parsed", "file", d.file.Path)
	return d.tree, nil
}

// ProfileNames returns the names this document defines, in document order.
func (d *Document) ProfileNames() ([]string, error) {
	table, err := d.profilesTable()
	if err != nil || table == nil {
		return nil, err
	}
	return table.Keys(), nil
}

// StripOptionals deletes the "optionals" member from every profile object.
// Deleting an absent member is a no-op, so the transform is idempotent.
func (d *Document) StripOptionals() error {
	table, err := d.profilesTable()
	if err != nil || table == nil {
		return err
	}
	for name, v := range table.Members() {
		obj, ok := v.(*jsontree.Object)
		if !ok {
			return newValidationf(ErrInvalidProfileShape, d.file.Path, "profiles."+name,
				"profile entry is not an object")
		}
		obj.Delete("optionals")
	}
	return nil
}

// TrimToProfile deletes every profile entry outside the named profile's
// internal dependency closure and every capability entry outside its local
// capability set.
func (d *Document) TrimToProfile(name string) error {
	deps, err := d.InternalDeps(name)
	if err != nil {
		return err
	}

	keepProfiles := make(map[string]struct{}, len(deps.LocalProfiles)+len(deps.ExternalProfiles))
	for _, n := range deps.LocalProfiles {
		keepProfiles[n] = struct{}{}
	}
	for _, n := range deps.ExternalProfiles {
		keepProfiles[n] = struct{}{}
	}
	keepCaps := make(map[string]struct{}, len(deps.LocalCapabilities))
	for _, n := range deps.LocalCapabilities {
		keepCaps[n] = struct{}{}
	}

	table, err := d.profilesTable()
	if err != nil {
		return err
	}
	if table != nil {
		for _, key := range table.Keys() {
			if _, keep := keepProfiles[key]; !keep {
				table.Delete(key)
			}
		}
	}

	caps, err := d.capabilitiesTable()
	if err != nil {
		return err
	}
	if caps != nil {
		for _, key := range caps.Keys() {
			if _, keep := keepCaps[key]; !keep {
				caps.Delete(key)
			}
		}
	}

	log.Debug(log.CatProfile, "document trimmed", "file", d.file.Path, "profile", name,
		"profiles_kept", len(keepProfiles), "capabilities_kept", len(keepCaps))
	return nil
}

// rootObject returns the document's top-level object.
func (d *Document) rootObject() (*jsontree.Object, error) {
	tree, err := d.Tree()
	if err != nil {
		return nil, err
	}
	obj, ok := tree.(*jsontree.Object)
	if !ok {
		return nil, newValidationf(ErrInvalidDocShape, d.file.Path, "",
			"document root is not an object")
	}
	return obj, nil
}

// profilesTable returns the document's "profiles" member, or nil when the
// document defines none.
func (d *Document) profilesTable() (*jsontree.Object, error) {
	root, err := d.rootObject()
	if err != nil {
		return nil, err
	}
	v, ok := root.Get("profiles")
	if !ok {
		return nil, nil
	}
	obj, ok := v.(*jsontree.Object)
	if !ok {
		return nil, newValidationf(ErrInvalidDocShape, d.file.Path, "profiles",
			"profiles member is not an object")
	}
	return obj, nil
}

// capabilitiesTable returns the document's "capabilities" member, or nil
// when absent.
func (d *Document) capabilitiesTable() (*jsontree.Object, error) {
	root, err := d.rootObject()
	if err != nil {
		return nil, err
	}
	v, ok := root.Get("capabilities")
	if !ok {
		return nil, nil
	}
	obj, ok := v.(*jsontree.Object)
	if !ok {
		return nil, newValidationf(ErrInvalidDocShape, d.file.Path, "capabilities",
			"capabilities member is not an object")
	}
	return obj, nil
}

// profileObject returns the named profile's object within this document.
func (d *Document) profileObject(name string) (*jsontree.Object, bool, error) {
	table, err := d.profilesTable()
	if err != nil || table == nil {
		return nil, false, err
	}
	v, ok := table.Get(name)
	if !ok {
		return nil, false, nil
	}
	obj, isObj := v.(*jsontree.Object)
	if !isObj {
		return nil, false, newValidationf(ErrInvalidProfileShape, d.file.Path, "profiles."+name,
			"profile entry is not an object")
	}
	return obj, true, nil
}
