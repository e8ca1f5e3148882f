// Package profile loads profile documents lazily and resolves profile
// dependencies within a document and across the whole store.
package profile

import (
	"fmt"

	"github.com/linyaa-kiwi/vk-tower/internal/jsontree"
	"github.com/linyaa-kiwi/vk-tower/internal/registry"
)

// Profile is one committed profile definition. Its tree lives inside the
// owning document.
type Profile struct {
	name string
	doc  *Document
}

func (p *Profile) Name() string {
	return p.name
}

func (p *Profile) Doc() *Document {
	return p.doc
}

func (p *Profile) File() registry.RegistryFile {
	return p.doc.File()
}

// Tree returns the profile's object within its document. A profile removed
// from the document by a later trim reports ErrProfileNotFound.
func (p *Profile) Tree() (*jsontree.Object, error) {
	obj, ok, err := p.doc.profileObject(p.name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("profile %q in %q: %w", p.name, p.doc.File().Path, ErrProfileNotFound)
	}
	return obj, nil
}

// Porcelain returns the serializable description of the profile.
func (p *Profile) Porcelain() *jsontree.Object {
	obj := jsontree.NewObject()
	obj.Set("name", p.name)
	obj.Set("file", p.doc.File().Path)
	return obj
}
