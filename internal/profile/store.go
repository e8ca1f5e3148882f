package profile

import (
	"fmt"
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/linyaa-kiwi/vk-tower/internal/log"
	"github.com/linyaa-kiwi/vk-tower/internal/registry"
)

// Store exposes the profiles defined across a registry's profile documents.
// Documents load lazily, in discovery order, each committed atomically:
// either every profile a document defines becomes visible or none does.
// The committed table is ordered by load, so enumeration is stable across
// restarts of the sequence.
type Store struct {
	reg      *registry.Registry
	profiles *orderedmap.OrderedMap[string, *Profile]
	docs     []*Document
	next     int
}

// NewStore builds a store over the registry's visible profile files.
func NewStore(reg *registry.Registry) *Store {
	files := reg.ProfileFiles()
	docs := make([]*Document, len(files))
	for i, f := range files {
		docs[i] = NewDocument(f)
	}
	return &Store{
		reg:      reg,
		profiles: orderedmap.New[string, *Profile](),
		docs:     docs,
	}
}

// Profiles returns a restartable lazy sequence of every profile in the
// store: first the already-committed profiles in load order, then the
// profiles of each remaining document as it loads. A load failure yields
// the error and ends the sequence.
func (s *Store) Profiles() iter.Seq2[*Profile, error] {
	return func(yield func(*Profile, error) bool) {
		for pair := s.profiles.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Value, nil) {
				return
			}
		}
		for s.next < len(s.docs) {
			added, err := s.loadNext()
			if err != nil {
				yield(nil, err)
				return
			}
			for _, p := range added {
				if !yield(p, nil) {
					return
				}
			}
		}
	}
}

// Profile returns the named profile, resuming lazy loading until the name
// is found or every document is loaded. Absence wraps ErrProfileNotFound.
func (s *Store) Profile(name string) (*Profile, error) {
	if p, ok := s.profiles.Get(name); ok {
		return p, nil
	}
	for s.next < len(s.docs) {
		if _, err := s.loadNext(); err != nil {
			return nil, err
		}
		if p, ok := s.profiles.Get(name); ok {
			return p, nil
		}
	}
	return nil, fmt.Errorf("profile %q: %w", name, ErrProfileNotFound)
}

// loadNext parses the next unloaded document and commits its profiles.
// The collision check runs over the whole document before anything is
// committed, so a redefinition never leaves a half-visible document.
func (s *Store) loadNext() ([]*Profile, error) {
	doc := s.docs[s.next]
	names, err := doc.ProfileNames()
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		if prior, ok := s.profiles.Get(name); ok {
			return nil, &RedefinitionError{Name: name, Prior: prior, Path: doc.File().Path}
		}
	}
	added := make([]*Profile, 0, len(names))
	for _, name := range names {
		p := &Profile{name: name, doc: doc}
		s.profiles.Set(name, p)
		added = append(added, p)
	}
	s.next++
	log.Debug(log.CatProfile, "document committed", "file", doc.File().Path, "profiles", len(added))
	return added, nil
}

// ProfileFiles lists the visible profile files.
func (s *Store) ProfileFiles() []registry.RegistryFile {
	return s.reg.ProfileFiles()
}

// SchemaFiles lists the visible profile schema files.
func (s *Store) SchemaFiles() []registry.RegistryFile {
	return s.reg.ProfileSchemaFiles()
}

// VkXMLFile returns the highest-priority vk.xml. Absence wraps
// registry.ErrFileNotFound.
func (s *Store) VkXMLFile() (registry.RegistryFile, error) {
	files := s.reg.VkXMLFiles()
	if len(files) == 0 {
		return registry.RegistryFile{}, fmt.Errorf("vk.xml: %w", registry.ErrFileNotFound)
	}
	return files[0], nil
}
