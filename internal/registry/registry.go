// Package registry discovers Vulkan registry files under a prioritized list
// of registry roots and indexes them by (kind, name).
package registry

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/linyaa-kiwi/vk-tower/internal/log"
)

// profileStemRe matches the stem of a discoverable profile file.
var profileStemRe = regexp.MustCompile(`^(?:VP|vp)_.+$`)

// Registry indexes the files discovered under registry roots. Roots earlier
// in the list take priority: when two roots provide a file with the same
// (kind, name) key, the earlier root's file wins and the later one is
// recorded as shadowed.
//
// For a given kind the files are collected exactly once, at construction,
// so queries stay consistent over the registry's lifetime.
type Registry struct {
	files    map[Filetype]*orderedmap.OrderedMap[string, RegistryFile]
	scanned  []RegistryFile
	shadowed []RegistryFile
}

// New scans each root in priority order. Roots must be absolute; roots that
// do not exist on disk contribute nothing. The scan order within a root is
// lexical, so discovery is deterministic.
func New(roots []string) (*Registry, error) {
	r := &Registry{
		files: map[Filetype]*orderedmap.OrderedMap[string, RegistryFile]{
			FiletypeVkXML:         orderedmap.New[string, RegistryFile](),
			FiletypeProfile:       orderedmap.New[string, RegistryFile](),
			FiletypeProfileSchema: orderedmap.New[string, RegistryFile](),
		},
	}
	for _, root := range roots {
		if !filepath.IsAbs(root) {
			return nil, fmt.Errorf("registry root is not absolute: %q", root)
		}
		if err := r.scanRoot(root); err != nil {
			return nil, fmt.Errorf("failed to scan registry root %q: %w", root, err)
		}
	}
	log.Debug(log.CatRegistry, "registry scan complete",
		"roots", len(roots), "files", len(r.scanned), "shadowed", len(r.shadowed))
	return r, nil
}

func (r *Registry) scanRoot(root string) error {
	if err := r.collectVkXMLFile(root); err != nil {
		return err
	}
	if err := r.collectProfileFiles(root); err != nil {
		return err
	}
	return r.collectProfileSchemaFiles(root)
}

// collectVkXMLFile looks for the exact file "vk.xml" in the root.
func (r *Registry) collectVkXMLFile(root string) error {
	path := filepath.Join(root, "vk.xml")
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil
	}
	return r.addFile(FiletypeVkXML, path)
}

// collectProfileFiles descends into "profiles/", keeping files whose stem
// looks like a profile name and whose suffix is a JSON flavor.
func (r *Registry) collectProfileFiles(root string) error {
	dir := filepath.Join(root, "profiles")
	if _, err := os.Stat(dir); err != nil {
		return nil
	}
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		base := filepath.Base(path)
		ext := filepath.Ext(base)
		if ext != ".json" && ext != ".json5" {
			return nil
		}
		if !profileStemRe.MatchString(strings.TrimSuffix(base, ext)) {
			return nil
		}
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			return nil
		}
		return r.addFile(FiletypeProfile, path)
	})
}

// collectProfileSchemaFiles picks up "schemas/profiles-*" without descending
// into subdirectories.
func (r *Registry) collectProfileSchemaFiles(root string) error {
	dir := filepath.Join(root, "schemas")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "profiles-") {
			continue
		}
		ext := filepath.Ext(name)
		if ext != ".json" && ext != ".json5" {
			continue
		}
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if err := r.addFile(FiletypeProfileSchema, path); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) addFile(t Filetype, path string) error {
	file, err := FileFromPath(t, path)
	if err != nil {
		return err
	}
	r.scanned = append(r.scanned, file)
	table := r.files[t]
	if prior, exists := table.Get(file.Name); exists {
		r.shadowed = append(r.shadowed, file)
		log.Debug(log.CatRegistry, "registry file shadowed",
			"type", t.String(), "name", file.Name, "path", path, "winner", prior.Path)
		return nil
	}
	table.Set(file.Name, file)
	return nil
}

// AddVkXMLFile registers an extra XML registry file. Files added earlier
// keep priority, exactly as with scanned roots.
func (r *Registry) AddVkXMLFile(path string) error {
	return r.addFile(FiletypeVkXML, path)
}

// AddProfileFile registers an extra profile file.
func (r *Registry) AddProfileFile(path string) error {
	return r.addFile(FiletypeProfile, path)
}

// AddProfileSchemaFile registers an extra profile schema file.
func (r *Registry) AddProfileSchemaFile(path string) error {
	return r.addFile(FiletypeProfileSchema, path)
}

// Files returns the highest-priority file per (kind, name) key, kind by
// kind, in discovery order within each kind.
func (r *Registry) Files() []RegistryFile {
	var out []RegistryFile
	for _, t := range Filetypes() {
		out = append(out, r.filesOf(t)...)
	}
	return out
}

// FilesAll returns every discovered file in discovery order, shadowed
// files included.
func (r *Registry) FilesAll() []RegistryFile {
	out := make([]RegistryFile, len(r.scanned))
	copy(out, r.scanned)
	return out
}

// VkXMLFiles returns the visible XML registry files.
func (r *Registry) VkXMLFiles() []RegistryFile {
	return r.filesOf(FiletypeVkXML)
}

// ProfileFiles returns the visible profile files.
func (r *Registry) ProfileFiles() []RegistryFile {
	return r.filesOf(FiletypeProfile)
}

// ProfileSchemaFiles returns the visible profile schema files.
func (r *Registry) ProfileSchemaFiles() []RegistryFile {
	return r.filesOf(FiletypeProfileSchema)
}

func (r *Registry) filesOf(t Filetype) []RegistryFile {
	table := r.files[t]
	out := make([]RegistryFile, 0, table.Len())
	for pair := table.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}
