package registry

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/linyaa-kiwi/vk-tower/internal/jsontree"
)

// RegistryFile is one file known to the registry. The pair (Type, Name) is
// the file's unique key.
type RegistryFile struct {
	Type Filetype
	Name string
	Path string
}

// FileFromPath validates path and derives the registry name for the given
// kind. The path must be absolute and refer to a regular file. XML files
// must be named exactly "vk.xml" and take the full filename as their name;
// profile and schema files must end in .json or .json5 and are named by
// their stem.
func FileFromPath(t Filetype, path string) (RegistryFile, error) {
	if !filepath.IsAbs(path) {
		return RegistryFile{}, newValidationf(ErrPathNotAbsolute, path, "path is not absolute")
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return RegistryFile{}, newValidationf(ErrPathNotFile, path, "path is not a regular file")
	}

	base := filepath.Base(path)
	ext := filepath.Ext(base)
	switch t {
	case FiletypeVkXML:
		if ext != ".xml" {
			return RegistryFile{}, newValidationf(ErrInvalidSuffix, path, "registry file has invalid suffix %q", ext)
		}
		if base != "vk.xml" {
			return RegistryFile{}, newValidationf(ErrInvalidName, path, "xml registry file must be named %q", "vk.xml")
		}
		return RegistryFile{Type: t, Name: base, Path: path}, nil
	case FiletypeProfile, FiletypeProfileSchema:
		if ext != ".json" && ext != ".json5" {
			return RegistryFile{}, newValidationf(ErrInvalidSuffix, path, "registry file has invalid suffix %q", ext)
		}
		return RegistryFile{Type: t, Name: strings.TrimSuffix(base, ext), Path: path}, nil
	default:
		return RegistryFile{}, newValidationf(ErrInvalidName, path, "unknown registry filetype %d", int(t))
	}
}

// Porcelain returns the serializable description of the file.
func (f RegistryFile) Porcelain() *jsontree.Object {
	obj := jsontree.NewObject()
	obj.Set("type", f.Type.String())
	obj.Set("name", f.Name)
	obj.Set("path", f.Path)
	return obj
}
