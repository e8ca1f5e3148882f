package config

import (
	"path/filepath"
	"slices"

	"github.com/adrg/xdg"

	"github.com/linyaa-kiwi/vk-tower/internal/jsontree"
	"github.com/linyaa-kiwi/vk-tower/internal/log"
)

// Settings is the fully resolved configuration: the config file and flags
// merged with the environment and the XDG base directories. Consumers get
// the debug flag from here; nothing below the CLI reads the environment.
type Settings struct {
	Debug     bool
	DebugFile string
	Format    string

	XDGDataHome string
	XDGDataDirs []string

	IgnoreXDGPaths      bool
	RegistrySystemPaths []string
	RegistryUserPath    string // empty when XDG paths are ignored
	RegistryExtraPaths  []string
	RegistryExtraFiles  []string
}

// Resolve layers the environment over cfg and computes the registry search
// paths. Extra paths from the environment rank before extra paths from the
// config file. cfg is expected to have passed Validate.
func Resolve(cfg Config) Settings {
	s := Settings{
		Debug:       cfg.Debug || ParseEnvBool(EnvDebug, false),
		DebugFile:   cfg.DebugFile,
		Format:      cfg.Format,
		XDGDataHome: xdg.DataHome,
		XDGDataDirs: slices.Clone(xdg.DataDirs),
	}

	s.IgnoreXDGPaths = cfg.IgnoreXDGPaths || ParseEnvBool(EnvIgnoreXDGPaths, false)
	if !s.IgnoreXDGPaths {
		s.RegistryUserPath = filepath.Join(s.XDGDataHome, "vulkan", "registry")
		for _, dir := range s.XDGDataDirs {
			s.RegistrySystemPaths = append(s.RegistrySystemPaths, filepath.Join(dir, "vulkan", "registry"))
		}
	}

	s.RegistryExtraPaths = append(ParseEnvPathList(EnvRegistryPath), cfg.RegistryPaths...)
	s.RegistryExtraFiles = append(ParseEnvPathList(EnvRegistryExtraFiles), cfg.RegistryFiles...)

	log.Debug(log.CatConfig, "settings resolved",
		"extra_paths", len(s.RegistryExtraPaths),
		"extra_files", len(s.RegistryExtraFiles),
		"ignore_xdg_paths", s.IgnoreXDGPaths,
		"debug", s.Debug)
	return s
}

// RegistryPaths returns the registry roots in descending priority: extra
// paths first, then the XDG user path, then the XDG system paths.
func (s Settings) RegistryPaths() []string {
	var paths []string
	paths = append(paths, s.RegistryExtraPaths...)
	if s.RegistryUserPath != "" {
		paths = append(paths, s.RegistryUserPath)
	}
	paths = append(paths, s.RegistrySystemPaths...)
	return paths
}

// Porcelain returns the serializable description of the settings. List
// values are ordered by descending priority.
func (s Settings) Porcelain() *jsontree.Object {
	obj := jsontree.NewObject()
	obj.Set("xdg_data_dirs", jsontree.Strings(s.XDGDataDirs))
	obj.Set("xdg_data_home", s.XDGDataHome)
	obj.Set("registry_ignore_xdg_paths", s.IgnoreXDGPaths)
	obj.Set("registry_system_paths", jsontree.Strings(s.RegistrySystemPaths))
	if s.RegistryUserPath == "" {
		obj.Set("registry_user_path", nil)
	} else {
		obj.Set("registry_user_path", s.RegistryUserPath)
	}
	obj.Set("registry_extra_paths", jsontree.Strings(s.RegistryExtraPaths))
	obj.Set("registry_extra_files", jsontree.Strings(s.RegistryExtraFiles))
	obj.Set("registry_paths", jsontree.Strings(s.RegistryPaths()))
	return obj
}
