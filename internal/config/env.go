package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Environment variables consumed by Resolve. XDG_DATA_HOME and
// XDG_DATA_DIRS are consumed indirectly through the xdg library.
const (
	EnvDebug              = "VK_TOWER_DEBUG"
	EnvRegistryPath       = "VK_TOWER_REGISTRY_PATH"
	EnvRegistryExtraFiles = "VK_TOWER_REGISTRY_EXTRA_FILES"
	EnvIgnoreXDGPaths     = "VK_TOWER_REGISTRY_IGNORE_XDG_PATHS"
)

// ParseEnvBool reads a boolean environment variable. "true" and "1" parse
// true, "false" and "0" parse false, case-insensitively; any other value,
// including unset, yields def.
func ParseEnvBool(name string, def bool) bool {
	switch strings.ToLower(os.Getenv(name)) {
	case "true", "1":
		return true
	case "false", "0":
		return false
	default:
		return def
	}
}

// ParseEnvPathList reads a separator-delimited path list following the XDG
// base directory rules: empty entries and relative paths are ignored. An
// unset variable yields nil.
func ParseEnvPathList(name string) []string {
	var paths []string
	for _, p := range filepath.SplitList(os.Getenv(name)) {
		if p == "" || !filepath.IsAbs(p) {
			continue
		}
		paths = append(paths, p)
	}
	return paths
}
