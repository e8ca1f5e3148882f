package presentation

import (
	"github.com/linyaa-kiwi/vk-tower/internal/jsontree"
	"github.com/linyaa-kiwi/vk-tower/internal/profile"
	"github.com/linyaa-kiwi/vk-tower/internal/registry"
)

// FromRegistryFiles converts registry files to their porcelain form
func FromRegistryFiles(files []registry.RegistryFile) []jsontree.Value {
	out := make([]jsontree.Value, len(files))
	for i, f := range files {
		out[i] = f.Porcelain()
	}
	return out
}

// FromProfiles converts profiles to their porcelain form
func FromProfiles(profiles []*profile.Profile) []jsontree.Value {
	out := make([]jsontree.Value, len(profiles))
	for i, p := range profiles {
		out[i] = p.Porcelain()
	}
	return out
}
