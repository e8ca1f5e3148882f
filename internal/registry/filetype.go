package registry

import "fmt"

// Filetype classifies a registry file. The declaration order is a total
// order: kind-by-kind enumerations walk the kinds in this order.
type Filetype int

const (
	FiletypeVkXML Filetype = iota
	FiletypeProfile
	FiletypeProfileSchema
)

// Filetypes returns every kind in declaration order.
func Filetypes() []Filetype {
	return []Filetype{FiletypeVkXML, FiletypeProfile, FiletypeProfileSchema}
}

func (t Filetype) String() string {
	switch t {
	case FiletypeVkXML:
		return "vkxml"
	case FiletypeProfile:
		return "profile"
	case FiletypeProfileSchema:
		return "profile_schema"
	default:
		return fmt.Sprintf("Filetype(%d)", int(t))
	}
}
