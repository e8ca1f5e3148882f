package vkxml

import (
	"fmt"
	"strings"
)

// LimitType is one tag of a member's limittype attribute.
type LimitType string

const (
	LimitTypeBitmask LimitType = "bitmask"
	LimitTypeBits    LimitType = "bits"
	LimitTypeExact   LimitType = "exact"
	LimitTypeMax     LimitType = "max"
	LimitTypeMin     LimitType = "min"
	LimitTypeMul     LimitType = "mul"
	LimitTypeNoauto  LimitType = "noauto"
	LimitTypeNot     LimitType = "not"
	LimitTypePot     LimitType = "pot"
	LimitTypeRange   LimitType = "range"
	LimitTypeStruct  LimitType = "struct"
)

// primaryLimitTypes may open a limittype attribute.
var primaryLimitTypes = map[LimitType]bool{
	LimitTypeBitmask: true,
	LimitTypeBits:    true,
	LimitTypeExact:   true,
	LimitTypeMax:     true,
	LimitTypeMin:     true,
	LimitTypeNoauto:  true,
	LimitTypeNot:     true,
	LimitTypeRange:   true,
	LimitTypeStruct:  true,
}

// secondaryLimitTypes may only qualify a primary tag.
var secondaryLimitTypes = map[LimitType]bool{
	LimitTypeMul: true,
	LimitTypePot: true,
}

// ParseLimitTypes parses a comma-separated limittype attribute into its
// ordered tags: one primary tag, optionally qualified by one secondary tag.
func ParseLimitTypes(attr string) ([]LimitType, error) {
	parts := strings.Split(attr, ",")
	if len(parts) > 2 {
		return nil, fmt.Errorf("limittype %q has %d tags, want at most 2", attr, len(parts))
	}

	first := LimitType(parts[0])
	if !primaryLimitTypes[first] {
		return nil, fmt.Errorf("unknown limittype %q", parts[0])
	}
	out := []LimitType{first}

	if len(parts) == 2 {
		second := LimitType(parts[1])
		if !secondaryLimitTypes[second] {
			return nil, fmt.Errorf("limittype %q cannot follow %q", parts[1], parts[0])
		}
		out = append(out, second)
	}
	return out, nil
}
