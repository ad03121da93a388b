package enums

import (
	"fmt"
	"strings"
)

// SortMode selects the total order applied to a filtered deal list.
type SortMode string

const (
	SortModeDiscount SortMode = "discount"
	SortModeSavings  SortMode = "savings"
	SortModePrice    SortMode = "price"
)

// DefaultSortMode is what the browse view opens with.
const DefaultSortMode = SortModeDiscount

var validSortModes = []SortMode{
	SortModeDiscount,
	SortModeSavings,
	SortModePrice,
}

// String implements fmt.Stringer.
func (s SortMode) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SortMode.
func (s SortMode) IsValid() bool {
	for _, candidate := range validSortModes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSortMode converts raw input into a SortMode. Empty input yields the default.
func ParseSortMode(value string) (SortMode, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return DefaultSortMode, nil
	}
	for _, candidate := range validSortModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sort mode %q", value)
}
