package filing

import (
	"strings"

	"github.com/docfiling/backend/internal/domain/shared"
)

// MaxRegionNameLength mirrors the width of the regions.name column
const MaxRegionNameLength = 100

// Region is an administrative grouping of folders
type Region struct {
	ID   uint
	Name string
}

// NewRegion creates a region after trimming and validating the name
func NewRegion(name string) (*Region, error) {
	name, err := normalizeRegionName(name)
	if err != nil {
		return nil, err
	}
	return &Region{Name: name}, nil
}

// Rename changes the region name. An empty name leaves the region untouched and
// reports false, matching the edit form which only renames when a value is given.
func (r *Region) Rename(name string) (bool, error) {
	if strings.TrimSpace(name) == "" {
		return false, nil
	}
	name, err := normalizeRegionName(name)
	if err != nil {
		return false, err
	}
	if name == r.Name {
		return false, nil
	}
	r.Name = name
	return true, nil
}

func normalizeRegionName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", shared.NewValidationError("Region name is required")
	}
	if len([]rune(name)) > MaxRegionNameLength {
		return "", shared.NewValidationError("Region name cannot exceed 100 characters")
	}
	return name, nil
}
