package model

import (
	"errors"
	"fmt"
	"strings"
)

// SortField is a sortable advisory column.
type SortField string

// Sortable columns.
const (
	SortByPublishedDate SortField = "published_date"
	SortBySeverity      SortField = "severity"
	SortByVendor        SortField = "vendor"
	SortByCveID         SortField = "cve_id"
)

// SortDirection is asc or desc.
type SortDirection string

// Sort directions.
const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

var (
	// ErrUnknownSortField is returned for columns that cannot be sorted.
	ErrUnknownSortField = errors.New("unknown sort field")
	// ErrUnknownSortDirection is returned for anything but asc/desc.
	ErrUnknownSortDirection = errors.New("unknown sort direction")
)

// SortState is the table ordering.
type SortState struct {
	Field     SortField     `json:"field"`
	Direction SortDirection `json:"direction"`
}

// DefaultSort is newest first.
func DefaultSort() SortState {
	return SortState{Field: SortByPublishedDate, Direction: SortDesc}
}

// Toggle flips the direction when field is already the sort column and otherwise
// switches to field in descending order.
func (s SortState) Toggle(field SortField) SortState {
	if s.Field == field {
		return SortState{Field: field, Direction: s.Direction.Flip()}
	}
	return SortState{Field: field, Direction: SortDesc}
}

// Flip returns the opposite direction.
func (d SortDirection) Flip() SortDirection {
	if d == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// ParseSortField validates a column name; empty means the default column.
func ParseSortField(v string) (SortField, error) {
	switch f := SortField(strings.ToLower(strings.TrimSpace(v))); f {
	case "":
		return SortByPublishedDate, nil
	case SortByPublishedDate, SortBySeverity, SortByVendor, SortByCveID:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSortField, v)
	}
}

// ParseSortDirection validates a direction; empty means desc.
func ParseSortDirection(v string) (SortDirection, error) {
	switch d := SortDirection(strings.ToLower(strings.TrimSpace(v))); d {
	case "":
		return SortDesc, nil
	case SortAsc, SortDesc:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSortDirection, v)
	}
}
