package model

import (
	"fmt"
	"slices"
	"time"

	"github.com/samber/lo"
)

// DateRange bounds the published date. Both ends must be set for the range to apply.
type DateRange struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

// Active reports whether both bounds are present.
func (r DateRange) Active() bool {
	return r.Start != nil && r.End != nil
}

// Contains reports whether t lies in [Start, End]. An inactive range contains everything.
func (r DateRange) Contains(t time.Time) bool {
	if !r.Active() {
		return true
	}
	return !t.Before(*r.Start) && !t.After(*r.End)
}

// FilterState is the dashboard filter selection. The zero value restricts nothing.
// Treat it as immutable: every change goes through Apply or one of the helpers
// below, which return a new value and leave the receiver untouched.
type FilterState struct {
	Vendors     []string   `json:"vendors"`
	Severities  []Severity `json:"severities"`
	Products    []string   `json:"products"`
	DateRange   DateRange  `json:"date_range"`
	SearchQuery string     `json:"search_query"`
}

// FilterPatch is a partial FilterState update. Nil fields are left as they are.
type FilterPatch struct {
	Vendors     *[]string   `json:"vendors"`
	Severities  *[]Severity `json:"severities"`
	Products    *[]string   `json:"products"`
	DateRange   *DateRange  `json:"date_range"`
	SearchQuery *string     `json:"search_query"`
}

// Validate rejects severities outside the enumeration.
func (p FilterPatch) Validate() error {
	if p.Severities == nil {
		return nil
	}
	for _, s := range *p.Severities {
		if !s.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownSeverity, s)
		}
	}
	return nil
}

// Clone returns a deep copy of f.
func (f FilterState) Clone() FilterState {
	return FilterState{
		Vendors:     slices.Clone(f.Vendors),
		Severities:  slices.Clone(f.Severities),
		Products:    slices.Clone(f.Products),
		DateRange:   cloneRange(f.DateRange),
		SearchQuery: f.SearchQuery,
	}
}

// Apply returns a new FilterState with the patch fields replaced.
func (f FilterState) Apply(patch FilterPatch) FilterState {
	next := f.Clone()
	if patch.Vendors != nil {
		next.Vendors = slices.Clone(*patch.Vendors)
	}
	if patch.Severities != nil {
		next.Severities = slices.Clone(*patch.Severities)
	}
	if patch.Products != nil {
		next.Products = slices.Clone(*patch.Products)
	}
	if patch.DateRange != nil {
		next.DateRange = cloneRange(*patch.DateRange)
	}
	if patch.SearchQuery != nil {
		next.SearchQuery = *patch.SearchQuery
	}
	return next
}

// ToggleVendor adds vendor to the selection, or removes it when already present.
func (f FilterState) ToggleVendor(vendor string) FilterState {
	vendors := toggle(f.Vendors, vendor)
	return f.Apply(FilterPatch{Vendors: &vendors})
}

// ToggleSeverity adds or removes a severity.
func (f FilterState) ToggleSeverity(severity Severity) FilterState {
	severities := toggle(f.Severities, severity)
	return f.Apply(FilterPatch{Severities: &severities})
}

// ToggleProduct adds or removes a product.
func (f FilterState) ToggleProduct(product string) FilterState {
	products := toggle(f.Products, product)
	return f.Apply(FilterPatch{Products: &products})
}

// Cleared returns the all-empty filter state.
func (f FilterState) Cleared() FilterState {
	return FilterState{}
}

// ActiveCount is the number shown on the filter badge: one per selected vendor,
// severity and product, plus one for a start date and one for a search query.
func (f FilterState) ActiveCount() int {
	n := len(f.Vendors) + len(f.Severities) + len(f.Products)
	if f.DateRange.Start != nil {
		n++
	}
	if f.SearchQuery != "" {
		n++
	}
	return n
}

// IsEmpty reports whether no dimension restricts the result.
func (f FilterState) IsEmpty() bool {
	return len(f.Vendors) == 0 && len(f.Severities) == 0 && len(f.Products) == 0 &&
		!f.DateRange.Active() && f.SearchQuery == ""
}

func toggle[T comparable](values []T, v T) []T {
	if lo.Contains(values, v) {
		return lo.Without(values, v)
	}
	return append(slices.Clone(values), v)
}

func cloneRange(r DateRange) DateRange {
	var out DateRange
	if r.Start != nil {
		start := *r.Start
		out.Start = &start
	}
	if r.End != nil {
		end := *r.End
		out.End = &end
	}
	return out
}
