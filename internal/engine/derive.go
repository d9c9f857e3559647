package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ortelius/vulnwatch-backend/model"
)

// StatsScope selects the advisories the aggregates are computed over.
type StatsScope string

const (
	// ScopeAll aggregates the whole snapshot regardless of filters.
	ScopeAll StatsScope = "all"
	// ScopeFiltered aggregates only the advisories matching the filters.
	ScopeFiltered StatsScope = "filtered"
)

// ErrUnknownScope is returned for anything but "all" or "filtered".
var ErrUnknownScope = errors.New("unknown stats scope")

// ParseStatsScope validates a scope name; empty yields def.
func ParseStatsScope(v string, def StatsScope) (StatsScope, error) {
	switch s := StatsScope(strings.ToLower(strings.TrimSpace(v))); s {
	case "":
		return def, nil
	case ScopeAll, ScopeFiltered:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScope, v)
	}
}

// Aggregates bundles the chart and card data for one advisory set.
type Aggregates struct {
	Overview model.Overview        `json:"overview"`
	Severity model.SeverityStats   `json:"severity"`
	Vendors  []model.VendorStats   `json:"vendors"`
	Timeline []model.TimelineStats `json:"timeline"`
}

// Aggregate computes every aggregate over advisories. Vendors are ordered by count.
func Aggregate(advisories []model.Advisory) (Aggregates, error) {
	overview, err := ComputeOverview(advisories)
	if err != nil {
		return Aggregates{}, err
	}
	severity, err := ComputeSeverityStats(advisories)
	if err != nil {
		return Aggregates{}, err
	}
	timeline, err := ComputeTimelineStats(advisories)
	if err != nil {
		return Aggregates{}, err
	}
	return Aggregates{
		Overview: overview,
		Severity: severity,
		Vendors:  TopVendors(ComputeVendorStats(advisories), 0),
		Timeline: timeline,
	}, nil
}

// View is everything the dashboard renders for one filter and sort selection.
type View struct {
	Advisories []model.Advisory  `json:"advisories"`
	Total      int               `json:"total"`
	Matched    int               `json:"matched"`
	Filters    model.FilterState `json:"filters"`
	Sort       model.SortState   `json:"sort"`
	Scope      StatsScope        `json:"stats_scope"`
	Stats      Aggregates        `json:"stats"`
}

// Derive filters and sorts all, then aggregates either all or the filtered rows
// depending on scope.
func Derive(all []model.Advisory, filters model.FilterState, sort model.SortState, scope StatsScope) (View, error) {
	filtered := ApplyFilters(all, filters)

	base := all
	if scope == ScopeFiltered {
		base = filtered
	}
	stats, err := Aggregate(base)
	if err != nil {
		return View{}, err
	}

	return View{
		Advisories: SortAdvisories(filtered, sort),
		Total:      len(all),
		Matched:    len(filtered),
		Filters:    filters,
		Sort:       sort,
		Scope:      scope,
		Stats:      stats,
	}, nil
}
