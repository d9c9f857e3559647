// Package engine filters, sorts and aggregates advisory snapshots. Every function is
// pure: inputs are never modified and results do not share backing arrays with them.
package engine

import (
	"strings"

	"github.com/ortelius/vulnwatch-backend/model"
	"github.com/samber/lo"
	"golang.org/x/text/cases"
)

// ApplyFilters returns the advisories matching every active dimension of filters,
// in their original order. Within a dimension any listed value matches.
//
// A date range applies only when both bounds are set; advisories whose published
// date cannot be parsed never match an active range but are unaffected otherwise.
func ApplyFilters(advisories []model.Advisory, filters model.FilterState) []model.Advisory {
	m := newMatcher(filters)
	out := make([]model.Advisory, 0, len(advisories))
	for _, a := range advisories {
		if m.match(a) {
			out = append(out, a)
		}
	}
	return out
}

type matcher struct {
	filters model.FilterState
	fold    cases.Caser
	query   string
}

func newMatcher(filters model.FilterState) *matcher {
	m := &matcher{filters: filters, fold: cases.Fold()}
	if filters.SearchQuery != "" {
		m.query = m.fold.String(filters.SearchQuery)
	}
	return m
}

func (m *matcher) match(a model.Advisory) bool {
	f := m.filters

	if len(f.Vendors) > 0 && !lo.Contains(f.Vendors, a.Vendor) {
		return false
	}

	if len(f.Severities) > 0 && !lo.Contains(f.Severities, a.Severity) {
		return false
	}

	if len(f.Products) > 0 && !lo.Contains(f.Products, a.Product) {
		return false
	}

	if f.DateRange.Active() {
		published, ok := a.Published()
		if !ok || !f.DateRange.Contains(published) {
			return false
		}
	}

	if m.query != "" && !strings.Contains(m.fold.String(searchText(a)), m.query) {
		return false
	}

	return true
}

// searchText is the text matched by the free-text search box.
func searchText(a model.Advisory) string {
	return strings.Join([]string{a.CveID, a.Vendor, a.Product, a.Summary}, " ")
}
