package dashboard

import (
	"fmt"

	"github.com/ortelius/vulnwatch-backend/graphql/modules/advisories"
	"github.com/ortelius/vulnwatch-backend/internal/catalog"
	"github.com/ortelius/vulnwatch-backend/internal/engine"
	"github.com/ortelius/vulnwatch-backend/internal/metrics"
	"github.com/ortelius/vulnwatch-backend/model"
)

// ResolveOverview returns the stat card numbers.
func ResolveOverview(cat *catalog.Catalog, defaultScope engine.StatsScope, args map[string]interface{}) (map[string]interface{}, error) {
	defer metrics.ObserveQuery("graphql_overview")()

	base, scope, err := scopedAdvisories(cat, defaultScope, args)
	if err != nil {
		return nil, err
	}

	overview, err := engine.ComputeOverview(base)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"total":      overview.Total,
		"critical":   overview.Critical,
		"high":       overview.High,
		"medium_low": overview.MediumLow,
		"vendors":    overview.Vendors,
		"scope":      string(scope),
	}, nil
}

// ResolveSeverityDistribution returns the count per severity.
func ResolveSeverityDistribution(cat *catalog.Catalog, defaultScope engine.StatsScope, args map[string]interface{}) (map[string]interface{}, error) {
	defer metrics.ObserveQuery("graphql_severity")()

	base, _, err := scopedAdvisories(cat, defaultScope, args)
	if err != nil {
		return nil, err
	}

	stats, err := engine.ComputeSeverityStats(base)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"critical": stats.Critical,
		"high":     stats.High,
		"medium":   stats.Medium,
		"low":      stats.Low,
		"total":    stats.Total(),
	}, nil
}

// ResolveTopVendors returns the limit vendors with the most advisories.
func ResolveTopVendors(cat *catalog.Catalog, defaultScope engine.StatsScope, args map[string]interface{}, limit int) ([]map[string]interface{}, error) {
	defer metrics.ObserveQuery("graphql_vendors")()

	if limit < 0 {
		return nil, fmt.Errorf("limit must not be negative")
	}

	base, _, err := scopedAdvisories(cat, defaultScope, args)
	if err != nil {
		return nil, err
	}

	top := engine.TopVendors(engine.ComputeVendorStats(base), limit)
	results := make([]map[string]interface{}, 0, len(top))
	for _, v := range top {
		results = append(results, map[string]interface{}{
			"vendor": v.Vendor,
			"count":  v.Count,
		})
	}
	return results, nil
}

// ResolveTimeline returns the per-day series in ascending date order.
func ResolveTimeline(cat *catalog.Catalog, defaultScope engine.StatsScope, args map[string]interface{}) ([]map[string]interface{}, error) {
	defer metrics.ObserveQuery("graphql_timeline")()

	base, _, err := scopedAdvisories(cat, defaultScope, args)
	if err != nil {
		return nil, err
	}

	timeline, err := engine.ComputeTimelineStats(base)
	if err != nil {
		return nil, err
	}

	results := make([]map[string]interface{}, 0, len(timeline))
	for _, t := range timeline {
		results = append(results, map[string]interface{}{
			"date":     t.Date,
			"count":    t.Count,
			"critical": t.Critical,
			"high":     t.High,
			"medium":   t.Medium,
			"low":      t.Low,
		})
	}
	return results, nil
}

// scopedAdvisories picks the advisories an aggregate is computed over.
func scopedAdvisories(cat *catalog.Catalog, defaultScope engine.StatsScope, args map[string]interface{}) ([]model.Advisory, engine.StatsScope, error) {
	raw, _ := args["scope"].(string)
	scope, err := engine.ParseStatsScope(raw, defaultScope)
	if err != nil {
		return nil, "", err
	}

	all := cat.Snapshot()
	if scope == engine.ScopeAll {
		return all, scope, nil
	}

	filters, err := advisories.FilterFromArgs(args)
	if err != nil {
		return nil, "", err
	}
	return engine.ApplyFilters(all, filters), scope, nil
}
