package advisories

import (
	"fmt"
	"strings"
	"time"

	"github.com/ortelius/vulnwatch-backend/internal/catalog"
	"github.com/ortelius/vulnwatch-backend/internal/engine"
	"github.com/ortelius/vulnwatch-backend/internal/metrics"
	"github.com/ortelius/vulnwatch-backend/model"
	"github.com/ortelius/vulnwatch-backend/util"
	"github.com/samber/lo"
)

// ResolveAdvisories returns the filtered, sorted table page.
func ResolveAdvisories(cat *catalog.Catalog, args map[string]interface{}) (map[string]interface{}, error) {
	defer metrics.ObserveQuery("graphql_advisories")()

	filters, err := FilterFromArgs(args)
	if err != nil {
		return nil, err
	}

	field, err := model.ParseSortField(stringArg(args, "sort"))
	if err != nil {
		return nil, err
	}
	direction, err := model.ParseSortDirection(stringArg(args, "direction"))
	if err != nil {
		return nil, err
	}

	all := cat.Snapshot()
	filtered := engine.ApplyFilters(all, filters)
	sorted := engine.SortAdvisories(filtered, model.SortState{Field: field, Direction: direction})

	return map[string]interface{}{
		"advisories":     lo.Map(sorted, func(a model.Advisory, _ int) map[string]interface{} { return advisoryToMap(a) }),
		"total":          len(all),
		"matched":        len(filtered),
		"active_filters": filters.ActiveCount(),
	}, nil
}

// ResolveAdvisory returns one advisory, or nil when the id is unknown.
func ResolveAdvisory(cat *catalog.Catalog, id string) (interface{}, error) {
	a, err := cat.Get(id)
	if err != nil {
		return nil, nil
	}
	return advisoryToMap(a), nil
}

// ResolveFilterOptions returns the picker values.
func ResolveFilterOptions(cat *catalog.Catalog) map[string]interface{} {
	opts := engine.BuildFilterOptions(cat.Snapshot())
	return map[string]interface{}{
		"vendors":  opts.Vendors,
		"products": opts.Products,
		"severities": lo.Map(opts.Severities, func(s model.Severity, _ int) string {
			return string(s)
		}),
	}
}

// FilterFromArgs reads the optional "filter" argument into a FilterState.
func FilterFromArgs(args map[string]interface{}) (model.FilterState, error) {
	var f model.FilterState

	input, ok := args["filter"].(map[string]interface{})
	if !ok {
		return f, nil
	}

	f.Vendors = stringList(input["vendors"])
	f.Products = stringList(input["products"])
	for _, label := range stringList(input["severities"]) {
		s, err := model.ParseSeverity(label)
		if err != nil {
			return model.FilterState{}, err
		}
		f.Severities = append(f.Severities, s)
	}

	var err error
	if f.DateRange.Start, err = timeArg(input, "start"); err != nil {
		return model.FilterState{}, err
	}
	if f.DateRange.End, err = timeArg(input, "end"); err != nil {
		return model.FilterState{}, err
	}
	f.SearchQuery = strings.TrimSpace(stringArg(input, "search"))

	return f, nil
}

func advisoryToMap(a model.Advisory) map[string]interface{} {
	detail := model.NewAdvisoryDetail(a)

	var publishedAt interface{}
	if detail.PublishedAt != nil {
		publishedAt = detail.PublishedAt.Format(time.RFC3339)
	}
	var affected interface{}
	if a.AffectedVersions != nil {
		affected = *a.AffectedVersions
	}

	return map[string]interface{}{
		"id":                a.ID,
		"vendor":            a.Vendor,
		"cve_id":            a.CveID,
		"severity":          string(a.Severity),
		"summary":           a.Summary,
		"headline":          detail.Headline,
		"product":           a.Product,
		"published_date":    a.PublishedDate,
		"published_at":      publishedAt,
		"url":               a.URL,
		"affected_versions": affected,
		"inserted_at":       a.InsertedAt,
	}
}

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

func stringList(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && util.IsNotEmpty(s) {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

func timeArg(args map[string]interface{}, key string) (*time.Time, error) {
	raw := strings.TrimSpace(stringArg(args, key))
	if raw == "" {
		return nil, nil
	}
	t, ok := util.ParseTimestamp(raw)
	if !ok {
		return nil, fmt.Errorf("invalid %s date %q", key, raw)
	}
	return &t, nil
}
