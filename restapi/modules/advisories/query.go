package advisories

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/ortelius/vulnwatch-backend/internal/engine"
	"github.com/ortelius/vulnwatch-backend/model"
	"github.com/ortelius/vulnwatch-backend/util"
)

// Query is the filter, sort and scope selection carried in the query string.
type Query struct {
	Filters model.FilterState
	Sort    model.SortState
	Scope   engine.StatsScope
}

// ParseQuery reads vendor, severity and product (each repeatable), start, end, q,
// sort, dir and stats_scope. Unset parameters leave the dimension unrestricted.
func ParseQuery(c *fiber.Ctx, defaultScope engine.StatsScope) (Query, error) {
	var q Query

	q.Filters.Vendors = queryValues(c, "vendor")
	q.Filters.Products = queryValues(c, "product")
	for _, label := range queryValues(c, "severity") {
		s, err := model.ParseSeverity(label)
		if err != nil {
			return Query{}, err
		}
		q.Filters.Severities = append(q.Filters.Severities, s)
	}

	var err error
	if q.Filters.DateRange.Start, err = queryTime(c, "start"); err != nil {
		return Query{}, err
	}
	if q.Filters.DateRange.End, err = queryTime(c, "end"); err != nil {
		return Query{}, err
	}
	q.Filters.SearchQuery = strings.TrimSpace(c.Query("q"))

	if q.Sort.Field, err = model.ParseSortField(c.Query("sort")); err != nil {
		return Query{}, err
	}
	if q.Sort.Direction, err = model.ParseSortDirection(c.Query("dir")); err != nil {
		return Query{}, err
	}

	if q.Scope, err = engine.ParseStatsScope(c.Query("stats_scope"), defaultScope); err != nil {
		return Query{}, err
	}
	return q, nil
}

func queryValues(c *fiber.Ctx, key string) []string {
	var values []string
	for _, raw := range c.Context().QueryArgs().PeekMulti(key) {
		if v := strings.TrimSpace(string(raw)); v != "" {
			values = append(values, v)
		}
	}
	return values
}

func queryTime(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	t, ok := util.ParseTimestamp(raw)
	if !ok {
		return nil, fmt.Errorf("invalid %s date %q", key, raw)
	}
	return &t, nil
}

// ParseVendorLimit reads vendor_limit: a non-negative integer, DefaultVendorLimit when
// absent, 0 for every vendor.
func ParseVendorLimit(c *fiber.Ctx) (int, error) {
	raw := strings.TrimSpace(c.Query("vendor_limit"))
	if raw == "" {
		return DefaultVendorLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, fmt.Errorf("invalid vendor_limit %q: must be a non-negative integer", raw)
	}
	return limit, nil
}
