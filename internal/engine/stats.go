package engine

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/ortelius/vulnwatch-backend/model"
	"github.com/ortelius/vulnwatch-backend/util"
)

// ComputeSeverityStats counts advisories per severity. An advisory with a severity
// outside the enumeration is a data-integrity error and aborts the count.
func ComputeSeverityStats(advisories []model.Advisory) (model.SeverityStats, error) {
	var stats model.SeverityStats
	for _, a := range advisories {
		if err := stats.Add(a.Severity); err != nil {
			return model.SeverityStats{}, fmt.Errorf("advisory %s: %w", a.ID, err)
		}
	}
	return stats, nil
}

// ComputeVendorStats counts advisories per exact vendor name, in order of first appearance.
func ComputeVendorStats(advisories []model.Advisory) []model.VendorStats {
	index := make(map[string]int)
	stats := make([]model.VendorStats, 0)
	for _, a := range advisories {
		i, ok := index[a.Vendor]
		if !ok {
			i = len(stats)
			index[a.Vendor] = i
			stats = append(stats, model.VendorStats{Vendor: a.Vendor})
		}
		stats[i].Count++
	}
	return stats
}

// TopVendors orders vendor stats by count descending, ties by name, and keeps the
// first n entries. n <= 0 keeps all of them.
func TopVendors(stats []model.VendorStats, n int) []model.VendorStats {
	out := slices.Clone(stats)
	slices.SortStableFunc(out, func(a, b model.VendorStats) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Vendor, b.Vendor)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// ComputeTimelineStats buckets advisories by the UTC day they were published,
// ascending by date. Advisories without a parseable published date are left out.
func ComputeTimelineStats(advisories []model.Advisory) ([]model.TimelineStats, error) {
	buckets := make(map[string]*model.TimelineStats)
	for _, a := range advisories {
		if !a.Severity.Valid() {
			return nil, fmt.Errorf("advisory %s: %w: %q", a.ID, model.ErrUnknownSeverity, a.Severity)
		}

		published, ok := a.Published()
		if !ok {
			continue
		}

		day := util.DayOf(published)
		bucket, ok := buckets[day]
		if !ok {
			bucket = &model.TimelineStats{Date: day}
			buckets[day] = bucket
		}

		bucket.Count++
		switch a.Severity {
		case model.SeverityCritical:
			bucket.Critical++
		case model.SeverityHigh:
			bucket.High++
		case model.SeverityMedium:
			bucket.Medium++
		case model.SeverityLow:
			bucket.Low++
		}
	}

	timeline := make([]model.TimelineStats, 0, len(buckets))
	for _, b := range buckets {
		timeline = append(timeline, *b)
	}
	slices.SortFunc(timeline, func(a, b model.TimelineStats) int {
		return cmp.Compare(a.Date, b.Date)
	})
	return timeline, nil
}

// ComputeOverview derives the stat card numbers.
func ComputeOverview(advisories []model.Advisory) (model.Overview, error) {
	sev, err := ComputeSeverityStats(advisories)
	if err != nil {
		return model.Overview{}, err
	}
	return model.Overview{
		Total:     len(advisories),
		Critical:  sev.Critical,
		High:      sev.High,
		MediumLow: sev.Medium + sev.Low,
		Vendors:   len(ComputeVendorStats(advisories)),
	}, nil
}
