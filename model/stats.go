package model

import "fmt"

// SeverityStats counts advisories per severity.
type SeverityStats struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// Add counts one advisory of severity s.
func (s *SeverityStats) Add(sev Severity) error {
	switch sev {
	case SeverityCritical:
		s.Critical++
	case SeverityHigh:
		s.High++
	case SeverityMedium:
		s.Medium++
	case SeverityLow:
		s.Low++
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSeverity, sev)
	}
	return nil
}

// Total is the sum of the four buckets.
func (s SeverityStats) Total() int {
	return s.Critical + s.High + s.Medium + s.Low
}

// VendorStats is the advisory count of one vendor.
type VendorStats struct {
	Vendor string `json:"vendor"`
	Count  int    `json:"count"`
}

// TimelineStats counts advisories published on one UTC calendar day.
type TimelineStats struct {
	Date     string `json:"date"` // YYYY-MM-DD
	Count    int    `json:"count"`
	Critical int    `json:"critical"`
	High     int    `json:"high"`
	Medium   int    `json:"medium"`
	Low      int    `json:"low"`
}

// Overview holds the numbers on the dashboard stat cards.
type Overview struct {
	Total     int `json:"total"`
	Critical  int `json:"critical"`
	High      int `json:"high"`
	MediumLow int `json:"medium_low"`
	Vendors   int `json:"vendors"`
}
