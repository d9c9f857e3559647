// Package model defines the advisory records, filter and sort state, and the
// aggregate shapes served to the dashboard.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// Severity is the vendor-assigned rating of an advisory.
type Severity string

// Severity values in rank order.
const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
)

// ErrUnknownSeverity marks a severity outside Critical, High, Medium, Low.
var ErrUnknownSeverity = errors.New("unknown severity")

// UnknownRank is the rank given to unrecognized severities; it sorts after Low.
const UnknownRank = 4

var severityRank = map[Severity]int{
	SeverityCritical: 0,
	SeverityHigh:     1,
	SeverityMedium:   2,
	SeverityLow:      3,
}

// Severities returns the four severities in rank order.
func Severities() []Severity {
	return []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}
}

// Rank returns 0 for Critical through 3 for Low, UnknownRank otherwise.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return UnknownRank
}

// Valid reports whether s is one of the four enumerated values.
func (s Severity) Valid() bool {
	_, ok := severityRank[s]
	return ok
}

// ParseSeverity maps a label to its Severity, ignoring case and surrounding space.
func ParseSeverity(label string) (Severity, error) {
	label = strings.TrimSpace(label)
	for _, s := range Severities() {
		if strings.EqualFold(label, string(s)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSeverity, label)
}

// SeverityFromScore returns the severity rating for a given CVSS base score.
// A score of 0 (or below) has no rating.
func SeverityFromScore(score float64) (Severity, bool) {
	switch {
	case score <= 0:
		return "", false
	case score < 4.0:
		return SeverityLow, true
	case score < 7.0:
		return SeverityMedium, true
	case score < 9.0:
		return SeverityHigh, true
	default:
		return SeverityCritical, true
	}
}
