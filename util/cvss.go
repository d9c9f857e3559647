package util

import (
	"strings"

	gocvss30 "github.com/pandatix/go-cvss/30"
	gocvss31 "github.com/pandatix/go-cvss/31"
	gocvss40 "github.com/pandatix/go-cvss/40"
)

// CalculateCVSSScore calculates the CVSS base score from a vector string.
// Unsupported or malformed vectors score 0.
func CalculateCVSSScore(vectorStr string) float64 {
	vectorStr = strings.TrimSpace(vectorStr)
	if vectorStr == "" || !strings.HasPrefix(vectorStr, "CVSS:") {
		return 0
	}
	switch {
	case strings.HasPrefix(vectorStr, "CVSS:3.1"):
		if cvss31, err := gocvss31.ParseVector(vectorStr); err == nil {
			return cvss31.BaseScore()
		}
	case strings.HasPrefix(vectorStr, "CVSS:3.0"):
		if cvss30, err := gocvss30.ParseVector(vectorStr); err == nil {
			return cvss30.BaseScore()
		}
	case strings.HasPrefix(vectorStr, "CVSS:4.0"):
		if cvss40, err := gocvss40.ParseVector(vectorStr); err == nil {
			return cvss40.Score()
		}
	}
	return 0
}
