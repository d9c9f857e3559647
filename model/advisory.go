package model

import (
	"time"

	"github.com/ortelius/vulnwatch-backend/util"
)

// HeadlineLength is the number of summary characters shown as the detail title.
const HeadlineLength = 100

// Advisory is one vendor security advisory. Values are never modified once loaded.
type Advisory struct {
	ID               string   `json:"id" validate:"required"`
	Vendor           string   `json:"vendor" validate:"required"`
	CveID            string   `json:"cve_id" validate:"required"`  // e.g., "CVE-2024-1234"
	Severity         Severity `json:"severity" validate:"required"` // Critical, High, Medium or Low
	Summary          string   `json:"summary"`
	Product          string   `json:"product"`
	PublishedDate    string   `json:"published_date"` // vendor disclosure date, ISO-8601
	URL              string   `json:"url"`
	AffectedVersions *string  `json:"affected_versions,omitempty"` // nil when not specified
	InsertedAt       string   `json:"inserted_at"`                 // when the record entered VulnWatch
}

// Published returns the parsed published date; false when it is malformed.
func (a Advisory) Published() (time.Time, bool) {
	return util.ParseTimestamp(a.PublishedDate)
}

// Inserted returns the parsed insertion timestamp; false when it is malformed.
func (a Advisory) Inserted() (time.Time, bool) {
	return util.ParseTimestamp(a.InsertedAt)
}

// Headline is the summary cut to HeadlineLength characters.
func (a Advisory) Headline() string {
	return util.Truncate(a.Summary, HeadlineLength)
}

// AdvisoryDetail is the advisory as shown in the detail view.
type AdvisoryDetail struct {
	Advisory
	Headline      string     `json:"headline"`
	PublishedAt   *time.Time `json:"published_at"`
	InsertedAtUTC *time.Time `json:"inserted_at_utc"`
}

// NewAdvisoryDetail builds the detail view, leaving unparseable dates nil.
func NewAdvisoryDetail(a Advisory) AdvisoryDetail {
	detail := AdvisoryDetail{Advisory: a, Headline: a.Headline()}
	if t, ok := a.Published(); ok {
		detail.PublishedAt = &t
	}
	if t, ok := a.Inserted(); ok {
		detail.InsertedAtUTC = &t
	}
	return detail
}
