package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestParseSeverity(t *testing.T) {
	for _, label := range []string{"Critical", "CRITICAL", "critical", " critical "} {
		s, err := ParseSeverity(label)
		require.NoError(t, err, label)
		assert.Equal(t, SeverityCritical, s)
	}

	_, err := ParseSeverity("Important")
	assert.True(t, errors.Is(err, ErrUnknownSeverity))
}

func TestSeverityRank(t *testing.T) {
	assert.Equal(t, 0, SeverityCritical.Rank())
	assert.Equal(t, 1, SeverityHigh.Rank())
	assert.Equal(t, 2, SeverityMedium.Rank())
	assert.Equal(t, 3, SeverityLow.Rank())
	assert.Equal(t, UnknownRank, Severity("Moderate").Rank())
	assert.False(t, Severity("Moderate").Valid())
}

func TestSeverityFromScore(t *testing.T) {
	tests := []struct {
		score float64
		want  Severity
		ok    bool
	}{
		{0, "", false},
		{0.1, SeverityLow, true},
		{3.9, SeverityLow, true},
		{4.0, SeverityMedium, true},
		{6.9, SeverityMedium, true},
		{7.0, SeverityHigh, true},
		{8.9, SeverityHigh, true},
		{9.0, SeverityCritical, true},
		{10, SeverityCritical, true},
	}
	for _, tt := range tests {
		got, ok := SeverityFromScore(tt.score)
		assert.Equal(t, tt.ok, ok, "score %v", tt.score)
		assert.Equal(t, tt.want, got, "score %v", tt.score)
	}
}

func TestFilterStateApplyIsCopyOnWrite(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	initial := FilterState{
		Vendors:   []string{"Cisco"},
		DateRange: DateRange{Start: &start},
	}

	next := initial.Apply(FilterPatch{
		Vendors:     &[]string{"Juniper", "Fortinet"},
		SearchQuery: ptr("rce"),
	})

	assert.Equal(t, []string{"Cisco"}, initial.Vendors)
	assert.Empty(t, initial.SearchQuery)
	assert.Equal(t, []string{"Juniper", "Fortinet"}, next.Vendors)
	assert.Equal(t, "rce", next.SearchQuery)

	// untouched fields are carried over but not shared
	require.NotNil(t, next.DateRange.Start)
	assert.True(t, next.DateRange.Start.Equal(start))
	assert.NotSame(t, initial.DateRange.Start, next.DateRange.Start)

	next.Vendors[0] = "mutated"
	assert.Equal(t, []string{"Cisco"}, initial.Vendors)
}

func TestFilterStateApplyTable(t *testing.T) {
	end := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		initial  FilterState
		patch    FilterPatch
		expected FilterState
	}{
		{
			name:     "empty patch keeps state",
			initial:  FilterState{Products: []string{"IOS XE"}},
			patch:    FilterPatch{},
			expected: FilterState{Products: []string{"IOS XE"}},
		},
		{
			name:     "replace severities",
			initial:  FilterState{Severities: []Severity{SeverityLow}},
			patch:    FilterPatch{Severities: &[]Severity{SeverityCritical, SeverityHigh}},
			expected: FilterState{Severities: []Severity{SeverityCritical, SeverityHigh}},
		},
		{
			name:     "clear vendors with empty list",
			initial:  FilterState{Vendors: []string{"Cisco"}},
			patch:    FilterPatch{Vendors: &[]string{}},
			expected: FilterState{Vendors: []string{}},
		},
		{
			name:     "set date range",
			initial:  FilterState{},
			patch:    FilterPatch{DateRange: &DateRange{End: &end}},
			expected: FilterState{DateRange: DateRange{End: &end}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.initial.Apply(tt.patch))
		})
	}
}

func TestFilterStateToggles(t *testing.T) {
	f := FilterState{}
	f1 := f.ToggleVendor("Cisco")
	f2 := f1.ToggleVendor("Juniper")
	f3 := f2.ToggleVendor("Cisco")

	assert.Empty(t, f.Vendors)
	assert.Equal(t, []string{"Cisco"}, f1.Vendors)
	assert.Equal(t, []string{"Cisco", "Juniper"}, f2.Vendors)
	assert.Equal(t, []string{"Juniper"}, f3.Vendors)

	s := f.ToggleSeverity(SeverityHigh).ToggleSeverity(SeverityLow).ToggleSeverity(SeverityHigh)
	assert.Equal(t, []Severity{SeverityLow}, s.Severities)

	p := f.ToggleProduct("FortiOS")
	assert.Equal(t, []string{"FortiOS"}, p.Products)
}

func TestFilterStateActiveCountAndCleared(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f := FilterState{
		Vendors:     []string{"Cisco", "Juniper"},
		Severities:  []Severity{SeverityCritical},
		Products:    []string{"Junos OS"},
		DateRange:   DateRange{Start: &start},
		SearchQuery: "overflow",
	}
	assert.Equal(t, 6, f.ActiveCount())
	assert.False(t, f.IsEmpty())

	// whitespace-only query counts
	assert.Equal(t, 1, FilterState{SearchQuery: "  "}.ActiveCount())

	cleared := f.Cleared()
	assert.Equal(t, 0, cleared.ActiveCount())
	assert.True(t, cleared.IsEmpty())
	assert.Len(t, f.Vendors, 2)
}

func TestDateRangeContainsIsInclusive(t *testing.T) {
	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	r := DateRange{Start: &start, End: &end}

	assert.True(t, r.Contains(start))
	assert.True(t, r.Contains(end))
	assert.False(t, r.Contains(start.Add(-time.Nanosecond)))
	assert.False(t, r.Contains(end.Add(time.Nanosecond)))

	partial := DateRange{Start: &start}
	assert.False(t, partial.Active())
	assert.True(t, partial.Contains(start.AddDate(-5, 0, 0)))
}

func TestFilterPatchValidate(t *testing.T) {
	assert.NoError(t, FilterPatch{}.Validate())
	assert.NoError(t, FilterPatch{Severities: &[]Severity{SeverityMedium}}.Validate())

	err := FilterPatch{Severities: &[]Severity{"Severe"}}.Validate()
	assert.ErrorIs(t, err, ErrUnknownSeverity)
}

func TestSortToggle(t *testing.T) {
	s := DefaultSort()
	assert.Equal(t, SortState{Field: SortByPublishedDate, Direction: SortDesc}, s)

	s = s.Toggle(SortByPublishedDate)
	assert.Equal(t, SortAsc, s.Direction)

	s = s.Toggle(SortByPublishedDate)
	assert.Equal(t, SortDesc, s.Direction)

	s = s.Toggle(SortBySeverity)
	assert.Equal(t, SortState{Field: SortBySeverity, Direction: SortDesc}, s)

	s = s.Toggle(SortBySeverity).Toggle(SortByVendor)
	assert.Equal(t, SortState{Field: SortByVendor, Direction: SortDesc}, s)
}

func TestParseSortInput(t *testing.T) {
	f, err := ParseSortField("")
	require.NoError(t, err)
	assert.Equal(t, SortByPublishedDate, f)

	f, err = ParseSortField("CVE_ID")
	require.NoError(t, err)
	assert.Equal(t, SortByCveID, f)

	_, err = ParseSortField("summary")
	assert.ErrorIs(t, err, ErrUnknownSortField)

	d, err := ParseSortDirection("ASC")
	require.NoError(t, err)
	assert.Equal(t, SortAsc, d)

	_, err = ParseSortDirection("up")
	assert.ErrorIs(t, err, ErrUnknownSortDirection)
}

func TestSeverityStatsAdd(t *testing.T) {
	var s SeverityStats
	for _, sev := range []Severity{SeverityCritical, SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow} {
		require.NoError(t, s.Add(sev))
	}
	assert.Equal(t, SeverityStats{Critical: 2, High: 1, Medium: 1, Low: 1}, s)
	assert.Equal(t, 5, s.Total())

	assert.ErrorIs(t, s.Add("Unknown"), ErrUnknownSeverity)
	assert.Equal(t, 5, s.Total())
}

func TestAdvisoryDatesAndDetail(t *testing.T) {
	long := "A vulnerability in the web UI of Cisco IOS XE Software could allow an unauthenticated, remote attacker to create an account."
	a := Advisory{
		ID:            "1",
		Summary:       long,
		PublishedDate: "2024-01-10",
		InsertedAt:    "2024-13-45",
	}

	pub, ok := a.Published()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), pub)

	_, ok = a.Inserted()
	assert.False(t, ok)

	detail := NewAdvisoryDetail(a)
	assert.Equal(t, long[:HeadlineLength]+"...", detail.Headline)
	require.NotNil(t, detail.PublishedAt)
	assert.Nil(t, detail.InsertedAtUTC)
	assert.Nil(t, detail.AffectedVersions)
}
