package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/cenkalti/backoff"
	"github.com/gofiber/fiber/v2"
	"github.com/ortelius/vulnwatch-backend/internal/catalog"
	"github.com/ortelius/vulnwatch-backend/internal/engine"
	"github.com/ortelius/vulnwatch-backend/internal/session"
	"github.com/ortelius/vulnwatch-backend/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type switchSource struct {
	records []source.Record
	fail    atomic.Bool
}

func (s *switchSource) Name() string { return "test" }

func (s *switchSource) Load(context.Context) ([]source.Record, error) {
	if s.fail.Load() {
		return nil, errors.New("source offline")
	}
	return s.records, nil
}

func testRecords() []source.Record {
	return []source.Record{
		{ID: "cisco-1", Vendor: "Cisco", CveID: "CVE-2024-20253", Severity: "Critical", Product: "Unified Communications Manager",
			Summary: "Remote code execution in Unified Communications", PublishedDate: "2024-01-10"},
		{ID: "juniper-1", Vendor: "Juniper", CveID: "CVE-2024-21591", Severity: "Low", Product: "Junos OS",
			Summary: "Out-of-bounds write in J-Web", PublishedDate: "2024-02-15"},
		{ID: "cisco-2", Vendor: "Cisco", CveID: "CVE-2024-20272", Severity: "High", Product: "Unity Connection",
			Summary: "Arbitrary file upload", PublishedDate: "2024-01-17"},
		{ID: "forti-1", Vendor: "Fortinet", CveID: "CVE-2024-21762", Severity: "Medium", Product: "FortiOS",
			Summary: "Out-of-bound write in sslvpnd", PublishedDate: "not a date"},
	}
}

func newTestApp(t *testing.T, scope engine.StatsScope) (*fiber.App, *switchSource) {
	t.Helper()
	src := &switchSource{records: testRecords()}
	cat := catalog.New(src, catalog.WithBackOff(func() backoff.BackOff { return &backoff.StopBackOff{} }))
	_, err := cat.Refresh(context.Background())
	require.NoError(t, err)

	app, err := NewFiberApp(cat, session.NewService(session.NewMemoryStore(0)), Options{
		CORSOrigins: "http://localhost:4000",
		StatsScope:  scope,
	})
	require.NoError(t, err)
	return app, src
}

func call(t *testing.T, app *fiber.App, method, target, body string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) == 0 {
		return resp.StatusCode, nil
	}

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

func ids(t *testing.T, rows interface{}) []string {
	t.Helper()
	list, ok := rows.([]interface{})
	require.True(t, ok)
	out := make([]string, 0, len(list))
	for _, row := range list {
		out = append(out, row.(map[string]interface{})["id"].(string))
	}
	return out
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t, engine.ScopeAll)
	status, body := call(t, app, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, float64(4), body["advisories"])
}

func TestMetricsEndpoint(t *testing.T) {
	app, _ := newTestApp(t, engine.ScopeAll)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "vulnwatch_advisories_loaded")
}

func TestListAdvisories(t *testing.T) {
	app, _ := newTestApp(t, engine.ScopeAll)

	status, body := call(t, app, http.MethodGet, "/api/v1/advisories", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(4), body["total"])
	assert.Equal(t, float64(4), body["matched"])
	assert.Equal(t, []string{"juniper-1", "cisco-2", "cisco-1", "forti-1"}, ids(t, body["advisories"]))

	status, body = call(t, app, http.MethodGet, "/api/v1/advisories?severity=critical", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"cisco-1"}, ids(t, body["advisories"]))

	status, body = call(t, app, http.MethodGet, "/api/v1/advisories?vendor=Cisco&vendor=Fortinet&sort=severity&dir=asc", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"cisco-1", "cisco-2", "forti-1"}, ids(t, body["advisories"]))
	assert.Equal(t, float64(2), body["active_filters"])

	status, body = call(t, app, http.MethodGet, "/api/v1/advisories?start=2024-01-10&end=2024-01-17&q=UNITY", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"cisco-2"}, ids(t, body["advisories"]))
}

func TestListAdvisoriesRejectsBadQuery(t *testing.T) {
	app, _ := newTestApp(t, engine.ScopeAll)
	for _, target := range []string{
		"/api/v1/advisories?severity=Severe",
		"/api/v1/advisories?sort=summary",
		"/api/v1/advisories?dir=up",
		"/api/v1/advisories?start=2024-13-45&end=2024-01-01",
		"/api/v1/advisories?stats_scope=visible",
	} {
		status, body := call(t, app, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, status, target)
		assert.Equal(t, false, body["success"], target)
	}
}

func TestGetAdvisory(t *testing.T) {
	app, _ := newTestApp(t, engine.ScopeAll)

	status, body := call(t, app, http.MethodGet, "/api/v1/advisories/juniper-1", "")
	require.Equal(t, http.StatusOK, status)
	advisory := body["advisory"].(map[string]interface{})
	assert.Equal(t, "CVE-2024-21591", advisory["cve_id"])
	assert.Equal(t, "Out-of-bounds write in J-Web", advisory["headline"])
	assert.Equal(t, "2024-02-15T00:00:00Z", advisory["published_at"])

	status, body = call(t, app, http.MethodGet, "/api/v1/advisories/forti-1", "")
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, body["advisory"].(map[string]interface{})["published_at"])

	status, _ = call(t, app, http.MethodGet, "/api/v1/advisories/unknown", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestStats(t *testing.T) {
	app, _ := newTestApp(t, engine.ScopeAll)

	status, body := call(t, app, http.MethodGet, "/api/v1/stats?vendor=Cisco", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "all", body["stats_scope"])
	overview := body["overview"].(map[string]interface{})
	assert.Equal(t, float64(4), overview["total"])
	assert.Equal(t, float64(2), overview["medium_low"])
	assert.Len(t, body["timeline"], 3)

	status, body = call(t, app, http.MethodGet, "/api/v1/stats?vendor=Cisco&stats_scope=filtered&vendor_limit=1", "")
	require.Equal(t, http.StatusOK, status)
	severity := body["severity"].(map[string]interface{})
	assert.Equal(t, float64(1), severity["critical"])
	assert.Equal(t, float64(1), severity["high"])
	assert.Equal(t, float64(0), severity["low"])
	vendors := body["vendors"].([]interface{})
	require.Len(t, vendors, 1)
	assert.Equal(t, "Cisco", vendors[0].(map[string]interface{})["vendor"])
}

func TestStatsRejectsInvalidVendorLimit(t *testing.T) {
	app, _ := newTestApp(t, engine.ScopeAll)

	for _, limit := range []string{"abc", "-1", "2.5"} {
		status, body := call(t, app, http.MethodGet, "/api/v1/stats?vendor_limit="+limit, "")
		assert.Equal(t, http.StatusBadRequest, status, limit)
		assert.Equal(t, false, body["success"], limit)
		assert.Contains(t, body["message"], "vendor_limit", limit)
	}

	status, body := call(t, app, http.MethodGet, "/api/v1/stats?vendor_limit=0", "")
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["vendors"])
}

func TestStatsDefaultScopeFromConfig(t *testing.T) {
	app, _ := newTestApp(t, engine.ScopeFiltered)

	status, body := call(t, app, http.MethodGet, "/api/v1/stats?vendor=Juniper", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "filtered", body["stats_scope"])
	assert.Equal(t, float64(1), body["overview"].(map[string]interface{})["total"])
}

func TestFilterOptions(t *testing.T) {
	app, _ := newTestApp(t, engine.ScopeAll)

	status, body := call(t, app, http.MethodGet, "/api/v1/filters/options", "")
	require.Equal(t, http.StatusOK, status)
	opts := body["options"].(map[string]interface{})
	assert.Equal(t, []interface{}{"Cisco", "Fortinet", "Juniper"}, opts["vendors"])
	assert.Equal(t, []interface{}{"Critical", "High", "Medium", "Low"}, opts["severities"])
}

func TestSessionFlow(t *testing.T) {
	app, _ := newTestApp(t, engine.ScopeAll)

	status, body := call(t, app, http.MethodPost, "/api/v1/sessions", "")
	require.Equal(t, http.StatusCreated, status)
	id := body["session"].(map[string]interface{})["id"].(string)
	base := "/api/v1/sessions/" + id

	status, body = call(t, app, http.MethodPatch, base+"/filters", `{"vendors":["Cisco"],"search_query":"unified"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), body["active_filters"])

	status, body = call(t, app, http.MethodGet, base+"/view", "")
	require.Equal(t, http.StatusOK, status)
	view := body["view"].(map[string]interface{})
	assert.Equal(t, []string{"cisco-1"}, ids(t, view["advisories"]))
	assert.Equal(t, float64(1), view["matched"])
	assert.Equal(t, float64(4), view["stats"].(map[string]interface{})["overview"].(map[string]interface{})["total"])

	status, body = call(t, app, http.MethodGet, base+"/view?stats_scope=filtered", "")
	require.Equal(t, http.StatusOK, status)
	view = body["view"].(map[string]interface{})
	assert.Equal(t, float64(1), view["stats"].(map[string]interface{})["overview"].(map[string]interface{})["total"])

	status, _ = call(t, app, http.MethodPost, base+"/filters/clear", "")
	require.Equal(t, http.StatusOK, status)

	status, body = call(t, app, http.MethodPost, base+"/filters/toggle", `{"dimension":"severity","value":"High"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["active_filters"])

	status, body = call(t, app, http.MethodPost, base+"/sort/severity", "")
	require.Equal(t, http.StatusOK, status)
	sort := body["session"].(map[string]interface{})["sort"].(map[string]interface{})
	assert.Equal(t, "severity", sort["field"])
	assert.Equal(t, "desc", sort["direction"])

	status, body = call(t, app, http.MethodGet, base+"/view", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"cisco-2"}, ids(t, body["view"].(map[string]interface{})["advisories"]))

	status, _ = call(t, app, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = call(t, app, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSessionErrors(t *testing.T) {
	app, _ := newTestApp(t, engine.ScopeAll)

	status, body := call(t, app, http.MethodPost, "/api/v1/sessions", "")
	require.Equal(t, http.StatusCreated, status)
	base := "/api/v1/sessions/" + body["session"].(map[string]interface{})["id"].(string)

	tests := []struct {
		method, target, body string
		want                 int
	}{
		{http.MethodPatch, base + "/filters", `{"severities":["Severe"]}`, http.StatusBadRequest},
		{http.MethodPatch, base + "/filters", `{"vendors":`, http.StatusBadRequest},
		{http.MethodPost, base + "/filters/toggle", `{"dimension":"region","value":"emea"}`, http.StatusBadRequest},
		{http.MethodPost, base + "/filters/toggle", `{"dimension":"vendor"}`, http.StatusBadRequest},
		{http.MethodPost, base + "/sort/summary", "", http.StatusBadRequest},
		{http.MethodGet, base + "/view?stats_scope=visible", "", http.StatusBadRequest},
		{http.MethodGet, "/api/v1/sessions/00000000-0000-0000-0000-000000000000/view", "", http.StatusNotFound},
		{http.MethodPost, "/api/v1/sessions/nope/filters/clear", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		status, body := call(t, app, tt.method, tt.target, tt.body)
		assert.Equal(t, tt.want, status, tt.method+" "+tt.target)
		assert.Equal(t, false, body["success"], tt.method+" "+tt.target)
	}
}

func TestSync(t *testing.T) {
	app, src := newTestApp(t, engine.ScopeAll)

	status, body := call(t, app, http.MethodPost, "/api/v1/sync", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(4), body["loaded"])

	src.fail.Store(true)
	status, body = call(t, app, http.MethodPost, "/api/v1/sync", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Contains(t, body["message"], "source offline")

	status, body = call(t, app, http.MethodGet, "/api/v1/sync/status", "")
	require.Equal(t, http.StatusOK, status)
	st := body["status"].(map[string]interface{})
	assert.Equal(t, float64(4), st["count"])
	assert.Contains(t, st["last_error"], "source offline")

	status, body = call(t, app, http.MethodGet, "/api/v1/advisories", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(4), body["total"])
}

func TestGraphQLEndpoint(t *testing.T) {
	app, _ := newTestApp(t, engine.ScopeAll)

	status, body := call(t, app, http.MethodPost, "/api/v1/graphql",
		`{"query":"query Cards($scope: String) { dashboardOverview(scope: $scope) { total critical } }","operationName":"Cards","variables":{"scope":"all"}}`)
	require.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]interface{})["dashboardOverview"].(map[string]interface{})
	assert.Equal(t, float64(4), data["total"])
	assert.Equal(t, float64(1), data["critical"])

	status, _ = call(t, app, http.MethodPost, "/api/v1/graphql", `{"query":`)
	assert.Equal(t, http.StatusBadRequest, status)
}
