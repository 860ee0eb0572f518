package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleksi/flextime-engine/api"
	"github.com/fleksi/flextime-engine/engine"
	"github.com/fleksi/flextime-engine/store"
)

// fixture is one wired API instance over an in-memory store, with the clock
// pinned to Monday 2025-06-09 14:00 UTC.
type fixture struct {
	store  *store.Memory
	clock  *engine.FixedClock
	server *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	m := store.NewMemory()
	clock := &engine.FixedClock{FixedNow: time.Date(2025, time.June, 9, 14, 0, 0, 0, time.UTC)}
	h := api.NewHandler(m, engine.DefaultSettings(), clock)
	srv := httptest.NewServer(api.NewRouter(h))
	t.Cleanup(srv.Close)
	return &fixture{store: m, clock: clock, server: srv}
}

func (f *fixture) addClosed(t *testing.T, name string, start time.Time, hours float64) {
	t.Helper()
	end := start.Add(time.Duration(hours * float64(time.Hour)))
	_, err := f.store.AppendEntry(context.Background(), store.Entry{
		Name: name, StartTime: start, EndTime: &end,
	})
	require.NoError(t, err)
}

func (f *fixture) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, f.server.URL+path, &buf)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestAPI_CurrentBalance(t *testing.T) {
	// GIVEN: 8h work last Friday (goal 7.5) and 4h so far today
	// WHEN: GET /api/balance/current at 14:00 Monday
	// THEN: Balance covers closed entries; today's hours are reported

	f := newFixture(t)
	f.addClosed(t, "jobb", time.Date(2025, time.June, 6, 8, 0, 0, 0, time.UTC), 8)
	f.addClosed(t, "jobb", time.Date(2025, time.June, 9, 8, 0, 0, 0, time.UTC), 4)

	resp := f.do(t, http.MethodGet, "/api/balance/current", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[map[string]any](t, resp)
	assert.Equal(t, "2025-06-09", body["as_of"])
	// Friday +0.5, Monday 4 - 7.5 = -3.5 -> -3.0 total.
	assert.InDelta(t, -3.0, body["balance"].(float64), 0.0001)
	assert.InDelta(t, 4.0, body["today_hours"].(float64), 0.0001)
}

func TestAPI_BalanceRange(t *testing.T) {
	f := newFixture(t)
	f.addClosed(t, "jobb", time.Date(2025, time.June, 2, 8, 0, 0, 0, time.UTC), 8.5)

	resp := f.do(t, http.MethodGet, "/api/balance?from=2025-06-01&to=2025-06-07", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[map[string]any](t, resp)
	assert.InDelta(t, 1.0, body["balance"].(float64), 0.0001)
}

func TestAPI_BalanceRange_BadDates(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, http.MethodGet, "/api/balance?from=junk&to=2025-06-07", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/balance?from=2025-06-07&to=2025-06-01", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_Stats(t *testing.T) {
	f := newFixture(t)
	f.addClosed(t, "jobb", time.Date(2025, time.June, 2, 8, 0, 0, 0, time.UTC), 8)
	f.addClosed(t, "ferie", time.Date(2025, time.June, 3, 8, 0, 0, 0, time.UTC), 7.5)

	resp := f.do(t, http.MethodGet, "/api/stats/month", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[map[string]any](t, resp)
	assert.Equal(t, "month", body["timeframe"])
	assert.InDelta(t, 15.5, body["total_hours"].(float64), 0.0001)

	categories := body["categories"].(map[string]any)
	assert.Contains(t, categories, "jobb")
	assert.Contains(t, categories, "ferie")

	bad := f.do(t, http.MethodGet, "/api/stats/quarter", nil)
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

func TestAPI_Goal(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, http.MethodGet, "/api/goal/2025-06-09", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	assert.InDelta(t, 7.5, body["goal"].(float64), 0.0001)

	// Saturday.
	resp = f.do(t, http.MethodGet, "/api/goal/2025-06-14", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decode[map[string]any](t, resp)
	assert.Zero(t, body["goal"].(float64))

	bad := f.do(t, http.MethodGet, "/api/goal/tomorrow", nil)
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

func TestAPI_Day(t *testing.T) {
	f := newFixture(t)
	f.addClosed(t, "jobb", time.Date(2025, time.June, 9, 8, 0, 0, 0, time.UTC), 8)

	resp := f.do(t, http.MethodGet, "/api/days/2025-06-09", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[map[string]any](t, resp)
	assert.InDelta(t, 7.5, body["goal"].(float64), 0.0001)
	assert.InDelta(t, 8.0, body["worked"].(float64), 0.0001)
	assert.InDelta(t, 0.5, body["delta"].(float64), 0.0001)
	assert.Len(t, body["entries"].([]any), 1)
}

func TestAPI_EntryLifecycle(t *testing.T) {
	// GIVEN: An empty store
	// WHEN: Creating, listing and deleting an entry over HTTP
	// THEN: Each step round-trips and the engine sees the changes

	f := newFixture(t)

	created := f.do(t, http.MethodPost, "/api/entries", map[string]any{
		"name":       "jobb",
		"start_time": "2025-06-09T08:00:00Z",
		"end_time":   "2025-06-09T16:00:00Z",
	})
	require.Equal(t, http.StatusCreated, created.StatusCode)
	entry := decode[map[string]any](t, created)
	id := int64(entry["id"].(float64))

	list := f.do(t, http.MethodGet, "/api/entries", nil)
	require.Equal(t, http.StatusOK, list.StatusCode)
	assert.Len(t, decode[[]any](t, list), 1)

	// The rebuilt engine reflects the new entry.
	balance := f.do(t, http.MethodGet, "/api/balance/current", nil)
	body := decode[map[string]any](t, balance)
	assert.InDelta(t, 0.5, body["balance"].(float64), 0.0001)

	deleted := f.do(t, http.MethodDelete, fmt.Sprintf("/api/entries/%d", id), nil)
	assert.Equal(t, http.StatusNoContent, deleted.StatusCode)

	missing := f.do(t, http.MethodDelete, fmt.Sprintf("/api/entries/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestAPI_CreateEntry_Validation(t *testing.T) {
	f := newFixture(t)

	noName := f.do(t, http.MethodPost, "/api/entries", map[string]any{
		"start_time": "2025-06-09T08:00:00Z",
	})
	assert.Equal(t, http.StatusBadRequest, noName.StatusCode)

	badTime := f.do(t, http.MethodPost, "/api/entries", map[string]any{
		"name":       "jobb",
		"start_time": "yesterday",
	})
	assert.Equal(t, http.StatusBadRequest, badTime.StatusCode)
}

func TestAPI_TimerLifecycle(t *testing.T) {
	f := newFixture(t)

	started := f.do(t, http.MethodPost, "/api/timer/start", map[string]any{"name": "jobb"})
	require.Equal(t, http.StatusCreated, started.StatusCode)

	// Second start conflicts.
	conflict := f.do(t, http.MethodPost, "/api/timer/start", map[string]any{"name": "jobb"})
	assert.Equal(t, http.StatusConflict, conflict.StatusCode)

	// The running timer shows up in the ongoing figure.
	f.clock.SetNow(f.clock.FixedNow.Add(2 * time.Hour))
	balance := f.do(t, http.MethodGet, "/api/balance/current", nil)
	body := decode[map[string]any](t, balance)
	assert.InDelta(t, 2.0, body["ongoing_hours"].(float64), 0.0001)

	stopped := f.do(t, http.MethodPost, "/api/timer/stop", nil)
	require.Equal(t, http.StatusOK, stopped.StatusCode)
	entry := decode[map[string]any](t, stopped)
	assert.NotNil(t, entry["end_time"])

	again := f.do(t, http.MethodPost, "/api/timer/stop", nil)
	assert.Equal(t, http.StatusConflict, again.StatusCode)
}

func TestAPI_Validation(t *testing.T) {
	f := newFixture(t)
	// A 17h session trips the very-long-session warning.
	f.addClosed(t, "jobb", time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC), 17)

	resp := f.do(t, http.MethodGet, "/api/validation", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[map[string]any](t, resp)
	assert.Equal(t, float64(1), body["entries_checked"])
	assert.Equal(t, float64(1), body["warnings"])
	assert.Len(t, body["issues"].([]any), 1)
}

func TestAPI_Holidays(t *testing.T) {
	// GIVEN: No declarations yet
	// WHEN: PUT replaces the text, then GET reads it back
	// THEN: The parsed declarations and load status round-trip, and the goal
	//       resolver picks up the new calendar

	f := newFixture(t)

	put := f.do(t, http.MethodPut, "/api/holidays", map[string]any{
		"text": "- 2025-06-10: helligdag: Public holiday\n",
	})
	require.Equal(t, http.StatusOK, put.StatusCode)
	status := decode[map[string]any](t, put)
	assert.Equal(t, true, status["success"])
	assert.Equal(t, float64(1), status["count"])

	get := f.do(t, http.MethodGet, "/api/holidays", nil)
	require.Equal(t, http.StatusOK, get.StatusCode)
	body := decode[map[string]any](t, get)
	assert.Contains(t, body["text"], "2025-06-10")
	assert.Len(t, body["holidays"].([]any), 1)

	// Tuesday June 10 now has a zero goal.
	goal := f.do(t, http.MethodGet, "/api/goal/2025-06-10", nil)
	goalBody := decode[map[string]any](t, goal)
	assert.Zero(t, goalBody["goal"].(float64))
}

func TestAPI_Averages(t *testing.T) {
	f := newFixture(t)
	f.addClosed(t, "jobb", time.Date(2025, time.June, 5, 8, 0, 0, 0, time.UTC), 8)
	f.addClosed(t, "jobb", time.Date(2025, time.June, 6, 8, 0, 0, 0, time.UTC), 7)

	resp := f.do(t, http.MethodGet, "/api/averages", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[map[string]any](t, resp)
	assert.Equal(t, float64(2), body["days_counted"])
	assert.InDelta(t, 7.5, body["hours_per_day"].(float64), 0.0001)
}

func TestAPI_Groups(t *testing.T) {
	f := newFixture(t)
	f.addClosed(t, "jobb", time.Date(2025, time.June, 2, 8, 0, 0, 0, time.UTC), 8)

	resp := f.do(t, http.MethodGet, "/api/groups", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[map[string]any](t, resp)
	require.Contains(t, body, "2025-06")
}
