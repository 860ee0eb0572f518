/*
handlers.go - HTTP handlers over the balance engine

PURPOSE:
  Exposes the engine via REST. The handler owns one engine instance built
  from the store's current contents; any mutation (entry CRUD, timer
  start/stop, holiday text replacement) marks it dirty and the next read
  rebuilds it from raw entries, per the engine's reconstruct-don't-
  invalidate contract.

ENDPOINTS:
  GET    /api/balance?from=&to=     Running balance over a range
  GET    /api/balance/current       Floor->today balance + today/week hours
  GET    /api/stats/{timeframe}     Statistics (total|year|month)
  GET    /api/averages              Average hours per day/week
  GET    /api/validation            Data-quality report
  GET    /api/goal/{date}           Resolved daily goal
  GET    /api/days/{date}           One day's entries, goal, flextime
  GET    /api/groups                Month -> week display rollup
  GET    /api/entries               List raw entries
  POST   /api/entries               Create a closed or open entry
  DELETE /api/entries/{id}          Delete an entry
  POST   /api/timer/start           Open a running entry
  POST   /api/timer/stop            Close the running entry
  GET    /api/holidays              Declaration text + parsed declarations
  PUT    /api/holidays              Replace declaration text

ERROR HANDLING:
  400 invalid input, 404 missing entry, 409 timer conflicts, 500 store
  failures. Engine data-quality problems are never HTTP errors; they are
  the body of /api/validation.
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/fleksi/flextime-engine/engine"
	"github.com/fleksi/flextime-engine/store"
)

// Handler holds the store and the lazily rebuilt engine.
type Handler struct {
	Store    store.EntryStore
	Settings engine.Settings
	Clock    engine.Clock

	mu            sync.Mutex
	eng           *engine.Engine
	holidayStatus engine.LoadStatus
}

// NewHandler creates a handler. A nil clock defaults to the system clock.
func NewHandler(s store.EntryStore, settings engine.Settings, clock engine.Clock) *Handler {
	if clock == nil {
		clock = engine.SystemClock{}
	}
	return &Handler{Store: s, Settings: settings, Clock: clock}
}

// engine returns the current engine, rebuilding it from the store when a
// mutation has invalidated it.
func (h *Handler) engine(r *http.Request) (*engine.Engine, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.eng != nil {
		return h.eng, nil
	}

	ctx := r.Context()
	raw, err := store.RawEntries(ctx, h.Store)
	if err != nil {
		return nil, err
	}

	eng := engine.New(h.Settings, engine.WithClock(h.Clock))
	h.holidayStatus = eng.LoadHolidays(ctx, store.HolidaySource(h.Store))
	if h.holidayStatus.Warning != "" {
		log.Warnf("holiday load: %s", h.holidayStatus.Warning)
	}
	eng.ProcessEntries(raw)

	h.eng = eng
	return eng, nil
}

// invalidate discards the engine after a store mutation.
func (h *Handler) invalidate() {
	h.mu.Lock()
	h.eng = nil
	h.mu.Unlock()
}

// =============================================================================
// BALANCE
// =============================================================================

// GetBalance returns the running balance over [from, to].
// GET /api/balance?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	eng, err := h.engine(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load entries", err)
		return
	}

	from, err := engine.ParseDay(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid 'from' date (use YYYY-MM-DD)", err)
		return
	}
	to, err := engine.ParseDay(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid 'to' date (use YYYY-MM-DD)", err)
		return
	}

	balance, err := eng.RunningBalance(from, to)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid range", err)
		return
	}

	writeJSON(w, http.StatusOK, BalanceDTO{
		From:    from.String(),
		To:      to.String(),
		Balance: balance.Float64(),
	})
}

// GetCurrentBalance returns the floor-date->today balance plus the live
// today/week/ongoing figures.
// GET /api/balance/current
func (h *Handler) GetCurrentBalance(w http.ResponseWriter, r *http.Request) {
	eng, err := h.engine(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load entries", err)
		return
	}

	now := h.Clock.Now()
	balance, err := eng.CurrentBalance(now)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute balance", err)
		return
	}
	today, err := eng.TodayHours(now)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute balance", err)
		return
	}
	week, err := eng.WeekHours(now)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute balance", err)
		return
	}

	writeJSON(w, http.StatusOK, CurrentBalanceDTO{
		AsOf:         engine.DayOf(now).String(),
		Balance:      balance.Float64(),
		TodayHours:   today.Float64(),
		WeekHours:    week.Float64(),
		OngoingHours: eng.OngoingHours(now).Float64(),
	})
}

// =============================================================================
// STATISTICS
// =============================================================================

// GetStats returns the statistics snapshot for a timeframe.
// GET /api/stats/{timeframe}
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	eng, err := h.engine(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load entries", err)
		return
	}

	tf, err := engine.ParseTimeframe(chi.URLParam(r, "timeframe"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown timeframe (use total|year|month)", err)
		return
	}

	stats, err := eng.Statistics(tf, h.Clock.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to aggregate", err)
		return
	}
	writeJSON(w, http.StatusOK, toStatsDTO(stats))
}

// GetAverages returns average hours per day and per week.
// GET /api/averages
func (h *Handler) GetAverages(w http.ResponseWriter, r *http.Request) {
	eng, err := h.engine(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load entries", err)
		return
	}

	avg, err := eng.Averages(h.Clock.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to aggregate", err)
		return
	}
	writeJSON(w, http.StatusOK, AveragesDTO{
		HoursPerDay:  avg.HoursPerDay.Float64(),
		HoursPerWeek: avg.HoursPerWeek.Float64(),
		DaysCounted:  avg.DaysCounted,
	})
}

// GetValidation returns the full data-quality report.
// GET /api/validation
func (h *Handler) GetValidation(w http.ResponseWriter, r *http.Request) {
	eng, err := h.engine(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load entries", err)
		return
	}

	report, err := eng.Validate(h.Clock.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to validate", err)
		return
	}
	writeJSON(w, http.StatusOK, toValidationDTO(report))
}

// =============================================================================
// GOALS, DAYS, GROUPS
// =============================================================================

// GetGoal returns the resolved daily goal for a date.
// GET /api/goal/{date}
func (h *Handler) GetGoal(w http.ResponseWriter, r *http.Request) {
	eng, err := h.engine(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load entries", err)
		return
	}

	date, err := engine.ParseDay(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"date": date.String(),
		"goal": eng.Goal(date).Float64(),
	})
}

// GetDay returns one day's summary.
// GET /api/days/{date}
func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	eng, err := h.engine(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load entries", err)
		return
	}

	date, err := engine.ParseDay(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}

	summary, err := eng.Day(date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to summarize day", err)
		return
	}
	writeJSON(w, http.StatusOK, toDayDTO(summary))
}

// GetGroups returns the month -> week display rollup.
// GET /api/groups
func (h *Handler) GetGroups(w http.ResponseWriter, r *http.Request) {
	eng, err := h.engine(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load entries", err)
		return
	}

	groups := make(GroupsDTO)
	for month, weeks := range eng.Groups() {
		groups[month] = make(map[int][]DayEntryDTO, len(weeks))
		for week, entries := range weeks {
			dtos := make([]DayEntryDTO, 0, len(entries))
			for _, e := range entries {
				dtos = append(dtos, toDayEntryDTO(e))
			}
			groups[month][week] = dtos
		}
	}
	writeJSON(w, http.StatusOK, groups)
}

// =============================================================================
// ENTRIES
// =============================================================================

// ListEntries returns all raw entries.
// GET /api/entries
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Store.ListEntries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list entries", err)
		return
	}

	dtos := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, toEntryDTO(e))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEntry stores a new entry.
// POST /api/entries
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Entry name is required", nil)
		return
	}

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_time (use RFC3339)", err)
		return
	}

	entry := store.Entry{Name: req.Name, StartTime: start}
	if req.EndTime != nil {
		end, err := time.Parse(time.RFC3339, *req.EndTime)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid end_time (use RFC3339)", err)
			return
		}
		entry.EndTime = &end
	}

	id, err := h.Store.AppendEntry(r.Context(), entry)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store entry", err)
		return
	}
	h.invalidate()

	entry.ID = id
	writeJSON(w, http.StatusCreated, toEntryDTO(entry))
}

// DeleteEntry removes an entry.
// DELETE /api/entries/{id}
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid entry id", err)
		return
	}

	if err := h.Store.DeleteEntry(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Entry not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete entry", err)
		return
	}
	h.invalidate()

	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// TIMER
// =============================================================================

// StartTimer opens a running entry.
// POST /api/timer/start
func (h *Handler) StartTimer(w http.ResponseWriter, r *http.Request) {
	var req StartTimerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Timer name is required", nil)
		return
	}

	start := h.Clock.Now()
	id, err := h.Store.StartTimer(r.Context(), req.Name, start)
	if err != nil {
		if errors.Is(err, store.ErrTimerRunning) {
			writeError(w, http.StatusConflict, "A timer is already running", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to start timer", err)
		return
	}
	h.invalidate()

	writeJSON(w, http.StatusCreated, toEntryDTO(store.Entry{ID: id, Name: req.Name, StartTime: start}))
}

// StopTimer closes the running entry.
// POST /api/timer/stop
func (h *Handler) StopTimer(w http.ResponseWriter, r *http.Request) {
	entry, err := h.Store.StopTimer(r.Context(), h.Clock.Now())
	if err != nil {
		if errors.Is(err, store.ErrNoOpenEntry) {
			writeError(w, http.StatusConflict, "No timer is running", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to stop timer", err)
		return
	}
	h.invalidate()

	writeJSON(w, http.StatusOK, toEntryDTO(entry))
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// GetHolidays returns the declaration text, its parsed declarations and the
// last load status.
// GET /api/holidays
func (h *Handler) GetHolidays(w http.ResponseWriter, r *http.Request) {
	eng, err := h.engine(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load entries", err)
		return
	}

	text, err := h.Store.HolidayText(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read holiday text", err)
		return
	}

	h.mu.Lock()
	status := h.holidayStatus
	h.mu.Unlock()

	dto := HolidaysDTO{
		Text: text,
		Status: LoadStatusDTO{
			Success: status.Success,
			Message: status.Message,
			Count:   status.Count,
			Warning: status.Warning,
		},
		Holidays: make([]HolidayDTO, 0, len(eng.Holidays())),
	}
	for _, info := range eng.Holidays() {
		dto.Holidays = append(dto.Holidays, toHolidayDTO(info))
	}
	writeJSON(w, http.StatusOK, dto)
}

// UpdateHolidays replaces the declaration text and reloads.
// PUT /api/holidays
func (h *Handler) UpdateHolidays(w http.ResponseWriter, r *http.Request) {
	var req UpdateHolidaysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.Store.SetHolidayText(r.Context(), req.Text); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to write holiday text", err)
		return
	}
	h.invalidate()

	// Rebuild immediately so the response carries the fresh load status.
	if _, err := h.engine(r); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload", err)
		return
	}

	h.mu.Lock()
	status := h.holidayStatus
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, LoadStatusDTO{
		Success: status.Success,
		Message: status.Message,
		Count:   status.Count,
		Warning: status.Warning,
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
