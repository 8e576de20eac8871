// Package api exposes the coaching engine over HTTP: on-demand
// performance snapshots, intervention checks and the endpoint that
// applies an accepted intervention's actions.
package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/oleandr/stride/internal/coach"
	"github.com/oleandr/stride/internal/config"
	"github.com/oleandr/stride/internal/httputil"
	"github.com/oleandr/stride/internal/insight"
	"github.com/oleandr/stride/internal/metrics"
	"github.com/oleandr/stride/internal/record"
)

// Store is the persistence surface the API needs.
type Store interface {
	coach.RecordStore
	coach.GoalStore
	coach.StateStore
}

type API struct {
	cfg   config.Thresholds
	store Store
	mux   *http.ServeMux
}

type CheckRequest struct {
	UserID string `json:"user_id"`
}

type ApplyRequest struct {
	UserID   string         `json:"user_id"`
	Type     coach.Type     `json:"type"`
	Severity coach.Severity `json:"severity"`
	Actions  []coach.Action `json:"actions"`
}

func NewAPI(cfg config.Thresholds, store Store) *API {
	api := &API{
		cfg:   cfg,
		store: store,
		mux:   http.NewServeMux(),
	}

	api.setupRoutes()
	return api
}

func (a *API) setupRoutes() {
	a.mux.HandleFunc("/api/performance/", a.handlePerformance)
	a.mux.HandleFunc("/api/interventions/check", a.handleCheck)
	a.mux.HandleFunc("/api/interventions/apply", a.handleApply)
	a.mux.HandleFunc("/health", a.handleHealth)
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

func (a *API) handlePerformance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := strings.TrimPrefix(r.URL.Path, "/api/performance/")
	if userID == "" {
		httputil.WriteJSONError(w, "User ID is required", http.StatusBadRequest)
		return
	}

	snap, err := a.buildSnapshot(r, userID)
	if err != nil {
		httputil.WriteJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, snap)
}

func (a *API) handleCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req CheckRequest
	if !a.decode(w, r, &req) {
		return
	}
	if req.UserID == "" {
		httputil.WriteJSONError(w, "User ID is required", http.StatusBadRequest)
		return
	}

	snap, err := a.buildSnapshot(r, req.UserID)
	if err != nil {
		httputil.WriteJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	engine := coach.NewEngine(a.cfg, a.store, a.store, a.store)
	intervention, err := engine.Evaluate(r.Context(), req.UserID, snap, time.Now())
	if err != nil {
		httputil.WriteJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if intervention != nil {
		metrics.RecordInterventionEmitted(string(intervention.Type), string(intervention.Severity))
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"intervention": intervention,
	})
}

func (a *API) handleApply(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ApplyRequest
	if !a.decode(w, r, &req) {
		return
	}
	if req.UserID == "" {
		httputil.WriteJSONError(w, "User ID is required", http.StatusBadRequest)
		return
	}
	if len(req.Actions) == 0 {
		httputil.WriteJSONError(w, "At least one action is required", http.StatusBadRequest)
		return
	}

	applier := coach.NewApplier(a.store)
	report, err := applier.Apply(r.Context(), req.UserID, req.Actions)
	if err != nil {
		httputil.WriteJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	metrics.RecordActionsApplied(string(coach.ActionExtendDeadline), report.Extended)
	metrics.RecordActionsApplied(string(coach.ActionPauseTasks), report.Paused)

	if err := a.recordAcceptance(r, req); err != nil {
		log.Printf("Failed to record acceptance for %s: %v", req.UserID, err)
	}

	httputil.WriteJSON(w, http.StatusOK, report)
}

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) buildSnapshot(r *http.Request, userID string) (insight.Snapshot, error) {
	now := time.Now()
	cutoff := now.AddDate(0, 0, -a.cfg.WindowDays)

	records, err := a.store.Query(r.Context(), userID, record.Filter{CreatedAfter: &cutoff})
	if err != nil {
		return insight.Snapshot{}, err
	}

	start := time.Now()
	snap := insight.NewBuilder(a.cfg).Build(records, now)
	metrics.RecordUserAnalyzed(string(snap.RiskLevel), time.Since(start))
	return snap, nil
}

// recordAcceptance appends the applied intervention to the user's
// history. History is advisory; a write failure does not fail the
// apply.
func (a *API) recordAcceptance(r *http.Request, req ApplyRequest) error {
	state, err := a.store.GetCoachState(r.Context(), req.UserID)
	if err != nil {
		return err
	}
	if state == nil {
		state = coach.NewState(req.UserID)
	}

	state.History = append(state.History, coach.HistoryEntry{
		Date:     time.Now(),
		Type:     req.Type,
		Severity: req.Severity,
		Accepted: true,
	})
	return a.store.SaveCoachState(r.Context(), state)
}

func (a *API) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		httputil.WriteJSONError(w, "Failed to read request body", http.StatusBadRequest)
		return false
	}

	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		httputil.WriteJSONError(w, "Invalid JSON", http.StatusBadRequest)
		return false
	}
	return true
}
