package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/common/expfmt"

	"github.com/zusistats/zusistats/pkg/summary"
	"github.com/zusistats/zusistats/server/internal/alerts"
	"github.com/zusistats/zusistats/server/internal/store"
)

// Handler is the HTTP handler for all /api/v1/* endpoints.
// It reads runs and their memoised summary from the store and returns JSON
// responses.
type Handler struct {
	store  *store.Store
	alerts *alerts.Engine
	mux    *http.ServeMux
}

// New creates a Handler wired to the given store and alert engine and
// registers all routes. al may be nil.
func New(st *store.Store, al *alerts.Engine) http.Handler {
	h := &Handler{store: st, alerts: al, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/runs", h.listRuns)
	h.mux.HandleFunc("/api/v1/runs/", h.getRun) // subtree, extracts {name}
	h.mux.HandleFunc("/api/v1/summary", h.summary)
	h.mux.HandleFunc("/api/v1/alerts", h.listAlerts)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// Metrics returns a handler serving the store's summary in the Prometheus
// text exposition format.
func Metrics(st *store.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		w.Header().Set("Content-Type", string(expfmt.NewFormat(expfmt.TypeTextPlain)))
		if err := summary.WritePrometheus(w, st.Summary()); err != nil {
			slog.Error("api: write metrics", "err", err)
		}
	})
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health: run counts by status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s := h.store.Summary()
	resp := HealthResponse{
		Algorithm: h.store.Algorithm().String(),
		RunCount:  len(s.Runs),
	}
	if h.alerts != nil {
		for _, a := range h.alerts.Active() {
			if a.State == alerts.StateFiring {
				resp.AlertCount++
			}
		}
	}

	for _, rs := range s.Runs {
		switch rs.Status {
		case summary.StatusOK:
			resp.OKCount++
		case summary.StatusPartial:
			resp.PartialCount++
		default:
			resp.FailedCount++
		}
	}

	switch {
	case resp.RunCount == 0:
		resp.State = "empty"
	case resp.OKCount == resp.RunCount:
		resp.State = "ok"
	default:
		resp.State = "degraded"
	}
	jsonResp(w, http.StatusOK, resp)
}

// listRuns returns GET /api/v1/runs: every loaded run, or with ?name= the
// single run of that full name. Absolute names only reach the handler this
// way since the mux cleans "//" out of paths.
func (h *Handler) listRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s := h.store.Summary()
	if name := r.URL.Query().Get("name"); name != "" {
		rs, ok := s.Run(name)
		if !ok {
			jsonErr(w, http.StatusNotFound, "run not found")
			return
		}
		jsonResp(w, http.StatusOK, h.toRunResponse(rs))
		return
	}

	out := make([]RunResponse, 0, len(s.Runs))
	for _, rs := range s.Runs {
		out = append(out, h.toRunResponse(rs))
	}
	jsonResp(w, http.StatusOK, out)
}

// getRun returns GET /api/v1/runs/{name}: a single run, looked up by its
// relative full name or its base file name. A base name shared by several
// runs is a 409; those runs are reachable through ?name=.
func (h *Handler) getRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/api/v1/runs/")
	if name == "" {
		h.listRuns(w, r)
		return
	}

	s := h.store.Summary()
	if rs, ok := s.Run(name); ok {
		jsonResp(w, http.StatusOK, h.toRunResponse(rs))
		return
	}

	var matches []summary.RunStats
	for _, rs := range s.Runs {
		if filepath.Base(rs.Name) == name {
			matches = append(matches, rs)
		}
	}
	switch len(matches) {
	case 0:
		jsonErr(w, http.StatusNotFound, "run not found")
	case 1:
		jsonResp(w, http.StatusOK, h.toRunResponse(matches[0]))
	default:
		jsonErr(w, http.StatusConflict, fmt.Sprintf(
			"%d runs named %q; select one with /api/v1/runs?name=<full name>", len(matches), name))
	}
}

// summary returns GET /api/v1/summary: per-run stats and group aggregates.
func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, BuildSummary(h.store))
}

// BuildSummary returns the store's current summary stamped with the time it
// was served. The WebSocket hub broadcasts the same payload.
func BuildSummary(st *store.Store) SummaryResponse {
	return SummaryResponse{
		Summary:     st.Summary(),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// listAlerts returns GET /api/v1/alerts: firing and recently resolved alerts.
func (h *Handler) listAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	out := []*alerts.Alert{}
	if h.alerts != nil {
		out = h.alerts.Active()
	}
	jsonResp(w, http.StatusOK, out)
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}

func (h *Handler) toRunResponse(rs summary.RunStats) RunResponse {
	resp := RunResponse{
		RunStats:    rs,
		ID:          filepath.Base(rs.Name),
		Diagnostics: computeDiagnostics(rs),
	}
	if e, ok := h.store.Get(rs.Name); ok {
		resp.LoadedAt = e.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}
