package server

import (
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/rickgao/share-dashboard/internal/render"
	"github.com/rickgao/share-dashboard/internal/version"
)

// tableResponse is the JSON form of the current table.
type tableResponse struct {
	CycleID   string          `json:"cycle_id"`
	UpdatedAt time.Time       `json:"updated_at"`
	Columns   []string        `json:"columns"`
	Rows      [][]string      `json:"rows"`
	States    []render.Status `json:"states"`
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	f, ok := s.surface.Current()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "no successful poll cycle yet",
		})
		return
	}

	resp := tableResponse{
		CycleID:   f.CycleID.String(),
		UpdatedAt: f.UpdatedAt.UTC(),
		Columns:   render.Columns,
		Rows:      make([][]string, 0, len(f.Table.Rows)),
		States:    make([]render.Status, 0, len(f.Table.Rows)),
	}
	for _, row := range f.Table.Rows {
		resp.Rows = append(resp.Rows, row.Cells)
		resp.States = append(resp.States, row.Status)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Health states reported by /health.
const (
	HealthHealthy   = "healthy"
	HealthStarting  = "starting"
	HealthDegraded  = "degraded"
	HealthUnhealthy = "unhealthy"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := s.surface.Status()

	health := struct {
		Status     string         `json:"status"`
		Instance   string         `json:"instance,omitempty"`
		Version    version.Info   `json:"version"`
		Uptime     string         `json:"uptime"`
		Components map[string]any `json:"components"`
	}{
		Status:     HealthHealthy,
		Instance:   s.cfg.InstanceID,
		Version:    version.Get(),
		Uptime:     time.Since(s.startedAt).Round(time.Second).String(),
		Components: make(map[string]any),
	}

	poller := map[string]any{
		"failures": st.Failures,
	}
	if st.HasFrame {
		poller["last_cycle_id"] = st.LastCycleID.String()
		poller["last_success"] = st.LastSuccessAt.UTC()
		poller["last_success_ago"] = humanize.Time(st.LastSuccessAt)
	}
	if st.LastError != "" {
		poller["last_error"] = st.LastError
		poller["last_failure"] = st.LastFailureAt.UTC()
		poller["last_failure_ago"] = humanize.Time(st.LastFailureAt)
	}
	health.Components["poller"] = poller

	health.Components["table"] = map[string]any{
		"rows":   st.Rows,
		"alerts": st.Alerts,
	}
	health.Components["viewers"] = s.surface.Subscribers()

	switch {
	case !st.HasFrame && st.Failures > 0:
		health.Status = HealthUnhealthy
	case !st.HasFrame:
		health.Status = HealthStarting
	case st.LastFailureAt.After(st.LastSuccessAt):
		health.Status = HealthDegraded
	}

	code := http.StatusOK
	if health.Status == HealthUnhealthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, health)
}
