package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dgallion1/statflat/internal/collector"
	"github.com/dgallion1/statflat/internal/report"
)

// latest returns the current snapshot, writing a 404 when nothing has been
// collected yet.
func (s *Server) latest(w http.ResponseWriter) *collector.Snapshot {
	snap := s.collector.Latest()
	if snap == nil {
		jsonError(w, "no snapshot collected yet", http.StatusNotFound)
		return nil
	}
	return snap
}

// handleStats serves the latest flat record as ordered JSON.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snap := s.latest(w)
	if snap == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Snapshot-ID", snap.ID)
	json.NewEncoder(w).Encode(snap.Flat)
}

// handleStatsCSV serves the latest flat record as a header row plus one
// value row.
func (s *Server) handleStatsCSV(w http.ResponseWriter, r *http.Request) {
	snap := s.latest(w)
	if snap == nil {
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("X-Snapshot-ID", snap.ID)
	if err := snap.Flat.WriteCSV(w); err != nil {
		s.log.Error("csv write failed", "error", err)
	}
}

// handleStatsTree serves the latest structured record, before flattening.
func (s *Server) handleStatsTree(w http.ResponseWriter, r *http.Request) {
	snap := s.latest(w)
	if snap == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Snapshot-ID", snap.ID)
	json.NewEncoder(w).Encode(snap.Tree)
}

// handleFetchLatency serves aggregate fetch-latency figures.
func (s *Server) handleFetchLatency(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.collector.Latency())
}

// handleRefresh performs one synchronous collection cycle.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	snap, err := s.collector.Collect(r.Context())
	if err != nil {
		jsonError(w, "collection failed: "+err.Error(), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"snapshot_id": snap.ID,
		"fetched_at":  snap.FetchedAt.Format(time.RFC3339),
		"duration_ms": snap.Duration.Milliseconds(),
		"fields":      snap.Flat.Len(),
	})
}

// handleReport serves the latest snapshot as an HTML page.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	snap := s.collector.Latest()
	if snap == nil {
		http.Error(w, "no snapshot collected yet", http.StatusNotFound)
		return
	}
	page, err := report.HTML(s.cfg.ReportTitle, snap.FetchedAt, snap.Flat)
	if err != nil {
		s.log.Error("report render failed", "error", err)
		http.Error(w, "report render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
