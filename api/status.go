package api

import (
	"net/http"
	"time"

	"github.com/rasterly/qrimage/store"
)

// statusDays bounds the per-day breakdown returned by /status.
const statusDays = 7

type statusResponse struct {
	Status    string           `json:"status"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Generated int              `json:"generated"`
	Daily     []store.DayCount `json:"daily,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(s.StartTime).Truncate(time.Second).String()

	resp := statusResponse{
		Status:  "ok",
		Uptime:  uptime,
		Version: s.Version,
	}

	if s.History != nil {
		if n, err := s.History.Total(); err == nil {
			resp.Generated = n
		}
		if daily, err := s.History.CountByDay(statusDays); err == nil {
			resp.Daily = daily
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
