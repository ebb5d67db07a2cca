package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lewisaaronpaul/covid-dashboard/internal/dashboard"
	"github.com/lewisaaronpaul/covid-dashboard/internal/domain"
	"github.com/lewisaaronpaul/covid-dashboard/internal/view"
)

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	summary, err := s.dashboard.Summary()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleCountries(w http.ResponseWriter, _ *http.Request) {
	countries, err := s.dashboard.Countries()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"countries": countries})
}

func (s *Server) handleCountry(w http.ResponseWriter, r *http.Request) {
	bundle, err := s.dashboard.Country(r.PathValue("country"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}

func (s *Server) handleTrendChart(w http.ResponseWriter, r *http.Request) {
	png, err := s.dashboard.TrendChart(r.PathValue("country"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	md, err := s.dashboard.Map(r.PathValue("country"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, md)
}

// writeError maps query errors to status codes. Unexpected errors are logged.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("dashboard query failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, dashboard.ErrNotReady):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrUnknownCountry):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientHistory), errors.Is(err, view.ErrNotEnoughPoints):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // response already committed
}
