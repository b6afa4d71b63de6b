package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/tuanvumaihuynh/shelflife/pkg/expiry"
)

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (s *Service) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	userID, err := authUserID(r)
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	summary, err := s.svc.Summary.GetSummary(r.Context(), userID)
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, struct {
		expiry.Summary
		UrgentWindowDays int `json:"urgent_window_days"`
	}{
		Summary:          summary,
		UrgentWindowDays: expiry.UrgentWindowDays,
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	res := healthResponse{Status: "ok", Checks: map[string]string{}}
	status := http.StatusOK

	for name, checker := range s.checks {
		if _, err := checker.IsHealthy(ctx); err != nil {
			s.logger.WarnContext(ctx, "health check failed", slog.String("check", name), slog.Any("error", err))
			res.Checks[name] = "down"
			res.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		res.Checks[name] = "up"
	}

	s.writeJSON(w, r, status, res)
}
