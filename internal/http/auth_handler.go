package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/shelflife/internal/service"
)

type credentialsRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64,alphanum"`
	// bcrypt ignores bytes past 72.
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (s *Service) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	user, err := s.svc.Auth.Register(r.Context(), service.RegisterParams{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusCreated, userResponse{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	})
}

func (s *Service) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	res, err := s.svc.Auth.Login(r.Context(), service.LoginParams{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, tokenResponse{
		AccessToken: res.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   res.ExpiresAt,
	})
}
