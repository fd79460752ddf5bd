package http

import (
	"errors"
	"net/http"

	"squadhub-backend/internal/service"
)

type authHandler struct {
	auth service.AuthService
}

type signupRequest struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	SkillRating int32    `json:"skill_rating"`
	Positions   []string `json:"positions"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (h *authHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, access, refresh, err := h.auth.Signup(r.Context(), req.Name, req.Email, req.Password, req.SkillRating, req.Positions)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			writeConflict(w, "email already registered")
			return
		}
		writeError(w, err)
		return
	}

	writeData(w, http.StatusCreated, map[string]any{
		"user":          user,
		"access_token":  access,
		"refresh_token": refresh,
	})
}

func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	access, refresh, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, tokenResponse{AccessToken: access, RefreshToken: refresh})
}

func (h *authHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeBody(w, r, &req) {
		return
	}

	access, refresh, err := h.auth.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, tokenResponse{AccessToken: access, RefreshToken: refresh})
}
