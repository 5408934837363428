package handler

import (
	"bytes"
	"io"
	"net/http"

	"github.com/blaisecz/sleep-coach/internal/domain"
	"github.com/blaisecz/sleep-coach/internal/service"
	"github.com/blaisecz/sleep-coach/pkg/problem"
)

type AuthHandler struct {
	service service.AuthService
}

func NewAuthHandler(service service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Guest handles POST /v1/auth/guest
// @Summary Continue as guest
// @Description Create a guest account and return a bearer token for it. The body is optional.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest false "Sign-in options"
// @Success 201 {object} domain.LoginResponse
// @Failure 400 {object} problem.Problem
// @Failure 422 {object} problem.Problem
// @Failure 500 {object} problem.Problem
// @Router /auth/guest [post]
func (h *AuthHandler) Guest(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeOptionalBody(w, r, &req) {
		return
	}

	resp, err := h.service.Guest(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to sign in")
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Demo handles POST /v1/auth/demo
// @Summary Sign in with the demo account
// @Description Create a session for the mock "Alex Doe" account and return a bearer token. The body is optional.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest false "Sign-in options"
// @Success 201 {object} domain.LoginResponse
// @Failure 400 {object} problem.Problem
// @Failure 422 {object} problem.Problem
// @Failure 500 {object} problem.Problem
// @Router /auth/demo [post]
func (h *AuthHandler) Demo(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeOptionalBody(w, r, &req) {
		return
	}

	resp, err := h.service.Demo(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to sign in")
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// decodeOptionalBody is decodeBody that accepts an empty body.
func decodeOptionalBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		problem.BadRequest("Unreadable request body").Write(w)
		return false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return true
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	return decodeBody(w, r, dst)
}
