package handler

import (
	"net/http"

	"github.com/blaisecz/sleep-coach/internal/domain"
	"github.com/blaisecz/sleep-coach/internal/service"
)

type DreamHandler struct {
	service service.DreamService
}

func NewDreamHandler(service service.DreamService) *DreamHandler {
	return &DreamHandler{service: service}
}

// Interpret handles POST /v1/users/{userId}/dreams/interpret
// @Summary Interpret a dream
// @Description Ask the coach for a short interpretation and themes. Falls back to a fixed answer when the advisory service is unavailable.
// @Tags dreams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User UUID" format(uuid)
// @Param request body domain.InterpretDreamRequest true "Dream text"
// @Success 200 {object} domain.DreamInterpretationResponse
// @Failure 404 {object} problem.Problem
// @Failure 409 {object} problem.Problem "Interpretation already in flight"
// @Failure 422 {object} problem.Problem
// @Router /users/{userId}/dreams/interpret [post]
func (h *DreamHandler) Interpret(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	var req domain.InterpretDreamRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.service.Interpret(r.Context(), userID, req.Text)
	if err != nil {
		writeError(w, err, "Failed to interpret dream")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Save handles POST /v1/users/{userId}/dreams
// @Summary Save a dream to the sleep log
// @Description Log an interpreted dream as a sleep session with REM-weighted stage estimates.
// @Tags dreams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User UUID" format(uuid)
// @Param request body domain.SaveDreamRequest true "Dream entry"
// @Success 201 {object} domain.SleepSessionResponse
// @Failure 404 {object} problem.Problem
// @Failure 422 {object} problem.Problem
// @Router /users/{userId}/dreams [post]
func (h *DreamHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	var req domain.SaveDreamRequest
	if !decodeBody(w, r, &req) {
		return
	}

	session, err := h.service.Save(r.Context(), userID, &req)
	if err != nil {
		writeError(w, err, "Failed to save dream")
		return
	}
	writeJSON(w, http.StatusCreated, session.ToResponse())
}
