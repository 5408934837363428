package handler

import (
	"net/http"
	"strconv"

	"github.com/blaisecz/sleep-coach/internal/domain"
	"github.com/blaisecz/sleep-coach/internal/service"
	"github.com/blaisecz/sleep-coach/pkg/pagination"
	"github.com/blaisecz/sleep-coach/pkg/problem"
)

type SessionHandler struct {
	service service.SessionService
}

func NewSessionHandler(service service.SessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

// Create handles POST /v1/users/{userId}/sleep-sessions
// @Summary Log last night's sleep
// @Description Record a session from the duration and quality sliders. Stages are estimated and an AI narrative is attached; if the advisory service is unavailable the session is still saved with fallback text.
// @Tags sleep-sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User UUID" format(uuid) example(550e8400-e29b-41d4-a716-446655440000)
// @Param request body domain.CreateSleepSessionRequest true "Sleep session data"
// @Success 201 {object} domain.SleepSessionResponse
// @Failure 400 {object} problem.Problem "Invalid request body or parameters"
// @Failure 404 {object} problem.Problem "User not found"
// @Failure 409 {object} problem.Problem "Session analysis already in flight"
// @Failure 422 {object} problem.Problem "Invalid fields"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/sleep-sessions [post]
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	var req domain.CreateSleepSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	session, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		writeError(w, err, "Failed to record sleep session")
		return
	}
	writeJSON(w, http.StatusCreated, session.ToResponse())
}

// List handles GET /v1/users/{userId}/sleep-sessions
// @Summary List sleep sessions
// @Description Fetch paginated sleep history, newest first.
// @Tags sleep-sessions
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User UUID" format(uuid) example(550e8400-e29b-41d4-a716-446655440000)
// @Param limit query integer false "Results per page (1-100)" default(20) minimum(1) maximum(100)
// @Param cursor query string false "Cursor from previous response's next_cursor"
// @Success 200 {object} domain.SleepSessionListResponse "Sleep sessions with pagination"
// @Failure 400 {object} problem.Problem "Invalid query parameters"
// @Failure 404 {object} problem.Problem "User not found"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/sleep-sessions [get]
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	filter, fieldErrors := parseListFilter(r)
	if fieldErrors != nil {
		problem.ValidationError("Invalid query parameters", fieldErrors).Write(w)
		return
	}

	response, err := h.service.List(r.Context(), userID, filter)
	if err != nil {
		writeError(w, err, "Failed to list sleep sessions")
		return
	}
	writeJSON(w, http.StatusOK, response)
}

func parseListFilter(r *http.Request) (domain.SleepSessionFilter, []problem.FieldError) {
	var filter domain.SleepSessionFilter
	var fieldErrors []problem.FieldError

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			fieldErrors = append(fieldErrors, problem.FieldError{
				Field:   "limit",
				Message: "must be a positive integer",
			})
		} else {
			filter.Limit = limit
		}
	}

	if cursor := r.URL.Query().Get("cursor"); cursor != "" {
		if _, _, err := pagination.Parse(cursor); err != nil {
			fieldErrors = append(fieldErrors, problem.FieldError{
				Field:   "cursor",
				Message: "is not a cursor from a previous page",
			})
		} else {
			filter.Cursor = cursor
		}
	}

	return filter, fieldErrors
}
