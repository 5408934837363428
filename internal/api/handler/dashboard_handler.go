package handler

import (
	"net/http"

	"github.com/blaisecz/sleep-coach/internal/api/validation"
	"github.com/blaisecz/sleep-coach/internal/service"
	"github.com/blaisecz/sleep-coach/pkg/problem"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(service service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Get handles GET /v1/users/{userId}/dashboard
// @Summary Get dashboard
// @Description Headline metrics and trend chart. Metrics come from recorded sessions, else from the latest assessment, else are placeholders.
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User UUID" format(uuid)
// @Param tz query string false "Viewer IANA timezone for chart dates (defaults to the user's)" example(America/New_York)
// @Success 200 {object} domain.DashboardResponse
// @Failure 400 {object} problem.Problem
// @Failure 404 {object} problem.Problem
// @Failure 422 {object} problem.Problem
// @Router /users/{userId}/dashboard [get]
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	tz := r.URL.Query().Get("tz")
	if fieldErrors := validation.Var("tz", tz, "omitempty,timezone"); fieldErrors != nil {
		problem.ValidationError("Invalid query parameters", fieldErrors).Write(w)
		return
	}

	resp, err := h.service.Dashboard(r.Context(), userID, tz)
	if err != nil {
		writeError(w, err, "Failed to build dashboard")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
