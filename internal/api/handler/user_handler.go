package handler

import (
	"net/http"

	"github.com/blaisecz/sleep-coach/internal/domain"
	"github.com/blaisecz/sleep-coach/internal/service"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// GetByID handles GET /v1/users/{userId}
// @Summary Get user by ID
// @Description Get a user's details and current profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID" format(uuid)
// @Success 200 {object} domain.UserResponse
// @Failure 400 {object} problem.Problem
// @Failure 401 {object} problem.Problem
// @Failure 404 {object} problem.Problem
// @Failure 500 {object} problem.Problem
// @Router /users/{userId} [get]
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, err, "Failed to get user")
		return
	}
	writeJSON(w, http.StatusOK, user.ToResponse())
}

// AssessmentListResponse is the journal of completed assessments.
// @Description Completed assessments, newest first.
type AssessmentListResponse struct {
	Data []domain.UserProfile `json:"data"`
}

// Assessments handles GET /v1/users/{userId}/assessments
// @Summary List assessments
// @Description List the user's completed questionnaires, newest first
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID" format(uuid)
// @Success 200 {object} AssessmentListResponse
// @Failure 400 {object} problem.Problem
// @Failure 401 {object} problem.Problem
// @Failure 404 {object} problem.Problem
// @Failure 500 {object} problem.Problem
// @Router /users/{userId}/assessments [get]
func (h *UserHandler) Assessments(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	history, err := h.service.Assessments(r.Context(), userID)
	if err != nil {
		writeError(w, err, "Failed to list assessments")
		return
	}
	if history == nil {
		history = []domain.UserProfile{}
	}
	writeJSON(w, http.StatusOK, AssessmentListResponse{Data: history})
}
