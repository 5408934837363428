package handler

import (
	"context"
	"net/http"

	"github.com/blaisecz/sleep-coach/internal/domain"
	"github.com/blaisecz/sleep-coach/internal/onboarding"
	"github.com/blaisecz/sleep-coach/internal/service"
	"github.com/blaisecz/sleep-coach/pkg/problem"
	"github.com/google/uuid"
)

type OnboardingHandler struct {
	service service.OnboardingService
}

func NewOnboardingHandler(service service.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{service: service}
}

// Start handles POST /v1/users/{userId}/onboarding
// @Summary Start onboarding
// @Description Start a fresh questionnaire, replacing any unfinished one. The body is optional and defaults to the baseline set.
// @Tags onboarding
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID" format(uuid)
// @Param request body domain.StartOnboardingRequest false "Question set"
// @Success 201 {object} onboarding.State
// @Failure 400 {object} problem.Problem
// @Failure 404 {object} problem.Problem
// @Failure 422 {object} problem.Problem
// @Router /users/{userId}/onboarding [post]
func (h *OnboardingHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	var req domain.StartOnboardingRequest
	if !decodeOptionalBody(w, r, &req) {
		return
	}

	state, err := h.service.Start(r.Context(), userID, req.Variant)
	if err != nil {
		writeError(w, err, "Failed to start onboarding")
		return
	}
	writeJSON(w, http.StatusCreated, state)
}

// Get handles GET /v1/users/{userId}/onboarding
// @Summary Get onboarding state
// @Tags onboarding
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID" format(uuid)
// @Success 200 {object} onboarding.State
// @Failure 404 {object} problem.Problem
// @Router /users/{userId}/onboarding [get]
func (h *OnboardingHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.Get)
}

// Cancel handles DELETE /v1/users/{userId}/onboarding
// @Summary Cancel onboarding
// @Description Discard the questionnaire without saving an assessment
// @Tags onboarding
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID" format(uuid)
// @Success 200 {object} onboarding.State
// @Failure 404 {object} problem.Problem
// @Failure 409 {object} problem.Problem
// @Router /users/{userId}/onboarding [delete]
func (h *OnboardingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.Cancel)
}

// Back handles POST /v1/users/{userId}/onboarding/back
// @Summary Go back one question
// @Description Answers already given are kept
// @Tags onboarding
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID" format(uuid)
// @Success 200 {object} onboarding.State
// @Failure 404 {object} problem.Problem
// @Failure 409 {object} problem.Problem
// @Router /users/{userId}/onboarding/back [post]
func (h *OnboardingHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.Back)
}

// SetAnswer handles PUT /v1/users/{userId}/onboarding/answers
// @Summary Answer the current question
// @Description Replace a single-valued answer. Conditional follow-ups are accepted only once their gate is unlocked.
// @Tags onboarding
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID" format(uuid)
// @Param request body domain.SetAnswerRequest true "Answer"
// @Success 200 {object} onboarding.State
// @Failure 404 {object} problem.Problem
// @Failure 409 {object} problem.Problem
// @Failure 422 {object} problem.Problem
// @Router /users/{userId}/onboarding/answers [put]
func (h *OnboardingHandler) SetAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	var req domain.SetAnswerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	state, err := h.service.SetAnswer(r.Context(), userID, req.Field, req.Value)
	if err != nil {
		writeError(w, err, "Failed to save answer")
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// Toggle handles POST /v1/users/{userId}/onboarding/toggle
// @Summary Toggle a multi-select answer
// @Description Add the item if absent, remove it if present
// @Tags onboarding
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID" format(uuid)
// @Param request body domain.ToggleAnswerRequest true "Item"
// @Success 200 {object} onboarding.State
// @Failure 404 {object} problem.Problem
// @Failure 409 {object} problem.Problem
// @Failure 422 {object} problem.Problem
// @Router /users/{userId}/onboarding/toggle [post]
func (h *OnboardingHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	var req domain.ToggleAnswerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	state, err := h.service.Toggle(r.Context(), userID, req.Field, req.Item)
	if err != nil {
		writeError(w, err, "Failed to save answer")
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// Next handles POST /v1/users/{userId}/onboarding/next
// @Summary Advance or complete
// @Description Move to the next question. On the last question the assessment is completed, analyzed and saved.
// @Tags onboarding
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID" format(uuid)
// @Success 200 {object} service.StepResult
// @Failure 404 {object} problem.Problem
// @Failure 409 {object} problem.Problem "Closed onboarding or analysis in flight"
// @Failure 422 {object} problem.Problem "Current question is not answered"
// @Router /users/{userId}/onboarding/next [post]
func (h *OnboardingHandler) Next(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	result, err := h.service.Next(r.Context(), userID)
	if err != nil {
		writeError(w, err, "Failed to advance onboarding")
		return
	}
	if result.Outcome == onboarding.OutcomeBlocked {
		detail := "Answer the current question before continuing"
		if q := result.State.Question; q != nil {
			detail = "Answer \"" + q.Title + "\" before continuing"
		}
		problem.ValidationBlocked(detail).Write(w)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *OnboardingHandler) respond(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, userID uuid.UUID) (*onboarding.State, error)) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	state, err := fn(r.Context(), userID)
	if err != nil {
		writeError(w, err, "Failed to update onboarding")
		return
	}
	writeJSON(w, http.StatusOK, state)
}
