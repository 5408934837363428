package handler

import (
	"net/http"

	"github.com/blaisecz/sleep-coach/internal/domain"
	"github.com/blaisecz/sleep-coach/internal/service"
)

// CoachHandler handles the sleep coach chat and advice feedback endpoints.
type CoachHandler struct {
	chatService     service.ChatService
	feedbackService service.FeedbackService
}

// NewCoachHandler creates a new CoachHandler.
func NewCoachHandler(chatService service.ChatService, feedbackService service.FeedbackService) *CoachHandler {
	return &CoachHandler{
		chatService:     chatService,
		feedbackService: feedbackService,
	}
}

// Transcript handles GET /v1/users/{userId}/coach/messages
// @Summary Get chat transcript
// @Description All coach chat turns in the order they were sent
// @Tags coach
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User UUID" format(uuid)
// @Success 200 {object} domain.ChatTranscriptResponse
// @Failure 404 {object} problem.Problem "User not found"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/coach/messages [get]
func (h *CoachHandler) Transcript(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	resp, err := h.chatService.Transcript(r.Context(), userID)
	if err != nil {
		writeError(w, err, "Failed to load transcript")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Send handles POST /v1/users/{userId}/coach/messages
// @Summary Ask the sleep coach
// @Description Send a message and receive the coach's reply. The coach sees earlier turns and the most recent session.
// @Tags coach
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User UUID" format(uuid)
// @Param request body domain.SendChatMessageRequest true "Message"
// @Success 201 {object} domain.ChatExchangeResponse
// @Failure 404 {object} problem.Problem "User not found"
// @Failure 409 {object} problem.Problem "A reply is still being generated"
// @Failure 422 {object} problem.Problem "Invalid fields"
// @Router /users/{userId}/coach/messages [post]
func (h *CoachHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	var req domain.SendChatMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.chatService.Send(r.Context(), userID, req.Message)
	if err != nil {
		writeError(w, err, "Failed to send message")
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// PostFeedback handles POST /v1/users/{userId}/advice/feedback
// @Summary Rate a piece of advice
// @Description Submit a 1-5 rating and optional comment for advice identified by its advice_trace_id.
// @Tags coach
// @Accept json
// @Security BearerAuth
// @Param userId path string true "User UUID" format(uuid)
// @Param request body domain.AdviceFeedbackRequest true "Feedback"
// @Success 204 "Feedback submitted"
// @Failure 400 {object} problem.Problem "Invalid request"
// @Failure 422 {object} problem.Problem "Invalid fields"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/advice/feedback [post]
func (h *CoachHandler) PostFeedback(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	var req domain.AdviceFeedbackRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.feedbackService.Rate(r.Context(), userID, &req); err != nil {
		writeError(w, err, "Failed to record feedback")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
