package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatRole identifies the author of a coach chat turn.
type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

// ChatMessage is one immutable turn of the coach transcript.
// @Description One message in the sleep coach chat.
type ChatMessage struct {
	ID        uuid.UUID `json:"id"`
	Role      ChatRole  `json:"role" example:"user" enums:"user,model"`
	Text      string    `json:"text" example:"Why do I wake up at 3am?"`
	Timestamp time.Time `json:"timestamp"`
}

// SendChatMessageRequest is the request body for a chat turn.
type SendChatMessageRequest struct {
	Message string `json:"message" validate:"required,max=2000" example:"How can I fall asleep faster?"`
}

// ChatExchangeResponse carries both turns appended by one send.
type ChatExchangeResponse struct {
	UserMessage   ChatMessage `json:"user_message"`
	ModelMessage  ChatMessage `json:"model_message"`
	AdviceTraceID string      `json:"advice_trace_id,omitempty"`
}

// ChatTranscriptResponse lists the whole transcript in send order.
type ChatTranscriptResponse struct {
	Messages []ChatMessage `json:"messages"`
}

// AdviceFeedbackRequest rates one piece of advice.
type AdviceFeedbackRequest struct {
	// Trace ID returned with the advice
	TraceID string `json:"trace_id" validate:"required,max=100"`
	// Rating from 1 (unhelpful) to 5 (very helpful)
	Score   int    `json:"score" validate:"min=1,max=5" example:"4"`
	Comment string `json:"comment,omitempty" validate:"max=1000"`
}
