package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/blaisecz/sleep-coach/internal/api/validation"
	"github.com/blaisecz/sleep-coach/internal/domain"
	"github.com/blaisecz/sleep-coach/internal/onboarding"
	"github.com/blaisecz/sleep-coach/internal/service"
	"github.com/blaisecz/sleep-coach/internal/survey"
	"github.com/blaisecz/sleep-coach/pkg/problem"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func userIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		problem.BadRequest("Invalid user ID format").Write(w)
		return uuid.Nil, false
	}
	return userID, true
}

// decodeBody decodes and validates a JSON request body. It writes the
// problem response itself and reports whether the handler may continue.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return false
	}
	if fieldErrors := validation.Validate(dst); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps service errors to problem responses. failure is the
// detail used for unexpected errors.
func writeError(w http.ResponseWriter, err error, failure string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		problem.NotFound("User not found").Write(w)
	case errors.Is(err, service.ErrNoOnboarding):
		problem.NotFound("No onboarding has been started").Write(w)
	case errors.Is(err, survey.ErrUnknownVariant):
		problem.NotFound("Unknown questionnaire").Write(w)
	case errors.Is(err, domain.ErrRequestInFlight):
		problem.InFlight("A request of this kind is already being processed").Write(w)
	case errors.Is(err, onboarding.ErrOnboardingClosed):
		problem.Conflict("Onboarding is no longer active").Write(w)
	case errors.Is(err, onboarding.ErrFieldNotOnStep), errors.Is(err, onboarding.ErrInvalidAnswer):
		problem.ValidationError("Answer rejected", []problem.FieldError{{Field: "answer", Message: err.Error()}}).Write(w)
	case errors.Is(err, domain.ErrNoDreamAnalysis):
		problem.ValidationError("Dream must be interpreted before saving", []problem.FieldError{{Field: "dream_analysis", Message: "is required"}}).Write(w)
	case errors.Is(err, domain.ErrInvalidInput):
		problem.BadRequest(err.Error()).Write(w)
	case errors.Is(err, domain.ErrUnauthorized):
		problem.Unauthorized("Invalid or expired token").Write(w)
	default:
		problem.InternalError(failure).Write(w)
	}
}
