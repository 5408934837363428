// Package problem renders RFC 9457 problem+json error bodies.
package problem

import (
	"encoding/json"
	"net/http"
)

const (
	ContentType = "application/problem+json"
	BaseURI     = "http://localhost:8080/problems"
)

// Problem is the JSON body of an error response.
type Problem struct {
	Type   string       `json:"type"`
	Title  string       `json:"title"`
	Status int          `json:"status"`
	Detail string       `json:"detail,omitempty"`
	Errors []FieldError `json:"errors,omitempty"`
}

// FieldError points at one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Kind is a problem type: a slug under BaseURI with a fixed title and status.
type Kind struct {
	Slug   string
	Title  string
	Status int
}

var (
	KindBadRequest        = Kind{"bad-request", "Bad Request", http.StatusBadRequest}
	KindUnauthorized      = Kind{"unauthorized", "Unauthorized", http.StatusUnauthorized}
	KindForbidden         = Kind{"forbidden", "Forbidden", http.StatusForbidden}
	KindNotFound          = Kind{"not-found", "Not Found", http.StatusNotFound}
	KindConflict          = Kind{"conflict", "Conflict", http.StatusConflict}
	KindInFlight          = Kind{"request-in-flight", "Request In Flight", http.StatusConflict}
	KindValidation        = Kind{"validation-error", "Validation Error", http.StatusUnprocessableEntity}
	KindValidationBlocked = Kind{"validation-blocked", "Step Incomplete", http.StatusUnprocessableEntity}
	KindInternal          = Kind{"internal-error", "Internal Server Error", http.StatusInternalServerError}
)

// URI is the absolute type identifier of the kind.
func (k Kind) URI() string {
	return BaseURI + "/" + k.Slug
}

// New builds a problem of this kind.
func (k Kind) New(detail string, fields ...FieldError) *Problem {
	return &Problem{
		Type:   k.URI(),
		Title:  k.Title,
		Status: k.Status,
		Detail: detail,
		Errors: fields,
	}
}

// Write sends the problem with its status code.
func (p *Problem) Write(w http.ResponseWriter) {
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(p.Status)
	json.NewEncoder(w).Encode(p)
}

func BadRequest(detail string) *Problem { return KindBadRequest.New(detail) }
func Unauthorized(detail string) *Problem { return KindUnauthorized.New(detail) }
func Forbidden(detail string) *Problem { return KindForbidden.New(detail) }
func NotFound(detail string) *Problem { return KindNotFound.New(detail) }
func Conflict(detail string) *Problem { return KindConflict.New(detail) }
func InternalError(detail string) *Problem { return KindInternal.New(detail) }

// InFlight reports an advisory request of the same kind that has not finished.
func InFlight(detail string) *Problem { return KindInFlight.New(detail) }

// ValidationError lists the rejected fields.
func ValidationError(detail string, errors []FieldError) *Problem {
	return KindValidation.New(detail, errors...)
}

// ValidationBlocked reports a questionnaire step that cannot advance yet.
func ValidationBlocked(detail string) *Problem { return KindValidationBlocked.New(detail) }
