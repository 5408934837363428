package problem

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestKindNew(t *testing.T) {
	fields := []FieldError{{Field: "quality", Message: "must be at most 100"}}
	p := KindValidation.New("Request validation failed", fields...)

	if p.Type != BaseURI+"/validation-error" {
		t.Errorf("Type = %q", p.Type)
	}
	if p.Status != http.StatusUnprocessableEntity || p.Title != "Validation Error" {
		t.Errorf("got %d %q", p.Status, p.Title)
	}
	if len(p.Errors) != 1 || p.Errors[0] != fields[0] {
		t.Errorf("Errors = %+v", p.Errors)
	}
}

func TestWrite(t *testing.T) {
	rec := httptest.NewRecorder()
	InFlight("A request of this kind is already being processed").Write(rec)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != ContentType {
		t.Fatalf("Content-Type = %q", got)
	}

	var decoded map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded["type"] != KindInFlight.URI() || decoded["title"] != "Request In Flight" {
		t.Errorf("body = %v", decoded)
	}
	if _, ok := decoded["errors"]; ok {
		t.Error("errors should be omitted when empty")
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		problem *Problem
		kind    Kind
	}{
		{"not found", NotFound("x"), KindNotFound},
		{"bad request", BadRequest("x"), KindBadRequest},
		{"unauthorized", Unauthorized("x"), KindUnauthorized},
		{"forbidden", Forbidden("x"), KindForbidden},
		{"conflict", Conflict("x"), KindConflict},
		{"blocked", ValidationBlocked("x"), KindValidationBlocked},
		{"in flight", InFlight("x"), KindInFlight},
		{"internal", InternalError("x"), KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.problem.Status != tt.kind.Status || tt.problem.Type != tt.kind.URI() || tt.problem.Detail != "x" {
				t.Errorf("got %+v, want kind %+v", tt.problem, tt.kind)
			}
		})
	}
}
