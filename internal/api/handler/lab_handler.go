package handler

import (
	"net/http"
	"time"

	"github.com/blaisecz/sleep-coach/internal/api/validation"
	"github.com/blaisecz/sleep-coach/internal/domain"
	"github.com/blaisecz/sleep-coach/internal/service"
	"github.com/blaisecz/sleep-coach/pkg/problem"
)

type LabHandler struct {
	service service.LabService
}

func NewLabHandler(service service.LabService) *LabHandler {
	return &LabHandler{service: service}
}

// Bedtimes handles GET /v1/lab/bedtimes
// @Summary Smart wake calculator
// @Description Bedtimes that complete 6 to 3 full 90-minute cycles by the wake time, allowing 15 minutes to fall asleep.
// @Tags lab
// @Produce json
// @Param wake query string true "Wake time (HH:MM)" example(07:00)
// @Param tz query string false "IANA timezone of the wake time" default(UTC)
// @Success 200 {object} domain.BedtimeResponse
// @Failure 422 {object} problem.Problem
// @Router /lab/bedtimes [get]
func (h *LabHandler) Bedtimes(w http.ResponseWriter, r *http.Request) {
	wake := r.URL.Query().Get("wake")
	tz := r.URL.Query().Get("tz")

	fieldErrors := validation.Var("wake", wake, "required,clock")
	fieldErrors = append(fieldErrors, validation.Var("tz", tz, "omitempty,timezone")...)
	if len(fieldErrors) > 0 {
		problem.ValidationError("Invalid query parameters", fieldErrors).Write(w)
		return
	}

	loc := time.UTC
	if tz != "" {
		loc, _ = time.LoadLocation(tz)
	}

	resp, err := h.service.Bedtimes(wake, loc)
	if err != nil {
		writeError(w, err, "Failed to calculate bedtimes")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// SleepDebt handles POST /v1/lab/sleep-debt
// @Summary Sleep debt calculator
// @Tags lab
// @Accept json
// @Produce json
// @Param request body domain.SleepDebtRequest true "Needed and actual hours"
// @Success 200 {object} domain.SleepDebtResult
// @Failure 400 {object} problem.Problem
// @Failure 422 {object} problem.Problem
// @Router /lab/sleep-debt [post]
func (h *LabHandler) SleepDebt(w http.ResponseWriter, r *http.Request) {
	var req domain.SleepDebtRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, h.service.SleepDebt(&req))
}

// Breathing handles GET /v1/lab/breathing
// @Summary 4-7-8 breathing exercise
// @Tags lab
// @Produce json
// @Success 200 {object} domain.BreathingPlan
// @Router /lab/breathing [get]
func (h *LabHandler) Breathing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Breathing())
}
