package handler

import (
	"net/http"

	"github.com/blaisecz/sleep-coach/internal/survey"
	"github.com/go-chi/chi/v5"
)

// QuestionnaireSummary describes one available question set.
type QuestionnaireSummary struct {
	Variant   string `json:"variant" example:"baseline"`
	Title     string `json:"title" example:"Sleep Habits Assessment"`
	Questions int    `json:"questions" example:"7"`
}

type QuestionnaireHandler struct{}

func NewQuestionnaireHandler() *QuestionnaireHandler {
	return &QuestionnaireHandler{}
}

// List handles GET /v1/questionnaires
// @Summary List questionnaires
// @Tags questionnaires
// @Produce json
// @Success 200 {array} QuestionnaireSummary
// @Failure 500 {object} problem.Problem
// @Router /questionnaires [get]
func (h *QuestionnaireHandler) List(w http.ResponseWriter, r *http.Request) {
	summaries := make([]QuestionnaireSummary, 0, len(survey.Variants()))
	for _, variant := range survey.Variants() {
		set, err := survey.Builtin(variant)
		if err != nil {
			writeError(w, err, "Failed to load questionnaires")
			return
		}
		summaries = append(summaries, QuestionnaireSummary{
			Variant:   set.Variant,
			Title:     set.Title,
			Questions: set.Len(),
		})
	}
	writeJSON(w, http.StatusOK, summaries)
}

// Get handles GET /v1/questionnaires/{variant}
// @Summary Get a questionnaire
// @Description Get every question of a set with its options and follow-ups
// @Tags questionnaires
// @Produce json
// @Param variant path string true "Question set" Enums(baseline, extended)
// @Success 200 {object} survey.QuestionSet
// @Failure 404 {object} problem.Problem
// @Router /questionnaires/{variant} [get]
func (h *QuestionnaireHandler) Get(w http.ResponseWriter, r *http.Request) {
	set, err := survey.Builtin(chi.URLParam(r, "variant"))
	if err != nil {
		writeError(w, err, "Failed to load questionnaire")
		return
	}
	writeJSON(w, http.StatusOK, set)
}
