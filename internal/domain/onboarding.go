package domain

// StartOnboardingRequest is the request body for starting a questionnaire.
type StartOnboardingRequest struct {
	// Question set: baseline (7 questions) or extended (13 questions)
	Variant string `json:"variant" validate:"omitempty,variant" example:"baseline"`
}

// SetAnswerRequest replaces a single-valued answer on the current question.
type SetAnswerRequest struct {
	Field string `json:"field" validate:"required" example:"gender"`
	Value string `json:"value" validate:"max=200" example:"Female"`
}

// ToggleAnswerRequest adds or removes one item of a multi-select answer.
type ToggleAnswerRequest struct {
	Field string `json:"field" validate:"required" example:"sleep_issues"`
	Item  string `json:"item" validate:"required,max=200" example:"Snoring"`
}
