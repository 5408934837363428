// Package survey declares the onboarding questionnaires and the rules that
// decide whether a profile draft satisfies each question.
package survey

import (
	"embed"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/blaisecz/sleep-coach/internal/domain"
)

// Kind tags the answer shape a question expects.
type Kind string

const (
	KindSingleSelect Kind = "single_select"
	KindMultiSelect  Kind = "multi_select"
	KindFreeText     Kind = "free_text"
	KindConditional  Kind = "conditional"
)

// Variants of the built-in question sets.
const (
	VariantBaseline = "baseline"
	VariantExtended = "extended"
)

var (
	ErrUnknownVariant     = errors.New("unknown question set")
	ErrInvalidDeclaration = errors.New("invalid question set declaration")
)

//go:embed questionsets/*.yaml
var builtinFS embed.FS

// FollowUp is a single-select sub-question revealed by a conditional gate.
type FollowUp struct {
	Field   string   `yaml:"field" json:"field"`
	Title   string   `yaml:"title" json:"title"`
	Options []string `yaml:"options" json:"options"`
}

// Question is one step of the questionnaire.
type Question struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Kind          Kind       `json:"kind"`
	Required      bool       `json:"required"`
	Fields        []string   `json:"fields"`
	Options       []string   `json:"options,omitempty"`
	MinSelections int        `json:"min_selections,omitempty"`
	Unlock        string     `json:"unlock,omitempty"`
	FollowUps     []FollowUp `json:"follow_ups,omitempty"`

	valid func(*domain.UserProfile) bool
}

// IsValid reports whether the draft satisfies the question.
func (q *Question) IsValid(p *domain.UserProfile) bool {
	if q.valid == nil {
		return false
	}
	return q.valid(p)
}

// Owns reports whether field is written by this question, including gated follow-ups.
func (q *Question) Owns(field string) bool {
	if slices.Contains(q.Fields, field) {
		return true
	}
	for _, f := range q.FollowUps {
		if f.Field == field {
			return true
		}
	}
	return false
}

// OptionsFor returns the literal set accepted for field. ok is false for
// fields that take free text.
func (q *Question) OptionsFor(field string) (options []string, ok bool) {
	if q.Kind != KindFreeText && len(q.Fields) > 0 && q.Fields[0] == field {
		return q.Options, true
	}
	for _, f := range q.FollowUps {
		if f.Field == field {
			return f.Options, true
		}
	}
	return nil, false
}

// Gate returns the gate field of a conditional question.
func (q *Question) Gate() string {
	if q.Kind != KindConditional {
		return ""
	}
	return q.Fields[0]
}

// QuestionSet is an ordered questionnaire.
type QuestionSet struct {
	Variant   string     `json:"variant"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`

	raw []byte
}

// Len returns the number of steps.
func (s *QuestionSet) Len() int { return len(s.Questions) }

// Question returns the question at step i.
func (s *QuestionSet) Question(i int) *Question {
	if i < 0 || i >= len(s.Questions) {
		return nil
	}
	return &s.Questions[i]
}

// YAML returns the declaration the set was loaded from.
func (s *QuestionSet) YAML() []byte { return s.raw }

type setDecl struct {
	Variant   string         `yaml:"variant"`
	Title     string         `yaml:"title"`
	Questions []questionDecl `yaml:"questions"`
}

type questionDecl struct {
	ID            string     `yaml:"id"`
	Title         string     `yaml:"title"`
	Kind          Kind       `yaml:"kind"`
	Required      *bool      `yaml:"required"`
	Field         string     `yaml:"field"`
	Fields        []string   `yaml:"fields"`
	Options       []string   `yaml:"options"`
	MinSelections *int       `yaml:"min_selections"`
	Unlock        string     `yaml:"unlock"`
	FollowUps     []FollowUp `yaml:"follow_ups"`
}

// Load parses a YAML question set declaration.
func Load(data []byte) (*QuestionSet, error) {
	var decl setDecl
	if err := yaml.Unmarshal(data, &decl); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDeclaration, err)
	}
	if decl.Variant == "" {
		return nil, fmt.Errorf("%w: missing variant", ErrInvalidDeclaration)
	}
	if len(decl.Questions) == 0 {
		return nil, fmt.Errorf("%w: %s has no questions", ErrInvalidDeclaration, decl.Variant)
	}

	set := &QuestionSet{
		Variant:   decl.Variant,
		Title:     decl.Title,
		Questions: make([]Question, 0, len(decl.Questions)),
		raw:       data,
	}
	seen := make(map[string]bool)
	for i, qd := range decl.Questions {
		q, err := buildQuestion(qd)
		if err != nil {
			return nil, fmt.Errorf("%w: question %d (%s): %v", ErrInvalidDeclaration, i+1, qd.ID, err)
		}
		for _, f := range q.Fields {
			if seen[f] {
				return nil, fmt.Errorf("%w: field %q declared twice", ErrInvalidDeclaration, f)
			}
			seen[f] = true
		}
		set.Questions = append(set.Questions, q)
	}
	return set, nil
}

func buildQuestion(d questionDecl) (Question, error) {
	q := Question{
		ID:       d.ID,
		Title:    d.Title,
		Kind:     d.Kind,
		Required: true,
		Options:  d.Options,
		Unlock:   d.Unlock,
	}
	if d.Required != nil {
		q.Required = *d.Required
	}
	if q.ID == "" || q.Title == "" {
		return q, errors.New("id and title are required")
	}

	switch d.Kind {
	case KindSingleSelect:
		if !IsTextField(d.Field) {
			return q, fmt.Errorf("unknown text field %q", d.Field)
		}
		if len(d.Options) == 0 {
			return q, errors.New("options are required")
		}
		q.Fields = []string{d.Field}
		q.valid = singleSelectRule(d.Field, d.Options)

	case KindMultiSelect:
		if !IsListField(d.Field) {
			return q, fmt.Errorf("unknown list field %q", d.Field)
		}
		if len(d.Options) == 0 {
			return q, errors.New("options are required")
		}
		q.MinSelections = 1
		if d.MinSelections != nil {
			q.MinSelections = *d.MinSelections
		}
		if q.MinSelections < 0 || q.MinSelections > len(d.Options) {
			return q, fmt.Errorf("min_selections %d out of range", q.MinSelections)
		}
		q.Fields = []string{d.Field}
		q.valid = multiSelectRule(d.Field, d.Options, q.MinSelections)

	case KindFreeText:
		if len(d.Fields) == 0 {
			return q, errors.New("fields are required")
		}
		for _, f := range d.Fields {
			if !IsTextField(f) {
				return q, fmt.Errorf("unknown text field %q", f)
			}
		}
		q.Fields = d.Fields
		q.valid = freeTextRule(d.Fields)

	case KindConditional:
		if !IsTextField(d.Field) {
			return q, fmt.Errorf("unknown gate field %q", d.Field)
		}
		if !slices.Contains(d.Options, d.Unlock) {
			return q, fmt.Errorf("unlock literal %q is not an option", d.Unlock)
		}
		if len(d.FollowUps) == 0 {
			return q, errors.New("follow_ups are required")
		}
		for _, f := range d.FollowUps {
			if !IsTextField(f.Field) {
				return q, fmt.Errorf("unknown follow-up field %q", f.Field)
			}
			if len(f.Options) == 0 {
				return q, fmt.Errorf("follow-up %q has no options", f.Field)
			}
		}
		q.Fields = []string{d.Field}
		q.FollowUps = d.FollowUps
		q.valid = conditionalRule(d.Field, d.Options, d.Unlock, d.FollowUps)

	default:
		return q, fmt.Errorf("unknown kind %q", d.Kind)
	}
	return q, nil
}

func singleSelectRule(field string, options []string) func(*domain.UserProfile) bool {
	return func(p *domain.UserProfile) bool {
		return slices.Contains(options, Text(p, field))
	}
}

func multiSelectRule(field string, options []string, minSelections int) func(*domain.UserProfile) bool {
	return func(p *domain.UserProfile) bool {
		selected := List(p, field)
		for _, item := range selected {
			if !slices.Contains(options, item) {
				return false
			}
		}
		return len(selected) >= minSelections
	}
}

func freeTextRule(fields []string) func(*domain.UserProfile) bool {
	return func(p *domain.UserProfile) bool {
		for _, f := range fields {
			if strings.TrimSpace(Text(p, f)) == "" {
				return false
			}
		}
		return true
	}
}

func conditionalRule(gate string, options []string, unlock string, followUps []FollowUp) func(*domain.UserProfile) bool {
	return func(p *domain.UserProfile) bool {
		answer := Text(p, gate)
		if !slices.Contains(options, answer) {
			return false
		}
		if answer != unlock {
			return true
		}
		for _, f := range followUps {
			if !slices.Contains(f.Options, Text(p, f.Field)) {
				return false
			}
		}
		return true
	}
}

var loadBuiltins = sync.OnceValues(func() (map[string]*QuestionSet, error) {
	sets := make(map[string]*QuestionSet)
	for _, variant := range []string{VariantBaseline, VariantExtended} {
		data, err := builtinFS.ReadFile("questionsets/" + variant + ".yaml")
		if err != nil {
			return nil, err
		}
		set, err := Load(data)
		if err != nil {
			return nil, err
		}
		sets[variant] = set
	}
	return sets, nil
})

// Builtin returns one of the embedded question sets.
func Builtin(variant string) (*QuestionSet, error) {
	sets, err := loadBuiltins()
	if err != nil {
		return nil, err
	}
	set, ok := sets[variant]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVariant, variant)
	}
	return set, nil
}

// Variants lists the embedded question sets in presentation order.
func Variants() []string {
	return []string{VariantBaseline, VariantExtended}
}
