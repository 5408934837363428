// Package validation checks request bodies and query values and reports
// failures as problem field errors keyed by JSON name.
package validation

import (
	"errors"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/blaisecz/sleep-coach/internal/domain"
	"github.com/blaisecz/sleep-coach/internal/survey"
	"github.com/blaisecz/sleep-coach/pkg/problem"
	"github.com/go-playground/validator/v10"
)

// rule is a custom tag with the message shown when it fails.
type rule struct {
	tag     string
	check   validator.Func
	message string
}

func oneOf(choices []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return slices.Contains(choices, fl.Field().String())
	}
}

func choicesMessage(choices []string) string {
	return "must be one of: " + strings.Join(choices, ", ")
}

var rules = []rule{
	{
		tag: "timezone",
		check: func(fl validator.FieldLevel) bool {
			_, err := time.LoadLocation(fl.Field().String())
			return err == nil
		},
		message: "must be a valid IANA timezone",
	},
	{
		tag: "clock",
		check: func(fl validator.FieldLevel) bool {
			_, err := time.Parse("15:04", fl.Field().String())
			return err == nil
		},
		message: "must be a time of day as HH:MM",
	},
	{tag: "variant", check: oneOf(survey.Variants()), message: choicesMessage(survey.Variants())},
	{tag: "caffeine_intake", check: oneOf(domain.CaffeineIntakes), message: choicesMessage(domain.CaffeineIntakes)},
	{tag: "pre_sleep_activity", check: oneOf(domain.PreSleepActivities), message: choicesMessage(domain.PreSleepActivities)},
}

var (
	validate = newValidator()
	messages = make(map[string]string, len(rules))
)

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	for _, r := range rules {
		if err := v.RegisterValidation(r.tag, r.check); err != nil {
			panic(err)
		}
	}
	return v
}

func init() {
	for _, r := range rules {
		messages[r.tag] = r.message
	}
}

// Validate checks a struct and returns one field error per failed rule.
func Validate(s any) []problem.FieldError {
	return fieldErrors("body", validate.Struct(s))
}

// Var checks a single value against tag, reporting it under field.
func Var(field string, value any, tag string) []problem.FieldError {
	errs := fieldErrors(field, validate.Var(value, tag))
	for i := range errs {
		errs[i].Field = field
	}
	return errs
}

func fieldErrors(fallback string, err error) []problem.FieldError {
	if err == nil {
		return nil
	}
	var failed validator.ValidationErrors
	if !errors.As(err, &failed) || len(failed) == 0 {
		return []problem.FieldError{{Field: fallback, Message: "is invalid"}}
	}

	out := make([]problem.FieldError, 0, len(failed))
	for _, fe := range failed {
		out = append(out, problem.FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	if m, ok := messages[fe.Tag()]; ok {
		return m
	}
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}
