package quiz

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct checks v's `validate` tags. The first failing field is
// returned as a *ValidationError named by its JSON-ish lower camel name.
func ValidateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Reason: err.Error()}
	}
	fe := verrs[0]
	return &ValidationError{Field: lowerFirst(fe.Field()), Reason: describeTag(fe)}
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// ValidateQuestion runs the struct tag checks and then the answer
// invariants of q.
func ValidateQuestion(q Question) error {
	if err := ValidateStruct(q); err != nil {
		return err
	}
	return q.Validate()
}

// Playable splits qs into the questions that pass ValidateQuestion and the
// errors for the rest. The returned slice never aliases qs.
func Playable(qs []Question) ([]Question, []error) {
	out := make([]Question, 0, len(qs))
	var errs []error
	for _, q := range qs {
		if err := ValidateQuestion(q); err != nil {
			errs = append(errs, fmt.Errorf("question %q: %w", q.ID, err))
			continue
		}
		out = append(out, q)
	}
	return out, errs
}
