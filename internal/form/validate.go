package form

import (
	"errors"
	"strings"

	"eventadmin/internal/model"
)

// ErrValidation is matched by errors.Is against a non-empty ValidationErrors.
var ErrValidation = errors.New("event validation failed")

// requiredMessages holds the fixed message shown under each empty field.
var requiredMessages = map[model.Field]string{
	model.FieldTitle:       "Title is required.",
	model.FieldDescription: "Description is required.",
	model.FieldDate:        "Date is required.",
	model.FieldStartTime:   "Start time is required.",
	model.FieldEndTime:     "End time is required.",
	model.FieldLocation:    "Location is required.",
}

// RequiredMessage returns the message for an empty field f.
func RequiredMessage(f model.Field) string {
	return requiredMessages[f]
}

// ValidationErrors maps a field to the message shown for it.
type ValidationErrors map[model.Field]string

// Validate runs the required-field check over the six text fields.
// A field fails only when its value is the empty string; whitespace and
// malformed dates or times pass. The result is nil when nothing failed.
func Validate(e model.Event) ValidationErrors {
	var errs ValidationErrors
	for _, f := range model.TextFields {
		if e.Get(f) != "" {
			continue
		}
		if errs == nil {
			errs = make(ValidationErrors, len(model.TextFields))
		}
		errs[f] = requiredMessages[f]
	}
	return errs
}

// Fields returns the failing fields in form order.
func (v ValidationErrors) Fields() []model.Field {
	out := make([]model.Field, 0, len(v))
	for _, f := range model.TextFields {
		if _, ok := v[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, f := range v.Fields() {
		msgs = append(msgs, v[f])
	}
	return ErrValidation.Error() + ": " + strings.Join(msgs, " ")
}

func (v ValidationErrors) Is(target error) bool {
	return target == ErrValidation && len(v) > 0
}

func (v ValidationErrors) clone() ValidationErrors {
	out := make(ValidationErrors, len(v))
	for k, msg := range v {
		out[k] = msg
	}
	return out
}
