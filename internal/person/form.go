package person

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Form is the editable part of a Person as entered in the add and edit
// dialogs. Name and mobile are free-form; only the rank is constrained.
type Form struct {
	Name   string `validate:"-"`
	Rank   string `validate:"rank"`
	Mobile string `validate:"-"`
}

// FormOf returns the form pre-filled from p.
func FormOf(p Person) Form {
	return Form{Name: p.Name, Rank: p.Rank, Mobile: p.Mobile}
}

// FieldError describes one rejected form field.
type FieldError struct {
	Field   string
	Message string
}

// FormErrors is returned by ValidateForm.
type FormErrors []FieldError

func (e FormErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Message)
	}
	return strings.Join(msgs, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v, err := buildValidator()
	if err != nil {
		panic(err)
	}
	return v
}

func buildValidator() (*validator.Validate, error) {
	v := validator.New()
	if err := v.RegisterValidation("rank", isRankField); err != nil {
		return nil, fmt.Errorf("failed to register rank validation: %w", err)
	}
	return v, nil
}

func isRankField(fl validator.FieldLevel) bool {
	return IsRank(fl.Field().String())
}

// ValidateForm checks f against the UI-level rules.
func ValidateForm(f Form) error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	out := make(FormErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "rank":
		return fmt.Sprintf("%q is not a rank; choose one of: %s", fe.Value(), strings.Join(Ranks, ", "))
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
