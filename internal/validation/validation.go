package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperr "github.com/julianstephens/pomohabit/internal/errors"
)

const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 2000
	MaxNoteLen        = 4000
)

// HabitInput is the user-editable part of a habit.
type HabitInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// NoteInput is the user-supplied part of a note.
type NoteInput struct {
	HabitID string `json:"habit_id" validate:"required"`
	Text    string `json:"text" validate:"required,max=4000"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return strings.ToLower(fld.Name)
		}
		return name
	})
	return v
}

// Habit trims the input in place and validates it.
func Habit(in *HabitInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	return Struct(in)
}

// Note trims the input in place and validates it.
func Note(in *NoteInput) error {
	in.HabitID = strings.TrimSpace(in.HabitID)
	in.Text = strings.TrimSpace(in.Text)
	return Struct(in)
}

// Struct validates s by its tags. The first failing field is reported as an
// *errors.ValidationError.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return apperr.NewValidation(fe.Field(), reason(fe))
	}
	return err
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
