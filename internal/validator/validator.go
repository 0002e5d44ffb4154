package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/NutriFlow-2025/coaching-service/internal/models"
)

// ValidationError describes a single failed rule
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// HasErrors reports whether any rule failed
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator wraps go-playground/validator with domain rules registered
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator with all domain rules registered
func New() *Validator {
	validate := validator.New()

	v := &Validator{validate: validate}
	v.registerDomainRules()

	return v
}

// Validate validates struct tags for any struct
func (v *Validator) Validate(s interface{}) ValidationErrors {
	err := v.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ToValidationErrors converts go-playground errors to ValidationErrors
func ToValidationErrors(err error) ValidationErrors {
	var errors ValidationErrors

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{
			Field:   "request",
			Message: err.Error(),
			Rule:    "struct",
		}}
	}

	for _, fieldErr := range validationErrors {
		errors = append(errors, ValidationError{
			Field:   strings.ToLower(fieldErr.Field()),
			Message: getErrorMessage(fieldErr),
			Value:   fieldErr.Value(),
			Rule:    fieldErr.Tag(),
		})
	}

	return errors
}

func getErrorMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fieldErr.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fieldErr.Param())
	case "checkin_weekday":
		return "must be a Portuguese weekday name"
	case "checkin_frequency":
		return "must be Semanal or Quinzenal"
	case "question_kind":
		return "must be a supported question kind"
	case "entry_type":
		return "must be Receita or Despesa"
	case "phone_digits":
		return "must contain at least 10 digits"
	case "positive_weight":
		return "must be greater than zero"
	default:
		return fmt.Sprintf("failed %s validation", fieldErr.Tag())
	}
}

// registerDomainRules registers custom domain rule validators
func (v *Validator) registerDomainRules() {
	// Schedule weekday must be one of the Portuguese names
	v.validate.RegisterValidation("checkin_weekday", func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		for _, weekday := range models.WeekdayNames {
			if name == weekday {
				return true
			}
		}
		return false
	})

	// Check-in frequency (Semanal = 7-day cycle, Quinzenal = 15-day cycle)
	v.validate.RegisterValidation("checkin_frequency", func(fl validator.FieldLevel) bool {
		f := models.CheckinFrequency(fl.Field().String())
		return f == models.FrequencyWeekly || f == models.FrequencyBiweekly
	})

	// Question input kinds
	v.validate.RegisterValidation("question_kind", func(fl validator.FieldLevel) bool {
		return models.ValidKind(models.QuestionKind(fl.Field().String()))
	})

	// Financial entry type
	v.validate.RegisterValidation("entry_type", func(fl validator.FieldLevel) bool {
		t := models.EntryType(fl.Field().String())
		return t == models.EntryIncome || t == models.EntryExpense
	})

	// Phone numbers keep formatting in storage; dispatch needs 10+ digits
	v.validate.RegisterValidation("phone_digits", func(fl validator.FieldLevel) bool {
		digits := 0
		for _, r := range fl.Field().String() {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		return digits >= 10
	})

	// Submitted weight must be positive
	v.validate.RegisterValidation("positive_weight", func(fl validator.FieldLevel) bool {
		return fl.Field().Float() > 0
	})
}
