package validator

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/NutriFlow-2025/coaching-service/internal/models"
)

// PlanDateLayout is the wire format for plan start dates
const PlanDateLayout = "2006-01-02"

// rangePattern matches slider range options like "0-10"
var rangePattern = regexp.MustCompile(`^\d+-\d+$`)

// ValidateCheckinSubmit validates a check-in submission's business rules.
// Weight is the one hard requirement of the form; everything else degrades
// to defaults during scoring.
func (v *Validator) ValidateCheckinSubmit(req *CheckinSubmitRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, v.Validate(req)...)

	if req.Answers.Weight == nil || *req.Answers.Weight <= 0 {
		errors = append(errors, ValidationError{
			Field:   "peso",
			Message: "must be greater than zero",
			Rule:    "positive_weight",
		})
	}

	for field, value := range map[string]*float64{
		"refeicoes_fora": req.Answers.MealsOutsidePlan,
		"dias_alcool":    req.Answers.AlcoholDays,
		"treino_forca":   req.Answers.StrengthDays,
		"treino_cardio":  req.Answers.CardioDays,
		"sono_horas":     req.Answers.SleepHours,
	} {
		if value != nil && *value < 0 {
			errors = append(errors, ValidationError{
				Field:   field,
				Message: "cannot be negative",
				Value:   *value,
				Rule:    "business_logic",
			})
		}
	}

	for field, value := range map[string]*float64{
		"nps":             req.Answers.NPS,
		"avaliacao_atend": req.Answers.ServiceRating,
	} {
		if value != nil && (*value < 0 || *value > 10) {
			errors = append(errors, ValidationError{
				Field:   field,
				Message: "must be between 0 and 10",
				Value:   *value,
				Rule:    "business_logic",
			})
		}
	}

	return errors
}

// ValidateUserCreate validates patient registration business rules
func (v *Validator) ValidateUserCreate(req *UserCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, v.Validate(req)...)

	if req.PlanStartDate != nil {
		if _, err := time.Parse(PlanDateLayout, *req.PlanStartDate); err != nil {
			errors = append(errors, ValidationError{
				Field:   "plan_start_date",
				Message: fmt.Sprintf("must use layout %s", PlanDateLayout),
				Value:   *req.PlanStartDate,
				Rule:    "date_format",
			})
		}
	}

	return errors
}

// ValidateQuestionCreate validates question schema editing rules
func (v *Validator) ValidateQuestionCreate(req *QuestionCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, v.Validate(req)...)

	kind := models.QuestionKind(req.Kind)
	switch kind {
	case models.KindRadio, models.KindSelect:
		if len(req.Options) < 2 {
			errors = append(errors, ValidationError{
				Field:   "options",
				Message: "choice questions need at least two options",
				Value:   len(req.Options),
				Rule:    "business_logic",
			})
		}
	case models.KindSlider:
		// Sliders carry a single "min-max" range option
		if len(req.Options) != 1 || !rangePattern.MatchString(req.Options[0]) {
			errors = append(errors, ValidationError{
				Field:   "options",
				Message: "slider questions need one min-max range option",
				Value:   req.Options,
				Rule:    "business_logic",
			})
		}
	case models.KindNumber, models.KindShortText, models.KindLongText:
		if len(req.Options) > 0 {
			errors = append(errors, ValidationError{
				Field:   "options",
				Message: fmt.Sprintf("%s questions cannot carry options", kind),
				Value:   len(req.Options),
				Rule:    "business_logic",
			})
		}
	}

	for i, opt := range req.Options {
		if strings.TrimSpace(opt) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("options[%d]", i),
				Message: "option cannot be empty",
				Rule:    "business_logic",
			})
		}
	}

	return errors
}

// ValidateFinancialEntry validates a financial entry request
func (v *Validator) ValidateFinancialEntry(req *FinancialEntryRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, v.Validate(req)...)

	if _, err := time.Parse(PlanDateLayout, req.Date); err != nil {
		errors = append(errors, ValidationError{
			Field:   "date",
			Message: fmt.Sprintf("must use layout %s", PlanDateLayout),
			Value:   req.Date,
			Rule:    "date_format",
		})
	}

	return errors
}
