package validator

import "github.com/NutriFlow-2025/coaching-service/internal/models"

// CheckinSubmitRequest carries a patient's check-in answers keyed by question
// id. Answers for schema-added questions go in Extra.
type CheckinSubmitRequest struct {
	Answers models.CheckinAnswers  `json:"answers"`
	Extra   map[string]interface{} `json:"extra,omitempty"`
}

type SnackLogCreateRequest struct {
	Time       string `json:"time" validate:"omitempty,max=10"`
	Food       string `json:"food" validate:"required,max=255"`
	Trigger    string `json:"trigger" validate:"omitempty,max=255"`
	Feeling    string `json:"feeling" validate:"omitempty,max=255"`
	Reason     string `json:"reason" validate:"omitempty,max=500"`
	FuturePlan string `json:"future_plan" validate:"omitempty,max=500"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required"`
}

type UserCreateRequest struct {
	Username         string  `json:"username" validate:"required,min=3,max=100"`
	Password         string  `json:"password" validate:"required,min=4"`
	Name             string  `json:"name" validate:"required,max=100"`
	Phone            string  `json:"phone" validate:"omitempty,phone_digits"`
	CheckinWeekday   string  `json:"checkin_weekday" validate:"required,checkin_weekday"`
	CheckinFrequency string  `json:"checkin_frequency" validate:"required,checkin_frequency"`
	PlanStartDate    *string `json:"plan_start_date" validate:"omitempty"`
}

type UserUpdateRequest struct {
	Name             *string `json:"name" validate:"omitempty,max=100"`
	Phone            *string `json:"phone" validate:"omitempty,phone_digits"`
	Active           *bool   `json:"active"`
	CheckinWeekday   *string `json:"checkin_weekday" validate:"omitempty,checkin_weekday"`
	CheckinFrequency *string `json:"checkin_frequency" validate:"omitempty,checkin_frequency"`
	PlanStartDate    *string `json:"plan_start_date"`
}

type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=4"`
}

type QuestionCreateRequest struct {
	ID       string   `json:"id" validate:"required,min=2,max=50"`
	Prompt   string   `json:"prompt" validate:"required,max=500"`
	Kind     string   `json:"kind" validate:"required,question_kind"`
	Options  []string `json:"options" validate:"omitempty,dive,max=255"`
	Category string   `json:"category" validate:"omitempty,max=50"`
}

type QuestionUpdateRequest struct {
	Prompt   *string  `json:"prompt" validate:"omitempty,max=500"`
	Kind     *string  `json:"kind" validate:"omitempty,question_kind"`
	Options  []string `json:"options" validate:"omitempty,dive,max=255"`
	Category *string  `json:"category" validate:"omitempty,max=50"`
	Active   *bool    `json:"active"`
}

type FinancialEntryRequest struct {
	Date        string  `json:"date" validate:"required"`
	Type        string  `json:"type" validate:"required,entry_type"`
	Category    string  `json:"category" validate:"omitempty,max=100"`
	Description string  `json:"description" validate:"omitempty,max=255"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
}

type NoticeCreateRequest struct {
	Message     string `json:"message" validate:"required,max=480"`
	HoursActive int    `json:"hours_active" validate:"required,min=1,max=720"`
}

type VideoRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Module      string `json:"module" validate:"omitempty,max=100"`
	Link        string `json:"link" validate:"required,url,max=500"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	Position    int    `json:"position" validate:"omitempty,min=0"`
}

type PartnerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Discount string `json:"discount" validate:"omitempty,max=50"`
	Coupon   string `json:"coupon" validate:"omitempty,max=50"`
	Link     string `json:"link" validate:"omitempty,url,max=500"`
	Active   *bool  `json:"active"`
}

type ChecklistRequest struct {
	Water   bool `json:"water"`
	Cardio  bool `json:"cardio"`
	Workout bool `json:"workout"`
	Diet    bool `json:"diet"`
	Sleep   bool `json:"sleep"`
}

type SubstitutionRequest struct {
	Food     string  `json:"food" validate:"required,max=255"`
	Quantity float64 `json:"quantity" validate:"required,gt=0"`
	Target   string  `json:"target" validate:"required,max=255"`
}
