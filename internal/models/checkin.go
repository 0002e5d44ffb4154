package models

import (
	"time"

	"gorm.io/datatypes"
)

type ReviewStatus string

const (
	StatusPending  ReviewStatus = "Pendente"
	StatusReviewed ReviewStatus = "Revisado"
)

// CheckinAnswers holds the answers for the default question set. All fields
// are optional; absent answers score zero. Extra carries answers for
// coach-added schema questions keyed by question id.
type CheckinAnswers struct {
	Weight           *float64 `json:"peso,omitempty"`
	Adherence        *string  `json:"aderencia,omitempty"`
	AdherenceNotes   *string  `json:"aderencia_expl,omitempty"`
	Dedication       *string  `json:"dedicacao,omitempty"`
	MealsOutsidePlan *float64 `json:"refeicoes_fora,omitempty"`
	AlcoholDays      *float64 `json:"dias_alcool,omitempty"`
	StrengthDays     *float64 `json:"treino_forca,omitempty"`
	CardioDays       *float64 `json:"treino_cardio,omitempty"`
	Disposition      *string  `json:"disposicao,omitempty"`
	Stress           *string  `json:"estresse,omitempty"`
	Anxiety          *string  `json:"ansiedade,omitempty"`
	Routine          *string  `json:"rotina,omitempty"`
	Evolution        *string  `json:"evolucao,omitempty"`
	SleepQuality     *string  `json:"sono_qualidade,omitempty"`
	SleepHours       *float64 `json:"sono_horas,omitempty"`
	Changes          *string  `json:"alteracoes,omitempty"`
	NPS              *float64 `json:"nps,omitempty"`
	ServiceRating    *float64 `json:"avaliacao_atend,omitempty"`
}

// CheckinScores holds the derived per-dimension scores. Recomputing from the
// source answers always yields the same values.
type CheckinScores struct {
	Adherence    float64 `json:"score_aderencia"`
	Dedication   float64 `json:"score_dedicacao"`
	Disposition  float64 `json:"score_disposicao"`
	Routine      float64 `json:"score_rotina"`
	Evolution    float64 `json:"score_evolucao"`
	SleepQuality float64 `json:"score_sono"`
	Stress       float64 `json:"score_estresse"`
	Anxiety      float64 `json:"score_ansiedade"`
	Overall      float64 `json:"nota_geral"`
}

type Checkin struct {
	ID             uint         `json:"id" gorm:"primaryKey"`
	Username       string       `json:"username" gorm:"index;not null;size:100;uniqueIndex:idx_checkin_user_date"`
	SubmissionDate time.Time    `json:"submission_date" gorm:"type:date;not null;uniqueIndex:idx_checkin_user_date"`
	Status         ReviewStatus `json:"status" gorm:"size:20;default:'Pendente';index"`

	Answers CheckinAnswers `json:"answers" gorm:"embedded"`
	Extra   datatypes.JSON `json:"extra,omitempty" gorm:"type:jsonb"`
	Scores  CheckinScores  `json:"scores" gorm:"embedded"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Checkin) TableName() string {
	return "checkins"
}

type SnackLog struct {
	ID         uint         `json:"id" gorm:"primaryKey"`
	Username   string       `json:"username" gorm:"index;not null;size:100"`
	Date       time.Time    `json:"date" gorm:"type:date;not null"`
	Time       string       `json:"time" gorm:"size:10"`
	Food       string       `json:"food" gorm:"size:255"`
	Trigger    string       `json:"trigger" gorm:"size:255"`
	Feeling    string       `json:"feeling" gorm:"size:255"`
	Reason     string       `json:"reason" gorm:"size:500"`
	FuturePlan string       `json:"future_plan" gorm:"size:500"`
	Status     ReviewStatus `json:"status" gorm:"size:20;default:'Pendente';index"`

	CreatedAt time.Time `json:"created_at"`
}

func (SnackLog) TableName() string {
	return "snack_logs"
}
