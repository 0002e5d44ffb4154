package models

import (
	"time"

	"gorm.io/datatypes"
)

type QuestionKind string

const (
	KindShortText QuestionKind = "short_text"
	KindLongText  QuestionKind = "long_text"
	KindNumber    QuestionKind = "number"
	KindRadio     QuestionKind = "radio"
	KindSelect    QuestionKind = "select"
	KindSlider    QuestionKind = "slider"
)

// Question is a row of the check-in question schema. The id is the stable
// string key answers are stored under (e.g. "aderencia").
type Question struct {
	ID       string         `json:"id" gorm:"primaryKey;size:50"`
	Position int            `json:"position" gorm:"not null;index"`
	Prompt   string         `json:"prompt" gorm:"not null;size:500"`
	Kind     QuestionKind   `json:"kind" gorm:"not null;size:20"`
	Options  datatypes.JSON `json:"options,omitempty" gorm:"type:jsonb"`
	Category string         `json:"category" gorm:"size:50"`
	Active   bool           `json:"active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Question) TableName() string {
	return "questions"
}

// ValidKind reports whether k is one of the supported input kinds
func ValidKind(k QuestionKind) bool {
	switch k {
	case KindShortText, KindLongText, KindNumber, KindRadio, KindSelect, KindSlider:
		return true
	}
	return false
}
