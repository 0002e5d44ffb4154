package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RolePatient UserRole = "paciente"
)

type CheckinFrequency string

const (
	FrequencyWeekly   CheckinFrequency = "Semanal"
	FrequencyBiweekly CheckinFrequency = "Quinzenal"
)

// Portuguese weekday names as stored in the user's schedule
var WeekdayNames = map[time.Weekday]string{
	time.Monday:    "Segunda",
	time.Tuesday:   "Terça",
	time.Wednesday: "Quarta",
	time.Thursday:  "Quinta",
	time.Friday:    "Sexta",
	time.Saturday:  "Sábado",
	time.Sunday:    "Domingo",
}

// WeekdayName returns the Portuguese name for a date's weekday
func WeekdayName(t time.Time) string {
	return WeekdayNames[t.Weekday()]
}

type User struct {
	ID       uint     `json:"id" gorm:"primaryKey"`
	Username string   `json:"username" gorm:"uniqueIndex;not null;size:100"`
	Password string   `json:"-" gorm:"not null;size:255"`
	Name     string   `json:"name" gorm:"size:100"`
	Role     UserRole `json:"role" gorm:"not null;size:20;default:'paciente'"`
	Active   bool     `json:"active" gorm:"default:true"`
	Phone    string   `json:"phone" gorm:"size:30"`

	// Cadence configuration; changes apply on the next evaluation only
	CheckinWeekday   string           `json:"checkin_weekday" gorm:"size:20"`
	CheckinFrequency CheckinFrequency `json:"checkin_frequency" gorm:"size:20;default:'Semanal'"`
	PlanStartDate    *time.Time       `json:"plan_start_date" gorm:"type:date"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// CycleDays returns the first-check-in waiting period in days
func (f CheckinFrequency) CycleDays() int {
	if f == FrequencyBiweekly {
		return 15
	}
	return 7
}

// LockoutDays returns the minimum gap between consecutive check-ins
func (f CheckinFrequency) LockoutDays() int {
	if f == FrequencyBiweekly {
		return 13
	}
	return 6
}
