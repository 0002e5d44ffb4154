package models

import "time"

// ChecklistEntry is a patient's daily habit record. A day counts for the
// streak when at least one habit is checked.
type ChecklistEntry struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	Username string    `json:"username" gorm:"not null;size:100;uniqueIndex:idx_checklist_user_date"`
	Date     time.Time `json:"date" gorm:"type:date;not null;uniqueIndex:idx_checklist_user_date"`
	Water    bool      `json:"water" gorm:"default:false"`
	Cardio   bool      `json:"cardio" gorm:"default:false"`
	Workout  bool      `json:"workout" gorm:"default:false"`
	Diet     bool      `json:"diet" gorm:"default:false"`
	Sleep    bool      `json:"sleep" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ChecklistEntry) TableName() string {
	return "checklist_entries"
}

// AllDone reports whether every habit was checked for the day
func (e ChecklistEntry) AllDone() bool {
	return e.Water && e.Cardio && e.Workout && e.Diet && e.Sleep
}

// AnyDone reports whether at least one habit was checked for the day
func (e ChecklistEntry) AnyDone() bool {
	return e.Water || e.Cardio || e.Workout || e.Diet || e.Sleep
}
