package models

import "time"

// Notice is a coach announcement shown on patient dashboards until it expires
type Notice struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Message   string    `json:"message" gorm:"not null;size:500"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
}

func (Notice) TableName() string {
	return "notices"
}

type Video struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Title       string `json:"title" gorm:"not null;size:255"`
	Module      string `json:"module" gorm:"size:100;index"`
	Link        string `json:"link" gorm:"not null;size:500"`
	Description string `json:"description" gorm:"size:1000"`
	Position    int    `json:"position" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Video) TableName() string {
	return "videos"
}

// LessonCompletion records that a patient finished watching a video
type LessonCompletion struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Username    string    `json:"username" gorm:"not null;size:100;uniqueIndex:idx_lesson_user_video"`
	VideoID     uint      `json:"video_id" gorm:"not null;uniqueIndex:idx_lesson_user_video"`
	CompletedAt time.Time `json:"completed_at"`
}

func (LessonCompletion) TableName() string {
	return "lesson_completions"
}

type Partner struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"not null;size:100"`
	Discount string `json:"discount" gorm:"size:50"`
	Coupon   string `json:"coupon" gorm:"size:50"`
	Link     string `json:"link" gorm:"size:500"`
	Active   bool   `json:"active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Partner) TableName() string {
	return "partners"
}
