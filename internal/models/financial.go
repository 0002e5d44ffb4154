package models

import "time"

type EntryType string

const (
	EntryIncome  EntryType = "Receita"
	EntryExpense EntryType = "Despesa"
)

type FinancialEntry struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Date        time.Time `json:"date" gorm:"type:date;not null;index"`
	Type        EntryType `json:"type" gorm:"not null;size:20"`
	Category    string    `json:"category" gorm:"size:100"`
	Description string    `json:"description" gorm:"size:255"`
	Amount      float64   `json:"amount" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
}

func (FinancialEntry) TableName() string {
	return "financial_entries"
}
