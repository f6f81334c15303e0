package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type Task struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	TitleKey    string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"-"`
	Description string    `gorm:"type:text" json:"description"`
	Status      bool      `gorm:"not null;default:false;index" json:"status"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TitleKey folds a title into the form used for uniqueness checks.
func TitleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// BeforeSave keeps TitleKey in step with Title on create and full saves.
// Partial updates set title_key explicitly alongside title.
func (t *Task) BeforeSave(tx *gorm.DB) error {
	if t.Title != "" {
		t.TitleKey = TitleKey(t.Title)
	}
	return nil
}
