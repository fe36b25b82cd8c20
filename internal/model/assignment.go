package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Assignment struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"course_id"`
	Course      Course     `gorm:"constraint:OnDelete:CASCADE" json:"course,omitempty"`
	Title       string     `gorm:"size:200;not null;index" json:"title"`
	Description string     `gorm:"size:5000;not null" json:"description"`
	DueDate     *time.Time `gorm:"index" json:"due_date,omitempty"`
	MaxScore    int        `gorm:"default:100" json:"max_score"`
	Attachments []FileRef  `gorm:"serializer:json" json:"attachments"`
	CreatedByID uuid.UUID  `gorm:"type:uuid;not null;index" json:"created_by_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *Assignment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID, err = uuid.NewV7()
	}
	return
}
