package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Lecture struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID    uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`

	VideoURL        string `gorm:"type:text" json:"video_url"`
	VideoProviderID string `gorm:"size:255" json:"video_provider_id,omitempty"`
	DurationSec     int    `gorm:"default:0" json:"duration_sec"`

	// Position within the course; ties are permitted.
	Order     int       `gorm:"column:position;default:1" json:"order"`
	IsPreview bool      `gorm:"default:false" json:"is_preview"`
	Resources []FileRef `gorm:"serializer:json" json:"resources"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (l *Lecture) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID, err = uuid.NewV7()
	}
	return
}
