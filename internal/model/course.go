package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Course struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string    `gorm:"size:200;not null" json:"title"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	Category     string    `gorm:"size:100;index" json:"category"`
	Level        string    `gorm:"size:50" json:"level"`
	Language     string    `gorm:"size:50" json:"language"`
	Price        float64   `gorm:"default:0" json:"price"`
	ThumbnailURL string    `gorm:"type:text" json:"thumbnail_url"`
	Tags         []string  `gorm:"serializer:json" json:"tags"`

	InstructorID uuid.UUID `gorm:"type:uuid;not null;index" json:"instructor_id"`
	Instructor   User      `gorm:"constraint:OnDelete:CASCADE" json:"instructor,omitempty"`

	IsPublished   bool    `gorm:"default:false;index" json:"is_published"`
	RatingAverage float64 `gorm:"default:0" json:"rating_average"`
	RatingCount   int     `gorm:"default:0" json:"rating_count"`

	Students    []User       `gorm:"many2many:course_students" json:"students,omitempty"`
	Lectures    []Lecture    `gorm:"constraint:OnDelete:CASCADE" json:"lectures,omitempty"`
	Assignments []Assignment `gorm:"constraint:OnDelete:CASCADE" json:"assignments,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}
