package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusSubmitted   = "submitted"
	StatusResubmitted = "resubmitted"
	StatusGraded      = "graded"
	StatusLate        = "late"
)

// Submission is unique per (assignment, student); resubmission
// overwrites the same record.
type Submission struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AssignmentID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_submissions_assignment_student" json:"assignment_id"`
	Assignment   Assignment `gorm:"constraint:OnDelete:CASCADE" json:"assignment,omitempty"`
	StudentID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_submissions_assignment_student" json:"student_id"`
	Student      User       `gorm:"constraint:OnDelete:CASCADE" json:"student,omitempty"`

	Files       []FileRef `gorm:"serializer:json" json:"files"`
	TextAnswer  string    `gorm:"size:10000" json:"text_answer"`
	SubmittedAt time.Time `gorm:"index" json:"submitted_at"`

	Grade      *float64   `json:"grade"`
	Feedback   string     `gorm:"size:5000" json:"feedback"`
	GradedByID *uuid.UUID `gorm:"type:uuid;index" json:"graded_by_id"`
	Status     string     `gorm:"size:20;not null;default:submitted;index" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *Submission) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID, err = uuid.NewV7()
	}
	return
}
