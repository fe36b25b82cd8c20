package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleInstructor || role == RoleAdmin
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:20;not null;default:student;index" json:"role"`
	AvatarURL    string    `gorm:"type:text" json:"avatar_url"`
	Bio          string    `gorm:"size:500" json:"bio"`
	IsVerified   bool      `gorm:"default:false;index" json:"is_verified"`
	// Enrollment lives in the course_students join table; the teaching
	// set is derived from courses.instructor_id rather than stored.
	EnrolledCourses []Course  `gorm:"many2many:course_students" json:"enrolled_courses,omitempty"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
