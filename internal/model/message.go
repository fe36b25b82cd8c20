package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is a course chat entry.
type Message struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"course_id"`
	SenderID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"sender_id"`
	Sender      User       `gorm:"constraint:OnDelete:CASCADE" json:"sender,omitempty"`
	Content     string     `gorm:"size:5000;not null" json:"content"`
	Attachments []FileRef  `gorm:"serializer:json" json:"attachments"`
	ReplyToID   *uuid.UUID `gorm:"type:uuid" json:"reply_to_id,omitempty"`
	SeenBy      []User     `gorm:"many2many:message_seen_by" json:"seen_by,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID, err = uuid.NewV7()
	}
	return
}
