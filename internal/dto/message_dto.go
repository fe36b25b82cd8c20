package dto

import "github.com/google/uuid"

type PostMessageRequest struct {
	Content   string     `json:"content" binding:"required,max=5000"`
	ReplyToID *uuid.UUID `json:"reply_to_id" binding:"omitempty"`
}
