package dto

// Lecture payloads bind from multipart form fields because the video
// travels in the same request.
type CreateLectureRequest struct {
	Title       string `form:"title" binding:"required,min=3,max=200"`
	Description string `form:"description" binding:"omitempty,max=5000"`
	Order       int    `form:"order" binding:"omitempty,min=1"`
	IsPreview   bool   `form:"is_preview"`
	DurationSec int    `form:"duration_sec" binding:"omitempty,min=0"`
}

type UpdateLectureRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=3,max=200"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	Order       *int    `json:"order" binding:"omitempty,min=1"`
	IsPreview   *bool   `json:"is_preview"`
	DurationSec *int    `json:"duration_sec" binding:"omitempty,min=0"`
}
