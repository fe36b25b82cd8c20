package dto

type CreateAssignmentRequest struct {
	Title       string `form:"title" binding:"required,min=3,max=200"`
	Description string `form:"description" binding:"required,max=5000"`
	DueDate     string `form:"due_date" binding:"omitempty"` // RFC 3339
	MaxScore    int    `form:"max_score" binding:"omitempty,min=1"`
}

type UpdateAssignmentRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=3,max=200"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	DueDate     *string `json:"due_date"` // RFC 3339, empty string clears
	MaxScore    *int    `json:"max_score" binding:"omitempty,min=1"`
}

type SubmitRequest struct {
	TextAnswer string `form:"text_answer" binding:"omitempty,max=10000"`
}

type GradeRequest struct {
	Grade    *float64 `json:"grade" binding:"required,gte=0"`
	Feedback string   `json:"feedback" binding:"omitempty,max=5000"`
}
