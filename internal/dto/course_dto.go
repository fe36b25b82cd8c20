package dto

type CreateCourseRequest struct {
	Title        string   `json:"title" binding:"required,min=3,max=200"`
	Description  string   `json:"description" binding:"required,max=5000"`
	Category     string   `json:"category" binding:"omitempty,max=100"`
	Level        string   `json:"level" binding:"omitempty,max=50"`
	Language     string   `json:"language" binding:"omitempty,max=50"`
	Price        float64  `json:"price" binding:"omitempty,gte=0"`
	ThumbnailURL string   `json:"thumbnail_url"`
	Tags         []string `json:"tags"`
}

type UpdateCourseRequest struct {
	Title        *string   `json:"title" binding:"omitempty,min=3,max=200"`
	Description  *string   `json:"description" binding:"omitempty,max=5000"`
	Category     *string   `json:"category" binding:"omitempty,max=100"`
	Level        *string   `json:"level" binding:"omitempty,max=50"`
	Language     *string   `json:"language" binding:"omitempty,max=50"`
	Price        *float64  `json:"price" binding:"omitempty,gte=0"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	Tags         *[]string `json:"tags"`
}

type CourseFilter struct {
	Pagination
	Category    string `form:"category"`
	Level       string `form:"level"`
	Instructor  string `form:"instructor" binding:"omitempty,uuid"`
	IsPublished *bool  `form:"is_published"`
	Q           string `form:"q"`
}
