package dto

type UserFilter struct {
	Pagination
	Role       string `form:"role" binding:"omitempty,oneof=student instructor admin"`
	Q          string `form:"q"`
	IsVerified *bool  `form:"is_verified"`
}

type UpdateUserRequest struct {
	Name       *string `json:"name" binding:"omitempty,min=2,max=100"`
	Bio        *string `json:"bio" binding:"omitempty,max=500"`
	AvatarURL  *string `json:"avatar_url"`
	Role       *string `json:"role" binding:"omitempty,oneof=student instructor admin"`
	IsVerified *bool   `json:"is_verified"`
}
