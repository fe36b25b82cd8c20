package dto

// Pagination is the page/limit query convention: 1-indexed, default
// page 1 / limit 20, limit capped at 100.
type Pagination struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

func (p *Pagination) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}
