package request

import "library-api/internal/usecase/queries"

type PageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

// ToPageRequest clamps limit to the maximum instead of rejecting it.
func (q PageQuery) ToPageRequest() queries.PageRequest {
	return queries.NewPageRequest(q.Page, q.Limit)
}
