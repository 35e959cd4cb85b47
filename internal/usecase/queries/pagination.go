package queries

const (
	DefaultPage      = 1
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// PageRequest is a normalized page/limit pair. Out-of-range values fall back to defaults
// instead of failing the request.
type PageRequest struct {
	Page  int
	Limit int
}

func NewPageRequest(page, limit int) PageRequest {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return PageRequest{Page: page, Limit: limit}
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

type Page[T any] struct {
	Items      []T
	Page       int
	Limit      int
	Total      int64
	TotalPages int
}

func NewPage[T any](items []T, req PageRequest, total int64) *Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(req.Limit) - 1) / int64(req.Limit))
	}
	return &Page[T]{
		Items:      items,
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
