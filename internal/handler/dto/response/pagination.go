package response

import "library-api/internal/usecase/queries"

type PageResponse[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

func FromPage[V any, T any](p *queries.Page[V], mapItem func(*V) T) *PageResponse[T] {
	items := make([]T, len(p.Items))
	for i := range p.Items {
		items[i] = mapItem(&p.Items[i])
	}
	return &PageResponse[T]{
		Items:      items,
		Total:      p.Total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages,
	}
}
