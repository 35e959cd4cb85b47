package request

import (
	"time"

	"library-api/internal/domain/book"
	"library-api/internal/usecase/commands"
	"library-api/internal/usecase/queries"
)

type CreateBookRequest struct {
	Title       string     `json:"title" binding:"required"`
	Author      string     `json:"author" binding:"required"`
	ISBN        *string    `json:"isbn"`
	Description *string    `json:"description"`
	Genre       []string   `json:"genre"`
	CoverImage  *string    `json:"coverImage"`
	Publisher   *string    `json:"publisher"`
	PublishedAt *time.Time `json:"publishedAt"`
	Pages       *int       `json:"pages" binding:"omitempty,min=1"`
	Language    string     `json:"language"`
	Copies      *int       `json:"copies" binding:"omitempty,min=1"`
	Location    *string    `json:"location"`
	Tags        []string   `json:"tags"`
}

func (r *CreateBookRequest) ToCommand() commands.CreateBookRequest {
	return commands.CreateBookRequest{
		Details: book.Details{
			Title:       r.Title,
			Author:      r.Author,
			ISBN:        r.ISBN,
			Description: r.Description,
			Genre:       r.Genre,
			CoverImage:  r.CoverImage,
			Publisher:   r.Publisher,
			PublishedAt: r.PublishedAt,
			Pages:       r.Pages,
			Language:    r.Language,
			Location:    r.Location,
			Tags:        r.Tags,
		},
		Copies: r.Copies,
	}
}

type UpdateBookRequest struct {
	Title       *string    `json:"title"`
	Author      *string    `json:"author"`
	ISBN        *string    `json:"isbn"`
	Description *string    `json:"description"`
	Genre       []string   `json:"genre"`
	CoverImage  *string    `json:"coverImage"`
	Publisher   *string    `json:"publisher"`
	PublishedAt *time.Time `json:"publishedAt"`
	Pages       *int       `json:"pages" binding:"omitempty,min=1"`
	Language    *string    `json:"language"`
	Copies      *int       `json:"copies" binding:"omitempty,min=1"`
	Location    *string    `json:"location"`
	Tags        []string   `json:"tags"`
}

func (r *UpdateBookRequest) ToCommand() commands.UpdateBookRequest {
	return commands.UpdateBookRequest{
		Title:       r.Title,
		Author:      r.Author,
		ISBN:        r.ISBN,
		Description: r.Description,
		Genre:       r.Genre,
		CoverImage:  r.CoverImage,
		Publisher:   r.Publisher,
		PublishedAt: r.PublishedAt,
		Pages:       r.Pages,
		Language:    r.Language,
		Copies:      r.Copies,
		Location:    r.Location,
		Tags:        r.Tags,
	}
}

type ListBooksQuery struct {
	PageQuery
	Search string `form:"search"`
	Genre  string `form:"genre"`
}

func (q ListBooksQuery) ToFilter() queries.BookFilter {
	return queries.BookFilter{Search: q.Search, Genre: q.Genre}
}

type SearchBooksQuery struct {
	Q string `form:"q" binding:"required"`
}
