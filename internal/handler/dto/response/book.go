package response

import (
	"time"

	"library-api/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BookResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Author      string     `json:"author"`
	ISBN        *string    `json:"isbn,omitempty"`
	Description *string    `json:"description,omitempty"`
	Genre       []string   `json:"genre"`
	CoverImage  *string    `json:"coverImage,omitempty"`
	Publisher   *string    `json:"publisher,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	Pages       *int       `json:"pages,omitempty"`
	Language    string     `json:"language"`
	Copies      int        `json:"copies"`
	Available   int        `json:"available"`
	Location    *string    `json:"location,omitempty"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func FromBookView(v *queries.BookView) *BookResponse {
	res := &BookResponse{}
	_ = copier.Copy(res, v)
	if res.Genre == nil {
		res.Genre = []string{}
	}
	if res.Tags == nil {
		res.Tags = []string{}
	}
	return res
}

func FromBookViews(views []queries.BookView) []*BookResponse {
	res := make([]*BookResponse, len(views))
	for i := range views {
		res[i] = FromBookView(&views[i])
	}
	return res
}

type BookSummaryResponse struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	CoverImage *string   `json:"coverImage,omitempty"`
}

type SummaryResponse struct {
	Book       *BookResponse `json:"book"`
	Summary    string        `json:"summary"`
	TokensUsed int           `json:"tokensUsed"`
}
