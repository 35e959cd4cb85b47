package converter

import (
	"library-api/internal/domain/book"
	"library-api/internal/infra/dbq"
	"library-api/internal/pkg/pgconv"
)

func BookFromRow(row dbq.Book) *book.Book {
	details := book.Details{
		Title:       row.Title,
		Author:      row.Author,
		ISBN:        pgconv.StringPtrFromPgtype(row.Isbn),
		Description: pgconv.StringPtrFromPgtype(row.Description),
		Genre:       row.Genre,
		CoverImage:  pgconv.StringPtrFromPgtype(row.CoverImage),
		Publisher:   pgconv.StringPtrFromPgtype(row.Publisher),
		PublishedAt: pgconv.DatePtrFromPgtype(row.PublishedAt),
		Pages:       pgconv.IntPtrFromPgtype(row.Pages),
		Language:    row.Language,
		Location:    pgconv.StringPtrFromPgtype(row.Location),
		Tags:        row.Tags,
	}
	return book.ReconstructBook(
		row.ID,
		details,
		int(row.Copies),
		int(row.Available),
		pgconv.TimeFromPgtype(row.CreatedAt),
		pgconv.TimeFromPgtype(row.UpdatedAt),
	)
}

func BookToCreateParams(b *book.Book) dbq.CreateBookParams {
	d := b.Details()
	return dbq.CreateBookParams{
		ID:          b.ID(),
		Title:       d.Title,
		Author:      d.Author,
		Isbn:        pgconv.StringPtrToPgtype(d.ISBN),
		Description: pgconv.StringPtrToPgtype(d.Description),
		Genre:       nonNil(d.Genre),
		CoverImage:  pgconv.StringPtrToPgtype(d.CoverImage),
		Publisher:   pgconv.StringPtrToPgtype(d.Publisher),
		PublishedAt: pgconv.DatePtrToPgtype(d.PublishedAt),
		Pages:       pgconv.IntPtrToPgtype(d.Pages),
		Language:    d.Language,
		Copies:      toInt32(b.Copies()),
		Available:   toInt32(b.Available()),
		Location:    pgconv.StringPtrToPgtype(d.Location),
		Tags:        nonNil(d.Tags),
		CreatedAt:   pgconv.TimeToPgtype(b.CreatedAt()),
	}
}

func BookToUpdateParams(b *book.Book) dbq.UpdateBookParams {
	d := b.Details()
	return dbq.UpdateBookParams{
		ID:          b.ID(),
		Title:       d.Title,
		Author:      d.Author,
		Isbn:        pgconv.StringPtrToPgtype(d.ISBN),
		Description: pgconv.StringPtrToPgtype(d.Description),
		Genre:       nonNil(d.Genre),
		CoverImage:  pgconv.StringPtrToPgtype(d.CoverImage),
		Publisher:   pgconv.StringPtrToPgtype(d.Publisher),
		PublishedAt: pgconv.DatePtrToPgtype(d.PublishedAt),
		Pages:       pgconv.IntPtrToPgtype(d.Pages),
		Language:    d.Language,
		Copies:      toInt32(b.Copies()),
		Available:   toInt32(b.Available()),
		Location:    pgconv.StringPtrToPgtype(d.Location),
		Tags:        nonNil(d.Tags),
		UpdatedAt:   pgconv.TimeToPgtype(b.UpdatedAt()),
	}
}

// text[] columns are NOT NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func toInt32(v int) int32 {
	// #nosec G115 -- copies are bounded by request validation
	return int32(v)
}
