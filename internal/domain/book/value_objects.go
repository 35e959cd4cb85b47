package book

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxTitleLength  = 300
	MaxAuthorLength = 200
	MaxISBNLength   = 20
	DefaultLanguage = "English"
	DefaultCopies   = 1
)

// Details is the descriptive part of a book. It carries no inventory state.
type Details struct {
	Title       string
	Author      string
	ISBN        *string
	Description *string
	Genre       []string
	CoverImage  *string
	Publisher   *string
	PublishedAt *time.Time
	Pages       *int
	Language    string
	Location    *string
	Tags        []string
}

func (d Details) normalize() (Details, error) {
	d.Title = strings.TrimSpace(d.Title)
	if d.Title == "" || utf8.RuneCountInString(d.Title) > MaxTitleLength {
		return Details{}, ErrInvalidTitle
	}
	d.Author = strings.TrimSpace(d.Author)
	if d.Author == "" || utf8.RuneCountInString(d.Author) > MaxAuthorLength {
		return Details{}, ErrInvalidAuthor
	}
	if d.ISBN != nil {
		isbn := strings.TrimSpace(*d.ISBN)
		if len(isbn) > MaxISBNLength {
			return Details{}, ErrInvalidISBN
		}
		if isbn == "" {
			d.ISBN = nil
		} else {
			d.ISBN = &isbn
		}
	}
	if d.Pages != nil && *d.Pages <= 0 {
		return Details{}, ErrInvalidPages
	}
	d.Language = strings.TrimSpace(d.Language)
	if d.Language == "" {
		d.Language = DefaultLanguage
	}
	d.Genre = cleanList(d.Genre)
	d.Tags = cleanList(d.Tags)
	return d, nil
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
