//go:build unit

package book_test

import (
	"strings"
	"testing"
	"time"

	"library-api/internal/domain/book"
	"library-api/internal/pkg/ptr"
	"library-api/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)

func TestNewBook(t *testing.T) {
	t.Run("every copy starts on the shelf", func(t *testing.T) {
		b, err := book.NewBook(builder.NewBookBuilder().Details(), 4, now)
		require.NoError(t, err)

		assert.Equal(t, 4, b.Copies())
		assert.Equal(t, 4, b.Available())
		assert.Equal(t, 0, b.OnLoan())
		assert.Equal(t, now, b.CreatedAt())
	})

	t.Run("details are normalized", func(t *testing.T) {
		d := book.Details{
			Title:  "  Dune ",
			Author: " Frank Herbert",
			ISBN:   ptr.Of("   "),
			Genre:  []string{"Science Fiction", " Science Fiction ", ""},
			Tags:   []string{"classic", "space", "classic"},
		}
		b, err := book.NewBook(d, 1, now)
		require.NoError(t, err)

		want := book.Details{
			Title:    "Dune",
			Author:   "Frank Herbert",
			Genre:    []string{"Science Fiction"},
			Language: book.DefaultLanguage,
			Tags:     []string{"classic", "space"},
		}
		if diff := cmp.Diff(want, b.Details()); diff != "" {
			t.Errorf("Details mismatch (-want +got):\n%s", diff)
		}
	})

	cases := []struct {
		name   string
		mutate func(*book.Details)
		copies int
		errIs  error
	}{
		{name: "blank title", mutate: func(d *book.Details) { d.Title = " " }, copies: 1, errIs: book.ErrInvalidTitle},
		{name: "title too long", mutate: func(d *book.Details) { d.Title = strings.Repeat("t", book.MaxTitleLength+1) }, copies: 1, errIs: book.ErrInvalidTitle},
		{name: "blank author", mutate: func(d *book.Details) { d.Author = "" }, copies: 1, errIs: book.ErrInvalidAuthor},
		{name: "isbn too long", mutate: func(d *book.Details) { d.ISBN = ptr.Of(strings.Repeat("9", book.MaxISBNLength+1)) }, copies: 1, errIs: book.ErrInvalidISBN},
		{name: "non-positive pages", mutate: func(d *book.Details) { d.Pages = ptr.Of(0) }, copies: 1, errIs: book.ErrInvalidPages},
		{name: "zero copies", mutate: func(d *book.Details) {}, copies: 0, errIs: book.ErrInvalidCopies},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d := builder.NewBookBuilder().Details()
			c.mutate(&d)

			b, err := book.NewBook(d, c.copies, now)
			require.ErrorIs(t, err, c.errIs)
			assert.Nil(t, b)
		})
	}
}

func TestBook_ChangeCopies(t *testing.T) {
	cases := []struct {
		name          string
		copies        int
		available     int
		newCopies     int
		wantAvailable int
		errIs         error
	}{
		{name: "increase keeps on-loan count", copies: 3, available: 1, newCopies: 5, wantAvailable: 3},
		{name: "decrease down to on-loan count", copies: 3, available: 1, newCopies: 2, wantAvailable: 0},
		{name: "below on-loan count", copies: 3, available: 0, newCopies: 2, errIs: book.ErrCopiesBelowOutstanding},
		{name: "zero", copies: 3, available: 3, newCopies: 0, errIs: book.ErrInvalidCopies},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := builder.NewBookBuilder().WithCopies(c.copies).WithAvailable(c.available).BuildDomain()
			onLoan := b.OnLoan()

			err := b.ChangeCopies(c.newCopies, now)
			if c.errIs != nil {
				require.ErrorIs(t, err, c.errIs)
				assert.Equal(t, c.copies, b.Copies())
				assert.Equal(t, c.available, b.Available())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.newCopies, b.Copies())
			assert.Equal(t, c.wantAvailable, b.Available())
			assert.Equal(t, onLoan, b.OnLoan())
		})
	}
}

func TestBook_AdjustAvailable(t *testing.T) {
	b := builder.NewBookBuilder().WithCopies(2).BuildDomain()

	require.ErrorIs(t, b.AdjustAvailable(1), book.ErrAvailabilityOutOfRange)
	require.NoError(t, b.AdjustAvailable(-1))
	require.NoError(t, b.AdjustAvailable(-1))
	assert.Equal(t, 0, b.Available())
	require.ErrorIs(t, b.AdjustAvailable(-1), book.ErrAvailabilityOutOfRange)
	assert.Equal(t, 0, b.Available())
}

func TestBook_Revise(t *testing.T) {
	b := builder.NewBookBuilder().BuildDomain()
	d := b.Details()
	d.Title = "Clean Code (2nd ed.)"

	require.NoError(t, b.Revise(d, now))
	assert.Equal(t, "Clean Code (2nd ed.)", b.Title())
	assert.Equal(t, now, b.UpdatedAt())

	d.Author = ""
	require.ErrorIs(t, b.Revise(d, now), book.ErrInvalidAuthor)
	assert.Equal(t, "Robert C. Martin", b.Author())
}
