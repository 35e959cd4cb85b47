package dbq

import (
	"context"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const bookColumns = `id, title, author, isbn, description, genre, cover_image, publisher, published_at,
	pages, language, copies, available, location, tags, created_at, updated_at`

var bookSelectColumns = []any{
	"id", "title", "author", "isbn", "description", "genre", "cover_image", "publisher", "published_at",
	"pages", "language", "copies", "available", "location", "tags", "created_at", "updated_at",
}

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.Isbn, &b.Description, &b.Genre, &b.CoverImage, &b.Publisher, &b.PublishedAt,
		&b.Pages, &b.Language, &b.Copies, &b.Available, &b.Location, &b.Tags, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func collectBooks(rows pgx.Rows) ([]Book, error) {
	defer rows.Close()
	var items []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

const getBookByID = `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

func (q *Queries) GetBookByID(ctx context.Context, db DBTX, id uuid.UUID) (Book, error) {
	return scanBook(db.QueryRow(ctx, getBookByID, id))
}

// Row lock held until the surrounding transaction ends; serializes checkouts and returns per book.
const getBookForUpdate = `SELECT ` + bookColumns + ` FROM books WHERE id = $1 FOR UPDATE`

func (q *Queries) GetBookForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (Book, error) {
	return scanBook(db.QueryRow(ctx, getBookForUpdate, id))
}

type CreateBookParams struct {
	ID          uuid.UUID
	Title       string
	Author      string
	Isbn        pgtype.Text
	Description pgtype.Text
	Genre       []string
	CoverImage  pgtype.Text
	Publisher   pgtype.Text
	PublishedAt pgtype.Date
	Pages       pgtype.Int4
	Language    string
	Copies      int32
	Available   int32
	Location    pgtype.Text
	Tags        []string
	CreatedAt   pgtype.Timestamptz
}

const createBook = `INSERT INTO books (
	id, title, author, isbn, description, genre, cover_image, publisher, published_at,
	pages, language, copies, available, location, tags, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $16)
RETURNING ` + bookColumns

func (q *Queries) CreateBook(ctx context.Context, db DBTX, arg CreateBookParams) (Book, error) {
	return scanBook(db.QueryRow(ctx, createBook,
		arg.ID, arg.Title, arg.Author, arg.Isbn, arg.Description, arg.Genre, arg.CoverImage, arg.Publisher, arg.PublishedAt,
		arg.Pages, arg.Language, arg.Copies, arg.Available, arg.Location, arg.Tags, arg.CreatedAt,
	))
}

type UpdateBookParams struct {
	ID          uuid.UUID
	Title       string
	Author      string
	Isbn        pgtype.Text
	Description pgtype.Text
	Genre       []string
	CoverImage  pgtype.Text
	Publisher   pgtype.Text
	PublishedAt pgtype.Date
	Pages       pgtype.Int4
	Language    string
	Copies      int32
	Available   int32
	Location    pgtype.Text
	Tags        []string
	UpdatedAt   pgtype.Timestamptz
}

const updateBook = `UPDATE books SET
	title = $2, author = $3, isbn = $4, description = $5, genre = $6, cover_image = $7, publisher = $8,
	published_at = $9, pages = $10, language = $11, copies = $12, available = $13, location = $14,
	tags = $15, updated_at = $16
WHERE id = $1`

func (q *Queries) UpdateBook(ctx context.Context, db DBTX, arg UpdateBookParams) (int64, error) {
	tag, err := db.Exec(ctx, updateBook,
		arg.ID, arg.Title, arg.Author, arg.Isbn, arg.Description, arg.Genre, arg.CoverImage, arg.Publisher,
		arg.PublishedAt, arg.Pages, arg.Language, arg.Copies, arg.Available, arg.Location, arg.Tags, arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Conditional counter update: matches no row when the result would leave [0, copies].
const adjustBookAvailable = `UPDATE books
SET available = available + $2, updated_at = $3
WHERE id = $1 AND available + $2 >= 0 AND available + $2 <= copies`

type AdjustBookAvailableParams struct {
	ID        uuid.UUID
	Delta     int32
	UpdatedAt pgtype.Timestamptz
}

func (q *Queries) AdjustBookAvailable(ctx context.Context, db DBTX, arg AdjustBookAvailableParams) (int64, error) {
	tag, err := db.Exec(ctx, adjustBookAvailable, arg.ID, arg.Delta, arg.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const deleteBook = `DELETE FROM books WHERE id = $1`

func (q *Queries) DeleteBook(ctx context.Context, db DBTX, id uuid.UUID) (int64, error) {
	tag, err := db.Exec(ctx, deleteBook, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const countBooks = `SELECT COUNT(*) FROM books`

func (q *Queries) CountBooks(ctx context.Context, db DBTX) (int64, error) {
	var n int64
	err := db.QueryRow(ctx, countBooks).Scan(&n)
	return n, err
}

type BookFilter struct {
	Search string
	Genre  string
}

type ListBooksParams struct {
	BookFilter
	Limit  int32
	Offset int32
}

func (q *Queries) ListBooks(ctx context.Context, db DBTX, arg ListBooksParams) ([]Book, error) {
	ds := q.dialect.From("books").
		Prepared(true).
		Select(bookSelectColumns...).
		Where(bookFilterExpressions(arg.BookFilter)...).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Limit(uint(arg.Limit)).
		Offset(uint(arg.Offset))

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectBooks(rows)
}

func (q *Queries) CountFilteredBooks(ctx context.Context, db DBTX, filter BookFilter) (int64, error) {
	ds := q.dialect.From("books").
		Prepared(true).
		Select(goqu.COUNT(goqu.Star())).
		Where(bookFilterExpressions(filter)...)

	query, args, err := ds.ToSQL()
	if err != nil {
		return 0, err
	}
	var n int64
	err = db.QueryRow(ctx, query, args...).Scan(&n)
	return n, err
}

// SearchBooks matches title, author, isbn and tags, most recent first.
func (q *Queries) SearchBooks(ctx context.Context, db DBTX, term string, limit int32) ([]Book, error) {
	pattern := likePattern(term)
	ds := q.dialect.From("books").
		Prepared(true).
		Select(bookSelectColumns...).
		Where(goqu.Or(
			goqu.I("title").ILike(pattern),
			goqu.I("author").ILike(pattern),
			goqu.I("isbn").ILike(pattern),
			goqu.L("EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ILIKE ?)", pattern),
		)).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Limit(uint(limit))

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectBooks(rows)
}

func bookFilterExpressions(f BookFilter) []exp.Expression {
	var exps []exp.Expression
	if s := strings.TrimSpace(f.Search); s != "" {
		pattern := likePattern(s)
		exps = append(exps, goqu.Or(
			goqu.I("title").ILike(pattern),
			goqu.I("author").ILike(pattern),
			goqu.I("isbn").ILike(pattern),
			goqu.I("description").ILike(pattern),
		))
	}
	if g := strings.TrimSpace(f.Genre); g != "" {
		exps = append(exps, goqu.L("? = ANY(genre)", g))
	}
	return exps
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(term string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(term)) + "%"
}

const setBookDescription = `UPDATE books SET description = $2, updated_at = $3 WHERE id = $1`

func (q *Queries) SetBookDescription(ctx context.Context, db DBTX, id uuid.UUID, description string, at time.Time) (int64, error) {
	tag, err := db.Exec(ctx, setBookDescription, id, description, at)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
