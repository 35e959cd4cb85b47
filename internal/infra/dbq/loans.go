package dbq

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const loanColumns = `id, book_id, user_id, borrowed_at, due_date, returned_at, status, notes, created_at, updated_at`

func scanLoan(row pgx.Row) (Loan, error) {
	var l Loan
	err := row.Scan(&l.ID, &l.BookID, &l.UserID, &l.BorrowedAt, &l.DueDate, &l.ReturnedAt, &l.Status, &l.Notes, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

const getLoanByID = `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`

func (q *Queries) GetLoanByID(ctx context.Context, db DBTX, id uuid.UUID) (Loan, error) {
	return scanLoan(db.QueryRow(ctx, getLoanByID, id))
}

const getLoanForUpdate = `SELECT ` + loanColumns + ` FROM loans WHERE id = $1 FOR UPDATE`

func (q *Queries) GetLoanForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (Loan, error) {
	return scanLoan(db.QueryRow(ctx, getLoanForUpdate, id))
}

type CreateLoanParams struct {
	ID         uuid.UUID
	BookID     uuid.UUID
	UserID     uuid.UUID
	BorrowedAt pgtype.Timestamptz
	DueDate    pgtype.Timestamptz
	Status     string
	Notes      pgtype.Text
}

const createLoan = `INSERT INTO loans (id, book_id, user_id, borrowed_at, due_date, status, notes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $4, $4)
RETURNING ` + loanColumns

func (q *Queries) CreateLoan(ctx context.Context, db DBTX, arg CreateLoanParams) (Loan, error) {
	return scanLoan(db.QueryRow(ctx, createLoan, arg.ID, arg.BookID, arg.UserID, arg.BorrowedAt, arg.DueDate, arg.Status, arg.Notes))
}

const existsOutstandingLoan = `SELECT EXISTS (
	SELECT 1 FROM loans WHERE book_id = $1 AND user_id = $2 AND status IN ('ACTIVE', 'OVERDUE')
)`

func (q *Queries) ExistsOutstandingLoan(ctx context.Context, db DBTX, bookID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx, existsOutstandingLoan, bookID, userID).Scan(&exists)
	return exists, err
}

const countLoansByBook = `SELECT COUNT(*) FROM loans WHERE book_id = $1`

func (q *Queries) CountLoansByBook(ctx context.Context, db DBTX, bookID uuid.UUID) (int64, error) {
	var n int64
	err := db.QueryRow(ctx, countLoansByBook, bookID).Scan(&n)
	return n, err
}

const countOutstandingLoansByBook = `SELECT COUNT(*) FROM loans WHERE book_id = $1 AND status IN ('ACTIVE', 'OVERDUE')`

func (q *Queries) CountOutstandingLoansByBook(ctx context.Context, db DBTX, bookID uuid.UUID) (int64, error) {
	var n int64
	err := db.QueryRow(ctx, countOutstandingLoansByBook, bookID).Scan(&n)
	return n, err
}

// Guarded by status so a loan can only be returned once even without a row lock.
const markLoanReturned = `UPDATE loans SET status = 'RETURNED', returned_at = $2, updated_at = $2
WHERE id = $1 AND status <> 'RETURNED'`

func (q *Queries) MarkLoanReturned(ctx context.Context, db DBTX, id uuid.UUID, returnedAt pgtype.Timestamptz) (int64, error) {
	tag, err := db.Exec(ctx, markLoanReturned, id, returnedAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Loans returned concurrently are excluded: the predicate is re-checked on the latest row version.
const markOverdueLoans = `UPDATE loans SET status = 'OVERDUE', updated_at = $1
WHERE status = 'ACTIVE' AND due_date < $1`

func (q *Queries) MarkOverdueLoans(ctx context.Context, db DBTX, now pgtype.Timestamptz) (int64, error) {
	tag, err := db.Exec(ctx, markOverdueLoans, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const countLoansByStatus = `SELECT COUNT(*) FROM loans WHERE status = $1`

func (q *Queries) CountLoansByStatus(ctx context.Context, db DBTX, status string) (int64, error) {
	var n int64
	err := db.QueryRow(ctx, countLoansByStatus, status).Scan(&n)
	return n, err
}

type LoanFilter struct {
	ID     *uuid.UUID
	UserID *uuid.UUID
	BookID *uuid.UUID
	Status *string
}

type ListLoanDetailsParams struct {
	LoanFilter
	Limit  int32
	Offset int32
}

func (q *Queries) loanDetailDataset() *goqu.SelectDataset {
	return q.dialect.From(goqu.T("loans").As("l")).
		Prepared(true).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("l.book_id")))).
		Join(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("l.user_id"))))
}

func (q *Queries) ListLoanDetails(ctx context.Context, db DBTX, arg ListLoanDetailsParams) ([]LoanDetailRow, error) {
	ds := q.loanDetailDataset().
		Select(
			goqu.I("l.id"), goqu.I("l.book_id"), goqu.I("l.user_id"), goqu.I("l.borrowed_at"), goqu.I("l.due_date"),
			goqu.I("l.returned_at"), goqu.I("l.status"), goqu.I("l.notes"), goqu.I("l.created_at"), goqu.I("l.updated_at"),
			goqu.I("b.title"), goqu.I("b.author"), goqu.I("b.cover_image"), goqu.I("u.name"), goqu.I("u.email"),
		).
		Where(loanFilterExpressions(arg.LoanFilter)...).
		Order(goqu.I("l.borrowed_at").Desc(), goqu.I("l.id").Desc()).
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
	defer rows.Close()

	var items []LoanDetailRow
	for rows.Next() {
		var r LoanDetailRow
		if err := rows.Scan(
			&r.ID, &r.BookID, &r.UserID, &r.BorrowedAt, &r.DueDate, &r.ReturnedAt, &r.Status, &r.Notes, &r.CreatedAt, &r.UpdatedAt,
			&r.BookTitle, &r.BookAuthor, &r.BookCoverImage, &r.UserName, &r.UserEmail,
		); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

func (q *Queries) CountLoans(ctx context.Context, db DBTX, filter LoanFilter) (int64, error) {
	ds := q.dialect.From(goqu.T("loans").As("l")).
		Prepared(true).
		Select(goqu.COUNT(goqu.Star())).
		Where(loanFilterExpressions(filter)...)

	query, args, err := ds.ToSQL()
	if err != nil {
		return 0, err
	}
	var n int64
	err = db.QueryRow(ctx, query, args...).Scan(&n)
	return n, err
}

func (q *Queries) GetLoanDetailByID(ctx context.Context, db DBTX, id uuid.UUID) (LoanDetailRow, error) {
	rows, err := q.ListLoanDetails(ctx, db, ListLoanDetailsParams{
		LoanFilter: LoanFilter{ID: &id},
		Limit:      1,
	})
	if err != nil {
		return LoanDetailRow{}, err
	}
	if len(rows) == 0 {
		return LoanDetailRow{}, pgx.ErrNoRows
	}
	return rows[0], nil
}

// uuid values are passed as strings: goqu expands array-typed values into IN lists.
func loanFilterExpressions(f LoanFilter) []exp.Expression {
	var exps []exp.Expression
	if f.ID != nil {
		exps = append(exps, goqu.I("l.id").Eq(f.ID.String()))
	}
	if f.UserID != nil {
		exps = append(exps, goqu.I("l.user_id").Eq(f.UserID.String()))
	}
	if f.BookID != nil {
		exps = append(exps, goqu.I("l.book_id").Eq(f.BookID.String()))
	}
	if f.Status != nil {
		exps = append(exps, goqu.I("l.status").Eq(*f.Status))
	}
	return exps
}

// RecentLoanDetailsByUser returns the newest loans of a user, used on the admin user page.
func (q *Queries) RecentLoanDetailsByUser(ctx context.Context, db DBTX, userID uuid.UUID, limit int32) ([]LoanDetailRow, error) {
	return q.ListLoanDetails(ctx, db, ListLoanDetailsParams{
		LoanFilter: LoanFilter{UserID: &userID},
		Limit:      limit,
	})
}
