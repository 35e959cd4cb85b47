//go:build unit

package fakestore

import (
	"context"
	"time"

	"library-api/internal/domain/book"
	"library-api/internal/domain/loan"
	"library-api/internal/domain/user"
	"library-api/internal/infra"
	"library-api/internal/infra/dbq"
	"library-api/internal/usecase/shared"

	"github.com/google/uuid"
)

// tx runs with Store.mu held.
type tx struct {
	s *Store
}

func (t *tx) Books() shared.BookRepository { return bookRepo{s: t.s} }
func (t *tx) Loans() shared.LoanRepository { return loanRepo{s: t.s} }
func (t *tx) Users() shared.UserRepository { return userRepo{s: t.s} }
func (t *tx) Reads() shared.CommandReads   { return reads{s: t.s} }
func (t *tx) DB() dbq.DBTX                 { return nil }

func (s *Store) injected(op string) error {
	return s.failures[op]
}

type bookRepo struct{ s *Store }

func (r bookRepo) Create(_ context.Context, _ dbq.DBTX, b *book.Book) error {
	if err := r.s.injected("Books.Create"); err != nil {
		return err
	}
	if isbnTaken(r.s.st, b.Details().ISBN, b.ID()) {
		return constraint(infra.KindDuplicateKey, infra.ConstraintBookISBN)
	}
	r.s.st.books[b.ID()] = bookRec{
		id: b.ID(), details: b.Details(), copies: b.Copies(), available: b.Available(),
		createdAt: b.CreatedAt(), updatedAt: b.UpdatedAt(),
	}
	return nil
}

func (r bookRepo) Update(_ context.Context, _ dbq.DBTX, b *book.Book) error {
	if err := r.s.injected("Books.Update"); err != nil {
		return err
	}
	rec, ok := r.s.st.books[b.ID()]
	if !ok {
		return notFound("book")
	}
	if isbnTaken(r.s.st, b.Details().ISBN, b.ID()) {
		return constraint(infra.KindDuplicateKey, infra.ConstraintBookISBN)
	}
	rec.details = b.Details()
	rec.copies = b.Copies()
	rec.available = b.Available()
	rec.updatedAt = b.UpdatedAt()
	r.s.st.books[b.ID()] = rec
	return nil
}

func (r bookRepo) AdjustAvailable(_ context.Context, _ dbq.DBTX, bookID uuid.UUID, delta int, at time.Time) error {
	if err := r.s.injected("Books.AdjustAvailable"); err != nil {
		return err
	}
	rec, ok := r.s.st.books[bookID]
	if !ok {
		return notFound("book")
	}
	next := rec.available + delta
	if next < 0 || next > rec.copies {
		return constraint(infra.KindCheckViolated, infra.ConstraintBookAvailableRange)
	}
	rec.available = next
	rec.updatedAt = at
	r.s.st.books[bookID] = rec
	return nil
}

func (r bookRepo) Delete(_ context.Context, _ dbq.DBTX, bookID uuid.UUID) error {
	if _, ok := r.s.st.books[bookID]; !ok {
		return notFound("book")
	}
	for _, l := range r.s.st.loans {
		if l.bookID == bookID {
			return constraint(infra.KindForeignKeyViolated, infra.ConstraintLoanBookForeignKey)
		}
	}
	delete(r.s.st.books, bookID)
	return nil
}

func (r bookRepo) SetDescription(_ context.Context, _ dbq.DBTX, bookID uuid.UUID, description string, at time.Time) error {
	rec, ok := r.s.st.books[bookID]
	if !ok {
		return notFound("book")
	}
	rec.details.Description = &description
	rec.updatedAt = at
	r.s.st.books[bookID] = rec
	return nil
}

func isbnTaken(st state, isbn *string, self uuid.UUID) bool {
	if isbn == nil {
		return false
	}
	for id, b := range st.books {
		if id != self && b.details.ISBN != nil && *b.details.ISBN == *isbn {
			return true
		}
	}
	return false
}

type loanRepo struct{ s *Store }

func (r loanRepo) Create(_ context.Context, _ dbq.DBTX, l *loan.Loan) error {
	if err := r.s.injected("Loans.Create"); err != nil {
		return err
	}
	if _, ok := r.s.st.books[l.BookID()]; !ok {
		return constraint(infra.KindForeignKeyViolated, infra.ConstraintLoanBookForeignKey)
	}
	if _, ok := r.s.st.users[l.UserID()]; !ok {
		return constraint(infra.KindForeignKeyViolated, infra.ConstraintLoanUserForeignKey)
	}
	for _, existing := range r.s.st.loans {
		if existing.bookID == l.BookID() && existing.userID == l.UserID() && existing.status.IsOutstanding() {
			return constraint(infra.KindDuplicateKey, infra.ConstraintOutstandingLoan)
		}
	}
	r.s.st.loans[l.ID()] = toLoanRec(l)
	return nil
}

func (r loanRepo) MarkReturned(_ context.Context, _ dbq.DBTX, l *loan.Loan) error {
	rec, ok := r.s.st.loans[l.ID()]
	if !ok || !rec.status.IsOutstanding() {
		return notFound("outstanding loan")
	}
	rec.status = loan.StatusReturned
	rec.returnedAt = l.ReturnedAt()
	r.s.st.loans[l.ID()] = rec
	return nil
}

func (r loanRepo) MarkOverdue(_ context.Context, _ dbq.DBTX, now time.Time) (int64, error) {
	if err := r.s.injected("Loans.MarkOverdue"); err != nil {
		return 0, err
	}
	var n int64
	for id, rec := range r.s.st.loans {
		if rec.status == loan.StatusActive && rec.dueDate.Before(now) {
			rec.status = loan.StatusOverdue
			r.s.st.loans[id] = rec
			n++
		}
	}
	return n, nil
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, _ dbq.DBTX, u *user.User) error {
	for _, existing := range r.s.st.users {
		if existing.email == u.Email() {
			return constraint(infra.KindDuplicateKey, infra.ConstraintUserEmail)
		}
	}
	r.s.st.users[u.ID()] = toUserRec(u)
	return nil
}

func (r userRepo) UpdateLastLogin(_ context.Context, _ dbq.DBTX, userID uuid.UUID, at time.Time) error {
	rec, ok := r.s.st.users[userID]
	if !ok {
		return notFound("user")
	}
	rec.lastLogin = &at
	r.s.st.users[userID] = rec
	return nil
}

func (r userRepo) UpdateProfile(_ context.Context, _ dbq.DBTX, userID uuid.UUID, name *user.Name, role *user.Role, at time.Time) error {
	rec, ok := r.s.st.users[userID]
	if !ok {
		return notFound("user")
	}
	if name != nil {
		rec.name = *name
	}
	if role != nil {
		rec.role = *role
	}
	rec.updatedAt = at
	r.s.st.users[userID] = rec
	return nil
}

func (r userRepo) Deactivate(_ context.Context, _ dbq.DBTX, userID uuid.UUID, at time.Time) error {
	rec, ok := r.s.st.users[userID]
	if !ok {
		return notFound("user")
	}
	rec.active = false
	rec.updatedAt = at
	r.s.st.users[userID] = rec
	return nil
}

// reads assumes Store.mu is held; lockedReads takes it per call.
type reads struct{ s *Store }

func (r reads) BookByID(_ context.Context, id uuid.UUID) (*book.Book, error) {
	rec, ok := r.s.st.books[id]
	if !ok {
		return nil, notFound("book")
	}
	return rec.domain(), nil
}

func (r reads) LockBook(ctx context.Context, id uuid.UUID) (*book.Book, error) {
	return r.BookByID(ctx, id)
}

func (r reads) LoanByID(_ context.Context, id uuid.UUID) (*loan.Loan, error) {
	rec, ok := r.s.st.loans[id]
	if !ok {
		return nil, notFound("loan")
	}
	return rec.domain(), nil
}

func (r reads) LockLoan(ctx context.Context, id uuid.UUID) (*loan.Loan, error) {
	return r.LoanByID(ctx, id)
}

func (r reads) HasOutstandingLoan(_ context.Context, bookID, userID uuid.UUID) (bool, error) {
	for _, l := range r.s.st.loans {
		if l.bookID == bookID && l.userID == userID && l.status.IsOutstanding() {
			return true, nil
		}
	}
	return false, nil
}

func (r reads) CountLoansByBook(_ context.Context, bookID uuid.UUID) (int64, error) {
	var n int64
	for _, l := range r.s.st.loans {
		if l.bookID == bookID {
			n++
		}
	}
	return n, nil
}

func (r reads) UserByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	rec, ok := r.s.st.users[id]
	if !ok {
		return nil, notFound("user")
	}
	return rec.domain(), nil
}

func (r reads) UserByEmail(_ context.Context, email user.Email) (*user.User, error) {
	for _, rec := range r.s.st.users {
		if rec.email == email {
			return rec.domain(), nil
		}
	}
	return nil, notFound("user")
}

type lockedReads struct{ s *Store }

func (r lockedReads) BookByID(ctx context.Context, id uuid.UUID) (*book.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return reads(r).BookByID(ctx, id)
}

func (r lockedReads) LockBook(ctx context.Context, id uuid.UUID) (*book.Book, error) {
	return r.BookByID(ctx, id)
}

func (r lockedReads) LoanByID(ctx context.Context, id uuid.UUID) (*loan.Loan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return reads(r).LoanByID(ctx, id)
}

func (r lockedReads) LockLoan(ctx context.Context, id uuid.UUID) (*loan.Loan, error) {
	return r.LoanByID(ctx, id)
}

func (r lockedReads) HasOutstandingLoan(ctx context.Context, bookID, userID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return reads(r).HasOutstandingLoan(ctx, bookID, userID)
}

func (r lockedReads) CountLoansByBook(ctx context.Context, bookID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return reads(r).CountLoansByBook(ctx, bookID)
}

func (r lockedReads) UserByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return reads(r).UserByID(ctx, id)
}

func (r lockedReads) UserByEmail(ctx context.Context, email user.Email) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return reads(r).UserByEmail(ctx, email)
}
