//go:build unit

// Package fakestore is an in-memory shared.UnitOfWork for use case tests. Within runs
// serially under one mutex (every transaction sees every row locked) and rolls the
// whole store back when fn returns an error.
package fakestore

import (
	"context"
	"sort"
	"sync"
	"time"

	"library-api/internal/domain/book"
	"library-api/internal/domain/loan"
	"library-api/internal/domain/user"
	"library-api/internal/infra"
	"library-api/internal/infra/dbq"
	"library-api/internal/usecase/shared"

	"github.com/google/uuid"
)

type bookRec struct {
	id        uuid.UUID
	details   book.Details
	copies    int
	available int
	createdAt time.Time
	updatedAt time.Time
}

type loanRec struct {
	id         uuid.UUID
	bookID     uuid.UUID
	userID     uuid.UUID
	borrowedAt time.Time
	dueDate    time.Time
	returnedAt *time.Time
	status     loan.Status
	notes      *string
}

type userRec struct {
	id        uuid.UUID
	name      user.Name
	email     user.Email
	hash      string
	role      user.Role
	lastLogin *time.Time
	active    bool
	createdAt time.Time
	updatedAt time.Time
}

type state struct {
	books map[uuid.UUID]bookRec
	loans map[uuid.UUID]loanRec
	users map[uuid.UUID]userRec
}

func (s state) clone() state {
	c := state{
		books: make(map[uuid.UUID]bookRec, len(s.books)),
		loans: make(map[uuid.UUID]loanRec, len(s.loans)),
		users: make(map[uuid.UUID]userRec, len(s.users)),
	}
	for k, v := range s.books {
		c.books[k] = v
	}
	for k, v := range s.loans {
		c.loans[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	return c
}

type Store struct {
	mu       sync.Mutex
	st       state
	failures map[string]error
	commits  int
}

var _ shared.UnitOfWork = (*Store)(nil)

func New() *Store {
	return &Store{
		st: state{
			books: map[uuid.UUID]bookRec{},
			loans: map[uuid.UUID]loanRec{},
			users: map[uuid.UUID]userRec{},
		},
		failures: map[string]error{},
	}
}

// FailOn makes the named repository operation (e.g. "Books.AdjustAvailable") return err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

func (s *Store) Commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(ctx, &tx{s: s}); err != nil {
		s.st = snapshot
		return err
	}
	s.commits++
	return nil
}

func (s *Store) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db dbq.DBTX) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctx, nil)
}

func (s *Store) WithDB(ctx context.Context, fn func(ctx context.Context, db dbq.DBTX) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctx, nil)
}

func (s *Store) CommandReads() shared.CommandReads {
	return lockedReads{s: s}
}

// Seeding and inspection

func (s *Store) AddBook(b *book.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.books[b.ID()] = bookRec{
		id: b.ID(), details: b.Details(), copies: b.Copies(), available: b.Available(),
		createdAt: b.CreatedAt(), updatedAt: b.UpdatedAt(),
	}
}

func (s *Store) AddUser(u *user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.users[u.ID()] = toUserRec(u)
}

func (s *Store) AddLoan(l *loan.Loan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.loans[l.ID()] = toLoanRec(l)
}

func (s *Store) Book(id uuid.UUID) *book.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.st.books[id]
	if !ok {
		return nil
	}
	return r.domain()
}

func (s *Store) Loan(id uuid.UUID) *loan.Loan {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.st.loans[id]
	if !ok {
		return nil
	}
	return r.domain()
}

func (s *Store) User(id uuid.UUID) *user.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.st.users[id]
	if !ok {
		return nil
	}
	return r.domain()
}

// Loans returns every loan for bookID ordered by borrowedAt.
func (s *Store) Loans(bookID uuid.UUID) []*loan.Loan {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*loan.Loan, 0)
	for _, r := range s.st.loans {
		if r.bookID == bookID {
			out = append(out, r.domain())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BorrowedAt().Before(out[j].BorrowedAt()) })
	return out
}

// OutstandingCount is the number of ACTIVE or OVERDUE loans for bookID.
func (s *Store) OutstandingCount(bookID uuid.UUID) int {
	n := 0
	for _, l := range s.Loans(bookID) {
		if l.Status().IsOutstanding() {
			n++
		}
	}
	return n
}

func (r bookRec) domain() *book.Book {
	return book.ReconstructBook(r.id, r.details, r.copies, r.available, r.createdAt, r.updatedAt)
}

func (r loanRec) domain() *loan.Loan {
	return loan.ReconstructLoan(r.id, r.bookID, r.userID, r.borrowedAt, r.dueDate, r.returnedAt, r.status, r.notes)
}

func (r userRec) domain() *user.User {
	return user.ReconstructUser(r.id, r.name, r.email, r.hash, r.role, r.lastLogin, r.active, r.createdAt, r.updatedAt)
}

func toLoanRec(l *loan.Loan) loanRec {
	return loanRec{
		id: l.ID(), bookID: l.BookID(), userID: l.UserID(), borrowedAt: l.BorrowedAt(),
		dueDate: l.DueDate(), returnedAt: l.ReturnedAt(), status: l.Status(), notes: l.Notes(),
	}
}

func toUserRec(u *user.User) userRec {
	return userRec{
		id: u.ID(), name: u.Name(), email: u.Email(), hash: u.PasswordHash(), role: u.Role(),
		lastLogin: u.LastLogin(), active: u.IsActive(), createdAt: u.CreatedAt(), updatedAt: u.UpdatedAt(),
	}
}

func notFound(what string) error {
	return infra.WrapRepoErr(what+" not found", nil, infra.KindNotFound)
}

func constraint(kind infra.RepositoryErrorKind, name string) error {
	return infra.RepositoryError{Kind: kind, Constraint: name}
}
