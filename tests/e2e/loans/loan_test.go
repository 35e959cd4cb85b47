//go:build e2e

package loans_test

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"library-api/internal/domain/loan"
	"library-api/internal/domain/user"
	"library-api/internal/handler/dto/request"
	resdto "library-api/internal/handler/dto/response"
	"library-api/tests/common/authtest"
	"library-api/tests/common/dbtest"
	"library-api/tests/common/httptest"
	"library-api/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	checkoutURL     = "/api/loans/checkout"
	myLoansURL      = "/api/loans/my"
	loansURL        = "/api/loans"
	checkOverdueURL = "/api/loans/check-overdue"
)

type loanSuite struct {
	e2e.SharedSuite
}

func TestLoanSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(loanSuite))
}

func returnURL(id uuid.UUID) string {
	return fmt.Sprintf("/api/loans/%s/return", id)
}

func (s *loanSuite) checkout(token string, bookID uuid.UUID) *resdto.LoanResponse {
	t := s.T()
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, checkoutURL, request.CheckoutRequest{BookID: bookID}, token)

	var res resdto.LoanResponse
	httptest.AssertSuccessResponse(t, w, http.StatusCreated, &res)
	return &res
}

func (s *loanSuite) TestCheckoutAndReturn() {
	s.Run("checkout takes a copy and return gives it back", func() {
		t := s.T()
		memberID, token := authtest.CreateAndLogin(t, s.DB, s.Router, "reader@example.com", string(user.RoleMember))
		bookID := dbtest.CreateTestBook(t, s.DB, "The Go Programming Language", 2)

		created := s.checkout(token, bookID)
		require.Equal(t, string(loan.StatusActive), created.Status)
		require.Equal(t, memberID, created.UserID)
		require.Equal(t, bookID, created.BookID)
		require.WithinDuration(t, created.BorrowedAt.Add(s.Config.Loan.DefaultPeriod), created.DueDate, time.Second)

		copies, available := dbtest.BookCounters(t, s.DB, bookID)
		require.Equal(t, 2, copies)
		require.Equal(t, 1, available)

		w := httptest.PerformRequest(t, s.Router, http.MethodPatch, returnURL(created.ID), nil, token)
		var returned resdto.LoanResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &returned)
		require.Equal(t, string(loan.StatusReturned), returned.Status)
		require.NotNil(t, returned.ReturnedAt)
		require.False(t, returned.ReturnedLate)

		_, available = dbtest.BookCounters(t, s.DB, bookID)
		require.Equal(t, 2, available)
		require.Zero(t, dbtest.OutstandingLoans(t, s.DB, bookID))

		again := httptest.PerformRequest(t, s.Router, http.MethodPatch, returnURL(created.ID), nil, token)
		httptest.AssertErrorResponse(t, again, http.StatusConflict, "already returned")

		_, available = dbtest.BookCounters(t, s.DB, bookID)
		require.Equal(t, 2, available, "second return must not touch the counter")
	})

	s.Run("a returned book can be borrowed again by the same member", func() {
		t := s.T()
		_, token := authtest.CreateAndLogin(t, s.DB, s.Router, "again@example.com", string(user.RoleMember))
		bookID := dbtest.CreateTestBook(t, s.DB, "Refactoring", 1)

		first := s.checkout(token, bookID)
		w := httptest.PerformRequest(t, s.Router, http.MethodPatch, returnURL(first.ID), nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		second := s.checkout(token, bookID)
		require.NotEqual(t, first.ID, second.ID)
	})
}

func (s *loanSuite) TestCheckoutRejections() {
	s.Run("same member cannot hold two copies", func() {
		t := s.T()
		_, token := authtest.CreateAndLogin(t, s.DB, s.Router, "greedy@example.com", string(user.RoleMember))
		bookID := dbtest.CreateTestBook(t, s.DB, "Clean Code", 3)

		s.checkout(token, bookID)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, checkoutURL, request.CheckoutRequest{BookID: bookID}, token)
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "already checked out")

		_, available := dbtest.BookCounters(t, s.DB, bookID)
		require.Equal(t, 2, available)
	})

	s.Run("no copies left", func() {
		t := s.T()
		_, first := authtest.CreateAndLogin(t, s.DB, s.Router, "first@example.com", string(user.RoleMember))
		_, second := authtest.CreateAndLogin(t, s.DB, s.Router, "second@example.com", string(user.RoleMember))
		bookID := dbtest.CreateTestBook(t, s.DB, "Single Copy", 1)

		s.checkout(first, bookID)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, checkoutURL, request.CheckoutRequest{BookID: bookID}, second)
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "no copies available")
	})

	s.Run("unknown book", func() {
		t := s.T()
		_, token := authtest.CreateAndLogin(t, s.DB, s.Router, "lost@example.com", string(user.RoleMember))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, checkoutURL, request.CheckoutRequest{BookID: uuid.New()}, token)
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "book not found")
	})

	s.Run("due date in the past", func() {
		t := s.T()
		_, token := authtest.CreateAndLogin(t, s.DB, s.Router, "past@example.com", string(user.RoleMember))
		bookID := dbtest.CreateTestBook(t, s.DB, "Time Travel", 1)
		past := time.Now().Add(-time.Hour)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, checkoutURL,
			request.CheckoutRequest{BookID: bookID, DueDate: &past}, token)
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "due date must be after the checkout time")

		_, available := dbtest.BookCounters(t, s.DB, bookID)
		require.Equal(t, 1, available)
	})
}

func (s *loanSuite) TestReturnOwnership() {
	s.Run("members cannot return other members' loans but staff can", func() {
		t := s.T()
		_, owner := authtest.CreateAndLogin(t, s.DB, s.Router, "owner@example.com", string(user.RoleMember))
		_, other := authtest.CreateAndLogin(t, s.DB, s.Router, "other@example.com", string(user.RoleMember))
		_, staff := authtest.CreateAndLogin(t, s.DB, s.Router, "desk@example.com", string(user.RoleLibrarian))
		bookID := dbtest.CreateTestBook(t, s.DB, "Shared Shelf", 1)

		created := s.checkout(owner, bookID)

		w := httptest.PerformRequest(t, s.Router, http.MethodPatch, returnURL(created.ID), nil, other)
		httptest.AssertErrorResponse(t, w, http.StatusForbidden, "loan belongs to another user")

		w = httptest.PerformRequest(t, s.Router, http.MethodPatch, returnURL(created.ID), nil, staff)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	s.Run("unknown loan", func() {
		t := s.T()
		_, token := authtest.CreateAndLogin(t, s.DB, s.Router, "ghost@example.com", string(user.RoleMember))

		w := httptest.PerformRequest(t, s.Router, http.MethodPatch, returnURL(uuid.New()), nil, token)
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "loan not found")
	})
}

func (s *loanSuite) TestConcurrentCheckout() {
	s.Run("copies are never oversold", func() {
		t := s.T()
		const (
			copies  = 3
			members = 10
		)
		bookID := dbtest.CreateTestBook(t, s.DB, "Popular Title", copies)

		tokens := make([]string, members)
		for i := range members {
			_, tokens[i] = authtest.CreateAndLogin(t, s.DB, s.Router,
				fmt.Sprintf("rush%d@example.com", i), string(user.RoleMember))
		}

		codes := make([]int, members)
		var wg sync.WaitGroup
		for i := range members {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, checkoutURL,
					request.CheckoutRequest{BookID: bookID}, tokens[i])
				codes[i] = w.Code
			}(i)
		}
		wg.Wait()

		var created, conflicts int
		for _, code := range codes {
			switch code {
			case http.StatusCreated:
				created++
			case http.StatusConflict:
				conflicts++
			}
		}
		require.Equal(t, copies, created)
		require.Equal(t, members-copies, conflicts)

		_, available := dbtest.BookCounters(t, s.DB, bookID)
		require.Zero(t, available)
		require.Equal(t, copies, dbtest.OutstandingLoans(t, s.DB, bookID))
	})
}

func (s *loanSuite) TestOverdue() {
	s.Run("sweep marks past-due loans and late returns are flagged", func() {
		t := s.T()
		_, member := authtest.CreateAndLogin(t, s.DB, s.Router, "late@example.com", string(user.RoleMember))
		_, staff := authtest.CreateAndLogin(t, s.DB, s.Router, "sweeper@example.com", string(user.RoleLibrarian))
		lateBook := dbtest.CreateTestBook(t, s.DB, "Overdue Novel", 1)
		onTimeBook := dbtest.CreateTestBook(t, s.DB, "On Time Novel", 1)

		late := s.checkout(member, lateBook)
		s.checkout(member, onTimeBook)
		dbtest.BackdateLoan(t, s.DB, late.ID, s.Config.Loan.DefaultPeriod+24*time.Hour)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, checkOverdueURL, nil, staff)
		var sweep resdto.SweepResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &sweep)
		require.Equal(t, int64(1), sweep.Updated)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, checkOverdueURL, nil, staff)
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &sweep)
		require.Zero(t, sweep.Updated, "sweep must be idempotent")

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, loansURL+"?status=OVERDUE", nil, staff)
		var page resdto.PageResponse[resdto.LoanResponse]
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &page)
		require.Equal(t, int64(1), page.Total)
		require.Equal(t, late.ID, page.Items[0].ID)

		w = httptest.PerformRequest(t, s.Router, http.MethodPatch, returnURL(late.ID), nil, member)
		var returned resdto.LoanResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &returned)
		require.Equal(t, string(loan.StatusReturned), returned.Status)
		require.True(t, returned.ReturnedLate)

		_, available := dbtest.BookCounters(t, s.DB, lateBook)
		require.Equal(t, 1, available)
	})

	s.Run("members cannot trigger the sweep", func() {
		t := s.T()
		_, member := authtest.CreateAndLogin(t, s.DB, s.Router, "curious@example.com", string(user.RoleMember))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, checkOverdueURL, nil, member)
		require.Equal(t, http.StatusForbidden, w.Code)
	})
}

func (s *loanSuite) TestListings() {
	s.Run("my loans only shows the caller's loans", func() {
		t := s.T()
		_, alice := authtest.CreateAndLogin(t, s.DB, s.Router, "alice@example.com", string(user.RoleMember))
		_, bob := authtest.CreateAndLogin(t, s.DB, s.Router, "bob@example.com", string(user.RoleMember))
		bookA := dbtest.CreateTestBook(t, s.DB, "Book A", 2)
		bookB := dbtest.CreateTestBook(t, s.DB, "Book B", 2)

		s.checkout(alice, bookA)
		s.checkout(alice, bookB)
		s.checkout(bob, bookA)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, myLoansURL+"?page=1&limit=1", nil, alice)
		var page resdto.PageResponse[resdto.LoanResponse]
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &page)
		require.Equal(t, int64(2), page.Total)
		require.Len(t, page.Items, 1)
		require.Equal(t, 2, page.TotalPages)
		require.Equal(t, "alice@example.com", page.Items[0].Borrower.Email)
	})

	s.Run("staff listing rejects unknown status", func() {
		t := s.T()
		_, staff := authtest.CreateAndLogin(t, s.DB, s.Router, "lister@example.com", string(user.RoleLibrarian))

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, loansURL+"?status=LOST", nil, staff)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	s.Run("members cannot list all loans", func() {
		t := s.T()
		_, member := authtest.CreateAndLogin(t, s.DB, s.Router, "nosy@example.com", string(user.RoleMember))

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, loansURL, nil, member)
		require.Equal(t, http.StatusForbidden, w.Code)
	})
}
