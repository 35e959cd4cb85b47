//go:build unit

package api_test

import (
	"errors"
	"net/http"
	nethttptest "net/http/httptest"
	"testing"
	"time"

	"library-api/internal/domain/book"
	"library-api/internal/domain/loan"
	"library-api/internal/domain/user"
	"library-api/internal/handler/api"
	reqdto "library-api/internal/handler/dto/request"
	resdto "library-api/internal/handler/dto/response"
	"library-api/internal/pkg/clock"
	"library-api/internal/usecase/commands"
	"library-api/internal/usecase/queries"
	"library-api/tests/common/builder"
	"library-api/tests/common/httptest"
	commandsmock "library-api/tests/mock/commands"
	queriesmock "library-api/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type LoanHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockLoanCommands
	mockQueries  *queriesmock.MockLoanQueries
	clock        *clock.MockClock
	userID       uuid.UUID
}

func (s *LoanHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockLoanCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockLoanQueries(s.mockCtrl)
	s.clock = clock.NewMockClock(time.Date(2025, time.March, 20, 12, 0, 0, 0, time.UTC))
	s.userID = uuid.New()

	h := api.NewLoanHandler(s.mockCommands, s.mockQueries, s.clock)
	authed := s.router.Group("/api/loans", fakeAuth(s.userID))
	authed.POST("", h.Checkout)
	authed.GET("", h.List)
	authed.GET("/my", h.MyLoans)
	authed.POST("/check-overdue", h.CheckOverdue)
	authed.PUT("/:id/return", h.Return)
}

func (s *LoanHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestLoanHandlerSuite(t *testing.T) {
	suite.Run(t, new(LoanHandlerTestSuite))
}

func (s *LoanHandlerTestSuite) perform(role user.Role, method, url string) *nethttptest.ResponseRecorder {
	return performAs(s.T(), s.router, role, method, url)
}

// ================================================================================
// TestCheckout
// ================================================================================

func (s *LoanHandlerTestSuite) TestCheckout() {
	url := "/api/loans"
	bookID := uuid.New()
	lb := builder.NewLoanBuilder().ForBook(bookID).ForUser(s.userID)

	s.Run("success: returns 201 Created with the loan as stored", func() {
		notes := "for the reading group"
		reqBody := reqdto.CheckoutRequest{BookID: bookID, Notes: &notes}

		s.mockCommands.EXPECT().Checkout(gomock.Any(), commands.CheckoutRequest{
			BookID: bookID,
			UserID: s.userID,
			Notes:  &notes,
		}).Return(lb.BuildDomain(), nil).Times(1)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), lb.ID).Return(lb.BuildView(), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "token")

		var response resdto.LoanResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(lb.ID, response.ID)
		s.Equal(bookID, response.BookID)
		s.Equal(s.userID, response.UserID)
		s.Equal(loan.StatusActive.String(), response.Status)
		s.Equal("Clean Code", response.BookSummary.Title)
		s.Equal("Test Member", response.Borrower.Name)
		s.False(response.ReturnedLate)
	})

	s.Run("success: explicit due date is passed through", func() {
		due := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
		reqBody := reqdto.CheckoutRequest{BookID: bookID, DueDate: &due}

		s.mockCommands.EXPECT().Checkout(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, req commands.CheckoutRequest) (*loan.Loan, error) {
				s.Require().NotNil(req.DueDate)
				s.True(due.Equal(*req.DueDate))
				return lb.BuildDomain(), nil
			}).Times(1)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), lb.ID).Return(lb.BuildView(), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, nil)
	})

	s.Run("error: 400 Bad Request when bookId is missing", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"notes": "x"}, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})

	s.Run("error: 401 without credentials", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqdto.CheckoutRequest{BookID: bookID}, "")
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("error: maps ledger refusals to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{name: "book not found", commandsError: book.ErrBookNotFound, expectedStatus: http.StatusNotFound, expectedMsg: "book not found"},
			{name: "user inactive", commandsError: user.ErrUserInactive, expectedStatus: http.StatusForbidden, expectedMsg: "account is deactivated"},
			{name: "no copies available", commandsError: loan.ErrNoCopiesAvailable, expectedStatus: http.StatusConflict, expectedMsg: "no copies available"},
			{name: "already checked out", commandsError: loan.ErrAlreadyCheckedOut, expectedStatus: http.StatusConflict, expectedMsg: "already checked out"},
			{name: "due date in the past", commandsError: loan.ErrInvalidDueDate, expectedStatus: http.StatusBadRequest, expectedMsg: "due date must be after"},
			{name: "counter out of range", commandsError: book.ErrAvailabilityOutOfRange, expectedStatus: http.StatusInternalServerError, expectedMsg: "Internal server error"},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Checkout(gomock.Any(), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqdto.CheckoutRequest{BookID: bookID}, "token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestReturn
// ================================================================================

func (s *LoanHandlerTestSuite) TestReturn() {
	returnedAt := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	lb := builder.NewLoanBuilder().ForUser(s.userID).AsReturned(returnedAt)
	url := "/api/loans/" + lb.ID.String() + "/return"

	s.Run("success: the caller's role reaches the ledger", func() {
		for _, role := range []user.Role{user.RoleMember, user.RoleLibrarian} {
			s.Run(role.String(), func() {
				s.mockCommands.EXPECT().Return(gomock.Any(), lb.ID, s.userID, role).
					Return(lb.BuildDomain(), nil).Times(1)
				s.mockQueries.EXPECT().GetByID(gomock.Any(), lb.ID).Return(lb.BuildView(), nil).Times(1)

				rec := s.perform(role, http.MethodPut, url)

				var response resdto.LoanResponse
				httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
				s.Equal(loan.StatusReturned.String(), response.Status)
				s.Require().NotNil(response.ReturnedAt)
				s.True(returnedAt.Equal(*response.ReturnedAt))
			})
		}
	})

	s.Run("error: 400 Bad Request on a malformed id", func() {
		rec := s.perform(user.RoleMember, http.MethodPut, "/api/loans/not-a-uuid/return")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
	})

	s.Run("error: maps ledger refusals to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{name: "loan not found", commandsError: loan.ErrLoanNotFound, expectedStatus: http.StatusNotFound, expectedMsg: "loan not found"},
			{name: "not the owner", commandsError: loan.ErrNotLoanOwner, expectedStatus: http.StatusForbidden, expectedMsg: "loan belongs to another user"},
			{name: "already returned", commandsError: loan.ErrAlreadyReturned, expectedStatus: http.StatusConflict, expectedMsg: "already returned"},
			{name: "internal server error", commandsError: errors.New("database error"), expectedStatus: http.StatusInternalServerError, expectedMsg: "Internal server error"},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Return(gomock.Any(), lb.ID, s.userID, user.RoleMember).
					Return(nil, tc.commandsError).Times(1)

				rec := s.perform(user.RoleMember, http.MethodPut, url)
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestMyLoans / TestList
// ================================================================================

func (s *LoanHandlerTestSuite) TestMyLoans() {
	active := builder.NewLoanBuilder().ForUser(s.userID).BuildView()
	overdue := builder.NewLoanBuilder().ForUser(s.userID).AsOverdue().BuildView()

	s.Run("success: lists the caller's loans", func() {
		req := queries.NewPageRequest(1, 20)
		s.mockQueries.EXPECT().ListByUser(gomock.Any(), s.userID, (*loan.Status)(nil), req).
			Return(queries.NewPage([]queries.LoanView{*active, *overdue}, req, 2), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/loans/my", nil, "token")

		var response resdto.PageResponse[resdto.LoanResponse]
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Require().Len(response.Items, 2)
		s.Equal(int64(2), response.Total)
		s.Equal(1, response.TotalPages)
		s.Equal(loan.StatusOverdue.String(), response.Items[1].Status)
	})

	s.Run("success: status filter and clamped limit", func() {
		req := queries.NewPageRequest(2, queries.MaxListLimit)
		s.mockQueries.EXPECT().ListByUser(gomock.Any(), s.userID, gomock.Any(), req).
			DoAndReturn(func(_ any, _ uuid.UUID, status *loan.Status, page queries.PageRequest) (*queries.Page[queries.LoanView], error) {
				s.Require().NotNil(status)
				s.Equal(loan.StatusOverdue, *status)
				return queries.NewPage([]queries.LoanView{}, page, 0), nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/loans/my?status=OVERDUE&page=2&limit=500", nil, "token")

		var response resdto.PageResponse[resdto.LoanResponse]
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Empty(response.Items)
		s.Equal(queries.MaxListLimit, response.Limit)
	})

	s.Run("error: 400 Bad Request on an unknown status", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/loans/my?status=LOST", nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid loan status")
	})

	s.Run("error: 400 Bad Request on a negative page", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/loans/my?page=-1", nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid query parameters")
	})
}

func (s *LoanHandlerTestSuite) TestList() {
	borrower := uuid.New()

	s.Run("success: filters by user and status", func() {
		s.mockQueries.EXPECT().List(gomock.Any(), gomock.Any(), queries.NewPageRequest(1, 20)).
			DoAndReturn(func(_ any, filter queries.LoanFilter, page queries.PageRequest) (*queries.Page[queries.LoanView], error) {
				s.Require().NotNil(filter.UserID)
				s.Equal(borrower, *filter.UserID)
				s.Require().NotNil(filter.Status)
				s.Equal(loan.StatusActive, *filter.Status)
				s.Nil(filter.BookID)
				view := builder.NewLoanBuilder().ForUser(borrower).BuildView()
				return queries.NewPage([]queries.LoanView{*view}, page, 1), nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/loans?status=ACTIVE&userId="+borrower.String(), nil, "token")

		var response resdto.PageResponse[resdto.LoanResponse]
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Require().Len(response.Items, 1)
		s.Equal(borrower, response.Items[0].UserID)
	})

	s.Run("error: 400 Bad Request on a malformed userId", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/loans?userId=nope", nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid loan filter")
	})
}

// ================================================================================
// TestCheckOverdue
// ================================================================================

func (s *LoanHandlerTestSuite) TestCheckOverdue() {
	s.Run("success: sweeps as of the handler clock", func() {
		s.mockCommands.EXPECT().SweepOverdue(gomock.Any(), s.clock.Now()).Return(int64(3), nil).Times(1)

		rec := s.perform(user.RoleLibrarian, http.MethodPost, "/api/loans/check-overdue")

		var response resdto.SweepResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(int64(3), response.Updated)
	})

	s.Run("error: 500 when the sweep fails", func() {
		s.mockCommands.EXPECT().SweepOverdue(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("database error")).Times(1)

		rec := s.perform(user.RoleLibrarian, http.MethodPost, "/api/loans/check-overdue")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}
