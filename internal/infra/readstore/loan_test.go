//go:build unit

package readstore

import (
	"context"
	"testing"
	"time"

	"library-api/internal/domain/loan"
	"library-api/internal/infra"
	"library-api/internal/infra/dbq"
	"library-api/internal/usecase/queries"
	"library-api/tests/common/builder"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLoanReadQueries struct {
	mock.Mock
}

func (m *MockLoanReadQueries) GetLoanDetailByID(ctx context.Context, db dbq.DBTX, id uuid.UUID) (dbq.LoanDetailRow, error) {
	args := m.Called(ctx, db, id)
	return args.Get(0).(dbq.LoanDetailRow), args.Error(1)
}

func (m *MockLoanReadQueries) ListLoanDetails(ctx context.Context, db dbq.DBTX, arg dbq.ListLoanDetailsParams) ([]dbq.LoanDetailRow, error) {
	args := m.Called(ctx, db, arg)
	return args.Get(0).([]dbq.LoanDetailRow), args.Error(1)
}

func (m *MockLoanReadQueries) CountLoans(ctx context.Context, db dbq.DBTX, filter dbq.LoanFilter) (int64, error) {
	args := m.Called(ctx, db, filter)
	return args.Get(0).(int64), args.Error(1)
}

func TestLoanReadStore_FindByID(t *testing.T) {
	t.Run("returned late is derived from the row", func(t *testing.T) {
		lb := builder.NewLoanBuilder()
		lb.AsReturned(lb.DueDate.Add(48 * time.Hour))
		row := lb.BuildDetailRow()

		mockQueries := new(MockLoanReadQueries)
		mockQueries.On("GetLoanDetailByID", mock.Anything, mock.Anything, row.ID).Return(row, nil)

		view, err := NewLoanReadStore(mockQueries, nil).FindByID(context.Background(), row.ID)

		require.NoError(t, err)
		assert.Equal(t, loan.StatusReturned.String(), view.Status)
		assert.True(t, view.ReturnedLate)
		assert.Equal(t, "Clean Code", view.Book.Title)
		assert.Equal(t, row.UserEmail, view.User.Email)
		assert.Nil(t, view.Book.CoverImage)
		mockQueries.AssertExpectations(t)
	})

	t.Run("outstanding loan is never late-returned", func(t *testing.T) {
		row := builder.NewLoanBuilder().AsOverdue().BuildDetailRow()

		mockQueries := new(MockLoanReadQueries)
		mockQueries.On("GetLoanDetailByID", mock.Anything, mock.Anything, row.ID).Return(row, nil)

		view, err := NewLoanReadStore(mockQueries, nil).FindByID(context.Background(), row.ID)

		require.NoError(t, err)
		assert.Nil(t, view.ReturnedAt)
		assert.False(t, view.ReturnedLate)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New()
		mockQueries := new(MockLoanReadQueries)
		mockQueries.On("GetLoanDetailByID", mock.Anything, mock.Anything, id).Return(dbq.LoanDetailRow{}, pgx.ErrNoRows)

		view, err := NewLoanReadStore(mockQueries, nil).FindByID(context.Background(), id)

		assert.Nil(t, view)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}

func TestLoanReadStore_ListAndCount(t *testing.T) {
	userID := uuid.New()
	status := loan.StatusOverdue
	filter := queries.LoanFilter{UserID: &userID, Status: &status}

	overdue := "OVERDUE"
	want := dbq.LoanFilter{UserID: &userID, Status: &overdue}

	mockQueries := new(MockLoanReadQueries)
	mockQueries.On("ListLoanDetails", mock.Anything, mock.Anything, dbq.ListLoanDetailsParams{
		LoanFilter: want,
		Limit:      10,
		Offset:     20,
	}).Return([]dbq.LoanDetailRow{builder.NewLoanBuilder().ForUser(userID).AsOverdue().BuildDetailRow()}, nil)
	mockQueries.On("CountLoans", mock.Anything, mock.Anything, want).Return(int64(21), nil)

	store := NewLoanReadStore(mockQueries, nil)

	views, err := store.List(context.Background(), filter, 10, 20)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, userID, views[0].UserID)

	total, err := store.Count(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, int64(21), total)

	mockQueries.AssertExpectations(t)
}

func TestLoanReadStore_DBFailure(t *testing.T) {
	mockQueries := new(MockLoanReadQueries)
	mockQueries.On("CountLoans", mock.Anything, mock.Anything, dbq.LoanFilter{}).Return(int64(0), assert.AnError)

	_, err := NewLoanReadStore(mockQueries, nil).Count(context.Background(), queries.LoanFilter{})

	assert.True(t, infra.IsKind(err, infra.KindDBFailure))
	assert.ErrorIs(t, err, assert.AnError)
}
