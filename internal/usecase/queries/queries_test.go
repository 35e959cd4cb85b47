//go:build unit

package queries_test

import (
	"context"
	"errors"
	"testing"

	"library-api/internal/domain/book"
	"library-api/internal/domain/loan"
	"library-api/internal/domain/user"
	"library-api/internal/infra"
	"library-api/internal/usecase/queries"
	"library-api/tests/common/builder"
	queriesmock "library-api/tests/mock/queries"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var errNotFound = infra.WrapRepoErr("row not found", nil, infra.KindNotFound)

func TestNewPageRequest(t *testing.T) {
	cases := []struct {
		name        string
		page, limit int
		want        queries.PageRequest
		offset      int
	}{
		{name: "defaults", want: queries.PageRequest{Page: 1, Limit: 20}, offset: 0},
		{name: "explicit", page: 3, limit: 10, want: queries.PageRequest{Page: 3, Limit: 10}, offset: 20},
		{name: "limit clamped", page: 1, limit: 500, want: queries.PageRequest{Page: 1, Limit: queries.MaxListLimit}, offset: 0},
		{name: "negative page", page: -2, limit: 5, want: queries.PageRequest{Page: 1, Limit: 5}, offset: 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := queries.NewPageRequest(c.page, c.limit)
			assert.Equal(t, c.want, got)
			assert.Equal(t, c.offset, got.Offset())
		})
	}
}

func TestNewPage(t *testing.T) {
	p := queries.NewPage[queries.BookView](nil, queries.NewPageRequest(2, 10), 21)
	assert.NotNil(t, p.Items)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 2, p.Page)

	empty := queries.NewPage[queries.BookView](nil, queries.NewPageRequest(1, 10), 0)
	assert.Zero(t, empty.TotalPages)
}

func TestBookQueries(t *testing.T) {
	ctx := context.Background()

	t.Run("list trims the filter and pages", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockBookReadStore(ctrl)
		q := queries.NewBookQueries(store)
		views := []queries.BookView{*builder.NewBookBuilder().BuildView()}
		want := queries.BookFilter{Search: "code", Genre: "Programming"}

		store.EXPECT().List(gomock.Any(), want, 10, 10).Return(views, nil)
		store.EXPECT().Count(gomock.Any(), want).Return(int64(11), nil)

		page, err := q.List(ctx, queries.BookFilter{Search: " code ", Genre: "Programming "}, queries.NewPageRequest(2, 10))
		require.NoError(t, err)
		if diff := cmp.Diff(views, page.Items); diff != "" {
			t.Errorf("items mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, int64(11), page.Total)
		assert.Equal(t, 2, page.TotalPages)
	})

	t.Run("list surfaces a count failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockBookReadStore(ctrl)
		q := queries.NewBookQueries(store)
		boom := errors.New("boom")

		store.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
		store.EXPECT().Count(gomock.Any(), gomock.Any()).Return(int64(0), boom)

		_, err := q.List(ctx, queries.BookFilter{}, queries.NewPageRequest(1, 20))
		require.ErrorIs(t, err, boom)
	})

	t.Run("get maps not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockBookReadStore(ctrl)
		q := queries.NewBookQueries(store)

		store.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(nil, errNotFound)

		_, err := q.GetByID(ctx, uuid.New())
		require.ErrorIs(t, err, book.ErrBookNotFound)
	})

	t.Run("blank search skips the store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		q := queries.NewBookQueries(queriesmock.NewMockBookReadStore(ctrl))

		got, err := q.Search(ctx, "   ")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("search is capped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockBookReadStore(ctrl)
		q := queries.NewBookQueries(store)

		store.EXPECT().Search(gomock.Any(), "dune", queries.MaxSearchResults).Return([]queries.BookView{}, nil)

		_, err := q.Search(ctx, " dune ")
		require.NoError(t, err)
	})
}

func TestLoanQueries(t *testing.T) {
	ctx := context.Background()

	t.Run("list by user passes user and status", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockLoanReadStore(ctrl)
		q := queries.NewLoanQueries(store)
		userID := uuid.New()
		status := loan.StatusOverdue
		want := queries.LoanFilter{UserID: &userID, Status: &status}
		views := []queries.LoanView{*builder.NewLoanBuilder().ForUser(userID).AsOverdue().BuildView()}

		store.EXPECT().List(gomock.Any(), want, 20, 0).Return(views, nil)
		store.EXPECT().Count(gomock.Any(), want).Return(int64(1), nil)

		page, err := q.ListByUser(ctx, userID, &status, queries.NewPageRequest(1, 0))
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "OVERDUE", page.Items[0].Status)
		assert.Equal(t, 1, page.TotalPages)
	})

	t.Run("get maps not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockLoanReadStore(ctrl)
		q := queries.NewLoanQueries(store)

		store.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(nil, errNotFound)

		_, err := q.GetByID(ctx, uuid.New())
		require.ErrorIs(t, err, loan.ErrLoanNotFound)
	})
}

func TestUserQueries(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (queries.UserQueries, *queriesmock.MockUserReadStore, *queriesmock.MockStatsReadStore) {
		ctrl := gomock.NewController(t)
		users := queriesmock.NewMockUserReadStore(ctrl)
		stats := queriesmock.NewMockStatsReadStore(ctrl)
		return queries.NewUserQueries(users, stats), users, stats
	}

	t.Run("current user", func(t *testing.T) {
		q, users, _ := setup(t)
		b := builder.NewUserBuilder()
		users.EXPECT().FindByID(gomock.Any(), b.ID).Return(b.BuildView(0), nil)

		got, err := q.GetCurrentUser(ctx, b.ID)
		require.NoError(t, err)
		if diff := cmp.Diff(b.BuildReadModel(), got); diff != "" {
			t.Errorf("view mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("current user deactivated", func(t *testing.T) {
		q, users, _ := setup(t)
		b := builder.NewUserBuilder().AsInactive()
		users.EXPECT().FindByID(gomock.Any(), b.ID).Return(b.BuildView(0), nil)

		_, err := q.GetCurrentUser(ctx, b.ID)
		require.ErrorIs(t, err, user.ErrUserInactive)
	})

	t.Run("detail includes recent loans", func(t *testing.T) {
		q, users, _ := setup(t)
		b := builder.NewUserBuilder()
		users.EXPECT().FindByID(gomock.Any(), b.ID).Return(b.BuildView(2), nil)
		users.EXPECT().RecentLoans(gomock.Any(), b.ID, queries.RecentLoansLimit).Return(nil, nil)

		got, err := q.GetDetail(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.LoanCount)
		assert.NotNil(t, got.RecentLoans)
	})

	t.Run("detail of unknown user", func(t *testing.T) {
		q, users, _ := setup(t)
		users.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(nil, errNotFound)

		_, err := q.GetDetail(ctx, uuid.New())
		require.ErrorIs(t, err, user.ErrUserNotFound)
	})

	t.Run("stats", func(t *testing.T) {
		q, _, stats := setup(t)
		stats.EXPECT().CountUsers(gomock.Any()).Return(int64(3), nil)
		stats.EXPECT().CountBooks(gomock.Any()).Return(int64(5), nil)
		stats.EXPECT().CountLoansByStatus(gomock.Any(), loan.StatusActive).Return(int64(2), nil)
		stats.EXPECT().CountLoansByStatus(gomock.Any(), loan.StatusOverdue).Return(int64(1), nil)

		got, err := q.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, queries.StatsView{TotalUsers: 3, TotalBooks: 5, ActiveLoans: 2, OverdueLoans: 1}, *got)
	})
}
