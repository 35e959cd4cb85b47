//go:build unit

package usecase_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"library-api/internal/domain/loan"
	"library-api/internal/domain/user"
	"library-api/internal/pkg/clock"
	"library-api/internal/pkg/jwt"
	"library-api/internal/usecase"
	"library-api/internal/usecase/commands"
	"library-api/tests/common/builder"
	"library-api/tests/common/fakestore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingMarker struct {
	calls atomic.Int64
	err   error
}

func (m *countingMarker) SweepOverdue(context.Context, time.Time) (int64, error) {
	m.calls.Add(1)
	return 1, m.err
}

func TestOverdueSweeper_RunOnce(t *testing.T) {
	ctx := context.Background()
	store := fakestore.New()
	clk := clock.NewMockClock(time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC))
	loans := commands.NewLoanUseCase(store, clk, loan.NewPolicy(0))

	b := builder.NewBookBuilder().WithCopies(2).BuildDomain()
	store.AddBook(b)
	u, err := builder.NewUserBuilder().WithID(uuid.New()).BuildDomain()
	require.NoError(t, err)
	store.AddUser(u)
	l, err := loans.Checkout(ctx, commands.CheckoutRequest{BookID: b.ID(), UserID: u.ID()})
	require.NoError(t, err)

	sweeper := usecase.NewOverdueSweeper(loans, clk, time.Hour)

	assert.Zero(t, sweeper.RunOnce(ctx))

	clk.Set(l.DueDate().Add(time.Second))
	assert.Equal(t, int64(1), sweeper.RunOnce(ctx))
	assert.Zero(t, sweeper.RunOnce(ctx))
	assert.Equal(t, loan.StatusOverdue, store.Loan(l.ID()).Status())
}

func TestOverdueSweeper_RunOnceSwallowsErrors(t *testing.T) {
	marker := &countingMarker{err: errors.New("db down")}
	sweeper := usecase.NewOverdueSweeper(marker, clock.NewRealClock(), time.Hour)

	assert.Zero(t, sweeper.RunOnce(context.Background()))
	assert.Equal(t, int64(1), marker.calls.Load())
}

func TestOverdueSweeper_StartStop(t *testing.T) {
	t.Run("ticks until stopped", func(t *testing.T) {
		marker := &countingMarker{}
		sweeper := usecase.NewOverdueSweeper(marker, clock.NewRealClock(), 10*time.Millisecond)

		sweeper.Start()
		require.Eventually(t, func() bool { return marker.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
		sweeper.Stop()

		stopped := marker.calls.Load()
		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, stopped, marker.calls.Load())
	})

	t.Run("disabled with a zero interval", func(t *testing.T) {
		marker := &countingMarker{}
		sweeper := usecase.NewOverdueSweeper(marker, clock.NewRealClock(), 0)

		sweeper.Start()
		time.Sleep(20 * time.Millisecond)
		sweeper.Stop()
		assert.Zero(t, marker.calls.Load())
	})
}

func TestTokenValidator(t *testing.T) {
	svc := jwt.NewService("test-secret-key-for-library-api", time.Minute, time.Hour)
	validator := usecase.NewTokenValidator(svc)
	userID := uuid.New()

	access, err := svc.GenerateAccessToken(userID, user.RoleLibrarian)
	require.NoError(t, err)
	gotID, gotRole, err := validator.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, userID, gotID)
	assert.Equal(t, user.RoleLibrarian, gotRole)

	refresh, _, err := svc.GenerateRefreshToken(userID, user.RoleLibrarian)
	require.NoError(t, err)
	_, _, err = validator.ValidateToken(refresh)
	assert.ErrorIs(t, err, jwt.ErrWrongTokenType)
}
