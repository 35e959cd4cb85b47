package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"library-api/internal/pkg/clock"
)

type OverdueMarker interface {
	SweepOverdue(ctx context.Context, now time.Time) (int64, error)
}

// OverdueSweeper runs the overdue sweep on a fixed interval until stopped.
type OverdueSweeper struct {
	marker   OverdueMarker
	clock    clock.Clock
	interval time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewOverdueSweeper(marker OverdueMarker, clk clock.Clock, interval time.Duration) *OverdueSweeper {
	return &OverdueSweeper{
		marker:   marker,
		clock:    clk,
		interval: interval,
	}
}

// Start is a no-op when the interval is not positive.
func (s *OverdueSweeper) Start() {
	if s.interval <= 0 {
		slog.Info("overdue sweeper disabled")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.wg.Add(1)
	go s.loop(ctx)
	slog.Info("overdue sweeper started", "interval", s.interval.String())
}

func (s *OverdueSweeper) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.wg.Wait()
	s.cancel = nil
	slog.Info("overdue sweeper stopped")
}

func (s *OverdueSweeper) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

func (s *OverdueSweeper) RunOnce(ctx context.Context) int64 {
	n, err := s.marker.SweepOverdue(ctx, s.clock.Now())
	if err != nil {
		if ctx.Err() == nil {
			slog.Error("overdue sweep failed", "error", err.Error())
		}
		return 0
	}
	return n
}
