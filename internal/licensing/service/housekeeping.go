package service

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// HousekeepingService periodically expires active license codes that were
// never redeemed within ShelfLife. It is only started when ShelfLife > 0.
type HousekeepingService struct {
	Registry  *LicenseRegistry
	Logger    *slog.Logger
	Interval  time.Duration
	ShelfLife time.Duration

	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// NewHousekeepingService returns a sweeper. An interval of 0 or less
// defaults to one hour.
func NewHousekeepingService(registry *LicenseRegistry, logger *slog.Logger, interval, shelfLife time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &HousekeepingService{
		Registry:  registry,
		Logger:    logger,
		Interval:  interval,
		ShelfLife: shelfLife,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start runs the sweeper in the background until Stop is called.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started",
		slog.Duration("interval", s.Interval),
		slog.Duration("shelf_life", s.ShelfLife),
	)
}

// Stop blocks until any in-progress sweep has finished. Calling it more than
// once is safe.
func (s *HousekeepingService) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		<-s.doneCh
		s.Logger.Info("housekeeping service stopped")
	})
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Sweep(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Sweep(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Sweep runs one expiry pass and returns the number of codes expired.
func (s *HousekeepingService) Sweep(ctx context.Context) int64 {
	if s.ShelfLife <= 0 {
		return 0
	}

	n, err := s.Registry.ExpireOlderThan(ctx, s.ShelfLife)
	if err != nil {
		s.Logger.Error("failed to expire stale licenses", slog.Any("error", err))
		return 0
	}
	if n > 0 {
		s.Logger.Info("expired stale licenses", slog.Int64("count", n))
	} else {
		s.Logger.Debug("no stale licenses")
	}
	return n
}
