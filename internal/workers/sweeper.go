package workers

import (
	"context"
	"time"

	"whisp/internal/logger"
	"whisp/internal/service"
)

// Sweeper periodically destroys expired whisps and reaps orphaned blobs.
// It runs one sweep immediately at startup so a restart does not leave
// long-expired records lingering until the first tick.
type Sweeper struct {
	whispService service.WhispService
	interval     time.Duration
	logger       *logger.Logger
}

func NewSweeper(whispService service.WhispService, interval time.Duration, log *logger.Logger) *Sweeper {
	return &Sweeper{
		whispService: whispService,
		interval:     interval,
		logger:       log,
	}
}

// Run starts the sweep loop in its own goroutine and returns immediately.
// The loop stops when ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	go s.loop(ctx)
}

func (s *Sweeper) loop(ctx context.Context) {
	log := s.logger.GetChildLogger()
	ctx = log.WithContext(ctx)

	log.Info().Dur("interval", s.interval).Msg("expiry sweeper started")

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("expiry sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep performs one full pass: expired whisps first, then blobs whose
// record is already gone. Errors are logged and the next tick retries.
func (s *Sweeper) sweep(ctx context.Context) {
	log := logger.FromContext(ctx)

	purged, err := s.whispService.PurgeExpired(ctx, time.Now().UTC())
	if err != nil {
		log.Err(err).Str("func", "Sweeper.sweep").Msg("failed to purge expired whisps")
	} else if purged > 0 {
		log.Info().Int("purged", purged).Msg("expired whisps destroyed")
	}

	reaped, err := s.whispService.ReapOrphanBlobs(ctx)
	if err != nil {
		log.Err(err).Str("func", "Sweeper.sweep").Msg("failed to reap orphaned blobs")
	} else if reaped > 0 {
		log.Info().Int("reaped", reaped).Msg("orphaned blobs removed")
	}
}
