package workers

import (
	"context"

	"whisp/internal/config"
	"whisp/internal/logger"
	"whisp/internal/service"
)

type Workers struct {
	workers []Worker
}

// NewWorkers assembles every background worker of the service.
func NewWorkers(services *service.Services, cfg config.Workers, log *logger.Logger) *Workers {
	return &Workers{
		workers: []Worker{
			NewSweeper(services.WhispService, cfg.SweepInterval, log),
		},
	}
}

func (w *Workers) Run(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Run(ctx)
	}
}
