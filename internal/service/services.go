package service

import (
	"whisp/internal/config"
	"whisp/internal/logger"
	"whisp/internal/store"
)

type Services struct {
	WhispService WhispService
}

func NewServices(storages *store.Storages, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	return &Services{
		WhispService: NewWhispService(storages.WhispRepository, storages.BlobStorage, cfg.Storage, logger),
	}
}
