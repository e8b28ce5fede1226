package service

import (
	"context"

	"github.com/nurpe/contract-archive/internal/config"
	"github.com/nurpe/contract-archive/internal/model"
	"github.com/nurpe/contract-archive/internal/repository"
	"github.com/nurpe/contract-archive/internal/status"
)

type StatusService struct {
	repo     *repository.StatusRepository
	recorder *status.Recorder
	maxBytes int64
}

func NewStatusService(repo *repository.StatusRepository, recorder *status.Recorder, cfg *config.Config) *StatusService {
	return &StatusService{repo: repo, recorder: recorder, maxBytes: cfg.DB.MaxBytes}
}

func (s *StatusService) Health(ctx context.Context) error {
	_, err := s.repo.Ping(ctx)
	return err
}

// DBMetrics reports storage usage. On failure the returned metrics still carry
// the ceiling and the error text.
func (s *StatusService) DBMetrics(ctx context.Context) (model.DBMetrics, error) {
	size, err := s.repo.DatabaseSize(ctx)
	if err != nil {
		return model.DBMetrics{Connected: false, MaxBytes: s.maxBytes, Error: err.Error()}, err
	}
	return model.DBMetrics{Connected: true, SizeBytes: size, MaxBytes: s.maxBytes}, nil
}

func (s *StatusService) Metrics() model.StatusMetrics {
	return s.recorder.Snapshot()
}
