package monitoring

import (
	"context"
	"errors"

	"certifire/internal/logger"
	"certifire/internal/metrics"
	"certifire/internal/monitoring/types"
	"certifire/internal/tsdb"
)

type Service struct {
	repository *Repository
	writer     tsdb.Writer
}

func NewService(repository *Repository, writer tsdb.Writer) *Service {
	return &Service{repository: repository, writer: writer}
}

func (s *Service) Repository() *Repository {
	return s.repository
}

// CreateTarget requires an ip or a host and fills in a default URL.
func (s *Service) CreateTarget(target *types.Target) error {
	return createTarget(s.repository, target)
}

func createTarget(repository *Repository, target *types.Target) error {
	if target.IP == "" && target.Host == "" {
		return ErrHostOrIPRequired
	}

	if target.URL == "" {
		target.URL = target.DefaultURL()
	}

	return repository.CreateTarget(target)
}

func (s *Service) DeleteTarget(id uint) error {
	return s.repository.DeleteTarget(id)
}

// CreateWorker stores worker and, when it monitors itself, the target
// watching it. DNS records are never created; createHost is only logged.
func (s *Service) CreateWorker(worker *types.Worker, createHost bool) error {
	if worker.IP == "" && worker.Host == "" {
		return ErrHostOrIPRequired
	}

	if worker.Location == "" {
		return ErrLocationRequired
	}

	return s.repository.Transaction(func(tx *Repository) error {
		if err := tx.CreateWorker(worker); err != nil {
			return err
		}

		if createHost && worker.Host == "" && worker.IP != "" {
			logger.Warn("Worker %d asked for a DNS record; DNS provisioning is not supported, keeping ip %s", worker.ID, worker.IP)
		}

		if !worker.MonSelf {
			return nil
		}

		target := &types.Target{
			IP:    worker.IP,
			Host:  worker.Host,
			URL:   worker.MonURL,
			BwURL: worker.BwURL,
		}

		if err := createTarget(tx, target); err != nil {
			return err
		}

		worker.MonTarget = &target.ID

		return tx.UpdateWorker(worker)
	})
}

// DeleteWorker removes worker and the target it created for itself.
func (s *Service) DeleteWorker(id uint) error {
	return s.repository.Transaction(func(tx *Repository) error {
		worker, err := tx.GetWorker(id)

		if err != nil {
			return err
		}

		if err := tx.DeleteWorker(id); err != nil {
			return err
		}

		if !worker.MonSelf || worker.MonTarget == nil {
			return nil
		}

		err = tx.DeleteTarget(*worker.MonTarget)

		if errors.Is(err, ErrTargetNotFound) {
			logger.Warn("Target %d of worker %d was already gone", *worker.MonTarget, id)
			return nil
		}

		return err
	})
}

// Ingest forwards a batch of line protocol to the time-series database.
func (s *Service) Ingest(ctx context.Context, lineProtocol string) error {
	err := s.writer.Write(ctx, lineProtocol)

	metrics.ObserveMonitoringWrite(err)

	if err != nil {
		logger.Error("Failed to write monitoring data: %v", err)
	}

	return err
}
