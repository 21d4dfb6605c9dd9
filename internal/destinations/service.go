package destinations

import (
	"context"
	"fmt"

	"certifire/internal/destinations/types"
	"certifire/internal/logger"
)

// Verifier opens a throwaway connection to a destination.
type Verifier interface {
	TestConnection(ctx context.Context, destination *types.Destination) error
}

// Service validates destinations before they are stored.
type Service struct {
	repository *Repository
	verifier   Verifier
	defaults   types.Defaults
}

func NewService(repository *Repository, verifier Verifier, defaults types.Defaults) *Service {
	return &Service{
		repository: repository,
		verifier:   verifier,
		defaults:   defaults,
	}
}

func (s *Service) Repository() *Repository {
	return s.repository
}

// Create stores destination after a successful trial connection, unless
// SkipVerify is set.
func (s *Service) Create(ctx context.Context, destination *types.Destination) error {
	destination.ApplyDefaults(s.defaults)

	if err := validate(destination); err != nil {
		return err
	}

	if err := s.verify(ctx, destination); err != nil {
		return err
	}

	if err := s.repository.Create(destination); err != nil {
		return err
	}

	logger.Info("Destination %d (%s) created", destination.ID, destination.Host)

	return nil
}

// Update merges the non-empty fields of update into the stored record and
// saves it after a trial connection, unless update.SkipVerify is set.
// Nothing is written when verification fails.
func (s *Service) Update(ctx context.Context, id uint, update *types.Destination) (*types.Destination, error) {
	destination, err := s.repository.Get(id)

	if err != nil {
		return nil, err
	}

	destination.Merge(update)

	if err := validate(destination); err != nil {
		return nil, err
	}

	if err := s.verify(ctx, destination); err != nil {
		return nil, err
	}

	if err := s.repository.Update(destination); err != nil {
		return nil, err
	}

	logger.Info("Destination %d (%s) updated", destination.ID, destination.Host)

	return destination, nil
}

func (s *Service) Delete(id uint) error {
	if err := s.repository.Delete(id); err != nil {
		return err
	}

	logger.Info("Destination %d deleted", id)

	return nil
}

func (s *Service) verify(ctx context.Context, destination *types.Destination) error {
	if destination.SkipVerify {
		logger.Info("Skipping trial connection to %s", destination.Host)
		return nil
	}

	if err := s.verifier.TestConnection(ctx, destination); err != nil {
		logger.Warn("Trial connection to %s failed: %v", destination.Host, err)
		return fmt.Errorf("%w: %w", ErrVerificationFailed, err)
	}

	return nil
}

func validate(destination *types.Destination) error {
	if destination.Host == "" {
		return ErrHostRequired
	}

	format, ok := types.ParseExportFormat(string(destination.ExportFormat))

	if !ok {
		return ErrInvalidExportFormat
	}

	destination.ExportFormat = format

	return nil
}
