package monitoring

import (
	"errors"

	"certifire/internal/monitoring/types"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Transaction runs fn against a repository bound to one transaction.
func (r *Repository) Transaction(fn func(tx *Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) CreateTarget(target *types.Target) error {
	return r.db.Create(target).Error
}

func (r *Repository) GetTarget(id uint) (*types.Target, error) {
	var target types.Target

	err := r.db.First(&target, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTargetNotFound
	}

	if err != nil {
		return nil, err
	}

	return &target, nil
}

func (r *Repository) GetAllTargets() ([]*types.Target, error) {
	var targets []*types.Target

	if err := r.db.Order("id").Find(&targets).Error; err != nil {
		return nil, err
	}

	return targets, nil
}

func (r *Repository) DeleteTarget(id uint) error {
	result := r.db.Delete(&types.Target{}, id)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrTargetNotFound
	}

	return nil
}

func (r *Repository) CreateWorker(worker *types.Worker) error {
	return r.db.Create(worker).Error
}

func (r *Repository) UpdateWorker(worker *types.Worker) error {
	return r.db.Save(worker).Error
}

func (r *Repository) GetWorker(id uint) (*types.Worker, error) {
	var worker types.Worker

	err := r.db.First(&worker, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWorkerNotFound
	}

	if err != nil {
		return nil, err
	}

	return &worker, nil
}

func (r *Repository) GetAllWorkers() ([]*types.Worker, error) {
	var workers []*types.Worker

	if err := r.db.Order("id").Find(&workers).Error; err != nil {
		return nil, err
	}

	return workers, nil
}

func (r *Repository) DeleteWorker(id uint) error {
	result := r.db.Delete(&types.Worker{}, id)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrWorkerNotFound
	}

	return nil
}
