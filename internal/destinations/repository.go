package destinations

import (
	"errors"
	"fmt"

	"certifire/internal/destinations/types"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(destination *types.Destination) error {
	return r.db.Create(destination).Error
}

func (r *Repository) Update(destination *types.Destination) error {
	return r.db.Save(destination).Error
}

func (r *Repository) Get(id uint) (*types.Destination, error) {
	var destination types.Destination

	err := r.db.First(&destination, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDestinationNotFound
	}

	if err != nil {
		return nil, err
	}

	return &destination, nil
}

func (r *Repository) GetAll() ([]*types.Destination, error) {
	var destinations []*types.Destination

	if err := r.db.Order("id").Find(&destinations).Error; err != nil {
		return nil, err
	}

	return destinations, nil
}

// Delete removes the record only; files already delivered to the host stay.
func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&types.Destination{}, id)

	if result.Error != nil {
		return fmt.Errorf("delete destination %d: %w", id, result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrDestinationNotFound
	}

	return nil
}
