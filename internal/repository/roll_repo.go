package repository

import (
	"go-fabric-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RollRepository interface {
	FindByID(id uuid.UUID) (*model.FabricRoll, error)
	FindByEntry(entryID uuid.UUID) ([]model.FabricRoll, error)
}

type rollRepo struct {
	db *gorm.DB
}

func NewRollRepo(db *gorm.DB) RollRepository {
	return &rollRepo{db}
}

func (r *rollRepo) FindByID(id uuid.UUID) (*model.FabricRoll, error) {
	var roll model.FabricRoll
	if err := r.db.First(&roll, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &roll, nil
}

func (r *rollRepo) FindByEntry(entryID uuid.UUID) ([]model.FabricRoll, error) {
	var rolls []model.FabricRoll
	err := r.db.Where("fabric_entry_id = ?", entryID).
		Order("batch_number ASC").
		Find(&rolls).Error
	return rolls, err
}
