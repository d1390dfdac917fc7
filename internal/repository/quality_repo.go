package repository

import (
	"go-fabric-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QualityRepository interface {
	Create(record *model.QualityParameters) error
	FindByEntry(entryID uuid.UUID) (*model.QualityParameters, error)
}

type qualityRepo struct {
	db *gorm.DB
}

func NewQualityRepo(db *gorm.DB) QualityRepository {
	return &qualityRepo{db}
}

func (r *qualityRepo) Create(record *model.QualityParameters) error {
	return r.db.Create(record).Error
}

func (r *qualityRepo) FindByEntry(entryID uuid.UUID) (*model.QualityParameters, error) {
	var record model.QualityParameters
	if err := r.db.First(&record, "fabric_entry_id = ?", entryID).Error; err != nil {
		return nil, err
	}
	return &record, nil
}
