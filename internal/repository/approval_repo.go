package repository

import (
	"go-fabric-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApprovalRepository interface {
	Create(approval *model.RollApproval) error
	FindByID(id uuid.UUID) (*model.RollApproval, error)
	FindByRoll(rollID uuid.UUID) (*model.RollApproval, error)
	// FindByEntry returns the approvals for every roll of the entry.
	FindByEntry(entryID uuid.UUID) ([]model.RollApproval, error)
	UpdateEvidence(id uuid.UUID, evidenceRef string) error
}

type approvalRepo struct {
	db *gorm.DB
}

func NewApprovalRepo(db *gorm.DB) ApprovalRepository {
	return &approvalRepo{db}
}

func (r *approvalRepo) Create(approval *model.RollApproval) error {
	return r.db.Create(approval).Error
}

func (r *approvalRepo) FindByID(id uuid.UUID) (*model.RollApproval, error) {
	var approval model.RollApproval
	if err := r.db.First(&approval, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &approval, nil
}

func (r *approvalRepo) FindByRoll(rollID uuid.UUID) (*model.RollApproval, error) {
	var approval model.RollApproval
	if err := r.db.First(&approval, "fabric_roll_id = ?", rollID).Error; err != nil {
		return nil, err
	}
	return &approval, nil
}

func (r *approvalRepo) FindByEntry(entryID uuid.UUID) ([]model.RollApproval, error) {
	var approvals []model.RollApproval
	err := r.db.
		Joins("JOIN fabric_rolls ON fabric_rolls.id = roll_approvals.fabric_roll_id").
		Where("fabric_rolls.fabric_entry_id = ?", entryID).
		Find(&approvals).Error
	return approvals, err
}

func (r *approvalRepo) UpdateEvidence(id uuid.UUID, evidenceRef string) error {
	return r.db.Model(&model.RollApproval{}).
		Where("id = ?", id).
		Update("debit_note_url", evidenceRef).Error
}
