package repository

import (
	"go-fabric-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EntryFilter narrows listing queries. Zero values mean "no constraint".
type EntryFilter struct {
	Status     model.FabricStatus
	SellerName string
	PONumber   string
	InwardedBy string
}

type EntryRepository interface {
	Create(entry *model.FabricEntry, rolls []model.FabricRoll, rib *model.RibDetails) error
	FindByID(id uuid.UUID) (*model.FabricEntry, error)
	FindAll(filter EntryFilter) ([]model.FabricEntry, error)
	Update(entry *model.FabricEntry) error
	// UpdateStatusFrom commits the new status only if the entry is still in
	// the expected one (compare-and-set). Returns false when the guard misses.
	UpdateStatusFrom(id uuid.UUID, from, to model.FabricStatus) (bool, error)
	AttachDocument(id uuid.UUID, documentURL string) error
	Delete(id uuid.UUID) error
}

type entryRepo struct {
	db *gorm.DB
}

func NewEntryRepo(db *gorm.DB) EntryRepository {
	return &entryRepo{db}
}

// Create persists the entry together with its rolls and optional rib details
// in one transaction so an intake is all-or-nothing.
func (r *entryRepo) Create(entry *model.FabricEntry, rolls []model.FabricRoll, rib *model.RibDetails) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		for i := range rolls {
			rolls[i].FabricEntryID = entry.ID
		}
		if len(rolls) > 0 {
			if err := tx.Create(&rolls).Error; err != nil {
				return err
			}
		}
		if rib != nil {
			rib.FabricEntryID = entry.ID
			if err := tx.Create(rib).Error; err != nil {
				return err
			}
		}
		entry.Rolls = rolls
		entry.RibDetails = rib
		return nil
	})
}

func (r *entryRepo) FindByID(id uuid.UUID) (*model.FabricEntry, error) {
	var entry model.FabricEntry
	err := r.db.
		Preload("Rolls", func(db *gorm.DB) *gorm.DB { return db.Order("batch_number ASC") }).
		Preload("Rolls.Approval").
		Preload("RibDetails").
		Preload("Quality").
		First(&entry, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *entryRepo) FindAll(filter EntryFilter) ([]model.FabricEntry, error) {
	q := r.db.Model(&model.FabricEntry{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.SellerName != "" {
		q = q.Where("seller_name = ?", filter.SellerName)
	}
	if filter.PONumber != "" {
		q = q.Where("po_number = ?", filter.PONumber)
	}
	if filter.InwardedBy != "" {
		q = q.Where("inwarded_by = ?", filter.InwardedBy)
	}

	var entries []model.FabricEntry
	err := q.
		Preload("Rolls", func(db *gorm.DB) *gorm.DB { return db.Order("batch_number ASC") }).
		Preload("Rolls.Approval").
		Preload("Quality").
		Order("date_inwarded DESC").
		Find(&entries).Error
	return entries, err
}

func (r *entryRepo) Update(entry *model.FabricEntry) error {
	return r.db.Save(entry).Error
}

func (r *entryRepo) UpdateStatusFrom(id uuid.UUID, from, to model.FabricStatus) (bool, error) {
	res := r.db.Model(&model.FabricEntry{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *entryRepo) AttachDocument(id uuid.UUID, documentURL string) error {
	return r.db.Model(&model.FabricEntry{}).
		Where("id = ?", id).
		Update("ftp_document_url", documentURL).Error
}

func (r *entryRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.FabricEntry{}, "id = ?", id).Error
}
