package service

import (
	"errors"

	"go-fabric-ledger/internal/model"
	"go-fabric-ledger/internal/rbac"
	"go-fabric-ledger/internal/repository"
	"go-fabric-ledger/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QualityInput carries the measured quality parameters for an entry.
type QualityInput struct {
	GsmValue         float64             `json:"gsm_value" validate:"required,gt=0"`
	WidthDiaInches   float64             `json:"width_dia_inches" validate:"required,gt=0"`
	ShrinkagePercent float64             `json:"shrinkage_percent" validate:"min=0,max=100"`
	ColorFastness    model.ColorFastness `json:"color_fastness" validate:"required,oneof=OKAY NOT_OKAY"`
	Remarks          string              `json:"remarks"`
}

type QualityService interface {
	// RecordQuality persists the quality record for the entry and moves it
	// from PENDING_QUALITY to QUALITY_CHECKED. First record wins; the core
	// never retries.
	RecordQuality(entryID uuid.UUID, input QualityInput, actor Actor) (*model.QualityParameters, error)
	GetQuality(entryID uuid.UUID, actor Actor) (*model.QualityParameters, error)
	// PendingQueue lists the entries still waiting for a quality check.
	PendingQueue(actor Actor) ([]model.FabricEntry, error)
}

type qualityService struct {
	entryRepo   repository.EntryRepository
	qualityRepo repository.QualityRepository
}

func NewQualityService(entryRepo repository.EntryRepository, qualityRepo repository.QualityRepository) QualityService {
	return &qualityService{
		entryRepo:   entryRepo,
		qualityRepo: qualityRepo,
	}
}

func (s *qualityService) RecordQuality(entryID uuid.UUID, input QualityInput, actor Actor) (*model.QualityParameters, error) {
	if !rbac.Has(actor.Role, rbac.CapQualityCreate) {
		return nil, forbidden("role %s may not record quality parameters", actor.Role)
	}

	if errs := validator.ValidateStruct(&input); len(errs) > 0 {
		first := errs[0]
		return nil, validation(first.FailedField, "failed on %q", first.Tag)
	}

	entry, err := s.entryRepo.FindByID(entryID)
	if err != nil {
		return nil, storeErr("fabric entry", err)
	}

	// Single existence probe, before the state check, so a repeat call is
	// reported as AlreadyChecked rather than a stale-state error. The store's
	// unique index on fabric_entry_id is the real at-most-one guarantee.
	if _, err := s.qualityRepo.FindByEntry(entryID); err == nil {
		return nil, alreadyChecked("quality parameters already recorded for this entry")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeErr("quality parameters", err)
	}

	if entry.Status != model.StatusPendingQuality {
		return nil, invalidState("entry is %s, quality can only be recorded while PENDING_QUALITY", entry.Status)
	}

	// Second gate: the capability says the role may record quality, the
	// transition table says it may move the entry from this status.
	if !rbac.CanTransition(actor.Role, entry.Status, model.StatusQualityChecked) {
		return nil, forbidden("role %s may not move an entry from %s to %s", actor.Role, entry.Status, model.StatusQualityChecked)
	}

	record := &model.QualityParameters{
		FabricEntryID:    entryID,
		GsmValue:         input.GsmValue,
		WidthDiaInches:   input.WidthDiaInches,
		ShrinkagePercent: input.ShrinkagePercent,
		ColorFastness:    input.ColorFastness,
		CheckedBy:        actor.Email,
		Remarks:          input.Remarks,
	}
	if err := s.qualityRepo.Create(record); err != nil {
		return nil, storeErr("quality parameters", err)
	}

	// The status flip rides the record creation unconditionally; the CAS guard
	// only protects against a concurrent flip of the same entry.
	if _, err := s.entryRepo.UpdateStatusFrom(entryID, model.StatusPendingQuality, model.StatusQualityChecked); err != nil {
		return nil, storeErr("fabric entry", err)
	}

	return record, nil
}

func (s *qualityService) GetQuality(entryID uuid.UUID, actor Actor) (*model.QualityParameters, error) {
	if !rbac.HasAny(actor.Role, rbac.CapQualityCreate, rbac.CapEntryView) {
		return nil, forbidden("role %s may not view quality parameters", actor.Role)
	}
	record, err := s.qualityRepo.FindByEntry(entryID)
	if err != nil {
		return nil, storeErr("quality parameters", err)
	}
	return record, nil
}

func (s *qualityService) PendingQueue(actor Actor) ([]model.FabricEntry, error) {
	if !rbac.Has(actor.Role, rbac.CapEntryView) {
		return nil, forbidden("role %s may not view entries", actor.Role)
	}
	entries, err := s.entryRepo.FindAll(repository.EntryFilter{Status: model.StatusPendingQuality})
	if err != nil {
		return nil, storeErr("fabric entries", err)
	}
	return entries, nil
}
