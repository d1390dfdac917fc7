package service

import (
	"math"
	"time"

	"go-fabric-ledger/internal/model"
	"go-fabric-ledger/internal/rbac"
	"go-fabric-ledger/internal/repository"
	"go-fabric-ledger/pkg/validator"

	"github.com/google/uuid"
)

// rollSumTolerance absorbs float drift when comparing the KG roll sum against
// the ordered quantity.
const rollSumTolerance = 0.01

// RollInput is one roll line on the inward form.
type RollInput struct {
	RollValue float64            `json:"roll_value" validate:"required,gt=0"`
	RollUnit  model.QuantityUnit `json:"roll_unit" validate:"required,oneof=KG METER"`
}

// RibInput is the optional rib accompaniment.
type RibInput struct {
	TotalWeight *float64 `json:"total_weight" validate:"omitempty,gt=0"`
	TotalRolls  *int     `json:"total_rolls" validate:"omitempty,gt=0"`
}

// IntakeInput is the complete inward form: the entry plus its rolls.
type IntakeInput struct {
	SellerName        string             `json:"seller_name" validate:"required"`
	QuantityValue     float64            `json:"quantity_value" validate:"required,gt=0"`
	QuantityUnit      model.QuantityUnit `json:"quantity_unit" validate:"required,oneof=KG METER"`
	Color             string             `json:"color" validate:"required"`
	FabricType        model.FabricType   `json:"fabric_type" validate:"required,oneof=KNITTED WOVEN"`
	PONumber          string             `json:"po_number" validate:"required"`
	FabricComposition string             `json:"fabric_composition" validate:"required"`
	UatValue          float64            `json:"uat_value" validate:"required,gt=0"`
	UatUnit           model.QuantityUnit `json:"uat_unit" validate:"required,oneof=KG METER"`
	Rolls             []RollInput        `json:"rolls" validate:"required,min=1,dive"`
	RibDetails        *RibInput          `json:"rib_details"`
}

type IntakeService interface {
	// CreateEntry creates the entry with its rolls (dense batch numbers 1..N)
	// and optional rib details, in PENDING_QUALITY.
	CreateEntry(input IntakeInput, actor Actor) (*model.FabricEntry, error)
	GetEntry(id uuid.UUID, actor Actor) (*model.FabricEntry, error)
	ListEntries(filter repository.EntryFilter, actor Actor) ([]model.FabricEntry, error)
	// UpdateEntry amends intake fields while the entry is still PENDING_QUALITY.
	UpdateEntry(id uuid.UUID, input IntakeInput, actor Actor) (*model.FabricEntry, error)
	DeleteEntry(id uuid.UUID, actor Actor) error
	// AttachDocument stores the opaque FTP/challan document reference verbatim.
	AttachDocument(id uuid.UUID, documentURL string, actor Actor) error
}

type intakeService struct {
	entryRepo repository.EntryRepository
}

func NewIntakeService(entryRepo repository.EntryRepository) IntakeService {
	return &intakeService{entryRepo: entryRepo}
}

func (s *intakeService) CreateEntry(input IntakeInput, actor Actor) (*model.FabricEntry, error) {
	if !rbac.Has(actor.Role, rbac.CapEntryCreate) {
		return nil, forbidden("role %s may not create entries", actor.Role)
	}
	if err := validateIntake(input); err != nil {
		return nil, err
	}

	entry := &model.FabricEntry{
		SellerName:        input.SellerName,
		QuantityValue:     input.QuantityValue,
		QuantityUnit:      input.QuantityUnit,
		Color:             input.Color,
		FabricType:        input.FabricType,
		PONumber:          input.PONumber,
		FabricComposition: input.FabricComposition,
		InwardedBy:        actor.Email,
		DateInwarded:      time.Now(),
		UatValue:          input.UatValue,
		UatUnit:           input.UatUnit,
		Status:            model.StatusPendingQuality,
	}

	rolls := make([]model.FabricRoll, len(input.Rolls))
	for i, r := range input.Rolls {
		rolls[i] = model.FabricRoll{
			RollValue:   r.RollValue,
			RollUnit:    r.RollUnit,
			BatchNumber: i + 1,
		}
	}

	var rib *model.RibDetails
	if input.RibDetails != nil && (input.RibDetails.TotalWeight != nil || input.RibDetails.TotalRolls != nil) {
		rib = &model.RibDetails{
			TotalWeight: input.RibDetails.TotalWeight,
			TotalRolls:  input.RibDetails.TotalRolls,
		}
	}

	if err := s.entryRepo.Create(entry, rolls, rib); err != nil {
		return nil, storeErr("fabric entry", err)
	}
	return entry, nil
}

// validateIntake runs struct validation plus the KG reconciliation rule: when
// the ordered quantity is in KG, the KG rolls must sum to it.
func validateIntake(input IntakeInput) error {
	if errs := validator.ValidateStruct(&input); len(errs) > 0 {
		first := errs[0]
		return validation(first.FailedField, "failed on %q", first.Tag)
	}

	if input.QuantityUnit == model.UnitKG {
		var sum float64
		for _, r := range input.Rolls {
			if r.RollUnit == model.UnitKG {
				sum += r.RollValue
			}
		}
		if math.Abs(sum-input.QuantityValue) > rollSumTolerance {
			return validation("rolls", "KG rolls sum to %g, ordered quantity is %g", sum, input.QuantityValue)
		}
	}
	return nil
}

func (s *intakeService) GetEntry(id uuid.UUID, actor Actor) (*model.FabricEntry, error) {
	if !rbac.Has(actor.Role, rbac.CapEntryView) {
		return nil, forbidden("role %s may not view entries", actor.Role)
	}
	entry, err := s.entryRepo.FindByID(id)
	if err != nil {
		return nil, storeErr("fabric entry", err)
	}
	return entry, nil
}

func (s *intakeService) ListEntries(filter repository.EntryFilter, actor Actor) ([]model.FabricEntry, error) {
	if !rbac.Has(actor.Role, rbac.CapEntryView) {
		return nil, forbidden("role %s may not view entries", actor.Role)
	}
	entries, err := s.entryRepo.FindAll(filter)
	if err != nil {
		return nil, storeErr("fabric entries", err)
	}
	return entries, nil
}

func (s *intakeService) UpdateEntry(id uuid.UUID, input IntakeInput, actor Actor) (*model.FabricEntry, error) {
	if !rbac.Has(actor.Role, rbac.CapEntryUpdate) {
		return nil, forbidden("role %s may not update entries", actor.Role)
	}
	if err := validateIntake(input); err != nil {
		return nil, err
	}

	entry, err := s.entryRepo.FindByID(id)
	if err != nil {
		return nil, storeErr("fabric entry", err)
	}

	// Once quality has stamped the entry the intake fields are frozen.
	if entry.Status != model.StatusPendingQuality {
		return nil, invalidState("entry is %s, intake fields are frozen after the quality check", entry.Status)
	}
	if actor.Role == model.RoleInwardClerk && entry.InwardedBy != actor.Email {
		return nil, forbidden("clerks may only amend their own entries")
	}

	entry.SellerName = input.SellerName
	entry.QuantityValue = input.QuantityValue
	entry.QuantityUnit = input.QuantityUnit
	entry.Color = input.Color
	entry.FabricType = input.FabricType
	entry.PONumber = input.PONumber
	entry.FabricComposition = input.FabricComposition
	entry.UatValue = input.UatValue
	entry.UatUnit = input.UatUnit

	if err := s.entryRepo.Update(entry); err != nil {
		return nil, storeErr("fabric entry", err)
	}
	return entry, nil
}

func (s *intakeService) DeleteEntry(id uuid.UUID, actor Actor) error {
	if !rbac.Has(actor.Role, rbac.CapEntryDelete) {
		return forbidden("role %s may not delete entries", actor.Role)
	}
	if _, err := s.entryRepo.FindByID(id); err != nil {
		return storeErr("fabric entry", err)
	}
	if err := s.entryRepo.Delete(id); err != nil {
		return storeErr("fabric entry", err)
	}
	return nil
}

func (s *intakeService) AttachDocument(id uuid.UUID, documentURL string, actor Actor) error {
	if !rbac.HasAny(actor.Role, rbac.CapEntryCreate, rbac.CapEntryUpdate) {
		return forbidden("role %s may not attach documents", actor.Role)
	}
	if documentURL == "" {
		return validation("ftp_document_url", "document reference is required")
	}
	if _, err := s.entryRepo.FindByID(id); err != nil {
		return storeErr("fabric entry", err)
	}
	if err := s.entryRepo.AttachDocument(id, documentURL); err != nil {
		return storeErr("fabric entry", err)
	}
	return nil
}
