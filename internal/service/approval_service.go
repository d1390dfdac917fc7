package service

import (
	"errors"
	"sync"

	"go-fabric-ledger/internal/model"
	"go-fabric-ledger/internal/rbac"
	"go-fabric-ledger/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AggregationResult is what a decision hands back to the caller so the UI can
// refresh its queues. It is a return value, never a push.
type AggregationResult struct {
	EntryID     uuid.UUID          `json:"entry_id"`
	Complete    bool               `json:"complete"`
	FinalStatus model.FabricStatus `json:"final_status,omitempty"`
	Decided     int                `json:"decided"`
	Total       int                `json:"total"`
}

type ApprovalService interface {
	// DecideRoll records the write-once decision for a roll, then always
	// re-aggregates the parent entry. Decide + aggregate run as one unit,
	// serialized per entry.
	DecideRoll(rollID uuid.UUID, decision model.Decision, actor Actor) (*model.RollApproval, *AggregationResult, error)
	// AttachEvidence backfills the evidence reference on a hold recorded
	// without one (legacy rows only). Does not re-trigger aggregation.
	AttachEvidence(approvalID uuid.UUID, evidenceRef string, actor Actor) (*model.RollApproval, error)
	// ApprovalQueue lists entries awaiting roll decisions, with rolls and any
	// approvals already recorded.
	ApprovalQueue(actor Actor) ([]model.FabricEntry, error)
	GetEntryApprovals(entryID uuid.UUID, actor Actor) ([]model.RollApproval, error)
}

type approvalService struct {
	entryRepo    repository.EntryRepository
	rollRepo     repository.RollRepository
	approvalRepo repository.ApprovalRepository

	// Per-entry mutual exclusion for decide+aggregate. Locks are never purged;
	// the map grows with the number of entries ever decided in this process,
	// which is fine for a request/response service of this size.
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewApprovalService(entryRepo repository.EntryRepository, rollRepo repository.RollRepository, approvalRepo repository.ApprovalRepository) ApprovalService {
	return &approvalService{
		entryRepo:    entryRepo,
		rollRepo:     rollRepo,
		approvalRepo: approvalRepo,
		locks:        make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *approvalService) entryLock(entryID uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[entryID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[entryID] = lock
	}
	return lock
}

func (s *approvalService) DecideRoll(rollID uuid.UUID, decision model.Decision, actor Actor) (*model.RollApproval, *AggregationResult, error) {
	switch decision.Status {
	case model.ApprovalApproved:
		if !rbac.Has(actor.Role, rbac.CapApprovalApprove) {
			return nil, nil, forbidden("role %s may not approve rolls", actor.Role)
		}
	case model.ApprovalOnHold:
		if !rbac.Has(actor.Role, rbac.CapApprovalReject) {
			return nil, nil, forbidden("role %s may not hold rolls", actor.Role)
		}
	default:
		return nil, nil, validation("approval_status", "must be APPROVED or ON_HOLD")
	}

	if err := validateDecisionShape(decision); err != nil {
		return nil, nil, err
	}

	roll, err := s.rollRepo.FindByID(rollID)
	if err != nil {
		return nil, nil, storeErr("fabric roll", err)
	}

	if q := decision.NotApprovedQuantity; q != nil && (*q < 0 || *q > roll.RollValue) {
		return nil, nil, validation("not_approved_quantity", "must be between 0 and the roll value (%g)", roll.RollValue)
	}

	lock := s.entryLock(roll.FabricEntryID)
	lock.Lock()
	defer lock.Unlock()

	entry, err := s.entryRepo.FindByID(roll.FabricEntryID)
	if err != nil {
		return nil, nil, storeErr("fabric entry", err)
	}
	if entry.Status != model.StatusQualityChecked {
		return nil, nil, invalidState("entry is %s, rolls can only be decided while QUALITY_CHECKED", entry.Status)
	}

	// Write-once: the first valid decision owns the roll. A retry after an
	// unknown outcome lands here, making DecideRoll idempotent for callers.
	if _, err := s.approvalRepo.FindByRoll(rollID); err == nil {
		return nil, nil, alreadyDecided("roll already has a decision")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, storeErr("roll approval", err)
	}

	approval := &model.RollApproval{
		FabricRollID:        rollID,
		ApprovalStatus:      decision.Status,
		HoldReason:          decision.HoldReason,
		NotApprovedQuantity: decision.NotApprovedQuantity,
		ApprovedBy:          actor.Email,
		Remarks:             decision.Remarks,
		DebitNoteURL:        decision.EvidenceRef,
	}
	if err := s.approvalRepo.Create(approval); err != nil {
		return nil, nil, storeErr("roll approval", err)
	}

	result, err := s.aggregateLocked(roll.FabricEntryID)
	if err != nil {
		return approval, nil, err
	}
	return approval, result, nil
}

// validateDecisionShape rejects the field combinations the Decision
// constructors cannot produce but a raw API payload can.
func validateDecisionShape(decision model.Decision) error {
	if decision.Status == model.ApprovalOnHold {
		if decision.HoldReason == nil {
			return validation("hold_reason", "required when putting a roll on hold")
		}
		if *decision.HoldReason != model.HoldQuantityInsufficient && *decision.HoldReason != model.HoldMaterialDefective {
			return validation("hold_reason", "must be QUANTITY_INSUFFICIENT or MATERIAL_DEFECTIVE")
		}
		if decision.EvidenceRef == "" {
			return validation("debit_note_url", "a hold requires an attached debit note")
		}
		return nil
	}
	if decision.HoldReason != nil {
		return validation("hold_reason", "only valid on a hold decision")
	}
	if decision.EvidenceRef != "" {
		return validation("debit_note_url", "only valid on a hold decision")
	}
	return nil
}

// aggregateLocked derives the entry status from the full roll decision set.
// Caller must hold the entry lock. Holds dominate: one held roll forces the
// whole entry to ON_HOLD no matter how many rolls were approved.
func (s *approvalService) aggregateLocked(entryID uuid.UUID) (*AggregationResult, error) {
	rolls, err := s.rollRepo.FindByEntry(entryID)
	if err != nil {
		return nil, storeErr("fabric rolls", err)
	}
	approvals, err := s.approvalRepo.FindByEntry(entryID)
	if err != nil {
		return nil, storeErr("roll approvals", err)
	}

	result := &AggregationResult{
		EntryID: entryID,
		Decided: len(approvals),
		Total:   len(rolls),
	}
	if len(approvals) < len(rolls) {
		return result, nil
	}

	final := model.StatusApproved
	for _, a := range approvals {
		if a.ApprovalStatus == model.ApprovalOnHold {
			final = model.StatusOnHold
			break
		}
	}

	// Conditional commit: only an entry still sitting in QUALITY_CHECKED may
	// be finalized. A second aggregation pass finds the guard already gone
	// and leaves the (identical, since decisions are immutable) status alone.
	if _, err := s.entryRepo.UpdateStatusFrom(entryID, model.StatusQualityChecked, final); err != nil {
		return nil, storeErr("fabric entry", err)
	}

	result.Complete = true
	result.FinalStatus = final
	return result, nil
}

func (s *approvalService) AttachEvidence(approvalID uuid.UUID, evidenceRef string, actor Actor) (*model.RollApproval, error) {
	if !rbac.Has(actor.Role, rbac.CapApprovalReject) {
		return nil, forbidden("role %s may not attach hold evidence", actor.Role)
	}
	if evidenceRef == "" {
		return nil, validation("debit_note_url", "evidence reference is required")
	}

	approval, err := s.approvalRepo.FindByID(approvalID)
	if err != nil {
		return nil, storeErr("roll approval", err)
	}
	if approval.ApprovalStatus != model.ApprovalOnHold {
		return nil, invalidState("evidence can only be attached to a hold")
	}
	if approval.DebitNoteURL != "" {
		return nil, invalidState("hold already has evidence attached")
	}

	if err := s.approvalRepo.UpdateEvidence(approvalID, evidenceRef); err != nil {
		return nil, storeErr("roll approval", err)
	}
	approval.DebitNoteURL = evidenceRef
	return approval, nil
}

func (s *approvalService) ApprovalQueue(actor Actor) ([]model.FabricEntry, error) {
	if !rbac.HasAny(actor.Role, rbac.CapApprovalApprove, rbac.CapApprovalReject) {
		return nil, forbidden("role %s may not view the approval queue", actor.Role)
	}
	entries, err := s.entryRepo.FindAll(repository.EntryFilter{Status: model.StatusQualityChecked})
	if err != nil {
		return nil, storeErr("fabric entries", err)
	}
	return entries, nil
}

func (s *approvalService) GetEntryApprovals(entryID uuid.UUID, actor Actor) ([]model.RollApproval, error) {
	if !rbac.HasAny(actor.Role, rbac.CapApprovalApprove, rbac.CapApprovalReject, rbac.CapReportsViewAll) {
		return nil, forbidden("role %s may not view roll approvals", actor.Role)
	}
	approvals, err := s.approvalRepo.FindByEntry(entryID)
	if err != nil {
		return nil, storeErr("roll approvals", err)
	}
	return approvals, nil
}
