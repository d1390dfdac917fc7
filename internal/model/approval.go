package model

import "github.com/google/uuid"

type ApprovalStatus string

const (
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalOnHold   ApprovalStatus = "ON_HOLD"
)

type HoldReason string

const (
	HoldQuantityInsufficient HoldReason = "QUANTITY_INSUFFICIENT"
	HoldMaterialDefective    HoldReason = "MATERIAL_DEFECTIVE"
)

// RollApproval is the write-once decision for a single roll. A roll can never
// be re-decided; a correction would be a superseding record, never a mutation.
// DebitNoteURL is the opaque evidence reference, mandatory for holds.
type RollApproval struct {
	BaseModel
	FabricRollID        uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"fabric_roll_id"`
	ApprovalStatus      ApprovalStatus `gorm:"type:varchar(10);not null" json:"approval_status"`
	HoldReason          *HoldReason    `gorm:"type:varchar(30)" json:"hold_reason,omitempty"`
	NotApprovedQuantity *float64       `json:"not_approved_quantity,omitempty"`
	ApprovedBy          string         `gorm:"type:varchar(255);not null" json:"approved_by"`
	Remarks             string         `gorm:"type:text" json:"remarks,omitempty"`
	DebitNoteURL        string         `gorm:"type:varchar(500)" json:"debit_note_url,omitempty"`
}

func (RollApproval) TableName() string {
	return "roll_approvals"
}

// Decision is the tagged payload for deciding a roll. Build it with Approve or
// Hold so the invalid combinations (hold reason on an approval, hold without
// evidence) cannot be expressed by accident; DecideRoll still validates.
type Decision struct {
	Status              ApprovalStatus
	HoldReason          *HoldReason
	EvidenceRef         string
	NotApprovedQuantity *float64
	Remarks             string
}

// Approve builds an APPROVED decision.
func Approve() Decision {
	return Decision{Status: ApprovalApproved}
}

// Hold builds an ON_HOLD decision. Reason and evidence are the mandatory hold
// fields; DecideRoll rejects the decision if either is missing.
func Hold(reason HoldReason, evidenceRef string) Decision {
	r := reason
	return Decision{Status: ApprovalOnHold, HoldReason: &r, EvidenceRef: evidenceRef}
}

// WithNotApproved attaches the quantity that was not accepted.
func (d Decision) WithNotApproved(qty float64) Decision {
	d.NotApprovedQuantity = &qty
	return d
}

// WithRemarks attaches free-text remarks.
func (d Decision) WithRemarks(remarks string) Decision {
	d.Remarks = remarks
	return d
}
