package model

import (
	"time"

	"github.com/google/uuid"
)

type QuantityUnit string

const (
	UnitKG    QuantityUnit = "KG"
	UnitMeter QuantityUnit = "METER"
)

type FabricType string

const (
	FabricKnitted FabricType = "KNITTED"
	FabricWoven   FabricType = "WOVEN"
)

// FabricStatus is the entry lifecycle state. An entry only moves forward:
// PENDING_QUALITY -> QUALITY_CHECKED -> APPROVED | ON_HOLD.
type FabricStatus string

const (
	StatusPendingQuality FabricStatus = "PENDING_QUALITY"
	StatusQualityChecked FabricStatus = "QUALITY_CHECKED"
	StatusApproved       FabricStatus = "APPROVED"
	StatusOnHold         FabricStatus = "ON_HOLD"

	// StatusReadyToIssue is a legacy alias for APPROVED that still exists in
	// old rows. Nothing writes it anymore; NormalizeStatus folds it on read.
	StatusReadyToIssue FabricStatus = "READY_TO_ISSUE"
)

// NormalizeStatus maps legacy status values onto the canonical set.
func NormalizeStatus(s FabricStatus) FabricStatus {
	if s == StatusReadyToIssue {
		return StatusApproved
	}
	return s
}

// FabricEntry is one received fabric shipment.
type FabricEntry struct {
	BaseModel
	SellerName        string       `gorm:"type:varchar(255);not null" json:"seller_name" validate:"required"`
	QuantityValue     float64      `gorm:"not null" json:"quantity_value" validate:"required,gt=0"`
	QuantityUnit      QuantityUnit `gorm:"type:varchar(10);not null" json:"quantity_unit" validate:"required,oneof=KG METER"`
	Color             string       `gorm:"type:varchar(100);not null" json:"color" validate:"required"`
	FabricType        FabricType   `gorm:"type:varchar(20);not null" json:"fabric_type" validate:"required,oneof=KNITTED WOVEN"`
	PONumber          string       `gorm:"type:varchar(100);not null" json:"po_number" validate:"required"`
	FabricComposition string       `gorm:"type:varchar(255);not null" json:"fabric_composition" validate:"required"`
	InwardedBy        string       `gorm:"type:varchar(255);not null" json:"inwarded_by" validate:"required"`
	DateInwarded      time.Time    `gorm:"not null;index" json:"date_inwarded"`

	// UAT = units-as-tested, the quantity restated after physical count.
	UatValue float64      `json:"uat_value" validate:"required,gt=0"`
	UatUnit  QuantityUnit `gorm:"type:varchar(10)" json:"uat_unit" validate:"required,oneof=KG METER"`

	// Opaque reference to the FTP/challan document; stored verbatim.
	FtpDocumentURL string `gorm:"type:varchar(500)" json:"ftp_document_url,omitempty"`

	Status FabricStatus `gorm:"type:varchar(20);not null;default:'PENDING_QUALITY';index" json:"status"`

	Rolls      []FabricRoll       `gorm:"foreignKey:FabricEntryID" json:"rolls,omitempty"`
	RibDetails *RibDetails        `gorm:"foreignKey:FabricEntryID" json:"rib_details,omitempty"`
	Quality    *QualityParameters `gorm:"foreignKey:FabricEntryID" json:"quality_parameters,omitempty"`
}

func (FabricEntry) TableName() string {
	return "fabric_entries"
}

// FabricRoll is one physical sub-unit of an entry, individually approvable.
// BatchNumber is dense 1..N within the entry, assigned at intake and immutable.
type FabricRoll struct {
	BaseModel
	FabricEntryID uuid.UUID    `gorm:"type:uuid;not null;index;uniqueIndex:idx_entry_batch" json:"fabric_entry_id"`
	RollValue     float64      `gorm:"not null" json:"roll_value" validate:"required,gt=0"`
	RollUnit      QuantityUnit `gorm:"type:varchar(10);not null" json:"roll_unit" validate:"required,oneof=KG METER"`
	BatchNumber   int          `gorm:"not null;uniqueIndex:idx_entry_batch" json:"batch_number"`

	Approval *RollApproval `gorm:"foreignKey:FabricRollID" json:"approval,omitempty"`
}

func (FabricRoll) TableName() string {
	return "fabric_rolls"
}

// RibDetails is the optional rib accompaniment recorded with an entry.
type RibDetails struct {
	BaseModel
	FabricEntryID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"fabric_entry_id"`
	TotalWeight   *float64  `json:"total_weight,omitempty" validate:"omitempty,gt=0"`
	TotalRolls    *int      `json:"total_rolls,omitempty" validate:"omitempty,gt=0"`
}

func (RibDetails) TableName() string {
	return "rib_details"
}
