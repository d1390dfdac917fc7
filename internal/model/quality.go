package model

import "github.com/google/uuid"

type ColorFastness string

const (
	ColorFastnessOkay    ColorFastness = "OKAY"
	ColorFastnessNotOkay ColorFastness = "NOT_OKAY"
)

// QualityParameters is the quality-check record for an entry. At most one per
// entry; the first record wins and there is no amendment path. Creating it is
// what moves the entry from PENDING_QUALITY to QUALITY_CHECKED.
type QualityParameters struct {
	BaseModel
	FabricEntryID    uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex" json:"fabric_entry_id"`
	GsmValue         float64       `gorm:"not null" json:"gsm_value" validate:"required,gt=0"`
	WidthDiaInches   float64       `gorm:"not null" json:"width_dia_inches" validate:"required,gt=0"`
	ShrinkagePercent float64       `gorm:"not null" json:"shrinkage_percent" validate:"min=0,max=100"`
	ColorFastness    ColorFastness `gorm:"type:varchar(10);not null" json:"color_fastness" validate:"required,oneof=OKAY NOT_OKAY"`
	CheckedBy        string        `gorm:"type:varchar(255);not null" json:"checked_by"`
	Remarks          string        `gorm:"type:text" json:"remarks,omitempty"`
}

func (QualityParameters) TableName() string {
	return "quality_parameters"
}
