package service

import (
	"fmt"

	"go-fabric-ledger/internal/model"
	"go-fabric-ledger/internal/rbac"
	"go-fabric-ledger/internal/repository"

	"github.com/xuri/excelize/v2"
)

// ReportRow flattens an entry with its quality and approval state for the
// reports screen.
type ReportRow struct {
	EntryID       string             `json:"entry_id"`
	SellerName    string             `json:"seller_name"`
	PONumber      string             `json:"po_number"`
	QuantityValue float64            `json:"quantity_value"`
	QuantityUnit  model.QuantityUnit `json:"quantity_unit"`
	FabricType    model.FabricType   `json:"fabric_type"`
	Color         string             `json:"color"`
	Status        model.FabricStatus `json:"status"`
	DateInwarded  string             `json:"date_inwarded"`
	InwardedBy    string             `json:"inwarded_by"`
	CheckedBy     string             `json:"checked_by,omitempty"`
	RollCount     int                `json:"roll_count"`
	DecidedRolls  int                `json:"decided_rolls"`
	HeldRolls     int                `json:"held_rolls"`
}

type ReportService interface {
	EntriesReport(filter repository.EntryFilter, actor Actor) ([]ReportRow, error)
	// ExportXLSX renders the report as an xlsx workbook and returns its bytes.
	ExportXLSX(filter repository.EntryFilter, actor Actor) ([]byte, error)
}

type reportService struct {
	entryRepo repository.EntryRepository
}

func NewReportService(entryRepo repository.EntryRepository) ReportService {
	return &reportService{entryRepo: entryRepo}
}

func (s *reportService) EntriesReport(filter repository.EntryFilter, actor Actor) ([]ReportRow, error) {
	if !rbac.Has(actor.Role, rbac.CapReportsViewAll) {
		// Non-admin roles see only what they inwarded themselves.
		if !rbac.Has(actor.Role, rbac.CapEntryView) {
			return nil, forbidden("role %s may not view reports", actor.Role)
		}
		filter.InwardedBy = actor.Email
	}

	entries, err := s.entryRepo.FindAll(filter)
	if err != nil {
		return nil, storeErr("fabric entries", err)
	}

	rows := make([]ReportRow, 0, len(entries))
	for _, e := range entries {
		row := ReportRow{
			EntryID:       e.ID.String(),
			SellerName:    e.SellerName,
			PONumber:      e.PONumber,
			QuantityValue: e.QuantityValue,
			QuantityUnit:  e.QuantityUnit,
			FabricType:    e.FabricType,
			Color:         e.Color,
			Status:        model.NormalizeStatus(e.Status),
			DateInwarded:  e.DateInwarded.Format("2006-01-02"),
			InwardedBy:    e.InwardedBy,
			RollCount:     len(e.Rolls),
		}
		if e.Quality != nil {
			row.CheckedBy = e.Quality.CheckedBy
		}
		for _, r := range e.Rolls {
			if r.Approval == nil {
				continue
			}
			row.DecidedRolls++
			if r.Approval.ApprovalStatus == model.ApprovalOnHold {
				row.HeldRolls++
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *reportService) ExportXLSX(filter repository.EntryFilter, actor Actor) ([]byte, error) {
	if !rbac.Has(actor.Role, rbac.CapReportsExport) {
		return nil, forbidden("role %s may not export reports", actor.Role)
	}

	rows, err := s.EntriesReport(filter, actor)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		"entry_id",
		"seller",
		"po_number",
		"quantity",
		"unit",
		"fabric_type",
		"color",
		"status",
		"date_inwarded",
		"inwarded_by",
		"checked_by",
		"rolls",
		"decided",
		"held",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, storeErr("report workbook", err)
	}

	rowNum := 2
	for _, r := range rows {
		cells := []interface{}{
			r.EntryID,
			r.SellerName,
			r.PONumber,
			r.QuantityValue,
			string(r.QuantityUnit),
			string(r.FabricType),
			r.Color,
			string(r.Status),
			r.DateInwarded,
			r.InwardedBy,
			r.CheckedBy,
			r.RollCount,
			r.DecidedRolls,
			r.HeldRolls,
		}
		cell := fmt.Sprintf("A%d", rowNum)
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, storeErr("report workbook", err)
		}
		rowNum++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, storeErr("report workbook", err)
	}
	return buf.Bytes(), nil
}
