package service

import (
	"bytes"
	"errors"
	"testing"

	"go-fabric-ledger/internal/model"
	"go-fabric-ledger/internal/repository"

	"github.com/xuri/excelize/v2"
)

func seedDecidedEntry(f *fixture, hold bool) *model.FabricEntry {
	entry, rolls := f.store.seedEntry(model.StatusQualityChecked, 2, 10)
	svc := NewApprovalService(f.entryRepo, f.rollRepo, f.approvalRepo)
	if _, _, err := svc.DecideRoll(rolls[0].ID, model.Approve(), approver); err != nil {
		panic(err)
	}
	second := model.Approve()
	if hold {
		second = model.Hold(model.HoldMaterialDefective, "doc1")
	}
	if _, _, err := svc.DecideRoll(rolls[1].ID, second, approver); err != nil {
		panic(err)
	}
	return entry
}

func TestEntriesReport_CountsAndNormalizedStatus(t *testing.T) {
	f := newFixture()
	seedDecidedEntry(f, true)
	svc := NewReportService(f.entryRepo)

	rows, err := svc.EntriesReport(repository.EntryFilter{}, admin)
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row.RollCount != 2 || row.DecidedRolls != 2 || row.HeldRolls != 1 {
		t.Errorf("counts: got rolls=%d decided=%d held=%d", row.RollCount, row.DecidedRolls, row.HeldRolls)
	}
	if row.Status != model.StatusOnHold {
		t.Errorf("status: want ON_HOLD, got %s", row.Status)
	}
}

func TestEntriesReport_LegacyStatusNormalized(t *testing.T) {
	f := newFixture()
	f.store.seedEntry(model.StatusReadyToIssue, 1, 10)
	svc := NewReportService(f.entryRepo)

	rows, err := svc.EntriesReport(repository.EntryFilter{}, admin)
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Status != model.StatusApproved {
		t.Errorf("legacy READY_TO_ISSUE must report as APPROVED, got %s", rows[0].Status)
	}
}

func TestEntriesReport_NonAdminSeesOwnOnly(t *testing.T) {
	f := newFixture()
	f.store.seedEntry(model.StatusPendingQuality, 1, 10) // inwarded by clerk@example.com
	svc := NewReportService(f.entryRepo)

	rows, err := svc.EntriesReport(repository.EntryFilter{}, clerk)
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("owning clerk: expected 1 row, got %d", len(rows))
	}

	other := Actor{ID: "u9", Email: "other-clerk@example.com", Role: model.RoleInwardClerk}
	rows, err = svc.EntriesReport(repository.EntryFilter{}, other)
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("foreign clerk: expected 0 rows, got %d", len(rows))
	}
}

func TestExportXLSX(t *testing.T) {
	f := newFixture()
	seedDecidedEntry(f, false)
	svc := NewReportService(f.entryRepo)

	if _, err := svc.ExportXLSX(repository.EntryFilter{}, approver); !errors.Is(err, ErrForbidden) {
		t.Errorf("approver export: expected Forbidden, got %v", err)
	}

	data, err := svc.ExportXLSX(repository.EntryFilter{}, admin)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("export is not a readable workbook: %v", err)
	}
	defer func() { _ = wb.Close() }()

	sheet := wb.GetSheetName(wb.GetActiveSheetIndex())
	rows, err := wb.GetRows(sheet)
	if err != nil {
		t.Fatalf("reading rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 data row, got %d rows", len(rows))
	}
	if rows[0][0] != "entry_id" || rows[0][7] != "status" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][7] != string(model.StatusApproved) {
		t.Errorf("status cell: want APPROVED, got %q", rows[1][7])
	}
}
