package handler

import (
	"time"

	"go-fabric-ledger/internal/model"
	"go-fabric-ledger/internal/repository"
	"go-fabric-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

func reportFilter(c *fiber.Ctx) repository.EntryFilter {
	return repository.EntryFilter{
		Status:     model.FabricStatus(c.Query("status")),
		SellerName: c.Query("seller"),
		PONumber:   c.Query("po_number"),
	}
}

func (h *ReportHandler) EntriesReport(c *fiber.Ctx) error {
	rows, err := h.service.EntriesReport(reportFilter(c), actorFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(rows)
}

func (h *ReportHandler) ExportEntries(c *fiber.Ctx) error {
	data, err := h.service.ExportXLSX(reportFilter(c), actorFrom(c))
	if err != nil {
		return writeError(c, err)
	}

	filename := "fabric-entries-" + time.Now().Format("2006-01-02") + ".xlsx"
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
