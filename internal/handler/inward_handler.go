package handler

import (
	"go-fabric-ledger/internal/model"
	"go-fabric-ledger/internal/repository"
	"go-fabric-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InwardHandler struct {
	service service.IntakeService
}

func NewInwardHandler(s service.IntakeService) *InwardHandler {
	return &InwardHandler{service: s}
}

func (h *InwardHandler) CreateEntry(c *fiber.Ctx) error {
	var input service.IntakeInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	entry, err := h.service.CreateEntry(input, actorFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Entry created", "data": entry})
}

func (h *InwardHandler) GetEntries(c *fiber.Ctx) error {
	filter := repository.EntryFilter{
		Status:     model.FabricStatus(c.Query("status")),
		SellerName: c.Query("seller"),
		PONumber:   c.Query("po_number"),
	}

	entries, err := h.service.ListEntries(filter, actorFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(entries)
}

func (h *InwardHandler) GetEntry(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid entry ID"})
	}

	entry, err := h.service.GetEntry(id, actorFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(entry)
}

func (h *InwardHandler) UpdateEntry(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid entry ID"})
	}

	var input service.IntakeInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	entry, err := h.service.UpdateEntry(id, input, actorFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Entry updated", "data": entry})
}

func (h *InwardHandler) DeleteEntry(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid entry ID"})
	}

	if err := h.service.DeleteEntry(id, actorFrom(c)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Entry deleted"})
}

type attachDocumentRequest struct {
	DocumentURL string `json:"ftp_document_url"`
}

func (h *InwardHandler) AttachDocument(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid entry ID"})
	}

	var req attachDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.AttachDocument(id, req.DocumentURL, actorFrom(c)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Document attached"})
}
