package handler

import (
	"go-fabric-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type QualityHandler struct {
	service service.QualityService
}

func NewQualityHandler(s service.QualityService) *QualityHandler {
	return &QualityHandler{service: s}
}

func (h *QualityHandler) RecordQuality(c *fiber.Ctx) error {
	entryID, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid entry ID"})
	}

	var input service.QualityInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	record, err := h.service.RecordQuality(entryID, input, actorFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Quality parameters recorded", "data": record})
}

func (h *QualityHandler) GetQuality(c *fiber.Ctx) error {
	entryID, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid entry ID"})
	}

	record, err := h.service.GetQuality(entryID, actorFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(record)
}

func (h *QualityHandler) PendingQueue(c *fiber.Ctx) error {
	entries, err := h.service.PendingQueue(actorFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(entries)
}
