package handler

import (
	"errors"

	"go-fabric-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// actorFrom rebuilds the acting identity from the context values set by
// RequireAuth. Every service call receives it explicitly.
func actorFrom(c *fiber.Ctx) service.Actor {
	actor := service.Actor{}
	if v, ok := c.Locals("user_id").(string); ok {
		actor.ID = v
	}
	if v, ok := c.Locals("user_email").(string); ok {
		actor.Email = v
	}
	if v, ok := c.Locals("user_name").(string); ok {
		actor.Name = v
	}
	if v, ok := c.Locals("user_role").(string); ok {
		actor.Role = v
	}
	return actor
}

func parseUUID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(param))
}

var kindStatus = map[service.ErrorKind]int{
	service.KindForbidden:      fiber.StatusForbidden,
	service.KindNotFound:       fiber.StatusNotFound,
	service.KindInvalidState:   fiber.StatusConflict,
	service.KindAlreadyDecided: fiber.StatusConflict,
	service.KindAlreadyChecked: fiber.StatusConflict,
	service.KindValidation:     fiber.StatusUnprocessableEntity,
	service.KindStore:          fiber.StatusInternalServerError,
}

// writeError maps a workflow error onto an HTTP status and a structured body
// carrying kind + offending field, so the UI can highlight the exact problem.
func writeError(c *fiber.Ctx, err error) error {
	var w *service.WorkflowError
	if errors.As(err, &w) {
		status, ok := kindStatus[w.Kind]
		if !ok {
			status = fiber.StatusInternalServerError
		}
		return c.Status(status).JSON(fiber.Map{"error": w})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fiber.Map{
		"kind":    service.KindStore,
		"message": err.Error(),
	}})
}
