package handler

import (
	"go-fabric-ledger/internal/model"
	"go-fabric-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ApprovalHandler struct {
	service service.ApprovalService
}

func NewApprovalHandler(s service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{service: s}
}

type decideRollRequest struct {
	ApprovalStatus      model.ApprovalStatus `json:"approval_status"`
	HoldReason          *model.HoldReason    `json:"hold_reason,omitempty"`
	DebitNoteURL        string               `json:"debit_note_url,omitempty"`
	NotApprovedQuantity *float64             `json:"not_approved_quantity,omitempty"`
	Remarks             string               `json:"remarks,omitempty"`
}

func (h *ApprovalHandler) DecideRoll(c *fiber.Ctx) error {
	rollID, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid roll ID"})
	}

	var req decideRollRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	decision := model.Decision{
		Status:              req.ApprovalStatus,
		HoldReason:          req.HoldReason,
		EvidenceRef:         req.DebitNoteURL,
		NotApprovedQuantity: req.NotApprovedQuantity,
		Remarks:             req.Remarks,
	}

	approval, result, err := h.service.DecideRoll(rollID, decision, actorFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{
		"message":     "Roll decision recorded",
		"data":        approval,
		"aggregation": result,
	})
}

type attachEvidenceRequest struct {
	DebitNoteURL string `json:"debit_note_url"`
}

func (h *ApprovalHandler) AttachEvidence(c *fiber.Ctx) error {
	approvalID, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid approval ID"})
	}

	var req attachEvidenceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	approval, err := h.service.AttachEvidence(approvalID, req.DebitNoteURL, actorFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Evidence attached", "data": approval})
}

func (h *ApprovalHandler) ApprovalQueue(c *fiber.Ctx) error {
	entries, err := h.service.ApprovalQueue(actorFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(entries)
}

func (h *ApprovalHandler) GetEntryApprovals(c *fiber.Ctx) error {
	entryID, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid entry ID"})
	}

	approvals, err := h.service.GetEntryApprovals(entryID, actorFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(approvals)
}
