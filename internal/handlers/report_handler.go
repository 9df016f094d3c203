package handlers

import (
	"github.com/ahmetcoskunkizilkaya/buzzly-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/buzzly-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/buzzly-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Create handles POST /api/reports.
func (h *ReportHandler) Create(c *fiber.Ctx) error {
	actor, err := identity.GetActor(c)
	if err != nil {
		return writeError(c, err)
	}

	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := dto.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	report, err := h.reportService.Submit(c.UserContext(), actor.ID, &req)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.CreateReportResponse{ReportID: report.ID})
}

// List handles GET /api/reports?status=&limit=&offset=.
func (h *ReportHandler) List(c *fiber.Ctx) error {
	actor, err := identity.GetActor(c)
	if err != nil {
		return writeError(c, err)
	}

	resp, err := h.reportService.List(c.UserContext(), actor, dto.ListReportsRequest{
		Status: c.Query("status"),
		Limit:  c.QueryInt("limit", services.DefaultReportPageSize),
		Offset: c.QueryInt("offset", 0),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(resp)
}

// Get handles GET /api/reports/:id.
func (h *ReportHandler) Get(c *fiber.Ctx) error {
	actor, err := identity.GetActor(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.reportService.Authorize(actor, "get"); err != nil {
		return writeError(c, err)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid report id")
	}

	detail, err := h.reportService.Get(c.UserContext(), actor, id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(detail)
}

// Transition handles PATCH /api/reports/:id.
func (h *ReportHandler) Transition(c *fiber.Ctx) error {
	actor, err := identity.GetActor(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.reportService.Authorize(actor, "transition"); err != nil {
		return writeError(c, err)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid report id")
	}

	var req dto.TransitionReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := dto.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	report, err := h.reportService.Transition(c.UserContext(), actor, id, &req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(report)
}

// History handles GET /api/reports/:id/history.
func (h *ReportHandler) History(c *fiber.Ctx) error {
	actor, err := identity.GetActor(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.reportService.Authorize(actor, "history"); err != nil {
		return writeError(c, err)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid report id")
	}

	events, err := h.reportService.History(c.UserContext(), actor, id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{"events": events})
}

// Stats handles GET /api/reports/stats.
func (h *ReportHandler) Stats(c *fiber.Ctx) error {
	actor, err := identity.GetActor(c)
	if err != nil {
		return writeError(c, err)
	}

	stats, err := h.reportService.Stats(c.UserContext(), actor)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(stats)
}
