package handlers

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/dto"
	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	report, err := h.reportService.Submit(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err, "Failed to create report")
	}

	return c.JSON(report)
}

// List serves GET /api/reports with an optional status or email filter.
func (h *ReportHandler) List(c *fiber.Ctx) error {
	filter := dto.ReportFilter{
		Status: c.Query("status"),
		Email:  c.Query("email"),
	}

	reports, err := h.reportService.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err, "Failed to fetch reports")
	}

	return c.JSON(reports)
}

func (h *ReportHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid report ID",
		})
	}

	report, err := h.reportService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "Failed to fetch report")
	}

	return c.JSON(report)
}

func (h *ReportHandler) GetByCode(c *fiber.Ctx) error {
	report, err := h.reportService.GetByCode(c.UserContext(), c.Params("code"))
	if err != nil {
		return respondError(c, err, "Failed to fetch report")
	}

	return c.JSON(report)
}

func (h *ReportHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid report ID",
		})
	}

	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	report, err := h.reportService.UpdateStatus(c.UserContext(), id, &req)
	if err != nil {
		return respondError(c, err, "Failed to update report status")
	}

	slog.Info("report status changed by admin",
		"report_id", report.ID.String(),
		"status", string(report.Status),
		"admin", middleware.GetUsername(c),
		"request_id", requestID(c),
	)
	return c.JSON(report)
}

func (h *ReportHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.reportService.Stats(c.UserContext())
	if err != nil {
		return respondError(c, err, "Failed to fetch stats")
	}

	return c.JSON(stats)
}
