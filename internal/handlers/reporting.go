package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Esayas077/Backend/internal/services"
)

// ReportingHandler handles the dashboard aggregation requests.
type ReportingHandler struct {
	reporting *services.ReportingService
}

// NewReportingHandler creates a new reporting handler
func NewReportingHandler(reporting *services.ReportingService) *ReportingHandler {
	return &ReportingHandler{reporting: reporting}
}

// DashboardSummary handles GET /dashboard-summary
func (h *ReportingHandler) DashboardSummary(c *fiber.Ctx) error {
	summary, err := h.reporting.DashboardSummary()
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Dashboard summary fetched successfully",
		"summary": summary,
	})
}

// StaffDashboard handles GET /staff-dashboard/:userId
func (h *ReportingHandler) StaffDashboard(c *fiber.Ctx) error {
	userID, err := parseID(c, "userId")
	if err != nil {
		return err
	}

	deliveries, err := h.reporting.StaffDashboard(userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "All deliveries fetched successfully.",
		"data":    deliveries,
	})
}
