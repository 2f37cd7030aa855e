package handlers

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/Esayas077/Backend/internal/apperr"
	"github.com/Esayas077/Backend/internal/models"
	"github.com/Esayas077/Backend/internal/services"
)

// DeliveryHandler handles delivery lifecycle requests.
type DeliveryHandler struct {
	deliveries *services.DeliveryService
}

// NewDeliveryHandler creates a new delivery handler
func NewDeliveryHandler(deliveries *services.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{deliveries: deliveries}
}

// CreateDelivery handles POST /create-delivery
func (h *DeliveryHandler) CreateDelivery(c *fiber.Ctx) error {
	var req models.DeliveryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.New(apperr.KindValidation, "Invalid request body")
	}

	delivery, driver, err := h.deliveries.CreateDelivery(&req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     fmt.Sprintf("Delivery created and assigned to driver %s", driver.Name),
		"delivery_id": delivery.ID,
		"driver":      driver,
	})
}

// AssignedDeliveries handles GET /assigned-deliveries/:driverId
func (h *DeliveryHandler) AssignedDeliveries(c *fiber.Ctx) error {
	driverID, err := parseID(c, "driverId")
	if err != nil {
		return err
	}

	deliveries, err := h.deliveries.ListAssigned(driverID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Deliveries assigned to driver ID %d", driverID),
		"data":    deliveries,
	})
}

// UpdateStatus handles PUT /update-delivery-status/:deliveryId
func (h *DeliveryHandler) UpdateStatus(c *fiber.Ctx) error {
	deliveryID, err := parseID(c, "deliveryId")
	if err != nil {
		return err
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return apperr.New(apperr.KindValidation, "Invalid request body")
	}

	if err := h.deliveries.UpdateStatus(deliveryID, body.Status); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":     fmt.Sprintf("Delivery status updated to %q and timeline recorded", body.Status),
		"delivery_id": deliveryID,
	})
}

// UploadProof handles POST /upload-proof/:deliveryId
func (h *DeliveryHandler) UploadProof(c *fiber.Ctx) error {
	deliveryID, err := parseID(c, "deliveryId")
	if err != nil {
		return err
	}

	header, err := c.FormFile("proof")
	if err != nil {
		return apperr.New(apperr.KindValidation, "No file uploaded")
	}

	file, err := header.Open()
	if err != nil {
		return apperr.Wrap(apperr.KindStorage, "Failed to save file", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return apperr.Wrap(apperr.KindStorage, "Failed to save file", err)
	}

	filename, err := h.deliveries.UploadProof(deliveryID, header.Filename, data)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":  "Delivery proof uploaded successfully",
		"file_url": "/uploads/" + filename,
	})
}

// History handles GET /delivery-history/:senderName
func (h *DeliveryHandler) History(c *fiber.Ctx) error {
	senderName := c.Params("senderName")

	deliveries, err := h.deliveries.History(senderName)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Delivery history for " + senderName,
		"data":    deliveries,
	})
}

// Detail handles GET /delivery-detail/:deliveryId
func (h *DeliveryHandler) Detail(c *fiber.Ctx) error {
	deliveryID, err := parseID(c, "deliveryId")
	if err != nil {
		return err
	}

	delivery, err := h.deliveries.Detail(deliveryID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Delivery detail for %d", deliveryID),
		"data":    delivery,
	})
}

// Timeline handles GET /delivery-status-timeline/:deliveryId
func (h *DeliveryHandler) Timeline(c *fiber.Ctx) error {
	deliveryID, err := parseID(c, "deliveryId")
	if err != nil {
		return err
	}

	timeline, err := h.deliveries.Timeline(deliveryID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":  fmt.Sprintf("Timeline for delivery ID %d", deliveryID),
		"timeline": timeline,
	})
}
