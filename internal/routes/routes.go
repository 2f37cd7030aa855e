package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Esayas077/Backend/internal/handlers"
	"github.com/Esayas077/Backend/internal/middleware"
	"github.com/Esayas077/Backend/internal/services"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, auth *services.AuthService, deliveries *services.DeliveryService,
	reporting *services.ReportingService, tokens *services.TokenService) {

	authHandler := handlers.NewAuthHandler(auth)
	deliveryHandler := handlers.NewDeliveryHandler(deliveries)
	reportingHandler := handlers.NewReportingHandler(reporting)

	// Bearer tokens are parsed into locals when present but gate nothing.
	app.Use(middleware.SessionClaims(tokens))

	// Account routes
	app.Post("/register", authHandler.Register)
	app.Post("/login", authHandler.Login)
	app.Put("/user/:id", authHandler.UpdateUser)
	app.Delete("/user/:id", authHandler.DeleteUser)
	app.Post("/forgot-password", authHandler.ForgotPassword)
	app.Post("/reset-password", authHandler.ResetPassword)

	// Delivery lifecycle routes
	app.Post("/create-delivery", deliveryHandler.CreateDelivery)
	app.Get("/assigned-deliveries/:driverId", deliveryHandler.AssignedDeliveries)
	app.Put("/update-delivery-status/:deliveryId", deliveryHandler.UpdateStatus)
	app.Post("/upload-proof/:deliveryId", deliveryHandler.UploadProof)
	app.Get("/delivery-history/:senderName", deliveryHandler.History)
	app.Get("/delivery-detail/:deliveryId", deliveryHandler.Detail)
	app.Get("/delivery-status-timeline/:deliveryId", deliveryHandler.Timeline)

	// Reporting routes
	app.Get("/dashboard-summary", reportingHandler.DashboardSummary)
	app.Get("/staff-dashboard/:userId", reportingHandler.StaffDashboard)
}
