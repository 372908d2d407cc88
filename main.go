package main

import (
	"log"

	"lms/config"
	gamificationController "lms/controllers/gamification"
	"lms/database"
	authRoutes "lms/routers/authRoutes"
	certificateRoutes "lms/routers/certificateRoutes"
	courseRoutes "lms/routers/courseRoutes"
	gamificationRoutes "lms/routers/gamificationRoutes"
	webhookRoutes "lms/routers/webhookRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",                            // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization,X-Webhook-Signature", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve static files from the public folder
	app.Static("/", "./public")

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)
	certificateRoutes.SetupCertificateRoutes(app)
	certificateRoutes.SetupAdminCertificateRoutes(app)
	gamificationRoutes.SetupGamificationRoutes(app)
	gamificationRoutes.SetupAdminGamificationRoutes(app)
	webhookRoutes.SetupWebhookRoutes(app)

	gamificationController.StartScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
