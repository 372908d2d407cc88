package webhookRoutes

import (
	controllers "lms/controllers/webhook"

	"github.com/gofiber/fiber/v2"
)

// SetupWebhookRoutes sets up the inbound provider webhooks. No JWT here;
// deliveries are authenticated by HMAC signature.
func SetupWebhookRoutes(app *fiber.App) {
	webhookGroup := app.Group("/webhook")

	webhookGroup.Post("/payment", controllers.PaymentWebhook)
	webhookGroup.Post("/enrollment", controllers.EnrollmentWebhook)
}
