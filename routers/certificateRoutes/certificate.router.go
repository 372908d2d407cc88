package certificateRoutes

import (
	controllers "lms/controllers/certificate"
	"lms/middleware"
	validators "lms/validators/certificate"

	"github.com/gofiber/fiber/v2"
)

// SetupCertificateRoutes sets up certificate issuance, rendering and the
// public verification endpoint
func SetupCertificateRoutes(app *fiber.App) {
	certGroup := app.Group("/certificate")

	// Public verification by hash. Auth is optional; a logged-in verifier is
	// recorded on the audit row.
	certGroup.Get("/verify", middleware.OptionalJWTMiddleware, controllers.VerifyCertificate)

	certGroup.Get("/:id", middleware.JWTMiddleware, validators.CertificateID(), controllers.GetCertificate)
	certGroup.Get("/:id/render", middleware.JWTMiddleware, validators.CertificateID(), controllers.RenderCertificate)

	// Issuance request against a completed course
	courseGroup := app.Group("/course")
	courseGroup.Post("/:courseId/certificate/request", middleware.JWTMiddleware, validators.RequestCertificate(), controllers.RequestCertificate)

	userGroup := app.Group("/user")
	userGroup.Get("/certificates", middleware.JWTMiddleware, controllers.GetUserCertificates)

	// Templates (read side, any authenticated user)
	templateGroup := app.Group("/certificate-template", middleware.JWTMiddleware)
	templateGroup.Get("/list", controllers.GetTemplates)
	templateGroup.Get("/default", controllers.GetDefaultTemplate)
	templateGroup.Get("/:id", validators.TemplateID(), controllers.GetTemplate)
}

// SetupAdminCertificateRoutes sets up template management and the
// verification audit log
func SetupAdminCertificateRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/certificate", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"))

	adminGroup.Post("/template", validators.CreateTemplate(), controllers.AdminCreateTemplate)
	adminGroup.Put("/template/:id", validators.TemplateID(), validators.CreateTemplate(), controllers.AdminUpdateTemplate)
	adminGroup.Get("/verification/logs", controllers.AdminGetVerificationLogs)
}
