package certificateValidator

import (
	"strconv"
	"strings"

	"lms/middleware"
	certModels "lms/models/certificate"

	"github.com/gofiber/fiber/v2"
)

// CertificateID validates the :id route param and stores it in locals
func CertificateID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		certificateIDStr := strings.TrimSpace(c.Params("id"))
		if certificateIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Certificate ID is required!", nil)
		}

		certificateID, err := strconv.Atoi(certificateIDStr)
		if err != nil || certificateID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Certificate ID!", nil)
		}

		c.Locals("certificateID", certificateID)
		return c.Next()
	}
}

// TemplateID validates the :id route param and stores it in locals
func TemplateID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		templateIDStr := strings.TrimSpace(c.Params("id"))
		if templateIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Template ID is required!", nil)
		}

		templateID, err := strconv.Atoi(templateIDStr)
		if err != nil || templateID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Template ID!", nil)
		}

		c.Locals("templateID", templateID)
		return c.Next()
	}
}

// RequestCertificate validates the :courseId route param plus an optional
// template override in the body
func RequestCertificate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("courseId"))
		if courseIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}

		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}
		c.Locals("courseID", courseID)

		// Body is optional; when present it may name a template
		if len(c.Body()) > 0 {
			reqData := new(struct {
				TemplateID uint `json:"template_id"`
			})
			if err := c.BodyParser(reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
			if reqData.TemplateID > 0 {
				c.Locals("templateID", reqData.TemplateID)
			}
		}

		return c.Next()
	}
}

// CreateTemplate validates a certificate template body
func CreateTemplate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(certModels.CertificateTemplate)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Name = strings.TrimSpace(reqData.Name)

		if reqData.Name == "" {
			errors["name"] = "Name is required!"
		} else if len(reqData.Name) < 3 {
			errors["name"] = "Name must be at least 3 characters long!"
		}

		if strings.TrimSpace(reqData.HTMLBody) == "" {
			errors["html_body"] = "HTML body is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTemplate", reqData)
		return c.Next()
	}
}
