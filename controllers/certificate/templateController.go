package certificateController

import (
	"lms/database"
	"lms/middleware"
	certModels "lms/models/certificate"

	"github.com/gofiber/fiber/v2"
)

// GetTemplates lists all certificate templates
func GetTemplates(c *fiber.Ctx) error {
	var templates []certModels.CertificateTemplate
	if err := database.Database.Db.Where("is_deleted = ?", false).
		Order("created_at desc").Find(&templates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch templates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Templates fetched successfully!", fiber.Map{
		"templates": templates,
	})
}

// GetTemplate returns a single template
func GetTemplate(c *fiber.Ctx) error {
	templateID := c.Locals("templateID").(int)

	var template certModels.CertificateTemplate
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", templateID, false).First(&template).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Template not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Template fetched successfully!", template)
}

// GetDefaultTemplate returns the template marked as default
func GetDefaultTemplate(c *fiber.Ctx) error {
	var template certModels.CertificateTemplate
	if err := database.Database.Db.Where("is_default = ? AND is_deleted = ?", true, false).First(&template).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No default template configured!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Default template fetched successfully!", template)
}

// AdminCreateTemplate creates a certificate template. Marking it default
// clears the previous default in the same transaction.
func AdminCreateTemplate(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedTemplate").(*certModels.CertificateTemplate)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	tx := database.Database.Db.Begin()

	if reqData.IsDefault {
		if err := tx.Model(&certModels.CertificateTemplate{}).
			Where("is_default = ? AND is_deleted = ?", true, false).
			Update("is_default", false).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create template!", nil)
		}
	}

	if err := tx.Create(reqData).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create template!", nil)
	}

	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Template created successfully!", reqData)
}

// AdminUpdateTemplate updates a certificate template
func AdminUpdateTemplate(c *fiber.Ctx) error {
	templateID := c.Locals("templateID").(int)

	var template certModels.CertificateTemplate
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", templateID, false).First(&template).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Template not found!", nil)
	}

	reqData, ok := c.Locals("validatedTemplate").(*certModels.CertificateTemplate)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	tx := database.Database.Db.Begin()

	if reqData.IsDefault && !template.IsDefault {
		if err := tx.Model(&certModels.CertificateTemplate{}).
			Where("is_default = ? AND is_deleted = ?", true, false).
			Update("is_default", false).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update template!", nil)
		}
	}

	template.Name = reqData.Name
	template.Description = reqData.Description
	template.HTMLBody = reqData.HTMLBody
	template.CSSText = reqData.CSSText
	template.BackgroundImageURL = reqData.BackgroundImageURL
	template.IsDefault = reqData.IsDefault

	if err := tx.Save(&template).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update template!", nil)
	}

	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Template updated successfully!", template)
}
