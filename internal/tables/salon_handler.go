package tables

import (
	"masapos-backend/internal/apperr"
	"masapos-backend/internal/database"
	"masapos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateSalonRequest struct {
	Name string `json:"name"`
}

// POST /api/admin/salons
func CreateSalonHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSalonRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Salon adı zorunlu")
		}

		salon := models.Salon{Name: body.Name}
		if err := database.DB.Create(&salon).Error; err != nil {
			return apperr.ToFiber(err)
		}

		return c.Status(fiber.StatusCreated).JSON(salon)
	}
}

// GET /api/salons
func ListSalonsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var salons []models.Salon
		if err := database.DB.Preload("Tables").Order("name ASC").Find(&salons).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Salonlar listelenemedi")
		}
		return c.JSON(salons)
	}
}

// DELETE /api/admin/salons/:id
func DeleteSalonHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var salon models.Salon
		if err := database.DB.First(&salon, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Salon bulunamadı")
		}

		var tableCount int64
		database.DB.Model(&models.DiningTable{}).Where("salon_id = ?", salon.ID).Count(&tableCount)
		if tableCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "Salonda masalar var, önce masaları taşıyın veya silin")
		}

		if err := database.DB.Delete(&salon).Error; err != nil {
			return apperr.ToFiber(err)
		}
		return c.JSON(fiber.Map{"message": "Salon silindi"})
	}
}
