package audit

import (
	"strconv"

	"masapos-backend/internal/database"
	"masapos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/audit-logs
// Son işlem kayıtları (yalnızca admin görür)
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := 100
		if l := c.Query("limit"); l != "" {
			if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
				limit = n
			}
		}

		query := database.DB.Order("created_at DESC").Limit(limit)

		if et := c.Query("entity_type"); et != "" {
			query = query.Where("entity_type = ?", et)
		}

		var logs []models.AuditLog
		if err := query.Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Audit logları listelenemedi")
		}

		return c.JSON(logs)
	}
}
