package tables

import (
	"time"

	"masapos-backend/internal/apperr"
	"masapos-backend/internal/database"
	"masapos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateTableRequest struct {
	TableNumber int  `json:"table_number"`
	Capacity    int  `json:"capacity"`
	SalonID     uint `json:"salon_id"`
}

type TableResponse struct {
	ID            uint          `json:"id"`
	TableNumber   int           `json:"table_number"`
	Capacity      int           `json:"capacity"`
	SalonID       uint          `json:"salon_id"`
	SalonName     string        `json:"salon_name"`
	Status        string        `json:"status"`         // backend ham durumu
	DisplayStatus DisplayStatus `json:"display_status"` // rezervasyon zamanına göre açılmış durum
}

// POST /api/admin/dining-tables
func CreateTableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateTableRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.TableNumber <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "table_number pozitif olmalı")
		}
		if body.Capacity <= 0 {
			body.Capacity = 4
		}

		var salon models.Salon
		if err := database.DB.First(&salon, "id = ?", body.SalonID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Salon bulunamadı")
		}

		table := models.DiningTable{
			TableNumber: body.TableNumber,
			Capacity:    body.Capacity,
			SalonID:     body.SalonID,
			Status:      models.TableAvailable,
		}
		if err := database.DB.Create(&table).Error; err != nil {
			return apperr.ToFiber(err)
		}

		return c.Status(fiber.StatusCreated).JSON(table)
	}
}

// GET /api/dining-tables
// Masa ızgarası: her masanın görünen durumu rezervasyon zamanına göre
// çözülür. Bayat rezervasyon tespit edilirse düzeltici güncelleme burada
// tetiklenir (kendini onaran durum).
func ListTablesHandler(loc *time.Location) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Preload("Salon").Order("table_number ASC")
		if salonID := c.Query("salon_id"); salonID != "" {
			query = query.Where("salon_id = ?", salonID)
		}

		var tableList []models.DiningTable
		if err := query.Find(&tableList).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Masalar listelenemedi")
		}

		now := time.Now().In(loc)
		resp := make([]TableResponse, 0, len(tableList))
		for _, t := range tableList {
			var res *models.Reservation
			if t.Status == models.TableReserved {
				res = ActiveReservation(t.ID)
			}

			display, needsCorrection := Resolve(t.Status, res, now, loc)
			if needsCorrection {
				// Süresi geçen rezervasyonlar kapatılır; masada geleceğe ait
				// başka rezervasyon varsa masa rezerve kalır ve görünen durum
				// ona göre yeniden çözülür.
				CorrectStaleTable(t.ID, now, loc)
				res = ActiveReservation(t.ID)
				if res != nil {
					t.Status = models.TableReserved
				} else {
					t.Status = models.TableAvailable
				}
				display, _ = Resolve(t.Status, res, now, loc)
			}

			resp = append(resp, TableResponse{
				ID:            t.ID,
				TableNumber:   t.TableNumber,
				Capacity:      t.Capacity,
				SalonID:       t.SalonID,
				SalonName:     t.Salon.Name,
				Status:        string(t.Status),
				DisplayStatus: display,
			})
		}
		return c.JSON(resp)
	}
}

// PUT /api/admin/dining-tables/:id
func UpdateTableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		table, err := FindTable(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Masa bulunamadı")
		}

		var body CreateTableRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.TableNumber > 0 {
			table.TableNumber = body.TableNumber
		}
		if body.Capacity > 0 {
			table.Capacity = body.Capacity
		}
		if body.SalonID != 0 {
			var salon models.Salon
			if err := database.DB.First(&salon, "id = ?", body.SalonID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Salon bulunamadı")
			}
			table.SalonID = body.SalonID
		}

		if err := database.DB.Save(table).Error; err != nil {
			return apperr.ToFiber(err)
		}
		return c.JSON(table)
	}
}

// DELETE /api/admin/dining-tables/:id
func DeleteTableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		table, err := FindTable(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Masa bulunamadı")
		}

		var openOrders int64
		database.DB.Model(&models.Order{}).
			Where("table_id = ? AND is_completed = ?", table.ID, false).
			Count(&openOrders)
		if openOrders > 0 {
			return fiber.NewError(fiber.StatusConflict, "Masada açık sipariş var, önce siparişi kapatın")
		}

		if err := database.DB.Delete(table).Error; err != nil {
			return apperr.ToFiber(err)
		}
		return c.JSON(fiber.Map{"message": "Masa silindi"})
	}
}
