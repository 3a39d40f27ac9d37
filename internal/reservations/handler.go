package reservations

import (
	"context"
	"fmt"
	"time"

	"masapos-backend/internal/apperr"
	"masapos-backend/internal/audit"
	"masapos-backend/internal/auth"
	"masapos-backend/internal/cache"
	"masapos-backend/internal/database"
	"masapos-backend/internal/models"
	"masapos-backend/internal/tables"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var validate = validator.New()

type ReservationRequest struct {
	TableID         string `json:"table_id" validate:"required"` // id veya masa numarası
	CustomerName    string `json:"customer_name" validate:"required,min=2,max=100"`
	Phone           string `json:"phone" validate:"max=30"`
	Email           string `json:"email" validate:"omitempty,email"`
	Date            string `json:"date" validate:"required"`
	Time            string `json:"time" validate:"required"`
	PersonCount     int    `json:"person_count" validate:"gt=0"`
	SpecialRequests string `json:"special_requests" validate:"max=500"`
	Special         bool   `json:"special"`
}

// refreshReservationCache: rezervasyon listesinin önbellek kopyasını tazeler.
func refreshReservationCache() {
	var all []models.Reservation
	if err := database.DB.Where("is_completed = ?", false).Find(&all).Error; err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	cache.PutJSON(ctx, cache.KeyReservations, all)
}

// POST /api/reservations
func CreateReservationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ReservationRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Rezervasyon bilgileri geçersiz: "+err.Error())
		}

		date, err := NormalizeDate(body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih biçimi tanınamadı (YYYY-MM-DD, DD.MM.YYYY veya DD/MM/YYYY olmalı)")
		}
		tm, err := NormalizeTime(body.Time)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Saat biçimi tanınamadı (HH:mm olmalı)")
		}

		table, err := tables.FindTable(body.TableID)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Masa bulunamadı")
		}

		res := models.Reservation{
			TableID:         table.ID,
			CustomerName:    body.CustomerName,
			Phone:           body.Phone,
			Email:           body.Email,
			Date:            date,
			Time:            tm,
			PersonCount:     body.PersonCount,
			SpecialRequests: body.SpecialRequests,
			Special:         body.Special,
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&res).Error; err != nil {
				return err
			}
			// Dolu masa rezerve edilmez; boş masa rezerve işaretlenir
			if table.Status == models.TableAvailable {
				return tx.Model(&models.DiningTable{}).
					Where("id = ?", table.ID).
					Update("status", models.TableReserved).Error
			}
			return nil
		})
		if err != nil {
			return apperr.ToFiber(err)
		}

		userID, userName, _ := auth.CurrentUser(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "reservation",
			EntityID:    res.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Rezervasyon: masa %d, %s %s (%s)", table.TableNumber, date, tm, body.CustomerName),
			After:       res,
		})

		go refreshReservationCache()

		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// GET /api/reservations
func ListReservationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Preload("Table").Order("date ASC, time ASC")

		if c.Query("include_completed") != "true" {
			query = query.Where("is_completed = ?", false)
		}
		if date := c.Query("date"); date != "" {
			if normalized, err := NormalizeDate(date); err == nil {
				query = query.Where("date = ?", normalized)
			}
		}

		var list []models.Reservation
		if err := query.Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Rezervasyonlar listelenemedi")
		}
		return c.JSON(list)
	}
}

// PUT /api/reservations/:id
func UpdateReservationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var res models.Reservation
		if err := database.DB.First(&res, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Rezervasyon bulunamadı")
		}

		var body ReservationRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		before := res

		if body.Date != "" {
			date, err := NormalizeDate(body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Tarih biçimi tanınamadı")
			}
			res.Date = date
		}
		if body.Time != "" {
			tm, err := NormalizeTime(body.Time)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Saat biçimi tanınamadı")
			}
			res.Time = tm
		}
		if body.CustomerName != "" {
			res.CustomerName = body.CustomerName
		}
		if body.Phone != "" {
			res.Phone = body.Phone
		}
		if body.Email != "" {
			res.Email = body.Email
		}
		if body.PersonCount > 0 {
			res.PersonCount = body.PersonCount
		}
		if body.SpecialRequests != "" {
			res.SpecialRequests = body.SpecialRequests
		}
		res.Special = body.Special

		if err := database.DB.Save(&res).Error; err != nil {
			return apperr.ToFiber(err)
		}

		userID, userName, _ := auth.CurrentUser(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "reservation",
			EntityID:    res.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Rezervasyon güncellendi: #%d", res.ID),
			Before:      before,
			After:       res,
		})

		go refreshReservationCache()

		return c.JSON(res)
	}
}

// DELETE /api/reservations/:id
// Silme iyimserdir: masa aynı transaction'da boşaltılır; bir sonraki tam
// senkron zaten yetkili durumu getirir.
func DeleteReservationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var res models.Reservation
		if err := database.DB.First(&res, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Rezervasyon bulunamadı")
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&res).Error; err != nil {
				return err
			}

			// Masada başka aktif rezervasyon yoksa masayı boşalt
			var remaining int64
			tx.Model(&models.Reservation{}).
				Where("table_id = ? AND is_completed = ?", res.TableID, false).
				Count(&remaining)
			if remaining == 0 {
				return tx.Model(&models.DiningTable{}).
					Where("id = ? AND status = ?", res.TableID, models.TableReserved).
					Update("status", models.TableAvailable).Error
			}
			return nil
		})
		if err != nil {
			return apperr.ToFiber(err)
		}

		userID, userName, _ := auth.CurrentUser(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "reservation",
			EntityID:    res.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Rezervasyon silindi: #%d (%s)", res.ID, res.CustomerName),
			Before:      res,
		})

		go refreshReservationCache()

		return c.JSON(fiber.Map{"message": "Rezervasyon silindi"})
	}
}

// POST /api/reservations/:tableId/complete-active
// Masanın aktif rezervasyonlarını tamamlanmış işaretler. Sipariş açıldığında
// rezervasyonun otomatik düşmesi de bu yolu kullanır.
func CompleteActiveHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		table, err := tables.FindTable(c.Params("tableId"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Masa bulunamadı")
		}

		result := database.DB.Model(&models.Reservation{}).
			Where("table_id = ? AND is_completed = ?", table.ID, false).
			Update("is_completed", true)
		if result.Error != nil {
			return apperr.ToFiber(result.Error)
		}

		go refreshReservationCache()

		return c.JSON(fiber.Map{"completed": result.RowsAffected})
	}
}

// CompleteActiveForTable: sipariş akışından çağrılan yardımcı; masayı
// kapsayan aktif rezervasyonları tamamlar. Hata best-effort yutulur.
func CompleteActiveForTable(tableID uint) {
	database.DB.Model(&models.Reservation{}).
		Where("table_id = ? AND is_completed = ?", tableID, false).
		Update("is_completed", true)
	go refreshReservationCache()
}
