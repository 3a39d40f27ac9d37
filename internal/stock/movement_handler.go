package stock

import (
	"fmt"
	"time"

	"masapos-backend/internal/apperr"
	"masapos-backend/internal/audit"
	"masapos-backend/internal/auth"
	"masapos-backend/internal/database"
	"masapos-backend/internal/models"
	"masapos-backend/internal/state"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateMovementRequest struct {
	IngredientID uint    `json:"ingredient_id" validate:"required"`
	Change       float64 `json:"change" validate:"required"`
	Reason       string  `json:"reason" validate:"required,oneof=PURCHASE WASTE ADJUSTMENT RETURN"`
	Note         string  `json:"note" validate:"max=255"`
}

type MovementResponse struct {
	ID             uint    `json:"id"`
	IngredientID   uint    `json:"ingredient_id"`
	IngredientName string  `json:"ingredient_name"`
	Change         float64 `json:"change"`
	Reason         string  `json:"reason"`
	Note           string  `json:"note"`
	CreatedAt      string  `json:"created_at"`
}

// ApplyMovement: hareketi kaydeder ve malzeme stoğunu aynı transaction
// içinde günceller. Stok miktarına dokunan tek yazma yolu budur.
func ApplyMovement(tx *gorm.DB, m *models.StockMovement) error {
	var ing models.Ingredient
	if err := tx.First(&ing, "id = ?", m.IngredientID).Error; err != nil {
		return apperr.Wrap(apperr.KindNotFound, "Malzeme bulunamadı", err)
	}

	newQty := ing.StockQuantity + m.Change
	if newQty < 0 {
		return apperr.New(apperr.KindValidation,
			fmt.Sprintf("Stok eksiye düşemez: %s (mevcut %.2f, değişim %.2f)", ing.Name, ing.StockQuantity, m.Change))
	}

	if err := tx.Create(m).Error; err != nil {
		return err
	}
	return tx.Model(&models.Ingredient{}).Where("id = ?", ing.ID).
		Update("stock_quantity", newQty).Error
}

// POST /api/stock-movements
func CreateMovementHandler(store *state.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateMovementRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Hareket bilgileri geçersiz: "+err.Error())
		}

		reason := models.MovementReason(body.Reason)

		// Yön kontrolü: alış ve iade giriştir, zayiat çıkıştır
		switch reason {
		case models.MovementPurchase, models.MovementReturn:
			if body.Change <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "PURCHASE/RETURN hareketi pozitif olmalı")
			}
		case models.MovementWaste:
			if body.Change >= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "WASTE hareketi negatif olmalı")
			}
		}

		userID, userName, _ := auth.CurrentUser(c)

		movement := models.StockMovement{
			IngredientID: body.IngredientID,
			Change:       body.Change,
			Reason:       reason,
			Note:         body.Note,
			CreatedBy:    userID,
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			return ApplyMovement(tx, &movement)
		})
		if err != nil {
			return apperr.ToFiber(err)
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "stock_movement",
			EntityID:    movement.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Stok hareketi: %s %.2f (malzeme #%d)", reason, body.Change, body.IngredientID),
			After:       movement,
		})

		// Stok değişti, satılabilirlik aynasını tazele
		go Refresh(store)

		return c.Status(fiber.StatusCreated).JSON(movement)
	}
}

// GET /api/stock-movements
func ListMovementsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Preload("Ingredient").Order("created_at DESC")

		if ingID := c.Query("ingredient_id"); ingID != "" {
			query = query.Where("ingredient_id = ?", ingID)
		}
		if reason := c.Query("reason"); reason != "" {
			query = query.Where("reason = ?", reason)
		}
		if from := c.Query("date_from"); from != "" {
			if d, err := time.Parse("2006-01-02", from); err == nil {
				query = query.Where("created_at >= ?", d)
			}
		}
		if to := c.Query("date_to"); to != "" {
			if d, err := time.Parse("2006-01-02", to); err == nil {
				// Tarih sonuna kadar (23:59:59)
				d = d.Add(24*time.Hour - time.Second)
				query = query.Where("created_at <= ?", d)
			}
		}

		var movements []models.StockMovement
		if err := query.Limit(500).Find(&movements).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok hareketleri listelenemedi")
		}

		resp := make([]MovementResponse, 0, len(movements))
		for _, m := range movements {
			resp = append(resp, MovementResponse{
				ID:             m.ID,
				IngredientID:   m.IngredientID,
				IngredientName: m.Ingredient.Name,
				Change:         m.Change,
				Reason:         string(m.Reason),
				Note:           m.Note,
				CreatedAt:      m.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		return c.JSON(resp)
	}
}

// GET /api/products/available-quantities
// Yetkili satılabilirlik rakamları: veritabanından taze hesaplanır ve ayna
// bu rakamlarla ezilir (UI'daki hedefli yenileme yolu).
func AvailableQuantitiesHandler(store *state.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		avail, err := AvailableQuantities()
		if err != nil {
			return apperr.ToFiber(err)
		}

		snap, err := BuildSnapshot()
		if err == nil {
			store.Reconcile(snap)
		}

		return c.JSON(avail)
	}
}
