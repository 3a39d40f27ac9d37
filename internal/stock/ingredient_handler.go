package stock

import (
	"fmt"

	"masapos-backend/internal/apperr"
	"masapos-backend/internal/audit"
	"masapos-backend/internal/auth"
	"masapos-backend/internal/database"
	"masapos-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var validate = validator.New()

type CreateIngredientRequest struct {
	Name         string  `json:"name" validate:"required,min=2,max=100"`
	Unit         string  `json:"unit" validate:"required,oneof=KG ADET L"`
	InitialStock float64 `json:"initial_stock" validate:"gte=0"`
	MinStock     float64 `json:"min_stock" validate:"gte=0"`
}

type IngredientResponse struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	Unit          string  `json:"unit"`
	StockQuantity float64 `json:"stock_quantity"`
	MinStock      float64 `json:"min_stock"`
	BelowMinimum  bool    `json:"below_minimum"`
}

func toIngredientResponse(ing models.Ingredient) IngredientResponse {
	return IngredientResponse{
		ID:            ing.ID,
		Name:          ing.Name,
		Unit:          string(ing.Unit),
		StockQuantity: ing.StockQuantity,
		MinStock:      ing.MinStock,
		BelowMinimum:  ing.StockQuantity < ing.MinStock,
	}
}

// POST /api/stocks
// Yeni malzeme. Başlangıç stoğu varsa PURCHASE hareketi olarak kaydedilir,
// böylece hareket toplamı stokla eşit başlar.
func CreateIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateIngredientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Malzeme bilgileri geçersiz: "+err.Error())
		}

		userID, userName, _ := auth.CurrentUser(c)

		ing := models.Ingredient{
			Name:          body.Name,
			Unit:          models.IngredientUnit(body.Unit),
			StockQuantity: body.InitialStock,
			MinStock:      body.MinStock,
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&ing).Error; err != nil {
				return err
			}
			if body.InitialStock > 0 {
				movement := models.StockMovement{
					IngredientID: ing.ID,
					Change:       body.InitialStock,
					Reason:       models.MovementPurchase,
					Note:         "Açılış stoğu",
					CreatedBy:    userID,
				}
				if err := tx.Create(&movement).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return apperr.ToFiber(err)
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "ingredient",
			EntityID:    ing.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Malzeme eklendi: %s (%.2f %s)", ing.Name, ing.StockQuantity, ing.Unit),
			After:       ing,
		})

		return c.Status(fiber.StatusCreated).JSON(toIngredientResponse(ing))
	}
}

// GET /api/stocks
// Malzeme listesi. Router bu ucu admin rolüne kısıtlar; garson için 401/403
// dönmesi tasarım gereğidir, UI bunu "veri yok" olarak ele alır.
func ListIngredientsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var ingredients []models.Ingredient
		if err := database.DB.Order("name ASC").Find(&ingredients).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzemeler listelenemedi")
		}

		resp := make([]IngredientResponse, 0, len(ingredients))
		for _, ing := range ingredients {
			resp = append(resp, toIngredientResponse(ing))
		}
		return c.JSON(resp)
	}
}

type UpdateMinStockRequest struct {
	MinStock float64 `json:"min_stock" validate:"gte=0"`
}

// PUT /api/stocks/:id/min
// Minimum stok düzenlemesi: malzeme miktarına hareketsiz dokunulan tek alan.
func UpdateMinStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdateMinStockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "min_stock 0 veya daha büyük olmalı")
		}

		var ing models.Ingredient
		if err := database.DB.First(&ing, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Malzeme bulunamadı")
		}

		before := ing
		ing.MinStock = body.MinStock
		if err := database.DB.Model(&ing).Update("min_stock", body.MinStock).Error; err != nil {
			return apperr.ToFiber(err)
		}

		userID, userName, _ := auth.CurrentUser(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "ingredient",
			EntityID:    ing.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Minimum stok güncellendi: %s -> %.2f", ing.Name, body.MinStock),
			Before:      before,
			After:       ing,
		})

		return c.JSON(toIngredientResponse(ing))
	}
}

// DELETE /api/stocks/:id
// Malzeme silme. Aktif bir ürün tarifinde kullanılıyorsa reddedilir; önce
// malzemenin hareket kayıtları temizlenir, sonra malzeme silinir (tek tx).
func DeleteIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var ing models.Ingredient
		if err := database.DB.First(&ing, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Malzeme bulunamadı")
		}

		// Aktif tarif referansı ön kontrolü
		var refCount int64
		database.DB.Model(&models.RecipeItem{}).
			Joins("JOIN products ON products.id = recipe_items.product_id").
			Where("recipe_items.ingredient_id = ? AND products.is_active = ?", ing.ID, true).
			Count(&refCount)
		if refCount > 0 {
			return fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("Malzeme silinemez: %d aktif ürün tarifinde kullanılıyor", refCount))
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("ingredient_id = ?", ing.ID).Delete(&models.StockMovement{}).Error; err != nil {
				return err
			}
			return tx.Delete(&ing).Error
		})
		if err != nil {
			return apperr.ToFiber(err)
		}

		userID, userName, _ := auth.CurrentUser(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "ingredient",
			EntityID:    ing.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Malzeme silindi: %s", ing.Name),
			Before:      ing,
		})

		return c.JSON(fiber.Map{"message": "Malzeme silindi"})
	}
}
