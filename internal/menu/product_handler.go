package menu

import (
	"fmt"

	"masapos-backend/internal/apperr"
	"masapos-backend/internal/audit"
	"masapos-backend/internal/auth"
	"masapos-backend/internal/database"
	"masapos-backend/internal/models"
	"masapos-backend/internal/state"
	"masapos-backend/internal/stock"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

var validate = validator.New()

type RecipeItemRequest struct {
	IngredientID uint    `json:"ingredient_id" validate:"required"`
	Quantity     float64 `json:"quantity" validate:"required,gt=0"`
}

type CreateProductRequest struct {
	Name        string              `json:"name" validate:"required,min=2,max=100"`
	Price       float64             `json:"price" validate:"required,gt=0"`
	Category    string              `json:"category" validate:"max=50"`
	Description string              `json:"description" validate:"max=255"`
	Recipe      []RecipeItemRequest `json:"recipe" validate:"dive"`
}

type RecipeItemResponse struct {
	IngredientID   uint    `json:"ingredient_id"`
	IngredientName string  `json:"ingredient_name"`
	Unit           string  `json:"unit"`
	Quantity       float64 `json:"quantity"`
}

type ProductResponse struct {
	ID          uint                 `json:"id"`
	Name        string               `json:"name"`
	Price       float64              `json:"price"`
	Category    string               `json:"category"`
	Description string               `json:"description"`
	IsActive    bool                 `json:"is_active"`
	Stock       int                  `json:"stock"` // türetilmiş satılabilir adet
	Recipe      []RecipeItemResponse `json:"recipe"`
}

func toProductResponse(p models.Product, availability int) ProductResponse {
	var resp ProductResponse
	_ = copier.Copy(&resp, &p)
	resp.Stock = availability
	resp.Recipe = make([]RecipeItemResponse, 0, len(p.Recipe))
	for _, item := range p.Recipe {
		resp.Recipe = append(resp.Recipe, RecipeItemResponse{
			IngredientID:   item.IngredientID,
			IngredientName: item.Ingredient.Name,
			Unit:           string(item.Ingredient.Unit),
			Quantity:       item.Quantity,
		})
	}
	return resp
}

// POST /api/admin/products
func CreateProductHandler(store *state.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün bilgileri geçersiz: "+err.Error())
		}

		product := models.Product{
			Name:        body.Name,
			Price:       body.Price,
			Category:    body.Category,
			Description: body.Description,
			IsActive:    true,
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&product).Error; err != nil {
				return err
			}
			for _, line := range body.Recipe {
				var ing models.Ingredient
				if err := tx.First(&ing, "id = ?", line.IngredientID).Error; err != nil {
					return apperr.New(apperr.KindValidation,
						fmt.Sprintf("Tarifteki malzeme bulunamadı (ID: %d)", line.IngredientID))
				}
				item := models.RecipeItem{
					ProductID:    product.ID,
					IngredientID: line.IngredientID,
					Quantity:     line.Quantity,
				}
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
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
			EntityType:  "product",
			EntityID:    product.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Ürün eklendi: %s (%.2f TL)", product.Name, product.Price),
			After:       product,
		})

		go stock.Refresh(store)

		database.DB.Preload("Recipe.Ingredient").First(&product, product.ID)
		avail, _ := store.Availability(product.ID)
		return c.Status(fiber.StatusCreated).JSON(toProductResponse(product, avail))
	}
}

// GET /api/products
// Aktif ürünler, ayna üzerindeki türetilmiş stok (satılabilir adet) ile.
func ListProductsHandler(store *state.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Preload("Recipe.Ingredient").Order("category ASC, name ASC")

		// include_archived=true ile arşivlenmiş ürünler de gelir (admin ekranı)
		if c.Query("include_archived") != "true" {
			query = query.Where("is_active = ?", true)
		}

		var products []models.Product
		if err := query.Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}

		availability := store.AllAvailability()
		resp := make([]ProductResponse, 0, len(products))
		for _, p := range products {
			resp = append(resp, toProductResponse(p, availability[p.ID]))
		}
		return c.JSON(resp)
	}
}

// PUT /api/admin/products/:id
// Ürün ve tarif güncelleme; tarif komple değiştirilir.
func UpdateProductHandler(store *state.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var product models.Product
		if err := database.DB.First(&product, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün bilgileri geçersiz: "+err.Error())
		}

		before := product

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			product.Name = body.Name
			product.Price = body.Price
			product.Category = body.Category
			product.Description = body.Description
			if err := tx.Save(&product).Error; err != nil {
				return err
			}
			if err := tx.Where("product_id = ?", product.ID).Delete(&models.RecipeItem{}).Error; err != nil {
				return err
			}
			for _, line := range body.Recipe {
				item := models.RecipeItem{
					ProductID:    product.ID,
					IngredientID: line.IngredientID,
					Quantity:     line.Quantity,
				}
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
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
			EntityType:  "product",
			EntityID:    product.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Ürün güncellendi: %s", product.Name),
			Before:      before,
			After:       product,
		})

		go stock.Refresh(store)

		database.DB.Preload("Recipe.Ingredient").First(&product, product.ID)
		avail, _ := store.Availability(product.ID)
		return c.JSON(toProductResponse(product, avail))
	}
}

// DELETE /api/admin/products/:id
// Geçmiş siparişlerde referansı olan ürün soft-delete edilir (is_active=false),
// hiç sipariş görmemiş ürün tarifiyle birlikte tamamen silinir.
func DeleteProductHandler(store *state.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var product models.Product
		if err := database.DB.First(&product, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		var orderRefs int64
		database.DB.Model(&models.OrderItem{}).Where("product_id = ?", product.ID).Count(&orderRefs)

		userID, userName, _ := auth.CurrentUser(c)

		if orderRefs > 0 {
			if err := database.DB.Model(&product).Update("is_active", false).Error; err != nil {
				return apperr.ToFiber(err)
			}
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "product",
				EntityID:    product.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Ürün arşivlendi: %s (%d sipariş referansı var)", product.Name, orderRefs),
				Before:      product,
			})
			go stock.Refresh(store)
			return c.JSON(fiber.Map{"message": "Ürün arşivlendi (geçmiş siparişlerde kullanılıyor)"})
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("product_id = ?", product.ID).Delete(&models.RecipeItem{}).Error; err != nil {
				return err
			}
			return tx.Delete(&product).Error
		})
		if err != nil {
			return apperr.ToFiber(err)
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "product",
			EntityID:    product.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Ürün silindi: %s", product.Name),
			Before:      product,
		})

		go stock.Refresh(store)
		return c.JSON(fiber.Map{"message": "Ürün silindi"})
	}
}

// GET /api/product-ingredients
// Tarif satırlarının düz listesi (ürün bazlı filtrelenebilir).
func ListProductIngredientsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Preload("Ingredient")
		if pid := c.Query("product_id"); pid != "" {
			query = query.Where("product_id = ?", pid)
		}

		var items []models.RecipeItem
		if err := query.Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tarifler listelenemedi")
		}

		type row struct {
			ProductID      uint    `json:"product_id"`
			IngredientID   uint    `json:"ingredient_id"`
			IngredientName string  `json:"ingredient_name"`
			Unit           string  `json:"unit"`
			Quantity       float64 `json:"quantity"`
		}
		resp := make([]row, 0, len(items))
		for _, item := range items {
			resp = append(resp, row{
				ProductID:      item.ProductID,
				IngredientID:   item.IngredientID,
				IngredientName: item.Ingredient.Name,
				Unit:           string(item.Ingredient.Unit),
				Quantity:       item.Quantity,
			})
		}
		return c.JSON(resp)
	}
}
