package orders

import (
	"context"
	"fmt"
	"log"
	"time"

	"masapos-backend/internal/apperr"
	"masapos-backend/internal/audit"
	"masapos-backend/internal/auth"
	"masapos-backend/internal/cache"
	"masapos-backend/internal/database"
	"masapos-backend/internal/metrics"
	"masapos-backend/internal/models"
	"masapos-backend/internal/state"
	"masapos-backend/internal/tables"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreatePaymentRequest struct {
	TableID string `json:"table_id"` // id veya masa numarası
	OrderID uint   `json:"order_id"` // table_id yerine doğrudan sipariş de verilebilir
}

// writePaymentRecord: ödeme kaydını verilen yazma fonksiyonuyla oluşturur.
// Yetkili rolde hata olduğu gibi döner. Garson için en iyi çaba: hata
// loglanır ve yutulur, sipariş kapanışı devam eder.
func writePaymentRecord(create func(*models.Payment) error, p *models.Payment, orderNumber string, isAdmin bool) error {
	err := create(p)
	if err == nil {
		return nil
	}
	if isAdmin {
		return err
	}
	log.Printf("Ödeme kaydı yazılamadı (garson, sipariş %s), kapanış devam ediyor: %v", orderNumber, err)
	return nil
}

// POST /api/payments
// Ödeme alır ve siparişi kapatır. Tutar sipariş toplamıdır; toplam yoksa
// kalemlerden hesaplanır. Garson rolü için ödeme kaydının yazılamaması
// işlemi durdurmaz: sipariş yine tamamlanır, masa boşaltılır.
func CreatePaymentHandler(store *state.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		var order models.Order
		if body.OrderID != 0 {
			if err := database.DB.Preload("Items").Preload("Table").First(&order, "id = ?", body.OrderID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
			}
		} else {
			if body.TableID == "" {
				return fiber.NewError(fiber.StatusBadRequest, "table_id veya order_id zorunlu")
			}
			table, err := tables.FindTable(body.TableID)
			if err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Masa bulunamadı")
			}
			err = database.DB.Preload("Items").Preload("Table").
				Where("table_id = ? AND is_completed = ?", table.ID, false).
				First(&order).Error
			if err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Masada açık sipariş yok")
			}
		}

		if order.IsCompleted {
			// Çift tıklama koruması: ikinci ödeme çağrısı zararsızca reddedilir
			return fiber.NewError(fiber.StatusConflict, "Sipariş zaten ödenmiş")
		}

		userID, userName, _ := auth.CurrentUser(c)
		amount := OrderAmount(&order)

		payment := models.Payment{
			Reference: uuid.NewString(),
			OrderID:   order.ID,
			Amount:    amount,
			CreatedBy: userID,
		}

		isAdmin := auth.IsAdmin(c)

		// Kapanış transaction'ı yalnızca sipariş tamamlama ve masa boşaltmayı
		// içerir. Yetkili rolde ödeme kaydı da aynı transaction'dadır ve hatası
		// her şeyi geri alır. Garson kaydı transaction dışında yazılır:
		// Postgres'te hatalı bir insert transaction'ı iptal ettiğinden en iyi
		// çaba yazımı transaction içinde yapılamaz.
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if isAdmin {
				err := writePaymentRecord(func(p *models.Payment) error {
					return tx.Create(p).Error
				}, &payment, order.Number, true)
				if err != nil {
					return err
				}
			}
			if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
				Update("is_completed", true).Error; err != nil {
				return err
			}
			return tx.Model(&models.DiningTable{}).Where("id = ?", order.TableID).
				Update("status", models.TableAvailable).Error
		})
		if err != nil {
			return apperr.ToFiber(err)
		}

		if !isAdmin {
			_ = writePaymentRecord(func(p *models.Payment) error {
				return database.DB.Create(p).Error
			}, &payment, order.Number, false)
		}

		// İyimser ayna: masa boşaldı
		store.ApplyOrderPaid(order.TableID)

		// Tamamlanan sipariş önbelleğe taşınır (completedOrders + orderHistory)
		order.IsCompleted = true
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			var completed []models.Order
			if err := database.DB.Preload("Items").
				Where("is_completed = ?", true).
				Order("updated_at DESC").Limit(200).
				Find(&completed).Error; err == nil {
				cache.PutJSON(ctx, cache.KeyCompletedOrders, completed)
			}
			cache.AppendJSON(ctx, cache.KeyOrderHistory, order)
		}()
		go refreshOrderCache()

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "payment",
			EntityID:    payment.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Ödeme alındı: %.2f TL (masa %d)", amount, order.Table.TableNumber),
			After:       payment,
		})
		metrics.PaymentsProcessed.Inc()

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"reference": payment.Reference,
			"order_id":  order.ID,
			"amount":    amount,
		})
	}
}

// GET /api/payments
func ListPaymentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Preload("Order").Order("created_at DESC")

		if from := c.Query("date_from"); from != "" {
			if d, err := time.Parse("2006-01-02", from); err == nil {
				query = query.Where("created_at >= ?", d)
			}
		}
		if to := c.Query("date_to"); to != "" {
			if d, err := time.Parse("2006-01-02", to); err == nil {
				d = d.Add(24*time.Hour - time.Second)
				query = query.Where("created_at <= ?", d)
			}
		}

		var payments []models.Payment
		if err := query.Limit(500).Find(&payments).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ödemeler listelenemedi")
		}
		return c.JSON(payments)
	}
}
