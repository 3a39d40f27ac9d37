package orders

import (
	"context"
	"fmt"
	"time"

	"masapos-backend/internal/apperr"
	"masapos-backend/internal/audit"
	"masapos-backend/internal/auth"
	"masapos-backend/internal/cache"
	"masapos-backend/internal/database"
	"masapos-backend/internal/metrics"
	"masapos-backend/internal/models"
	"masapos-backend/internal/reservations"
	"masapos-backend/internal/state"
	"masapos-backend/internal/stock"
	"masapos-backend/internal/tables"

	"github.com/gofiber/fiber/v2"
)

type UpsertOrderRequest struct {
	TableID string           `json:"table_id"` // id veya masa numarası
	Items   []OrderItemInput `json:"items"`
}

type OrderItemResponse struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Count     int     `json:"count"`
	Note      string  `json:"note"`
}

type OrderResponse struct {
	ID          uint                `json:"id"`
	Number      string              `json:"number"`
	TableID     uint                `json:"table_id"`
	TableNumber int                 `json:"table_number"`
	IsCompleted bool                `json:"is_completed"`
	TotalPrice  float64             `json:"total_price"`
	CreatedAt   string              `json:"created_at"`
	Items       []OrderItemResponse `json:"items"`
}

func toOrderResponse(o models.Order) OrderResponse {
	resp := OrderResponse{
		ID:          o.ID,
		Number:      o.Number,
		TableID:     o.TableID,
		TableNumber: o.Table.TableNumber,
		IsCompleted: o.IsCompleted,
		TotalPrice:  o.TotalPrice,
		CreatedAt:   o.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	resp.Items = make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Count:     item.Count,
			Note:      item.Note,
		})
	}
	return resp
}

// refreshOrderCache: açık siparişlerin önbellek kopyasını tazeler.
func refreshOrderCache() {
	var open []models.Order
	if err := database.DB.Preload("Items").Where("is_completed = ?", false).Find(&open).Error; err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	cache.PutJSON(ctx, cache.KeyOrders, open)
}

// POST /api/orders/upsert-sync
// Masanın açık siparişini oluşturur veya günceller. Başarıda masa dolu
// işaretlenir, masayı kapsayan rezervasyon otomatik tamamlanır ve
// satılabilirlik yenilenir.
func UpsertOrderHandler(store *state.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpsertOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.TableID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "table_id zorunlu")
		}
		if len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Sipariş kalemi zorunlu")
		}

		table, err := tables.FindTable(body.TableID)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Masa bulunamadı")
		}

		userID, userName, _ := auth.CurrentUser(c)

		result, err := PlaceOrUpdateOrder(table, body.Items, userID, auth.IsAdmin(c))
		if err != nil {
			return apperr.ToFiber(err)
		}

		// İyimser ayna güncellemesi: satılan adetler düşülür, masa dolu olur
		positive := make(map[uint]int)
		for productID, delta := range result.CountDeltas {
			if delta > 0 {
				positive[productID] = delta
			}
		}
		store.ApplyOrderPlaced(table.ID, positive)

		// Masayı kapsayan rezervasyonu otomatik tamamla
		reservations.CompleteActiveForTable(table.ID)

		// Yetkili rakamlarla tam senkron
		go stock.Refresh(store)
		go refreshOrderCache()

		action := models.AuditActionUpdate
		msg := "Sipariş güncellendi"
		if result.Created {
			action = models.AuditActionCreate
			msg = "Sipariş oluşturuldu"
		}
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "order",
			EntityID:    result.Order.ID,
			Action:      action,
			Description: fmt.Sprintf("%s: masa %d, %.2f TL", msg, table.TableNumber, result.Order.TotalPrice),
			After:       result.Order,
		})
		metrics.OrdersPlaced.Inc()

		var order models.Order
		database.DB.Preload("Items").Preload("Table").First(&order, result.Order.ID)

		status := fiber.StatusOK
		if result.Created {
			status = fiber.StatusCreated
		}
		return c.Status(status).JSON(toOrderResponse(order))
	}
}

// GET /api/orders
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Preload("Items").Preload("Table").Order("created_at DESC")

		if c.Query("include_completed") != "true" {
			query = query.Where("is_completed = ?", false)
		}

		var orderList []models.Order
		if err := query.Limit(500).Find(&orderList).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Siparişler listelenemedi")
		}

		resp := make([]OrderResponse, 0, len(orderList))
		for _, o := range orderList {
			resp = append(resp, toOrderResponse(o))
		}
		return c.JSON(resp)
	}
}

// GET /api/orders/my
// Token'daki kullanıcının açtığı açık siparişler.
func MyOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, _ := auth.CurrentUser(c)

		var orderList []models.Order
		err := database.DB.Preload("Items").Preload("Table").
			Where("created_by = ? AND is_completed = ?", userID, false).
			Order("created_at DESC").
			Find(&orderList).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Siparişler listelenemedi")
		}

		resp := make([]OrderResponse, 0, len(orderList))
		for _, o := range orderList {
			resp = append(resp, toOrderResponse(o))
		}
		return c.JSON(resp)
	}
}

// GET /api/orders/table/:id/open
// Masanın açık siparişi. Açık sipariş yoksa 404 değil boş cevap döner;
// UI bunu "masa boş" olarak yorumlar.
func OpenOrderForTableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		table, err := tables.FindTable(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Masa bulunamadı")
		}

		var order models.Order
		err = database.DB.Preload("Items").Preload("Table").
			Where("table_id = ? AND is_completed = ?", table.ID, false).
			First(&order).Error
		if err != nil {
			return c.JSON(nil)
		}
		return c.JSON(toOrderResponse(order))
	}
}

// DELETE /api/orders/:id
// Sipariş iptali. Yetkili rol için malzemeler RETURN hareketleriyle stoğa
// geri döner; masa boşaltılır.
func CancelOrderHandler(store *state.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var order models.Order
		if err := database.DB.Preload("Items").First(&order, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}
		if order.IsCompleted {
			return fiber.NewError(fiber.StatusConflict, "Tamamlanmış sipariş iptal edilemez")
		}

		userID, userName, _ := auth.CurrentUser(c)

		countDeltas, err := CancelOrder(&order, userID, auth.IsAdmin(c))
		if err != nil {
			return apperr.ToFiber(err)
		}

		store.ApplyOrderCancelled(order.TableID, countDeltas)
		go stock.Refresh(store)
		go refreshOrderCache()

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "order",
			EntityID:    order.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Sipariş iptal edildi: %s (%.2f TL)", order.Number, order.TotalPrice),
			Before:      order,
		})
		metrics.OrdersCancelled.Inc()

		return c.JSON(fiber.Map{"message": "Sipariş iptal edildi"})
	}
}
