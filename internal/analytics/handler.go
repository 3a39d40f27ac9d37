package analytics

import (
	"time"

	"masapos-backend/internal/database"
	"masapos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type DailySummaryResponse struct {
	Date        string  `json:"date"`
	OrderCount  int64   `json:"order_count"`
	TotalSales  float64 `json:"total_sales"`
	AvgOrder    float64 `json:"avg_order"`
	PaymentRows int64   `json:"payment_rows"`
}

type TopProductRow struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	SoldCount int     `json:"sold_count"`
	Revenue   float64 `json:"revenue"`
}

type CategorySalesRow struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
}

// parseRange: from/to query parametrelerini çözer, verilmezse bugünü kapsar.
func parseRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.Add(24*time.Hour - time.Second)

	if s := c.Query("from"); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return from, to, fiber.NewError(fiber.StatusBadRequest, "from tarihi geçersiz (YYYY-MM-DD)")
		}
		from = d
	}
	if s := c.Query("to"); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return from, to, fiber.NewError(fiber.StatusBadRequest, "to tarihi geçersiz (YYYY-MM-DD)")
		}
		to = d.Add(24*time.Hour - time.Second)
	}
	return from, to, nil
}

// GET /api/daily-sales-summary/daily
// Günün satış özeti (tamamlanan siparişlerden).
func DailySummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := parseRange(c)
		if err != nil {
			return err
		}

		var orderCount int64
		var totalSales float64
		database.DB.Model(&models.Order{}).
			Where("is_completed = ? AND updated_at >= ? AND updated_at <= ?", true, from, to).
			Count(&orderCount)
		database.DB.Model(&models.Order{}).
			Where("is_completed = ? AND updated_at >= ? AND updated_at <= ?", true, from, to).
			Select("COALESCE(SUM(total_price), 0)").Scan(&totalSales)

		var paymentRows int64
		database.DB.Model(&models.Payment{}).
			Where("created_at >= ? AND created_at <= ?", from, to).
			Count(&paymentRows)

		avg := 0.0
		if orderCount > 0 {
			avg = totalSales / float64(orderCount)
		}

		return c.JSON(DailySummaryResponse{
			Date:        from.Format("2006-01-02"),
			OrderCount:  orderCount,
			TotalSales:  totalSales,
			AvgOrder:    avg,
			PaymentRows: paymentRows,
		})
	}
}

// GET /api/daily-sales-summary/range
// Gün gün satış dökümü.
func RangeSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := parseRange(c)
		if err != nil {
			return err
		}

		type row struct {
			Day        time.Time
			OrderCount int64
			TotalSales float64
		}
		var rows []row
		database.DB.Model(&models.Order{}).
			Select("DATE(updated_at) AS day, COUNT(*) AS order_count, COALESCE(SUM(total_price), 0) AS total_sales").
			Where("is_completed = ? AND updated_at >= ? AND updated_at <= ?", true, from, to).
			Group("DATE(updated_at)").
			Order("day ASC").
			Scan(&rows)

		resp := make([]DailySummaryResponse, 0, len(rows))
		for _, r := range rows {
			avg := 0.0
			if r.OrderCount > 0 {
				avg = r.TotalSales / float64(r.OrderCount)
			}
			resp = append(resp, DailySummaryResponse{
				Date:       r.Day.Format("2006-01-02"),
				OrderCount: r.OrderCount,
				TotalSales: r.TotalSales,
				AvgOrder:   avg,
			})
		}
		return c.JSON(resp)
	}
}

// GET /api/analytics/top-products
func TopProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := parseRange(c)
		if err != nil {
			return err
		}

		var rows []TopProductRow
		database.DB.Model(&models.OrderItem{}).
			Select("order_items.product_id, order_items.name, SUM(order_items.count) AS sold_count, SUM(order_items.price * order_items.count) AS revenue").
			Joins("JOIN orders ON orders.id = order_items.order_id").
			Where("orders.is_completed = ? AND orders.updated_at >= ? AND orders.updated_at <= ?", true, from, to).
			Group("order_items.product_id, order_items.name").
			Order("sold_count DESC").
			Limit(20).
			Scan(&rows)

		return c.JSON(rows)
	}
}

// GET /api/analytics/sales-by-category
func SalesByCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := parseRange(c)
		if err != nil {
			return err
		}

		var rows []CategorySalesRow
		database.DB.Model(&models.OrderItem{}).
			Select("COALESCE(products.category, 'Diğer') AS category, SUM(order_items.price * order_items.count) AS revenue").
			Joins("JOIN orders ON orders.id = order_items.order_id").
			Joins("LEFT JOIN products ON products.id = order_items.product_id").
			Where("orders.is_completed = ? AND orders.updated_at >= ? AND orders.updated_at <= ?", true, from, to).
			Group("products.category").
			Order("revenue DESC").
			Scan(&rows)

		return c.JSON(rows)
	}
}
