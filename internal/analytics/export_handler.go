package analytics

import (
	"fmt"
	"time"

	"masapos-backend/internal/database"
	"masapos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/daily-sales-summary/export
// Tarih aralığının satış dökümünü XLSX olarak indirir.
func ExportSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := parseRange(c)
		if err != nil {
			return err
		}

		var orderList []models.Order
		if err := database.DB.Preload("Items").Preload("Table").
			Where("is_completed = ? AND updated_at >= ? AND updated_at <= ?", true, from, to).
			Order("updated_at ASC").
			Find(&orderList).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satış verileri okunamadı")
		}

		f := excelize.NewFile()
		defer f.Close()

		sheet := "Satışlar"
		f.SetSheetName("Sheet1", sheet)

		headers := []string{"Tarih", "Sipariş No", "Masa", "Kalem Sayısı", "Tutar (TL)"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}

		total := 0.0
		for i, o := range orderList {
			rowNum := i + 2
			f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), o.UpdatedAt.Format("2006-01-02 15:04"))
			f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), o.Number)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", rowNum), o.Table.TableNumber)
			f.SetCellValue(sheet, fmt.Sprintf("D%d", rowNum), len(o.Items))
			f.SetCellValue(sheet, fmt.Sprintf("E%d", rowNum), o.TotalPrice)
			total += o.TotalPrice
		}

		totalRow := len(orderList) + 3
		f.SetCellValue(sheet, fmt.Sprintf("D%d", totalRow), "TOPLAM")
		f.SetCellValue(sheet, fmt.Sprintf("E%d", totalRow), total)

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Excel dosyası üretilemedi")
		}

		filename := fmt.Sprintf("satis-ozeti-%s.xlsx", time.Now().Format("2006-01-02"))
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		return c.Send(buf.Bytes())
	}
}
