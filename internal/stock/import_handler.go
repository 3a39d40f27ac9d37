package stock

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"masapos-backend/internal/auth"
	"masapos-backend/internal/database"
	"masapos-backend/internal/models"
	"masapos-backend/internal/state"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// POST /api/stock-movements/import
// XLSX dosyasından toplu alış girişi. Beklenen kolonlar:
// MALZEME ADI | MİKTAR | NOT (opsiyonel)
// Her eşleşen satır için bir PURCHASE hareketi oluşturulur.
func ImportPurchasesHandler(store *state.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dosya yüklenemedi: "+err.Error())
		}

		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Sadece .xlsx dosyaları yüklenebilir")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dosya açılamadı: "+err.Error())
		}
		defer file.Close()

		excelFile, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyası okunamadı: "+err.Error())
		}
		defer excelFile.Close()

		sheetList := excelFile.GetSheetList()
		if len(sheetList) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyasında sheet bulunamadı")
		}

		rows, err := excelFile.GetRows(sheetList[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Sheet okunamadı: "+err.Error())
		}
		if len(rows) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyası boş")
		}

		// İlk satır başlık mı?
		startIndex := 0
		if len(rows[0]) > 0 {
			firstCell := strings.ToUpper(strings.TrimSpace(rows[0][0]))
			if strings.Contains(firstCell, "MALZEME") || strings.Contains(firstCell, "INGREDIENT") {
				startIndex = 1
			}
		}

		userID, _, _ := auth.CurrentUser(c)

		imported := 0
		var unmatched []string
		var invalid []string

		for i := startIndex; i < len(rows); i++ {
			row := rows[i]
			if len(row) < 2 || strings.TrimSpace(row[0]) == "" {
				continue
			}

			name := strings.TrimSpace(row[0])
			qtyStr := strings.ReplaceAll(strings.TrimSpace(row[1]), ",", ".")
			qty, err := strconv.ParseFloat(qtyStr, 64)
			if err != nil || qty <= 0 {
				invalid = append(invalid, fmt.Sprintf("satır %d: %s", i+1, name))
				continue
			}

			note := "Toplu alış (Excel)"
			if len(row) > 2 && strings.TrimSpace(row[2]) != "" {
				note = strings.TrimSpace(row[2])
			}

			var ing models.Ingredient
			if err := database.DB.Where("LOWER(name) = LOWER(?)", name).First(&ing).Error; err != nil {
				unmatched = append(unmatched, name)
				continue
			}

			movement := models.StockMovement{
				IngredientID: ing.ID,
				Change:       qty,
				Reason:       models.MovementPurchase,
				Note:         note,
				CreatedBy:    userID,
			}
			err = database.DB.Transaction(func(tx *gorm.DB) error {
				return ApplyMovement(tx, &movement)
			})
			if err != nil {
				log.Printf("Toplu alış satırı uygulanamadı (%s): %v", name, err)
				invalid = append(invalid, fmt.Sprintf("satır %d: %s", i+1, name))
				continue
			}
			imported++
		}

		if imported > 0 {
			go Refresh(store)
		}

		return c.JSON(fiber.Map{
			"imported":  imported,
			"unmatched": unmatched,
			"invalid":   invalid,
		})
	}
}
