package orders

import (
	"errors"
	"fmt"
	"strings"

	"masapos-backend/internal/apperr"
	"masapos-backend/internal/database"
	"masapos-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderItemInput struct {
	ProductID uint   `json:"product_id"`
	Count     int    `json:"count"`
	Note      string `json:"note"`
}

// validItems: tarifi çözülemeyen veya tarifinde pozitif olmayan miktar
// bulunan ürünleri eler. Sipariş yalnızca satılabilir kalemlerle ilerler.
func validItems(items []OrderItemInput, products map[uint]models.Product) []OrderItemInput {
	out := make([]OrderItemInput, 0, len(items))
	for _, item := range items {
		if item.Count <= 0 {
			continue
		}
		p, ok := products[item.ProductID]
		if !ok || !p.IsActive || len(p.Recipe) == 0 {
			continue
		}
		allPositive := true
		for _, line := range p.Recipe {
			if line.Quantity <= 0 {
				allPositive = false
				break
			}
		}
		if !allPositive {
			continue
		}
		out = append(out, item)
	}
	return out
}

// ingredientDeltas: kalem farklarından (yeni adet - eski adet) malzeme
// bazında net ihtiyacı çıkarır. Pozitif değer stoktan düşülecek miktardır.
func ingredientDeltas(countDeltas map[uint]int, products map[uint]models.Product) map[uint]float64 {
	needs := make(map[uint]float64)
	for productID, delta := range countDeltas {
		if delta == 0 {
			continue
		}
		p := products[productID]
		for _, line := range p.Recipe {
			needs[line.IngredientID] += line.Quantity * float64(delta)
		}
	}
	return needs
}

// preflightCheck: tüm tarif malzemeleri için stok yeterlilik ön kontrolü.
// Yetersiz malzemeler tek tek listelenen bir hata ile erken döner.
func preflightCheck(needs map[uint]float64) error {
	if len(needs) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(needs))
	for id := range needs {
		ids = append(ids, id)
	}

	var ingredients []models.Ingredient
	if err := database.DB.Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		return err
	}
	byID := make(map[uint]models.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		byID[ing.ID] = ing
	}

	var shortages []string
	for id, required := range needs {
		if required <= 0 {
			continue
		}
		ing, ok := byID[id]
		if !ok {
			shortages = append(shortages, fmt.Sprintf("malzeme #%d bulunamadı", id))
			continue
		}
		if ing.StockQuantity < required {
			shortages = append(shortages, fmt.Sprintf("%s: gereken %.2f %s, mevcut %.2f %s",
				ing.Name, required, ing.Unit, ing.StockQuantity, ing.Unit))
		}
	}

	if len(shortages) > 0 {
		return apperr.New(apperr.KindValidation, "Stok yetersiz: "+strings.Join(shortages, "; "))
	}
	return nil
}

// UpsertResult: başarılı sipariş yazımının özeti.
type UpsertResult struct {
	Order       models.Order
	Created     bool
	CountDeltas map[uint]int // productID -> adet farkı (iyimser ayna için)
}

// upsertTx: siparişi tek transaction içinde oluşturur veya günceller.
// Kalemler komple değiştirilir, malzeme stokları net farka göre düşülür ve
// her stok dokunuşu ADJUSTMENT hareketi olarak kaydedilir; böylece hareket
// toplamı her zaman güncel stoğa eşit kalır.
func upsertTx(table *models.DiningTable, items []OrderItemInput, products map[uint]models.Product, userID uint) (*UpsertResult, error) {
	var result *UpsertResult

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		created := false
		err := tx.Preload("Items").
			Where("table_id = ? AND is_completed = ?", table.ID, false).
			First(&order).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			created = true
			order = models.Order{
				Number:    uuid.NewString(),
				TableID:   table.ID,
				CreatedBy: userID,
			}
			if err := tx.Create(&order).Error; err != nil {
				return err
			}
		}

		// Adet farkları: yeni - eski
		countDeltas := make(map[uint]int)
		for _, item := range items {
			countDeltas[item.ProductID] += item.Count
		}
		for _, old := range order.Items {
			countDeltas[old.ProductID] -= old.Count
		}

		needs := ingredientDeltas(countDeltas, products)

		// Yetkili rol için ön kontrol sipariş öncesinde yapıldı; burada yine de
		// stok eksiye düşerse ApplyMovement benzeri kontrol devreye girer.
		for ingredientID, change := range needs {
			if change == 0 {
				continue
			}
			var ing models.Ingredient
			if err := tx.First(&ing, "id = ?", ingredientID).Error; err != nil {
				return apperr.Wrap(apperr.KindNotFound, "Tarif malzemesi bulunamadı", err)
			}
			newQty := ing.StockQuantity - change
			if newQty < 0 {
				return apperr.New(apperr.KindValidation,
					fmt.Sprintf("Stok yetersiz: %s (mevcut %.2f %s, gereken %.2f %s)",
						ing.Name, ing.StockQuantity, ing.Unit, change, ing.Unit))
			}
			movement := models.StockMovement{
				IngredientID: ingredientID,
				Change:       -change,
				Reason:       models.MovementAdjustment,
				Note:         fmt.Sprintf("Sipariş %s", order.Number),
				CreatedBy:    userID,
			}
			if err := tx.Create(&movement).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Ingredient{}).Where("id = ?", ingredientID).
				Update("stock_quantity", newQty).Error; err != nil {
				return err
			}
		}

		// Kalemleri komple değiştir
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		total := 0.0
		for _, item := range items {
			p := products[item.ProductID]
			oi := models.OrderItem{
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Name:      p.Name,
				Price:     p.Price,
				Count:     item.Count,
				Note:      item.Note,
			}
			if err := tx.Create(&oi).Error; err != nil {
				return err
			}
			total += p.Price * float64(item.Count)
		}

		order.TotalPrice = total
		order.IsCompleted = false
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("total_price", total).Error; err != nil {
			return err
		}

		// Masa dolu işaretlenir
		if err := tx.Model(&models.DiningTable{}).Where("id = ?", table.ID).
			Update("status", models.TableOccupied).Error; err != nil {
			return err
		}

		result = &UpsertResult{Order: order, Created: created, CountDeltas: countDeltas}
		return nil
	})
	if err != nil {
		return nil, apperr.Classify(err)
	}
	return result, nil
}

// PlaceOrUpdateOrder: masanın açık siparişini oluşturur veya günceller.
// Geçici transaction hatalarında 1s/2s geri çekilme ile en fazla iki kez
// tekrar dener.
func PlaceOrUpdateOrder(table *models.DiningTable, rawItems []OrderItemInput, userID uint, isAdmin bool) (*UpsertResult, error) {
	ids := make([]uint, 0, len(rawItems))
	for _, item := range rawItems {
		ids = append(ids, item.ProductID)
	}
	var productList []models.Product
	if err := database.DB.Preload("Recipe").Where("id IN ?", ids).Find(&productList).Error; err != nil {
		return nil, apperr.Classify(err)
	}
	products := make(map[uint]models.Product, len(productList))
	for _, p := range productList {
		products[p.ID] = p
	}

	items := validItems(rawItems, products)
	if len(items) == 0 {
		return nil, apperr.New(apperr.KindValidation, "Siparişte satılabilir kalem yok (tarifsiz ürünler elendi)")
	}

	// Yetkili rol: tüm tarif malzemeleri için stok ön kontrolü.
	// Mevcut açık siparişin tuttuğu adetler farka dahil edilir.
	if isAdmin {
		var existing models.Order
		countDeltas := make(map[uint]int)
		for _, item := range items {
			countDeltas[item.ProductID] += item.Count
		}
		err := database.DB.Preload("Items").
			Where("table_id = ? AND is_completed = ?", table.ID, false).
			First(&existing).Error
		if err == nil {
			for _, old := range existing.Items {
				countDeltas[old.ProductID] -= old.Count
			}
		}
		if err := preflightCheck(ingredientDeltas(countDeltas, products)); err != nil {
			return nil, err
		}
	}

	var result *UpsertResult
	err := withRetry(func() error {
		r, err := upsertTx(table, items, products, userID)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CancelOrder: açık siparişi siler. Yetkili rol için tarifteki her malzemeye
// telafi RETURN hareketi yazılır ve stok geri verilir (pozitif olmayan tarif
// miktarları atlanır); diğer roller stok telafisi yapamaz.
func CancelOrder(order *models.Order, userID uint, isAdmin bool) (map[uint]int, error) {
	countDeltas := make(map[uint]int)
	for _, item := range order.Items {
		countDeltas[item.ProductID] += item.Count
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if isAdmin {
			ids := make([]uint, 0, len(countDeltas))
			for id := range countDeltas {
				ids = append(ids, id)
			}
			var productList []models.Product
			if err := tx.Preload("Recipe").Where("id IN ?", ids).Find(&productList).Error; err != nil {
				return err
			}
			for _, p := range productList {
				count := countDeltas[p.ID]
				for _, line := range p.Recipe {
					if line.Quantity <= 0 {
						continue
					}
					change := line.Quantity * float64(count)
					movement := models.StockMovement{
						IngredientID: line.IngredientID,
						Change:       change,
						Reason:       models.MovementReturn,
						Note:         fmt.Sprintf("Sipariş iptali %s", order.Number),
						CreatedBy:    userID,
					}
					if err := tx.Create(&movement).Error; err != nil {
						return err
					}
					if err := tx.Model(&models.Ingredient{}).Where("id = ?", line.IngredientID).
						Update("stock_quantity", gorm.Expr("stock_quantity + ?", change)).Error; err != nil {
						return err
					}
				}
			}
		}

		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(order).Error; err != nil {
			return err
		}
		return tx.Model(&models.DiningTable{}).Where("id = ?", order.TableID).
			Update("status", models.TableAvailable).Error
	})
	if err != nil {
		return nil, apperr.Classify(err)
	}
	return countDeltas, nil
}

// OrderAmount: ödeme tutarı. Sipariş toplamı yoksa kalemlerden hesaplanır.
func OrderAmount(order *models.Order) float64 {
	if order.TotalPrice > 0 {
		return order.TotalPrice
	}
	total := 0.0
	for _, item := range order.Items {
		total += item.Price * float64(item.Count)
	}
	return total
}
