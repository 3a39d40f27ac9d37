package stock

import (
	"math"

	"masapos-backend/internal/models"
)

// RecipeLine: satılabilirlik hesabı için gereken tarif satırı.
type RecipeLine struct {
	IngredientID uint
	Quantity     float64 // birim başına gereken miktar
}

// ProductAvailability: üründen kaç birim satılabileceğini hesaplar.
// Her tarif satırı için floor(stok / birim miktar) alınır, sonuç satırların
// minimumudur. Tarifi olmayan ürün satılamaz kabul edilir (0). Bilinmeyen
// malzeme, sayı olmayan stok veya pozitif olmayan tarif miktarı da güvenli
// tarafta kalmak için 0 döndürür.
func ProductAvailability(recipe []RecipeLine, stocks map[uint]float64) int {
	if len(recipe) == 0 {
		return 0
	}

	best := math.MaxInt
	for _, line := range recipe {
		if math.IsNaN(line.Quantity) || line.Quantity <= 0 {
			return 0
		}
		s, ok := stocks[line.IngredientID]
		if !ok || math.IsNaN(s) {
			return 0
		}
		n := int(math.Floor(s / line.Quantity))
		if n < best {
			best = n
		}
	}

	if best < 0 {
		best = 0
	}
	return best
}

// RecipeLines: modeldeki tarifi hesap satırlarına çevirir.
func RecipeLines(recipe []models.RecipeItem) []RecipeLine {
	lines := make([]RecipeLine, 0, len(recipe))
	for _, item := range recipe {
		lines = append(lines, RecipeLine{IngredientID: item.IngredientID, Quantity: item.Quantity})
	}
	return lines
}

// ComputeAll: tüm ürünler için satılabilir adetleri hesaplar.
func ComputeAll(products []models.Product, stocks map[uint]float64) map[uint]int {
	out := make(map[uint]int, len(products))
	for _, p := range products {
		out[p.ID] = ProductAvailability(RecipeLines(p.Recipe), stocks)
	}
	return out
}
