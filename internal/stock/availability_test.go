package stock

import (
	"math"
	"testing"
)

func TestProductAvailabilityMinFloor(t *testing.T) {
	recipe := []RecipeLine{
		{IngredientID: 1, Quantity: 2},   // 10 / 2 = 5
		{IngredientID: 2, Quantity: 0.5}, // 4 / 0.5 = 8
	}
	stocks := map[uint]float64{1: 10, 2: 4}

	if got := ProductAvailability(recipe, stocks); got != 5 {
		t.Errorf("beklenen 5, gelen %d", got)
	}
}

func TestProductAvailabilityEmptyRecipe(t *testing.T) {
	stocks := map[uint]float64{1: 100}

	if got := ProductAvailability(nil, stocks); got != 0 {
		t.Errorf("tarifsiz ürün satılamaz olmalı, gelen %d", got)
	}
	if got := ProductAvailability([]RecipeLine{}, stocks); got != 0 {
		t.Errorf("boş tarifli ürün satılamaz olmalı, gelen %d", got)
	}
}

func TestProductAvailabilityUnknownIngredient(t *testing.T) {
	recipe := []RecipeLine{
		{IngredientID: 1, Quantity: 2},
		{IngredientID: 99, Quantity: 1}, // stok haritasında yok
	}
	stocks := map[uint]float64{1: 10}

	if got := ProductAvailability(recipe, stocks); got != 0 {
		t.Errorf("bilinmeyen malzeme 0 döndürmeli, gelen %d", got)
	}
}

func TestProductAvailabilityNaNStock(t *testing.T) {
	recipe := []RecipeLine{{IngredientID: 1, Quantity: 2}}
	stocks := map[uint]float64{1: math.NaN()}

	if got := ProductAvailability(recipe, stocks); got != 0 {
		t.Errorf("NaN stok 0 döndürmeli, gelen %d", got)
	}
}

func TestProductAvailabilityNonPositiveQuantity(t *testing.T) {
	stocks := map[uint]float64{1: 10, 2: 10}

	cases := []struct {
		name string
		qty  float64
	}{
		{"sıfır miktar", 0},
		{"negatif miktar", -1},
		{"NaN miktar", math.NaN()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recipe := []RecipeLine{
				{IngredientID: 1, Quantity: 2},
				{IngredientID: 2, Quantity: tc.qty},
			}
			if got := ProductAvailability(recipe, stocks); got != 0 {
				t.Errorf("pozitif olmayan tarif miktarı 0 döndürmeli, gelen %d", got)
			}
		})
	}
}

func TestProductAvailabilityNegativeStockClamped(t *testing.T) {
	recipe := []RecipeLine{{IngredientID: 1, Quantity: 2}}
	stocks := map[uint]float64{1: -4}

	if got := ProductAvailability(recipe, stocks); got != 0 {
		t.Errorf("negatif stok 0'a sabitlenmeli, gelen %d", got)
	}
}

// Salata senaryosu: 10 KG domates, birim başına 2 KG tarif -> 5 adet.
// 3 adet satış sonrası (6 KG düşer) kalan 4 KG -> 2 adet.
func TestSalataScenario(t *testing.T) {
	recipe := []RecipeLine{{IngredientID: 1, Quantity: 2}} // Domates, KG

	stocks := map[uint]float64{1: 10}
	if got := ProductAvailability(recipe, stocks); got != 5 {
		t.Fatalf("başlangıç satılabilirliği 5 olmalı, gelen %d", got)
	}

	// 3 adet satıldı: 3 * 2 KG = 6 KG düşer
	stocks[1] -= 3 * 2
	if stocks[1] != 4 {
		t.Fatalf("kalan stok 4 olmalı, gelen %.2f", stocks[1])
	}
	if got := ProductAvailability(recipe, stocks); got != 2 {
		t.Errorf("satış sonrası satılabilirlik 2 olmalı, gelen %d", got)
	}
}
