package models

import "time"

type IngredientUnit string

const (
	UnitKG   IngredientUnit = "KG"
	UnitAdet IngredientUnit = "ADET"
	UnitL    IngredientUnit = "L"
)

// Ingredient: stok takibi yapılan hammadde. StockQuantity yalnızca stok
// hareketleri üzerinden değişir; tek istisna minimum stok düzenlemesidir.
type Ingredient struct {
	ID            uint           `gorm:"primaryKey"`
	Name          string         `gorm:"size:100;not null;unique"`
	Unit          IngredientUnit `gorm:"size:10;not null"`
	StockQuantity float64        `gorm:"not null;default:0"`
	MinStock      float64        `gorm:"not null;default:0"` // kritik stok eşiği
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
