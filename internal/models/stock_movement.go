package models

import "time"

type MovementReason string

const (
	MovementPurchase   MovementReason = "PURCHASE"
	MovementWaste      MovementReason = "WASTE"
	MovementAdjustment MovementReason = "ADJUSTMENT"
	MovementReturn     MovementReason = "RETURN"
)

// StockMovement: hammadde stok değişikliği kaydı (append-only). Bir hareket
// oluşturulduktan sonra düzenlenmez; bir malzemenin hareket toplamı güncel
// stok miktarına eşittir.
type StockMovement struct {
	ID           uint `gorm:"primaryKey"`
	IngredientID uint `gorm:"index;not null"`
	Ingredient   Ingredient
	Change       float64        `gorm:"not null"` // pozitif = giriş, negatif = çıkış
	Reason       MovementReason `gorm:"size:20;not null;index"`
	Note         string         `gorm:"size:255"`
	CreatedBy    uint           `gorm:"index"`
	CreatedAt    time.Time
}
