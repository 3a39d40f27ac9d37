package models

import "time"

// Product: satılan menü ürünü. Geçmiş siparişlerde referansı olan ürünler
// silinmez, IsActive=false ile arşivlenir.
type Product struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"size:100;not null;unique"`
	Price       float64 `gorm:"not null"`
	Category    string  `gorm:"size:50;index"`
	Description string  `gorm:"size:255"`
	IsActive    bool    `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Recipe []RecipeItem
}

// RecipeItem: ürünün bir birimi için gereken hammadde miktarı
type RecipeItem struct {
	ID           uint `gorm:"primaryKey"`
	ProductID    uint `gorm:"index;not null"`
	IngredientID uint `gorm:"index;not null"`
	Ingredient   Ingredient
	Quantity     float64 `gorm:"not null"` // birim başına miktar (ör: 2 KG)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
