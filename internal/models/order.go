package models

import "time"

// Order: masa siparişi. Bir masada aynı anda en fazla bir açık
// (IsCompleted=false) sipariş bulunur; tamamlanan siparişler rapor/analiz
// için saklanır, silinmez.
type Order struct {
	ID          uint   `gorm:"primaryKey"`
	Number      string `gorm:"size:36;uniqueIndex;not null"` // UUID sipariş numarası
	TableID     uint   `gorm:"index;not null"`
	Table       DiningTable
	IsCompleted bool    `gorm:"not null;default:false;index"`
	TotalPrice  float64 `gorm:"not null;default:0"`
	CreatedBy   uint    `gorm:"index"` // siparişi açan kullanıcı
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Items []OrderItem
}

// OrderItem: sipariş kalemi. Ürün adı ve fiyatı sipariş anında denormalize
// edilir, ürün sonradan değişse de fiş sabit kalır.
type OrderItem struct {
	ID        uint `gorm:"primaryKey"`
	OrderID   uint `gorm:"index;not null"`
	ProductID uint `gorm:"index;not null"`
	Name      string  `gorm:"size:100;not null"`
	Price     float64 `gorm:"not null"`
	Count     int     `gorm:"not null"`
	Note      string  `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
