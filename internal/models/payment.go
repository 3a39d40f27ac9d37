package models

import "time"

// Payment: sipariş ödemesi. Tutar sipariş toplamından gelir; toplam yoksa
// kalemlerden (fiyat × adet) hesaplanır.
type Payment struct {
	ID        uint   `gorm:"primaryKey"`
	Reference string `gorm:"size:36;uniqueIndex;not null"` // UUID ödeme referansı
	OrderID   uint   `gorm:"index;not null"`
	Order     Order
	Amount    float64 `gorm:"not null"`
	CreatedBy uint    `gorm:"index"`
	CreatedAt time.Time
}
