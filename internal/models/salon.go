package models

import "time"

// Salon: masaların gruplandığı kat/bölüm (ör: "Bahçe", "Üst Kat")
type Salon struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null;unique"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Tables []DiningTable
}
