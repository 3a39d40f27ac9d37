package models

import "time"

type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableOccupied  TableStatus = "occupied"
	TableReserved  TableStatus = "reserved"
)

// DiningTable: restoran masası. TableNumber UI'da görünen numaradır ve
// tekildir; masa aramaları tek merkezi lookup üzerinden yapılır (bkz. tables.FindTable).
type DiningTable struct {
	ID          uint `gorm:"primaryKey"`
	TableNumber int  `gorm:"uniqueIndex;not null"` // görünen masa numarası
	Capacity    int  `gorm:"not null;default:4"`
	SalonID     uint `gorm:"index;not null"`
	Salon       Salon
	Status      TableStatus `gorm:"size:20;not null;default:available"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
