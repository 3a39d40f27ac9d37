package models

import "time"

// Reservation: masa rezervasyonu. Date "YYYY-MM-DD", Time "HH:mm" olarak
// normalize edilmiş saklanır. Special=true olan rezervasyonlar 24 saat yerine
// 59 dakikalık aciliyet penceresi kullanır.
type Reservation struct {
	ID              uint `gorm:"primaryKey"`
	TableID         uint `gorm:"index;not null"`
	Table           DiningTable
	CustomerName    string `gorm:"size:100;not null"`
	Phone           string `gorm:"size:30"`
	Email           string `gorm:"size:100"`
	Date            string `gorm:"size:10;not null;index"` // YYYY-MM-DD
	Time            string `gorm:"size:5;not null"`        // HH:mm
	PersonCount     int    `gorm:"not null;default:2"`
	SpecialRequests string `gorm:"size:500"`
	Special         bool   `gorm:"not null;default:false"` // öncelikli rezervasyon
	IsCompleted     bool   `gorm:"not null;default:false;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// At: rezervasyonun tarih+saatini verilen lokasyonda time.Time olarak döner.
func (r *Reservation) At(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", r.Date+" "+r.Time, loc)
}
