package reservations

import (
	"time"

	"masapos-backend/internal/database"
	"masapos-backend/internal/models"
	"masapos-backend/internal/tables"
)

// SweepExpired: rezerve görünen masaları tarar, süresi geçen veya kaydı
// olmayan rezervasyonları düzeltir. Masa ızgarası her okunuşta aynı düzeltmeyi
// zaten yapar; bu süpürme okuma olmadan da durumların yakınsaması içindir.
// Her iki yol da idempotenttir, üst üste çalışmaları zararsızdır.
func SweepExpired(loc *time.Location) {
	var reserved []models.DiningTable
	if err := database.DB.Where("status = ?", models.TableReserved).Find(&reserved).Error; err != nil {
		return
	}

	now := time.Now().In(loc)
	for _, t := range reserved {
		res := tables.ActiveReservation(t.ID)
		if _, needsCorrection := tables.Resolve(t.Status, res, now, loc); needsCorrection {
			tables.CorrectStaleTable(t.ID, now, loc)
		}
	}
}
