package tables

import (
	"log"
	"time"

	"masapos-backend/internal/database"
	"masapos-backend/internal/metrics"
	"masapos-backend/internal/models"
)

// DisplayStatus: masanın UI'da gösterilen durumu. Backend'deki üç durumun
// (available/occupied/reserved) rezervasyon zamanına göre açılmış halidir.
type DisplayStatus string

const (
	StatusEmpty           DisplayStatus = "empty"
	StatusOccupied        DisplayStatus = "occupied"
	StatusReserved        DisplayStatus = "reserved"         // 24 saat içinde
	StatusReservedFar     DisplayStatus = "reserved-far"     // 24 saatten uzak
	StatusReservedSpecial DisplayStatus = "reserved-special" // özel ve 59 dk içinde
)

const (
	specialWindow = 59 * time.Minute
	urgentWindow  = 24 * time.Hour
)

// Resolve: masanın ham durumu ve (varsa) rezervasyonundan görünen durumu
// hesaplar. İkinci dönüş değeri true ise masa durumu bayatlamıştır ve
// çağıranın düzeltici güncelleme yapması gerekir: süresi geçmiş ya da kaydı
// bulunamayan rezervasyon boş masaya çevrilir. Fonksiyon saf ve idempotenttir;
// aynı (durum, rezervasyon, now) için hep aynı sonucu verir.
func Resolve(status models.TableStatus, res *models.Reservation, now time.Time, loc *time.Location) (DisplayStatus, bool) {
	switch status {
	case models.TableOccupied:
		return StatusOccupied, false
	case models.TableAvailable:
		return StatusEmpty, false
	}

	// status = reserved
	if res == nil {
		// Veri tutarsızlığı: rezerve görünen masanın rezervasyon kaydı yok
		return StatusEmpty, true
	}

	at, err := res.At(loc)
	if err != nil {
		return StatusEmpty, true
	}

	delta := at.Sub(now)
	switch {
	case delta <= 0:
		// Rezervasyon saati geçmiş
		return StatusEmpty, true
	case res.Special && delta <= specialWindow:
		return StatusReservedSpecial, false
	case delta <= urgentWindow:
		return StatusReserved, false
	default:
		return StatusReservedFar, false
	}
}

// ActiveReservation: masanın tamamlanmamış en yakın rezervasyonu, yoksa nil.
func ActiveReservation(tableID uint) *models.Reservation {
	var res models.Reservation
	err := database.DB.
		Where("table_id = ? AND is_completed = ?", tableID, false).
		Order("date ASC, time ASC").
		First(&res).Error
	if err != nil {
		return nil
	}
	return &res
}

// planCorrection: masanın aktif rezervasyonlarından hangilerinin süresinin
// geçtiğini ve düzeltme sonrası masa durumunu belirler. Saati geçmiş veya
// tarihi çözülemeyen rezervasyonlar kapatılır; geleceğe ait bir rezervasyon
// kaldıysa masa rezerve olarak kalır.
func planCorrection(active []models.Reservation, now time.Time, loc *time.Location) (expired []uint, status models.TableStatus) {
	status = models.TableAvailable
	for _, res := range active {
		at, err := res.At(loc)
		if err != nil || !at.After(now) {
			expired = append(expired, res.ID)
			continue
		}
		status = models.TableReserved
	}
	return expired, status
}

// CorrectStaleTable: bayat rezervasyon durumunu düzeltir. Yalnızca saati
// geçen rezervasyonlar tamamlanmış işaretlenir; geleceğe ait rezervasyonu
// olan masa rezerve kalır, yoksa boşaltılır. Tekrarlı çağrılar zararsızdır:
// aynı girdiyle ikinci çağrı hiçbir kaydı değiştirmez.
func CorrectStaleTable(tableID uint, now time.Time, loc *time.Location) {
	var active []models.Reservation
	if err := database.DB.
		Where("table_id = ? AND is_completed = ?", tableID, false).
		Find(&active).Error; err != nil {
		log.Printf("Masa rezervasyonları okunamadı (ID: %d): %v", tableID, err)
		return
	}

	expired, status := planCorrection(active, now, loc)
	if len(expired) > 0 {
		if err := database.DB.Model(&models.Reservation{}).
			Where("id IN ?", expired).
			Update("is_completed", true).Error; err != nil {
			log.Printf("Süresi geçen rezervasyon kapatılamadı (masa %d): %v", tableID, err)
			return
		}
	}
	if err := database.DB.Model(&models.DiningTable{}).
		Where("id = ?", tableID).
		Update("status", status).Error; err != nil {
		log.Printf("Masa durumu düzeltilemedi (ID: %d): %v", tableID, err)
		return
	}
	metrics.ReservationCorrections.Inc()
}
