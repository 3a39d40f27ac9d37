package tables

import (
	"strconv"

	"masapos-backend/internal/database"
	"masapos-backend/internal/models"
)

// FindTable: masa araması için tek merkezi yol. Önce birincil anahtar, sonra
// görünen masa numarası denenir. UI tarih boyunca iki anahtarı karışık
// kullandığı için uyumluluk şimi burada, tek yerde durur; çağrı yerlerine
// yayılmış fallback zincirleri yoktur.
func FindTable(key string) (*models.DiningTable, error) {
	id, err := strconv.ParseUint(key, 10, 64)
	if err != nil {
		return nil, err
	}

	var table models.DiningTable
	if err := database.DB.First(&table, "id = ?", id).Error; err == nil {
		return &table, nil
	}

	if err := database.DB.First(&table, "table_number = ?", id).Error; err != nil {
		return nil, err
	}
	return &table, nil
}
