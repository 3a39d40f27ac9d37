package database

import (
	"log"

	"masapos-backend/internal/config"
	"masapos-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Salon{},
		&models.DiningTable{},
		&models.Ingredient{},
		&models.Product{},
		&models.RecipeItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Reservation{},
		&models.StockMovement{},
		&models.Payment{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}
