package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	RedisAddr   string
	JWTSecret   string
	CORSOrigins string
	TimeZone    string // rezervasyon saat hesapları için (ör: Europe/Istanbul)
}

func Load() *Config {
	// .env varsa yükle, yoksa sessizce devam et (production'da env doğrudan gelir)
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=masapos port=5432 sslmode=disable"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		TimeZone:    getEnv("TIME_ZONE", "Europe/Istanbul"),
	}

	// Production güvenlik kontrolleri
	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET environment değişkeni tanımlanmamış! Production için zorunludur.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET en az 32 karakter olmalıdır! Güvenlik riski.")
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=masapos port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN varsayılan değer kullanılıyor, production için mutlaka kendi Postgres bağlantı bilgisini tanımla.")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS varsayılan değer kullanılıyor, production için mutlaka kendi domain'ini tanımla.")
	}

	return cfg
}

// Location: yapılandırılan zaman dilimini döner, çözülemezse Local kullanılır.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		log.Printf("[WARN] TIME_ZONE çözülemedi (%s), yerel saat kullanılacak: %v", c.TimeZone, err)
		return time.Local
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
