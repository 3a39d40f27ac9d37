// Package cache, UI'nin eskiden tarayıcı local storage'ında tuttuğu
// anlık görüntüleri Redis üzerinde saklar. Bunlar önbellektir, kaynak
// doğruluk her zaman veritabanıdır; Redis erişilemezse işlemler hatasız
// devam eder.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Local storage anahtarlarının birebir karşılıkları
const (
	KeyTableStatus     = "tableStatus"
	KeyOrders          = "orders"
	KeyCompletedOrders = "completedOrders"
	KeyReservations    = "reservations"
	KeyOrderHistory    = "orderHistory"
	KeyAvailableQty    = "availableQuantities"
)

const snapshotTTL = 24 * time.Hour

var client *redis.Client

func Init(addr string) {
	client = redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[WARN] Redis bağlantısı kurulamadı (%s), önbellek devre dışı: %v", addr, err)
	}
}

// PutJSON: değeri JSON olarak yazar. Önbellek hatası işlemi durdurmaz.
func PutJSON(ctx context.Context, key string, value any) {
	if client == nil {
		return
	}
	b, err := json.Marshal(value)
	if err != nil {
		log.Printf("[WARN] Önbellek için JSON üretilemedi (%s): %v", key, err)
		return
	}
	if err := client.Set(ctx, key, b, snapshotTTL).Err(); err != nil {
		log.Printf("[WARN] Önbelleğe yazılamadı (%s): %v", key, err)
	}
}

// GetJSON: değeri okuyup dest'e çözer. Bulunamazsa false döner.
func GetJSON(ctx context.Context, key string, dest any) bool {
	if client == nil {
		return false
	}
	b, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(b, dest); err != nil {
		log.Printf("[WARN] Önbellekteki veri çözülemedi (%s): %v", key, err)
		return false
	}
	return true
}

// AppendJSON: bir listeye kayıt ekler (sipariş geçmişi için).
func AppendJSON(ctx context.Context, key string, value any) {
	if client == nil {
		return
	}
	b, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := client.RPush(ctx, key, b).Err(); err != nil {
		log.Printf("[WARN] Önbellek listesine eklenemedi (%s): %v", key, err)
	}
}
