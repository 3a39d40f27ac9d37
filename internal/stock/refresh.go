package stock

import (
	"context"
	"log"
	"time"

	"masapos-backend/internal/cache"
	"masapos-backend/internal/database"
	"masapos-backend/internal/metrics"
	"masapos-backend/internal/models"
	"masapos-backend/internal/state"
)

// AvailableQuantities: yetkili satılabilirlik rakamları. Ayna yerine
// doğrudan veritabanındaki güncel stok ve tariflerden hesaplanır; ayna
// eskimiş olsa da bu sonuç doğrudur ve aynayı ezer.
func AvailableQuantities() (map[uint]int, error) {
	var ingredients []models.Ingredient
	if err := database.DB.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	stocks := make(map[uint]float64, len(ingredients))
	for _, ing := range ingredients {
		stocks[ing.ID] = ing.StockQuantity
	}

	var products []models.Product
	if err := database.DB.Preload("Recipe").Where("is_active = ?", true).Find(&products).Error; err != nil {
		return nil, err
	}

	return ComputeAll(products, stocks), nil
}

// BuildSnapshot: veritabanından tam yetkili anlık görüntü üretir.
func BuildSnapshot() (state.Snapshot, error) {
	snap := state.Snapshot{TakenAt: time.Now()}

	avail, err := AvailableQuantities()
	if err != nil {
		return snap, err
	}
	snap.Availability = avail

	var tables []models.DiningTable
	if err := database.DB.Find(&tables).Error; err != nil {
		return snap, err
	}
	snap.TableStatus = make(map[uint]models.TableStatus, len(tables))
	for _, t := range tables {
		snap.TableStatus[t.ID] = t.Status
	}

	return snap, nil
}

// Refresh: yetkili görüntüyü çekip aynayı ezer ve önbelleğe yazar.
// Hem 2 dakikalık zamanlayıcı hem de sipariş etkileyen her mutasyon
// sonrası çağrılır.
func Refresh(store *state.Store) {
	start := time.Now()
	snap, err := BuildSnapshot()
	if err != nil {
		log.Printf("Satılabilirlik yenilenemedi: %v", err)
		return
	}
	store.Reconcile(snap)
	metrics.AvailabilityRefresh.Observe(time.Since(start).Seconds())

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	cache.PutJSON(ctx, cache.KeyTableStatus, snap.TableStatus)
	cache.PutJSON(ctx, cache.KeyAvailableQty, snap.Availability)
}

// WarmFromCache: açılışta Redis'teki son görüntüyle aynayı doldurur.
// Önbellek boşsa sessizce geçilir; ilk Refresh zaten yetkili veriyi getirir.
func WarmFromCache(store *state.Store) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	snap := state.Snapshot{
		Availability: make(map[uint]int),
		TableStatus:  make(map[uint]models.TableStatus),
	}
	okA := cache.GetJSON(ctx, cache.KeyAvailableQty, &snap.Availability)
	okT := cache.GetJSON(ctx, cache.KeyTableStatus, &snap.TableStatus)
	if !okA && !okT {
		return
	}
	snap.TakenAt = time.Now()
	store.Reconcile(snap)
	log.Println("Ayna önbellekten ısıtıldı")
}
