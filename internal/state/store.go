// Package state, UI'ya görünen masa durumu ve ürün satılabilirlik
// aynalarını tek yetkili mağazada toplar. Yazmalar iyimser delta olarak
// hemen uygulanır ve bekleyen işlem kuyruğuna kaydedilir; periyodik
// senkronda gelen yetkili anlık görüntü aynayı ezer ve kuyruğu boşaltır.
// Böylece başarısız bir iyimser güncelleme bir sonraki senkronda kendini
// düzeltir.
package state

import (
	"sync"
	"time"

	"masapos-backend/internal/models"
)

type OpKind string

const (
	OpOrderPlaced    OpKind = "order_placed"
	OpOrderCancelled OpKind = "order_cancelled"
	OpOrderPaid      OpKind = "order_paid"
)

// PendingOp: son yetkili senkrondan bu yana uygulanan iyimser değişiklik.
type PendingOp struct {
	Kind      OpKind    `json:"kind"`
	TableID   uint      `json:"table_id"`
	AppliedAt time.Time `json:"applied_at"`
}

// Snapshot: yetkili kaynaktan (veritabanı) alınan tam görüntü.
type Snapshot struct {
	Availability map[uint]int                `json:"availability"` // productID -> satılabilir adet
	TableStatus  map[uint]models.TableStatus `json:"tableStatus"`  // tableID -> durum
	TakenAt      time.Time                   `json:"takenAt"`
}

type Store struct {
	mu           sync.RWMutex
	availability map[uint]int
	tableStatus  map[uint]models.TableStatus
	pending      []PendingOp
	lastSync     time.Time
}

func NewStore() *Store {
	return &Store{
		availability: make(map[uint]int),
		tableStatus:  make(map[uint]models.TableStatus),
	}
}

// Availability: ürünün ayna üzerindeki satılabilir adedi.
func (s *Store) Availability(productID uint) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.availability[productID]
	return n, ok
}

// AllAvailability: aynanın kopyası (handler cevapları için).
func (s *Store) AllAvailability() map[uint]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[uint]int, len(s.availability))
	for k, v := range s.availability {
		out[k] = v
	}
	return out
}

// TableStatus: masanın ayna üzerindeki durumu.
func (s *Store) TableStatus(tableID uint) (models.TableStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.tableStatus[tableID]
	return st, ok
}

// ApplyOrderPlaced: sipariş sonrası iyimser güncelleme. deltas ürün başına
// satılan adettir; satılabilirlik düşer, masa dolu işaretlenir.
func (s *Store) ApplyOrderPlaced(tableID uint, deltas map[uint]int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for productID, count := range deltas {
		if cur, ok := s.availability[productID]; ok {
			next := cur - count
			if next < 0 {
				next = 0
			}
			s.availability[productID] = next
		}
	}
	s.tableStatus[tableID] = models.TableOccupied
	s.pending = append(s.pending, PendingOp{Kind: OpOrderPlaced, TableID: tableID, AppliedAt: time.Now()})
}

// ApplyOrderCancelled: iptal sonrası iyimser güncelleme; satılabilirlik
// geri verilir, masa boşaltılır.
func (s *Store) ApplyOrderCancelled(tableID uint, deltas map[uint]int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for productID, count := range deltas {
		if cur, ok := s.availability[productID]; ok {
			s.availability[productID] = cur + count
		}
	}
	s.tableStatus[tableID] = models.TableAvailable
	s.pending = append(s.pending, PendingOp{Kind: OpOrderCancelled, TableID: tableID, AppliedAt: time.Now()})
}

// ApplyOrderPaid: ödeme sonrası masa boşaltılır, satılabilirlik değişmez
// (stok zaten sipariş anında düşmüştü).
func (s *Store) ApplyOrderPaid(tableID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tableStatus[tableID] = models.TableAvailable
	s.pending = append(s.pending, PendingOp{Kind: OpOrderPaid, TableID: tableID, AppliedAt: time.Now()})
}

// Reconcile: yetkili anlık görüntü aynayı tamamen ezer ve bekleyen işlem
// kuyruğunu boşaltır.
func (s *Store) Reconcile(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.availability = make(map[uint]int, len(snap.Availability))
	for k, v := range snap.Availability {
		s.availability[k] = v
	}
	s.tableStatus = make(map[uint]models.TableStatus, len(snap.TableStatus))
	for k, v := range snap.TableStatus {
		s.tableStatus[k] = v
	}
	s.pending = nil
	s.lastSync = snap.TakenAt
}

// Pending: bekleyen iyimser işlemlerin kopyası.
func (s *Store) Pending() []PendingOp {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]PendingOp, len(s.pending))
	copy(out, s.pending)
	return out
}

// Export: aynanın anlık görüntüsü (önbelleğe yazmak için).
func (s *Store) Export() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		Availability: make(map[uint]int, len(s.availability)),
		TableStatus:  make(map[uint]models.TableStatus, len(s.tableStatus)),
		TakenAt:      s.lastSync,
	}
	for k, v := range s.availability {
		snap.Availability[k] = v
	}
	for k, v := range s.tableStatus {
		snap.TableStatus[k] = v
	}
	return snap
}

// LastSync: son yetkili senkron zamanı.
func (s *Store) LastSync() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSync
}
