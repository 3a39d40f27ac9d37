package state

import (
	"testing"
	"time"

	"masapos-backend/internal/models"
)

func seededStore() *Store {
	s := NewStore()
	s.Reconcile(Snapshot{
		Availability: map[uint]int{1: 5, 2: 8},
		TableStatus:  map[uint]models.TableStatus{10: models.TableAvailable},
		TakenAt:      time.Now(),
	})
	return s
}

func TestApplyOrderPlaced(t *testing.T) {
	s := seededStore()

	s.ApplyOrderPlaced(10, map[uint]int{1: 3})

	if n, _ := s.Availability(1); n != 2 {
		t.Errorf("satılabilirlik 2 olmalı, gelen %d", n)
	}
	if n, _ := s.Availability(2); n != 8 {
		t.Errorf("dokunulmayan ürün değişmemeli, gelen %d", n)
	}
	if st, _ := s.TableStatus(10); st != models.TableOccupied {
		t.Errorf("masa occupied olmalı, gelen %s", st)
	}
	pending := s.Pending()
	if len(pending) != 1 || pending[0].Kind != OpOrderPlaced || pending[0].TableID != 10 {
		t.Errorf("bekleyen işlem kuyruğu yanlış: %+v", pending)
	}
}

func TestApplyOrderPlacedClampsAtZero(t *testing.T) {
	s := seededStore()

	s.ApplyOrderPlaced(10, map[uint]int{1: 99})

	if n, _ := s.Availability(1); n != 0 {
		t.Errorf("satılabilirlik eksiye düşmemeli, gelen %d", n)
	}
}

func TestApplyOrderCancelledRestores(t *testing.T) {
	s := seededStore()
	s.ApplyOrderPlaced(10, map[uint]int{1: 3})

	s.ApplyOrderCancelled(10, map[uint]int{1: 3})

	if n, _ := s.Availability(1); n != 5 {
		t.Errorf("iptal sonrası satılabilirlik 5 olmalı, gelen %d", n)
	}
	if st, _ := s.TableStatus(10); st != models.TableAvailable {
		t.Errorf("iptal sonrası masa boş olmalı, gelen %s", st)
	}
	if got := len(s.Pending()); got != 2 {
		t.Errorf("iki bekleyen işlem olmalı, gelen %d", got)
	}
}

func TestApplyOrderPaidFreesTable(t *testing.T) {
	s := seededStore()
	s.ApplyOrderPlaced(10, map[uint]int{1: 2})

	s.ApplyOrderPaid(10)

	if st, _ := s.TableStatus(10); st != models.TableAvailable {
		t.Errorf("ödeme sonrası masa boş olmalı, gelen %s", st)
	}
	// Ödeme satılabilirliği geri vermez, stok zaten sipariş anında düştü
	if n, _ := s.Availability(1); n != 3 {
		t.Errorf("ödeme satılabilirliği değiştirmemeli, gelen %d", n)
	}
}

// Yetkili senkron aynayı ezer: yanlış kalmış iyimser güncellemeler silinir
// ve kuyruk boşalır.
func TestReconcileOverwritesAndDrainsQueue(t *testing.T) {
	s := seededStore()
	s.ApplyOrderPlaced(10, map[uint]int{1: 5, 2: 5})

	syncedAt := time.Now()
	s.Reconcile(Snapshot{
		Availability: map[uint]int{1: 4, 2: 7},
		TableStatus:  map[uint]models.TableStatus{10: models.TableOccupied},
		TakenAt:      syncedAt,
	})

	if n, _ := s.Availability(1); n != 4 {
		t.Errorf("senkron sonrası satılabilirlik 4 olmalı, gelen %d", n)
	}
	if n, _ := s.Availability(2); n != 7 {
		t.Errorf("senkron sonrası satılabilirlik 7 olmalı, gelen %d", n)
	}
	if got := len(s.Pending()); got != 0 {
		t.Errorf("senkron kuyruğu boşaltmalı, kalan %d", got)
	}
	if !s.LastSync().Equal(syncedAt) {
		t.Errorf("son senkron zamanı güncellenmeli")
	}
}

func TestExportIsACopy(t *testing.T) {
	s := seededStore()

	snap := s.Export()
	snap.Availability[1] = 999

	if n, _ := s.Availability(1); n != 5 {
		t.Errorf("export kopyası mağazayı etkilememeli, gelen %d", n)
	}
}
