package tables

import (
	"testing"
	"time"

	"masapos-backend/internal/models"
)

func mustLoc(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Istanbul")
	if err != nil {
		t.Fatalf("zaman dilimi yüklenemedi: %v", err)
	}
	return loc
}

func resAt(at time.Time, special bool) *models.Reservation {
	return &models.Reservation{
		Date:    at.Format("2006-01-02"),
		Time:    at.Format("15:04"),
		Special: special,
	}
}

func TestResolveOccupiedAndAvailable(t *testing.T) {
	loc := mustLoc(t)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, loc)

	if got, fix := Resolve(models.TableOccupied, nil, now, loc); got != StatusOccupied || fix {
		t.Errorf("occupied -> (%s, %v), beklenen (occupied, false)", got, fix)
	}
	if got, fix := Resolve(models.TableAvailable, nil, now, loc); got != StatusEmpty || fix {
		t.Errorf("available -> (%s, %v), beklenen (empty, false)", got, fix)
	}
}

func TestResolveReservedWindows(t *testing.T) {
	loc := mustLoc(t)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, loc)

	cases := []struct {
		name    string
		at      time.Time
		special bool
		want    DisplayStatus
		wantFix bool
	}{
		{"geçmiş rezervasyon", now.Add(-time.Hour), false, StatusEmpty, true},
		{"geçmiş özel rezervasyon", now.Add(-time.Minute), true, StatusEmpty, true},
		{"özel, 30 dk kala", now.Add(30 * time.Minute), true, StatusReservedSpecial, false},
		{"özel, 59 dk kala", now.Add(59 * time.Minute), true, StatusReservedSpecial, false},
		{"özel, 2 saat kala", now.Add(2 * time.Hour), true, StatusReserved, false},
		{"normal, 30 dk kala", now.Add(30 * time.Minute), false, StatusReserved, false},
		{"normal, 23 saat kala", now.Add(23 * time.Hour), false, StatusReserved, false},
		{"normal, 25 saat kala", now.Add(25 * time.Hour), false, StatusReservedFar, false},
		{"özel, 25 saat kala", now.Add(25 * time.Hour), true, StatusReservedFar, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, fix := Resolve(models.TableReserved, resAt(tc.at, tc.special), now, loc)
			if got != tc.want || fix != tc.wantFix {
				t.Errorf("Resolve = (%s, %v), beklenen (%s, %v)", got, fix, tc.want, tc.wantFix)
			}
		})
	}
}

func TestResolveReservedWithoutRecord(t *testing.T) {
	loc := mustLoc(t)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, loc)

	got, fix := Resolve(models.TableReserved, nil, now, loc)
	if got != StatusEmpty || !fix {
		t.Errorf("kayıtsız rezerve masa -> (%s, %v), beklenen (empty, true)", got, fix)
	}
}

func TestResolveUnparsableReservation(t *testing.T) {
	loc := mustLoc(t)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, loc)
	res := &models.Reservation{Date: "bozuk", Time: "veri"}

	got, fix := Resolve(models.TableReserved, res, now, loc)
	if got != StatusEmpty || !fix {
		t.Errorf("çözülemeyen tarih -> (%s, %v), beklenen (empty, true)", got, fix)
	}
}

// Aynı girdiyle tekrar tekrar çağrılan çözümleme hep aynı sonucu vermeli.
func TestResolveIdempotent(t *testing.T) {
	loc := mustLoc(t)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, loc)
	res := resAt(now.Add(45*time.Minute), true)

	first, firstFix := Resolve(models.TableReserved, res, now, loc)
	for i := 0; i < 5; i++ {
		got, fix := Resolve(models.TableReserved, res, now, loc)
		if got != first || fix != firstFix {
			t.Fatalf("%d. çağrıda sonuç değişti: (%s, %v) != (%s, %v)", i+1, got, fix, first, firstFix)
		}
	}
}

// Süresi geçmiş rezervasyonun yanında geleceğe ait ikinci bir rezervasyon
// varsa düzeltme yalnızca geçmiş olanı kapatmalı ve masa rezerve kalmalı.
func TestPlanCorrectionKeepsFutureReservation(t *testing.T) {
	loc := mustLoc(t)
	now := time.Date(2026, 9, 1, 14, 0, 0, 0, loc)

	past := resAt(now.Add(-2*time.Hour), false)
	past.ID = 1
	future := resAt(now.Add(30*time.Hour), false)
	future.ID = 2

	expired, status := planCorrection([]models.Reservation{*past, *future}, now, loc)

	if len(expired) != 1 || expired[0] != 1 {
		t.Errorf("yalnızca geçmiş rezervasyon kapatılmalı, kapatılan: %v", expired)
	}
	if status != models.TableReserved {
		t.Errorf("gelecek rezervasyonu olan masa rezerve kalmalı, gelen %s", status)
	}
}

func TestPlanCorrectionAllExpired(t *testing.T) {
	loc := mustLoc(t)
	now := time.Date(2026, 9, 1, 14, 0, 0, 0, loc)

	a := resAt(now.Add(-3*time.Hour), false)
	a.ID = 1
	b := resAt(now.Add(-time.Minute), true)
	b.ID = 2

	expired, status := planCorrection([]models.Reservation{*a, *b}, now, loc)

	if len(expired) != 2 {
		t.Errorf("her iki rezervasyon da kapatılmalı, kapatılan: %v", expired)
	}
	if status != models.TableAvailable {
		t.Errorf("aktif rezervasyonu kalmayan masa boşaltılmalı, gelen %s", status)
	}
}

func TestPlanCorrectionUnparsableTreatedAsExpired(t *testing.T) {
	loc := mustLoc(t)
	now := time.Date(2026, 9, 1, 14, 0, 0, 0, loc)

	broken := models.Reservation{ID: 7, Date: "bozuk", Time: "veri"}
	future := *resAt(now.Add(time.Hour), false)
	future.ID = 8

	expired, status := planCorrection([]models.Reservation{broken, future}, now, loc)

	if len(expired) != 1 || expired[0] != 7 {
		t.Errorf("çözülemeyen rezervasyon kapatılmalı, kapatılan: %v", expired)
	}
	if status != models.TableReserved {
		t.Errorf("masa rezerve kalmalı, gelen %s", status)
	}
}

// Aynı girdiyle ikinci plan hiçbir kayda dokunmamalı.
func TestPlanCorrectionIdempotent(t *testing.T) {
	loc := mustLoc(t)
	now := time.Date(2026, 9, 1, 14, 0, 0, 0, loc)

	future := *resAt(now.Add(30*time.Hour), false)
	future.ID = 2

	// İlk düzeltme sonrası kalan aktif kümesi: yalnızca gelecek rezervasyon
	expired, status := planCorrection([]models.Reservation{future}, now, loc)

	if len(expired) != 0 {
		t.Errorf("ikinci geçişte kapatılacak rezervasyon olmamalı: %v", expired)
	}
	if status != models.TableReserved {
		t.Errorf("masa rezerve kalmalı, gelen %s", status)
	}
}
