package orders

import (
	"errors"
	"testing"
	"time"

	"masapos-backend/internal/apperr"
)

// sleep'i sahteye çevirip bekleme sürelerini kaydeder.
func captureSleeps(t *testing.T) *[]time.Duration {
	t.Helper()
	var slept []time.Duration
	orig := sleep
	sleep = func(d time.Duration) { slept = append(slept, d) }
	t.Cleanup(func() { sleep = orig })
	return &slept
}

func TestWithRetrySucceedsFirstTry(t *testing.T) {
	slept := captureSleeps(t)

	calls := 0
	err := withRetry(func() error {
		calls++
		return nil
	})

	if err != nil {
		t.Fatalf("hata beklenmiyordu: %v", err)
	}
	if calls != 1 {
		t.Errorf("tek çağrı beklenirken %d çağrı yapıldı", calls)
	}
	if len(*slept) != 0 {
		t.Errorf("başarılı işlemde bekleme olmamalı: %v", *slept)
	}
}

func TestWithRetryTransientRecovers(t *testing.T) {
	slept := captureSleeps(t)

	calls := 0
	err := withRetry(func() error {
		calls++
		if calls < 3 {
			return apperr.New(apperr.KindTransient, "Geçici bir veritabanı hatası oluştu")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("hata beklenmiyordu: %v", err)
	}
	if calls != 3 {
		t.Errorf("3 çağrı beklenirken %d çağrı yapıldı", calls)
	}
	want := []time.Duration{1 * time.Second, 2 * time.Second}
	if len(*slept) != len(want) || (*slept)[0] != want[0] || (*slept)[1] != want[1] {
		t.Errorf("bekleme süreleri %v, beklenen %v", *slept, want)
	}
}

func TestWithRetryGivesUpAfterMax(t *testing.T) {
	slept := captureSleeps(t)

	calls := 0
	transient := apperr.New(apperr.KindTransient, "deadlock")
	err := withRetry(func() error {
		calls++
		return transient
	})

	if !errors.Is(err, transient) {
		t.Fatalf("son hata dönmeli, gelen %v", err)
	}
	if calls != maxRetries+1 {
		t.Errorf("%d çağrı beklenirken %d çağrı yapıldı", maxRetries+1, calls)
	}
	if len(*slept) != maxRetries {
		t.Errorf("%d bekleme beklenirken %d oldu", maxRetries, len(*slept))
	}
}

func TestWithRetryNonTransientFailsFast(t *testing.T) {
	slept := captureSleeps(t)

	calls := 0
	err := withRetry(func() error {
		calls++
		return apperr.New(apperr.KindValidation, "Stok yetersiz")
	})

	if err == nil {
		t.Fatal("hata dönmeli")
	}
	if calls != 1 {
		t.Errorf("kalıcı hatada tekrar denenmemeli, %d çağrı yapıldı", calls)
	}
	if len(*slept) != 0 {
		t.Errorf("kalıcı hatada bekleme olmamalı: %v", *slept)
	}
}
