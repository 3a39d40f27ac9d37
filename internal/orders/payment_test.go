package orders

import (
	"errors"
	"testing"

	"masapos-backend/internal/models"
)

func TestWritePaymentRecordSwallowsForGarson(t *testing.T) {
	p := &models.Payment{Reference: "ref-1"}
	fail := func(*models.Payment) error { return errors.New("insert hatası") }

	if err := writePaymentRecord(fail, p, "SIP-1", false); err != nil {
		t.Errorf("garson için yazma hatası yutulmalı, kapanış sürmeli; gelen %v", err)
	}
}

func TestWritePaymentRecordPropagatesForAdmin(t *testing.T) {
	p := &models.Payment{Reference: "ref-2"}
	insertErr := errors.New("insert hatası")
	fail := func(*models.Payment) error { return insertErr }

	err := writePaymentRecord(fail, p, "SIP-2", true)
	if !errors.Is(err, insertErr) {
		t.Errorf("yetkili rolde hata olduğu gibi dönmeli, gelen %v", err)
	}
}

func TestWritePaymentRecordSuccess(t *testing.T) {
	p := &models.Payment{Reference: "ref-3"}
	var written *models.Payment
	ok := func(pay *models.Payment) error {
		written = pay
		return nil
	}

	if err := writePaymentRecord(ok, p, "SIP-3", false); err != nil {
		t.Fatalf("hata beklenmiyordu: %v", err)
	}
	if written != p {
		t.Error("ödeme kaydı yazma fonksiyonuna ulaşmalı")
	}
}
