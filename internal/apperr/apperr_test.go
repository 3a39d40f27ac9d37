package apperr

import (
	"errors"
	"testing"

	"gorm.io/gorm"
)

func TestClassifyGormErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"kayıt yok", gorm.ErrRecordNotFound, KindNotFound},
		{"unique ihlali", gorm.ErrDuplicatedKey, KindConflict},
		{"foreign key ihlali", gorm.ErrForeignKeyViolated, KindConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.err).Kind; got != tc.want {
				t.Errorf("Classify kind = %d, beklenen %d", got, tc.want)
			}
		})
	}
}

func TestClassifyTransientMessages(t *testing.T) {
	cases := []string{
		"ERROR: deadlock detected (SQLSTATE 40P01)",
		"ERROR: could not serialize access due to concurrent update",
		"current transaction is aborted",
	}
	for _, msg := range cases {
		err := errors.New(msg)
		if !IsTransient(err) {
			t.Errorf("%q geçici sayılmalıydı", msg)
		}
	}
}

func TestClassifyUnknownIsInternal(t *testing.T) {
	err := errors.New("bambaşka bir hata")
	ae := Classify(err)
	if ae.Kind != KindInternal {
		t.Errorf("bilinmeyen hata internal olmalı, gelen %d", ae.Kind)
	}
	if IsTransient(err) {
		t.Error("bilinmeyen hata geçici sayılmamalı")
	}
}

func TestClassifyPreservesExisting(t *testing.T) {
	orig := New(KindValidation, "Stok yetersiz")
	if got := Classify(orig); got != orig {
		t.Error("zaten sınıflanmış hata olduğu gibi dönmeli")
	}

	wrapped := Wrap(KindConflict, "çakışma", errors.New("alt hata"))
	if got := KindOf(wrapped); got != KindConflict {
		t.Errorf("sarılı hatanın türü korunmalı, gelen %d", got)
	}
}

func TestClassifyNil(t *testing.T) {
	if got := Classify(nil); got != nil {
		t.Errorf("nil hata nil dönmeli, gelen %v", got)
	}
}

func TestErrorUnwrap(t *testing.T) {
	inner := gorm.ErrRecordNotFound
	ae := Wrap(KindNotFound, "Kayıt bulunamadı", inner)
	if !errors.Is(ae, gorm.ErrRecordNotFound) {
		t.Error("errors.Is alttaki hatayı görmeli")
	}
}
