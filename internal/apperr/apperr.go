// Package apperr, hata sınıflandırmasını tek noktada toplar. Handler'lar ve
// servisler ham hata mesajı üzerinde string araması yapmaz; hatanın türü
// burada bir kez belirlenir ve geri kalan katmanlar Kind üzerinden çalışır.
package apperr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindConflict  // foreign key, unique ihlalleri
	KindTransient // geçici transaction hataları, retry edilebilir
)

type Error struct {
	Kind    Kind
	Message string // kullanıcıya gösterilecek mesaj (Türkçe)
	Err     error  // alttaki ham hata
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf: hatanın türünü döner. *Error değilse Classify ile çözümlenir.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Classify(err).Kind
}

// IsTransient: retry edilebilir bir hata mı?
func IsTransient(err error) bool { return KindOf(err) == KindTransient }

// Classify: ham bir veritabanı/sürücü hatasını türüne göre sınıflar. Mesaj
// içeriğine bakan tek yer burasıdır; Postgres sürücüsü yapısal kod vermediği
// durumlar için son çare olarak mesaja bakılır.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Wrap(KindNotFound, "Kayıt bulunamadı", err)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return Wrap(KindConflict, "Bu kayıt zaten mevcut", err)
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return Wrap(KindConflict, "Kayıt başka kayıtlar tarafından kullanılıyor", err)
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "deadlock") || strings.Contains(msg, "could not serialize") || strings.Contains(msg, "transaction"):
		return Wrap(KindTransient, "Geçici bir veritabanı hatası oluştu, tekrar deneniyor", err)
	case strings.Contains(msg, "duplicate key"):
		return Wrap(KindConflict, "Bu kayıt zaten mevcut", err)
	case strings.Contains(msg, "foreign key"):
		return Wrap(KindConflict, "Kayıt başka kayıtlar tarafından kullanılıyor", err)
	}

	return Wrap(KindInternal, "Beklenmeyen bir hata oluştu", err)
}

// ToFiber: hatayı HTTP cevabına çevirir.
func ToFiber(err error) error {
	ae := Classify(err)
	switch ae.Kind {
	case KindValidation:
		return fiber.NewError(fiber.StatusBadRequest, ae.Message)
	case KindNotFound:
		return fiber.NewError(fiber.StatusNotFound, ae.Message)
	case KindUnauthorized:
		return fiber.NewError(fiber.StatusUnauthorized, ae.Message)
	case KindForbidden:
		return fiber.NewError(fiber.StatusForbidden, ae.Message)
	case KindConflict:
		return fiber.NewError(fiber.StatusConflict, ae.Message)
	default:
		return fiber.NewError(fiber.StatusInternalServerError, ae.Message)
	}
}
