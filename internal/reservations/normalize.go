package reservations

import (
	"fmt"
	"strings"
	"time"
)

// UI'dan gelen tarih/saat değerleri çeşitli biçimlerde olabiliyor; kayıttan
// önce hepsi tek kanonik biçime indirgenir: YYYY-MM-DD ve HH:mm.

var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"02/01/2006",
	"2006/01/02",
}

var timeLayouts = []string{
	"15:04",
	"15:04:05",
}

// NormalizeDate: desteklenen tarih biçimlerinden birini "YYYY-MM-DD" yapar.
func NormalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("tarih biçimi tanınamadı: %q", s)
}

// NormalizeTime: desteklenen saat biçimlerinden birini "HH:mm" yapar.
func NormalizeTime(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04"), nil
		}
	}
	return "", fmt.Errorf("saat biçimi tanınamadı: %q", s)
}
