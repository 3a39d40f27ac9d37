package orders

import (
	"time"

	"masapos-backend/internal/apperr"
	"masapos-backend/internal/metrics"
)

const maxRetries = 2

// sleep test edilebilirlik için değiştirilebilir
var sleep = time.Sleep

// withRetry: geçici transaction hatalarında işlemi en fazla iki kez,
// doğrusal artan bekleme ile (1s, 2s) tekrar dener. Diğer hatalar olduğu
// gibi döner.
func withRetry(fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil || !apperr.IsTransient(err) || attempt >= maxRetries {
			return err
		}
		metrics.OrderRetries.Inc()
		sleep(time.Duration(attempt+1) * time.Second)
	}
}
