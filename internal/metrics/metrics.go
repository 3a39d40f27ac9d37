package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "masapos_orders_placed_total",
		Help: "Oluşturulan veya güncellenen sipariş sayısı",
	})

	OrdersCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "masapos_orders_cancelled_total",
		Help: "İptal edilen sipariş sayısı",
	})

	PaymentsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "masapos_payments_processed_total",
		Help: "İşlenen ödeme sayısı",
	})

	ReservationCorrections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "masapos_reservation_corrections_total",
		Help: "Süresi geçen/tutarsız rezervasyonlar için yapılan düzeltme sayısı",
	})

	OrderRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "masapos_order_retries_total",
		Help: "Geçici hata sonrası tekrar denenen sipariş işlemi sayısı",
	})

	AvailabilityRefresh = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "masapos_availability_refresh_seconds",
		Help:    "Satılabilir miktar yenileme süresi",
		Buckets: prometheus.DefBuckets,
	})
)
