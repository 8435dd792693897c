package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StockMetrics counts medicine units leaving stock, split by reason.
type StockMetrics struct {
	used      *prometheus.CounterVec
	expired   *prometheus.CounterVec
	sweptRows prometheus.Counter
}

// NewStockMetrics registers the stock counters on the provided registerer.
func NewStockMetrics(reg prometheus.Registerer) *StockMetrics {
	if reg == nil {
		return &StockMetrics{}
	}
	used := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "obat",
		Name:      "units_used_total",
		Help:      "Medicine units recorded as used.",
	}, []string{"lokasi"})
	expired := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "obat",
		Name:      "units_expired_total",
		Help:      "Medicine units removed by the expiry sweep.",
	}, []string{"lokasi"})
	sweptRows := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "obat",
		Name:      "sweep_items_total",
		Help:      "Medicine rows zeroed by the expiry sweep.",
	})
	reg.MustRegister(used, expired, sweptRows)
	return &StockMetrics{used: used, expired: expired, sweptRows: sweptRows}
}

// AddUsed records units consumed through a usage entry.
func (s *StockMetrics) AddUsed(lokasi string, units int) {
	if s == nil || s.used == nil || units <= 0 {
		return
	}
	s.used.WithLabelValues(normalizeLabel(lokasi)).Add(float64(units))
}

// AddExpired records one swept row and the units it held.
func (s *StockMetrics) AddExpired(lokasi string, units int) {
	if s == nil || s.expired == nil || units <= 0 {
		return
	}
	s.expired.WithLabelValues(normalizeLabel(lokasi)).Add(float64(units))
	s.sweptRows.Inc()
}
