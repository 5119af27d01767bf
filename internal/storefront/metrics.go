package storefront

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the storefront domain counters, separate from the HTTP kit
// metrics. A nil *Metrics is valid and counts nothing.
type Metrics struct {
	CartOps      *prometheus.CounterVec
	CatalogLoads *prometheus.CounterVec
}

func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		CartOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_cart_operations_total",
				Help: "Cart ledger mutations by operation",
			},
			[]string{"op"},
		),
		CatalogLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_catalog_loads_total",
				Help: "Catalog load attempts by result",
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(m.CartOps, m.CatalogLoads)
	return m
}

func (m *Metrics) cartOp(op string) {
	if m == nil {
		return
	}
	m.CartOps.WithLabelValues(op).Inc()
}

func (m *Metrics) catalogLoad(result string) {
	if m == nil {
		return
	}
	m.CatalogLoads.WithLabelValues(result).Inc()
}
