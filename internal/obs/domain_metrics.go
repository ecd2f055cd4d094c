package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// InvoicesGeneratedTotal counts priced invoices.
	InvoicesGeneratedTotal prometheus.Counter
	// InvoiceItemsSkippedTotal counts line items dropped because the catalog did not know them.
	InvoiceItemsSkippedTotal prometheus.Counter
	// InvoiceArchiveTotal counts invoice archive writes by outcome.
	InvoiceArchiveTotal *prometheus.CounterVec
	// SKUConflictsTotal counts batch entries that needed a numeric suffix.
	SKUConflictsTotal prometheus.Counter
	// BreakerState reports circuit breaker state per target: 0=closed, 1=open, 2=half-open.
	BreakerState *prometheus.GaugeVec
	// BreakerTransitionsTotal counts circuit breaker state changes.
	BreakerTransitionsTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		InvoicesGeneratedTotal = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoices_generated_total",
			Help:      "Number of invoices priced.",
		}))
		InvoiceItemsSkippedTotal = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoice_items_skipped_total",
			Help:      "Prescription items skipped because the medicine was not in the catalog.",
		}))
		InvoiceArchiveTotal = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoice_archive_total",
			Help:      "Invoice archive writes by outcome.",
		}, []string{"result"}))
		SKUConflictsTotal = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sku_conflicts_total",
			Help:      "Batch SKU assignments that required a conflict suffix.",
		}))
		BreakerState = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "breaker_state",
			Help:      "Current breaker state: 0=closed, 1=open, 2=half-open.",
		}, []string{"target"}))
		BreakerTransitionsTotal = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "breaker_transition_total",
			Help:      "Circuit breaker state transitions.",
		}, []string{"target", "from", "to"}))
	})
}
