package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// POSMetrics contadores de negocio del punto de venta.
type POSMetrics struct {
	sales          *prometheus.CounterVec
	salesAmount    prometheus.Counter
	movements      *prometheus.CounterVec
	sessionsClosed *prometheus.CounterVec
	audits         *prometheus.CounterVec
}

// NewPOSMetrics registra las métricas en reg. Con reg nil devuelve un recolector inerte.
func NewPOSMetrics(reg prometheus.Registerer) *POSMetrics {
	if reg == nil {
		return &POSMetrics{}
	}
	sales := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pdv_sales_total",
		Help: "Sales by final status.",
	}, []string{"status"})
	salesAmount := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pdv_sales_net_amount_total",
		Help: "Net amount of completed sales.",
	})
	movements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pdv_stock_movements_total",
		Help: "Stock movements by type.",
	}, []string{"type"})
	sessionsClosed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pdv_cash_sessions_closed_total",
		Help: "Closed cash sessions by reconciliation result.",
	}, []string{"result"})
	audits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pdv_audit_entries_total",
		Help: "Audit entries by action.",
	}, []string{"action"})
	reg.MustRegister(sales, salesAmount, movements, sessionsClosed, audits)
	return &POSMetrics{
		sales:          sales,
		salesAmount:    salesAmount,
		movements:      movements,
		sessionsClosed: sessionsClosed,
		audits:         audits,
	}
}

// SaleCompleted cuenta una venta concluida y suma su total líquido.
func (m *POSMetrics) SaleCompleted(net decimal.Decimal) {
	if m == nil || m.sales == nil {
		return
	}
	m.sales.WithLabelValues("CONCLUIDA").Inc()
	m.salesAmount.Add(net.InexactFloat64())
}

// SaleCancelled cuenta una cancelación.
func (m *POSMetrics) SaleCancelled() {
	if m == nil || m.sales == nil {
		return
	}
	m.sales.WithLabelValues("CANCELADA").Inc()
}

// StockMovement cuenta un movimiento por tipo.
func (m *POSMetrics) StockMovement(kind string) {
	if m == nil || m.movements == nil {
		return
	}
	m.movements.WithLabelValues(normalizeLabel(kind)).Inc()
}

// SessionClosed cuenta un cierre de caja; discrepancy marca arqueo con diferencia.
func (m *POSMetrics) SessionClosed(discrepancy bool) {
	if m == nil || m.sessionsClosed == nil {
		return
	}
	result := "ok"
	if discrepancy {
		result = "discrepancy"
	}
	m.sessionsClosed.WithLabelValues(result).Inc()
}

// AuditRecorded cuenta una entrada de auditoría.
func (m *POSMetrics) AuditRecorded(action string) {
	if m == nil || m.audits == nil {
		return
	}
	m.audits.WithLabelValues(normalizeLabel(action)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
