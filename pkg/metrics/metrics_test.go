package metrics

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPOSMetrics_Contadores(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPOSMetrics(reg)

	m.SaleCompleted(decimal.RequireFromString("12.50"))
	m.SaleCompleted(decimal.RequireFromString("7.50"))
	m.SaleCancelled()
	m.StockMovement("SAIDA")
	m.SessionClosed(true)
	m.AuditRecorded("")

	mfs, err := reg.Gather()
	require.NoError(t, err)

	v, err := fetchCounterValue(mfs, "pdv_sales_total", "status", "CONCLUIDA")
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	v, err = fetchCounterValue(mfs, "pdv_sales_total", "status", "CANCELADA")
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	amount := findMetricFamily(mfs, "pdv_sales_net_amount_total")
	require.NotNil(t, amount)
	assert.Equal(t, 20.0, amount.GetMetric()[0].GetCounter().GetValue())

	v, err = fetchCounterValue(mfs, "pdv_cash_sessions_closed_total", "result", "discrepancy")
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	v, err = fetchCounterValue(mfs, "pdv_audit_entries_total", "action", "unknown")
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
}

func TestPOSMetrics_NilSeguro(t *testing.T) {
	var m *POSMetrics
	assert.NotPanics(t, func() {
		m.SaleCompleted(decimal.Zero)
		m.SessionClosed(false)
		NewPOSMetrics(nil).StockMovement("ENTRADA")
	})
}

func TestHTTPMetrics_EtiquetaPorRuta(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/api/products/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest("GET", "/api/products/123", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()

	mfs, err := reg.Gather()
	require.NoError(t, err)
	mf := findMetricFamily(mfs, "http_request_duration_seconds")
	require.NotNil(t, mf)
	require.Len(t, mf.GetMetric(), 1)
	assert.True(t, matchesLabel(mf.GetMetric()[0].GetLabel(), "route", "/api/products/:id"))
	assert.True(t, matchesLabel(mf.GetMetric()[0].GetLabel(), "status", "204"))
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
