package pos

import (
	"fmt"
	"strings"

	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/shopspring/decimal"
)

// SystemAmount = apertura + Σ pagos DINHEIRO de ventas concluidas de la sesión.
func SystemAmount(opening, cashPayments decimal.Decimal) decimal.Decimal {
	return Money(opening.Add(cashPayments))
}

// CloseResult resultado del arqueo.
type CloseResult struct {
	System      decimal.Decimal
	Counted     decimal.Decimal
	Difference  decimal.Decimal
	Discrepancy bool
}

// Reconcile compara lo contado con lo esperado. Con diferencia exige justificación.
func Reconcile(opening, cashPayments, counted decimal.Decimal, justification string) (CloseResult, error) {
	if counted.IsNegative() {
		return CloseResult{}, fmt.Errorf("%w: monto contado negativo", domain.ErrInvalidInput)
	}
	system := SystemAmount(opening, cashPayments)
	counted = Money(counted)
	res := CloseResult{System: system, Counted: counted, Difference: counted.Sub(system)}
	res.Discrepancy = !res.Difference.IsZero()
	if res.Discrepancy && strings.TrimSpace(justification) == "" {
		return CloseResult{}, fmt.Errorf("%w: el arqueo difiere en %s", domain.ErrJustificationRequired, res.Difference.StringFixed(2))
	}
	return res, nil
}
