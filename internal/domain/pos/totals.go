// Package pos contiene las reglas puras de caja: totales de venta, conciliación de pagos,
// aplicación de stock y arqueo de sesión. No accede a BD.
package pos

import (
	"fmt"

	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Money redondea a 2 decimales (NUMERIC(10,2)).
func Money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Line es una línea de venta ya resuelta (precio definido).
type Line struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal = cantidad × precio unitario.
func (l Line) Subtotal() decimal.Decimal {
	return Money(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
}

// Totals totales de una venta.
type Totals struct {
	Gross    decimal.Decimal
	Discount decimal.Decimal
	Net      decimal.Decimal
}

// ComputeTotals calcula bruto = Σ subtotales y líquido = bruto - descuento.
// Rechaza cantidades no positivas, precios o descuento negativos y descuento mayor al bruto.
func ComputeTotals(lines []Line, discount decimal.Decimal) (Totals, error) {
	if len(lines) == 0 {
		return Totals{}, fmt.Errorf("%w: la venta no tiene ítems", domain.ErrInvalidInput)
	}
	gross := decimal.Zero
	for _, l := range lines {
		if l.Quantity <= 0 {
			return Totals{}, fmt.Errorf("%w: cantidad inválida para %s", domain.ErrInvalidInput, l.ProductID)
		}
		if l.UnitPrice.IsNegative() {
			return Totals{}, fmt.Errorf("%w: precio negativo para %s", domain.ErrInvalidInput, l.ProductID)
		}
		gross = gross.Add(l.Subtotal())
	}
	discount = Money(discount)
	if discount.IsNegative() {
		return Totals{}, fmt.Errorf("%w: descuento negativo", domain.ErrInvalidInput)
	}
	if discount.GreaterThan(gross) {
		return Totals{}, fmt.Errorf("%w: el descuento supera el total bruto", domain.ErrInvalidInput)
	}
	return Totals{Gross: gross, Discount: discount, Net: gross.Sub(discount)}, nil
}

// Tender un pago informado en la venta.
type Tender struct {
	Method string
	Amount decimal.Decimal
}

// ValidatePayments exige formas de pago válidas, montos positivos y Σ montos == líquido exacto.
// Una venta con líquido cero se cierra sin pagos.
func ValidatePayments(payments []Tender, net decimal.Decimal) error {
	if len(payments) == 0 && Money(net).IsZero() {
		return nil
	}
	if len(payments) == 0 {
		return fmt.Errorf("%w: la venta no tiene pagos", domain.ErrPaymentMismatch)
	}
	methods := entity.PaymentMethods()
	for _, p := range payments {
		if !lo.Contains(methods, p.Method) {
			return fmt.Errorf("%w: forma de pago %q", domain.ErrInvalidInput, p.Method)
		}
		if !p.Amount.IsPositive() {
			return fmt.Errorf("%w: monto de pago no positivo", domain.ErrInvalidInput)
		}
	}
	paid := lo.Reduce(payments, func(acc decimal.Decimal, p Tender, _ int) decimal.Decimal {
		return acc.Add(Money(p.Amount))
	}, decimal.Zero)
	if !paid.Equal(Money(net)) {
		return fmt.Errorf("%w: pagado %s, líquido %s", domain.ErrPaymentMismatch, paid.StringFixed(2), Money(net).StringFixed(2))
	}
	return nil
}
