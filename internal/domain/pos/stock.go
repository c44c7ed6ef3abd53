package pos

import (
	"fmt"

	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// MovementDelta traduce tipo + cantidad al delta con signo que se aplica al stock.
// ENTRADA y DEVOLUCAO suman, SAIDA y PERDA restan (cantidad > 0); AJUSTE aplica la cantidad con signo (≠ 0).
func MovementDelta(kind string, quantity int) (int, error) {
	switch kind {
	case entity.MovementTypeIn, entity.MovementTypeReturn:
		if quantity <= 0 {
			return 0, fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidInput)
		}
		return quantity, nil
	case entity.MovementTypeOut, entity.MovementTypeLoss:
		if quantity <= 0 {
			return 0, fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidInput)
		}
		return -quantity, nil
	case entity.MovementTypeAdjustment:
		if quantity == 0 {
			return 0, fmt.Errorf("%w: el ajuste no puede ser cero", domain.ErrInvalidInput)
		}
		return quantity, nil
	}
	return 0, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, kind)
}

// StockPolicy decide si un movimiento puede dejar el stock negativo.
type StockPolicy struct {
	AllowNegative bool
}

// Apply devuelve el nuevo stock. forced indica que el resultado es negativo y sólo se
// admitió por force; el caller debe auditarlo.
func (p StockPolicy) Apply(current, delta int, force bool) (next int, forced bool, err error) {
	next = current + delta
	if next >= 0 || delta >= 0 || p.AllowNegative {
		return next, false, nil
	}
	if force {
		return next, true, nil
	}
	return current, false, fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, current, -delta)
}

// WeightedAverageCost costo promedio ponderado tras una entrada:
// ((stock × costo) + (entrada × costoEntrada)) / (stock + entrada).
// Con stock previo ≤ 0 el costo pasa a ser el de la entrada.
func WeightedAverageCost(stock int, cost decimal.Decimal, inQty int, inCost decimal.Decimal) decimal.Decimal {
	if inQty <= 0 {
		return cost
	}
	if stock <= 0 {
		return Money(inCost)
	}
	s := decimal.NewFromInt(int64(stock))
	q := decimal.NewFromInt(int64(inQty))
	return Money(s.Mul(cost).Add(q.Mul(inCost)).Div(s.Add(q)))
}
