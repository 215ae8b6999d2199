package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AdjustmentKind indica cómo se interpreta Value.
type AdjustmentKind string

const (
	AdjustPercentage AdjustmentKind = "percentage"
	AdjustFixed      AdjustmentKind = "fixed"
)

var hundred = decimal.NewFromInt(100)

// Adjustment es un cambio de precio: porcentaje o importe fijo (puede ser negativo).
type Adjustment struct {
	Kind  AdjustmentKind
	Value decimal.Decimal
}

// NewAdjustment valida el tipo de ajuste.
func NewAdjustment(kind string, value decimal.Decimal) (Adjustment, error) {
	switch adjustmentKind := AdjustmentKind(strings.TrimSpace(kind)); adjustmentKind {
	case AdjustPercentage, AdjustFixed:
		return Adjustment{Kind: adjustmentKind, Value: value}, nil
	default:
		return Adjustment{}, fmt.Errorf("%w: unknown adjustment type %q", ErrorInvalidPricing, kind)
	}
}

// Apply calcula el nuevo importe redondeado a 2 decimales.
//   - percentage: old * (1 + value/100)
//   - fixed:      old + value
func (adjustment Adjustment) Apply(money Money) Money {
	var amount decimal.Decimal
	switch adjustment.Kind {
	case AdjustPercentage:
		factor := decimal.NewFromInt(1).Add(adjustment.Value.Div(hundred))
		amount = money.Amount.Mul(factor)
	case AdjustFixed:
		amount = money.Amount.Add(adjustment.Value)
	default:
		amount = money.Amount
	}
	return Money{Amount: amount.Round(2), Currency: money.Currency}
}
