package sales

import (
	"github.com/brindes/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DefaultMarkupFactor is used when an item does not name a factor
var DefaultMarkupFactor = decimal.RequireFromString("1.35")

// markupCeiling is the constant in divisor = 2 - factor
var markupCeiling = decimal.NewFromInt(2)

// PriceResult is the outcome of the cost-to-price formula. Fallback is set
// when the factor was 2 or more and the price is rawCost*2 instead of a real
// markup; such prices must be flagged for review.
type PriceResult struct {
	Total    decimal.Decimal
	Fallback bool
}

// RawCost sums the estimated costs of an item, scaling the unit price by quantity
func RawCost(quantity int, costs CostSet) decimal.Decimal {
	total := costs[ComponentUnitPrice].Mul(decimal.NewFromInt(int64(quantity)))
	for _, kind := range AllComponentKinds() {
		if kind.ScalesWithQuantity() {
			continue
		}
		total = total.Add(costs[kind])
	}
	return total
}

// SalePrice applies the markup: rawCost / (2 - factor), rounded to cents.
// A non-positive divisor never divides; it doubles the cost and reports Fallback.
func SalePrice(rawCost, markupFactor decimal.Decimal) PriceResult {
	divisor := markupCeiling.Sub(markupFactor)
	if !divisor.IsPositive() {
		return PriceResult{
			Total:    valueobject.RoundMoney(rawCost.Mul(markupCeiling)),
			Fallback: true,
		}
	}
	return PriceResult{Total: valueobject.RoundMoney(rawCost.Div(divisor))}
}

// IsFallbackFactor reports whether factor would trigger the doubling fallback
func IsFallbackFactor(markupFactor decimal.Decimal) bool {
	return markupFactor.GreaterThanOrEqual(markupCeiling)
}
