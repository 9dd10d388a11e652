package valueobject

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// MoneyPlaces is the number of decimal places kept for monetary amounts
const MoneyPlaces int32 = 2

// CurrencySymbol is the symbol used in human-readable amounts
const CurrencySymbol = "R$"

var brPrinter = message.NewPrinter(language.BrazilianPortuguese)

// Money is an immutable monetary amount in the company currency (BRL)
type Money struct {
	amount decimal.Decimal
}

// NewMoney creates Money from a decimal amount
func NewMoney(amount decimal.Decimal) Money {
	return Money{amount: amount}
}

// NewMoneyFromString parses an amount such as "1234.56"
func NewMoneyFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return Money{amount: d}, nil
}

// Zero returns a zero amount
func Zero() Money {
	return Money{amount: decimal.Zero}
}

// Amount returns the underlying decimal
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive returns true if the amount is greater than zero
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsNegative returns true if the amount is below zero
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Add returns m + other
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Subtract returns m - other
func (m Money) Subtract(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

// Round rounds half away from zero to MoneyPlaces
func (m Money) Round() Money {
	return Money{amount: RoundMoney(m.amount)}
}

// Equals compares two amounts numerically
func (m Money) Equals(other Money) bool {
	return m.amount.Equal(other.amount)
}

// String returns the plain amount with two decimals, e.g. "1234.50"
func (m Money) String() string {
	return m.amount.StringFixed(MoneyPlaces)
}

// Format returns the amount formatted for Brazilian readers, e.g. "R$ 1.234,50"
func (m Money) Format() string {
	return FormatBRL(m.amount)
}

// MarshalJSON encodes the amount as a fixed two-decimal string
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts both "12.34" and 12.34
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	m.amount = d
	return nil
}

// RoundMoney rounds a decimal to monetary precision
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// FormatBRL formats an amount as "R$ 1.234,56" using pt-BR separators
func FormatBRL(d decimal.Decimal) string {
	f := RoundMoney(d).InexactFloat64()
	return brPrinter.Sprintf("%s %v", CurrencySymbol, number.Decimal(f, number.Scale(int(MoneyPlaces))))
}
