package models

import "github.com/shopspring/decimal"

// AmountScale is the number of fractional digits every numeric(20,8) column keeps.
const AmountScale = 8

// maxAmount is the first magnitude a numeric(20,8) column cannot hold.
var maxAmount = decimal.New(1, 20-AmountScale)

// RoundAmount rounds a derived amount to the stored scale.
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountScale)
}

// FitsColumn reports whether d is stored by a numeric(20,8) column exactly.
func FitsColumn(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(AmountScale)) && d.Abs().LessThan(maxAmount)
}
