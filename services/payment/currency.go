package payment

import "github.com/shopspring/decimal"

// Providers report amounts in a currency's minor unit. The divisor back to
// the major unit depends on the currency: most use 100, but zero-decimal
// currencies (vnd, jpy, ...) are already in the major unit and a few use
// three decimals (ISO 4217).
var zeroDecimalCurrencies = map[string]bool{
	"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true,
	"kmf": true, "krw": true, "mga": true, "pyg": true, "rwf": true,
	"ugx": true, "vnd": true, "vuv": true, "xaf": true, "xof": true,
	"xpf": true,
}

var threeDecimalCurrencies = map[string]bool{
	"bhd": true, "iqd": true, "jod": true, "kwd": true, "lyd": true,
	"omr": true, "tnd": true,
}

// minorUnitDivisor returns the divisor converting a provider amount in
// minor units to the ledger's decimal amount
func minorUnitDivisor(currency string) decimal.Decimal {
	switch {
	case zeroDecimalCurrencies[currency]:
		return decimal.NewFromInt(1)
	case threeDecimalCurrencies[currency]:
		return decimal.NewFromInt(1000)
	default:
		return decimal.NewFromInt(100)
	}
}

// AmountFromMinorUnits converts a provider-reported total into the ledger's
// fixed-point amount for the given lowercase currency code
func AmountFromMinorUnits(amountTotal int64, currency string) decimal.Decimal {
	return decimal.NewFromInt(amountTotal).Div(minorUnitDivisor(currency))
}

// ToMinorUnits converts a ledger amount into the provider's minor-unit
// integer for the given lowercase currency code
func ToMinorUnits(amount decimal.Decimal, currency string) int64 {
	return amount.Mul(minorUnitDivisor(currency)).IntPart()
}
