package model

import (
	"strings"
)

type Currency string

const (
	CurrencyBRL Currency = "BRL"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// BaseCurrency is the unit every rate snapshot factor is expressed in.
const BaseCurrency = CurrencyBRL

// Currencies lists the supported set in display order.
var Currencies = []Currency{CurrencyBRL, CurrencyUSD, CurrencyEUR}

func (c Currency) Valid() bool {
	for _, supported := range Currencies {
		if c == supported {
			return true
		}
	}
	return false
}

func (c Currency) String() string {
	return string(c)
}

// ParseCurrency normalizes user input ("usd", " Eur ") into a Currency.
// The result may still be unsupported; callers check Valid.
func ParseCurrency(s string) Currency {
	return Currency(strings.ToUpper(strings.TrimSpace(s)))
}
