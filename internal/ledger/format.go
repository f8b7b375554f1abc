package ledger

import (
	"github.com/shopspring/decimal"
	"github.com/templui/objectives/internal/model"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var locales = map[model.Currency]language.Tag{
	model.CurrencyBRL: language.BrazilianPortuguese,
	model.CurrencyUSD: language.AmericanEnglish,
	model.CurrencyEUR: language.German,
}

// Format renders amount with the currency symbol and the digit grouping of
// the currency's home locale, e.g. "R$ 1.234,50".
func Format(amount decimal.Decimal, c model.Currency) string {
	unit, err := currency.ParseISO(c.String())
	if err != nil {
		return amount.StringFixed(2) + " " + c.String()
	}

	tag, ok := locales[c]
	if !ok {
		tag = language.English
	}

	value, _ := amount.Round(2).Float64()
	p := message.NewPrinter(tag)
	return p.Sprint(currency.Symbol(unit.Amount(value)))
}
