package handler

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyFormatter renders amounts with two decimals, grouped thousands and a
// currency symbol, e.g. "R$ 1.234,50".
type MoneyFormatter struct {
	Symbol            string
	DecimalSeparator  string
	ThousandSeparator string
}

func DefaultMoneyFormatter() MoneyFormatter {
	return MoneyFormatter{Symbol: "R$", DecimalSeparator: ",", ThousandSeparator: "."}
}

func (m MoneyFormatter) Format(d decimal.Decimal) string {
	d = d.Round(2)
	s := d.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(m.ThousandSeparator)
		}
		b.WriteRune(c)
	}
	sep := m.DecimalSeparator
	if sep == "" {
		sep = "."
	}
	out := b.String() + sep + frac
	if m.Symbol != "" {
		out = m.Symbol + " " + out
	}
	if d.IsNegative() {
		out = "-" + out
	}
	return out
}
