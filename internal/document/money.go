package document

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// BRL formats an amount as Brazilian reais, e.g. "R$ 1.250,00".
func BRL(v decimal.Decimal) string {
	return "R$ " + ptBR.Sprintf("%.2f", v.Round(2).InexactFloat64())
}
