package i18n

import (
	"github.com/shopspring/decimal"
)

// FormatAmount renders a rial amount for a message body.
//
//	FormatAmount(15000, "en") → "15000.00 YER"
//	FormatAmount(15000, "ar") → "15000.00 ر.ي"
func FormatAmount(amount decimal.Decimal, lang string) string {
	symbol := "YER"
	if ResolveLang(lang, DefaultLang) == "ar" {
		symbol = "ر.ي"
	}
	return amount.StringFixed(2) + " " + symbol
}
