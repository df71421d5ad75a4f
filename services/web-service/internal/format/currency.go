package format

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// maxCentsDigits keeps typed input inside int64.
const maxCentsDigits = 15

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// BRL renders cents as Brazilian reais: 4050 -> "R$ 40,50", 123450 -> "R$ 1.234,50".
func BRL(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	reais := ptBR.Sprintf("%d", cents/100)
	frac := cents % 100
	pad := ""
	if frac < 10 {
		pad = "0"
	}
	return sign + "R$ " + reais + "," + pad + strconv.FormatInt(frac, 10)
}

// BRLFromFloat formats a decimal amount of reais, rounding to the cent.
func BRLFromFloat(reais float64) string {
	return BRL(int64(math.Round(reais * 100)))
}

// ParseBRLCents reads every digit of s as an amount in cents, the way the
// price field is typed: "4" -> 4, "405" -> 405, "R$ 40,50" -> 4050.
func ParseBRLCents(s string) int64 {
	d := PhoneDigits(s)
	for len(d) > 1 && d[0] == '0' {
		d = d[1:]
	}
	if len(d) > maxCentsDigits {
		d = d[:maxCentsDigits]
	}
	if d == "" {
		return 0
	}
	n, err := strconv.ParseInt(d, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// MaskBRL is the live-typing mask of the price field.
func MaskBRL(input string) string {
	if PhoneDigits(input) == "" {
		return ""
	}
	return BRL(ParseBRLCents(input))
}

// Reais converts cents to the decimal amount the API expects.
func Reais(cents int64) float64 {
	return float64(cents) / 100
}
