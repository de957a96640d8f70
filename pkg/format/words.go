package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

var wordOnes = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var wordTens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// NumberToWords spells out a non-negative integer in the Indian numbering
// system (hundred, thousand, lakh, crore). Receipts print amounts in words.
func NumberToWords(n int64) string {
	if n == 0 {
		return "Zero"
	}
	if n < 0 {
		return "Minus " + NumberToWords(-n)
	}
	return strings.Join(numberWords(n), " ")
}

func numberWords(n int64) []string {
	switch {
	case n < 20:
		return []string{wordOnes[n]}
	case n < 100:
		words := []string{wordTens[n/10]}
		if n%10 != 0 {
			words = append(words, wordOnes[n%10])
		}
		return words
	case n < 1000:
		words := []string{wordOnes[n/100], "Hundred"}
		if n%100 != 0 {
			words = append(words, numberWords(n%100)...)
		}
		return words
	case n < 100000:
		words := append(numberWords(n/1000), "Thousand")
		if n%1000 != 0 {
			words = append(words, numberWords(n%1000)...)
		}
		return words
	case n < 10000000:
		words := append(numberWords(n/100000), "Lakh")
		if n%100000 != 0 {
			words = append(words, numberWords(n%100000)...)
		}
		return words
	default:
		words := append(numberWords(n/10000000), "Crore")
		if n%10000000 != 0 {
			words = append(words, numberWords(n%10000000)...)
		}
		return words
	}
}

// AmountInWords renders a currency amount the way the printed receipt spells
// it, e.g. "Rupees One Thousand Two Hundred Thirty Four and Fifty Paise Only".
func AmountInWords(amount decimal.Decimal) string {
	amount = amount.Round(2)
	rupees := amount.IntPart()
	paise := amount.Sub(decimal.NewFromInt(rupees)).Mul(decimal.NewFromInt(100)).IntPart()

	var b strings.Builder
	b.WriteString("Rupees ")
	b.WriteString(NumberToWords(rupees))
	if paise > 0 {
		b.WriteString(" and ")
		b.WriteString(NumberToWords(paise))
		b.WriteString(" Paise")
	}
	b.WriteString(" Only")
	return b.String()
}
