package components

import "strings"

// Cardinal word tables for the responsive-grid class DSL. The legacy surface
// writes column counts as English words ("four wide computer"), so the
// conversion is a fixed, bug-compatible mapping: no hyphens ("twenty one"),
// no "and" ("one hundred five").
var (
	onesWords = []string{"", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine"}
	teenWords = []string{"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen", "seventeen", "eighteen", "nineteen"}
	tensWords = []string{"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety"}
)

// NumberToWords converts a non-negative integer to its cardinal English
// words. Zero (and negatives) convert to the empty string; the grid DSL
// treats that as "no class fragment".
func NumberToWords(n int) string {
	if n <= 0 {
		return ""
	}

	switch {
	case n < 10:
		return onesWords[n]
	case n < 20:
		return teenWords[n-10]
	case n < 100:
		return joinWords(tensWords[n/10], NumberToWords(n%10))
	case n < 1_000:
		return joinWords(onesWords[n/100]+" hundred", NumberToWords(n%100))
	case n < 1_000_000:
		return joinWords(NumberToWords(n/1_000)+" thousand", NumberToWords(n%1_000))
	default:
		return joinWords(NumberToWords(n/1_000_000)+" million", NumberToWords(n%1_000_000))
	}
}

// joinWords space-joins the non-empty parts.
func joinWords(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
