// Package price normalizes localized price strings into canonical
// decimal amounts. The heuristic assumes European grouping and decimal
// conventions: "3.569,90 RON" -> 3569.90, "2 799,00 lei" -> 2799.00.
package price

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/rcostache/pricescout/internal/types"
)

var errNoDigits = errors.New("no digits in price text")

var nonPriceChars = regexp.MustCompile(`[^\d.,]`)

// Parse converts a localized price string into a decimal amount.
// It returns a *types.ParseError when the input is empty or carries no
// digit characters after stripping everything but digits, periods, and
// commas.
func Parse(text string) (float64, error) {
	if text == "" {
		return 0, &types.ParseError{Text: text, Err: errNoDigits}
	}

	clean := nonPriceChars.ReplaceAllString(text, "")
	if clean == "" || !strings.ContainsAny(clean, "0123456789") {
		return 0, &types.ParseError{Text: text, Err: errNoDigits}
	}

	hasDot := strings.Contains(clean, ".")
	hasComma := strings.Contains(clean, ",")

	switch {
	case hasComma:
		// Dots are group separators, the comma is the decimal mark.
		// "3.569,90" -> "3569.90", "4,50" -> "4.50".
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	case hasDot && strings.Count(clean, ".") > 1:
		// Only dots: all but the last one group thousands.
		// "2.799.00" -> "2799.00".
		idx := strings.LastIndex(clean, ".")
		clean = strings.ReplaceAll(clean[:idx], ".", "") + clean[idx:]
	}

	amount, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, &types.ParseError{Text: text, Err: err}
	}
	return amount, nil
}
