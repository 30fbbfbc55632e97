package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used for every date field
const DateLayout = "2006-01-02"

// CurrencySuffix is appended to every formatted amount
const CurrencySuffix = "원"

// GenerateID generates a new unique ID with the given prefix
func GenerateID(prefix string) string {
	id := uuid.New().String()

	return fmt.Sprintf("%s-%s", prefix, id[:8])
}

// GetCurrentTime returns the current time in UTC
func GetCurrentTime() time.Time {
	return time.Now().UTC()
}

// FormatDate renders t as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseAmount strips every non-digit from s and parses the remainder.
// Unparseable input yields zero.
func ParseAmount(s string) decimal.Decimal {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(digits)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatAmount renders d in whole won with thousands separators and the currency suffix, e.g. 1,500,000원
func FormatAmount(d decimal.Decimal) string {
	digits := d.Abs().Round(0).String()

	var b strings.Builder
	if d.Round(0).IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(CurrencySuffix)
	return b.String()
}

// LineAmount is the price of quantity units
func LineAmount(price string, quantity int) decimal.Decimal {
	return ParseAmount(price).Mul(decimal.NewFromInt(int64(quantity)))
}

// NormalizeAmount re-renders a user supplied price ("15000", "15,000원") in canonical form
func NormalizeAmount(s string) string {
	return FormatAmount(ParseAmount(s))
}
