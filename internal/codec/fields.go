// Package codec reads and writes the semicolon-delimited records of the flat-file stores.
//
// Records are positional and unescaped. Free text is sanitized on write so that it can
// never carry the delimiter or a line break.
package codec

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
)

const Delimiter = ";"

// ErrMalformedRecord marks a line with fewer fields than its format requires.
// Store scans skip such lines.
var ErrMalformedRecord = errors.New("malformed record")

var textReplacer = strings.NewReplacer(
	Delimiter, ",",
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
)

// SanitizeText makes s safe to place in a positional field.
func SanitizeText(s string) string {
	return textReplacer.Replace(s)
}

// NormalizeEvaluatorID keeps only the digits of a national identification number,
// so "123.456.789-00" and "12345678900" compare equal.
func NormalizeEvaluatorID(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func splitRecord(line string) []string {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return nil
	}
	return strings.Split(line, Delimiter)
}

func joinRecord(fields ...string) string {
	return strings.Join(fields, Delimiter)
}

func parseInt(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

func parseFloat(s string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fallback
	}
	return v
}

func parseBool(s string) bool {
	return strings.TrimSpace(s) == "1"
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatAmount renders grades and scores the way the ledgers store them.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// RoundAmount returns v as it reads back after a ledger round trip.
func RoundAmount(v float64) float64 {
	r, _ := strconv.ParseFloat(FormatAmount(v), 64)
	return r
}
