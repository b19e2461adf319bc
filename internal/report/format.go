// Package report renders the contract dataset as PDF and Excel documents.
package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FileName returns the date-stamped base name, e.g. Relatorio_Contratos_14-10-2026.pdf
func FileName(now time.Time, ext string) string {
	return fmt.Sprintf("Relatorio_Contratos_%s.%s", now.Format("02-01-2006"), strings.TrimPrefix(ext, "."))
}

// FormatBRL formats a value as Brazilian reais, e.g. R$ 1.234,56
func FormatBRL(value float64) string {
	cents := int64(math.Round(math.Abs(value) * 100))
	whole := strconv.FormatInt(cents/100, 10)

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	sign := ""
	if value < 0 && cents > 0 {
		sign = "-"
	}
	return fmt.Sprintf("%sR$ %s,%02d", sign, b.String(), cents%100)
}

// Truncate cuts s to at most n runes
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func ratio(installed, total int) string {
	return fmt.Sprintf("%d/%d", installed, total)
}
