package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/codedbyabhishek/trading-diary-sub001/internal/analytics/metrics"
)

// FormatCurrency formats an amount with two decimals and thousands
// separators, e.g. -1,234,567.89.
func FormatCurrency(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	str := fmt.Sprintf("%.2f", amount)
	parts := strings.Split(str, ".")

	result := groupThousands(parts[0]) + "." + parts[1]
	if negative && result != "0.00" {
		result = "-" + result
	}
	return result
}

// groupThousands inserts a comma between every group of three digits.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatPnL formats P&L with sign.
func FormatPnL(pnl float64) string {
	formatted := FormatCurrency(pnl)
	if pnl > 0 && formatted != "0.00" {
		return "+" + formatted
	}
	return formatted
}

// FormatPercent formats a percentage with sign.
func FormatPercent(value float64) string {
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// FormatRate formats an unsigned percentage such as a win rate.
func FormatRate(value float64) string {
	return fmt.Sprintf("%.1f%%", value)
}

// FormatRatio renders a ratio metric, including its undefined and infinite
// sentinels.
func FormatRatio(r metrics.Ratio) string {
	return r.String()
}

// FormatRMultiple formats an R-factor, e.g. 2.50R.
func FormatRMultiple(r float64) string {
	if metrics.IsUndefined(r) {
		return FormatRatio(metrics.Ratio(r))
	}
	return fmt.Sprintf("%.2fR", r)
}

// FormatPrice formats a price with the shortest exact decimal form, keeping
// at least two decimals.
func FormatPrice(price float64) string {
	d := decimal.NewFromFloat(price)
	if d.Exponent() >= -2 {
		return d.StringFixed(2)
	}
	return d.String()
}

// FormatQuantity formats a quantity without trailing zeros.
func FormatQuantity(qty float64) string {
	if qty == math.Trunc(qty) && math.Abs(qty) < 1e15 {
		return fmt.Sprintf("%.0f", qty)
	}
	return decimal.NewFromFloat(qty).String()
}

// FormatDate formats a date in its own location.
func FormatDate(t time.Time) string {
	return t.Format("02-Jan-2006")
}

// FormatDateTime formats a datetime in its own location.
func FormatDateTime(t time.Time) string {
	return t.Format("02-Jan-2006 15:04 MST")
}

// FormatDuration formats a duration in human-readable form.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	} else if d < 24*time.Hour {
		return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	return fmt.Sprintf("%dd %dh", days, hours)
}

// TruncateString truncates a string to max runes with ellipsis.
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// orDash renders an empty value as "-".
func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
