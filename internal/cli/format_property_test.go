package cli

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// parseCurrency reverses FormatCurrency.
func parseCurrency(s string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimPrefix(s, "+"), ",", ""), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func TestProperty_CurrencyFormatting(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	grouping := regexp.MustCompile(`^-?\d{1,3}(,\d{3})*\.\d{2}$`)

	properties.Property("FormatCurrency groups thousands with two decimals", prop.ForAll(
		func(amount float64) bool {
			formatted := FormatCurrency(amount)
			if !grouping.MatchString(formatted) {
				t.Logf("invalid format for %f: %s", amount, formatted)
				return false
			}
			return true
		},
		gen.Float64Range(-1e12, 1e12),
	))

	properties.Property("FormatCurrency preserves value", prop.ForAll(
		func(amount float64) bool {
			parsed := parseCurrency(FormatCurrency(amount))
			return math.Abs(parsed-math.Round(amount*100)/100) <= 0.01
		},
		gen.Float64Range(-1e9, 1e9),
	))

	properties.Property("FormatPnL signs gains", prop.ForAll(
		func(pnl float64) bool {
			formatted := FormatPnL(pnl)
			switch {
			case formatted == "0.00":
				return math.Abs(pnl) < 0.005
			case pnl > 0:
				return strings.HasPrefix(formatted, "+")
			default:
				return strings.HasPrefix(formatted, "-")
			}
		},
		gen.Float64Range(-1e6, 1e6),
	))

	properties.Property("FormatPercent produces correct format", prop.ForAll(
		func(value float64) bool {
			formatted := FormatPercent(value)
			if !strings.HasSuffix(formatted, "%") {
				return false
			}
			return value <= 0 || strings.HasPrefix(formatted, "+")
		},
		gen.Float64Range(-100, 100),
	))

	properties.Property("FormatPrice round-trips the price", prop.ForAll(
		func(price float64) bool {
			parsed, err := strconv.ParseFloat(FormatPrice(price), 64)
			return err == nil && parsed == price
		},
		gen.Float64Range(0.0001, 1e6),
	))

	properties.TestingRun(t)
}
