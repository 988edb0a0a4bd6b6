package metrics

import (
	"encoding/json"
	"math"
	"strconv"
)

// Ratio is a float64 that may hold the NaN or Inf sentinels. It encodes NaN
// as null and infinities as the strings "Infinity" and "-Infinity", which
// encoding/json cannot represent natively.
type Ratio float64

// Float64 returns the underlying value.
func (r Ratio) Float64() float64 {
	return float64(r)
}

// IsDefined reports whether r holds a finite value or an infinity.
func (r Ratio) IsDefined() bool {
	return !math.IsNaN(float64(r))
}

// String renders the ratio for humans.
func (r Ratio) String() string {
	f := float64(r)
	switch {
	case math.IsNaN(f):
		return "n/a"
	case math.IsInf(f, 1):
		return "∞"
	case math.IsInf(f, -1):
		return "-∞"
	default:
		return strconv.FormatFloat(f, 'f', 2, 64)
	}
}

// MarshalJSON implements json.Marshaler.
func (r Ratio) MarshalJSON() ([]byte, error) {
	f := float64(r)
	switch {
	case math.IsNaN(f):
		return []byte("null"), nil
	case math.IsInf(f, 1):
		return []byte(`"Infinity"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-Infinity"`), nil
	default:
		return json.Marshal(f)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Ratio) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "null":
		*r = Ratio(math.NaN())
		return nil
	case `"Infinity"`:
		*r = Ratio(math.Inf(1))
		return nil
	case `"-Infinity"`:
		*r = Ratio(math.Inf(-1))
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*r = Ratio(f)
	return nil
}
