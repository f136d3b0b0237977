package reporting

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a money value that tolerates the loose shapes found in stored
// documents: numbers, numeric strings with grouping commas, null and garbage.
// Anything that is not a number decodes to zero.
type Amount struct {
	decimal.Decimal
}

func NewAmount(f float64) Amount { return Amount{ToDecimal(f)} }

func AmountFromDecimal(d decimal.Decimal) Amount { return Amount{d} }

func (a *Amount) UnmarshalJSON(b []byte) error {
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		a.Decimal = decimal.Zero
		return nil
	}
	a.Decimal = ToDecimal(raw)
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.StringFixed(2)), nil
}

// ToDecimal coerces an arbitrary value into a decimal, returning zero for
// anything non-numeric so sums never carry NaN.
func ToDecimal(v interface{}) decimal.Decimal {
	switch t := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return t
	case Amount:
		return t.Decimal
	case *Amount:
		if t == nil {
			return decimal.Zero
		}
		return t.Decimal
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(t)
	case float32:
		return ToDecimal(float64(t))
	case int:
		return decimal.NewFromInt(int64(t))
	case int64:
		return decimal.NewFromInt(t)
	case int32:
		return decimal.NewFromInt(int64(t))
	case json.Number:
		return ToDecimal(string(t))
	case string:
		s := strings.TrimSpace(t)
		s = strings.ReplaceAll(s, ",", "")
		s = strings.TrimPrefix(s, "₹")
		s = strings.TrimSpace(s)
		if s == "" || s == "-" {
			return decimal.Zero
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return ToDecimal(fmt.Sprintf("%v", t))
	}
}

// sumAmounts adds amounts, treating every input as already coerced.
func sumAmounts(amounts ...Amount) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.Decimal)
	}
	return total
}
