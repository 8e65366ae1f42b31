package model

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as JSON numbers on the wire, matching the upstream
	// API contract.
	decimal.MarshalJSONWithoutQuotes = true
}

// GenerateUUIDWithSuffix generates a UUID with a given module name as a suffix.
// This is useful for creating unique identifiers with context-specific prefixes.
func GenerateUUIDWithSuffix(module string) string {
	id := uuid.New()
	return fmt.Sprintf("%s_%s", module, id.String())
}

// NormalizeAmount coerces a raw, untyped amount into a decimal rounded to
// two fraction digits. Rounding happens once at acceptance time; every later
// arithmetic step works on the already-normalized value.
func NormalizeAmount(raw interface{}) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case decimal.Decimal:
		return v.Round(2), nil
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero, fmt.Errorf("amount %q is not numeric", v.String())
		}
		return d.Round(2), nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, fmt.Errorf("amount %q is not numeric", v)
		}
		return d.Round(2), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, fmt.Errorf("amount %v is not a finite number", v)
		}
		return decimal.NewFromFloat(v).Round(2), nil
	case float32:
		return NormalizeAmount(float64(v))
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case nil:
		return decimal.Zero, fmt.Errorf("amount is missing")
	default:
		return decimal.Zero, fmt.Errorf("amount of type %T is not numeric", raw)
	}
}
