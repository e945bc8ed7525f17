package pricetable

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"pricing-guard/core/types"
	"pricing-guard/internal/errors"
)

// FromValues coerces loosely typed numbers (integers, floats, json.Number,
// decimals) into a float price table. Any other value type is rejected.
func FromValues(raw map[string]interface{}) (types.Prices, error) {
	out := make(types.Prices, len(raw))
	for k, v := range raw {
		f, err := toFloat(v)
		if err != nil {
			return nil, errors.Wrapf(errors.TypeInput, err, "price of %q is not a number", k).
				WithContext("key", k)
		}
		out[k] = f
	}
	return out, nil
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			return 0, err
		}
		return d.InexactFloat64(), nil
	case decimal.Decimal:
		return n.InexactFloat64(), nil
	default:
		return 0, fmt.Errorf("unsupported value type %T", v)
	}
}

// Sample is a demonstration table with several broken ordering rules
func Sample() types.Prices {
	return types.Prices{
		"mtpl":                      400,
		"limited_casco_compact_100": 820,
		"limited_casco_compact_200": 760,
		"limited_casco_compact_500": 650,
		"limited_casco_basic_100":   900,
		"limited_casco_basic_200":   780,
		"limited_casco_basic_500":   600,
		"limited_casco_comfort_100": 950,
		"limited_casco_comfort_200": 870,
		"limited_casco_comfort_500": 720,
		"limited_casco_premium_100": 1100,
		"limited_casco_premium_200": 980,
		"limited_casco_premium_500": 800,
		"casco_compact_100":         750,
		"casco_compact_200":         700,
		"casco_compact_500":         620,
		"casco_basic_100":           830,
		"casco_basic_200":           760,
		"casco_basic_500":           650,
		"casco_comfort_100":         900,
		"casco_comfort_200":         820,
		"casco_comfort_500":         720,
		"casco_premium_100":         1050,
		"casco_premium_200":         950,
		"casco_premium_500":         780,
	}
}
