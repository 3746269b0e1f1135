package mapper

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/shopspring/decimal"
)

var (
	decimalType     = reflect.TypeOf(decimal.Decimal{})
	nullDecimalType = reflect.TypeOf(decimal.NullDecimal{})
)

func decode(input map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
		DecodeHook:       decimalHook,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

func decimalHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	switch to {
	case decimalType:
		value, _, err := parseDecimal(data)
		return value, err
	case nullDecimalType:
		value, ok, err := parseDecimal(data)
		if err != nil {
			return nil, err
		}
		return decimal.NullDecimal{Decimal: value, Valid: ok}, nil
	default:
		return data, nil
	}
}

func parseDecimal(data any) (decimal.Decimal, bool, error) {
	switch v := data.(type) {
	case nil:
		return decimal.Zero, false, nil
	case decimal.Decimal:
		return v, true, nil
	case decimal.NullDecimal:
		return v.Decimal, v.Valid, nil
	case float64:
		return decimal.NewFromFloat(v), true, nil
	case float32:
		return decimal.NewFromFloat32(v), true, nil
	case int:
		return decimal.NewFromInt(int64(v)), true, nil
	case int64:
		return decimal.NewFromInt(v), true, nil
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		return d, err == nil, err
	case string:
		raw := strings.ReplaceAll(strings.TrimSpace(v), ",", "")
		if raw == "" {
			return decimal.Zero, false, nil
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, false, fmt.Errorf("invalid amount %q", v)
		}
		return d, true, nil
	default:
		return decimal.Zero, false, fmt.Errorf("unsupported amount type %T", data)
	}
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"02/01/2006",
}

// parseDate returns the zero time for empty or zero-date ("0000-00-00") values.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "0000-00-00") {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}
