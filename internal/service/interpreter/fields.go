package interpreter

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hassan3301/dailycrm/internal/domain"
	"github.com/hassan3301/dailycrm/internal/service/interpreter/payload"
)

// dataOf returns the nested "data" object of an action, or the action itself
// when the model flattened its fields.
func dataOf(a payload.Action) map[string]any {
	if d, ok := a.Fields["data"].(map[string]any); ok {
		return d
	}
	return a.Fields
}

// str reads key as text. Numbers and booleans are formatted; anything else is "".
func str(m map[string]any, key string) string {
	return toString(m[key])
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// strOr reads key as text, substituting def when it is blank.
func strOr(m map[string]any, key, def string) string {
	if s := str(m, key); s != "" {
		return s
	}
	return def
}

// toInt64 accepts integral numbers and numeric strings, optionally prefixed with "#".
func toInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, true
		}
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt64(f)
	case float64:
		return floatToInt64(t)
	case int:
		return int64(t), true
	case int64:
		return t, true
	case string:
		s := strings.TrimPrefix(strings.TrimSpace(t), "#")
		n, err := strconv.ParseInt(s, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

func floatToInt64(f float64) (int64, bool) {
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
	if f != math.Trunc(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// maxAmount is the first value NUMERIC(12,2) columns cannot store.
var maxAmount = decimal.New(1, 10)

// amount reads a non-negative money amount below maxAmount. "$1,250.50" is
// accepted.
func amount(m map[string]any, key string) (decimal.Decimal, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return decimal.Zero, domain.NewValidationError(key, "is required")
	}

	var (
		d   decimal.Decimal
		err error
	)
	switch t := v.(type) {
	case json.Number:
		d, err = decimal.NewFromString(t.String())
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return decimal.Zero, domain.NewValidationError(key, "must be a number")
		}
		d = decimal.NewFromFloat(t)
	case string:
		s := strings.TrimSpace(t)
		s = strings.TrimPrefix(s, "$")
		s = strings.ReplaceAll(s, ",", "")
		if s == "" {
			return decimal.Zero, domain.NewValidationError(key, "is required")
		}
		d, err = decimal.NewFromString(s)
	default:
		return decimal.Zero, domain.NewValidationError(key, "must be a number")
	}
	if err != nil {
		return decimal.Zero, domain.NewValidationError(key, "must be a number")
	}
	if d.IsNegative() {
		return decimal.Zero, domain.NewValidationError(key, "must not be negative")
	}
	d = d.Round(2)
	if d.GreaterThanOrEqual(maxAmount) {
		return decimal.Zero, domain.NewValidationError(key, "is too large")
	}
	return d, nil
}

// invoiceID reads invoice_id from the action, falling back to its "data" object.
func invoiceID(a payload.Action) any {
	if v, ok := a.Fields["invoice_id"]; ok && v != nil {
		return v
	}
	return dataOf(a)["invoice_id"]
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
