package interpreter

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hassan3301/dailycrm/internal/domain"
	"github.com/hassan3301/dailycrm/internal/service/interpreter/payload"
)

func TestToInt64(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     any
		want   int64
		wantOK bool
	}{
		{json.Number("42"), 42, true},
		{json.Number("42.0"), 42, true},
		{json.Number("42.5"), 0, false},
		{float64(7), 7, true},
		{float64(7.2), 0, false},
		{"12", 12, true},
		{" #12 ", 12, true},
		{"twelve", 0, false},
		{true, 0, false},
		{nil, 0, false},
		{float64(1 << 62), 1 << 62, true},
		{math.Pow(2, 63), 0, false},
		{json.Number("9223372036854775808"), 0, false},
		{math.NaN(), 0, false},
		{math.Inf(1), 0, false},
	}
	for _, tt := range tests {
		got, ok := toInt64(tt.in)
		assert.Equal(t, tt.wantOK, ok, "toInt64(%#v)", tt.in)
		assert.Equal(t, tt.want, got, "toInt64(%#v)", tt.in)
	}
}

func TestToString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Bruce", toString("  Bruce "))
	assert.Equal(t, "555", toString(json.Number("555")))
	assert.Equal(t, "1.5", toString(1.5))
	assert.Equal(t, "true", toString(true))
	assert.Equal(t, "", toString(nil))
	assert.Equal(t, "", toString(map[string]any{"a": 1}))
}

func TestAmount(t *testing.T) {
	t.Parallel()

	valid := []struct {
		in   any
		want string
	}{
		{json.Number("100"), "100.00"},
		{json.Number("99.999"), "100.00"},
		{float64(42.5), "42.50"},
		{"$1,250.50", "1250.50"},
		{" 0 ", "0.00"},
		{"9999999999.99", "9999999999.99"},
	}
	for _, tt := range valid {
		got, err := amount(map[string]any{"amount": tt.in}, "amount")
		require.NoError(t, err, "amount(%#v)", tt.in)
		assert.Equal(t, tt.want, got.StringFixed(2))
	}

	invalid := []struct {
		fields map[string]any
		msg    string
	}{
		{map[string]any{}, "is required"},
		{map[string]any{"amount": nil}, "is required"},
		{map[string]any{"amount": ""}, "is required"},
		{map[string]any{"amount": "ten"}, "must be a number"},
		{map[string]any{"amount": true}, "must be a number"},
		{map[string]any{"amount": json.Number("-1")}, "must not be negative"},
		{map[string]any{"amount": math.Inf(1)}, "must be a number"},
		{map[string]any{"amount": math.NaN()}, "must be a number"},
		{map[string]any{"amount": json.Number("10000000000")}, "is too large"},
		{map[string]any{"amount": "$9,999,999,999.999"}, "is too large"},
	}
	for _, tt := range invalid {
		_, err := amount(tt.fields, "amount")
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve, "fields %#v", tt.fields)
		assert.Equal(t, "amount", ve.Errors[0].Field)
		assert.Equal(t, tt.msg, ve.Errors[0].Message)
	}
}

func TestDataOf(t *testing.T) {
	t.Parallel()

	nested := payload.Action{Fields: map[string]any{"action": "create_contact", "data": map[string]any{"name": "A"}}}
	assert.Equal(t, "A", str(dataOf(nested), "name"))

	flat := payload.Action{Fields: map[string]any{"action": "create_contact", "name": "B"}}
	assert.Equal(t, "B", str(dataOf(flat), "name"))
}

func TestInvoiceID(t *testing.T) {
	t.Parallel()

	top := payload.Action{Fields: map[string]any{"kind": "mark_invoice_paid", "invoice_id": json.Number("7")}}
	assert.Equal(t, json.Number("7"), invoiceID(top))

	nested := payload.Action{Fields: map[string]any{"kind": "mark_invoice_paid", "data": map[string]any{"invoice_id": "#8"}}}
	assert.Equal(t, "#8", invoiceID(nested))

	missing := payload.Action{Fields: map[string]any{"kind": "download_invoice"}}
	assert.Nil(t, invoiceID(missing))
}
