package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_MarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		money Money
		want  string
	}{
		{"whole", MoneyFromFloat(40), "40.00"},
		{"cents", MoneyFromFloat(12.5), "12.50"},
		{"zero value", Money{}, "0.00"},
		{"rounds half away from zero", NewMoney(decimal.RequireFromString("6.665")), "6.67"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.money)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(b))
		})
	}
}

func TestMoney_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"number", `200`, "200.00", false},
		{"decimal number", `19.999`, "20.00", false},
		{"numeric string", `"149.5"`, "149.50", false},
		{"null", `null`, "0.00", false},
		{"non-numeric string", `"abc"`, "", true},
		{"boolean", `true`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Money
			err := json.Unmarshal([]byte(tt.input), &m)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.String())
		})
	}
}

func TestMoney_UnmarshalJSON_OutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"huge exponent", `1e400`},
		{"huge exponent as string", `"1e20000000"`},
		{"tiny exponent", `1e-20000000`},
		{"above maximum", `10000000000`},
		{"negative above maximum", `-10000000000`},
		{"too many decimals", `0.0000000000000000001`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Money
			err := json.Unmarshal([]byte(tt.input), &m)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMoneyOutOfRange), "error should be ErrMoneyOutOfRange")
		})
	}
}

func TestMoney_UnmarshalJSON_AtMaximum(t *testing.T) {
	var m Money
	require.NoError(t, json.Unmarshal([]byte(`9999999999.99`), &m))
	assert.Equal(t, "9999999999.99", m.String())

	require.NoError(t, json.Unmarshal([]byte(`2.5e3`), &m))
	assert.Equal(t, "2500.00", m.String())
}

func TestMoney_InRequest(t *testing.T) {
	var req ValidatePromotionRequest
	err := json.Unmarshal([]byte(`{"code":"SPRING20","customerType":"new","orderValue":200}`), &req)

	require.NoError(t, err)
	require.NotNil(t, req.OrderValue)
	assert.Equal(t, "200.00", req.OrderValue.String())

	req = ValidatePromotionRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"code":"SPRING20"}`), &req))
	assert.Nil(t, req.OrderValue, "absent orderValue stays nil")
}

func TestValidatePromotionResponse_OmitsEmptyFields(t *testing.T) {
	b, err := json.Marshal(ValidatePromotionResponse{
		Valid:  false,
		Reason: ReasonCodeNotRecognized,
		Error:  "code not recognized",
	})

	require.NoError(t, err)
	assert.JSONEq(t, `{"valid":false,"reason":"code_not_recognized","error":"code not recognized"}`, string(b))
}

func TestWindow_Contains(t *testing.T) {
	start := mustTime(t, "2027-03-01T00:00:00Z")
	end := mustTime(t, "2027-05-31T23:59:59Z")
	w := Window{StartsAt: &start, EndsAt: &end}

	assert.True(t, w.Contains(start))
	assert.True(t, w.Contains(end))
	assert.False(t, w.Contains(start.Add(-1)))
	assert.False(t, w.Contains(end.Add(1)))
	assert.True(t, Window{}.Contains(start), "open window contains everything")
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return v
}
