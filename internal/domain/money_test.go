package domain_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/towtrack/backend/internal/domain"
)

func TestComputeCost(t *testing.T) {
	tests := []struct {
		name     string
		distance string
		rate     string
		want     string
	}{
		{"whole result", "10.00", "2.00", "20.00"},
		{"longer trip", "15.00", "2.00", "30.00"},
		{"fractional rate", "15.00", "1.50", "22.50"},
		{"fractional distance", "10.25", "2.00", "20.50"},
		// 10.01 * 1.50 = 15.015, the half cent rounds up
		{"rounds half up", "10.01", "1.50", "15.02"},
		// 10.01 * 1.01 = 10.1101, the sub-half fraction rounds down
		{"rounds below half down", "10.01", "1.01", "10.11"},
		{"zero distance", "0.00", "2.00", "0.00"},
		{"zero rate", "10.00", "0.00", "0.00"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, err := domain.ParseKilometers(tc.distance)
			require.NoError(t, err)
			r, err := domain.ParseMoney(tc.rate)
			require.NoError(t, err)

			got := domain.ComputeCost(d, r)

			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestComputeCost_RepeatedRecomputeIsStable(t *testing.T) {
	d, _ := domain.ParseKilometers("33.33")
	r, _ := domain.ParseMoney("1.37")

	first := domain.ComputeCost(d, r)
	for i := 0; i < 1000; i++ {
		assert.Equal(t, first, domain.ComputeCost(d, r))
	}
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in      string
		want    domain.Money
		wantErr bool
	}{
		{"22.50", 2250, false},
		{"22.5", 2250, false},
		{"22", 2200, false},
		{"0.05", 5, false},
		{".50", 50, false},
		{"-3.25", -325, false},
		{"+3.25", 325, false},
		// more than two decimals and exponent notation are rejected
		{"1.234", 0, true},
		{"1e2", 0, true},
		{"abc", 0, true},
		{"", 0, true},
		{".", 0, true},
		// values that would wrap int64 are rejected, not truncated
		{"9999999999999999999999999", 0, true},
		{"-9999999999999999999999999.99", 0, true},
		// leading zeros do not count against the digit limit
		{"0000000000000000000123.45", 12345, false},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := domain.ParseMoney(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	out, err := json.Marshal(domain.Money(2250))
	require.NoError(t, err)
	assert.Equal(t, "22.50", string(out))

	var m domain.Money
	require.NoError(t, json.Unmarshal([]byte("22.50"), &m))
	assert.Equal(t, domain.Money(2250), m)

	// string input is accepted too
	require.NoError(t, json.Unmarshal([]byte(`"7.05"`), &m))
	assert.Equal(t, domain.Money(705), m)
}

func TestMoney_UnmarshalRejectsExcessPrecision(t *testing.T) {
	var m domain.Money
	assert.Error(t, json.Unmarshal([]byte("1.005"), &m))
}

func TestKilometers_UnmarshalRejectsOverflowingValue(t *testing.T) {
	var k domain.Kilometers
	assert.Error(t, json.Unmarshal([]byte(strings.Repeat("9", 25)), &k))
	assert.Zero(t, k)
}

func TestKilometers_JSONRoundTrip(t *testing.T) {
	out, err := json.Marshal(domain.Kilometers(1025))
	require.NoError(t, err)
	assert.Equal(t, "10.25", string(out))

	var k domain.Kilometers
	require.NoError(t, json.Unmarshal([]byte("10.25"), &k))
	assert.Equal(t, domain.Kilometers(1025), k)
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "0.00", domain.Money(0).String())
	assert.Equal(t, "0.05", domain.Money(5).String())
	assert.Equal(t, "1.50", domain.Money(150).String())
	assert.Equal(t, "-1.50", domain.Money(-150).String())
	assert.Equal(t, "1234.00", domain.Money(123400).String())
}
