package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound(t *testing.T) {
	assert.Equal(t, 12.35, Round(12.345))
	assert.Equal(t, -0.01, Round(-0.005))
	assert.Equal(t, 100.0, Round(100))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "1200.50", Format(1200.5))
	assert.Equal(t, "0.00", Format(0))
	assert.Equal(t, "-42.10", Format(-42.1))
	assert.Equal(t, "12.35", Format(12.345))
}

func TestParse(t *testing.T) {
	v, err := Parse("1200.50")
	require.NoError(t, err)
	assert.Equal(t, 1200.5, v)

	_, err = Parse("not-a-number")
	assert.Error(t, err)
}

func TestParse_FormatRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 0.01, -5.99, 123456.78} {
		got, err := Parse(Format(v))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestSum_NoFloatDrift(t *testing.T) {
	// Plain float64 addition gives 0.30000000000000004 here.
	assert.Equal(t, 0.3, Sum(0.1, 0.2))
	assert.Equal(t, 0.0, Sum(0.1, 0.2, -0.3))
	assert.Equal(t, 0.0, Sum())
}
