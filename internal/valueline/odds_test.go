package valueline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/value-lines/internal/models"
)

func TestDecimalToAmerican(t *testing.T) {
	tests := []struct {
		decimal  float64
		american int
	}{
		{2.5, 150},
		{2.0, 100},
		{1.5, -200},
		{1.6667, -150},
		{11, 1000},
	}
	for _, tt := range tests {
		got, err := DecimalToAmerican(tt.decimal)
		require.NoError(t, err)
		assert.Equal(t, tt.american, got, "decimal %v", tt.decimal)
	}

	_, err := DecimalToAmerican(1.0)
	assert.ErrorIs(t, err, models.ErrInvalidOdds)

	_, err = AmericanToDecimal(50)
	assert.ErrorIs(t, err, models.ErrInvalidOdds)
}

func TestAmericanRoundTrip(t *testing.T) {
	for cents := 101; cents <= 2000; cents++ {
		d := float64(cents) / 100
		american, err := DecimalToAmerican(d)
		require.NoError(t, err)
		back, err := AmericanToDecimal(american)
		require.NoError(t, err)
		assert.InDelta(t, d, back, 0.01, "decimal %v via %d", d, american)
	}
}

func TestDecimalToFractional(t *testing.T) {
	assert.Equal(t, "6/4", DecimalToFractional(2.5))
	assert.Equal(t, "1/1", DecimalToFractional(2.0))
	assert.Equal(t, "1/2", DecimalToFractional(1.5))
	assert.Equal(t, "4/6", DecimalToFractional(1.667))
	assert.Equal(t, "10/1", DecimalToFractional(40))
	assert.Equal(t, "1/10", DecimalToFractional(1.01))
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "1.67", FormatDecimal(1.0/0.6))
	assert.Equal(t, "2.00", FormatDecimal(2))
	assert.Equal(t, "+150", FormatAmerican(150))
	assert.Equal(t, "-200", FormatAmerican(-200))
	assert.InDelta(t, 0.4, ImpliedProbability(2.5), 1e-12)
}
