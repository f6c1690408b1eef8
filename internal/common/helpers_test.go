package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToBaseUnits(t *testing.T) {
	tests := []struct {
		in       string
		decimals int
		want     uint64
	}{
		{"0.024981836", 9, 24981836},
		{"1", 9, 1_000_000_000},
		{"1.5", 6, 1_500_000},
		{"0.000001", 6, 1},
		{"10", 0, 10},
		{"2.5000009", 6, 2_500_000}, // extra precision is truncated
	}

	for _, tt := range tests {
		got, err := ToBaseUnits(tt.in, tt.decimals)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestToBaseUnits_Invalid(t *testing.T) {
	for _, in := range []string{"", "abc", "1.2.3", "-1"} {
		_, err := ToBaseUnits(in, 6)
		assert.Error(t, err, in)
	}
}

func TestFromBaseUnits(t *testing.T) {
	assert.Equal(t, "0.024981836", FromBaseUnits(24981836, 9))
	assert.Equal(t, "1.000000", FromBaseUnits(1_000_000, 6))
	assert.Equal(t, "0.000001", FromBaseUnits(1, 6))
}
