package units

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		value    float64
		from, to string
		want     string
	}{
		{100, "celsius", "fahrenheit", "212.00"},
		{32, "fahrenheit", "celsius", "0.00"},
		{10, "feet", "meters", "3.05"},
		{1, "meters", "feet", "3.28"},
		{5, "kg", "lbs", "11.02"},
		{11, "pounds", "kilograms", "4.99"},
		{0, "Degrees Celsius", "fahrenheit", "32.00"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v %s to %s", tt.value, tt.from, tt.to), func(t *testing.T) {
			got, err := Convert(tt.value, tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.want, fmt.Sprintf("%.2f", got))
		})
	}
}

func TestConvertUnsupported(t *testing.T) {
	_, err := Convert(5, "celsius", "kg")
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = Convert(5, "feet", "feet")
	assert.ErrorIs(t, err, ErrUnsupported)
}
