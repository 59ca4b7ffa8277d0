package otp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumeric_Generate(t *testing.T) {
	tests := []struct {
		name   string
		digits int
		want   int
	}{
		{name: "six", digits: 6, want: 6},
		{name: "eight", digits: 8, want: 8},
		{name: "fallback", digits: 4, want: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewNumeric(tt.digits)
			assert.Equal(t, tt.want, g.Digits())

			for range 50 {
				code, err := g.Generate()
				require.NoError(t, err)
				assert.Len(t, code, tt.want)
				assert.True(t, IsNumeric(code), code)
			}
		})
	}
}

func TestNumeric_Generate_ZeroPadded(t *testing.T) {
	// Arrange
	g := NewNumeric(6)
	g.rand = bytes.NewReader(make([]byte, 64))

	// Act
	code, err := g.Generate()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "000000", code)
}

func TestNumeric_Generate_RandomFailure(t *testing.T) {
	g := NewNumeric(6)
	g.rand = bytes.NewReader(nil)

	_, err := g.Generate()
	assert.Error(t, err)
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, IsNumeric("012345"))
	assert.False(t, IsNumeric(""))
	assert.False(t, IsNumeric("12a456"))
	assert.False(t, IsNumeric(" 123456"))
}
