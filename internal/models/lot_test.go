package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLotStatus_Normalize(t *testing.T) {
	tests := []struct {
		input    LotStatus
		expected LotStatus
	}{
		{"available", StatusAvailable},
		{"Available", StatusAvailable},
		{" SOLD ", StatusSold},
		{"reserved", StatusReserved},
		{"foreclosed", "FORECLOSED"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.input.Normalize(), string(tt.input))
	}
}

func TestLotStatus_Known(t *testing.T) {
	assert.True(t, StatusAvailable.Known())
	assert.True(t, LotStatus("sold").Known())
	assert.True(t, LotStatus(" reserved ").Known())
	assert.False(t, LotStatus("FORECLOSED").Known())
	assert.False(t, LotStatus("").Known())
}
