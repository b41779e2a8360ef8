package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNumberToWords(t *testing.T) {
	tests := map[int64]string{
		7:         "Seven",
		45:        "Forty Five",
		100:       "One Hundred",
		1180:      "One Thousand One Hundred Eighty",
		250000:    "Two Lakh Fifty Thousand",
		12345678:  "One Crore Twenty Three Lakh Forty Five Thousand Six Hundred Seventy Eight",
		100000000: "Ten Crore",
	}
	for in, want := range tests {
		assert.Equal(t, want, NumberToWords(in), "%d", in)
	}
}

func TestAmountToWords(t *testing.T) {
	assert.Equal(t, "One Thousand One Hundred Eighty Rupees Only", AmountToWords(decimal.NewFromInt(1180)))
	assert.Equal(t, "Twelve Rupees and Fifty Paise Only", AmountToWords(decimal.RequireFromString("12.5")))
	assert.Equal(t, "Ninety Nine Paise Only", AmountToWords(decimal.RequireFromString("0.994")))
	assert.Equal(t, "Zero Rupees Only", AmountToWords(decimal.Zero))
}
