package view

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMoney(t *testing.T) {
	assert.Equal(t, "Rs 1,250.00", Money(decimal.RequireFromString("1250"), "LKR"))
	assert.Equal(t, "$0.50", Money(decimal.RequireFromString("0.5"), ""))
	assert.Equal(t, "-€12.35", Money(decimal.RequireFromString("-12.345"), "eur"))
	assert.Equal(t, "CHF 1,000,000.00", Money(decimal.NewFromInt(1000000), "CHF"))
}

func TestFlashClass(t *testing.T) {
	assert.Equal(t, "toast-error", Flash{Kind: FlashError}.Class())
	assert.Equal(t, "toast-info", Flash{}.Class())
}
