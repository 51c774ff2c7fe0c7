package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, int64(2), RoundHalfUp(decimal.NewFromFloat(1.5)))
	assert.Equal(t, int64(1), RoundHalfUp(decimal.NewFromFloat(1.4)))
	assert.Equal(t, int64(37501), RoundHalfUp(decimal.NewFromFloat(37500.75)))
	assert.Equal(t, int64(-2), RoundHalfUp(decimal.NewFromFloat(-1.5)))
}

func TestDailyRate(t *testing.T) {
	// 500000 / 30 = 16666.67 -> 16667
	assert.Equal(t, int64(16667), DailyRate(500000, 30))
	assert.Equal(t, int64(16129), DailyRate(500000, 31))
	assert.Equal(t, int64(10000), DailyRate(300000, 30))
}

func TestProrate(t *testing.T) {
	assert.Equal(t, int64(250000), Prorate(500000, 15, 30))
	assert.Equal(t, int64(500000), Prorate(500000, 30, 30))
	// elapsed beyond month end clamps to the full salary
	assert.Equal(t, int64(500000), Prorate(500000, 35, 30))
	// 500000 * 10 / 31 = 161290.32 -> 161290
	assert.Equal(t, int64(161290), Prorate(500000, 10, 31))
}

func TestApplyRate(t *testing.T) {
	quarter := decimal.NewFromFloat(0.25)
	got := ApplyRate(16667, quarter)
	assert.True(t, got.Equal(decimal.NewFromFloat(4166.75)), got.String())
}
