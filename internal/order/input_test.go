package order

import (
	"testing"

	"github.com/lohzi97/FiboManualTradingPanel/internal/fibo"
	"github.com/stretchr/testify/assert"
)

func TestLevelInput_Value(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"0.618", 0.618},
		{" 1.5 ", 1.5},
		{"-0.27", -0.27},
		{"2", 2},
		{"", 0.25},
		{"abc", 0.25},
		{"0,5", 0.25},
		{"NaN", 0.25},
		{"Inf", 0.25},
		{"-inf", 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			in := LevelInput{Text: tt.text, Default: 0.25}
			assert.Equal(t, tt.want, in.Value())
		})
	}
}

func TestDefaultInputs(t *testing.T) {
	in := DefaultInputs(fibo.Levels{Entry: 0.5, StopLoss: 0, TakeProfit: 2})

	assert.Equal(t, "0.50", in.Entry.Text)
	assert.Equal(t, "0.0", in.StopLoss.Text)
	assert.Equal(t, "2.0", in.TakeProfit.Text)
	assert.Equal(t, fibo.Levels{Entry: 0.5, StopLoss: 0, TakeProfit: 2}, in.Levels())
}
