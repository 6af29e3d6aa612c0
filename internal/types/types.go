package types

import (
	"fmt"
	"strings"
	"time"
)

const (
	BUY  Action = "BUY"
	SELL Action = "SELL"
)

type Bar struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

type Action string

// ParseAction accepts "buy"/"sell" in any case.
func ParseAction(s string) (Action, error) {
	switch Action(strings.ToUpper(strings.TrimSpace(s))) {
	case BUY:
		return BUY, nil
	case SELL:
		return SELL, nil
	}
	return "", fmt.Errorf("invalid action: %q", s)
}

func (a Action) String() string {
	return string(a)
}
