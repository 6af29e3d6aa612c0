// Package timeframe maps chart timeframes to the duration of one bar.
package timeframe

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	M1  Timeframe = "M1"
	M2  Timeframe = "M2"
	M3  Timeframe = "M3"
	M4  Timeframe = "M4"
	M5  Timeframe = "M5"
	M6  Timeframe = "M6"
	M7  Timeframe = "M7"
	M8  Timeframe = "M8"
	M9  Timeframe = "M9"
	M10 Timeframe = "M10"
	M15 Timeframe = "M15"
	M20 Timeframe = "M20"
	M30 Timeframe = "M30"
	M45 Timeframe = "M45"
	H1  Timeframe = "H1"
	H2  Timeframe = "H2"
	H3  Timeframe = "H3"
	H4  Timeframe = "H4"
	H6  Timeframe = "H6"
	H8  Timeframe = "H8"
	H12 Timeframe = "H12"
	D1  Timeframe = "D1"
	D2  Timeframe = "D2"
	D3  Timeframe = "D3"
	MN1 Timeframe = "MN1"
)

var ErrUnrecognizedTimeframe = errors.New("unrecognized timeframe")

type Timeframe string

const day = 24 * time.Hour

var timeframeToDuration = map[Timeframe]time.Duration{
	M1:  1 * time.Minute,
	M2:  2 * time.Minute,
	M3:  3 * time.Minute,
	M4:  4 * time.Minute,
	M5:  5 * time.Minute,
	M6:  6 * time.Minute,
	M7:  7 * time.Minute,
	M8:  8 * time.Minute,
	M9:  9 * time.Minute,
	M10: 10 * time.Minute,
	M15: 15 * time.Minute,
	M20: 20 * time.Minute,
	M30: 30 * time.Minute,
	M45: 45 * time.Minute,
	H1:  1 * time.Hour,
	H2:  2 * time.Hour,
	H3:  3 * time.Hour,
	H4:  4 * time.Hour,
	H6:  6 * time.Hour,
	H8:  8 * time.Hour,
	H12: 12 * time.Hour,
	D1:  1 * day,
	D2:  2 * day,
	D3:  3 * day,
	MN1: 30 * day, // Approx
}

// aliases are the spellings a chart host uses besides the codes above.
var aliases = map[string]Timeframe{
	"minute":  M1,
	"hour":    H1,
	"daily":   D1,
	"day":     D1,
	"monthly": MN1,
	"month":   MN1,
	// the 30 day bucket is the month
	"d30":     MN1,
	"30 day":  MN1,
	"30 days": MN1,
}

// Parse resolves a code ("H4") or a human tag ("4 hours", "daily",
// "15 minutes", "2 days").
func Parse(tag string) (Timeframe, error) {
	norm := strings.Join(strings.Fields(strings.ToLower(tag)), " ")
	if norm == "" {
		return "", fmt.Errorf("%w: empty", ErrUnrecognizedTimeframe)
	}

	if tf := Timeframe(strings.ToUpper(norm)); isKnown(tf) {
		return tf, nil
	}
	if tf, ok := aliases[norm]; ok {
		return tf, nil
	}

	fields := strings.Fields(norm)
	if len(fields) == 2 {
		var prefix string
		switch strings.TrimSuffix(fields[1], "s") {
		case "minute", "min":
			prefix = "M"
		case "hour":
			prefix = "H"
		case "day":
			prefix = "D"
		case "month":
			prefix = "MN"
		}
		if tf := Timeframe(prefix + fields[0]); prefix != "" && isKnown(tf) {
			return tf, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnrecognizedTimeframe, tag)
}

func isKnown(tf Timeframe) bool {
	_, ok := timeframeToDuration[tf]
	return ok
}

func (tf Timeframe) ToDuration() (time.Duration, error) {
	duration, ok := timeframeToDuration[tf]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnrecognizedTimeframe, tf)
	}
	return duration, nil
}

func (tf Timeframe) MustToDuration() time.Duration {
	duration, err := tf.ToDuration()
	if err != nil {
		panic(err)
	}
	return duration
}

// Minutes returns the bar length in minutes.
func (tf Timeframe) Minutes() (float64, error) {
	d, err := tf.ToDuration()
	if err != nil {
		return 0, err
	}
	return d.Minutes(), nil
}

func (tf Timeframe) String() string {
	return string(tf)
}

// All returns every supported timeframe, shortest first.
func All() []Timeframe {
	all := make([]Timeframe, 0, len(timeframeToDuration))
	for tf := range timeframeToDuration {
		all = append(all, tf)
	}
	sort.Slice(all, func(i, j int) bool {
		return timeframeToDuration[all[i]] < timeframeToDuration[all[j]]
	})
	return all
}
