package helper

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var durationPart = regexp.MustCompile(`(\d+(?:\.\d+)?)(ms|s|m|h|d)`)

func GenerateRandomID() string {
	b := make([]byte, 4)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// ParseDuration parses durations like "500ms", "5s", "1m30s" or "1d".
// A bare number is read as seconds ("5", "0.5").
func ParseDuration(input string) (time.Duration, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, fmt.Errorf("empty duration")
	}

	if seconds, err := strconv.ParseFloat(input, 64); err == nil {
		if seconds < 0 {
			return 0, fmt.Errorf("negative duration: %s", input)
		}
		return scale(input, seconds, time.Second)
	}

	matches := durationPart.FindAllStringSubmatchIndex(input, -1)
	if len(matches) == 0 {
		return 0, fmt.Errorf("invalid duration string: %s", input)
	}

	var total time.Duration
	next := 0
	for _, m := range matches {
		// every character must belong to a number+unit pair
		if m[0] != next {
			return 0, fmt.Errorf("invalid duration string: %s", input)
		}
		next = m[1]

		value, _ := strconv.ParseFloat(input[m[2]:m[3]], 64)
		var unit time.Duration
		switch input[m[4]:m[5]] {
		case "ms":
			unit = time.Millisecond
		case "s":
			unit = time.Second
		case "m":
			unit = time.Minute
		case "h":
			unit = time.Hour
		case "d":
			unit = 24 * time.Hour
		}
		part, err := scale(input, value, unit)
		if err != nil {
			return 0, err
		}
		if total > math.MaxInt64-part {
			return 0, fmt.Errorf("duration out of range: %s", input)
		}
		total += part
	}
	if next != len(input) {
		return 0, fmt.Errorf("invalid duration string: %s", input)
	}

	return total, nil
}

// scale converts value units into a duration, rejecting NaN, infinities and
// anything beyond the range of time.Duration.
func scale(input string, value float64, unit time.Duration) (time.Duration, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("invalid duration string: %s", input)
	}
	d := value * float64(unit)
	if d >= math.MaxInt64 {
		return 0, fmt.Errorf("duration out of range: %s", input)
	}
	return time.Duration(d), nil
}

// Sleep pauses for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
