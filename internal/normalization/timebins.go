package normalization

import (
	"fmt"
	"time"
)

// The seven fixed hour bins partitioning the day. The overnight bin is wider
// on purpose: very little completion traffic lands there.
var HourBins = []string{"0-6", "6-9", "9-12", "12-15", "15-18", "18-21", "21-24"}

var hourBinStarts = []int{0, 6, 9, 12, 15, 18, 21}

// HourBin maps a timestamp to one of the seven fixed bins. A zero timestamp
// maps to the first bin rather than being dropped; callers that want to
// exclude unknown times must check IsZero themselves.
func HourBin(t time.Time) string {
	if t.IsZero() {
		return HourBins[0]
	}
	h := t.Hour()
	for i := len(hourBinStarts) - 1; i >= 0; i-- {
		if h >= hourBinStarts[i] {
			return HourBins[i]
		}
	}
	return HourBins[0]
}

// HourBinIndex returns the position of a bin label in day order, or -1 for an
// unknown label. Used for earliest-bin tie-breaks.
func HourBinIndex(bin string) int {
	for i, b := range HourBins {
		if b == bin {
			return i
		}
	}
	return -1
}

// MonthKey formats a timestamp as "YYYY-MM" in UTC. Zero time yields "".
func MonthKey(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.UTC()
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// DayOfWeek returns 0..6 with Sunday=0, locale independent. Zero time yields -1.
func DayOfWeek(t time.Time) int {
	if t.IsZero() {
		return -1
	}
	return int(t.UTC().Weekday())
}

// MonthKeyOffset returns the month key n months before (negative) or after
// (positive) the given time.
func MonthKeyOffset(t time.Time, n int) string {
	if t.IsZero() {
		return ""
	}
	t = t.UTC()
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return MonthKey(first.AddDate(0, n, 0))
}
