package stats

// DefaultWindows are the trailing window sizes reported for every table.
var DefaultWindows = []int{100, 200, 400, 800, 20000}

// Tolerance band around a window/baseline ratio of 1.0.
const (
	fasterRatio = 0.9
	slowerRatio = 1.1
)

// WindowRate is the event density over the trailing Size draws ending at the latest draw.
type WindowRate struct {
	Size   int      `json:"size"`
	Draws  int      `json:"draws"`
	Events int      `json:"events"`
	Every  *float64 `json:"every"` // draws per event; nil when the window holds no events
}

// RateClass compares a window rate with the baseline rate.
type RateClass string

const (
	RateFaster      RateClass = "faster than baseline"
	RateSlower      RateClass = "slower than baseline"
	RateMatches     RateClass = "matches baseline"
	RateUnavailable RateClass = "unavailable"
)

// WindowStart returns the first position covered by a trailing window of size w over n draws.
func WindowStart(n, w int) int {
	return max(0, n-w)
}

// NewWindowRate builds a rate from raw counts.
func NewWindowRate(size, draws, events int) WindowRate {
	r := WindowRate{Size: size, Draws: draws, Events: events}
	if events > 0 {
		every := float64(draws) / float64(events)
		r.Every = &every
	}
	return r
}

// RateInWindow counts the events inside the trailing window of size w over n draws.
func RateInWindow(n int, events []Event, w int) WindowRate {
	start := WindowStart(n, w)
	count := 0
	for _, ev := range events {
		if ev.Idx >= start && ev.Idx < n {
			count++
		}
	}
	return NewWindowRate(w, n-start, count)
}

// Baseline returns draws per event over the whole table, or nil when there are no events.
func Baseline(n int, events []Event) *float64 {
	if n == 0 || len(events) == 0 {
		return nil
	}
	b := float64(n) / float64(len(events))
	return &b
}

// ClassifyRate places a window rate relative to the baseline using a ±10% band.
func ClassifyRate(every, baseline *float64) RateClass {
	if every == nil || baseline == nil || *baseline == 0 {
		return RateUnavailable
	}
	ratio := *every / *baseline
	switch {
	case ratio <= fasterRatio:
		return RateFaster
	case ratio >= slowerRatio:
		return RateSlower
	default:
		return RateMatches
	}
}
