package stats

// Gap is the distance in draws between two chronologically adjacent events.
type Gap struct {
	From     Event `json:"from"`
	To       Event `json:"to"`
	Distance int   `json:"gap"`
}

// CalculateGaps returns one gap per consecutive event pair.
func CalculateGaps(events []Event) []Gap {
	if len(events) < 2 {
		return []Gap{}
	}
	gaps := make([]Gap, 0, len(events)-1)
	for i := 1; i < len(events); i++ {
		gaps = append(gaps, Gap{
			From:     events[i-1],
			To:       events[i],
			Distance: events[i].Idx - events[i-1].Idx,
		})
	}
	return gaps
}

// Distances extracts the gap values.
func Distances(gaps []Gap) []int {
	out := make([]int, len(gaps))
	for i, g := range gaps {
		out[i] = g.Distance
	}
	return out
}

// MaxGap returns the longest gap, or nil when there are none.
func MaxGap(gaps []Gap) *int {
	if len(gaps) == 0 {
		return nil
	}
	max := gaps[0].Distance
	for _, g := range gaps[1:] {
		if g.Distance > max {
			max = g.Distance
		}
	}
	return &max
}

// LongGaps returns the gaps strictly longer than limit, in chronological order.
func LongGaps(gaps []Gap, limit int) []Gap {
	out := []Gap{}
	for _, g := range gaps {
		if g.Distance > limit {
			out = append(out, g)
		}
	}
	return out
}
