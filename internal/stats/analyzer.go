package stats

import (
	"slices"

	"triples-mcp/internal/draws"
)

// Defaults for the report-only parts of an analysis.
const (
	DefaultLongGap      = 100
	DefaultRecentEvents = 30
)

// Options tunes an analysis. Zero fields fall back to the defaults when
// passed to Analyze; configured values must be positive.
type Options struct {
	Windows       []int `json:"windows" validate:"omitempty,dive,gt=0"`
	ClusterMaxGap int   `json:"clusterMaxGap" validate:"gt=0"`
	LongGap       int   `json:"longGap" validate:"gt=0"`
	RecentEvents  int   `json:"recentEvents" validate:"gt=0"`
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Windows:       slices.Clone(DefaultWindows),
		ClusterMaxGap: DefaultClusterMaxGap,
		LongGap:       DefaultLongGap,
		RecentEvents:  DefaultRecentEvents,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if len(o.Windows) == 0 {
		o.Windows = d.Windows
	}
	if o.ClusterMaxGap <= 0 {
		o.ClusterMaxGap = d.ClusterMaxGap
	}
	if o.LongGap <= 0 {
		o.LongGap = d.LongGap
	}
	if o.RecentEvents <= 0 {
		o.RecentEvents = d.RecentEvents
	}
	return o
}

// ClassifiedRate is a window rate together with its comparison to the baseline.
type ClassifiedRate struct {
	WindowRate
	Class RateClass `json:"class"`
}

// ClassifyWindows pairs each rate with its baseline classification.
func ClassifyWindows(rates []WindowRate, baseline *float64) []ClassifiedRate {
	out := make([]ClassifiedRate, len(rates))
	for i, r := range rates {
		out[i] = ClassifiedRate{WindowRate: r, Class: ClassifyRate(r.Every, baseline)}
	}
	return out
}

// Analysis is the file-only result for one table. It never reflects manual entries.
type Analysis struct {
	Options       Options          `json:"options"`
	Chronology    draws.Chronology `json:"chronology"`
	RowCount      int              `json:"rowCount"`
	MaxDrawNumber *int64           `json:"maxDrawNumber"`

	Events []Event `json:"-"`
	Gaps   []Gap   `json:"-"`

	Baseline   *float64         `json:"baselineEvery"`
	Windows    []ClassifiedRate `json:"windows"`
	LastEvent  *Event           `json:"lastEvent"`
	CurrentLag int              `json:"currentLag"`
	MaxGap     *int             `json:"maxGap"`
	LongGaps   []Gap            `json:"longGaps"`

	Clusters      []Cluster       `json:"clusters"`
	ClusterStatus ClusterStatus   `json:"clusterStatus"`
	AfterClusters ClusterBehavior `json:"afterClusters"`
	LagBehavior   LagBehavior     `json:"lagBehavior"` // conditioned on CurrentLag

	RecentEvents []Event `json:"recentEvents"` // newest first
}

// Analyze runs the full file-only pipeline: chronology, events, gaps, windows,
// clusters and the historical summaries for the current lag.
func Analyze(table draws.Table, opts Options) Analysis {
	opts = opts.withDefaults()

	chrono := draws.ResolveChronology(table.Rows)
	n := len(chrono.Rows)

	events := DetectEvents(chrono.Rows)
	gaps := CalculateGaps(events)
	baseline := Baseline(n, events)

	rates := make([]WindowRate, len(opts.Windows))
	for i, w := range opts.Windows {
		rates[i] = RateInWindow(n, events, w)
	}

	var lastEvent *Event
	lag := n
	if len(events) > 0 {
		last := events[len(events)-1]
		lastEvent = &last
		lag = (n - 1) - last.Idx
	}

	clusters := DetectClusters(gaps, opts.ClusterMaxGap)

	return Analysis{
		Options:       opts,
		Chronology:    chrono,
		RowCount:      n,
		MaxDrawNumber: table.MaxDrawNumber(),
		Events:        events,
		Gaps:          gaps,
		Baseline:      baseline,
		Windows:       ClassifyWindows(rates, baseline),
		LastEvent:     lastEvent,
		CurrentLag:    lag,
		MaxGap:        MaxGap(gaps),
		LongGaps:      LongGaps(gaps, opts.LongGap),
		Clusters:      clusters,
		ClusterStatus: CurrentClusterStatus(events, clusters),
		AfterClusters: SummarizeAfterClusters(gaps, clusters),
		LagBehavior:   SummarizeNextGapsForLag(gaps, lag),
		RecentEvents:  recentEvents(events, opts.RecentEvents),
	}
}

// BehaviorForLag summarizes the historical successors of an arbitrary lag.
func (a Analysis) BehaviorForLag(lag int) LagBehavior {
	return SummarizeNextGapsForLag(a.Gaps, lag)
}

// Window returns the file-only rate for a configured window size.
func (a Analysis) Window(size int) (ClassifiedRate, bool) {
	for _, w := range a.Windows {
		if w.Size == size {
			return w, true
		}
	}
	return ClassifiedRate{}, false
}

func recentEvents(events []Event, limit int) []Event {
	start := max(0, len(events)-limit)
	out := slices.Clone(events[start:])
	slices.Reverse(out)
	if out == nil {
		out = []Event{}
	}
	return out
}
