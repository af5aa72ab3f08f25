package stats

// DefaultClusterMaxGap is the largest gap that keeps a cluster growing.
const DefaultClusterMaxGap = 18

// Cluster is a maximal run of events that opens with two events in consecutive
// draws and continues while each following gap stays within the threshold.
type Cluster struct {
	Start         Event `json:"start"`
	End           Event `json:"end"`
	StartGapIndex int   `json:"startGapIndex"`
	EndGapIndex   int   `json:"endGapIndex"`
	TripleCount   int   `json:"tripleCount"`
	DrawSpan      int   `json:"drawSpan"`
	Gaps          []int `json:"gaps"`
}

// ClusterStatus describes whether the latest event closes a cluster.
type ClusterStatus struct {
	Active      bool   `json:"active"`
	TripleCount int    `json:"tripleCount,omitempty"`
	DrawSpan    int    `json:"drawSpan,omitempty"`
	Gaps        []int  `json:"gaps,omitempty"`
	StartDraw   string `json:"startDraw,omitempty"`
	EndDraw     string `json:"endDraw,omitempty"`
}

// DetectClusters performs a single left-to-right pass over gaps. A cluster starts
// at a gap of exactly 1 and absorbs following gaps while they are <= maxGap.
// Scanning resumes after the last absorbed gap, so clusters never overlap.
func DetectClusters(gaps []Gap, maxGap int) []Cluster {
	clusters := []Cluster{}
	i := 0
	for i < len(gaps) {
		if gaps[i].Distance != 1 {
			i++
			continue
		}

		end := i
		for end+1 < len(gaps) && gaps[end+1].Distance <= maxGap {
			end++
		}

		internal := Distances(gaps[i : end+1])
		start, last := gaps[i].From, gaps[end].To
		clusters = append(clusters, Cluster{
			Start:         start,
			End:           last,
			StartGapIndex: i,
			EndGapIndex:   end,
			TripleCount:   len(internal) + 1,
			DrawSpan:      last.Idx - start.Idx,
			Gaps:          internal,
		})

		i = end + 1
	}
	return clusters
}

// CurrentClusterStatus reports the cluster whose end event is the latest event, if any.
// A cluster that ended before the latest event is not active.
func CurrentClusterStatus(events []Event, clusters []Cluster) ClusterStatus {
	if len(events) == 0 {
		return ClusterStatus{}
	}
	last := events[len(events)-1]
	for _, c := range clusters {
		if c.End.Idx == last.Idx {
			return ClusterStatus{
				Active:      true,
				TripleCount: c.TripleCount,
				DrawSpan:    c.DrawSpan,
				Gaps:        c.Gaps,
				StartDraw:   c.Start.Draw,
				EndDraw:     c.End.Draw,
			}
		}
	}
	return ClusterStatus{}
}
