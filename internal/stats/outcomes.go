package stats

import (
	"math"
	"slices"
)

// Bucket is one range of the gap distribution. Max is 0 for the open-ended bucket.
type Bucket struct {
	Label   string `json:"label"`
	Min     int    `json:"min"`
	Max     int    `json:"max,omitempty"`
	Count   int    `json:"count"`
	Percent int    `json:"percent"` // rounded independently; the four need not sum to 100
}

var bucketRanges = []Bucket{
	{Label: "1-5", Min: 1, Max: 5},
	{Label: "6-10", Min: 6, Max: 10},
	{Label: "11-20", Min: 11, Max: 20},
	{Label: "21+", Min: 21},
}

// SummaryStats holds the central tendency and range of a gap collection.
type SummaryStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
}

// Summary describes a collection of gap values. Stats and Buckets are nil when
// the collection is empty.
type Summary struct {
	Count   int           `json:"count"`
	Stats   *SummaryStats `json:"stats"`
	Buckets []Bucket      `json:"buckets"`
}

// Found reports whether the summary is backed by at least one value.
func (s Summary) Found() bool {
	return s.Count > 0
}

// Summarize computes count, mean, median, range and bucket distribution.
func Summarize(values []int) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	buckets := slices.Clone(bucketRanges)
	for _, v := range values {
		buckets[bucketIndex(v)].Count++
	}
	for i := range buckets {
		buckets[i].Percent = int(math.Round(float64(buckets[i].Count) / float64(len(values)) * 100))
	}

	return Summary{
		Count: len(values),
		Stats: &SummaryStats{
			Mean:   CalculateMean(values),
			Median: CalculateMedianDiscrete(values),
			Min:    slices.Min(values),
			Max:    slices.Max(values),
		},
		Buckets: buckets,
	}
}

func bucketIndex(v int) int {
	for i, b := range bucketRanges {
		if b.Max != 0 && v <= b.Max {
			return i
		}
	}
	return len(bucketRanges) - 1
}

// LagBehavior summarizes what followed every historical gap of exactly Lag draws.
type LagBehavior struct {
	Lag int `json:"lag"`
	Summary
}

// SummarizeNextGapsForLag collects, for every gap equal to lag, the gap that
// followed it. The final gap has no successor and never contributes.
func SummarizeNextGapsForLag(gaps []Gap, lag int) LagBehavior {
	var next []int
	for i := 0; i < len(gaps)-1; i++ {
		if gaps[i].Distance == lag {
			next = append(next, gaps[i+1].Distance)
		}
	}
	return LagBehavior{Lag: lag, Summary: Summarize(next)}
}

// ClusterBehavior summarizes the gap that followed each cluster. Clusters is the
// number of clusters detected, so "no clusters" and "no cluster has a successor"
// remain distinguishable.
type ClusterBehavior struct {
	Clusters int `json:"clusters"`
	Summary
}

// SummarizeAfterClusters collects the gap right after each cluster's last gap.
// A cluster that ends at the final event has no successor and is skipped.
func SummarizeAfterClusters(gaps []Gap, clusters []Cluster) ClusterBehavior {
	var after []int
	for _, c := range clusters {
		if next := c.EndGapIndex + 1; next < len(gaps) {
			after = append(after, gaps[next].Distance)
		}
	}
	return ClusterBehavior{Clusters: len(clusters), Summary: Summarize(after)}
}
