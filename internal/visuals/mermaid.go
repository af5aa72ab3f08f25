package visuals

import (
	"fmt"
	"math"
	"strings"

	"triples-mcp/internal/simulation"
	"triples-mcp/internal/stats"
)

// MaxGapBars caps the number of gaps drawn in the gap series chart.
const MaxGapBars = 40

// GenerateGapChart creates a Mermaid xychart of the most recent gaps with the
// cluster threshold drawn as a reference line.
func GenerateGapChart(gaps []stats.Gap, clusterMaxGap int) string {
	if len(gaps) == 0 {
		return ""
	}

	start := max(0, len(gaps)-MaxGapBars)
	var labels, values, thresholds []string
	maxVal := clusterMaxGap
	for _, g := range gaps[start:] {
		labels = append(labels, fmt.Sprintf("\"%s\"", g.To.Draw))
		values = append(values, fmt.Sprintf("%d", g.Distance))
		thresholds = append(thresholds, fmt.Sprintf("%d", clusterMaxGap))
		if g.Distance > maxVal {
			maxVal = g.Distance
		}
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"Gaps Between Events (Last %d)\"\n", len(values)))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Draws\" 0 --> %d\n", int(math.Ceil(float64(maxVal)*1.1))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(thresholds, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateWindowChart creates a Mermaid bar chart of draws per event for each
// trailing window, with the baseline as a line. Windows without events plot as 0.
func GenerateWindowChart(windows []stats.ClassifiedRate, baseline *float64) string {
	if len(windows) == 0 {
		return ""
	}

	var labels, values, base []string
	maxVal := 0.0
	if baseline != nil {
		maxVal = *baseline
	}
	for _, w := range windows {
		labels = append(labels, fmt.Sprintf("\"%d\"", w.Size))
		v := 0.0
		if w.Every != nil {
			v = *w.Every
		}
		values = append(values, fmt.Sprintf("%.1f", v))
		if baseline != nil {
			base = append(base, fmt.Sprintf("%.1f", *baseline))
		}
		maxVal = math.Max(maxVal, v)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Draws per Event by Window\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Draws per Event\" 0 --> %d\n", int(math.Ceil(math.Max(1, maxVal*1.2)))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	if len(base) > 0 {
		sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(base, ", ")))
	}
	sb.WriteString("```")
	return sb.String()
}

// GenerateOverlayChart compares file-only and simulated event counts per window.
func GenerateOverlayChart(file []stats.ClassifiedRate, overlay simulation.Overlay) string {
	if len(file) == 0 || overlay.ManualCount == 0 {
		return ""
	}

	var labels, fileVals, simVals []string
	maxVal := 1
	for _, w := range file {
		sim, ok := overlay.Window(w.Size)
		if !ok {
			continue
		}
		labels = append(labels, fmt.Sprintf("\"%d\"", w.Size))
		fileVals = append(fileVals, fmt.Sprintf("%d", w.Events))
		simVals = append(simVals, fmt.Sprintf("%d", sim.Events))
		maxVal = max(maxVal, w.Events, sim.Events)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Events per Window (File vs Manual Overlay)\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Events\" 0 --> %d\n", maxVal+int(math.Max(1, float64(maxVal)*0.2))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(fileVals, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(simVals, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateBucketPie creates a Mermaid pie chart of a gap distribution.
func GenerateBucketPie(title string, s stats.Summary) string {
	if !s.Found() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString(fmt.Sprintf("pie title %s\n", title))
	for _, b := range s.Buckets {
		sb.WriteString(fmt.Sprintf("    \"%s\" : %d\n", b.Label, b.Count))
	}
	sb.WriteString("```")
	return sb.String()
}
