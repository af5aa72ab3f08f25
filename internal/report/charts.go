package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"triples-mcp/internal/stats"
	"triples-mcp/internal/visuals"
)

// Mermaid returns the Mermaid charts for the report, skipping empty ones.
func Mermaid(r Report) []string {
	a := r.Analysis
	candidates := []string{
		visuals.GenerateGapChart(a.Gaps, a.Options.ClusterMaxGap),
		visuals.GenerateWindowChart(a.Windows, a.Baseline),
		visuals.GenerateOverlayChart(a.Windows, r.Current),
		visuals.GenerateBucketPie(fmt.Sprintf("After a Gap of %d", r.Lag.Lag), r.Lag.Summary),
		visuals.GenerateBucketPie("After Clusters", a.AfterClusters.Summary),
	}
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// WriteMermaid writes the Mermaid charts separated by blank lines.
func WriteMermaid(w io.Writer, r Report) error {
	out := Mermaid(r)
	if len(out) == 0 {
		return nil
	}
	_, err := io.WriteString(w, strings.Join(out, "\n\n")+"\n")
	return err
}

// WriteHTML renders a standalone chart page: every gap in order, the trailing
// window rates against the baseline and the lag-conditioned distribution.
func WriteHTML(w io.Writer, r Report) error {
	page := components.NewPage()
	page.AddCharts(gapSeries(r), windowRates(r), lagBuckets(r))
	return page.Render(w)
}

func gapSeries(r Report) *charts.Line {
	a := r.Analysis
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Gaps between events",
			Subtitle: fmt.Sprintf("%s, %d events, cluster max gap %d", r.File, len(a.Events), a.Options.ClusterMaxGap),
		}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)

	labels := make([]string, len(a.Gaps))
	values := make([]opts.LineData, len(a.Gaps))
	for i, g := range a.Gaps {
		labels[i] = g.To.Draw
		values[i] = opts.LineData{Value: g.Distance}
	}
	line.SetXAxis(labels).AddSeries("gap", values)
	return line
}

func windowRates(r Report) *charts.Bar {
	a := r.Analysis
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Draws per event",
			Subtitle: "baseline " + stats.FormatEvery(a.Baseline),
		}),
	)

	labels := make([]string, len(a.Windows))
	file := make([]opts.BarData, len(a.Windows))
	base := make([]opts.BarData, len(a.Windows))
	for i, w := range a.Windows {
		labels[i] = strconv.Itoa(w.Size)
		file[i] = opts.BarData{Value: everyValue(w.Every)}
		base[i] = opts.BarData{Value: everyValue(a.Baseline)}
	}
	bar.SetXAxis(labels).AddSeries("file", file)
	if r.Current.ManualCount > 0 {
		sim := make([]opts.BarData, len(a.Windows))
		for i, w := range a.Windows {
			cr, _ := r.Current.Window(w.Size)
			sim[i] = opts.BarData{Value: everyValue(cr.Every)}
		}
		bar.AddSeries("with manual", sim)
	}
	bar.AddSeries("baseline", base)
	return bar
}

func lagBuckets(r Report) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("After a gap of %d", r.Lag.Lag),
			Subtitle: fmt.Sprintf("%d historical cases", r.Lag.Count),
		}),
	)
	data := make([]opts.PieData, 0, len(r.Lag.Buckets))
	for _, b := range r.Lag.Buckets {
		data = append(data, opts.PieData{Name: b.Label, Value: b.Count})
	}
	pie.AddSeries("next gap", data)
	return pie
}

// everyValue plots a missing rate as 0.
func everyValue(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
