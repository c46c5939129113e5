// Package charts draws the dashboard views with go-chart.
package charts

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/GoPolymarket/vesting-dashboard/internal/format"
	"github.com/GoPolymarket/vesting-dashboard/internal/query"
	"github.com/GoPolymarket/vesting-dashboard/internal/vesting"
)

var (
	// ErrNotFound means the project or approach has no data to chart.
	ErrNotFound = errors.New("charts: not found")
	// ErrNoData means every value is zero and there is no range to draw.
	ErrNoData = errors.New("charts: nothing to draw")
	// ErrTooLarge means the requested canvas exceeds MaxDimension.
	ErrTooLarge = errors.New("charts: canvas too large")
)

// Kind selects a chart.
type Kind string

const (
	KindTimeline     Kind = "timeline"
	KindDistribution Kind = "distribution"
	KindVestingRate  Kind = "vesting-rate"
	KindComparison   Kind = "comparison"
	KindPortfolio    Kind = "portfolio"
)

func Kinds() []Kind {
	return []Kind{KindTimeline, KindDistribution, KindVestingRate, KindComparison, KindPortfolio}
}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown chart kind %q (supported: timeline|distribution|vesting-rate|comparison|portfolio)", s)
}

// Format is the image encoding.
type Format string

const (
	SVG Format = "svg"
	PNG Format = "png"
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "svg":
		return SVG, nil
	case "png":
		return PNG, nil
	}
	return "", fmt.Errorf("unknown chart format %q (supported: svg|png)", s)
}

func (f Format) ContentType() string {
	if f == PNG {
		return "image/png"
	}
	return "image/svg+xml"
}

func (f Format) provider() chart.RendererProvider {
	if f == PNG {
		return chart.PNG
	}
	return chart.SVG
}

// Source is the part of the query layer charts read.
type Source interface {
	TimelineSeries(name string, a vesting.Approach) ([]query.TimelinePoint, bool)
	DistributionSplit(name string, a vesting.Approach) ([]query.Slice, bool)
	VestingRateSeries(name string) ([]query.RatePoint, bool)
	PortfolioAggregate(a vesting.Approach) (query.Portfolio, bool)
}

// Request describes one chart.
type Request struct {
	Kind     Kind
	Project  string
	Approach vesting.Approach
	Width    int
	Height   int
}

const (
	defaultWidth  = 960
	defaultHeight = 480

	// MaxDimension bounds each side of the canvas in pixels.
	MaxDimension = 4096
)

// Renderable is satisfied by chart.Chart, chart.BarChart and chart.PieChart.
type Renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

// CheckSize rejects canvases wider or taller than MaxDimension.
func CheckSize(width, height int) error {
	if width > MaxDimension || height > MaxDimension {
		return fmt.Errorf("%w: %dx%d exceeds %dx%d", ErrTooLarge, width, height, MaxDimension, MaxDimension)
	}
	return nil
}

// Render draws req from src into w.
func Render(w io.Writer, src Source, req Request, f Format) error {
	if req.Width <= 0 {
		req.Width = defaultWidth
	}
	if req.Height <= 0 {
		req.Height = defaultHeight
	}
	if err := CheckSize(req.Width, req.Height); err != nil {
		return err
	}
	c, err := build(src, req)
	if err != nil {
		return err
	}
	if err := c.Render(f.provider(), w); err != nil {
		return fmt.Errorf("charts: render %s: %w", req.Kind, err)
	}
	return nil
}

func build(src Source, req Request) (Renderable, error) {
	switch req.Kind {
	case KindTimeline:
		points, ok := src.TimelineSeries(req.Project, req.Approach)
		if !ok {
			return nil, ErrNotFound
		}
		return TimelineChart(req, points)
	case KindDistribution:
		slices, ok := src.DistributionSplit(req.Project, req.Approach)
		if !ok {
			return nil, ErrNotFound
		}
		return DistributionChart(req, slices)
	case KindVestingRate:
		rates, ok := src.VestingRateSeries(req.Project)
		if !ok {
			return nil, ErrNotFound
		}
		return VestingRateChart(req, rates)
	case KindComparison:
		pure, ok := src.TimelineSeries(req.Project, vesting.Pure)
		if !ok {
			return nil, ErrNotFound
		}
		hybrid, ok := src.TimelineSeries(req.Project, vesting.Hybrid)
		if !ok {
			return nil, ErrNotFound
		}
		return ComparisonChart(req, pure, hybrid)
	case KindPortfolio:
		p, ok := src.PortfolioAggregate(req.Approach)
		if !ok {
			return nil, ErrNotFound
		}
		return PortfolioChart(req, p)
	}
	return nil, fmt.Errorf("charts: unsupported kind %q", req.Kind)
}

func color(hex string) drawing.Color {
	r, g, b, err := format.ParseHex(hex)
	if err != nil {
		return chart.ColorAlternateGray
	}
	return drawing.Color{R: r, G: g, B: b, A: 255}
}

func lineStyle(hex string) chart.Style {
	c := color(hex)
	return chart.Style{
		StrokeColor: c,
		StrokeWidth: 2,
		DotColor:    c,
		DotWidth:    3,
	}
}

func background() chart.Style {
	return chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}}
}

func tokenFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return format.Number(f)
	}
	return ""
}

func indexTicks(labels []string) []chart.Tick {
	ticks := make([]chart.Tick, len(labels))
	for i, l := range labels {
		ticks[i] = chart.Tick{Value: float64(i), Label: l}
	}
	return ticks
}

func indexes(n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	return xs
}

func allZero(values ...[]float64) bool {
	for _, vs := range values {
		for _, v := range vs {
			if v != 0 {
				return false
			}
		}
	}
	return true
}

// lineChart needs at least two points so the x range is non-zero.
func lineChart(req Request, title string, labels []string, series []chart.Series) (Renderable, error) {
	if len(labels) < 2 {
		return nil, ErrNoData
	}
	ch := chart.Chart{
		Title:      title,
		Width:      req.Width,
		Height:     req.Height,
		Background: background(),
		XAxis:      chart.XAxis{Ticks: indexTicks(labels)},
		YAxis:      chart.YAxis{Name: "Tokens", ValueFormatter: tokenFormatter},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return &ch, nil
}

// TimelineChart draws cumulative vesting per category plus the total.
func TimelineChart(req Request, points []query.TimelinePoint) (Renderable, error) {
	labels := make([]string, len(points))
	cols := map[vesting.Category][]float64{}
	var totals []float64
	for i, p := range points {
		labels[i] = p.Label
		cols[vesting.Project] = append(cols[vesting.Project], p.Project)
		cols[vesting.Participant] = append(cols[vesting.Participant], p.Participant)
		cols[vesting.Auditor] = append(cols[vesting.Auditor], p.Auditor)
		totals = append(totals, p.Total)
	}
	if allZero(totals) {
		return nil, ErrNoData
	}
	xs := indexes(len(points))
	series := make([]chart.Series, 0, 4)
	for _, c := range vesting.Categories() {
		series = append(series, chart.ContinuousSeries{
			Name:    c.Label(),
			XValues: xs,
			YValues: cols[c],
			Style:   lineStyle(format.CategoryColor(c)),
		})
	}
	series = append(series, chart.ContinuousSeries{
		Name:    "Total",
		XValues: xs,
		YValues: totals,
		Style:   lineStyle(format.ApproachColor(req.Approach)),
	})
	return lineChart(req, fmt.Sprintf("%s: %s Timeline", req.Project, req.Approach.Label()), labels, series)
}

// DistributionChart draws the 50/30/20 split as a pie.
func DistributionChart(req Request, slices []query.Slice) (Renderable, error) {
	values := make([]chart.Value, 0, len(slices))
	var raw []float64
	for _, s := range slices {
		raw = append(raw, s.Value)
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %s", s.Label, format.Number(s.Value)),
			Value: s.Value,
			Style: chart.Style{FillColor: color(format.CategoryColor(s.Category))},
		})
	}
	if allZero(raw) {
		return nil, ErrNoData
	}
	return chart.PieChart{
		Title:  fmt.Sprintf("%s: Token Distribution", req.Project),
		Width:  req.Width,
		Height: req.Height,
		Values: values,
	}, nil
}

// VestingRateChart draws monthly vesting, highlighting milestone months.
func VestingRateChart(req Request, rates []query.RatePoint) (Renderable, error) {
	bars := make([]chart.Value, 0, len(rates))
	var raw []float64
	plain := color(format.DefaultColor)
	event := color(format.ApproachColor(vesting.Hybrid))
	for _, r := range rates {
		fill := plain
		if r.MilestoneEvent {
			fill = event
		}
		raw = append(raw, r.Total)
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("M%d", r.Month),
			Value: r.Total,
			Style: chart.Style{FillColor: fill, StrokeColor: fill},
		})
	}
	if allZero(raw) {
		return nil, ErrNoData
	}
	barWidth := max(8, req.Width/(2*len(bars)+2))
	return chart.BarChart{
		Title:      fmt.Sprintf("%s: Monthly Vesting", req.Project),
		Width:      req.Width,
		Height:     req.Height,
		BarWidth:   barWidth,
		BarSpacing: barWidth / 2,
		Background: background(),
		YAxis:      chart.YAxis{ValueFormatter: tokenFormatter},
		Bars:       bars,
	}, nil
}

// PadSeries extends values to n entries by repeating the last value. It is
// only used to line the four pure milestones up with the hybrid months.
func PadSeries(values []float64, n int) []float64 {
	out := make([]float64, 0, max(n, len(values)))
	out = append(out, values...)
	if len(values) == 0 {
		for len(out) < n {
			out = append(out, 0)
		}
		return out
	}
	last := values[len(values)-1]
	for len(out) < n {
		out = append(out, last)
	}
	return out
}

// ComparisonChart overlays both models' cumulative totals.
func ComparisonChart(req Request, pure, hybrid []query.TimelinePoint) (Renderable, error) {
	labels := make([]string, len(hybrid))
	hybridTotals := make([]float64, len(hybrid))
	for i, p := range hybrid {
		labels[i] = p.Label
		hybridTotals[i] = p.Total
	}
	pureTotals := make([]float64, len(pure))
	for i, p := range pure {
		pureTotals[i] = p.Total
	}
	pureTotals = PadSeries(pureTotals, len(hybrid))
	if allZero(pureTotals, hybridTotals) {
		return nil, ErrNoData
	}
	xs := indexes(len(labels))
	series := []chart.Series{
		chart.ContinuousSeries{Name: vesting.Pure.Label(), XValues: xs, YValues: pureTotals[:len(xs)], Style: lineStyle(format.ApproachColor(vesting.Pure))},
		chart.ContinuousSeries{Name: vesting.Hybrid.Label(), XValues: xs, YValues: hybridTotals, Style: lineStyle(format.ApproachColor(vesting.Hybrid))},
	}
	return lineChart(req, fmt.Sprintf("%s: Pure vs Hybrid", req.Project), labels, series)
}

// PortfolioChart draws the cumulative total across every project.
func PortfolioChart(req Request, p query.Portfolio) (Renderable, error) {
	if allZero(p.Values) {
		return nil, ErrNoData
	}
	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "Portfolio",
			XValues: indexes(len(p.Values)),
			YValues: p.Values,
			Style:   lineStyle(format.ApproachColor(p.Approach)),
		},
	}
	return lineChart(req, fmt.Sprintf("Portfolio: %s", p.Approach.Label()), p.Labels, series)
}
