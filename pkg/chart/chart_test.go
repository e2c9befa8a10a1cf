package chart

import (
	"strings"
	"testing"

	"github.com/Darhlilove/dashly-sub001/pkg/model"
)

func barResult() *model.Result {
	return &model.Result{
		Columns: []string{"region", "total"},
		Rows: [][]string{
			{"north", "150"},
			{"south", "250"},
			{"west", "50"},
		},
	}
}

func barSpec() model.ChartSpec {
	return model.ChartSpec{
		Type:     model.ChartBar,
		Title:    "Sales by region",
		LabelCol: "region",
		ValueCol: "total",
	}
}

func TestExtractSeries(t *testing.T) {
	s, err := ExtractSeries(barSpec(), barResult())
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if len(s.Labels) != 3 || len(s.Values) != 3 {
		t.Fatalf("expected 3 points, got %d/%d", len(s.Labels), len(s.Values))
	}
	if s.Labels[1] != "south" || s.Values[1] != 250 {
		t.Errorf("expected south/250, got %s/%v", s.Labels[1], s.Values[1])
	}
}

func TestExtractSeriesSkipsNonNumeric(t *testing.T) {
	res := barResult()
	res.Rows = append(res.Rows, []string{"east", "n/a"})
	s, err := ExtractSeries(barSpec(), res)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if len(s.Values) != 3 {
		t.Errorf("expected non-numeric row skipped, got %d points", len(s.Values))
	}
}

func TestExtractSeriesMissingColumn(t *testing.T) {
	spec := barSpec()
	spec.ValueCol = "revenue"
	if _, err := ExtractSeries(spec, barResult()); err == nil {
		t.Error("expected error for missing value column")
	}
}

func TestExtractSeriesAllNonNumeric(t *testing.T) {
	res := &model.Result{
		Columns: []string{"region", "total"},
		Rows:    [][]string{{"north", "abc"}},
	}
	if _, err := ExtractSeries(barSpec(), res); err == nil {
		t.Error("expected error when no values parse")
	}
}

func TestRenderBars(t *testing.T) {
	r := NewRenderer(60, false)
	out, err := r.Render(barSpec(), barResult())
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	lines := strings.Split(out, "\n")
	if lines[0] != "Sales by region" {
		t.Errorf("expected title first, got %q", lines[0])
	}
	if len(lines) != 4 {
		t.Fatalf("expected title plus 3 bars, got %d lines", len(lines))
	}

	// The largest value fills a strictly longer bar than the smallest.
	southBars := strings.Count(lines[2], "█")
	westBars := strings.Count(lines[3], "█")
	if southBars <= westBars {
		t.Errorf("expected south (%d blocks) longer than west (%d blocks)", southBars, westBars)
	}
	if !strings.Contains(lines[2], "250") {
		t.Errorf("expected value printed on bar row, got %q", lines[2])
	}
}

func TestRenderBarsZeroValues(t *testing.T) {
	res := &model.Result{
		Columns: []string{"region", "total"},
		Rows:    [][]string{{"north", "0"}, {"south", "0"}},
	}
	r := NewRenderer(40, false)
	out, err := r.Render(barSpec(), res)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if strings.Contains(out, "█") {
		t.Errorf("expected no filled blocks for all-zero values:\n%s", out)
	}
}

func TestRenderBarsTruncatesLongLabels(t *testing.T) {
	res := &model.Result{
		Columns: []string{"region", "total"},
		Rows:    [][]string{{strings.Repeat("x", 40), "10"}, {"y", "5"}},
	}
	r := NewRenderer(50, false)
	out, err := r.Render(barSpec(), res)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(out, "…") {
		t.Errorf("expected long label truncated with ellipsis:\n%s", out)
	}
}

func TestRenderSparkline(t *testing.T) {
	res := &model.Result{
		Columns: []string{"day", "value"},
		Rows:    [][]string{{"mon", "1"}, {"tue", "5"}, {"wed", "3"}},
	}
	spec := model.ChartSpec{Type: model.ChartLine, Title: "Trend", LabelCol: "day", ValueCol: "value"}

	r := NewRenderer(40, false)
	out, err := r.Render(spec, res)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(out, "▁") || !strings.Contains(out, "█") {
		t.Errorf("expected min and max spark runes:\n%s", out)
	}
	if !strings.Contains(out, "min 1") || !strings.Contains(out, "max 5") {
		t.Errorf("expected min/max footer:\n%s", out)
	}
}

func TestRenderInvalidChartType(t *testing.T) {
	r := NewRenderer(40, false)
	spec := barSpec()
	spec.Type = "pie"
	if _, err := r.Render(spec, barResult()); err == nil {
		t.Error("expected error for unknown chart type")
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{150, "150"},
		{2.5, "2.50"},
		{0, "0"},
	}
	for _, tt := range tests {
		if got := formatValue(tt.in); got != tt.want {
			t.Errorf("formatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
