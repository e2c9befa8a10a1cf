// Package chart renders query results as terminal charts.
package chart

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Darhlilove/dashly-sub001/pkg/model"
)

const (
	maxLabelWidth = 20
	maxBars       = 30
	minBarArea    = 10
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Series is a chart-ready projection of a result: one label and one
// numeric value per point.
type Series struct {
	Labels []string
	Values []float64
}

// ExtractSeries pulls the spec's label and value columns out of a
// result. Rows whose value does not parse as a number are skipped.
func ExtractSeries(spec model.ChartSpec, res *model.Result) (*Series, error) {
	labelIdx, valueIdx := -1, -1
	for i, c := range res.Columns {
		if c == spec.LabelCol {
			labelIdx = i
		}
		if c == spec.ValueCol {
			valueIdx = i
		}
	}
	if labelIdx < 0 {
		return nil, fmt.Errorf("result has no column %q", spec.LabelCol)
	}
	if valueIdx < 0 {
		return nil, fmt.Errorf("result has no column %q", spec.ValueCol)
	}

	s := &Series{}
	for _, row := range res.Rows {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[valueIdx]), 64)
		if err != nil {
			continue
		}
		s.Labels = append(s.Labels, row[labelIdx])
		s.Values = append(s.Values, v)
	}
	if len(s.Values) == 0 {
		return nil, fmt.Errorf("no numeric values in column %q", spec.ValueCol)
	}
	return s, nil
}

// Renderer draws charts at a fixed width.
type Renderer struct {
	Width int
	Color bool

	barStyle   lipgloss.Style
	titleStyle lipgloss.Style
	labelStyle lipgloss.Style
}

// NewRenderer creates a renderer for the given width in cells.
func NewRenderer(width int, color bool) *Renderer {
	r := &Renderer{Width: width, Color: color}
	if color {
		r.barStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "32", Dark: "86"})
		r.titleStyle = lipgloss.NewStyle().Bold(true)
		r.labelStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "246"})
	} else {
		r.barStyle = lipgloss.NewStyle()
		r.titleStyle = lipgloss.NewStyle()
		r.labelStyle = lipgloss.NewStyle()
	}
	return r
}

// Render draws the chart described by spec from the result.
func (r *Renderer) Render(spec model.ChartSpec, res *model.Result) (string, error) {
	if !spec.Type.IsValid() {
		return "", fmt.Errorf("invalid chart type: %s", spec.Type)
	}
	s, err := ExtractSeries(spec, res)
	if err != nil {
		return "", err
	}

	switch spec.Type {
	case model.ChartLine:
		return r.renderSparkline(spec.Title, s), nil
	default:
		return r.renderBars(spec.Title, s), nil
	}
}

// renderBars draws horizontal bars, one row per point, scaled to the
// largest value.
func (r *Renderer) renderBars(title string, s *Series) string {
	labels, values := s.Labels, s.Values
	if len(values) > maxBars {
		labels, values = labels[:maxBars], values[:maxBars]
	}

	labelWidth := 0
	for _, l := range labels {
		if w := runewidth.StringWidth(l); w > labelWidth {
			labelWidth = w
		}
	}
	if labelWidth > maxLabelWidth {
		labelWidth = maxLabelWidth
	}

	maxVal := values[0]
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}

	valueWidth := 0
	formatted := make([]string, len(values))
	for i, v := range values {
		formatted[i] = formatValue(v)
		if len(formatted[i]) > valueWidth {
			valueWidth = len(formatted[i])
		}
	}

	// label · bar · value, separated by single spaces
	barArea := r.Width - labelWidth - valueWidth - 2
	if barArea < minBarArea {
		barArea = minBarArea
	}

	var b strings.Builder
	if title != "" {
		b.WriteString(r.titleStyle.Render(title))
		b.WriteString("\n")
	}
	for i, v := range values {
		label := runewidth.Truncate(labels[i], labelWidth, "…")
		label = runewidth.FillRight(label, labelWidth)

		filled := 0
		if maxVal > 0 && v > 0 {
			filled = int(v / maxVal * float64(barArea))
			if filled == 0 {
				filled = 1
			}
		}
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barArea-filled)

		b.WriteString(r.labelStyle.Render(label))
		b.WriteString(" ")
		b.WriteString(r.barStyle.Render(bar))
		b.WriteString(" ")
		b.WriteString(formatted[i])
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderSparkline draws the series as a single compact row.
func (r *Renderer) renderSparkline(title string, s *Series) string {
	minVal, maxVal := s.Values[0], s.Values[0]
	for _, v := range s.Values {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	span := maxVal - minVal
	runes := make([]rune, len(s.Values))
	for i, v := range s.Values {
		idx := 0
		if span > 0 {
			idx = int((v - minVal) / span * float64(len(sparkRunes)-1))
		}
		runes[i] = sparkRunes[idx]
	}

	var b strings.Builder
	if title != "" {
		b.WriteString(r.titleStyle.Render(title))
		b.WriteString("\n")
	}
	b.WriteString(r.barStyle.Render(string(runes)))
	b.WriteString("\n")
	b.WriteString(r.labelStyle.Render(fmt.Sprintf("min %s · max %s", formatValue(minVal), formatValue(maxVal))))
	return b.String()
}

func formatValue(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
