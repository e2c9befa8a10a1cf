// Package export writes query results and charts to files for sharing
// outside the terminal.
package export

import (
	"fmt"
	"io"
	"os"

	svg "github.com/ajstarks/svgo"

	"github.com/Darhlilove/dashly-sub001/pkg/chart"
	"github.com/Darhlilove/dashly-sub001/pkg/model"
)

const (
	svgWidth     = 800
	svgRowHeight = 28
	svgMargin    = 20
	svgLabelArea = 180
	svgValueArea = 80
	svgTitleArea = 40

	barFill   = "fill:#4682b4"
	textStyle = "font-family:sans-serif;font-size:13px;fill:#333"
	titleFont = "font-family:sans-serif;font-size:18px;font-weight:bold;fill:#111"
)

// WriteChartSVG renders the chart described by spec as an SVG document.
func WriteChartSVG(w io.Writer, spec model.ChartSpec, res *model.Result) error {
	s, err := chart.ExtractSeries(spec, res)
	if err != nil {
		return err
	}

	height := svgTitleArea + len(s.Values)*svgRowHeight + svgMargin
	canvas := svg.New(w)
	canvas.Start(svgWidth, height)
	canvas.Rect(0, 0, svgWidth, height, "fill:#ffffff")

	if spec.Title != "" {
		canvas.Text(svgMargin, svgMargin+8, spec.Title, titleFont)
	}

	maxVal := s.Values[0]
	for _, v := range s.Values {
		if v > maxVal {
			maxVal = v
		}
	}

	barArea := svgWidth - svgLabelArea - svgValueArea - 2*svgMargin
	for i, v := range s.Values {
		y := svgTitleArea + i*svgRowHeight

		canvas.Text(svgMargin, y+svgRowHeight/2+5, s.Labels[i], textStyle)

		barLen := 0
		if maxVal > 0 && v > 0 {
			barLen = int(v / maxVal * float64(barArea))
			if barLen < 1 {
				barLen = 1
			}
		}
		canvas.Rect(svgMargin+svgLabelArea, y+4, barLen, svgRowHeight-8, barFill)
		canvas.Text(svgMargin+svgLabelArea+barLen+8, y+svgRowHeight/2+5, formatSVGValue(v), textStyle)
	}

	canvas.End()
	return nil
}

// SaveChartSVG writes the chart to a file at path.
func SaveChartSVG(path string, spec model.ChartSpec, res *model.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteChartSVG(f, spec, res); err != nil {
		return err
	}
	return f.Close()
}

func formatSVGValue(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
