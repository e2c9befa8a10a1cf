package export

import (
	"fmt"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/Darhlilove/dashly-sub001/pkg/chart"
	"github.com/Darhlilove/dashly-sub001/pkg/model"
)

const (
	pngWidth     = 800
	pngRowHeight = 28
	pngMargin    = 16
	pngLabelArea = 180
)

// SaveChartPNG rasterizes a bar chart for contexts that cannot display
// SVG (chat clients, slide decks).
func SaveChartPNG(path string, spec model.ChartSpec, res *model.Result) error {
	s, err := chart.ExtractSeries(spec, res)
	if err != nil {
		return err
	}

	height := pngMargin*2 + pngRowHeight + len(s.Values)*pngRowHeight
	dc := gg.NewContext(pngWidth, height)
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetRGB(0.1, 0.1, 0.1)
	dc.DrawString(spec.Title, pngMargin, pngMargin+13)

	maxVal := s.Values[0]
	for _, v := range s.Values {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal <= 0 {
		maxVal = 1
	}

	barArea := float64(pngWidth - pngLabelArea - pngMargin*2 - 80)
	for i, v := range s.Values {
		y := float64(pngMargin + pngRowHeight + i*pngRowHeight)

		dc.SetRGB(0.1, 0.1, 0.1)
		dc.DrawString(s.Labels[i], pngMargin, y+18)

		w := barArea * v / maxVal
		if w < 1 && v > 0 {
			w = 1
		}
		// steelblue, matching the SVG exporter
		dc.SetRGB(0.27, 0.51, 0.71)
		dc.DrawRectangle(float64(pngLabelArea), y+6, w, float64(pngRowHeight)-12)
		dc.Fill()

		dc.SetRGB(0.1, 0.1, 0.1)
		dc.DrawString(formatNumber(v), float64(pngLabelArea)+w+6, y+18)
	}

	return dc.SavePNG(path)
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
