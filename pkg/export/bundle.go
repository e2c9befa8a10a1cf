package export

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/Darhlilove/dashly-sub001/pkg/model"
)

// Bundle file names inside an exported report directory.
const (
	bundleIndexFile    = "index.html"
	bundleChartFile    = "chart.svg"
	bundleChartPNGFile = "chart.png"
	bundleCSVFile      = "results.csv"
)

// BundleOptions describes one exported report.
type BundleOptions struct {
	// Dir is the output directory; it is created if absent.
	Dir string

	// Title heads the report page.
	Title string

	// Result is the query result to include.
	Result *model.Result

	// Chart, when non-nil, adds an SVG chart to the bundle.
	Chart *model.ChartSpec
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; color: #222; }
table { border-collapse: collapse; margin-top: 1rem; }
th, td { border: 1px solid #ccc; padding: 4px 10px; text-align: left; }
th { background: #f0f0f0; }
.meta { color: #777; font-size: 0.85rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="meta">Generated {{.Generated}} &middot; <a href="{{.CSVFile}}">download CSV</a></p>
{{if .HasChart}}<img src="{{.ChartFile}}" alt="chart">{{end}}
<table>
<tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}
</table>
{{if .SQL}}<p class="meta">SQL: <code>{{.SQL}}</code></p>{{end}}
</body>
</html>
`))

// SaveBundle writes a self-contained report directory: an HTML page,
// the result as CSV, and optionally the chart as SVG plus a PNG
// fallback.
func SaveBundle(opts BundleOptions) error {
	if opts.Result == nil {
		return fmt.Errorf("bundle has no result")
	}
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return fmt.Errorf("create bundle directory: %w", err)
	}

	if err := SaveResultCSV(filepath.Join(opts.Dir, bundleCSVFile), opts.Result); err != nil {
		return err
	}

	hasChart := false
	if opts.Chart != nil {
		if err := SaveChartSVG(filepath.Join(opts.Dir, bundleChartFile), *opts.Chart, opts.Result); err != nil {
			return err
		}
		if err := SaveChartPNG(filepath.Join(opts.Dir, bundleChartPNGFile), *opts.Chart, opts.Result); err != nil {
			return err
		}
		hasChart = true
	}

	title := opts.Title
	if title == "" {
		title = "dashly report"
	}

	f, err := os.Create(filepath.Join(opts.Dir, bundleIndexFile))
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer f.Close()

	data := struct {
		Title     string
		Generated string
		Columns   []string
		Rows      [][]string
		SQL       string
		HasChart  bool
		ChartFile string
		CSVFile   string
	}{
		Title:     title,
		Generated: time.Now().Format("2006-01-02 15:04"),
		Columns:   opts.Result.Columns,
		Rows:      opts.Result.Rows,
		SQL:       opts.Result.SQL,
		HasChart:  hasChart,
		ChartFile: bundleChartFile,
		CSVFile:   bundleCSVFile,
	}
	if err := indexTemplate.Execute(f, data); err != nil {
		return err
	}
	return f.Close()
}
