package dataset

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/Darhlilove/dashly-sub001/pkg/model"
)

// statWorkers bounds how many columns are summarized concurrently.
const statWorkers = 4

// ComputeStats fills in d.Stats with per-column summaries. Numeric
// columns get min/max/mean/stddev; every column gets count and
// distinct. Columns are processed concurrently.
func ComputeStats(ctx context.Context, d *model.Dataset) error {
	stats := make(map[string]model.ColumnStats, len(d.Columns))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(statWorkers)

	for i, col := range d.Columns {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s := summarizeColumn(d, i)
			mu.Lock()
			stats[col.Name] = s
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	d.Stats = stats
	return nil
}

func summarizeColumn(d *model.Dataset, col int) model.ColumnStats {
	var s model.ColumnStats
	distinct := make(map[string]struct{})

	numeric := d.Columns[col].Type.IsNumeric()
	var values []float64

	for _, row := range d.Rows {
		v := strings.TrimSpace(row[col])
		if v == "" {
			continue
		}
		s.Count++
		distinct[v] = struct{}{}
		if numeric {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				values = append(values, f)
			}
		}
	}
	s.Distinct = len(distinct)

	if numeric && len(values) > 0 {
		s.Min = floats.Min(values)
		s.Max = floats.Max(values)
		mean, std := stat.MeanStdDev(values, nil)
		s.Mean = mean
		if len(values) > 1 {
			s.StdDev = std
		}
	}
	return s
}
