package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/Darhlilove/dashly-sub001/pkg/model"
)

// WriteResultCSV writes a query result as CSV with a header row.
func WriteResultCSV(w io.Writer, res *model.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(res.Columns); err != nil {
		return err
	}
	for _, row := range res.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveResultCSV writes the result to a file at path.
func SaveResultCSV(path string, res *model.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteResultCSV(f, res); err != nil {
		return err
	}
	return f.Close()
}
