package ui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/Darhlilove/dashly-sub001/pkg/layout"
	"github.com/Darhlilove/dashly-sub001/pkg/model"
)

const (
	maxColumnWidth  = 24
	simpleModeRows  = 20
	defaultPageSize = 50
)

// TableModel renders a query result as a table. Its behavior follows the
// degradation layer's table mode:
//
//   - virtual: a scrollable window over all rows
//   - paginated: fixed pages with explicit next/prev
//   - simple: the first rows only, no interaction
type TableModel struct {
	result *model.Result

	mode     layout.TableMode
	features layout.Features

	offset   int // virtual mode scroll position
	page     int // paginated mode page index
	pageSize int

	sortCol  int
	sortDesc bool
	sorted   [][]string

	width, height int
}

// NewTableModel creates an empty table in virtual mode.
func NewTableModel() TableModel {
	return TableModel{
		mode:     layout.TableVirtual,
		features: layout.Features{Search: true, Sort: true, Export: true, ColumnResize: true},
		pageSize: defaultPageSize,
		sortCol:  -1,
	}
}

// SetSize resizes the table.
func (t *TableModel) SetSize(width, height int) {
	t.width, t.height = width, height
}

// SetMode applies the degradation layer's table mode.
func (t *TableModel) SetMode(mode layout.TableMode) {
	if t.mode == mode {
		return
	}
	t.mode = mode
	t.offset = 0
	t.page = 0
}

// SetFeatures applies the degradation layer's feature toggles.
func (t *TableModel) SetFeatures(f layout.Features) {
	t.features = f
	if !f.Sort {
		t.sortCol = -1
		t.sorted = nil
	}
}

// SetPageSize sets the paginated-mode page size.
func (t *TableModel) SetPageSize(n int) {
	if n > 0 {
		t.pageSize = n
	}
}

// SetResult replaces the displayed result and resets position and sort.
func (t *TableModel) SetResult(res *model.Result) {
	t.result = res
	t.offset = 0
	t.page = 0
	t.sortCol = -1
	t.sorted = nil
}

// Mode returns the active table mode.
func (t *TableModel) Mode() layout.TableMode { return t.mode }

// rows returns the result rows in display order.
func (t *TableModel) rows() [][]string {
	if t.result == nil {
		return nil
	}
	if t.sorted != nil {
		return t.sorted
	}
	return t.result.Rows
}

// ScrollUp and ScrollDown move the virtual window.
func (t *TableModel) ScrollUp(lines int) {
	if t.mode != layout.TableVirtual {
		return
	}
	t.offset -= lines
	if t.offset < 0 {
		t.offset = 0
	}
}

func (t *TableModel) ScrollDown(lines int) {
	if t.mode != layout.TableVirtual {
		return
	}
	maxOffset := len(t.rows()) - t.visibleRows()
	if maxOffset < 0 {
		maxOffset = 0
	}
	t.offset += lines
	if t.offset > maxOffset {
		t.offset = maxOffset
	}
}

// NextPage and PrevPage flip pages in paginated mode.
func (t *TableModel) NextPage() {
	if t.mode != layout.TablePaginated {
		return
	}
	if (t.page+1)*t.pageSize < len(t.rows()) {
		t.page++
	}
}

func (t *TableModel) PrevPage() {
	if t.mode != layout.TablePaginated {
		return
	}
	if t.page > 0 {
		t.page--
	}
}

// CycleSort sorts by the given column: ascending, then descending, then
// back to the natural order.
func (t *TableModel) CycleSort(col int) {
	if !t.features.Sort || t.result == nil || col < 0 || col >= len(t.result.Columns) {
		return
	}

	switch {
	case t.sortCol != col:
		t.sortCol, t.sortDesc = col, false
	case !t.sortDesc:
		t.sortDesc = true
	default:
		t.sortCol, t.sorted = -1, nil
		return
	}

	rows := make([][]string, len(t.result.Rows))
	copy(rows, t.result.Rows)
	numeric := columnIsNumeric(rows, col)
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i][col], rows[j][col]
		var less bool
		if numeric {
			fa, _ := strconv.ParseFloat(a, 64)
			fb, _ := strconv.ParseFloat(b, 64)
			less = fa < fb
		} else {
			less = a < b
		}
		if t.sortDesc {
			return !less && a != b
		}
		return less
	})
	t.sorted = rows
	t.offset = 0
	t.page = 0
}

func columnIsNumeric(rows [][]string, col int) bool {
	seen := false
	for _, row := range rows {
		v := strings.TrimSpace(row[col])
		if v == "" {
			continue
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return false
		}
		seen = true
	}
	return seen
}

func (t *TableModel) visibleRows() int {
	n := t.height - 3 // header, divider, status line
	if n < 1 {
		n = 1
	}
	return n
}

// View renders the table.
func (t TableModel) View() string {
	if t.result == nil || len(t.result.Columns) == 0 {
		return MutedStyle.Render("no results yet")
	}

	rows := t.rows()
	widths := t.columnWidths(rows)

	var b strings.Builder
	b.WriteString(t.renderHeader(widths))
	b.WriteString("\n")
	b.WriteString(RenderDivider(t.width))
	b.WriteString("\n")

	start, end, status := t.window(len(rows))
	for _, row := range rows[start:end] {
		b.WriteString(renderRow(row, widths))
		b.WriteString("\n")
	}
	b.WriteString(MutedStyle.Render(status))
	return b.String()
}

// window returns the visible slice bounds and the status line.
func (t TableModel) window(total int) (start, end int, status string) {
	visible := t.visibleRows()

	switch t.mode {
	case layout.TablePaginated:
		start = t.page * t.pageSize
		if start > total {
			start = total
		}
		end = start + t.pageSize
		if end-start > visible {
			end = start + visible
		}
		if end > total {
			end = total
		}
		pages := (total + t.pageSize - 1) / t.pageSize
		if pages == 0 {
			pages = 1
		}
		status = fmt.Sprintf("page %d/%d · %d rows", t.page+1, pages, total)

	case layout.TableSimple:
		limit := simpleModeRows
		if limit > visible {
			limit = visible
		}
		end = limit
		if end > total {
			end = total
		}
		status = fmt.Sprintf("showing first %d of %d rows", end, total)

	default: // virtual
		start = t.offset
		if start > total {
			start = total
		}
		end = start + visible
		if end > total {
			end = total
		}
		status = fmt.Sprintf("rows %d-%d of %d", start+1, end, total)
		if total == 0 {
			status = "0 rows"
		}
	}
	return start, end, status
}

func (t TableModel) columnWidths(rows [][]string) []int {
	widths := make([]int, len(t.result.Columns))
	for i, c := range t.result.Columns {
		widths[i] = runewidth.StringWidth(c)
	}
	// Sample the visible slice only; measuring every row of a large
	// result on each render is wasted work.
	start, end, _ := t.window(len(rows))
	for _, row := range rows[start:end] {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		if widths[i] > maxColumnWidth {
			widths[i] = maxColumnWidth
		}
	}
	return widths
}

func (t TableModel) renderHeader(widths []int) string {
	cells := make([]string, len(t.result.Columns))
	for i, c := range t.result.Columns {
		name := c
		if i == t.sortCol {
			if t.sortDesc {
				name += " ↓"
			} else {
				name += " ↑"
			}
		}
		cells[i] = runewidth.FillRight(runewidth.Truncate(name, widths[i], "…"), widths[i])
	}
	return TitleStyle.Render(strings.Join(cells, "  "))
}

func renderRow(row []string, widths []int) string {
	cells := make([]string, len(widths))
	for i := range widths {
		v := ""
		if i < len(row) {
			v = row[i]
		}
		cells[i] = runewidth.FillRight(runewidth.Truncate(v, widths[i], "…"), widths[i])
	}
	return strings.Join(cells, "  ")
}
