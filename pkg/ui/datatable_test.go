package ui

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Darhlilove/dashly-sub001/pkg/layout"
	"github.com/Darhlilove/dashly-sub001/pkg/model"
)

func testResult(rows int) *model.Result {
	res := &model.Result{Columns: []string{"region", "sales"}}
	for i := 0; i < rows; i++ {
		res.Rows = append(res.Rows, []string{
			fmt.Sprintf("region-%02d", i),
			fmt.Sprintf("%d", (rows-i)*10),
		})
	}
	return res
}

func TestTableVirtualScrollWindow(t *testing.T) {
	tbl := NewTableModel()
	tbl.SetSize(80, 8) // 5 visible rows
	tbl.SetResult(testResult(100))

	view := tbl.View()
	if !strings.Contains(view, "region-00") {
		t.Errorf("expected first row visible, got:\n%s", view)
	}
	if strings.Contains(view, "region-50") {
		t.Error("row far below the window should not render")
	}

	tbl.ScrollDown(50)
	view = tbl.View()
	if !strings.Contains(view, "region-50") {
		t.Errorf("expected scrolled row visible, got:\n%s", view)
	}
	if strings.Contains(view, "region-00") {
		t.Error("row above the window should not render after scroll")
	}
}

func TestTableVirtualScrollClamps(t *testing.T) {
	tbl := NewTableModel()
	tbl.SetSize(80, 8)
	tbl.SetResult(testResult(10))

	tbl.ScrollUp(100)
	if got := tbl.offset; got != 0 {
		t.Errorf("offset after over-scroll up = %d, want 0", got)
	}
	tbl.ScrollDown(1000)
	if tbl.offset > 10 {
		t.Errorf("offset after over-scroll down = %d, want <= 10", tbl.offset)
	}
}

func TestTablePagination(t *testing.T) {
	tbl := NewTableModel()
	tbl.SetSize(80, 30)
	tbl.SetMode(layout.TablePaginated)
	tbl.SetPageSize(10)
	tbl.SetResult(testResult(25))

	if !strings.Contains(tbl.View(), "page 1/3") {
		t.Errorf("expected page 1/3 status, got:\n%s", tbl.View())
	}

	tbl.NextPage()
	tbl.NextPage()
	if !strings.Contains(tbl.View(), "page 3/3") {
		t.Errorf("expected page 3/3, got:\n%s", tbl.View())
	}
	tbl.NextPage() // past the end
	if !strings.Contains(tbl.View(), "page 3/3") {
		t.Error("NextPage past the last page should not advance")
	}

	tbl.PrevPage()
	tbl.PrevPage()
	tbl.PrevPage()
	tbl.PrevPage() // past the start
	if !strings.Contains(tbl.View(), "page 1/3") {
		t.Error("PrevPage past the first page should not retreat")
	}
}

func TestTableSimpleModeIgnoresInteraction(t *testing.T) {
	tbl := NewTableModel()
	tbl.SetSize(80, 40)
	tbl.SetMode(layout.TableSimple)
	tbl.SetResult(testResult(100))

	before := tbl.View()
	tbl.ScrollDown(10)
	tbl.NextPage()
	if tbl.View() != before {
		t.Error("simple mode should ignore scroll and pagination")
	}
	if !strings.Contains(before, "showing first") {
		t.Errorf("expected simple-mode status, got:\n%s", before)
	}
}

func TestTableSortCycle(t *testing.T) {
	tbl := NewTableModel()
	tbl.SetSize(80, 30)
	res := &model.Result{
		Columns: []string{"name", "value"},
		Rows: [][]string{
			{"b", "2"},
			{"c", "10"},
			{"a", "1"},
		},
	}
	tbl.SetResult(res)

	tbl.CycleSort(1) // ascending, numeric
	if got := tbl.rows()[0][1]; got != "1" {
		t.Errorf("ascending sort first value = %q, want 1", got)
	}
	if got := tbl.rows()[2][1]; got != "10" {
		t.Errorf("numeric sort should place 10 last, got %q", got)
	}

	tbl.CycleSort(1) // descending
	if got := tbl.rows()[0][1]; got != "10" {
		t.Errorf("descending sort first value = %q, want 10", got)
	}

	tbl.CycleSort(1) // back to natural order
	if got := tbl.rows()[0][0]; got != "b" {
		t.Errorf("third cycle should restore natural order, got first row %q", got)
	}
}

func TestTableSortDisabledByFeatures(t *testing.T) {
	tbl := NewTableModel()
	tbl.SetSize(80, 30)
	tbl.SetResult(testResult(5))
	tbl.SetFeatures(layout.Features{})

	tbl.CycleSort(0)
	if tbl.sorted != nil {
		t.Error("sort should be a no-op when the feature is off")
	}
}

func TestTableModeChangeResetsPosition(t *testing.T) {
	tbl := NewTableModel()
	tbl.SetSize(80, 8)
	tbl.SetResult(testResult(100))
	tbl.ScrollDown(40)

	tbl.SetMode(layout.TablePaginated)
	if tbl.offset != 0 || tbl.page != 0 {
		t.Errorf("mode change should reset position, offset=%d page=%d", tbl.offset, tbl.page)
	}
}

func TestTableEmptyResult(t *testing.T) {
	tbl := NewTableModel()
	if !strings.Contains(tbl.View(), "no results") {
		t.Errorf("empty table view = %q", tbl.View())
	}
}

func TestTableTruncatesWideCells(t *testing.T) {
	tbl := NewTableModel()
	tbl.SetSize(80, 10)
	tbl.SetResult(&model.Result{
		Columns: []string{"c"},
		Rows:    [][]string{{strings.Repeat("x", 100)}},
	})
	for _, line := range strings.Split(tbl.View(), "\n") {
		if strings.Count(line, "x") > maxColumnWidth {
			t.Errorf("cell not truncated to column width: %q", line)
		}
	}
}
