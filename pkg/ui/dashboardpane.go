package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Darhlilove/dashly-sub001/pkg/chart"
	"github.com/Darhlilove/dashly-sub001/pkg/layout"
	"github.com/Darhlilove/dashly-sub001/pkg/model"
)

// DashboardModel is the right-hand pane: a tab bar driven by the view
// toggle, a chart view, and a raw data view.
type DashboardModel struct {
	toggle *layout.ViewToggle

	// displayed lags toggle.Current while a view transition plays.
	displayed layout.View

	table   TableModel
	dataset *model.Dataset
	result  *model.Result
	spec    *model.ChartSpec

	color         bool
	width, height int
}

// NewDashboardModel creates the dashboard with the given initial view.
func NewDashboardModel(initial layout.View, color bool) DashboardModel {
	return DashboardModel{
		toggle:    layout.NewViewToggle(initial, false),
		displayed: initial,
		table:     NewTableModel(),
		color:     color,
	}
}

// SetDisplayed sets the view actually rendered, which lags the toggle's
// selection while a transition plays.
func (d *DashboardModel) SetDisplayed(v layout.View) {
	if v.IsValid() {
		d.displayed = v
	}
}

// Result returns the currently displayed result, if any.
func (d *DashboardModel) Result() *model.Result { return d.result }

// ChartSpec returns the chart suggestion for the current result, if any.
func (d *DashboardModel) ChartSpec() *model.ChartSpec { return d.spec }

// Toggle exposes the view toggle for the root model's routing.
func (d *DashboardModel) Toggle() *layout.ViewToggle { return d.toggle }

// Table exposes the data table for scroll and sort routing.
func (d *DashboardModel) Table() *TableModel { return &d.table }

// SetSize resizes the dashboard and its table.
func (d *DashboardModel) SetSize(width, height int) {
	d.width, d.height = width, height
	d.table.SetSize(width, height-2) // tab bar + spacing
}

// SetDataset sets the backing dataset for the stats panel.
func (d *DashboardModel) SetDataset(ds *model.Dataset) {
	d.dataset = ds
}

// SetResult replaces the displayed result and its chart suggestion.
func (d *DashboardModel) SetResult(res *model.Result, spec *model.ChartSpec) {
	d.result = res
	d.spec = spec
	d.table.SetResult(res)
	d.toggle.SetHasCharts(spec != nil)
}

// ApplyAdaptive pushes the degradation layer's decisions into the table.
func (d *DashboardModel) ApplyAdaptive(cfg layout.AdaptiveConfig) {
	d.table.SetMode(cfg.TableMode)
	d.table.SetFeatures(cfg.Features)
}

// View renders the tab bar and the active view.
func (d DashboardModel) View() string {
	var body string
	switch d.displayed {
	case layout.ViewDashboard:
		body = d.renderDashboard()
	default:
		body = d.table.View()
	}
	return d.renderTabs() + "\n\n" + body
}

func (d DashboardModel) renderTabs() string {
	dash := TabInactiveStyle.Render("Dashboard")
	if d.toggle.Disabled(layout.ViewDashboard) {
		dash = TabDisabledStyle.Render("Dashboard")
	} else if d.toggle.Current() == layout.ViewDashboard {
		dash = TabActiveStyle.Render("Dashboard")
	}
	data := TabInactiveStyle.Render("Data")
	if d.toggle.Current() == layout.ViewData {
		data = TabActiveStyle.Render("Data")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, dash, " ", data)
}

func (d DashboardModel) renderDashboard() string {
	var sections []string

	if d.spec != nil && d.result != nil {
		r := chart.NewRenderer(d.width-2, d.color)
		rendered, err := r.Render(*d.spec, d.result)
		if err != nil {
			sections = append(sections, ErrorStyle.Render("chart: "+err.Error()))
		} else {
			sections = append(sections, rendered)
		}
	}

	if panel := d.renderStats(); panel != "" {
		sections = append(sections, panel)
	}

	if len(sections) == 0 {
		return MutedStyle.Render("ask a question to see charts here")
	}
	return strings.Join(sections, "\n\n")
}

// renderStats summarizes the dataset's numeric columns.
func (d DashboardModel) renderStats() string {
	if d.dataset == nil || len(d.dataset.Stats) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(d.dataset.Name))
	b.WriteString(MutedStyle.Render(fmt.Sprintf("  %d rows · %d columns", len(d.dataset.Rows), len(d.dataset.Columns))))
	b.WriteString("\n")

	for _, col := range d.dataset.Columns {
		st, ok := d.dataset.Stats[col.Name]
		if !ok {
			continue
		}
		line := fmt.Sprintf("  %-20s %s  count=%d distinct=%d", col.Name, col.Type, st.Count, st.Distinct)
		if col.Type.IsNumeric() && st.Count > 0 {
			line += fmt.Sprintf("  min=%.4g max=%.4g mean=%.4g", st.Min, st.Max, st.Mean)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
