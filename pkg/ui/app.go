package ui

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Darhlilove/dashly-sub001/pkg/config"
	"github.com/Darhlilove/dashly-sub001/pkg/dataset"
	"github.com/Darhlilove/dashly-sub001/pkg/export"
	"github.com/Darhlilove/dashly-sub001/pkg/layout"
	"github.com/Darhlilove/dashly-sub001/pkg/model"
	"github.com/Darhlilove/dashly-sub001/pkg/prefs"
	"github.com/Darhlilove/dashly-sub001/pkg/query"
	"github.com/Darhlilove/dashly-sub001/pkg/watcher"
)

// Terminal cells map onto the engine's abstract pixel space at a fixed
// scale, so the breakpoint thresholds line up with familiar column counts
// (an 80-column terminal classifies like an 800px window).
const (
	cellWidthPx  = 10
	cellHeightPx = 16
)

// sidebarCells is the inline sidebar width.
const sidebarCells = 28

// Messages.
type (
	engineEventMsg struct{}

	// FileChangedMsg is sent by the dataset watcher when the source file
	// changes on disk.
	FileChangedMsg struct{}

	datasetReloadedMsg struct {
		ds  *model.Dataset
		ex  query.Executor
		err error
	}

	queryResultMsg struct {
		input string
		tr    *query.Translation
		res   *model.Result
		err   error
	}

	clearStatusMsg struct{ seq int }
)

// AppOptions carries everything the root model needs from startup.
type AppOptions struct {
	Config     config.Config
	Dataset    *model.Dataset
	Executor   query.Executor
	Translator query.Translator
	History    *query.HistoryDB
	Store      *prefs.Store

	Capabilities  layout.Capabilities
	ReducedMotion bool
}

// App is the root model. It owns the layout engine and routes terminal
// input into it: window sizes become viewport classifications, mouse
// events become pointer or touch input depending on the breakpoint, and
// keys go through the keymap.
type App struct {
	cfg        config.Config
	dataset    *model.Dataset
	executor   query.Executor
	translator query.Translator
	history    *query.HistoryDB
	store      *prefs.Store
	userPrefs  prefs.UserPreferences

	caps          layout.Capabilities
	perf          layout.PerformanceClass
	signals       layout.Signals
	reducedMotion bool

	monitor    *layout.Monitor
	thresholds layout.Thresholds
	breakpoint layout.Breakpoint
	adaptive   layout.AdaptiveConfig

	split      *layout.SplitPane
	sidebar    *layout.Sidebar
	transition *layout.ViewTransition

	chat       ChatModel
	sidebarUI  SidebarModel
	dashboard  DashboardModel
	ring       *focusRing
	keys       KeyMap
	help       help.Model
	supervisor *Supervisor

	conversation *model.Conversation

	// events wakes the Bubble Tea loop when an engine timer fires off the
	// input path (settle, auto-hide, view transition).
	events chan struct{}

	// saveDebounce coalesces layout writes during drags; shutdown flushes it.
	saveDebounce *watcher.Debouncer

	width, height int // cells
	status        string
	statusSeq     int
	thinking      bool
	showHelp      bool
}

// NewApp builds the root model. The engine components start at the desktop
// breakpoint; the first WindowSizeMsg reclassifies them.
func NewApp(opts AppOptions) *App {
	a := &App{
		cfg:           opts.Config,
		dataset:       opts.Dataset,
		executor:      opts.Executor,
		translator:    opts.Translator,
		history:       opts.History,
		store:         opts.Store,
		caps:          opts.Capabilities,
		perf:          layout.DetectPerformance(),
		reducedMotion: opts.ReducedMotion,
		thresholds:    opts.Config.Thresholds(),
		breakpoint:    layout.BreakpointDesktop,
		monitor:       layout.NewMonitor(layout.Viewport{}),
		ring:          newFocusRing(),
		keys:          DefaultKeyMap(),
		help:          help.New(),
		supervisor:    NewSupervisor(layout.LogReporter{}),
		events:        make(chan struct{}, 8),
		saveDebounce:  watcher.NewDebouncer(0),
	}

	a.supervisor.Viewport = a.monitor.Current

	a.userPrefs = prefs.DefaultUserPreferences()
	saved := prefs.DefaultLayoutPreferences(a.breakpoint)
	if a.store != nil {
		a.store.Migrate()
		a.userPrefs = a.store.LoadUser()
		saved = a.store.Load(a.breakpoint)
	}
	a.reducedMotion = opts.ReducedMotion || a.userPrefs.Animation.ReducedMotion || opts.Config.Animation.ReducedMotion

	clock := layout.SystemClock()

	spCfg := layout.DefaultSplitPaneConfig()
	if a.cfg.Layout.SnapThreshold > 0 {
		spCfg.SnapThreshold = a.cfg.Layout.SnapThreshold
	}
	a.split = layout.NewSplitPane(spCfg, clock, a.mainGeometry, a.breakpoint, saved.ChatPaneWidth)
	a.split.OnResize = func(chat, dash float64) { a.notify() }

	sbCfg := layout.DefaultSidebarConfig()
	if a.cfg.Sidebar.TriggerWidth > 0 {
		sbCfg.TriggerWidth = a.cfg.Sidebar.TriggerWidth
	}
	// Zero means instant hide; config.Load fills absent keys with the
	// defaults, so the value is always intentional.
	if a.cfg.Sidebar.HideDelay >= 0 {
		sbCfg.HideDelay = a.cfg.Sidebar.HideDelay
	}
	a.sidebar = layout.NewSidebar(sbCfg, clock, a.sidebarContains, a.ring, a.breakpoint, saved.SidebarVisible)
	a.sidebar.OnVisibilityChange = func(bool) { a.notify() }

	duration := time.Duration(a.userPrefs.Animation.DurationMS) * time.Millisecond
	a.transition = layout.NewViewTransition(clock, saved.CurrentView, duration, a.reducedMotion)

	a.chat = NewChatModel(a.caps.Unicode)
	a.sidebarUI = NewSidebarModel()
	a.dashboard = NewDashboardModel(saved.CurrentView, a.caps.Color)
	a.dashboard.SetDataset(a.dataset)
	a.dashboard.SetDisplayed(saved.CurrentView)
	a.dashboard.Toggle().OnViewChange = func(v layout.View) {
		a.transition.SetView(v)
		a.notify()
	}

	if a.history != nil {
		a.loadConversations()
	}

	a.rebuildFocusRing()
	a.ring.Focus("chat-input")
	a.chat.Focus()
	return a
}

func (a *App) notify() {
	select {
	case a.events <- struct{}{}:
	default:
	}
}

// mainGeometry reports the chat/dashboard container in engine pixels.
func (a *App) mainGeometry() (layout.Rect, bool) {
	if a.width <= 0 {
		return layout.Rect{}, false
	}
	left := 0
	if a.sidebarInline() {
		left = a.sidebarWidth() * cellWidthPx
	}
	return layout.Rect{
		Left:  left,
		Width: a.width*cellWidthPx - left,
	}, true
}

func (a *App) sidebarContains(x, y int) bool {
	if !a.sidebar.Visible() {
		return false
	}
	return x < a.sidebarWidth()*cellWidthPx
}

func (a *App) sidebarWidth() int {
	w := sidebarCells
	if max := a.width / 3; max > 0 && w > max {
		w = max
	}
	return w
}

// sidebarInline reports whether a visible sidebar takes its own column.
// In overlay mode it draws over the content instead.
func (a *App) sidebarInline() bool {
	return a.sidebar.Visible() && a.sidebar.Mode() != layout.SidebarOverlay
}

func (a *App) loadConversations() {
	convs, err := a.history.ListConversations()
	if err != nil {
		log.Printf("Warning: failed to list conversations: %v", err)
		return
	}
	if len(convs) == 0 {
		conv, err := a.history.CreateConversation(a.dataset.Name, a.dataset.Name)
		if err != nil {
			log.Printf("Warning: failed to create conversation: %v", err)
			return
		}
		convs = []model.Conversation{*conv}
	}
	a.conversation = &convs[0]
	a.sidebarUI.SetConversations(convs)

	msgs, err := a.history.GetMessages(a.conversation.ID)
	if err == nil {
		a.chat.SetMessages(msgs)
	}
}

func (a *App) rebuildFocusRing() {
	ids := []string{}
	inside := make(map[string]bool)
	if a.sidebar.Visible() {
		for _, id := range a.sidebarUI.FocusIDs() {
			ids = append(ids, id)
			inside[id] = true
		}
	}
	ids = append(ids, "chat-input", "data-table")
	a.ring.SetElements(ids, inside)
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.waitForEngine())
}

func (a *App) waitForEngine() tea.Cmd {
	return func() tea.Msg {
		<-a.events
		return engineEventMsg{}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.applyViewport(msg.Width, msg.Height)
		return a, nil

	case engineEventMsg:
		a.dashboard.SetDisplayed(a.transition.Displayed())
		a.rebuildFocusRing()
		a.syncSizes()
		a.persistLayout()
		return a, a.waitForEngine()

	case FileChangedMsg:
		a.setStatus("dataset changed, reloading…")
		return a, a.reloadDataset()

	case datasetReloadedMsg:
		return a, a.applyReload(msg)

	case queryResultMsg:
		return a, a.applyQueryResult(msg)

	case clearStatusMsg:
		if msg.seq == a.statusSeq {
			a.status = ""
		}
		return a, nil

	case StatusMsg:
		return a, a.setStatus(string(msg))

	case tea.MouseMsg:
		return a, a.handleMouse(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	var cmd tea.Cmd
	a.chat, cmd = a.chat.Update(msg)
	return a, cmd
}

func (a *App) applyViewport(wCells, hCells int) {
	a.width, a.height = wCells, hCells
	wpx, hpx := wCells*cellWidthPx, hCells*cellHeightPx
	a.monitor.Set(wpx, hpx)

	bp := a.thresholds.Classify(wpx)
	tags := layout.ClassifyConstraints(wpx, hpx)
	a.adaptive = layout.ComputeAdaptiveConfig(tags, a.caps, a.perf, a.signals)
	if a.reducedMotion {
		a.adaptive.AnimationsEnabled = false
		a.adaptive.AnimationDuration = 0
	}
	a.transition.SetReducedMotion(!a.adaptive.AnimationsEnabled)

	if bp != a.breakpoint {
		a.breakpoint = bp
		saved := prefs.DefaultLayoutPreferences(bp)
		if a.store != nil {
			saved = a.store.Load(bp)
		}
		a.split.SetBreakpoint(bp, saved.ChatPaneWidth)
		a.sidebar.SetBreakpoint(bp)
	}

	mode := a.adaptive.SidebarMode
	if bp == layout.BreakpointLargeDesktop {
		mode = layout.SidebarAlwaysVisible
	}
	a.sidebar.SetMode(mode)

	a.split.SetEnabled(a.adaptive.ResizeEnabled && bp != layout.BreakpointMobile)
	a.keys.SetResizeEnabled(a.adaptive.ResizeEnabled && bp != layout.BreakpointMobile)

	a.dashboard.ApplyAdaptive(a.adaptive)
	a.dashboard.Table().SetPageSize(a.userPrefs.UI.PageSize)
	a.help.Width = wCells

	a.rebuildFocusRing()
	a.syncSizes()
}

// syncSizes pushes the current pane geometry into the component models.
func (a *App) syncSizes() {
	if a.width <= 0 || a.height <= 0 {
		return
	}
	contentHeight := a.height - 2 // status bar + help line

	sbw := 0
	if a.sidebarInline() {
		sbw = a.sidebarWidth()
	}
	a.sidebarUI.SetSize(a.sidebarWidth(), contentHeight)

	main := a.width - sbw
	if a.breakpoint == layout.BreakpointMobile {
		// Stacked: dashboard above, chat below.
		half := contentHeight / 2
		a.dashboard.SetSize(main, half)
		a.chat.SetSize(main, contentHeight-half)
		return
	}

	chatCells := int(float64(main) * a.split.ChatWidth() / 100)
	if chatCells < 1 {
		chatCells = 1
	}
	if chatCells > main-1 {
		chatCells = main - 1
	}
	a.chat.SetSize(chatCells, contentHeight)
	a.dashboard.SetSize(main-chatCells-1, contentHeight) // 1 cell divider
}

// persistLayout snapshots the current layout and schedules a debounced write.
// A drag resize fires one engine event per pointer move; the debouncer folds
// those into a single save once the motion settles.
func (a *App) persistLayout() {
	if a.store == nil {
		return
	}
	p := prefs.LayoutPreferences{
		ChatPaneWidth:      a.split.ChatWidth(),
		DashboardPaneWidth: a.split.DashboardWidth(),
		CurrentView:        a.dashboard.Toggle().Current(),
		SidebarVisible:     a.sidebar.Visible(),
		LastBreakpoint:     a.breakpoint,
		Version:            prefs.LayoutVersion,
	}
	bp := a.breakpoint
	a.saveDebounce.Trigger(func() {
		a.store.Save(p, bp)
	})
}

func (a *App) setStatus(s string) tea.Cmd {
	a.status = s
	a.statusSeq++
	seq := a.statusSeq
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// ═══════════════════════════════════════════════════════════════════════
// Mouse routing
// ═══════════════════════════════════════════════════════════════════════

// dividerHit reports whether a press at cell x lands on the split divider.
func (a *App) dividerHit(x int) bool {
	rect, ok := a.mainGeometry()
	if !ok {
		return false
	}
	dividerPx := rect.Left + int(float64(rect.Width)*a.split.ChatWidth()/100)
	px := x * cellWidthPx
	return px >= dividerPx-cellWidthPx && px <= dividerPx+cellWidthPx
}

func (a *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	px, py := msg.X*cellWidthPx, msg.Y*cellHeightPx
	mobile := a.breakpoint == layout.BreakpointMobile

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.routeScroll(msg.X, -3)
		case tea.MouseButtonWheelDown:
			a.routeScroll(msg.X, 3)
		case tea.MouseButtonLeft:
			if mobile {
				a.sidebar.TouchStart(px, py)
				return nil
			}
			if a.dividerHit(msg.X) && a.split.PointerDown(px) {
				return nil
			}
			if a.sidebar.Visible() && a.sidebar.Mode() == layout.SidebarOverlay && !a.sidebarContains(px, py) {
				a.sidebar.BackdropTap()
			}
		}

	case tea.MouseActionMotion:
		if mobile {
			a.sidebar.TouchMove(px, py)
			return nil
		}
		if a.split.IsResizing() {
			a.split.PointerMove(px)
			return nil
		}
		a.sidebar.PointerMoved(px, py)

	case tea.MouseActionRelease:
		if mobile {
			a.sidebar.TouchEnd()
			return nil
		}
		a.split.PointerUp()
	}
	return nil
}

// routeScroll sends wheel movement to the pane under the pointer.
func (a *App) routeScroll(xCell, lines int) {
	sbw := 0
	if a.sidebarInline() {
		sbw = a.sidebarWidth()
	}
	main := a.width - sbw
	chatCells := int(float64(main) * a.split.ChatWidth() / 100)
	if xCell >= sbw+chatCells || a.breakpoint == layout.BreakpointMobile {
		t := a.dashboard.Table()
		if lines < 0 {
			t.ScrollUp(-lines)
		} else {
			t.ScrollDown(lines)
		}
	}
}

// ═══════════════════════════════════════════════════════════════════════
// Key routing
// ═══════════════════════════════════════════════════════════════════════

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := a.keys

	switch {
	case key.Matches(msg, k.Quit):
		a.shutdown()
		return a, tea.Quit

	case key.Matches(msg, k.Help):
		a.showHelp = !a.showHelp
		return a, nil

	case key.Matches(msg, k.Refresh):
		a.supervisor.Reset()
		return a, tea.Batch(a.setStatus("refreshing…"), a.reloadDataset())

	case key.Matches(msg, k.ToggleSidebar):
		a.sidebar.Toggle()
		a.rebuildFocusRing()
		a.syncSizes()
		return a, nil

	case key.Matches(msg, k.ToggleView):
		a.dashboard.Toggle().Step()
		return a, nil

	case key.Matches(msg, k.Escape):
		if a.sidebar.HandleEscape() {
			a.rebuildFocusRing()
			a.syncSizes()
			return a, nil
		}
		if a.sidebarUI.Searching() {
			a.sidebarUI.StopSearch()
			return a, nil
		}
		a.showHelp = false
		return a, nil

	case key.Matches(msg, k.Tab), key.Matches(msg, k.ShiftTab):
		shift := key.Matches(msg, k.ShiftTab)
		if !a.sidebar.HandleTab(shift) {
			if shift {
				a.ring.Prev()
			} else {
				a.ring.Next()
			}
		}
		a.syncFocus()
		return a, nil

	case key.Matches(msg, k.GrowChat):
		a.split.StepRight(msg.Alt)
		a.syncSizes()
		return a, nil

	case key.Matches(msg, k.ShrinkChat):
		a.split.StepLeft(msg.Alt)
		a.syncSizes()
		return a, nil

	case key.Matches(msg, k.ResetSplit):
		a.split.ResetToDefault()
		a.syncSizes()
		return a, nil

	case key.Matches(msg, k.MaxDashboard):
		a.split.MaximizeDashboard()
		a.syncSizes()
		return a, nil

	case key.Matches(msg, k.MaxChat):
		a.split.MaximizeChat()
		a.syncSizes()
		return a, nil

	case key.Matches(msg, k.CopySQL):
		if err := a.chat.CopyLastSQL(); err != nil {
			return a, a.setStatus("copy failed: " + err.Error())
		}
		return a, a.setStatus("SQL copied to clipboard")

	case key.Matches(msg, k.Export):
		if !a.adaptive.Features.Export {
			return a, a.setStatus("export unavailable in this layout")
		}
		return a, a.exportBundle()

	case key.Matches(msg, k.PageNext):
		a.pageOrScroll(1)
		return a, nil

	case key.Matches(msg, k.PagePrev):
		a.pageOrScroll(-1)
		return a, nil
	}

	current, _ := a.ring.Current()
	if strings.HasPrefix(current, "sidebar") || strings.HasPrefix(current, "conversation:") {
		return a, a.handleSidebarKey(msg)
	}

	if a.chat.Focused() {
		if key.Matches(msg, k.Submit) {
			return a, a.submitQuery()
		}
		var cmd tea.Cmd
		a.chat, cmd = a.chat.Update(msg)
		return a, cmd
	}

	// Data table focus.
	switch msg.String() {
	case "up":
		a.dashboard.Table().ScrollUp(1)
	case "down":
		a.dashboard.Table().ScrollDown(1)
	default:
		if a.adaptive.Features.Sort {
			// 1-9 sorts by that column.
			s := msg.String()
			if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
				a.dashboard.Table().CycleSort(int(s[0] - '1'))
			}
		}
	}
	return a, nil
}

func (a *App) pageOrScroll(dir int) {
	t := a.dashboard.Table()
	switch t.Mode() {
	case layout.TablePaginated:
		if dir > 0 {
			t.NextPage()
		} else {
			t.PrevPage()
		}
	default:
		if dir > 0 {
			t.ScrollDown(10)
		} else {
			t.ScrollUp(10)
		}
	}
}

func (a *App) handleSidebarKey(msg tea.KeyMsg) tea.Cmd {
	if a.sidebarUI.Searching() {
		switch msg.Type {
		case tea.KeyBackspace:
			a.sidebarUI.Backspace()
		case tea.KeyEnter:
			a.sidebarUI.StopSearch()
		case tea.KeyRunes:
			for _, r := range msg.Runes {
				a.sidebarUI.TypeRune(r)
			}
		}
		return nil
	}

	switch msg.String() {
	case "/":
		a.sidebarUI.StartSearch()
	case "up", "k":
		a.sidebarUI.MoveUp()
	case "down", "j":
		a.sidebarUI.MoveDown()
	case "enter":
		return a.selectConversation()
	}
	return nil
}

func (a *App) selectConversation() tea.Cmd {
	conv, ok := a.sidebarUI.Selected()
	if !ok || a.history == nil {
		return nil
	}
	a.conversation = conv
	msgs, err := a.history.GetMessages(conv.ID)
	if err != nil {
		return a.setStatus("failed to load conversation: " + err.Error())
	}
	a.chat.SetMessages(msgs)
	return a.setStatus("switched to " + conv.Title)
}

func (a *App) syncFocus() {
	if id, ok := a.ring.Current(); ok && id == "chat-input" {
		a.chat.Focus()
	} else {
		a.chat.Blur()
	}
}

// ═══════════════════════════════════════════════════════════════════════
// Query flow
// ═══════════════════════════════════════════════════════════════════════

func (a *App) submitQuery() tea.Cmd {
	input := strings.TrimSpace(a.chat.Value())
	if input == "" || a.thinking {
		return nil
	}
	a.chat.Reset()
	a.thinking = true
	a.chat.SetThinking(true)

	userMsg := model.Message{Role: model.RoleUser, Text: input, CreatedAt: time.Now()}
	if a.conversation != nil {
		userMsg.ConversationID = a.conversation.ID
	}
	a.chat.Append(userMsg)
	if a.history != nil && a.conversation != nil {
		if err := a.history.AppendMessage(&userMsg); err != nil {
			log.Printf("Warning: failed to save message: %v", err)
		}
	}

	translator, executor, ds := a.translator, a.executor, a.dataset
	return func() tea.Msg {
		tr, err := translator.Translate(input, ds)
		if err != nil {
			return queryResultMsg{input: input, err: err}
		}
		ctx, cancel := context.WithTimeout(context.Background(), query.DefaultQueryTimeout)
		defer cancel()
		res, err := executor.Execute(ctx, tr.SQL)
		return queryResultMsg{input: input, tr: tr, res: res, err: err}
	}
}

func (a *App) applyQueryResult(msg queryResultMsg) tea.Cmd {
	a.thinking = false
	a.chat.SetThinking(false)

	reply := model.Message{Role: model.RoleAssistant, CreatedAt: time.Now()}
	if a.conversation != nil {
		reply.ConversationID = a.conversation.ID
	}

	if msg.err != nil {
		reply.Text = "I couldn't answer that: " + msg.err.Error()
		a.chat.Append(reply)
		return nil
	}

	reply.SQL = msg.tr.SQL
	reply.Text = fmt.Sprintf("%s\n\n%d rows in %s.", msg.tr.Summary, len(msg.res.Rows), msg.res.Duration.Round(time.Millisecond))
	a.chat.Append(reply)

	a.dashboard.SetResult(msg.res, msg.tr.Chart)
	if msg.tr.Chart != nil {
		a.dashboard.Toggle().Select(layout.ViewDashboard)
	}

	if a.history != nil && a.conversation != nil {
		if err := a.history.AppendMessage(&reply); err != nil {
			log.Printf("Warning: failed to save message: %v", err)
		}
	}
	return nil
}

// ═══════════════════════════════════════════════════════════════════════
// Dataset reload and export
// ═══════════════════════════════════════════════════════════════════════

func (a *App) reloadDataset() tea.Cmd {
	path := a.dataset.Path
	return func() tea.Msg {
		ds, err := dataset.Load(path)
		if err != nil {
			return datasetReloadedMsg{err: err}
		}
		if err := dataset.ComputeStats(context.Background(), ds); err != nil {
			return datasetReloadedMsg{err: err}
		}
		ex, err := query.NewSQLiteExecutor(ds)
		if err != nil {
			return datasetReloadedMsg{err: err}
		}
		return datasetReloadedMsg{ds: ds, ex: ex}
	}
}

func (a *App) applyReload(msg datasetReloadedMsg) tea.Cmd {
	if msg.err != nil {
		return a.setStatus("reload failed: " + msg.err.Error())
	}
	if a.executor != nil {
		a.executor.Close()
	}
	a.dataset = msg.ds
	a.executor = msg.ex
	a.dashboard.SetDataset(msg.ds)
	return a.setStatus(fmt.Sprintf("reloaded %s (%d rows)", msg.ds.Name, len(msg.ds.Rows)))
}

func (a *App) exportBundle() tea.Cmd {
	res := a.dashboard.Result()
	if res == nil {
		return a.setStatus("nothing to export yet")
	}
	spec := a.dashboard.ChartSpec()
	dir := filepath.Join(".", "dashly-report-"+time.Now().Format("20060102-150405"))
	return func() tea.Msg {
		err := export.SaveBundle(export.BundleOptions{
			Dir:    dir,
			Title:  "dashly report",
			Result: res,
			Chart:  spec,
		})
		if err != nil {
			return StatusMsg("export failed: " + err.Error())
		}
		return StatusMsg("exported to " + dir)
	}
}

// StatusMsg carries ephemeral status text into the footer.
type StatusMsg string

func (a *App) shutdown() {
	a.persistLayout()
	a.saveDebounce.Flush()
	a.split.Dispose()
	a.sidebar.Dispose()
	a.transition.Dispose()
	if a.executor != nil {
		a.executor.Close()
	}
	if a.history != nil {
		a.history.Close()
	}
}

// ═══════════════════════════════════════════════════════════════════════
// Rendering
// ═══════════════════════════════════════════════════════════════════════

// View implements tea.Model.
func (a *App) View() string {
	if a.width <= 0 {
		return "loading…"
	}

	var columns []string
	if a.sidebarInline() {
		columns = append(columns, a.supervisor.Render("sidebar", a.sidebarUI.View))
	}

	var main string
	if a.breakpoint == layout.BreakpointMobile {
		main = lipgloss.JoinVertical(lipgloss.Left,
			a.supervisor.Render("dashboard", a.dashboard.View),
			a.supervisor.Render("chat", a.chat.View),
		)
	} else {
		divider := a.dividerView()
		main = lipgloss.JoinHorizontal(lipgloss.Top,
			a.supervisor.Render("chat", a.chat.View),
			divider,
			a.supervisor.Render("dashboard", a.dashboard.View),
		)
	}
	columns = append(columns, main)
	body := lipgloss.JoinHorizontal(lipgloss.Top, columns...)

	if a.sidebar.Visible() && a.sidebar.Mode() == layout.SidebarOverlay {
		// No true overlay in a cell grid; the sidebar borrows the left
		// column while shown.
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			a.supervisor.Render("sidebar", a.sidebarUI.View), body)
	}

	footer := a.footerView()
	if a.showHelp {
		footer = a.help.FullHelpView(a.keys.FullHelp())
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, footer)
}

func (a *App) dividerView() string {
	ch := "│"
	if a.split.IsResizing() {
		ch = "┃"
	}
	if !a.caps.Unicode {
		ch = "|"
	}
	h := a.height - 2
	if h < 1 {
		h = 1
	}
	lines := make([]string, h)
	for i := range lines {
		lines[i] = ch
	}
	style := MutedStyle
	if a.split.IsResizing() || a.split.IsSettling() {
		style = SelectedStyle
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (a *App) footerView() string {
	left := a.status
	if left == "" {
		left = fmt.Sprintf("%s · %s", a.dataset.Name, a.breakpoint)
		if a.thinking {
			left += " · thinking…"
		}
	}
	bar := StatusBarStyle.Render(left)
	if !a.userPrefs.UI.ShowHelpFooter {
		return bar
	}
	return bar + "\n" + a.help.ShortHelpView(a.keys.ShortHelp())
}

// ReducedMotionFromEnv reports whether the environment requests reduced
// motion.
func ReducedMotionFromEnv() bool {
	v := strings.ToLower(os.Getenv("DASHLY_REDUCED_MOTION"))
	return v == "1" || v == "true" || v == "yes"
}
