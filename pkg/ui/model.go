// Package ui is the bubbletea shell around the tree browser engine: the
// hierarchy panel, the optional signal panel, search, selection transfer
// between the two, live design reload and session persistence.
package ui

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dau-dev/simview/pkg/browser"
	"github.com/dau-dev/simview/pkg/config"
	"github.com/dau-dev/simview/pkg/design"
	"github.com/dau-dev/simview/pkg/session"
	"github.com/dau-dev/simview/pkg/watcher"
	"github.com/dau-dev/simview/pkg/wave"
)

type focusArea int

const (
	focusHierarchy focusArea = iota
	focusSignals
)

// designReloadedMsg carries a freshly parsed design after a file change.
type designReloadedMsg struct {
	design *design.Design
}

// reloadErrMsg reports a failed reload; the old design stays up.
type reloadErrMsg struct{ err error }

// watchEventMsg signals that the watched design file changed on disk.
type watchEventMsg struct{}

// Model is the top-level bubbletea model.
type Model struct {
	theme Theme
	cfg   config.Config

	designPath string

	design     *design.Design
	designTree *design.Tree
	hier       *browser.Browser

	wave       *wave.Wave
	waveFilter wave.Filter
	sigs       *browser.Browser

	focus         focusArea
	width, height int

	search       textinput.Model
	searching    bool
	searchOrigin int // selection to restore when search is cancelled

	filterInput textinput.Model
	filtering   bool

	showHelp   bool
	helpScroll int

	statusMsg string

	store   *session.Store
	watch   *watcher.Watcher
	watchCh chan struct{}

	quitting bool
}

// NewModel assembles the shell for a loaded design and optional wave.
func NewModel(d *design.Design, w *wave.Wave, designPath string, cfg config.Config) Model {
	r := lipgloss.NewRenderer(os.Stdout)

	search := textinput.New()
	search.Prompt = "/"
	search.CharLimit = 128

	filter := textinput.New()
	filter.Prompt = "filter: "
	filter.CharLimit = 128

	m := Model{
		theme:      DefaultTheme(r),
		cfg:        cfg,
		designPath: designPath,
		design:     d,
		wave:       w,
		search:     search,
		filterInput: filter,
		width:      80,
		height:     24,
		watchCh:    make(chan struct{}, 1),
	}
	m.designTree = design.NewTree(d)
	m.hier = browser.New(m.designTree, browser.WithLimit(cfg.Limits.Hierarchy))
	if w != nil {
		m.sigs = browser.New(wave.NewTree(w, m.waveFilter), browser.WithLimit(cfg.Limits.Signals))
	}
	return m
}

// WithSessionStore attaches the persistence store and restores any saved
// state for the current design path.
func (m Model) WithSessionStore(store *session.Store) Model {
	m.store = store
	if store == nil {
		return m
	}
	st, ok, err := store.Load(m.designPath)
	if err != nil || !ok {
		return m
	}
	for _, path := range st.Expanded {
		if inst := m.design.FindPath(path); inst != nil {
			m.hier.Expand(inst)
		}
	}
	if inst := m.design.FindPath(st.Selected); inst != nil {
		m.hier.Locate(inst)
	}
	return m
}

// WithWatcher attaches a file watcher whose change events flow into the
// update loop. The watcher must not be started yet.
func (m Model) WithWatcher(w *watcher.Watcher) Model {
	m.watch = w
	return m
}

// Stop releases background resources. Safe to call more than once.
func (m *Model) Stop() {
	if m.watch != nil {
		m.watch.Stop()
	}
	if m.store != nil {
		m.store.Close()
	}
}

func (m Model) Init() tea.Cmd {
	if m.watch == nil {
		return nil
	}
	ch := m.watchCh
	if err := m.watch.Start(); err != nil {
		return nil
	}
	return tea.Batch(waitForWatch(ch))
}

// WatchChan returns the channel the watcher's onChange callback must
// signal. Non-blocking sends only; the channel is buffered by one.
func (m Model) WatchChan() chan<- struct{} { return m.watchCh }

func waitForWatch(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return watchEventMsg{}
	}
}

func (m Model) reloadDesign() tea.Cmd {
	path := m.designPath
	return func() tea.Msg {
		d, err := design.Load(path)
		if err != nil {
			return reloadErrMsg{err: err}
		}
		return designReloadedMsg{design: d}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case watchEventMsg:
		m.statusMsg = "design file changed, reloading..."
		return m, tea.Batch(m.reloadDesign(), waitForWatch(m.watchCh))

	case designReloadedMsg:
		m.applyReload(msg.design)
		return m, nil

	case reloadErrMsg:
		m.statusMsg = m.theme.ErrorText.Render(fmt.Sprintf("reload failed: %v", msg.err))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// applyReload swaps in a freshly parsed design, carrying over as much view
// state as the new hierarchy still supports. Node handles never cross the
// swap; everything travels as dotted paths.
func (m *Model) applyReload(d *design.Design) {
	var expanded []string
	for _, n := range m.hier.ExpandedNodes() {
		expanded = append(expanded, n.(*design.Instance).Path())
	}
	var selected string
	if n := m.hier.SelectedNode(); n != nil {
		selected = n.(*design.Instance).Path()
	}

	m.design = d
	m.designTree = design.NewTree(d)
	m.hier = browser.New(m.designTree, browser.WithLimit(m.cfg.Limits.Hierarchy))
	for _, path := range expanded {
		if inst := d.FindPath(path); inst != nil {
			m.hier.Expand(inst)
		}
	}
	if inst := d.FindPath(selected); inst != nil {
		m.hier.Locate(inst)
	}
	m.statusMsg = "design reloaded"
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		return m.handleHelpKey(msg)
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}
	if m.filtering {
		return m.handleFilterKey(msg)
	}

	b := m.focused()

	switch msg.String() {
	case "ctrl+c", "q":
		m.persistSession()
		m.quitting = true
		return m, tea.Quit

	case "tab":
		if m.sigs != nil {
			if m.focus == focusHierarchy {
				m.focus = focusSignals
			} else {
				m.focus = focusHierarchy
			}
		}
		return m, nil

	case "?":
		m.showHelp = true
		m.helpScroll = 0
		return m, nil

	case "/":
		m.searching = true
		m.searchOrigin = b.SelectedIndex()
		m.search.SetValue("")
		m.search.Focus()
		return m, textinput.Blink

	case "n":
		if !b.SearchNext() && b.Query() != "" {
			m.statusMsg = fmt.Sprintf("no match for %q", b.Query())
		}
		return m, nil

	case "N":
		if !b.SearchPrev() && b.Query() != "" {
			m.statusMsg = fmt.Sprintf("no match for %q", b.Query())
		}
		return m, nil

	case "s":
		b.RequestTransfer()
		m.handleTransfers()
		return m, nil

	case "y":
		m.yankPath()
		return m, nil

	case "r":
		m.statusMsg = "reloading..."
		return m, m.reloadDesign()

	case "u":
		b.Handle(browser.CmdGoToParent)
		return m, nil

	case "k", "up":
		b.Handle(browser.CmdUp)
	case "j", "down":
		b.Handle(browser.CmdDown)
	case "h", "left":
		b.Handle(browser.CmdLeft)
	case "l", "right":
		b.Handle(browser.CmdRight)
	case "pgup":
		b.Handle(browser.CmdPageUp)
	case "pgdown":
		b.Handle(browser.CmdPageDown)
	case "g", "home":
		b.Handle(browser.CmdTop)
	case "G", "end":
		b.Handle(browser.CmdBottom)
	case " ", "enter":
		b.Handle(browser.CmdToggleExpand)

	default:
		if m.focus == focusSignals {
			return m.handleSignalsKey(msg)
		}
	}
	return m, nil
}

// handleSignalsKey handles the signal panel's filter toggles. Each toggle
// rebuilds the panel's browser, since the source's child lists change.
func (m Model) handleSignalsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "i":
		m.waveFilter.HideInputs = !m.waveFilter.HideInputs
		m.rebuildSignals()
	case "o":
		m.waveFilter.HideOutputs = !m.waveFilter.HideOutputs
		m.rebuildSignals()
	case "b":
		m.waveFilter.HideInouts = !m.waveFilter.HideInouts
		m.rebuildSignals()
	case "w":
		m.waveFilter.HideSignals = !m.waveFilter.HideSignals
		m.rebuildSignals()
	case "f":
		m.filtering = true
		m.filterInput.SetValue(m.waveFilter.Contains)
		m.filterInput.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

func (m *Model) rebuildSignals() {
	if m.wave == nil {
		return
	}
	var selected string
	if n := m.sigs.SelectedNode(); n != nil {
		if scope, ok := n.(*wave.Scope); ok {
			selected = scope.Path()
		}
	}
	m.sigs = browser.New(wave.NewTree(m.wave, m.waveFilter), browser.WithLimit(m.cfg.Limits.Signals))
	if scope := m.wave.FindScope(selected); scope != nil {
		m.sigs.Locate(scope)
	}
	m.statusMsg = filterSummary(m.waveFilter)
}

func filterSummary(f wave.Filter) string {
	hidden := ""
	add := func(s string) {
		if hidden != "" {
			hidden += ","
		}
		hidden += s
	}
	if f.HideInputs {
		add("inputs")
	}
	if f.HideOutputs {
		add("outputs")
	}
	if f.HideInouts {
		add("inouts")
	}
	if f.HideSignals {
		add("signals")
	}
	if hidden == "" && f.Contains == "" {
		return "filter cleared"
	}
	out := "hiding: " + hidden
	if hidden == "" {
		out = "filter"
	}
	if f.Contains != "" {
		out += fmt.Sprintf(" containing %q", f.Contains)
	}
	return out
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b := m.focused()
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()
		b.ClearSearch()
		b.Select(m.searchOrigin)
		return m, nil
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	b.SetQuery(m.search.Value())
	if m.search.Value() != "" && !b.SearchPreview() {
		m.statusMsg = fmt.Sprintf("no match for %q", m.search.Value())
	} else {
		m.statusMsg = ""
	}
	return m, cmd
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.filterInput.Blur()
		return m, nil
	case "enter":
		m.filtering = false
		m.filterInput.Blur()
		m.waveFilter.Contains = m.filterInput.Value()
		m.rebuildSignals()
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

// handleTransfers resolves a pending transfer on either panel: hierarchy
// selection jumps to the matching wave scope, signal selection jumps to the
// matching instance. Matching is by dotted path; a miss just reports.
func (m *Model) handleTransfers() {
	if m.hier.TransferPending() {
		if m.sigs == nil {
			m.statusMsg = "no wave loaded"
			return
		}
		inst, ok := m.hier.SelectedNode().(*design.Instance)
		if !ok {
			return
		}
		scope := m.wave.FindScope(inst.Path())
		if scope == nil {
			m.statusMsg = fmt.Sprintf("no wave scope for %s", inst.Path())
			return
		}
		if m.sigs.Locate(scope) {
			m.focus = focusSignals
			m.statusMsg = fmt.Sprintf("signals: %s", scope.Path())
		}
		return
	}
	if m.sigs != nil && m.sigs.TransferPending() {
		var path string
		switch n := m.sigs.SelectedNode().(type) {
		case *wave.Scope:
			path = n.Path()
		case *wave.Signal:
			if n.Parent != nil {
				path = n.Parent.Path()
			}
		}
		inst := m.design.FindPath(path)
		if inst == nil {
			m.statusMsg = fmt.Sprintf("no instance for %s", path)
			return
		}
		if m.hier.Locate(inst) {
			m.focus = focusHierarchy
			m.statusMsg = fmt.Sprintf("hierarchy: %s", inst.Path())
		}
	}
}

func (m *Model) yankPath() {
	var path string
	switch n := m.focused().SelectedNode().(type) {
	case *design.Instance:
		path = n.Path()
	case *wave.Scope:
		path = n.Path()
	case *wave.Signal:
		if n.Parent != nil {
			path = n.Parent.Path() + "." + n.Name
		} else {
			path = n.Name
		}
	default:
		return
	}
	if err := clipboard.WriteAll(path); err != nil {
		m.statusMsg = fmt.Sprintf("clipboard: %v", err)
		return
	}
	m.statusMsg = fmt.Sprintf("copied %s", path)
}

// persistSession stores the hierarchy's expanded set and selection.
func (m *Model) persistSession() {
	if m.store == nil {
		return
	}
	var st session.State
	for _, n := range m.hier.ExpandedNodes() {
		st.Expanded = append(st.Expanded, n.(*design.Instance).Path())
	}
	if n := m.hier.SelectedNode(); n != nil {
		if inst, ok := n.(*design.Instance); ok {
			st.Selected = inst.Path()
		}
	}
	_ = m.store.Save(m.designPath, st)
}

func (m *Model) focused() *browser.Browser {
	if m.focus == focusSignals && m.sigs != nil {
		return m.sigs
	}
	return m.hier
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.helpView()
	}

	barHeight := 1
	panelHeight := m.height - barHeight
	if panelHeight < 4 {
		panelHeight = 4
	}

	var body string
	if m.sigs == nil {
		body = renderPanel(m.hier, m.theme, m.hierTitle(), true, m.width, panelHeight)
	} else {
		leftW := m.width / 2
		rightW := m.width - leftW
		left := renderPanel(m.hier, m.theme, m.hierTitle(), m.focus == focusHierarchy, leftW, panelHeight)
		right := renderPanel(m.sigs, m.theme, "Signals", m.focus == focusSignals, rightW, panelHeight)
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}

	return body + "\n" + m.statusBar()
}

func (m Model) hierTitle() string {
	name := m.design.Name
	if name == "" {
		name = "Hierarchy"
	}
	return name
}

func (m Model) statusBar() string {
	if m.searching {
		return m.search.View()
	}
	if m.filtering {
		return m.filterInput.View()
	}
	if m.statusMsg != "" {
		return m.theme.Status.Render(m.statusMsg)
	}
	return m.theme.Status.Render("?:help  /:search  tab:panel  s:transfer  q:quit")
}
