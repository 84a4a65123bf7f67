package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/plantap/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/plantap/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/plantap/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/plantap/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/plantap/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/plantap/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/plantap/internal/core/domain"
)

// Options configures an App.
type Options struct {
	// ProjectID is the project shown.
	ProjectID string

	// LinkBase is the host application's base URL for drawing links.
	LinkBase string

	// States receives states pushed by an in-process capture pipeline.
	// Nil when the pipeline runs elsewhere.
	States <-chan domain.RenderState

	// Poll reloads the stored catalog at this interval. Zero disables polling.
	Poll time.Duration
}

// refreshTick triggers a poll reload.
type refreshTick struct{}

// App is the catalog browser following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	opts   Options
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	list  *list.TreeList
	input *input.FilterInput
	bar   *status.Bar

	mode  messages.Mode
	state domain.RenderState
	tree  domain.Tree

	// notice is shown under the list after opening a drawing.
	notice string
	err    error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a catalog browser for one project.
func NewApp(ports *Ports, opts Options) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if strings.TrimSpace(opts.ProjectID) == "" {
		return nil, fmt.Errorf("creating app: %w", ErrMissingProject)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	return &App{
		ports:  ports,
		opts:   opts,
		ctx:    context.Background(),
		styles: s,
		keymap: km,
		list:   list.NewTreeList(s),
		input:  input.NewFilterInput(s),
		bar:    status.NewBar(s, km),
		mode:   messages.ModeBrowse,
		state:  domain.LoadingState(opts.ProjectID),
	}, nil
}

// WithContext sets the context used for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("plantap - project "+a.opts.ProjectID),
		a.loadState(),
		a.loadStatus(),
		a.waitForState(),
		a.tick(),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case messages.StateRendered:
		if msg.State.ProjectID == a.opts.ProjectID {
			a.apply(msg.State)
		}
		return a, tea.Batch(a.waitForState(), a.loadStatus())

	case messages.StateLoaded:
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		a.err = nil
		a.apply(msg.State)
		return a, nil

	case messages.StatusLoaded:
		if msg.Err == nil {
			a.bar.SetBuffer(msg.Status)
		}
		return a, nil

	case messages.DrawingOpened:
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		a.notice = "opened " + msg.Item.Number
		if msg.Item.URL != "" {
			a.notice += ": " + msg.Item.URL
		}
		a.bar.SetMessage("opened " + msg.Item.Number)
		return a, nil

	case messages.SelectionChanged:
		opened := "opened " + msg.Item.Number
		if a.notice != opened && !strings.HasPrefix(a.notice, opened+": ") {
			a.notice = ""
		}
		return a, nil

	case messages.ErrorOccurred:
		a.setError(msg.Err)
		return a, nil

	case messages.Quit:
		return a, tea.Quit

	case refreshTick:
		return a, tea.Batch(a.loadState(), a.loadStatus(), a.tick())

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.mode == messages.ModeFilter {
			return a.updateFilter(msg)
		}
		return a.updateBrowse(msg)
	}

	return a, nil
}

func (a *App) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.input.Reset()
		a.input.Blur()
		a.mode = messages.ModeBrowse
		a.rebuild()
		return a, nil
	case tea.KeyEnter:
		a.input.Blur()
		a.mode = messages.ModeBrowse
		a.rebuild()
		return a, nil
	}

	before := a.input.Value()
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	if a.input.Value() != before {
		a.rebuild()
	}
	return a, cmd
}

func (a *App) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, a.keymap.Quit):
		return a, tea.Quit
	case keymap.Matches(k, a.keymap.Filter):
		a.mode = messages.ModeFilter
		a.rebuild()
		return a, a.input.Focus()
	case keymap.Matches(k, a.keymap.Back):
		if a.input.Value() != "" {
			a.input.Reset()
			a.rebuild()
		}
		a.notice = ""
		return a, nil
	case keymap.Matches(k, a.keymap.Refresh):
		a.bar.SetMessage("")
		return a, tea.Batch(a.loadState(), a.loadStatus())
	case keymap.Matches(k, a.keymap.Open):
		return a, a.open()
	}

	var cmd tea.Cmd
	a.list, cmd = a.list.Update(msg)
	return a, cmd
}

// apply takes a new state. A LOADING state does not hide drawings already shown.
func (a *App) apply(state domain.RenderState) {
	if state.Kind == domain.RenderLoading && a.state.Kind == domain.RenderData {
		return
	}
	a.state = state
	a.rebuild()
}

// rebuild regroups the current state with the filter and refreshes the list.
func (a *App) rebuild() {
	switch a.state.Kind {
	case domain.RenderData:
		a.tree = domain.BuildTree(a.state, domain.TreeOptions{
			LinkBase: a.opts.LinkBase,
			Filter:   a.input.Value(),
		})
		a.list.SetTree(&a.tree)
		a.bar.SetCount(a.tree.Total)
		if a.mode == messages.ModeFilter {
			a.bar.SetState(status.StateFilter)
		} else {
			a.bar.SetState(status.StateReady)
		}
	case domain.RenderEmpty:
		a.tree = domain.Tree{ProjectID: a.state.ProjectID}
		a.list.SetTree(nil)
		a.bar.SetCount(0)
		a.bar.SetState(status.StateEmpty)
	default:
		a.list.SetTree(nil)
		a.bar.SetState(status.StateLoading)
	}
}

func (a *App) setError(err error) {
	a.err = err
	a.bar.SetState(status.StateError)
	a.bar.SetMessage(err.Error())
}

func (a *App) loadState() tea.Cmd {
	catalog, ctx, pid := a.ports.Catalog, a.ctx, a.opts.ProjectID
	return func() tea.Msg {
		state, err := catalog.State(ctx, pid)
		return messages.StateLoaded{State: state, Err: err}
	}
}

func (a *App) loadStatus() tea.Cmd {
	if a.ports.Capture == nil {
		return nil
	}
	capture, ctx, pid := a.ports.Capture, a.ctx, a.opts.ProjectID
	return func() tea.Msg {
		st, err := capture.Status(ctx, pid)
		return messages.StatusLoaded{Status: st, Err: err}
	}
}

func (a *App) waitForState() tea.Cmd {
	if a.opts.States == nil {
		return nil
	}
	states := a.opts.States
	return func() tea.Msg {
		state, ok := <-states
		if !ok {
			return nil
		}
		return messages.StateRendered{State: state}
	}
}

func (a *App) tick() tea.Cmd {
	if a.opts.Poll <= 0 {
		return nil
	}
	return tea.Tick(a.opts.Poll, func(time.Time) tea.Msg { return refreshTick{} })
}

func (a *App) open() tea.Cmd {
	selected := a.list.SelectedItem()
	if selected == nil {
		return nil
	}
	item := *selected
	if a.ports.Recents == nil {
		return func() tea.Msg { return messages.DrawingOpened{Item: item} }
	}
	recents, ctx, pid := a.ports.Recents, a.ctx, a.opts.ProjectID
	return func() tea.Msg {
		list, err := recents.Add(ctx, pid, item.Number)
		return messages.DrawingOpened{Item: item, Recents: list, Err: err}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var b strings.Builder

	header := "plantap  project " + a.opts.ProjectID
	if a.state.AreaID != "" {
		header += "  area " + a.state.AreaID
	}
	b.WriteString(a.styles.Header.Render(header))
	b.WriteString("\n")
	if !a.state.Timestamp.IsZero() {
		b.WriteString(a.styles.Muted.Render("updated " + a.state.Timestamp.Local().Format("2006-01-02 15:04:05")))
	}
	b.WriteString("\n")

	if a.mode == messages.ModeFilter || a.input.Value() != "" {
		b.WriteString(a.input.View())
		b.WriteString("\n")
	}

	switch a.state.Kind {
	case domain.RenderLoading:
		b.WriteString(a.styles.Muted.Render("Waiting for the drawing list..."))
	case domain.RenderEmpty:
		b.WriteString(a.styles.Muted.Render("No drawings captured yet. Open the drawings page in the browser."))
	default:
		b.WriteString(a.list.View())
	}
	b.WriteString("\n")

	if a.notice != "" {
		b.WriteString(a.styles.Success.Render(a.notice))
	}
	b.WriteString("\n")
	b.WriteString(a.bar.View())

	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Mode returns what keystrokes currently drive.
func (a *App) Mode() messages.Mode {
	return a.mode
}

// Tree returns the tree currently shown.
func (a *App) Tree() domain.Tree {
	return a.tree
}

// Filter returns the current filter text.
func (a *App) Filter() string {
	return a.input.Value()
}

// Selected returns the selected drawing, or nil.
func (a *App) Selected() *domain.Item {
	return a.list.SelectedItem()
}

// Notice returns the last open notice.
func (a *App) Notice() string {
	return a.notice
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been sized.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.list.SetDimensions(width, height-6)
	a.input.SetWidth(width)
	a.bar.SetWidth(width)
}
