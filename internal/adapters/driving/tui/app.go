package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/manuscript-validator/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/manuscript-validator/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/manuscript-validator/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/manuscript-validator/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/manuscript-validator/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/manuscript-validator/internal/adapters/driving/tui/views/detail"
	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
	"github.com/custodia-labs/manuscript-validator/internal/core/ports/driving"
)

// fixAllPasses is the number of fix cycles used by the fix all action.
const fixAllPasses = 2

// App is the review screen following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports   *Ports
	request driving.ValidateRequest
	ctx     context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	resultList *list.ResultList
	detailView *detail.View
	statusBar  *status.Bar
	help       help.Model

	// ignored maps the IDs of listed ignored results to their records.
	ignored map[string]domain.IgnoredResult

	currentView messages.ViewType
	busy        bool
	modified    bool
	err         error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a review screen for the manuscript described by req.
func NewApp(ports *Ports, req driving.ValidateRequest) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if req.Document == nil {
		return nil, fmt.Errorf("creating app: %w", ErrMissingDocument)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		request:     req,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		resultList:  list.NewResultList(s),
		detailView:  detail.NewView(s),
		statusBar:   status.NewBar(s, km),
		help:        help.New(),
		ignored:     map[string]domain.IgnoredResult{},
		currentView: messages.ViewResults,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model. It validates the manuscript.
func (a *App) Init() tea.Cmd {
	a.busy = true
	a.statusBar.SetState(status.StateValidating)
	return tea.Batch(
		tea.SetWindowTitle("manuscript-validator - "+a.request.ManuscriptID),
		a.validateCmd(),
	)
}

// validateCmd validates the manuscript and loads its ignored records.
func (a *App) validateCmd() tea.Cmd {
	ctx, req, svc := a.ctx, a.request, a.ports.Validation
	return func() tea.Msg {
		results, err := svc.Validate(ctx, req)
		if err != nil {
			return messages.ValidationCompleted{Err: err}
		}
		ignored, err := svc.ListIgnored(ctx, req.ManuscriptID)
		if err != nil && !errors.Is(err, domain.ErrNotImplemented) {
			return messages.ValidationCompleted{Results: results, Err: err}
		}
		return messages.ValidationCompleted{Results: results, Ignored: ignored}
	}
}

// fixCmd fixes the given results, or every fixable failure when results is nil.
func (a *App) fixCmd(results []domain.ValidationResult) tea.Cmd {
	ctx, svc := a.ctx, a.ports.Validation
	req := driving.FixRequest{ValidateRequest: a.request, Results: results}
	if results == nil {
		req.Passes = fixAllPasses
	}
	return func() tea.Msg {
		resp, err := svc.Fix(ctx, req)
		if err != nil {
			return messages.FixCompleted{Err: err}
		}
		return messages.FixCompleted{Applied: resp.Applied, Results: resp.Results}
	}
}

// toggleIgnoreCmd ignores a listed result, or unignores it when it is
// already ignored.
func (a *App) toggleIgnoreCmd(r *domain.ValidationResult) tea.Cmd {
	ctx, svc, manuscriptID := a.ctx, a.ports.Validation, a.request.ManuscriptID
	result := *r
	record, isIgnored := a.ignored[r.ID]
	return func() tea.Msg {
		if isIgnored {
			err := svc.Unignore(ctx, record.ID)
			return messages.IgnoreToggled{ResultID: result.ID, Ignored: false, Err: err}
		}
		_, err := svc.Ignore(ctx, manuscriptID, []domain.ValidationResult{result}, "")
		return messages.IgnoreToggled{ResultID: result.ID, Ignored: true, Err: err}
	}
}

// saveCmd writes the document through the save port.
func (a *App) saveCmd() tea.Cmd {
	save := a.ports.Save
	return func() tea.Msg {
		if save == nil {
			return messages.Saved{Err: ErrSaveUnavailable}
		}
		return messages.Saved{Err: save()}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.ValidationCompleted:
		a.busy = false
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		a.err = nil
		a.setResults(msg.Results, msg.Ignored)
		a.statusBar.SetState(status.StateResults)
		return a, nil

	case messages.FixCompleted:
		a.busy = false
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		if msg.Applied > 0 {
			a.modified = true
		}
		a.setResults(msg.Results, a.ignoredRecords())
		a.statusBar.SetState(status.StateResults)
		a.statusBar.SetMessage(fmt.Sprintf("Applied %d fixes", msg.Applied))
		a.currentView = messages.ViewResults
		return a, nil

	case messages.IgnoreToggled:
		if msg.Err != nil {
			a.busy = false
			a.setError(msg.Err)
			return a, nil
		}
		if msg.Ignored {
			a.statusBar.SetMessage("Ignored result")
		} else {
			a.statusBar.SetMessage("Restored result")
		}
		a.statusBar.SetState(status.StateValidating)
		a.currentView = messages.ViewResults
		return a, a.validateCmd()

	case messages.Saved:
		a.busy = false
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		a.modified = false
		a.statusBar.SetState(status.StateResults)
		a.statusBar.SetMessage("Saved")
		return a, nil

	case messages.ViewChanged:
		a.currentView = msg.View
		if msg.View == messages.ViewResults {
			a.statusBar.SetState(status.StateResults)
		}
		return a, nil

	case messages.ErrorOccurred:
		a.setError(msg.Err)
		a.detailView, cmd = a.detailView.Update(msg)
		return a, cmd
	}

	return a, nil
}

// handleKey dispatches a key press to the active view.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	if a.currentView == messages.ViewHelp {
		if key.Matches(msg, a.keymap.Back) || key.Matches(msg, a.keymap.Help) {
			a.currentView = messages.ViewResults
			a.statusBar.SetState(status.StateResults)
		} else if key.Matches(msg, a.keymap.Quit) {
			return a, tea.Quit
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keymap.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keymap.Help):
		a.currentView = messages.ViewHelp
		a.statusBar.SetState(status.StateHelp)
		return a, nil
	}

	if cmd, ok := a.handleAction(msg); ok {
		return a, cmd
	}

	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewDetail:
		a.detailView, cmd = a.detailView.Update(msg)
	case messages.ViewResults:
		if key.Matches(msg, a.keymap.Select) {
			if r := a.resultList.SelectedResult(); r != nil {
				a.detailView.SetResult(r)
				a.currentView = messages.ViewDetail
			}
			return a, nil
		}
		a.resultList, cmd = a.resultList.Update(msg)
	}
	return a, cmd
}

// handleAction runs the result actions shared by the list and detail views.
// It reports whether the key was an action.
func (a *App) handleAction(msg tea.KeyMsg) (tea.Cmd, bool) {
	isAction := key.Matches(msg, a.keymap.Fix) || key.Matches(msg, a.keymap.FixAll) ||
		key.Matches(msg, a.keymap.Ignore) || key.Matches(msg, a.keymap.Revalidate) ||
		key.Matches(msg, a.keymap.Save) || key.Matches(msg, a.keymap.ToggleFailed)
	if !isAction {
		return nil, false
	}
	if a.busy {
		return nil, true
	}

	current := a.currentResult()

	switch {
	case key.Matches(msg, a.keymap.ToggleFailed):
		a.resultList.SetFailedOnly(!a.resultList.FailedOnly())
		return nil, true
	case key.Matches(msg, a.keymap.Revalidate):
		return a.start(status.StateValidating, a.validateCmd()), true
	case key.Matches(msg, a.keymap.Save):
		return a.start(status.StateSaving, a.saveCmd()), true
	case key.Matches(msg, a.keymap.FixAll):
		return a.start(status.StateFixing, a.fixCmd(nil)), true
	case key.Matches(msg, a.keymap.Fix):
		if current == nil || current.Passed || current.Ignored || !current.Type.Fixable() {
			a.statusBar.SetMessage("Nothing to fix")
			return nil, true
		}
		return a.start(status.StateFixing, a.fixCmd([]domain.ValidationResult{*current})), true
	case key.Matches(msg, a.keymap.Ignore):
		if current == nil {
			return nil, true
		}
		if _, ok := a.ignored[current.ID]; !ok && current.Passed {
			a.statusBar.SetMessage("Only failures can be ignored")
			return nil, true
		}
		return a.start(status.StateValidating, a.toggleIgnoreCmd(current)), true
	}
	return nil, true
}

// start marks the app busy and returns cmd.
func (a *App) start(state status.State, cmd tea.Cmd) tea.Cmd {
	a.busy = true
	a.statusBar.SetState(state)
	a.statusBar.SetMessage("")
	return cmd
}

// currentResult returns the result shown in the detail view, or the
// selected list entry.
func (a *App) currentResult() *domain.ValidationResult {
	if a.currentView == messages.ViewDetail {
		return a.detailView.Result()
	}
	return a.resultList.SelectedResult()
}

// setResults lists the results followed by the ignored records.
func (a *App) setResults(results []domain.ValidationResult, ignored []domain.IgnoredResult) {
	listed := make([]domain.ValidationResult, 0, len(results)+len(ignored))
	listed = append(listed, results...)

	a.ignored = make(map[string]domain.IgnoredResult, len(ignored))
	for _, rec := range ignored {
		if rec.Result == nil {
			continue
		}
		r := *rec.Result
		r.Ignored = true
		a.ignored[r.ID] = rec
		listed = append(listed, r)
	}

	a.resultList.SetResults(listed)
	a.statusBar.SetCounts(status.CountResults(listed))
}

func (a *App) ignoredRecords() []domain.IgnoredResult {
	out := make([]domain.IgnoredResult, 0, len(a.ignored))
	for _, r := range a.resultList.Results() {
		if rec, ok := a.ignored[r.ID]; ok {
			out = append(out, rec)
		}
	}
	return out
}

func (a *App) setError(err error) {
	a.err = err
	a.statusBar.SetState(status.StateError)
	a.statusBar.SetMessage(err.Error())
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewDetail:
		body = a.detailView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.viewResults()
	}

	return body + "\n" + a.statusBar.View()
}

func (a *App) viewResults() string {
	var b strings.Builder

	title := a.request.ManuscriptID
	if a.request.TemplateID != "" {
		title += " · " + a.request.TemplateID
	}
	if a.modified {
		title += " (modified)"
	}
	b.WriteString(a.styles.Title.Render(title))
	b.WriteString("\n\n")
	b.WriteString(a.resultList.View())
	b.WriteString("\n")

	return b.String()
}

func (a *App) viewHelp() string {
	a.help.ShowAll = true
	return a.styles.Title.Render("Help") + "\n\n" + a.help.View(a.keymap) + "\n\n" +
		a.styles.Help.Render("[esc] back")
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Results returns every listed result, ignored ones included.
func (a *App) Results() []domain.ValidationResult {
	return a.resultList.Results()
}

// SelectedResult returns the selected result, or nil.
func (a *App) SelectedResult() *domain.ValidationResult {
	return a.resultList.SelectedResult()
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Busy reports whether an operation is running.
func (a *App) Busy() bool {
	return a.busy
}

// Modified reports whether fixes were applied since the last save.
func (a *App) Modified() bool {
	return a.modified
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	// Title and status bar.
	a.resultList.SetDimensions(width, height-4)
	a.detailView.SetDimensions(width, height-2)
	a.statusBar.SetWidth(width)
	a.help.Width = width
}
