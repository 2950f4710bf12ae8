// Package tui renders whatever the retrieval pipeline produces: one reason
// card, a loading spinner, and an error banner with a retry affordance. All
// display decisions flow from State; the view never talks to the network or
// the cache directly.
package tui

import (
	"context"

	"github.com/AdoyoClifford/how-to-say-NO/internal/reason"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type App struct {
	svc   *reason.Service
	state State

	spinner spinner.Model
	width   int
	height  int

	// In-flight retrieval. cancelRetrieve tears the stream down on quit so
	// late emissions are discarded instead of mutating a dead model.
	outcomes       <-chan reason.Outcome
	cancelRetrieve context.CancelFunc

	// Independent cache watch feeding the "cached" badge.
	hasCache  <-chan bool
	stopWatch func()
}

func NewApp(svc *reason.Service) *App {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	hasCache, stopWatch := svc.WatchHasCached()

	return &App{
		svc:       svc,
		state:     newState(),
		spinner:   sp,
		hasCache:  hasCache,
		stopWatch: stopWatch,
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.startRetrieval(),
		listenHasCache(a.hasCache),
	)
}

// startRetrieval kicks off one retrieval stream and disables the button
// until it completes. Callers must check state.ButtonEnabled first.
func (a *App) startRetrieval() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancelRetrieve = cancel
	a.outcomes = a.svc.Retrieve(ctx)
	a.state = a.state.startRetrieval()
	return tea.Batch(listenOutcomes(a.outcomes), a.spinner.Tick)
}

// listenOutcomes reads one emission; the Update loop re-arms it until the
// stream closes.
func listenOutcomes(ch <-chan reason.Outcome) tea.Cmd {
	return func() tea.Msg {
		o, ok := <-ch
		if !ok {
			return retrievalDoneMsg{}
		}
		return outcomeMsg{outcome: o}
	}
}

func listenHasCache(ch <-chan bool) tea.Cmd {
	return func() tea.Msg {
		has, ok := <-ch
		if !ok {
			return nil
		}
		return hasCacheMsg{has: has}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case outcomeMsg:
		a.state = a.state.applyOutcome(msg.outcome)
		return a, listenOutcomes(a.outcomes)

	case retrievalDoneMsg:
		a.state = a.state.finishRetrieval()
		if a.cancelRetrieve != nil {
			a.cancelRetrieve()
			a.cancelRetrieve = nil
		}
		return a, nil

	case hasCacheMsg:
		a.state = a.state.setHasCache(msg.has)
		return a, listenHasCache(a.hasCache)

	case spinner.TickMsg:
		if a.state.Loading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		a.teardown()
		return a, tea.Quit

	case "n", " ", "enter":
		// The disabled button is what guarantees at most one retrieval in
		// flight per session.
		if !a.state.ButtonEnabled {
			return a, nil
		}
		return a, a.startRetrieval()

	case "r":
		if !a.state.ShouldShowRetry() || !a.state.ButtonEnabled {
			return a, nil
		}
		return a, a.startRetrieval()

	case "esc":
		a.state = a.state.clearError()
		return a, nil
	}

	return a, nil
}

func (a *App) teardown() {
	if a.cancelRetrieve != nil {
		a.cancelRetrieve()
		a.cancelRetrieve = nil
	}
	if a.stopWatch != nil {
		a.stopWatch()
		a.stopWatch = nil
	}
}

func (a *App) View() string {
	if a.width == 0 {
		return titleStyle.Render("  sayno")
	}

	title := titleStyle.Render("how to say NO")

	// The last reason stays on the card even under an error banner.
	var card string
	if a.state.Reason != "" {
		card = reasonCardStyle.Render(reasonTextStyle.Render(`"` + a.state.Reason + `"`))
	} else {
		card = reasonCardStyle.Render(placeholderStyle.Render("press n for a reason to say no"))
	}

	var lines []string
	lines = append(lines, title, "", card)

	if a.state.Loading {
		lines = append(lines, "", a.spinner.View()+" "+loadingStyle.Render("fetching a reason..."))
	}

	if a.state.HasError() {
		banner := errorStyle.Render(a.state.ErrMsg)
		if a.state.ShouldShowRetry() {
			banner += " " + retryHintStyle.Render("(r to retry, esc to dismiss)")
		}
		lines = append(lines, "", banner)
	}

	var badges []string
	if a.state.Offline {
		badges = append(badges, offlineBadgeStyle.Render("offline"))
	}
	if a.state.HasCache {
		badges = append(badges, cachedBadgeStyle.Render("cached"))
	}
	if len(badges) > 0 {
		lines = append(lines, "", joinBadges(badges))
	}

	lines = append(lines, "", footerStyle.Render("n new reason  r retry  esc dismiss  q quit"))

	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
}

func joinBadges(badges []string) string {
	out := badges[0]
	for _, b := range badges[1:] {
		out += "  " + b
	}
	return out
}

// Run starts the TUI and blocks until the user quits.
func Run(svc *reason.Service) error {
	p := tea.NewProgram(NewApp(svc), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
