// Package tui is the interactive `vt play` screen. It drives any cli.Backend, so the same
// screen plays a local save or a remote ventures-api.
package tui

import (
	"context"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"ventures/internal/cli"
	"ventures/internal/game"
)

type tab int

const (
	tabDashboard tab = iota
	tabFeatures
	tabTeam
	tabChannels
	tabPitch
	tabLog
)

var tabNames = []string{"Dashboard", "Features", "Team", "Channels", "Pitch", "Log"}

const logSize = 12

type loadedMsg struct {
	dash   game.Dashboard
	events []game.EventRecord
	err    error
}

type actionMsg struct {
	action  string
	res     game.Result
	outcome *game.PitchOutcome
	events  []game.EventRecord
	err     error
}

type pitchEvalMsg struct {
	eval game.PitchEvaluation
	err  error
}

// App is the bubbletea model for one play session.
type App struct {
	ctx     context.Context
	backend cli.Backend
	keys    keyMap
	help    help.Model

	tab    tab
	cursor int

	loaded bool
	busy   bool
	dash   game.Dashboard
	events []game.EventRecord
	pitch  *game.PitchEvaluation

	lastPitch *game.PitchOutcome

	status         string
	statusSeverity game.Severity
	err            error

	width  int
	height int
}

func New(ctx context.Context, backend cli.Backend) *App {
	return &App{
		ctx:     ctx,
		backend: backend,
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
}

func (a *App) Init() tea.Cmd {
	return a.load()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.help.Width = msg.Width
	case loadedMsg:
		a.busy = false
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		a.err = nil
		a.loaded = true
		a.dash = msg.dash
		a.events = msg.events
	case actionMsg:
		return a, a.handleAction(msg)
	case pitchEvalMsg:
		a.busy = false
		if msg.err != nil {
			a.setStatus(msg.err.Error(), game.SeverityError)
			return a, nil
		}
		eval := msg.eval
		a.pitch = &eval
	case tea.KeyMsg:
		return a, a.handleKey(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return tea.Quit
	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		return nil
	}
	if a.busy || !a.loaded {
		return nil
	}

	v := a.dash.Venture
	switch {
	case key.Matches(msg, a.keys.NextTab):
		return a.switchTab(1)
	case key.Matches(msg, a.keys.PrevTab):
		return a.switchTab(-1)
	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
	case key.Matches(msg, a.keys.Down):
		if a.cursor < a.rows()-1 {
			a.cursor++
		}
	case key.Matches(msg, a.keys.NextDay):
		return a.run("advance", func(ctx context.Context) (game.Result, error) {
			return a.backend.AdvanceDays(ctx, 1)
		})
	case key.Matches(msg, a.keys.NextWeek):
		return a.run("advance", func(ctx context.Context) (game.Result, error) {
			return a.backend.AdvanceDays(ctx, 7)
		})
	case key.Matches(msg, a.keys.Office):
		rented := !v.OfficeRented
		return a.run("office", func(ctx context.Context) (game.Result, error) {
			return a.backend.SetOffice(ctx, rented)
		})
	case key.Matches(msg, a.keys.Repay):
		amount := v.DebtAmount
		if v.Cash < amount {
			amount = math.Floor(v.Cash)
		}
		return a.run("repay", func(ctx context.Context) (game.Result, error) {
			return a.backend.RepayDebt(ctx, amount)
		})
	case key.Matches(msg, a.keys.Select):
		return a.selectRow()
	case key.Matches(msg, a.keys.Unlock):
		if a.tab != tabChannels || a.cursor >= len(v.MarketingChannels) {
			return nil
		}
		id := v.MarketingChannels[a.cursor].ID
		return a.run("unlock", func(ctx context.Context) (game.Result, error) {
			return a.backend.UnlockChannel(ctx, id)
		})
	case key.Matches(msg, a.keys.Accept):
		if a.tab == tabPitch {
			return a.runPitch(true)
		}
	case key.Matches(msg, a.keys.Decline):
		if a.tab == tabPitch {
			return a.runPitch(false)
		}
	}
	return nil
}

func (a *App) selectRow() tea.Cmd {
	v := a.dash.Venture
	switch a.tab {
	case tabFeatures:
		if a.cursor >= len(v.Features) {
			return nil
		}
		id := v.Features[a.cursor].ID
		return a.run("develop", func(ctx context.Context) (game.Result, error) {
			return a.backend.DevelopFeature(ctx, id)
		})
	case tabTeam:
		if a.cursor >= len(game.HiringRoles) {
			return nil
		}
		role := game.HiringRoles[a.cursor]
		return a.run("hire", func(ctx context.Context) (game.Result, error) {
			return a.backend.StartHiring(ctx, role.Role, role.Salary)
		})
	case tabChannels:
		if a.cursor >= len(v.MarketingChannels) {
			return nil
		}
		ch := v.MarketingChannels[a.cursor]
		if !ch.Unlocked {
			return a.run("unlock", func(ctx context.Context) (game.Result, error) {
				return a.backend.UnlockChannel(ctx, ch.ID)
			})
		}
		return a.run("campaign", func(ctx context.Context) (game.Result, error) {
			return a.backend.RunCampaign(ctx, ch.ID)
		})
	}
	return nil
}

func (a *App) switchTab(step int) tea.Cmd {
	n := len(tabNames)
	a.tab = tab((int(a.tab) + step + n) % n)
	a.cursor = 0
	if a.tab == tabPitch && a.pitch == nil {
		return a.evaluatePitch()
	}
	return nil
}

func (a *App) rows() int {
	switch a.tab {
	case tabFeatures:
		return len(a.dash.Venture.Features)
	case tabTeam:
		return len(game.HiringRoles)
	case tabChannels:
		return len(a.dash.Venture.MarketingChannels)
	}
	return 0
}

func (a *App) handleAction(msg actionMsg) tea.Cmd {
	a.busy = false
	if msg.err != nil {
		a.setStatus(msg.action+": "+msg.err.Error(), game.SeverityError)
		return nil
	}
	a.dash = game.Dashboard{Venture: msg.res.Venture, Metrics: msg.res.Metrics}
	if msg.events != nil {
		a.events = msg.events
	}
	a.pitch = nil
	a.setStatus(summarize(msg.res.Events), worstSeverity(msg.res.Events))
	if msg.outcome != nil {
		a.lastPitch = msg.outcome
	}
	if a.tab == tabPitch {
		return a.evaluatePitch()
	}
	return nil
}

func (a *App) setStatus(text string, severity game.Severity) {
	a.status = text
	a.statusSeverity = severity
}

func (a *App) load() tea.Cmd {
	ctx, backend := a.ctx, a.backend
	return func() tea.Msg {
		d, err := backend.Dashboard(ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		events, err := backend.Events(ctx, logSize)
		return loadedMsg{dash: d, events: events, err: err}
	}
}

func (a *App) run(action string, fn func(context.Context) (game.Result, error)) tea.Cmd {
	a.busy = true
	ctx, backend := a.ctx, a.backend
	return func() tea.Msg {
		res, err := fn(ctx)
		if err != nil {
			return actionMsg{action: action, err: err}
		}
		return actionMsg{action: action, res: res, events: recentEvents(ctx, backend)}
	}
}

func (a *App) runPitch(accept bool) tea.Cmd {
	a.busy = true
	ctx, backend := a.ctx, a.backend
	return func() tea.Msg {
		out, err := backend.Pitch(ctx, accept)
		if err != nil {
			return actionMsg{action: "pitch", err: err}
		}
		outcome := out.Outcome
		return actionMsg{action: "pitch", res: out.Result, outcome: &outcome, events: recentEvents(ctx, backend)}
	}
}

func (a *App) evaluatePitch() tea.Cmd {
	a.busy = true
	ctx, backend := a.ctx, a.backend
	return func() tea.Msg {
		eval, err := backend.EvaluatePitch(ctx)
		return pitchEvalMsg{eval: eval, err: err}
	}
}

// recentEvents is nil when the journal can't be read; the log keeps its previous lines.
func recentEvents(ctx context.Context, backend cli.Backend) []game.EventRecord {
	events, err := backend.Events(ctx, logSize)
	if err != nil {
		return nil
	}
	return events
}

func summarize(events []game.Event) string {
	msgs := make([]string, 0, len(events))
	for _, e := range events {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, " · ")
}

func worstSeverity(events []game.Event) game.Severity {
	worst := game.SeverityInfo
	for _, e := range events {
		switch e.Severity {
		case game.SeverityError:
			return game.SeverityError
		case game.SeveritySuccess:
			worst = game.SeveritySuccess
		}
	}
	return worst
}
