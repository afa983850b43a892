package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"ventures/internal/game"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#5A4FCF")).
			Padding(0, 1)
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("#5A4FCF")).Underline(true)
	boxStyle       = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cursorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5A4FCF"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	bannerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("160")).Padding(0, 1)
)

func (a *App) View() string {
	if a.err != nil {
		if errors.Is(a.err, game.ErrNoVenture) {
			return "No venture yet. Start one with `vt new <name>`.\n\nPress q to quit.\n"
		}
		return errorStyle.Render("error: "+a.err.Error()) + "\n\nPress q to quit.\n"
	}
	if !a.loaded {
		return "Loading venture…\n"
	}

	v := a.dash.Venture
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("▲ %s · Day %d", v.CompanyName, v.Day)))
	b.WriteString(" ")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%s · %s · %s market", v.StartupType, v.StartingPath, v.MarketCondition)))
	b.WriteString("\n")
	if v.IsGameOver {
		b.WriteString(bannerStyle.Render("BANKRUPT · the venture ran out of cash"))
		b.WriteString("\n")
	}
	b.WriteString(a.renderTabs())
	b.WriteString("\n")

	var body string
	switch a.tab {
	case tabDashboard:
		body = a.renderDashboard()
	case tabFeatures:
		body = a.renderFeatures()
	case tabTeam:
		body = a.renderTeam()
	case tabChannels:
		body = a.renderChannels()
	case tabPitch:
		body = a.renderPitch()
	case tabLog:
		body = a.renderLog(logSize)
	}
	b.WriteString(boxStyle.Render(body))
	b.WriteString("\n")

	if a.busy {
		b.WriteString(mutedStyle.Render("working…"))
	} else if a.status != "" {
		b.WriteString(severityStyle(a.statusSeverity).Render(a.status))
	}
	b.WriteString("\n")
	b.WriteString(a.help.View(a.keys))
	return b.String()
}

func (a *App) renderTabs() string {
	parts := make([]string, len(tabNames))
	for i, name := range tabNames {
		if tab(i) == a.tab {
			parts[i] = activeTabStyle.Render(name)
		} else {
			parts[i] = tabStyle.Render(name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (a *App) renderDashboard() string {
	v, m := a.dash.Venture, a.dash.Metrics
	runway := "∞"
	if !m.RunwayInfinite {
		runway = fmt.Sprintf("%d days", m.RunwayDays)
	}
	office := "remote"
	if v.OfficeRented {
		office = "rented"
	}
	rows := [][2]string{
		{"Cash", game.FormatMoney(v.Cash)},
		{"Users", humanize.Comma(v.Users)},
		{"Revenue/day", game.FormatMoney(m.DailyRevenue)},
		{"Burn/day", game.FormatMoney(m.DailyBurn)},
		{"Net flow", signedMoney(m.NetFlow)},
		{"Runway", runway},
		{"Valuation", game.FormatMoney(m.Valuation)},
		{"Growth", fmt.Sprintf("%.2f%%/day", m.GrowthRate*100)},
		{"Equity", fmt.Sprintf("%.0f%%", v.Equity)},
		{"Debt", game.FormatMoney(v.DebtAmount)},
		{"Team", fmt.Sprintf("%d (velocity %.2f)", m.Headcount, m.Velocity)},
		{"Office", office},
	}
	var left strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&left, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-12s", r[0])), r[1])
	}
	right := a.renderLog(6)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(40).Render(strings.TrimRight(left.String(), "\n")),
		right,
	)
}

func (a *App) renderFeatures() string {
	v := a.dash.Venture
	if len(v.Features) == 0 {
		return mutedStyle.Render("No features for this startup type.")
	}
	var b strings.Builder
	b.WriteString(labelStyle.Render(fmt.Sprintf("  %-18s %-11s %-12s %8s %9s", "FEATURE", "STATUS", "PROGRESS", "COST", "CAPACITY")))
	for i, f := range v.Features {
		line := fmt.Sprintf("%-18s %-11s %-12s %8.0f %9s",
			truncate(f.Name, 18), f.Status, progressBar(f.Progress(), 10), f.Cost, humanize.Comma(int64(f.Capacity)))
		b.WriteString("\n")
		b.WriteString(a.row(i, line))
	}
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render("enter: develop the selected feature"))
	return b.String()
}

func (a *App) renderTeam() string {
	v := a.dash.Venture
	var b strings.Builder
	b.WriteString(labelStyle.Render("Hire"))
	for i, r := range game.HiringRoles {
		line := fmt.Sprintf("%-12s %s/mo  fee %s", r.Role, game.FormatMoney(r.Salary), game.FormatMoney(game.RecruitingFee(r.Salary)))
		b.WriteString("\n")
		b.WriteString(a.row(i, line))
	}

	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("Team · payroll %s/mo", game.FormatMoney(game.MonthlyPayroll(v.Team)))))
	if len(v.Team) == 0 {
		b.WriteString("\n" + mutedStyle.Render("  nobody yet"))
	}
	for _, e := range v.Team {
		fmt.Fprintf(&b, "\n  %-8s %-12s %10s  morale %3.0f  skill %.2f", e.Name, e.Role, game.FormatMoney(e.Salary), e.Morale, e.Skill)
	}

	if len(v.HiringQueue) > 0 {
		b.WriteString("\n\n")
		b.WriteString(labelStyle.Render("Recruiting"))
		for _, h := range v.HiringQueue {
			fmt.Fprintf(&b, "\n  %-8s %-12s %d days left", h.Name, h.Role, h.DaysRemaining)
		}
	}
	return b.String()
}

func (a *App) renderChannels() string {
	v := a.dash.Venture
	var b strings.Builder
	b.WriteString(labelStyle.Render(fmt.Sprintf("  %-18s %8s %6s %8s  %s", "CHANNEL", "COST", "EFF", "FATIGUE", "STATE")))
	for i, ch := range v.MarketingChannels {
		state := mutedStyle.Render("locked")
		if ch.Unlocked {
			state = successStyle.Render("unlocked")
		}
		line := fmt.Sprintf("%-18s %8s %6.1f %8.2f  %s", ch.Name, game.FormatMoney(ch.Cost), ch.Effectiveness, ch.Fatigue, state)
		b.WriteString("\n")
		b.WriteString(a.row(i, line))
	}
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("enter: run campaign (unlocks first, %s) · u: unlock", game.FormatMoney(game.ChannelUnlockCost))))
	return b.String()
}

func (a *App) renderPitch() string {
	var b strings.Builder
	if a.pitch == nil {
		b.WriteString(mutedStyle.Render("Evaluating pitch…"))
	} else {
		p := a.pitch
		fmt.Fprintf(&b, "%s %.2f / %.2f\n", labelStyle.Render("Score     "), p.Score, p.Threshold)
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Valuation "), game.FormatMoney(p.Valuation))
		if p.Qualified {
			fmt.Fprintf(&b, "%s %s for %.0f%% equity\n\n", labelStyle.Render("Offer     "), successStyle.Render(game.FormatMoney(p.Offer)), game.PitchEquityCost)
			b.WriteString(mutedStyle.Render("a: accept · x: decline"))
		} else {
			b.WriteString("\n")
			b.WriteString(errorStyle.Render("Investors will pass. Grow users and revenue first."))
		}
	}
	if a.lastPitch != nil {
		fmt.Fprintf(&b, "\n\n%s %s", labelStyle.Render("Last pitch"), a.lastPitch.Status)
	}
	return b.String()
}

// renderLog prints the newest events first.
func (a *App) renderLog(limit int) string {
	if len(a.events) == 0 {
		return mutedStyle.Render("No events yet.")
	}
	var lines []string
	for i := len(a.events) - 1; i >= 0 && len(lines) < limit; i-- {
		e := a.events[i]
		lines = append(lines, fmt.Sprintf("%s %s",
			labelStyle.Render(fmt.Sprintf("d%-4d", e.Day)),
			severityStyle(e.Severity).Render(e.Message)))
	}
	return strings.Join(lines, "\n")
}

func (a *App) row(i int, line string) string {
	if i == a.cursor {
		return cursorStyle.Render("› ") + line
	}
	return "  " + line
}

func severityStyle(s game.Severity) lipgloss.Style {
	switch s {
	case game.SeveritySuccess:
		return successStyle
	case game.SeverityError:
		return errorStyle
	default:
		return infoStyle
	}
}

func progressBar(p float64, width int) string {
	filled := int(p * float64(width))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func signedMoney(v float64) string {
	if v > 0 {
		return successStyle.Render("+" + game.FormatMoney(v))
	}
	if v < 0 {
		return errorStyle.Render(game.FormatMoney(v))
	}
	return game.FormatMoney(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
