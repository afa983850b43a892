package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"golang.org/x/term"

	"ventures/internal/game"
)

var (
	stdinReader = bufio.NewReader(os.Stdin)
	accent      = color.New(color.FgCyan, color.Bold)
	success     = color.New(color.FgGreen, color.Bold)
	warn        = color.New(color.FgYellow, color.Bold)
	danger      = color.New(color.FgRed, color.Bold)
	neutral     = color.New(color.FgHiWhite)
)

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printError(msg string) {
	danger.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func promptRequired(label string) (string, error) {
	for {
		fmt.Printf("%s: ", label)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text != "" {
			return text, nil
		}
		printWarn(label + " is required.")
	}
}

func promptChoice(label string, options []string, defaultValue string) (string, error) {
	normalized := make(map[string]string, len(options))
	for _, opt := range options {
		normalized[strings.ToLower(strings.TrimSpace(opt))] = opt
	}
	for {
		fmt.Printf("%s (%s) [%s]: ", label, strings.Join(options, "/"), defaultValue)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.ToLower(strings.TrimSpace(text))
		if text == "" {
			text = strings.ToLower(strings.TrimSpace(defaultValue))
		}
		if opt, ok := normalized[text]; ok {
			return opt, nil
		}
		printWarn("Invalid option. Please pick one of the listed values.")
	}
}

func promptConfirm(label string) (bool, error) {
	answer, err := promptChoice(label, []string{"yes", "no"}, "no")
	if err != nil {
		return false, err
	}
	return answer == "yes", nil
}

func promptFloat(label string, min float64) (float64, error) {
	for {
		text, err := promptRequired(label)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			printWarn("Enter a valid number.")
			continue
		}
		if v <= min {
			printWarn(fmt.Sprintf("Value must be > %.2f", min))
			continue
		}
		return v, nil
	}
}

func renderDashboard(d game.Dashboard) {
	v, m := d.Venture, d.Metrics
	accent.Printf("\n== %s · DAY %d ==\n", strings.ToUpper(v.CompanyName), v.Day)
	fmt.Printf("%s · %s · %s market\n\n", v.StartupType, v.StartingPath, v.MarketCondition)
	if v.IsGameOver {
		printError("BANKRUPT: the venture ran out of cash.")
		fmt.Println()
	}

	runway := "unlimited"
	if !m.RunwayInfinite {
		runway = fmt.Sprintf("%d days", m.RunwayDays)
	}
	office := "remote"
	if v.OfficeRented {
		office = "rented"
	}
	fmt.Printf("Cash:          %s\n", game.FormatMoney(v.Cash))
	fmt.Printf("Users:         %s\n", humanize.Comma(v.Users))
	fmt.Printf("Revenue/day:   %s\n", game.FormatMoney(m.DailyRevenue))
	fmt.Printf("Burn/day:      %s\n", game.FormatMoney(m.DailyBurn))
	fmt.Printf("Net flow:      %s\n", colorizeMoney(m.NetFlow))
	fmt.Printf("Runway:        %s\n", runway)
	fmt.Printf("Valuation:     %s\n", game.FormatMoney(m.Valuation))
	fmt.Printf("Growth:        %s\n", colorizePercent(m.GrowthRate*100))
	fmt.Printf("Equity:        %.0f%%\n", v.Equity)
	fmt.Printf("Debt:          %s\n", game.FormatMoney(v.DebtAmount))
	fmt.Printf("Office:        %s\n", office)

	fmt.Println()
	renderTeam(v)
}

func renderTeam(v game.Venture) {
	accent.Println("Team")
	if len(v.Team) == 0 {
		printInfo("No employees yet.")
	} else {
		fmt.Printf("%-10s %-12s %12s %7s %6s %7s\n", "NAME", "ROLE", "SALARY", "MORALE", "SKILL", "TENURE")
		for _, e := range v.Team {
			fmt.Printf("%-10s %-12s %12s %7.0f %6.2f %7d\n",
				truncate(e.Name, 10),
				truncate(e.Role, 12),
				game.FormatMoney(e.Salary),
				e.Morale,
				e.Skill,
				e.Tenure,
			)
		}
	}
	if len(v.HiringQueue) > 0 {
		fmt.Println()
		accent.Println("Recruiting")
		for _, h := range v.HiringQueue {
			fmt.Printf("%-10s %-12s %12s  %d days left\n", truncate(h.Name, 10), truncate(h.Role, 12), game.FormatMoney(h.Salary), h.DaysRemaining)
		}
	}
	fmt.Println()
}

func renderResult(res game.Result) {
	renderEvents(res.Events)
	v, m := res.Venture, res.Metrics
	runway := "∞"
	if !m.RunwayInfinite {
		runway = fmt.Sprintf("%dd", m.RunwayDays)
	}
	fmt.Printf("Day %d · cash %s · users %s · net %s/day · runway %s\n",
		v.Day, game.FormatMoney(v.Cash), humanize.Comma(v.Users), colorizeMoney(m.NetFlow), runway)
}

func renderEvents(events []game.Event) {
	for _, e := range events {
		switch e.Severity {
		case game.SeveritySuccess:
			printSuccess(e.Message)
		case game.SeverityError:
			printError(e.Message)
		default:
			printInfo(e.Message)
		}
	}
}

func renderFeatures(v game.Venture) {
	accent.Println("\n== FEATURES ==")
	if len(v.Features) == 0 {
		printInfo("No features for this startup type.")
		return
	}
	fmt.Printf("%-10s %-18s %-11s %9s %8s %10s %-12s\n", "ID", "NAME", "STATUS", "PROGRESS", "COST", "CAPACITY", "NEEDS")
	for _, f := range v.Features {
		fmt.Printf("%-10s %-18s %-11s %8.0f%% %8.0f %10s %-12s\n",
			f.ID,
			truncate(f.Name, 18),
			f.Status,
			f.Progress()*100,
			f.Cost,
			humanize.Comma(int64(f.Capacity)),
			strings.Join(f.Prerequisites, ","),
		)
	}
	fmt.Println()
}

func renderChannels(v game.Venture) {
	accent.Println("\n== MARKETING CHANNELS ==")
	fmt.Printf("%-10s %-18s %10s %6s %8s %-8s\n", "ID", "NAME", "COST", "EFF", "FATIGUE", "STATE")
	for _, ch := range v.MarketingChannels {
		state := "locked"
		if ch.Unlocked {
			state = "unlocked"
		}
		fmt.Printf("%-10s %-18s %10s %6.1f %8.2f %-8s\n",
			ch.ID,
			truncate(ch.Name, 18),
			game.FormatMoney(ch.Cost),
			ch.Effectiveness,
			ch.Fatigue,
			state,
		)
	}
	fmt.Printf("\nUnlocking a channel costs %s.\n\n", game.FormatMoney(game.ChannelUnlockCost))
}

func renderRoles(roles []game.HiringRole) {
	accent.Println("\n== HIRING ROLES ==")
	fmt.Printf("%-12s %12s %14s\n", "ROLE", "SALARY/MO", "RECRUIT FEE")
	for _, r := range roles {
		fmt.Printf("%-12s %12s %14s\n", r.Role, game.FormatMoney(r.Salary), game.FormatMoney(game.RecruitingFee(r.Salary)))
	}
	fmt.Println()
}

func renderPitch(p game.PitchEvaluation) {
	accent.Println("\n== INVESTOR PITCH ==")
	fmt.Printf("Score:      %.2f (needs %.2f)\n", p.Score, p.Threshold)
	fmt.Printf("Valuation:  %s\n", game.FormatMoney(p.Valuation))
	if p.Qualified {
		fmt.Printf("Offer:      %s for %.0f%% equity\n", success.Sprint(game.FormatMoney(p.Offer)), game.PitchEquityCost)
	} else {
		printWarn("Investors would pass. Grow users and revenue first.")
	}
	fmt.Println()
}

func renderLog(records []game.EventRecord) {
	accent.Println("\n== EVENT LOG ==")
	if len(records) == 0 {
		printInfo("No events yet.")
		return
	}
	for _, r := range records {
		line := fmt.Sprintf("day %-4d %s  %s", r.Day, r.At.Local().Format("2006-01-02 15:04"), r.Message)
		switch r.Severity {
		case game.SeveritySuccess:
			success.Println(line)
		case game.SeverityError:
			danger.Println(line)
		default:
			neutral.Println(line)
		}
	}
	fmt.Println()
}

func colorizeMoney(v float64) string {
	text := game.FormatMoney(v)
	switch {
	case v > 0:
		return success.Sprint("+" + text)
	case v < 0:
		return danger.Sprint(text)
	default:
		return neutral.Sprint(text)
	}
}

func colorizePercent(v float64) string {
	text := fmt.Sprintf("%+.2f%%", v)
	switch {
	case v > 0:
		return success.Sprint(text)
	case v < 0:
		return danger.Sprint(text)
	default:
		return neutral.Sprint(text)
	}
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
