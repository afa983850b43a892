package game

import (
	"fmt"

	"github.com/google/uuid"
)

// Engine carries the injectable parts of the simulation. The zero value is usable: it
// draws from a time-seeded source and names hires with random UUIDs.
type Engine struct {
	Rand  Source
	NewID func() string

	// ResolvePrerequisites unlocks Locked features once all their prerequisites are
	// Live. Off by default, which keeps non-root features locked for the whole game.
	ResolvePrerequisites bool
}

func (e Engine) rand() Source {
	if e.Rand == nil {
		return newTimeSeededSource()
	}
	return e.Rand
}

func (e Engine) newID() string {
	if e.NewID == nil {
		return uuid.NewString()
	}
	return e.NewID()
}

// AdvanceDay runs one tick. It never fails; a bankrupt venture comes back unchanged.
func (e Engine) AdvanceDay(v Venture) (Venture, []Event) {
	if v.IsGameOver {
		return v, nil
	}
	src := e.rand()
	next := v.Clone()
	next.Day++
	var events []Event

	// Costs and revenue are settled against the statuses of the previous day.
	revenue := DailyRevenue(v)
	burn := TotalBurn(v)
	next.Cash += revenue - burn

	growth := dailyGrowth(next.StartingPath, src)
	next.Users = grow(next.Users, growth)

	bonus, featureEvents := advanceFeatures(next.Features, next.Users, Velocity(next.Team))
	next.Users += bonus
	events = append(events, featureEvents...)
	if e.ResolvePrerequisites {
		events = append(events, unlockReadyFeatures(next.Features)...)
	}

	if next.Day%payrollEvery == 0 && len(next.Team) > 0 {
		team, cash, payEvents := runPayroll(next.Team, next.Cash, src)
		next.Team, next.Cash = team, cash
		events = append(events, payEvents...)
	}

	driftTeam(next.Team, next.Day, revenue, burn, next.Cash)

	hired, pending, hireEvents := advanceHiring(next.HiringQueue)
	next.Team = append(next.Team, hired...)
	next.HiringQueue = pending
	events = append(events, hireEvents...)

	if next.Day%marketRollEvery == 0 {
		next.MarketCondition = rollMarket(src)
		events = append(events, Event{Message: fmt.Sprintf("Market shifted to %s", next.MarketCondition), Severity: SeverityInfo})
	}

	next.QuarterlyGrowth = append(next.QuarterlyGrowth, growth)
	if n := len(next.QuarterlyGrowth); n > MaxGrowthHistory {
		next.QuarterlyGrowth = append([]float64(nil), next.QuarterlyGrowth[n-MaxGrowthHistory:]...)
	}

	if next.Cash <= 0 {
		next.IsGameOver = true
		events = append(events, Event{Message: fmt.Sprintf("Bankrupt: %s ran out of cash on day %d", next.CompanyName, next.Day), Severity: SeverityError})
	}
	return next, events
}
