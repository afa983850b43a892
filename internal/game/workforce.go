package game

import (
	"fmt"
	"math"
	"strings"
)

const (
	baselineVelocity = 0.25

	hireMorale      = 80.0
	hireLoyalty     = 80.0
	juniorSkill     = 50.0
	seniorSkill     = 75.0
	recruitingShare = 1.0 / 3

	payrollBonusMorale   = 5.0
	missedPayrollMorale  = 30.0
	missedPayrollQuitOdd = 0.2

	dailyMoraleDecay     = -0.5
	profitableMoraleLift = 1.0
	profitableThreshold  = 100.0
	lowCashMoraleHit     = -2.0
	lowCashThreshold     = 5000.0
	skillGainEvery       = 10
	skillGain            = 0.5
	payrollEvery         = 30
)

// Velocity is how much feature cost the team burns down per day. A team with no
// effective strength still ships at the founder's baseline pace.
func Velocity(team []Employee) float64 {
	strength := 0.0
	for _, e := range team {
		strength += e.Skill * (e.Morale / 100)
	}
	if strength <= 0 {
		return baselineVelocity
	}
	return strength / 100
}

func RecruitingFee(salary float64) float64 {
	return salary * recruitingShare
}

func MonthlyPayroll(team []Employee) float64 {
	total := 0.0
	for _, e := range team {
		total += e.Salary
	}
	return total
}

// StartHiring charges the non-refundable recruiting fee and queues a candidate who
// joins after RecruitingDays ticks.
func (e Engine) StartHiring(v Venture, role string, salary float64) (Venture, []Event, error) {
	if v.IsGameOver {
		return v, nil, ErrGameOver
	}
	role = strings.TrimSpace(role)
	if role == "" {
		return v, nil, fmt.Errorf("%w: role is required", ErrInvalidArgument)
	}
	if salary <= 0 || math.IsNaN(salary) || math.IsInf(salary, 0) {
		return v, nil, fmt.Errorf("%w: salary must be > 0", ErrInvalidArgument)
	}
	fee := RecruitingFee(salary)
	if v.Cash < fee {
		return v, nil, fmt.Errorf("%w: need %s for recruiting", ErrInsufficientFunds, FormatMoney(fee))
	}

	next := v.Clone()
	next.Cash -= fee
	next.HiringQueue = append(next.HiringQueue, HiringRequest{
		ID:            e.newID(),
		Name:          candidateNames[e.rand().Intn(len(candidateNames))],
		Role:          role,
		Salary:        salary,
		DaysRemaining: RecruitingDays,
	})
	return next, []Event{{Message: fmt.Sprintf("Started recruiting %s", role), Severity: SeverityInfo}}, nil
}

// advanceHiring counts every request down one day and returns the new hires in
// queue order alongside the requests still pending.
func advanceHiring(queue []HiringRequest) (hired []Employee, pending []HiringRequest, events []Event) {
	pending = make([]HiringRequest, 0, len(queue))
	for _, h := range queue {
		h.DaysRemaining--
		if h.DaysRemaining > 0 {
			pending = append(pending, h)
			continue
		}
		skill := juniorSkill
		if strings.Contains(h.Role, "Senior") {
			skill = seniorSkill
		}
		hired = append(hired, Employee{
			ID:      h.ID,
			Name:    h.Name,
			Role:    h.Role,
			Salary:  h.Salary,
			Morale:  hireMorale,
			Loyalty: hireLoyalty,
			Skill:   skill,
		})
		events = append(events, Event{Message: fmt.Sprintf("%s joined as %s", h.Name, h.Role), Severity: SeveritySuccess})
	}
	return hired, pending, events
}

// runPayroll settles the monthly salaries. Missed payroll never ends the game: each
// employee walks with 20% odds and the rest take a morale hit.
func runPayroll(team []Employee, cash float64, src Source) ([]Employee, float64, []Event) {
	total := MonthlyPayroll(team)
	if cash >= total {
		out := make([]Employee, len(team))
		for i, m := range team {
			m.Morale = clamp(m.Morale+payrollBonusMorale, MinMorale, MaxMorale)
			out[i] = m
		}
		return out, cash - total, []Event{{Message: fmt.Sprintf("Paid %s in salaries", FormatMoney(total)), Severity: SeveritySuccess}}
	}

	events := []Event{{Message: "CRISIS: Missed payroll!", Severity: SeverityError}}
	out := make([]Employee, 0, len(team))
	for _, m := range team {
		if src.Float64() < missedPayrollQuitOdd {
			events = append(events, Event{Message: fmt.Sprintf("%s quit due to unpaid salary", m.Name), Severity: SeverityError})
			continue
		}
		m.Morale = clamp(m.Morale-missedPayrollMorale, MinMorale, MaxMorale)
		out = append(out, m)
	}
	return out, cash, events
}

// driftTeam applies the daily morale, skill and tenure changes. revenue and burn are
// the pre-tick figures; cash is the balance after payroll.
func driftTeam(team []Employee, day int, revenue, burn, cash float64) {
	change := dailyMoraleDecay
	if revenue-burn > profitableThreshold {
		change += profitableMoraleLift
	}
	if cash < lowCashThreshold {
		change += lowCashMoraleHit
	}
	for i := range team {
		m := &team[i]
		m.Morale = clamp(m.Morale+change, MinMorale, MaxMorale)
		if day%skillGainEvery == 0 {
			m.Skill += skillGain
		}
		m.Tenure++
	}
}
