package game

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

const (
	baseGrowth        = 0.005
	growthJitter      = 0.01
	acceleratorBoost  = 1.1
	marketRollEvery   = 60
	bullRoll          = 0.7
	bearRoll          = 0.3
	fatiguePerUse     = 0.15
	bullPitchBar      = 20.0
	bearPitchBar      = 60.0
	steadyPitchBar    = 40.0
	pitchGrowthWeight = 100.0
	pitchUsersDivisor = 1000.0
	pitchRevDivisor   = 100.0
)

func dailyGrowth(path StartingPath, src Source) float64 {
	g := baseGrowth + uniform(src, 0, growthJitter)
	if path == PathAccelerator {
		g *= acceleratorBoost
	}
	return g
}

func grow(users int64, rate float64) int64 {
	return int64(math.Floor(float64(users) * (1 + rate)))
}

func rollMarket(src Source) MarketCondition {
	r := src.Float64()
	switch {
	case r > bullRoll:
		return MarketBull
	case r < bearRoll:
		return MarketBear
	default:
		return MarketSteady
	}
}

// RunMarketingCampaign spends the channel cost for floor(cost*effectiveness*fatigue)
// users. Each run wears the channel down by 0.15 fatigue, never below MinFatigue.
func RunMarketingCampaign(v Venture, channelID string) (Venture, []Event, error) {
	if v.IsGameOver {
		return v, nil, ErrGameOver
	}
	idx, ok := v.channel(channelID)
	if !ok {
		return v, nil, fmt.Errorf("%w: %s", ErrChannelNotFound, channelID)
	}
	ch := v.MarketingChannels[idx]
	if !ch.Unlocked {
		return v, nil, fmt.Errorf("%w: %s", ErrChannelLocked, ch.Name)
	}
	if v.Cash < ch.Cost {
		return v, nil, fmt.Errorf("%w: %s costs %s", ErrInsufficientFunds, ch.Name, FormatMoney(ch.Cost))
	}

	gain := int64(math.Floor(ch.Cost * ch.Effectiveness * ch.Fatigue))
	next := v.Clone()
	next.Cash -= ch.Cost
	next.Users += gain
	c := &next.MarketingChannels[idx]
	c.Fatigue = clamp(c.Fatigue-fatiguePerUse, MinFatigue, MaxFatigue)
	return next, []Event{{Message: fmt.Sprintf("Campaign gained %s users!", humanize.Comma(gain)), Severity: SeveritySuccess}}, nil
}

// UnlockMarketingChannel pays the flat unlock fee; the channel's own cost only applies
// per campaign.
func UnlockMarketingChannel(v Venture, channelID string) (Venture, []Event, error) {
	if v.IsGameOver {
		return v, nil, ErrGameOver
	}
	idx, ok := v.channel(channelID)
	if !ok {
		return v, nil, fmt.Errorf("%w: %s", ErrChannelNotFound, channelID)
	}
	if v.MarketingChannels[idx].Unlocked {
		return v, nil, fmt.Errorf("%w: %s is already unlocked", ErrInvalidTransition, v.MarketingChannels[idx].Name)
	}
	if v.Cash < ChannelUnlockCost {
		return v, nil, fmt.Errorf("%w: need %s to unlock channel", ErrInsufficientFunds, FormatMoney(ChannelUnlockCost))
	}

	next := v.Clone()
	next.Cash -= ChannelUnlockCost
	next.MarketingChannels[idx].Unlocked = true
	return next, []Event{{Message: fmt.Sprintf("Unlocked %s", next.MarketingChannels[idx].Name), Severity: SeveritySuccess}}, nil
}

func pitchThreshold(m MarketCondition) float64 {
	switch m {
	case MarketBull:
		return bullPitchBar
	case MarketBear:
		return bearPitchBar
	default:
		return steadyPitchBar
	}
}

// EvaluatePitch scores the venture against the current market's bar without changing it.
func EvaluatePitch(v Venture) PitchEvaluation {
	score := v.LastGrowth()*pitchGrowthWeight + float64(v.Users)/pitchUsersDivisor + DailyRevenue(v)/pitchRevDivisor
	threshold := pitchThreshold(v.MarketCondition)
	valuation := Valuation(v)
	return PitchEvaluation{
		Score:     score,
		Threshold: threshold,
		Qualified: score >= threshold,
		Valuation: valuation,
		Offer:     math.Floor(valuation * PitchOfferShare),
	}
}

// PitchInvestors runs a pitch and, when it qualifies and accept is set, takes the offer
// for a flat 15 points of equity. Rejected and declined pitches return v untouched.
func PitchInvestors(v Venture, accept bool) (Venture, PitchOutcome, []Event, error) {
	if v.IsGameOver {
		return v, PitchOutcome{}, nil, ErrGameOver
	}
	eval := EvaluatePitch(v)
	if !eval.Qualified {
		return v, PitchOutcome{Status: PitchRejected}, []Event{{Message: "Pitch failed. Metrics are too weak.", Severity: SeverityError}}, nil
	}
	outcome := PitchOutcome{Status: PitchDeclined, Offer: eval.Offer}
	if !accept {
		msg := fmt.Sprintf("Declined %s for %.0f%% equity", FormatMoney(eval.Offer), PitchEquityCost)
		return v, outcome, []Event{{Message: msg, Severity: SeverityInfo}}, nil
	}
	if v.Equity < PitchEquityCost {
		return v, PitchOutcome{}, nil, fmt.Errorf("%w: only %.1f%% equity left", ErrInvalidTransition, v.Equity)
	}

	next := v.Clone()
	next.Cash += eval.Offer
	next.Equity -= PitchEquityCost
	outcome.Status = PitchAccepted
	return next, outcome, []Event{{Message: fmt.Sprintf("Funding secured! Raised %s", FormatMoney(eval.Offer)), Severity: SeveritySuccess}}, nil
}

// RepayDebt pays down the loan principal. Amounts above the balance are capped.
func RepayDebt(v Venture, amount float64) (Venture, []Event, error) {
	if v.IsGameOver {
		return v, nil, ErrGameOver
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return v, nil, fmt.Errorf("%w: amount must be > 0", ErrInvalidArgument)
	}
	if v.DebtAmount <= 0 {
		return v, nil, fmt.Errorf("%w: no outstanding debt", ErrInvalidTransition)
	}
	amount = math.Min(amount, v.DebtAmount)
	if v.Cash < amount {
		return v, nil, fmt.Errorf("%w: need %s", ErrInsufficientFunds, FormatMoney(amount))
	}

	next := v.Clone()
	next.Cash -= amount
	next.DebtAmount -= amount
	ev := Event{Message: fmt.Sprintf("Repaid %s of debt", FormatMoney(amount)), Severity: SeveritySuccess}
	if next.DebtAmount == 0 {
		ev.Message = "Debt fully repaid"
	}
	return next, []Event{ev}, nil
}

func SetOfficeRented(v Venture, rented bool) (Venture, []Event, error) {
	if v.IsGameOver {
		return v, nil, ErrGameOver
	}
	if v.OfficeRented == rented {
		return v, nil, fmt.Errorf("%w: office_rented is already %t", ErrInvalidTransition, rented)
	}
	next := v.Clone()
	next.OfficeRented = rented
	msg := "Moved out of the office"
	if rented {
		msg = fmt.Sprintf("Rented an office (%s/day)", FormatMoney(officeBurn))
	}
	return next, []Event{{Message: msg, Severity: SeverityInfo}}, nil
}

// FormatMoney renders dollars with thousands separators and at most two decimals.
func FormatMoney(v float64) string {
	if v < 0 {
		return "-$" + humanize.CommafWithDigits(-v, 2)
	}
	return "$" + humanize.CommafWithDigits(v, 2)
}
