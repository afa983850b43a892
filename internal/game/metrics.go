package game

import "math"

const (
	softwareTierRevenue = 100.0
	softwareTierBurn    = 50.0
	officeBurn          = 100.0
	dailyInterestRate   = 0.005
	valuationFloor      = 25_000.0
	valuationPerUser    = 20.0
	scalePenalty        = 0.5
)

func DailySalaries(team []Employee) float64 {
	total := 0.0
	for _, e := range team {
		total += e.Salary / 30
	}
	return total
}

// ServerBurn is tiered infrastructure cost; the steps are intentionally discontinuous.
func ServerBurn(users int64) float64 {
	switch {
	case users <= 0:
		return 0
	case users <= 100:
		return 10
	case users <= 1000:
		return 50
	case users <= 10000:
		return 200
	default:
		return 500
	}
}

// DailyRevenue halves every stream while any feature needs scaling.
func DailyRevenue(v Venture) float64 {
	perUser := 0.0
	penalty := 1.0
	for _, f := range v.Features {
		switch f.Status {
		case FeatureLive:
			perUser += f.RevenuePerUser
		case FeatureNeedsScale:
			penalty = scalePenalty
		}
	}
	return float64(v.Users) * perUser * penalty
}

func TotalBurn(v Venture) float64 {
	burn := DailySalaries(v.Team) + ServerBurn(v.Users)
	if DailyRevenue(v) > softwareTierRevenue {
		burn += softwareTierBurn
	}
	if v.OfficeRented {
		burn += officeBurn
	}
	if v.DebtAmount > 0 {
		burn += v.DebtAmount * dailyInterestRate
	}
	return burn
}

func NetFlow(v Venture) float64 {
	return DailyRevenue(v) - TotalBurn(v)
}

func marketMultiple(m MarketCondition) float64 {
	switch m {
	case MarketBull:
		return 800
	case MarketBear:
		return 300
	default:
		return 500
	}
}

func Valuation(v Venture) float64 {
	premium := 1 + v.LastGrowth()*10
	value := float64(v.Users)*valuationPerUser + DailyRevenue(v)*marketMultiple(v.MarketCondition)*premium
	return math.Max(valuationFloor, value)
}

// Runway is the number of whole days the cash lasts at the current net flow.
func Runway(v Venture) (days int, infinite bool) {
	net := NetFlow(v)
	if net >= 0 {
		return 0, true
	}
	if v.Cash <= 0 {
		return 0, false
	}
	return int(math.Floor(v.Cash / math.Abs(net))), false
}

func Summarize(v Venture) Metrics {
	revenue := DailyRevenue(v)
	burn := TotalBurn(v)
	days, infinite := Runway(v)
	return Metrics{
		DailyRevenue:   revenue,
		DailyBurn:      burn,
		NetFlow:        revenue - burn,
		Valuation:      Valuation(v),
		RunwayDays:     days,
		RunwayInfinite: infinite,
		Velocity:       Velocity(v.Team),
		Headcount:      len(v.Team),
		GrowthRate:     v.LastGrowth(),
	}
}
