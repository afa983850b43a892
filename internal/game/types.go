package game

import "time"

// Venture is the full serializable game state. Hosts own the single current value and
// persist whatever each transition returns.
type Venture struct {
	Day               int                `json:"day"`
	Cash              float64            `json:"cash"`
	Users             int64              `json:"users"`
	Team              []Employee         `json:"team"`
	Features          []Feature          `json:"features"`
	MarketingChannels []MarketingChannel `json:"marketing_channels"`
	HiringQueue       []HiringRequest    `json:"hiring_queue"`
	CompanyName       string             `json:"company_name"`
	StartupType       StartupType        `json:"startup_type"`
	StartingPath      StartingPath       `json:"starting_path"`
	Equity            float64            `json:"equity"`
	DebtAmount        float64            `json:"debt_amount"`
	OfficeRented      bool               `json:"office_rented"`
	MarketCondition   MarketCondition    `json:"market_condition"`
	IsGameOver        bool               `json:"is_game_over"`
	QuarterlyGrowth   []float64          `json:"quarterly_growth"`
}

type Employee struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	Salary     float64 `json:"salary"`
	Morale     float64 `json:"morale"`
	Loyalty    float64 `json:"loyalty"`
	Tenure     int     `json:"tenure"`
	Skill      float64 `json:"skill"`
	Experience float64 `json:"experience"`
}

type Feature struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	Cost           float64       `json:"cost"`
	RemainingCost  float64       `json:"remaining_cost"`
	Capacity       float64       `json:"capacity"`
	RevenuePerUser float64       `json:"revenue_per_user"`
	UserBonus      int64         `json:"user_bonus"`
	Status         FeatureStatus `json:"status"`
	Prerequisites  []string      `json:"prerequisites"`
	WasScaling     bool          `json:"was_scaling,omitempty"`
}

type MarketingChannel struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Cost          float64 `json:"cost"`
	Effectiveness float64 `json:"effectiveness"`
	Fatigue       float64 `json:"fatigue"`
	Unlocked      bool    `json:"unlocked"`
}

type HiringRequest struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Role          string  `json:"role"`
	Salary        float64 `json:"salary"`
	DaysRemaining int     `json:"days_remaining"`
}

type Event struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// EventRecord is an Event as kept by a store, stamped with the day it was emitted on.
type EventRecord struct {
	Day      int       `json:"day"`
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
	At       time.Time `json:"at"`
}

type Metrics struct {
	DailyRevenue   float64 `json:"daily_revenue"`
	DailyBurn      float64 `json:"daily_burn"`
	NetFlow        float64 `json:"net_flow"`
	Valuation      float64 `json:"valuation"`
	RunwayDays     int     `json:"runway_days"`
	RunwayInfinite bool    `json:"runway_infinite"`
	Velocity       float64 `json:"velocity"`
	Headcount      int     `json:"headcount"`
	GrowthRate     float64 `json:"growth_rate"`
}

type Dashboard struct {
	Venture Venture `json:"venture"`
	Metrics Metrics `json:"metrics"`
}

// Result is what every state-changing host call returns.
type Result struct {
	Venture Venture `json:"venture"`
	Metrics Metrics `json:"metrics"`
	Events  []Event `json:"events"`
}

type PitchEvaluation struct {
	Score     float64 `json:"score"`
	Threshold float64 `json:"threshold"`
	Qualified bool    `json:"qualified"`
	Valuation float64 `json:"valuation"`
	Offer     float64 `json:"offer"`
}

type PitchStatus string

const (
	PitchAccepted PitchStatus = "accepted"
	PitchDeclined PitchStatus = "declined"
	PitchRejected PitchStatus = "rejected"
)

type PitchOutcome struct {
	Status PitchStatus `json:"status"`
	Offer  float64     `json:"offer"`
}

type PitchResult struct {
	Result
	Outcome PitchOutcome `json:"outcome"`
}

type HiringRole struct {
	Role   string  `json:"role"`
	Salary float64 `json:"salary"`
}

type Catalog struct {
	StartupTypes  []StartupType  `json:"startup_types"`
	StartingPaths []StartingPath `json:"starting_paths"`
	HiringRoles   []HiringRole   `json:"hiring_roles"`
}

// Clone returns a deep copy; transitions work on clones so callers keep their value.
func (v Venture) Clone() Venture {
	out := v
	out.Team = cloneSlice(v.Team)
	out.Features = cloneSlice(v.Features)
	for i := range out.Features {
		out.Features[i].Prerequisites = cloneSlice(out.Features[i].Prerequisites)
	}
	out.MarketingChannels = cloneSlice(v.MarketingChannels)
	out.HiringQueue = cloneSlice(v.HiringQueue)
	out.QuarterlyGrowth = cloneSlice(v.QuarterlyGrowth)
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func (v Venture) feature(id string) (int, bool) {
	for i := range v.Features {
		if v.Features[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

func (v Venture) channel(id string) (int, bool) {
	for i := range v.MarketingChannels {
		if v.MarketingChannels[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// LastGrowth is the most recent daily growth rate, 0 when no history exists.
func (v Venture) LastGrowth() float64 {
	if len(v.QuarterlyGrowth) == 0 {
		return 0
	}
	return v.QuarterlyGrowth[len(v.QuarterlyGrowth)-1]
}
