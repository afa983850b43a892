package game

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

// scriptedSource replays fixed draws and falls back to 0.5 / 0 once exhausted.
type scriptedSource struct {
	floats []float64
	ints   []int
}

func (s *scriptedSource) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.5
	}
	f := s.floats[0]
	s.floats = s.floats[1:]
	return f
}

func (s *scriptedSource) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	i := s.ints[0]
	s.ints = s.ints[1:]
	return i % n
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func testEngine(floats ...float64) Engine {
	return Engine{Rand: &scriptedSource{floats: floats}, NewID: sequentialIDs()}
}

func mustVenture(t *testing.T, st StartupType, path StartingPath) Venture {
	t.Helper()
	v, err := NewVenture("Acme", st, path)
	if err != nil {
		t.Fatalf("NewVenture: %v", err)
	}
	return v
}

func hasEvent(events []Event, substr string) bool {
	for _, e := range events {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func TestAdvanceDayCashAccounting(t *testing.T) {
	e := Engine{Rand: NewRandSource(7), NewID: sequentialIDs()}
	v := mustVenture(t, StartupSaaS, PathVCPreSeed)
	v.Team = []Employee{
		{ID: "a", Name: "Alex", Salary: 6000, Morale: 80, Skill: 50},
		{ID: "b", Name: "Sam", Salary: 4000, Morale: 80, Skill: 50},
	}
	v.Features[0].Status = FeatureLive
	v.OfficeRented = true

	for i := 0; i < 120 && !v.IsGameOver; i++ {
		revenue, burn := DailyRevenue(v), TotalBurn(v)
		next, _ := e.AdvanceDay(v)
		want := v.Cash + revenue - burn
		if next.Day%30 == 0 {
			payroll := MonthlyPayroll(v.Team)
			if want >= payroll {
				want -= payroll
			}
		}
		if !approx(next.Cash, want) {
			t.Fatalf("day %d cash got=%v want=%v", next.Day, next.Cash, want)
		}
		v = next
	}
}

func TestAdvanceDayBounds(t *testing.T) {
	e := Engine{Rand: NewRandSource(99), NewID: sequentialIDs()}
	v := mustVenture(t, StartupECommerce, PathAngel)
	var err error
	for _, r := range HiringRoles {
		v, _, err = e.StartHiring(v, r.Role, r.Salary)
		if err != nil {
			t.Fatal(err)
		}
	}
	v, _, err = UnlockMarketingChannel(v, "social")
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 400; i++ {
		if next, _, err := RunMarketingCampaign(v, "social"); err == nil {
			v = next
		}
		v, _ = e.AdvanceDay(v)
		for _, m := range v.Team {
			if m.Morale < MinMorale || m.Morale > MaxMorale {
				t.Fatalf("day %d morale out of bounds: %v", v.Day, m.Morale)
			}
		}
		for _, c := range v.MarketingChannels {
			if c.Fatigue < MinFatigue || c.Fatigue > MaxFatigue {
				t.Fatalf("day %d fatigue out of bounds: %v", v.Day, c.Fatigue)
			}
		}
		if len(v.QuarterlyGrowth) > MaxGrowthHistory {
			t.Fatalf("day %d growth history has %d entries", v.Day, len(v.QuarterlyGrowth))
		}
	}
}

func TestAdvanceDayGrowthHistoryKeepsNewest(t *testing.T) {
	e := testEngine(make([]float64, 40)...)
	v := mustVenture(t, StartupSaaS, PathBootstrap)
	for i := 0; i < 40; i++ {
		v, _ = e.AdvanceDay(v)
	}
	if len(v.QuarterlyGrowth) != MaxGrowthHistory {
		t.Fatalf("history len got=%d want=%d", len(v.QuarterlyGrowth), MaxGrowthHistory)
	}
	for i, g := range v.QuarterlyGrowth {
		if !approx(g, baseGrowth) {
			t.Fatalf("entry %d got=%v, the seed entry should have been trimmed", i, g)
		}
	}
}

func TestAdvanceDayDoesNotMutateInput(t *testing.T) {
	e := testEngine()
	v := mustVenture(t, StartupSaaS, PathBootstrap)
	v, _, err := e.StartHiring(v, "Junior Dev", 4000)
	if err != nil {
		t.Fatal(err)
	}
	before := v.Clone()
	_, _ = e.AdvanceDay(v)
	if !reflect.DeepEqual(before, v) {
		t.Fatalf("AdvanceDay mutated its input")
	}
}

func TestScenarioANewBootstrapSaaS(t *testing.T) {
	v := mustVenture(t, StartupSaaS, PathBootstrap)
	if v.Cash != 50_000 || v.Equity != 100 || v.Users != 100 || v.DebtAmount != 0 {
		t.Fatalf("unexpected starting terms: cash=%v equity=%v users=%v", v.Cash, v.Equity, v.Users)
	}
	auth, _ := v.feature("auth")
	billing, _ := v.feature("billing")
	if v.Features[auth].Status != FeatureAvailable {
		t.Fatalf("auth status got=%s", v.Features[auth].Status)
	}
	if v.Features[billing].Status != FeatureLocked {
		t.Fatalf("billing status got=%s", v.Features[billing].Status)
	}
}

func TestScenarioBHiringCompletesAfterThreeDays(t *testing.T) {
	e := testEngine()
	v := mustVenture(t, StartupSaaS, PathBootstrap)

	v, events, err := e.StartHiring(v, "Junior Dev", 4000)
	if err != nil {
		t.Fatal(err)
	}
	if !approx(v.Cash, 50_000-4000.0/3) {
		t.Fatalf("cash after fee got=%v", v.Cash)
	}
	if len(v.HiringQueue) != 1 || v.HiringQueue[0].DaysRemaining != 3 {
		t.Fatalf("unexpected queue: %+v", v.HiringQueue)
	}
	if !hasEvent(events, "Started recruiting Junior Dev") {
		t.Fatalf("missing recruiting event: %+v", events)
	}

	var last []Event
	for i := 0; i < 3; i++ {
		if len(v.Team) != 0 {
			t.Fatalf("hire joined early on day %d", v.Day)
		}
		v, last = e.AdvanceDay(v)
	}
	if len(v.Team) != 1 || len(v.HiringQueue) != 0 {
		t.Fatalf("team=%d queue=%d", len(v.Team), len(v.HiringQueue))
	}
	hire := v.Team[0]
	if hire.Skill != 50 || hire.Morale != 80 || hire.Loyalty != 80 || hire.Tenure != 0 {
		t.Fatalf("unexpected hire: %+v", hire)
	}
	if !hasEvent(last, "joined as Junior Dev") {
		t.Fatalf("missing join event: %+v", last)
	}
}

func TestScenarioCScalingAfterCapacityBreach(t *testing.T) {
	e := testEngine()
	v := mustVenture(t, StartupSaaS, PathBootstrap)
	idx, _ := v.feature("auth")
	v.Features[idx].Status = FeatureLive
	v.Users = 600

	v, events := e.AdvanceDay(v)
	if v.Features[idx].Status != FeatureNeedsScale {
		t.Fatalf("auth status got=%s", v.Features[idx].Status)
	}
	if !hasEvent(events, "needs scaling") {
		t.Fatalf("missing capacity event: %+v", events)
	}

	v, _, err := StartDeveloping(v, "auth")
	if err != nil {
		t.Fatal(err)
	}
	f := v.Features[idx]
	if f.Status != FeatureDeveloping || !approx(f.RemainingCost, 6) || !approx(f.Capacity, 1250) || !f.WasScaling {
		t.Fatalf("unexpected scaled feature: %+v", f)
	}
}

func TestScenarioDMissedPayroll(t *testing.T) {
	// growth draw, then one attrition roll per employee
	e := testEngine(0.5, 0.1, 0.5, 0.9)
	v := mustVenture(t, StartupSaaS, PathBootstrap)
	v.Day = 29
	v.Cash = 5000
	v.Team = []Employee{
		{ID: "1", Name: "Alex", Salary: 4000, Morale: 80, Skill: 50},
		{ID: "2", Name: "Jordan", Salary: 4000, Morale: 80, Skill: 50},
		{ID: "3", Name: "Sam", Salary: 4000, Morale: 80, Skill: 50},
	}

	wantCash := v.Cash + DailyRevenue(v) - TotalBurn(v)
	next, events := e.AdvanceDay(v)
	if next.Day != 30 {
		t.Fatalf("day got=%d", next.Day)
	}
	if !approx(next.Cash, wantCash) {
		t.Fatalf("missed payroll deducted cash: got=%v want=%v", next.Cash, wantCash)
	}
	if !hasEvent(events, "CRISIS: Missed payroll!") || !hasEvent(events, "Alex quit due to unpaid salary") {
		t.Fatalf("missing payroll events: %+v", events)
	}
	if len(next.Team) != 2 || next.Team[0].Name != "Jordan" || next.Team[1].Name != "Sam" {
		t.Fatalf("unexpected survivors: %+v", next.Team)
	}
	// -30 for the missed payroll, then -0.5 decay and -2 for low cash
	for _, m := range next.Team {
		if !approx(m.Morale, 47.5) {
			t.Fatalf("%s morale got=%v want=47.5", m.Name, m.Morale)
		}
	}
}

func TestPayrollPaid(t *testing.T) {
	e := testEngine()
	v := mustVenture(t, StartupSaaS, PathBootstrap)
	v.Day = 29
	v.Team = []Employee{{ID: "1", Name: "Alex", Salary: 6000, Morale: 98, Skill: 50}}

	wantCash := v.Cash + DailyRevenue(v) - TotalBurn(v) - 6000
	next, events := e.AdvanceDay(v)
	if !approx(next.Cash, wantCash) {
		t.Fatalf("cash got=%v want=%v", next.Cash, wantCash)
	}
	if !hasEvent(events, "Paid $6,000 in salaries") {
		t.Fatalf("missing payroll event: %+v", events)
	}
	// clamped to 100 by the bonus, then the daily decay
	if !approx(next.Team[0].Morale, 99.5) {
		t.Fatalf("morale got=%v want=99.5", next.Team[0].Morale)
	}
}

func TestScenarioEBankruptcyIsTerminal(t *testing.T) {
	e := testEngine()
	v := mustVenture(t, StartupSaaS, PathBootstrap)
	v.Cash = 100
	v.Team = []Employee{{ID: "1", Name: "Alex", Salary: 30_000, Morale: 80, Skill: 50}}

	v, events := e.AdvanceDay(v)
	if !v.IsGameOver || v.Cash > 0 {
		t.Fatalf("expected bankruptcy, cash=%v over=%v", v.Cash, v.IsGameOver)
	}
	if !hasEvent(events, "Bankrupt") {
		t.Fatalf("missing bankruptcy event: %+v", events)
	}

	again, events := e.AdvanceDay(v)
	if !reflect.DeepEqual(again, v) || len(events) != 0 {
		t.Fatalf("advance after bankruptcy was not a no-op")
	}

	if _, _, err := StartDeveloping(v, "auth"); !errors.Is(err, ErrGameOver) {
		t.Fatalf("develop after bankruptcy got %v", err)
	}
	if _, _, err := e.StartHiring(v, "Junior Dev", 4000); !errors.Is(err, ErrGameOver) {
		t.Fatalf("hire after bankruptcy got %v", err)
	}
	if _, _, _, err := PitchInvestors(v, true); !errors.Is(err, ErrGameOver) {
		t.Fatalf("pitch after bankruptcy got %v", err)
	}
}

func TestBankruptcyAtExactlyZero(t *testing.T) {
	e := testEngine()
	v := mustVenture(t, StartupSaaS, PathBootstrap)
	v.Cash = TotalBurn(v)

	v, _ = e.AdvanceDay(v)
	if v.Cash != 0 || !v.IsGameOver {
		t.Fatalf("cash=%v over=%v", v.Cash, v.IsGameOver)
	}
}

func TestMarketRollsEverySixtyDays(t *testing.T) {
	e := testEngine(0.5, 0.9)
	v := mustVenture(t, StartupSaaS, PathBootstrap)
	v.Day = 59

	v, events := e.AdvanceDay(v)
	if v.MarketCondition != MarketBull {
		t.Fatalf("market got=%s", v.MarketCondition)
	}
	if !hasEvent(events, "Market shifted to Bull") {
		t.Fatalf("missing market event: %+v", events)
	}

	v, _ = testEngine(0.5, 0.1).AdvanceDay(v)
	if v.MarketCondition != MarketBull {
		t.Fatalf("market changed off-cycle: %s", v.MarketCondition)
	}
}

func TestRollMarket(t *testing.T) {
	tests := []struct {
		r    float64
		want MarketCondition
	}{
		{r: 0.95, want: MarketBull},
		{r: 0.71, want: MarketBull},
		{r: 0.7, want: MarketSteady},
		{r: 0.5, want: MarketSteady},
		{r: 0.3, want: MarketSteady},
		{r: 0.29, want: MarketBear},
		{r: 0, want: MarketBear},
	}
	for _, tc := range tests {
		if got := rollMarket(&scriptedSource{floats: []float64{tc.r}}); got != tc.want {
			t.Fatalf("r=%v got=%s want=%s", tc.r, got, tc.want)
		}
	}
}

func TestGrowthAndLaunchBonus(t *testing.T) {
	e := testEngine()
	v := mustVenture(t, StartupSaaS, PathBootstrap)
	v.Users = 1000
	idx, _ := v.feature("auth")
	v.Features[idx].Status = FeatureDeveloping
	v.Features[idx].RemainingCost = 0.1

	next, events := e.AdvanceDay(v)
	growth := next.LastGrowth()
	want := grow(1000, growth) + 50
	if next.Users != want {
		t.Fatalf("users got=%d want=%d", next.Users, want)
	}
	if next.Features[idx].Status != FeatureLive || next.Features[idx].RemainingCost != 0 {
		t.Fatalf("feature did not launch: %+v", next.Features[idx])
	}
	if !hasEvent(events, "Feature Launched: Authentication") {
		t.Fatalf("missing launch event: %+v", events)
	}
}

func TestDailyGrowth(t *testing.T) {
	if got := dailyGrowth(PathBootstrap, &scriptedSource{floats: []float64{0.5}}); !approx(got, 0.01) {
		t.Fatalf("bootstrap growth got=%v", got)
	}
	if got := dailyGrowth(PathAccelerator, &scriptedSource{floats: []float64{0.5}}); !approx(got, 0.011) {
		t.Fatalf("accelerator growth got=%v", got)
	}
	if got := dailyGrowth(PathAngel, &scriptedSource{floats: []float64{0}}); !approx(got, 0.005) {
		t.Fatalf("min growth got=%v", got)
	}
	if got := grow(1000, 0.5); got != 1500 {
		t.Fatalf("grow got=%d", got)
	}
	if got := grow(101, 0.25); got != 126 {
		t.Fatalf("grow should floor, got=%d", got)
	}
}

func TestPrerequisiteResolution(t *testing.T) {
	v := mustVenture(t, StartupSaaS, PathBootstrap)
	auth, _ := v.feature("auth")
	billing, _ := v.feature("billing")
	v.Features[auth].Status = FeatureLive

	off, _ := testEngine().AdvanceDay(v)
	if off.Features[billing].Status != FeatureLocked {
		t.Fatalf("billing unlocked without resolution enabled")
	}

	e := testEngine()
	e.ResolvePrerequisites = true
	on, events := e.AdvanceDay(v)
	if on.Features[billing].Status != FeatureAvailable {
		t.Fatalf("billing status got=%s", on.Features[billing].Status)
	}
	if !hasEvent(events, "Feature unlocked: Billing System") {
		t.Fatalf("missing unlock event: %+v", events)
	}
}
