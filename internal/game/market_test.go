package game

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestUnlockMarketingChannel(t *testing.T) {
	v := mustVenture(t, StartupSaaS, PathBootstrap)

	next, events, err := UnlockMarketingChannel(v, "seo")
	if err != nil {
		t.Fatal(err)
	}
	idx, _ := next.channel("seo")
	if !next.MarketingChannels[idx].Unlocked || next.Cash != 45_000 || !hasEvent(events, "Unlocked SEO") {
		t.Fatalf("unexpected unlock result: cash=%v events=%+v", next.Cash, events)
	}
	if v.MarketingChannels[idx].Unlocked {
		t.Fatalf("input venture was mutated")
	}

	if _, _, err := UnlockMarketingChannel(next, "seo"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("double unlock got %v", err)
	}
	if _, _, err := UnlockMarketingChannel(v, "billboards"); !errors.Is(err, ErrChannelNotFound) {
		t.Fatalf("unknown channel got %v", err)
	}

	v.Cash = 4999
	if _, _, err := UnlockMarketingChannel(v, "social"); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("poor unlock got %v", err)
	}
}

func TestRunMarketingCampaign(t *testing.T) {
	v := mustVenture(t, StartupSaaS, PathBootstrap)
	if _, _, err := RunMarketingCampaign(v, "social"); !errors.Is(err, ErrChannelLocked) {
		t.Fatalf("locked campaign got %v", err)
	}

	v, _, err := UnlockMarketingChannel(v, "social")
	if err != nil {
		t.Fatal(err)
	}
	next, events, err := RunMarketingCampaign(v, "social")
	if err != nil {
		t.Fatal(err)
	}
	if next.Users != 100+1200 || next.Cash != 44_000 {
		t.Fatalf("users=%d cash=%v", next.Users, next.Cash)
	}
	if !hasEvent(events, "Campaign gained 1,200 users!") {
		t.Fatalf("events=%+v", events)
	}
	idx, _ := next.channel("social")
	if !approx(next.MarketingChannels[idx].Fatigue, 0.85) {
		t.Fatalf("fatigue got=%v", next.MarketingChannels[idx].Fatigue)
	}

	for i := 0; i < 10; i++ {
		next, _, err = RunMarketingCampaign(next, "social")
		if err != nil {
			t.Fatal(err)
		}
	}
	if got := next.MarketingChannels[idx].Fatigue; got != MinFatigue {
		t.Fatalf("fatigue should floor at %v, got=%v", MinFatigue, got)
	}

	next.Cash = 999
	if _, _, err := RunMarketingCampaign(next, "social"); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("poor campaign got %v", err)
	}
}

func qualifiedVenture(t *testing.T) Venture {
	t.Helper()
	v := mustVenture(t, StartupSaaS, PathBootstrap)
	v.MarketCondition = MarketBull
	v.Users = 20_000
	return v
}

func TestEvaluatePitch(t *testing.T) {
	v := qualifiedVenture(t)
	eval := EvaluatePitch(v)
	// 0.01*100 + 20000/1000 + 0
	if !approx(eval.Score, 21) || eval.Threshold != 20 || !eval.Qualified {
		t.Fatalf("unexpected evaluation: %+v", eval)
	}
	if eval.Valuation != 400_000 || eval.Offer != 60_000 {
		t.Fatalf("unexpected offer: %+v", eval)
	}

	v.MarketCondition = MarketBear
	if eval := EvaluatePitch(v); eval.Qualified || eval.Threshold != 60 {
		t.Fatalf("bear market should reject: %+v", eval)
	}
	v.MarketCondition = MarketSteady
	if eval := EvaluatePitch(v); eval.Threshold != 40 {
		t.Fatalf("steady threshold got=%v", eval.Threshold)
	}
}

func TestPitchInvestorsAccepted(t *testing.T) {
	v := qualifiedVenture(t)
	next, outcome, events, err := PitchInvestors(v, true)
	if err != nil {
		t.Fatal(err)
	}
	if outcome.Status != PitchAccepted || outcome.Offer != 60_000 {
		t.Fatalf("outcome=%+v", outcome)
	}
	if next.Cash != 110_000 || next.Equity != 85 {
		t.Fatalf("cash=%v equity=%v", next.Cash, next.Equity)
	}
	if !hasEvent(events, "Funding secured!") {
		t.Fatalf("events=%+v", events)
	}

	next.Equity = 10
	if _, _, _, err := PitchInvestors(next, true); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("pitch with no equity left got %v", err)
	}
}

func TestPitchInvestorsLeavesStateUntouched(t *testing.T) {
	tests := []struct {
		name   string
		v      Venture
		accept bool
		want   PitchStatus
	}{
		{name: "rejected", v: mustVenture(t, StartupSaaS, PathBootstrap), accept: true, want: PitchRejected},
		{name: "declined", v: qualifiedVenture(t), accept: false, want: PitchDeclined},
	}
	for _, tc := range tests {
		before, err := json.Marshal(tc.v)
		if err != nil {
			t.Fatal(err)
		}
		next, outcome, events, err := PitchInvestors(tc.v, tc.accept)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if outcome.Status != tc.want || len(events) != 1 {
			t.Fatalf("%s: outcome=%+v events=%+v", tc.name, outcome, events)
		}
		after, err := json.Marshal(next)
		if err != nil {
			t.Fatal(err)
		}
		if string(before) != string(after) || !reflect.DeepEqual(tc.v, next) {
			t.Fatalf("%s: pitch changed the venture", tc.name)
		}
	}
}

func TestRepayDebt(t *testing.T) {
	v := mustVenture(t, StartupSaaS, PathBankLoan)

	next, _, err := RepayDebt(v, 20_000)
	if err != nil {
		t.Fatal(err)
	}
	if next.Cash != 80_000 || next.DebtAmount != 30_000 {
		t.Fatalf("cash=%v debt=%v", next.Cash, next.DebtAmount)
	}

	next, events, err := RepayDebt(next, 1_000_000)
	if err != nil {
		t.Fatal(err)
	}
	if next.Cash != 50_000 || next.DebtAmount != 0 || !hasEvent(events, "Debt fully repaid") {
		t.Fatalf("cash=%v debt=%v events=%+v", next.Cash, next.DebtAmount, events)
	}

	if _, _, err := RepayDebt(next, 10); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("repay without debt got %v", err)
	}
	if _, _, err := RepayDebt(v, -5); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("negative repay got %v", err)
	}
	v.Cash = 100
	if _, _, err := RepayDebt(v, 500); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("poor repay got %v", err)
	}
}

func TestSetOfficeRented(t *testing.T) {
	v := mustVenture(t, StartupSaaS, PathBootstrap)
	if _, _, err := SetOfficeRented(v, false); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("no-op toggle got %v", err)
	}
	next, _, err := SetOfficeRented(v, true)
	if err != nil {
		t.Fatal(err)
	}
	if !next.OfficeRented || TotalBurn(next)-TotalBurn(v) != 100 {
		t.Fatalf("office not applied to burn")
	}
}

func TestFormatMoney(t *testing.T) {
	tests := map[float64]string{
		0:           "$0",
		5000:        "$5,000",
		4000.0 / 3:  "$1,333.33",
		-2500.5:     "-$2,500.5",
		1234567.891: "$1,234,567.89",
	}
	for in, want := range tests {
		if got := FormatMoney(in); got != want {
			t.Fatalf("FormatMoney(%v) got=%q want=%q", in, got, want)
		}
	}
}
