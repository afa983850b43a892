package game

import (
	"errors"
	"strings"
)

const (
	StartingUsers  = int64(100)
	StartingGrowth = 0.01

	MaxGrowthHistory = 30

	ChannelUnlockCost = 5000.0
	RecruitingDays    = 3
	PitchEquityCost   = 15.0
	PitchOfferShare   = 0.15

	MinFatigue = 0.1
	MaxFatigue = 1.0
	MinMorale  = 0.0
	MaxMorale  = 100.0

	defaultCompanyName = "New Venture"
)

var (
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrInvalidTransition   = errors.New("invalid transition")
	ErrChannelLocked       = errors.New("marketing channel locked")
	ErrGameOver            = errors.New("game over: venture is bankrupt")
	ErrFeatureNotFound     = errors.New("feature not found")
	ErrChannelNotFound     = errors.New("marketing channel not found")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrUnknownStartupType  = errors.New("unknown startup type")
	ErrUnknownStartingPath = errors.New("unknown starting path")
	ErrNoVenture           = errors.New("no venture found")
)

type MarketCondition string

const (
	MarketBull   MarketCondition = "Bull"
	MarketBear   MarketCondition = "Bear"
	MarketSteady MarketCondition = "Steady"
)

type StartupType string

const (
	StartupSaaS      StartupType = "SaaS"
	StartupGaming    StartupType = "Gaming"
	StartupFinTech   StartupType = "FinTech"
	StartupECommerce StartupType = "E-commerce"
	StartupAIML      StartupType = "AI/ML"
)

var StartupTypes = []StartupType{StartupSaaS, StartupGaming, StartupFinTech, StartupECommerce, StartupAIML}

type StartingPath string

const (
	PathBootstrap   StartingPath = "Bootstrap"
	PathAngel       StartingPath = "Angel"
	PathVCPreSeed   StartingPath = "VC Pre-Seed"
	PathBankLoan    StartingPath = "Bank Loan"
	PathAccelerator StartingPath = "Accelerator"
)

var StartingPaths = []StartingPath{PathBootstrap, PathAngel, PathVCPreSeed, PathBankLoan, PathAccelerator}

type FeatureStatus string

const (
	FeatureLocked     FeatureStatus = "Locked"
	FeatureAvailable  FeatureStatus = "Available"
	FeatureDeveloping FeatureStatus = "Developing"
	FeatureLive       FeatureStatus = "Live"
	FeatureNeedsScale FeatureStatus = "NeedsScale"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

// ParseStartupType accepts the display name in any case, with or without punctuation
// ("ecommerce", "ai-ml").
func ParseStartupType(v string) (StartupType, error) {
	key := normalizeKey(v)
	for _, t := range StartupTypes {
		if normalizeKey(string(t)) == key {
			return t, nil
		}
	}
	return "", ErrUnknownStartupType
}

func ParseStartingPath(v string) (StartingPath, error) {
	key := normalizeKey(v)
	for _, p := range StartingPaths {
		if normalizeKey(string(p)) == key {
			return p, nil
		}
	}
	return "", ErrUnknownStartingPath
}

func normalizeKey(v string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(v)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
