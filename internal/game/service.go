package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// MaxAdvanceDays bounds a single AdvanceDays call.
const MaxAdvanceDays = 365

// Store persists the single live venture and its event journal. Load returns
// ErrNoVenture when nothing has been saved yet.
type Store interface {
	Load(ctx context.Context) (Venture, error)
	Save(ctx context.Context, v Venture, events []EventRecord) error
	// Events returns up to limit of the most recent records, oldest first. limit <= 0
	// returns the whole journal.
	Events(ctx context.Context, limit int) ([]EventRecord, error)
	Clear(ctx context.Context) error
}

// Service is the single writer in front of a Store: every call loads the venture,
// applies one transition and saves the result together with its events.
type Service struct {
	store  Store
	log    *slog.Logger
	engine Engine
	mu     sync.Mutex
	now    func() time.Time
}

func NewService(store Store, engine Engine, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if engine.Rand == nil {
		engine.Rand = NewRandSource(time.Now().UnixNano())
	}
	return &Service{
		store:  store,
		log:    logger,
		engine: engine,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) NewVenture(ctx context.Context, name string, startupType StartupType, path StartingPath) (Result, error) {
	v, err := NewVenture(name, startupType, path)
	if err != nil {
		return Result{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		return Result{}, fmt.Errorf("clear store: %w", err)
	}
	events := []Event{{Message: fmt.Sprintf("Founded %s (%s, %s)", v.CompanyName, v.StartupType, v.StartingPath), Severity: SeverityInfo}}
	if err := s.store.Save(ctx, v, s.records(v.Day, events)); err != nil {
		return Result{}, fmt.Errorf("save venture: %w", err)
	}
	s.log.Info("venture created", "venture", v.CompanyName, "type", v.StartupType, "path", v.StartingPath)
	return newResult(v, events), nil
}

func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.store.Load(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{Venture: v, Metrics: Summarize(v)}, nil
}

// AdvanceDays runs up to n ticks and stops early on the tick that bankrupts the venture.
func (s *Service) AdvanceDays(ctx context.Context, n int) (Result, error) {
	if n < 1 || n > MaxAdvanceDays {
		return Result{}, fmt.Errorf("%w: days must be between 1 and %d", ErrInvalidArgument, MaxAdvanceDays)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.store.Load(ctx)
	if err != nil {
		return Result{}, err
	}
	if v.IsGameOver {
		return Result{}, ErrGameOver
	}
	var all []Event
	var records []EventRecord
	for i := 0; i < n && !v.IsGameOver; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		var events []Event
		v, events = s.engine.AdvanceDay(v)
		all = append(all, events...)
		records = append(records, s.records(v.Day, events)...)
	}
	if err := s.store.Save(ctx, v, records); err != nil {
		return Result{}, fmt.Errorf("save venture: %w", err)
	}
	s.log.Info("days advanced", "action", "advance", "days", n, "day", v.Day, "cash", v.Cash, "users", v.Users)
	if v.IsGameOver {
		s.log.Warn("venture bankrupt", "venture", v.CompanyName, "day", v.Day)
	}
	return newResult(v, all), nil
}

func (s *Service) DevelopFeature(ctx context.Context, featureID string) (Result, error) {
	return s.apply(ctx, "develop", func(v Venture) (Venture, []Event, error) {
		return StartDeveloping(v, featureID)
	})
}

func (s *Service) StartHiring(ctx context.Context, role string, salary float64) (Result, error) {
	return s.apply(ctx, "hire", func(v Venture) (Venture, []Event, error) {
		return s.engine.StartHiring(v, role, salary)
	})
}

func (s *Service) UnlockChannel(ctx context.Context, channelID string) (Result, error) {
	return s.apply(ctx, "unlock", func(v Venture) (Venture, []Event, error) {
		return UnlockMarketingChannel(v, channelID)
	})
}

func (s *Service) RunCampaign(ctx context.Context, channelID string) (Result, error) {
	return s.apply(ctx, "campaign", func(v Venture) (Venture, []Event, error) {
		return RunMarketingCampaign(v, channelID)
	})
}

func (s *Service) RepayDebt(ctx context.Context, amount float64) (Result, error) {
	return s.apply(ctx, "repay", func(v Venture) (Venture, []Event, error) {
		return RepayDebt(v, amount)
	})
}

func (s *Service) SetOffice(ctx context.Context, rented bool) (Result, error) {
	return s.apply(ctx, "office", func(v Venture) (Venture, []Event, error) {
		return SetOfficeRented(v, rented)
	})
}

func (s *Service) EvaluatePitch(ctx context.Context) (PitchEvaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.store.Load(ctx)
	if err != nil {
		return PitchEvaluation{}, err
	}
	return EvaluatePitch(v), nil
}

// Pitch journals the outcome even when the venture itself is left untouched.
func (s *Service) Pitch(ctx context.Context, accept bool) (PitchResult, error) {
	var outcome PitchOutcome
	res, err := s.apply(ctx, "pitch", func(v Venture) (Venture, []Event, error) {
		next, out, events, err := PitchInvestors(v, accept)
		outcome = out
		return next, events, err
	})
	if err != nil {
		return PitchResult{}, err
	}
	return PitchResult{Result: res, Outcome: outcome}, nil
}

func (s *Service) Events(ctx context.Context, limit int) ([]EventRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Events(ctx, limit)
}

func (s *Service) Wipe(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	s.log.Info("venture wiped", "action", "wipe")
	return nil
}

func (s *Service) Catalog(context.Context) (Catalog, error) {
	return DefaultCatalog(), nil
}

func (s *Service) apply(ctx context.Context, action string, fn func(Venture) (Venture, []Event, error)) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.store.Load(ctx)
	if err != nil {
		return Result{}, err
	}
	next, events, err := fn(v)
	if err != nil {
		if !errors.Is(err, ErrGameOver) {
			s.log.Debug("action refused", "action", action, "day", v.Day, "err", err)
		}
		return Result{}, err
	}
	if err := s.store.Save(ctx, next, s.records(next.Day, events)); err != nil {
		return Result{}, fmt.Errorf("save venture: %w", err)
	}
	s.log.Info("action applied", "action", action, "day", next.Day, "cash", next.Cash)
	return newResult(next, events), nil
}

func (s *Service) records(day int, events []Event) []EventRecord {
	at := s.now()
	out := make([]EventRecord, 0, len(events))
	for _, e := range events {
		out = append(out, EventRecord{Day: day, Message: e.Message, Severity: e.Severity, At: at})
	}
	return out
}

func newResult(v Venture, events []Event) Result {
	if events == nil {
		events = []Event{}
	}
	return Result{Venture: v, Metrics: Summarize(v), Events: events}
}
