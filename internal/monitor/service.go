package monitor

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"entradalert/internal/config"
	"entradalert/internal/detect"
)

// Checker classifies one target URL. Satisfied by detect.PageChecker.
type Checker interface {
	Check(ctx context.Context, targetURL string) (detect.Classification, error)
}

// StateChange is handed to the notifier when a transition warrants a message.
type StateChange struct {
	Previous      TargetState
	PreviousKnown bool
	Current       TargetState
	Forced        bool
}

// Notifier delivers transition messages. Satisfied by the notification helper.
type Notifier interface {
	NotifyTransition(ctx context.Context, change StateChange)
}

// StateRepository persists states and check history across restarts.
// Satisfied by the sqlite store.
type StateRepository interface {
	SaveState(ctx context.Context, state TargetState) error
	RecordCheck(ctx context.Context, state TargetState) error
}

// Service runs the monitoring loop: check every target in order, evaluate
// transitions, notify, persist, sleep, repeat. Targets are checked
// sequentially; one failing target never blocks the rest of the cycle.
type Service struct {
	cfg      config.MonitorConfig
	checker  Checker
	notifier Notifier
	store    *StateStore
	repo     StateRepository
	machine  StateMachine
	logger   zerolog.Logger
	now      func() time.Time
}

// NewService creates a new monitoring service
func NewService(
	cfg config.MonitorConfig,
	checker Checker,
	notifier Notifier,
	store *StateStore,
	repo StateRepository,
	logger zerolog.Logger,
) *Service {
	return &Service{
		cfg:      cfg,
		checker:  checker,
		notifier: notifier,
		store:    store,
		repo:     repo,
		machine:  StateMachine{NotifyOnDetailChange: cfg.NotifyOnDetailChange},
		logger:   logger.With().Str("component", "MonitorService").Logger(),
		now:      time.Now,
	}
}

// Run executes check cycles until the context is cancelled.
func (s *Service) Run(ctx context.Context) {
	interval := time.Duration(s.cfg.EffectiveCheckIntervalSeconds()) * time.Second
	s.logger.Info().
		Int("targets", len(s.store.Targets())).
		Dur("interval", interval).
		Msg("Monitor loop started")

	for {
		s.RunCycle(ctx)

		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Monitor loop stopped")
			return
		case <-time.After(interval):
		}
	}
}

// RunCycle checks every target once. Failures mark the target unknown and
// move on; there are no mid-cycle retries, the next cycle is the retry.
func (s *Service) RunCycle(ctx context.Context) {
	for _, targetURL := range s.store.Targets() {
		if ctx.Err() != nil {
			return
		}
		s.checkTarget(ctx, targetURL)
	}
}

func (s *Service) checkTarget(ctx context.Context, targetURL string) {
	prev, known := s.store.Get(targetURL)

	next := TargetState{URL: targetURL, LastCheckedAt: s.now()}
	classification, err := s.checker.Check(ctx, targetURL)
	if err != nil {
		s.logger.Warn().Err(err).Str("url", targetURL).Msg("Check failed")
		next.Status = detect.CollapsedUnknown
		next.RawStatus = detect.StatusUnknown
		next.LastError = err.Error()
		// Keep the last good title so messages and listings stay readable
		// through transient failures.
		if known {
			next.Title = prev.Title
		}
	} else {
		next.Status = classification.Status.Collapse()
		next.RawStatus = classification.Status
		next.Dates = classification.Dates
		next.Title = classification.Title
	}

	decision := s.machine.Evaluate(prev, known, next)
	if decision.Notify && s.notifier != nil {
		s.notifier.NotifyTransition(ctx, StateChange{
			Previous:      prev,
			PreviousKnown: known,
			Current:       next,
			Forced:        decision.Forced,
		})
	}

	s.store.Put(next)
	s.persist(ctx, next)

	s.logger.Debug().
		Str("url", targetURL).
		Str("status", string(next.RawStatus)).
		Int("dates", len(next.Dates)).
		Bool("notified", decision.Notify).
		Msg("Target checked")
}

func (s *Service) persist(ctx context.Context, state TargetState) {
	if s.repo == nil {
		return
	}
	if err := s.repo.SaveState(ctx, state); err != nil {
		s.logger.Warn().Err(err).Str("url", state.URL).Msg("Failed to persist target state")
	}
	if err := s.repo.RecordCheck(ctx, state); err != nil {
		s.logger.Warn().Err(err).Str("url", state.URL).Msg("Failed to record check history")
	}
}

// Seed preloads previously persisted states so a restart does not re-announce
// targets that were already available.
func (s *Service) Seed(states []TargetState) {
	configured := make(map[string]struct{}, len(s.store.Targets()))
	for _, url := range s.store.Targets() {
		configured[url] = struct{}{}
	}
	for _, state := range states {
		if _, ok := configured[state.URL]; ok {
			s.store.Put(state)
		}
	}
}
