package scraper

import (
	"context"
	"fmt"
	"time"

	"rosterscraper/pkg/config"
	"rosterscraper/pkg/errors"
	"rosterscraper/pkg/logger"
	"rosterscraper/pkg/ratelimit"
	"rosterscraper/pkg/registrar"
	"rosterscraper/pkg/roster"
)

// RunState is the explicit loop state reported to the operator. It is
// returned from Run rather than kept in globals so the loop can be
// exercised in isolation.
type RunState struct {
	// Scanned counts identifiers processed, hits and misses alike.
	Scanned int
	// Found is the cardinality of the result set, including names
	// loaded from a prior checkpoint in append mode.
	Found int
	// Interrupted is set when the run stopped on an operator signal
	// instead of reaching the end of the range.
	Interrupted bool
	// LastCheckpoint is when the set last reached disk successfully.
	LastCheckpoint time.Time
	Started        time.Time
	Elapsed        time.Duration
}

// Scraper owns the run loop and its collaborators.
type Scraper struct {
	fetcher  Fetcher
	store    Store
	limiter  ratelimit.Limiter
	cfg      config.ScrapeConfig
	logger   logger.Logger
	progress func(RunState)
}

// New creates a Scraper. The politeness delay from the config becomes
// the pacing limiter between iterations.
func New(cfg *config.Config, fetcher Fetcher, store Store) *Scraper {
	return &Scraper{
		fetcher: fetcher,
		store:   store,
		limiter: ratelimit.NewFixedDelay(cfg.Scrape.Delay),
		cfg:     cfg.Scrape,
		logger:  logger.GetLogger(),
	}
}

// SetProgress installs a callback invoked after every identifier with
// the current run state.
func (s *Scraper) SetProgress(fn func(RunState)) {
	s.progress = fn
}

// Run executes the loop over [start, end). It returns the final run
// state together with a fatal error, if any. Cancellation of ctx is a
// graceful stop: the set is persisted and nil is returned.
func (s *Scraper) Run(ctx context.Context) (RunState, error) {
	state := RunState{Started: time.Now()}

	set, err := s.initSet()
	if err != nil {
		return state, err
	}
	state.Found = set.Len()

	s.logger.WithFields(map[string]interface{}{
		"start":            s.cfg.Start,
		"end":              s.cfg.End,
		"mode":             s.cfg.Mode,
		"checkpoint_every": s.cfg.CheckpointEvery,
		"preloaded":        set.Len(),
	}).Info("starting scrape run")

	for course := s.cfg.Start; course < s.cfg.End; course++ {
		// The stop signal is honored here, at the top of the
		// iteration; an in-flight page load finishes or times out
		// before we get back around.
		if ctx.Err() != nil {
			state.Interrupted = true
			break
		}

		stopped, err := s.scanCourse(ctx, course, set, &state)
		if err != nil {
			state.Elapsed = time.Since(state.Started)
			return state, err
		}
		if stopped {
			state.Interrupted = true
			break
		}

		state.Scanned++
		state.Found = set.Len()

		if state.Scanned%s.cfg.CheckpointEvery == 0 {
			if err := s.persist(set, &state); err != nil {
				state.Elapsed = time.Since(state.Started)
				return state, err
			}
		}

		if s.progress != nil {
			s.progress(state)
		}

		if course+1 < s.cfg.End {
			if err := s.limiter.Wait(ctx); err != nil {
				state.Interrupted = true
				break
			}
		}
	}

	// One final persist on completion or graceful stop.
	err = s.persist(set, &state)
	state.Found = set.Len()
	state.Elapsed = time.Since(state.Started)
	if err != nil {
		return state, err
	}

	s.logger.WithFields(map[string]interface{}{
		"scanned":     state.Scanned,
		"found":       state.Found,
		"elapsed":     state.Elapsed.Round(time.Second).String(),
		"interrupted": state.Interrupted,
	}).Info("scrape run finished")

	return state, nil
}

// initSet builds the starting result set for the configured mode:
// empty for overwrite and unique, loaded from the existing checkpoint
// for append.
func (s *Scraper) initSet() (*roster.Set, error) {
	if s.cfg.Mode != config.ModeAppend {
		return roster.NewSet(), nil
	}
	set, err := s.store.Load()
	if err != nil {
		return nil, errors.NewPersistence(fmt.Errorf("failed to load checkpoint for append: %w", err))
	}
	return set, nil
}

// scanCourse fetches and processes one identifier. A fetch failure is
// logged and treated as no result. Session loss persists the set once
// more and returns the fatal error. The bool return reports a
// context-cancelled fetch, which ends the loop gracefully.
func (s *Scraper) scanCourse(ctx context.Context, course int, set *roster.Set, state *RunState) (bool, error) {
	html, err := s.fetcher.Fetch(ctx, course)
	if err != nil {
		if ctx.Err() != nil {
			// The run was cancelled mid-fetch; stop gracefully.
			return true, nil
		}
		s.logger.WithError(err).WithField("course", fmt.Sprintf("%05d", course)).
			Warn("fetch failed, skipping identifier")
		return false, nil
	}

	page, err := registrar.Parse(html)
	if err != nil {
		s.logger.WithError(err).WithField("course", fmt.Sprintf("%05d", course)).
			Warn("unparseable page, skipping identifier")
		return false, nil
	}

	switch page.Kind {
	case registrar.KindNoCourse:
		// Expected for most of the identifier space.
		return false, nil
	case registrar.KindLoginRequired:
		s.logger.WithField("course", fmt.Sprintf("%05d", course)).
			Error("session expired, persisting and aborting")
		if err := s.persist(set, state); err != nil {
			return false, err
		}
		return false, errors.NewSessionExpired(course)
	}

	for _, cell := range page.Cells {
		for _, raw := range roster.SplitCell(cell) {
			name, ok := roster.ParseName(raw)
			if !ok {
				s.logger.WithFields(map[string]interface{}{
					"course": fmt.Sprintf("%05d", course),
					"cell":   raw,
				}).Warn("unparseable instructor cell entry, skipping")
				continue
			}
			if set.Add(name) {
				s.logger.WithFields(map[string]interface{}{
					"course": fmt.Sprintf("%05d", course),
					"first":  name.First,
					"last":   name.Last,
				}).Debug("new instructor found")
			}
		}
	}

	return false, nil
}

// persist writes the set through the store. A write failure means no
// further durability can be guaranteed, so it surfaces as the fatal
// persistence error along with the last successful checkpoint time.
func (s *Scraper) persist(set *roster.Set, state *RunState) error {
	if err := s.store.Save(set); err != nil {
		s.logger.WithError(err).WithField(
			"last_checkpoint", state.LastCheckpoint.Format(time.RFC3339),
		).Error("checkpoint write failed")
		return errors.NewPersistence(err)
	}
	state.LastCheckpoint = time.Now()
	return nil
}
