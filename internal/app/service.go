// Package service runs the refresh loop and serves the data the HTTP API
// needs: published brackets, the merged upstream inputs and ad-hoc scoring.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/seedline/internal/adapters/repository"
	"github.com/okian/seedline/internal/adapters/upstream"
	"github.com/okian/seedline/internal/domain/engine"
	"github.com/okian/seedline/internal/domain/model"
	"github.com/okian/seedline/internal/domain/record"
	"github.com/okian/seedline/internal/domain/tables"
	"github.com/okian/seedline/pkg/logger"
	"github.com/okian/seedline/pkg/metrics"
)

const defaultRefreshInterval = 5 * time.Minute

// Fetcher gathers one cycle of upstream inputs.
type Fetcher interface {
	Fetch(ctx context.Context) (model.Inputs, upstream.Report)
}

// Cache mirrors snapshots outside the process.
type Cache interface {
	Write(ctx context.Context, snaps ...repository.Snapshot) error
	Read(ctx context.Context, mode model.Mode) (repository.Snapshot, error)
}

// CycleInfo describes the last refresh attempt.
type CycleInfo struct {
	ID        string          `json:"id"`
	StartedAt time.Time       `json:"startedAt"`
	Took      time.Duration   `json:"took"`
	Outcome   string          `json:"outcome"`
	Error     string          `json:"error,omitempty"`
	Teams     int             `json:"teams"`
	Report    upstream.Report `json:"report"`
}

// ScoreResult is the fitness evaluation of a single posted team.
type ScoreResult struct {
	Conference string  `json:"conference"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	Score      float64 `json:"fairRankScore"`
}

// Service owns the refresh loop.
type Service struct {
	mu sync.RWMutex

	fetcher  Fetcher
	engine   *engine.Engine
	store    repository.Store
	cache    Cache
	interval time.Duration
	now      func() time.Time
	logger   logger.Logger

	// Cycle bookkeeping, guarded by cycleMu.
	cycleMu     sync.Mutex
	generation  uint64
	cancelCycle context.CancelFunc

	// Last published state, guarded by mu.
	inputs    model.Inputs
	lastCycle CycleInfo
	cycles    int

	started bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore replaces the in-memory snapshot store.
func WithStore(s repository.Store) Option {
	return func(svc *Service) {
		if s != nil {
			svc.store = s
		}
	}
}

// WithCache mirrors published snapshots into c and falls back to it on read.
func WithCache(c Cache) Option {
	return func(svc *Service) { svc.cache = c }
}

// WithRefreshInterval sets how often the background loop refreshes.
func WithRefreshInterval(d time.Duration) Option {
	return func(svc *Service) {
		if d > 0 {
			svc.interval = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(svc *Service) {
		if now != nil {
			svc.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(svc *Service) {
		if l != nil {
			svc.logger = l
		}
	}
}

// New constructs a Service over fetcher and eng.
func New(fetcher Fetcher, eng *engine.Engine, opts ...Option) *Service {
	s := &Service{
		fetcher:  fetcher,
		engine:   eng,
		store:    repository.NewMemoryStore(),
		interval: defaultRefreshInterval,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// Start runs one refresh immediately and then one per interval until Stop
// or ctx ends.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.started = true
	stop := make(chan struct{})
	s.stopCh = stop
	s.logger.Info(ctx, "starting refresh loop", logger.Duration("interval", s.interval))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.refreshInBackground(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case <-ticker.C:
				s.refreshInBackground(ctx)
			}
		}
	}()
	return nil
}

func (s *Service) refreshInBackground(ctx context.Context) {
	if _, err := s.Refresh(ctx); err != nil && !errors.Is(err, ErrSuperseded) && !errors.Is(err, ErrAbandoned) {
		s.logger.Warn(ctx, "refresh failed", logger.Error(err))
	}
}

// Stop cancels any in-flight cycle and waits for the loop to exit.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	close(s.stopCh)
	s.mu.Unlock()

	s.cycleMu.Lock()
	if s.cancelCycle != nil {
		s.cancelCycle()
	}
	s.cycleMu.Unlock()

	s.wg.Wait()
	s.logger.Info(context.Background(), "refresh loop stopped")
}

// Refresh runs one cycle: fetch, evaluate both modes, publish. Starting a
// cycle cancels the one in flight; a superseded cycle publishes nothing and
// returns ErrSuperseded. A cycle whose ctx ends first is abandoned and
// leaves the store untouched. A cycle without rankings fails and the
// previous snapshot stays published, flagged stale.
func (s *Service) Refresh(ctx context.Context) (CycleInfo, error) {
	cctx, gen := s.beginCycle(ctx)
	defer s.endCycle(gen)

	info := CycleInfo{ID: uuid.NewString(), StartedAt: s.now()}
	s.logger.Debug(ctx, "refresh started", logger.String("cycle", info.ID))

	in, report := s.fetcher.Fetch(cctx)
	info.Report = report

	if !s.isCurrent(gen) {
		return s.supersede(ctx, info)
	}
	if err := cctx.Err(); err != nil {
		return s.abandon(ctx, info, err)
	}
	if !report.OK(upstream.KindRankings) || len(in.Rankings) == 0 {
		return s.fail(ctx, gen, info, ErrNoRankings)
	}

	res, err := s.engine.Evaluate(in)
	if err != nil {
		return s.fail(ctx, gen, info, fmt.Errorf("evaluate: %w", err))
	}
	info.Teams = len(res.Teams)

	if published, err := s.commit(ctx, gen, info, in, res); err != nil {
		return s.fail(ctx, gen, info, err)
	} else if !published {
		return s.supersede(ctx, info)
	}

	metrics.RecordIngest(len(res.Teams), res.Duplicates)
	for mode, b := range res.Brackets {
		metrics.RecordBracket(mode.String(), countAutoBids(b))
	}
	s.mirror(ctx, info.ID)

	info.Outcome = metrics.OutcomeOK
	info.Took = s.now().Sub(info.StartedAt)
	s.setLastCycle(info)
	metrics.RecordRefresh(metrics.OutcomeOK, info.Took.Seconds())
	metrics.SetLastRefresh(info.StartedAt.Unix())

	if failed := report.Failed(); len(failed) > 0 {
		s.logger.Warn(ctx, "refresh published with missing sources",
			logger.String("cycle", info.ID),
			logger.String("failed", strings.Join(failed, ",")),
			logger.Int("teams", info.Teams),
		)
	} else {
		s.logger.Info(ctx, "refresh published",
			logger.String("cycle", info.ID),
			logger.Int("teams", info.Teams),
			logger.Int("duplicates", res.Duplicates),
			logger.Duration("took", info.Took),
		)
	}
	return info, nil
}

func (s *Service) beginCycle(ctx context.Context) (context.Context, uint64) {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()
	if s.cancelCycle != nil {
		s.cancelCycle()
	}
	s.generation++
	cctx, cancel := context.WithCancel(ctx)
	s.cancelCycle = cancel
	return cctx, s.generation
}

func (s *Service) endCycle(gen uint64) {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()
	if gen == s.generation && s.cancelCycle != nil {
		s.cancelCycle()
		s.cancelCycle = nil
	}
}

func (s *Service) isCurrent(gen uint64) bool {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()
	return gen == s.generation
}

// commit publishes under cycleMu so no newer cycle can begin between the
// currency check and the store write.
func (s *Service) commit(ctx context.Context, gen uint64, info CycleInfo, in model.Inputs, res engine.Result) (bool, error) {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()
	if gen != s.generation {
		return false, nil
	}
	err := s.store.Publish(ctx, repository.Cycle{
		ID:         info.ID,
		ComputedAt: info.StartedAt,
		Brackets:   res.Brackets,
	})
	if err != nil {
		return false, fmt.Errorf("publish: %w", err)
	}

	s.mu.Lock()
	s.inputs = in
	s.cycles++
	s.mu.Unlock()
	return true, nil
}

func (s *Service) mirror(ctx context.Context, cycleID string) {
	if s.cache == nil {
		return
	}
	snaps := make([]repository.Snapshot, 0, len(model.Modes))
	for _, mode := range model.Modes {
		snap, err := s.store.Get(ctx, mode)
		if err == nil && snap.CycleID == cycleID {
			snaps = append(snaps, snap)
		}
	}
	if err := s.cache.Write(ctx, snaps...); err != nil {
		metrics.RecordErrorByComponent("cache", "write")
		s.logger.Warn(ctx, "cache write failed", logger.String("cycle", cycleID), logger.Error(err))
	}
}

func (s *Service) supersede(ctx context.Context, info CycleInfo) (CycleInfo, error) {
	info.Outcome = metrics.OutcomeSuperseded
	info.Took = s.now().Sub(info.StartedAt)
	metrics.RecordRefresh(metrics.OutcomeSuperseded, info.Took.Seconds())
	s.logger.Debug(ctx, "refresh superseded", logger.String("cycle", info.ID))
	return info, ErrSuperseded
}

// abandon drops a cycle whose caller went away or whose loop stopped.
func (s *Service) abandon(ctx context.Context, info CycleInfo, cause error) (CycleInfo, error) {
	info.Outcome = metrics.OutcomeAbandoned
	info.Took = s.now().Sub(info.StartedAt)
	metrics.RecordRefresh(metrics.OutcomeAbandoned, info.Took.Seconds())
	s.logger.Debug(ctx, "refresh abandoned", logger.String("cycle", info.ID), logger.Error(cause))
	return info, fmt.Errorf("%w: %w", ErrAbandoned, cause)
}

// fail flags the published snapshot stale. Only the current cycle may do
// that; an older one is reported as superseded instead.
func (s *Service) fail(ctx context.Context, gen uint64, info CycleInfo, err error) (CycleInfo, error) {
	s.cycleMu.Lock()
	if gen != s.generation {
		s.cycleMu.Unlock()
		return s.supersede(ctx, info)
	}
	s.store.MarkFailed(ctx, err)
	s.cycleMu.Unlock()

	info.Outcome = metrics.OutcomeFailed
	info.Error = err.Error()
	info.Took = s.now().Sub(info.StartedAt)
	s.setLastCycle(info)
	metrics.RecordRefresh(metrics.OutcomeFailed, info.Took.Seconds())
	metrics.RecordErrorByComponent("service", "refresh")
	return info, err
}

func (s *Service) setLastCycle(info CycleInfo) {
	s.mu.Lock()
	s.lastCycle = info
	s.mu.Unlock()
}

// Bracket returns the published bracket for mode. Before the first cycle
// publishes it falls back to the cache.
func (s *Service) Bracket(ctx context.Context, mode model.Mode) (repository.Snapshot, error) {
	snap, err := s.store.Get(ctx, mode)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return repository.Snapshot{}, err
	}
	if s.cache != nil {
		if cached, cerr := s.cache.Read(ctx, mode); cerr == nil {
			return cached, nil
		}
	}
	return repository.Snapshot{}, fmt.Errorf("%w: %s", ErrNotReady, mode)
}

// Inputs returns the merged inputs of the last published cycle.
func (s *Service) Inputs() model.Inputs {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inputs
}

// LastCycle describes the most recent cycle that published or failed.
func (s *Service) LastCycle() CycleInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastCycle
}

// Score evaluates one team outside any bracket. The record string, when
// present, wins over posted wins and losses.
func (s *Service) Score(t model.Team) ScoreResult {
	if strings.TrimSpace(t.Record) != "" {
		r := record.Parse(t.Record)
		t.Wins, t.Losses = r.Wins, r.Losses
	}
	t.Conference = s.engine.ResolveConference(t)
	return ScoreResult{
		Conference: t.Conference,
		Wins:       t.Wins,
		Losses:     t.Losses,
		Score:      s.engine.ComputeFairScore(t),
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"refreshInterval": s.interval.String(),
		"cycles":          s.cycles,
		"latestCycle":     s.store.Latest(context.Background()),
		"tablesVersion":   tables.Version,
		"rankedTeams":     len(s.inputs.Rankings),
	}
	if s.lastCycle.ID != "" {
		stats["lastOutcome"] = s.lastCycle.Outcome
		stats["lastRefresh"] = s.lastCycle.StartedAt
		if s.lastCycle.Error != "" {
			stats["lastError"] = s.lastCycle.Error
		}
		if failed := s.lastCycle.Report.Failed(); len(failed) > 0 {
			stats["failedSources"] = failed
		}
	}
	return stats
}

func countAutoBids(b model.Bracket) int {
	n := 0
	for _, t := range b.Seeds {
		if t.AutoBid {
			n++
		}
	}
	return n
}
