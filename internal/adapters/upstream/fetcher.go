package upstream

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/okian/seedline/internal/adapters/mq/queue"
	"github.com/okian/seedline/internal/adapters/mq/worker"
	"github.com/okian/seedline/internal/domain/model"
	"github.com/okian/seedline/pkg/logger"
	"github.com/okian/seedline/pkg/metrics"
)

// Source kinds, also used as metric labels.
const (
	KindRankings   = "rankings"
	KindScoreboard = "scoreboard"
	KindHistory    = "history"
	KindSOR        = "sor"
)

const (
	defaultFetchWorkers = 4
	defaultFetchTimeout = 8 * time.Second
	daysPerWeek         = 7
)

// SORSource supplies strength-of-record rows.
type SORSource interface {
	Lookup(ctx context.Context) ([]model.SOREntry, error)
}

// SourceStatus is the outcome of one source fetch.
type SourceStatus struct {
	Name  string        `json:"name"`
	Kind  string        `json:"kind"`
	OK    bool          `json:"ok"`
	Error string        `json:"error,omitempty"`
	Took  time.Duration `json:"took"`
}

// Report lists what happened to every source of one Fetch.
type Report struct {
	Sources []SourceStatus `json:"sources"`
}

// Failed names the sources that contributed nothing.
func (r Report) Failed() []string {
	var out []string
	for _, s := range r.Sources {
		if !s.OK {
			out = append(out, s.Name)
		}
	}
	return out
}

// OK reports whether the named source succeeded.
func (r Report) OK(name string) bool {
	for _, s := range r.Sources {
		if s.Name == name {
			return s.OK
		}
	}
	return false
}

// Fetcher gathers one cycle of inputs from every source concurrently.
type Fetcher struct {
	client         *Client
	sor            SORSource
	workers        int
	historyWeeks   int
	timeout        time.Duration
	pollPreference []string
	now            func() time.Time
	logger         logger.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithSOR adds the SOR source.
func WithSOR(s SORSource) Option {
	return func(f *Fetcher) { f.sor = s }
}

// WithWorkers bounds concurrent fetches.
func WithWorkers(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.workers = n
		}
	}
}

// WithHistoryWeeks sets how many earlier weekly scoreboards to fetch.
func WithHistoryWeeks(n int) Option {
	return func(f *Fetcher) {
		if n >= 0 {
			f.historyWeeks = n
		}
	}
}

// WithTimeout bounds each source fetch.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithPollPreference sets the poll types to prefer, in order.
func WithPollPreference(types []string) Option {
	return func(f *Fetcher) {
		if len(types) > 0 {
			f.pollPreference = types
		}
	}
}

// WithClock replaces time.Now for history windows.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) {
		if now != nil {
			f.now = now
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFetcher creates a Fetcher over client.
func NewFetcher(client *Client, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:         client,
		workers:        defaultFetchWorkers,
		timeout:        defaultFetchTimeout,
		pollPreference: DefaultPollPreference,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = logger.Get().Named("upstream")
	}
	return f
}

type job struct {
	name  string
	kind  string
	index int
	run   func(ctx context.Context) (model.Inputs, error)
}

type result struct {
	in   model.Inputs
	err  error
	took time.Duration
	done bool
}

// Fetch runs every source through a bounded worker pool. It is fail-soft:
// a failed source contributes nothing and is marked in the Report.
// Cancelling ctx abandons in-flight requests.
func (f *Fetcher) Fetch(ctx context.Context) (model.Inputs, Report) {
	jobs := f.jobs()
	results := make([]result, len(jobs))

	q := queue.NewInMemoryQueue[job](queue.WithCapacity(len(jobs)))
	for _, j := range jobs {
		if !q.Enqueue(ctx, j) {
			results[j.index] = result{err: ErrQueueFull, done: true}
		}
	}
	_ = q.Close()

	// Each job writes only its own slot.
	pool := worker.NewPool[job](f.workers, q, func(ctx context.Context, j job) {
		results[j.index] = f.runJob(ctx, j)
	}, worker.WithName("fetch"), worker.WithLogger(f.logger))
	pool.Start(ctx)
	// Every job is bounded by the per-source timeout and by ctx.
	pool.Drain()

	var in model.Inputs
	report := Report{Sources: make([]SourceStatus, 0, len(jobs))}
	for _, j := range jobs {
		r := results[j.index]
		if !r.done {
			r.err = ErrNotRun
			if ctx.Err() != nil {
				r.err = fmt.Errorf("%w: %w", ErrNotRun, ctx.Err())
			}
		}
		status := SourceStatus{Name: j.name, Kind: j.kind, OK: r.err == nil, Took: r.took}
		if r.err != nil {
			status.Error = r.err.Error()
		} else {
			in.Rankings = append(in.Rankings, r.in.Rankings...)
			in.RecordFeeds = append(in.RecordFeeds, r.in.RecordFeeds...)
			in.SOR = append(in.SOR, r.in.SOR...)
		}
		report.Sources = append(report.Sources, status)
	}
	return in, report
}

func (f *Fetcher) runJob(ctx context.Context, j job) result {
	metrics.AddActiveFetchWorkers(1)
	defer metrics.AddActiveFetchWorkers(-1)

	jctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	in, err := j.run(jctx)
	took := time.Since(start)

	outcome := "ok"
	if err != nil {
		outcome = "error"
		metrics.RecordErrorByComponent("upstream", j.kind)
		f.logger.Warn(ctx, "source fetch failed",
			logger.String("source", j.name),
			logger.Duration("took", took),
			logger.Error(err),
		)
	} else {
		f.logger.Debug(ctx, "source fetched",
			logger.String("source", j.name),
			logger.Duration("took", took),
		)
	}
	metrics.RecordFetch(j.kind, outcome, took.Seconds())
	return result{in: in, err: err, took: took, done: true}
}

// jobs lists the sources of one cycle in merge order: rankings, the live
// scoreboard, older weeks newest first, then SOR.
func (f *Fetcher) jobs() []job {
	var jobs []job
	add := func(name, kind string, run func(ctx context.Context) (model.Inputs, error)) {
		jobs = append(jobs, job{name: name, kind: kind, index: len(jobs), run: run})
	}

	add(KindRankings, KindRankings, f.fetchRankings)
	add(KindScoreboard, KindScoreboard, func(ctx context.Context) (model.Inputs, error) {
		return f.fetchScoreboard(ctx, KindScoreboard, true, time.Time{}, time.Time{})
	})

	today := f.now().UTC().Truncate(24 * time.Hour)
	for week := 1; week <= f.historyWeeks; week++ {
		to := today.AddDate(0, 0, -daysPerWeek*(week-1)-1)
		from := to.AddDate(0, 0, -(daysPerWeek - 1))
		name := KindHistory + "-" + strconv.Itoa(week)
		add(name, KindHistory, func(ctx context.Context) (model.Inputs, error) {
			return f.fetchScoreboard(ctx, name, false, from, to)
		})
	}

	if f.sor != nil {
		add(KindSOR, KindSOR, func(ctx context.Context) (model.Inputs, error) {
			rows, err := f.sor.Lookup(ctx)
			if err != nil {
				return model.Inputs{}, fmt.Errorf("sor lookup: %w", err)
			}
			return model.Inputs{SOR: rows}, nil
		})
	}
	return jobs
}

func (f *Fetcher) fetchRankings(ctx context.Context) (model.Inputs, error) {
	resp, err := f.client.FetchRankings(ctx)
	if err != nil {
		return model.Inputs{}, fmt.Errorf("rankings: %w", err)
	}
	poll, err := SelectPoll(resp, f.pollPreference)
	if err != nil {
		return model.Inputs{}, err
	}
	return model.Inputs{Rankings: RankingEntries(poll)}, nil
}

func (f *Fetcher) fetchScoreboard(ctx context.Context, name string, authoritative bool, from, to time.Time) (model.Inputs, error) {
	resp, err := f.client.FetchScoreboard(ctx, from, to)
	if err != nil {
		return model.Inputs{}, fmt.Errorf("%s: %w", name, err)
	}
	feed := model.RecordFeed{Name: name, Authoritative: authoritative, Entries: RecordEntries(resp)}
	return model.Inputs{RecordFeeds: []model.RecordFeed{feed}}, nil
}
