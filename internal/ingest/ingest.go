// Package ingest bulk-fetches matches from the upstream API into per-match files.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pable/go-ward-overlay/internal/catalog"
	"github.com/pable/go-ward-overlay/internal/matchfile"
	"github.com/pable/go-ward-overlay/internal/source"
	"github.com/pable/go-ward-overlay/internal/stratz"
)

// ErrInvalidID is recorded for ids that are not all digits.
var ErrInvalidID = errors.New("invalid match id (must be digits)")

// MatchFetcher returns the raw match object for one id. *stratz.Client satisfies it.
type MatchFetcher interface {
	FetchMatch(ctx context.Context, id string) (json.RawMessage, error)
}

// Options tunes a run. Zero values take the defaults.
type Options struct {
	Concurrency int           // parallel requests, default 4
	Attempts    int           // tries per match, default 3
	Backoff     time.Duration // delay before the second try, doubled after each failure; default 500ms
	MinDelay    time.Duration // minimum spacing between request starts across workers
	Compress    bool          // write <id>.json.zst instead of <id>.json
	Logger      *slog.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

func (o *Options) defaults() {
	if o.Concurrency <= 0 {
		o.Concurrency = 4
	}
	if o.Attempts <= 0 {
		o.Attempts = 3
	}
	if o.Backoff <= 0 {
		o.Backoff = 500 * time.Millisecond
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.sleep == nil {
		o.sleep = sleep
	}
}

// Entry is one fetched match.
type Entry struct {
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data"`
}

// Failure is one match that could not be fetched or written.
type Failure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// Report summarises a run. Matches and Errors keep the order of the input ids.
type Report struct {
	FetchedAt time.Time `json:"fetchedAt"`
	Matches   []Entry   `json:"matches"`
	Errors    []Failure `json:"errors"`
}

type outcome struct {
	data json.RawMessage
	err  error
}

// Run fetches every id with a bounded worker pool, retrying failed requests with
// exponential backoff, and writes each match to outDir as a {data:{match}} file.
// Per-match failures go to Report.Errors; only cancellation fails the run.
func Run(ctx context.Context, f MatchFetcher, ids []string, outDir string, opts Options) (*Report, error) {
	opts.defaults()
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	results := make([]outcome, len(ids))
	p := &pacer{gap: opts.MinDelay, sleep: opts.sleep}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, id := range ids {
		if !catalog.IsMatchID(id) {
			results[i] = outcome{err: ErrInvalidID}
			opts.Logger.Warn("skipping match", "match_id", id, "error", ErrInvalidID)
			continue
		}
		g.Go(func() error {
			data, err := fetchWithRetry(gctx, f, id, p, opts)
			if err == nil {
				err = writeMatch(outDir, id, data, opts.Compress)
			}
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				opts.Logger.Error("match failed", "match_id", id, "error", err)
			} else {
				opts.Logger.Info("match written", "match_id", id)
			}
			results[i] = outcome{data: data, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}

	rep := &Report{FetchedAt: time.Now().UTC(), Matches: []Entry{}, Errors: []Failure{}}
	for i, r := range results {
		if r.err != nil {
			rep.Errors = append(rep.Errors, Failure{ID: ids[i], Error: r.err.Error()})
			continue
		}
		rep.Matches = append(rep.Matches, Entry{ID: ids[i], Data: r.data})
	}
	return rep, nil
}

func fetchWithRetry(ctx context.Context, f MatchFetcher, id string, p *pacer, opts Options) (json.RawMessage, error) {
	delay := opts.Backoff
	var err error
	for attempt := 1; attempt <= opts.Attempts; attempt++ {
		if err := p.wait(ctx); err != nil {
			return nil, err
		}
		var data json.RawMessage
		data, err = f.FetchMatch(ctx, id)
		if err == nil {
			return data, nil
		}
		if permanent(err) || attempt == opts.Attempts || ctx.Err() != nil {
			break
		}
		opts.Logger.Warn("retrying match", "match_id", id, "attempt", attempt, "delay", delay, "error", err)
		if err := opts.sleep(ctx, delay); err != nil {
			return nil, err
		}
		delay *= 2
	}
	return nil, err
}

// permanent reports errors that a retry cannot fix. Only HTTP answers are
// classified; transport and decode failures are always retried.
func permanent(err error) bool {
	var gerr *stratz.GraphQLError
	if errors.Is(err, stratz.ErrNoMatch) || errors.As(err, &gerr) {
		return true
	}
	var serr *stratz.StatusError
	if errors.As(err, &serr) {
		return !serr.Temporary()
	}
	return false
}

func writeMatch(dir, id string, match json.RawMessage, compress bool) error {
	data, err := matchfile.EncodeEnvelope(match)
	if err != nil {
		return err
	}
	name := filepath.Join(dir, source.MatchFile(id))
	if compress {
		if data, err = source.Compress(data); err != nil {
			return fmt.Errorf("compress %s: %w", id, err)
		}
		name += ".zst"
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", id, err)
	}
	return nil
}

// WriteReport writes the report as indented JSON.
func WriteReport(path string, rep *Report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// pacer spaces request starts at least gap apart across all workers.
type pacer struct {
	mu    sync.Mutex
	next  time.Time
	gap   time.Duration
	sleep func(ctx context.Context, d time.Duration) error
}

func (p *pacer) wait(ctx context.Context) error {
	if p.gap <= 0 {
		return ctx.Err()
	}
	p.mu.Lock()
	now := time.Now()
	start := p.next
	if start.Before(now) {
		start = now
	}
	p.next = start.Add(p.gap)
	p.mu.Unlock()
	return p.sleep(ctx, start.Sub(now))
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
