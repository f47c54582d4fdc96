package coref

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Observer receives pipeline progress. Implementations must be safe for
// concurrent use when one pipeline serves several documents at once.
type Observer interface {
	SieveApplied(stat SieveStat)
	DocumentResolved(res *Result)
}

type Option func(*Pipeline)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func WithObserver(o Observer) Option {
	return func(p *Pipeline) { p.observer = o }
}

// WithVerify re-checks the whole partition after every sieve and panics on a
// breach.
func WithVerify(verify bool) Option {
	return func(p *Pipeline) { p.verify = verify }
}

// Pipeline runs a fixed, ordered list of sieves. It holds no per-document
// state and may resolve many documents concurrently.
type Pipeline struct {
	sieves   []Sieve
	logger   *slog.Logger
	observer Observer
	verify   bool
}

func NewPipeline(sieves []Sieve, opts ...Option) *Pipeline {
	p := &Pipeline{
		sieves: append([]Sieve(nil), sieves...),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SieveNames lists the pipeline's sieves in run order.
func (p *Pipeline) SieveNames() []string {
	names := make([]string, len(p.sieves))
	for i, s := range p.sieves {
		names[i] = s.Name()
	}
	return names
}

// Resolve partitions one document's mentions. Every sieve runs exactly once,
// in order, over the same registry. The context is checked between sieves;
// a sieve that has started always finishes.
func (p *Pipeline) Resolve(ctx context.Context, mentions []*Mention) (*Result, error) {
	start := time.Now()
	reg, err := NewRegistry(mentions)
	if err != nil {
		return nil, err
	}

	stats := make([]SieveStat, 0, len(p.sieves))
	before := reg.Len()
	for _, s := range p.sieves {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t := time.Now()
		s.Apply(reg.Mentions(), reg)
		after := reg.Len()
		if after > before {
			panic(fmt.Errorf("%w: sieve %s raised cluster count from %d to %d", ErrInvariant, s.Name(), before, after))
		}
		if p.verify {
			if err := reg.Verify(); err != nil {
				panic(fmt.Errorf("after sieve %s: %w", s.Name(), err))
			}
		}
		stat := SieveStat{
			Name:     s.Name(),
			Merges:   before - after,
			Clusters: after,
			Duration: time.Since(t),
		}
		stats = append(stats, stat)
		p.logger.Debug("sieve applied",
			slog.String("sieve", stat.Name),
			slog.Int("merges", stat.Merges),
			slog.Int("clusters", stat.Clusters),
			slog.Duration("took", stat.Duration),
		)
		if p.observer != nil {
			p.observer.SieveApplied(stat)
		}
		before = after
	}

	res := newResult(reg, stats, time.Since(start))
	if p.observer != nil {
		p.observer.DocumentResolved(res)
	}
	return res, nil
}
