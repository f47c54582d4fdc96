package coref

import (
	"context"
	"fmt"
	"runtime"

	"github.com/oarkflow/xid"
	"golang.org/x/sync/errgroup"
)

// Document is one independent unit of work.
type Document struct {
	ID       string     `json:"id,omitempty" yaml:"id,omitempty"`
	Mentions []*Mention `json:"mentions" yaml:"mentions"`
}

// DocumentResult pairs a document id with its partition.
type DocumentResult struct {
	ID     string
	Result *Result
}

// NewDocumentID returns a fresh, sortable document id.
func NewDocumentID() string {
	return xid.New().String()
}

// ResolveAll resolves documents in parallel, each on its own registry.
// workers <= 0 uses GOMAXPROCS. Results come back in input order; the first
// failure cancels documents that have not started yet.
func ResolveAll(ctx context.Context, p *Pipeline, docs []Document, workers int) ([]DocumentResult, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]DocumentResult, len(docs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, doc := range docs {
		id := doc.ID
		if id == "" {
			id = NewDocumentID()
		}
		mentions := doc.Mentions
		results[i].ID = id
		g.Go(func() error {
			res, err := p.Resolve(ctx, mentions)
			if err != nil {
				return fmt.Errorf("document %s: %w", id, err)
			}
			results[i].Result = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
