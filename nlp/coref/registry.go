package coref

import (
	"fmt"
)

// Registry holds the current partition of a document's mentions. It is
// created fresh for every document and shared by all sieves of one run.
//
// owner is the only record of membership; cluster member lists are kept in
// step with it by Merge and checked by Verify.
type Registry struct {
	mentions []*Mention
	position map[*Mention]int
	byIndex  map[int]int
	owner    []int
	clusters map[int]*Cluster
}

// NewRegistry builds one singleton cluster per mention, in list order.
func NewRegistry(mentions []*Mention) (*Registry, error) {
	r := &Registry{
		mentions: make([]*Mention, len(mentions)),
		position: make(map[*Mention]int, len(mentions)),
		byIndex:  make(map[int]int, len(mentions)),
		owner:    make([]int, len(mentions)),
		clusters: make(map[int]*Cluster, len(mentions)),
	}
	for i, m := range mentions {
		if m == nil {
			return nil, fmt.Errorf("%w: position %d", ErrNilMention, i)
		}
		if prev, ok := r.byIndex[m.Index]; ok {
			return nil, fmt.Errorf("%w: index %d at positions %d and %d", ErrDuplicateMention, m.Index, prev, i)
		}
		if _, ok := r.position[m]; ok {
			return nil, fmt.Errorf("%w: %s listed twice", ErrDuplicateMention, m)
		}
		r.mentions[i] = m
		r.position[m] = i
		r.byIndex[m.Index] = i
		r.owner[i] = i
		r.clusters[i] = newCluster(i, m)
	}
	return r, nil
}

// Merge joins the clusters holding a and b and reports whether anything
// changed. The lower cluster id survives and the absorbed members are
// appended in their existing order, so Merge(a, b) and Merge(b, a) leave the
// same partition.
func (r *Registry) Merge(a, b *Mention) bool {
	ca, cb := r.owner[r.pos(a)], r.owner[r.pos(b)]
	if ca == cb {
		return false
	}
	keep, gone := ca, cb
	if gone < keep {
		keep, gone = gone, keep
	}
	survivor, absorbed := r.cluster(keep), r.cluster(gone)
	for _, m := range absorbed.members {
		r.owner[r.pos(m)] = keep
	}
	survivor.members = append(survivor.members, absorbed.members...)
	absorbed.members = nil
	delete(r.clusters, gone)
	return true
}

// ClusterOf returns the live cluster holding m.
func (r *Registry) ClusterOf(m *Mention) *Cluster {
	return r.cluster(r.owner[r.pos(m)])
}

// ClusterOfIndex looks a cluster up by Mention.Index.
func (r *Registry) ClusterOfIndex(index int) (*Cluster, bool) {
	p, ok := r.byIndex[index]
	if !ok {
		return nil, false
	}
	return r.cluster(r.owner[p]), true
}

// Coreferent reports whether a and b currently share a cluster.
func (r *Registry) Coreferent(a, b *Mention) bool {
	return r.owner[r.pos(a)] == r.owner[r.pos(b)]
}

// Clusters returns the live clusters ordered by id. Because the surviving id
// of a merge is always the lower one, a cluster's id equals the list position
// of its first member and walking positions yields id order.
func (r *Registry) Clusters() []*Cluster {
	out := make([]*Cluster, 0, len(r.clusters))
	for p := range r.mentions {
		if c, ok := r.clusters[p]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Len is the number of live clusters.
func (r *Registry) Len() int { return len(r.clusters) }

// Mentions returns the registered mentions in list order.
func (r *Registry) Mentions() []*Mention {
	out := make([]*Mention, len(r.mentions))
	copy(out, r.mentions)
	return out
}

// Verify re-derives the partition from the cluster lists and compares it with
// the membership index: every mention must sit in exactly one live cluster.
func (r *Registry) Verify() error {
	seen := make([]int, len(r.mentions))
	for i := range seen {
		seen[i] = -1
	}
	for id, c := range r.clusters {
		if c.ID != id {
			return fmt.Errorf("%w: cluster keyed %d carries id %d", ErrInvariant, id, c.ID)
		}
		if len(c.members) == 0 {
			return fmt.Errorf("%w: cluster %d is empty", ErrInvariant, id)
		}
		if first := r.position[c.members[0]]; first != id {
			return fmt.Errorf("%w: cluster %d starts at position %d", ErrInvariant, id, first)
		}
		for _, m := range c.members {
			p, ok := r.position[m]
			if !ok {
				return fmt.Errorf("%w: cluster %d holds foreign mention %s", ErrInvariant, id, m)
			}
			if seen[p] != -1 {
				return fmt.Errorf("%w: %s in clusters %d and %d", ErrInvariant, m, seen[p], id)
			}
			seen[p] = id
			if r.owner[p] != id {
				return fmt.Errorf("%w: %s indexed to %d but listed in %d", ErrInvariant, m, r.owner[p], id)
			}
		}
	}
	for p, id := range seen {
		if id == -1 {
			return fmt.Errorf("%w: %s belongs to no cluster", ErrInvariant, r.mentions[p])
		}
	}
	return nil
}

func (r *Registry) pos(m *Mention) int {
	p, ok := r.position[m]
	if !ok {
		panic(fmt.Errorf("%w: mention %s is not registered", ErrInvariant, m))
	}
	return p
}

func (r *Registry) cluster(id int) *Cluster {
	c, ok := r.clusters[id]
	if !ok {
		panic(fmt.Errorf("%w: membership points at retired cluster %d", ErrInvariant, id))
	}
	return c
}
