package coref

import "time"

// SieveStat records what one sieve did to a document.
type SieveStat struct {
	Name     string        `json:"name" msgpack:"name"`
	Merges   int           `json:"merges" msgpack:"merges"`
	Clusters int           `json:"clusters" msgpack:"clusters"`
	Duration time.Duration `json:"duration_ns" msgpack:"duration_ns"`
}

// Result is the final partition of one document. Clusters are snapshots
// ordered by id and are not affected by anything that happens afterwards.
type Result struct {
	Clusters []Cluster
	Stats    []SieveStat
	Duration time.Duration

	byIndex map[int]int
}

func newResult(reg *Registry, stats []SieveStat, took time.Duration) *Result {
	live := reg.Clusters()
	res := &Result{
		Clusters: make([]Cluster, len(live)),
		Stats:    stats,
		Duration: took,
		byIndex:  make(map[int]int),
	}
	for i, c := range live {
		res.Clusters[i] = c.snapshot()
		for _, m := range c.members {
			res.byIndex[m.Index] = i
		}
	}
	return res
}

func (r *Result) Len() int { return len(r.Clusters) }

// ClusterOf finds the cluster of the mention with the given Mention.Index.
func (r *Result) ClusterOf(index int) (Cluster, bool) {
	i, ok := r.byIndex[index]
	if !ok {
		return Cluster{}, false
	}
	return r.Clusters[i], true
}

// Chains returns the clusters with more than one member.
func (r *Result) Chains() []Cluster {
	var out []Cluster
	for _, c := range r.Clusters {
		if c.Len() > 1 {
			out = append(out, c)
		}
	}
	return out
}

// Partition lists member indexes per cluster, in cluster and member order.
func (r *Result) Partition() [][]int {
	out := make([][]int, len(r.Clusters))
	for i, c := range r.Clusters {
		out[i] = c.Indexes()
	}
	return out
}

// Merges is the total number of merges across all sieves.
func (r *Result) Merges() int {
	n := 0
	for _, s := range r.Stats {
		n += s.Merges
	}
	return n
}
