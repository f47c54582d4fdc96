package coref

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleHeads = []string{"Obama", "obama", "he", "she", "it", "president", "There", "that", "Clinton", "Barack", "company", "they"}

// randomDocument builds a reproducible mention list that exercises every
// sieve.
func randomDocument(seed int64, n int) []*Mention {
	rng := rand.New(rand.NewSource(seed))
	out := make([]*Mention, n)
	sentence := 0
	for i := range out {
		head := sampleHeads[rng.Intn(len(sampleHeads))]
		typ := MentionType(rng.Intn(3))
		text := head
		if rng.Intn(3) == 0 {
			text = "Barack " + head
		}
		if rng.Intn(4) == 0 {
			sentence++
		}
		out[i] = &Mention{
			Index:    i,
			Head:     head,
			Type:     typ,
			Text:     text,
			Sentence: sentence,
			Gender:   Gender(rng.Intn(4)),
			Number:   Number(rng.Intn(3)),
			Span:     Span{Begin: i * 8, End: i*8 + len(text)},
		}
	}
	return out
}

func TestPipelinePartitionInvariant(t *testing.T) {
	p := NewPipeline(DefaultSieves(), WithVerify(true))
	for seed := int64(1); seed <= 25; seed++ {
		ms := randomDocument(seed, 40)
		res, err := p.Resolve(context.Background(), ms)
		require.NoError(t, err)

		seen := make(map[int]int)
		for _, c := range res.Clusters {
			require.NotZero(t, c.Len())
			for _, m := range c.Members() {
				seen[m.Index]++
			}
		}
		require.Len(t, seen, len(ms), "seed %d", seed)
		for idx, n := range seen {
			require.Equal(t, 1, n, "seed %d mention %d", seed, idx)
		}
	}
}

func TestPipelineMonotonic(t *testing.T) {
	ms := randomDocument(7, 60)
	res, err := NewPipeline(DefaultSieves()).Resolve(context.Background(), ms)
	require.NoError(t, err)
	require.Len(t, res.Stats, len(DefaultSieveOrder))

	prev := len(ms)
	for _, s := range res.Stats {
		assert.LessOrEqual(t, s.Clusters, prev, s.Name)
		assert.Equal(t, prev-s.Clusters, s.Merges, s.Name)
		prev = s.Clusters
	}
	assert.Equal(t, res.Len(), prev)
	assert.Equal(t, len(ms)-res.Len(), res.Merges())
}

func TestPipelineDeterministic(t *testing.T) {
	p := NewPipeline(DefaultSieves())
	first, err := p.Resolve(context.Background(), randomDocument(11, 50))
	require.NoError(t, err)
	second, err := p.Resolve(context.Background(), randomDocument(11, 50))
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprint(first.Partition()), fmt.Sprint(second.Partition()))
}

func TestPipelineEmptyInput(t *testing.T) {
	res, err := NewPipeline(DefaultSieves()).Resolve(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, res.Clusters)
	assert.Empty(t, res.Chains())
	assert.Equal(t, 0, res.Len())
}

func TestPipelineLaterSievesSeeEarlierMerges(t *testing.T) {
	ms := []*Mention{
		{Index: 0, Head: "Obama", Text: "Barack Obama", Type: Entity, Gender: GenderMale},
		{Index: 1, Head: "Barack", Text: "Barack", Type: Entity},
		{Index: 2, Head: "he", Text: "he", Type: Pronoun, Sentence: 1},
	}
	var observed [][]int
	checker := SieveFunc{ID: "checker", Fn: func(_ []*Mention, reg *Registry) {
		observed = partition(reg)
	}}
	sieves := append(DefaultSieves(), checker)
	res, err := NewPipeline(sieves).Resolve(context.Background(), ms)
	require.NoError(t, err)

	assert.Equal(t, [][]int{{0, 1, 2}}, observed)
	assert.Equal(t, [][]int{{0, 1, 2}}, res.Partition())
	assert.Equal(t, []string{"exact-string", "precise-head", "relaxed-string", "relaxed-head", "pronoun", "checker"}, NewPipeline(sieves).SieveNames())
}

func TestPipelineRunsEachSieveOnce(t *testing.T) {
	calls := map[string]int{}
	var order []string
	mk := func(name string) Sieve {
		return SieveFunc{ID: name, Fn: func([]*Mention, *Registry) {
			calls[name]++
			order = append(order, name)
		}}
	}
	p := NewPipeline([]Sieve{mk("a"), mk("b"), mk("c")})
	_, err := p.Resolve(context.Background(), entities("x", "y"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, map[string]int{"a": 1, "b": 1, "c": 1}, calls)
}

func TestPipelineStopsBetweenSievesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ran := 0
	first := SieveFunc{ID: "first", Fn: func([]*Mention, *Registry) { ran++; cancel() }}
	second := SieveFunc{ID: "second", Fn: func([]*Mention, *Registry) { ran++ }}

	_, err := NewPipeline([]Sieve{first, second}).Resolve(ctx, entities("a"))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, ran)
}

func TestPipelineRejectsMalformedDocument(t *testing.T) {
	_, err := NewPipeline(DefaultSieves()).Resolve(context.Background(), []*Mention{nil})
	assert.True(t, errors.Is(err, ErrNilMention))
}

type recordingObserver struct {
	mu        sync.Mutex
	sieves    []string
	documents int
}

func (o *recordingObserver) SieveApplied(s SieveStat) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sieves = append(o.sieves, s.Name)
}

func (o *recordingObserver) DocumentResolved(*Result) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.documents++
}

func TestPipelineObserver(t *testing.T) {
	obs := &recordingObserver{}
	p := NewPipeline(DefaultSieves(), WithObserver(obs))
	_, err := p.Resolve(context.Background(), randomDocument(3, 10))
	require.NoError(t, err)
	assert.Equal(t, DefaultSieveOrder, obs.sieves)
	assert.Equal(t, 1, obs.documents)
}

func TestResultLookups(t *testing.T) {
	ms := []*Mention{
		{Index: 10, Head: "Obama", Type: Entity},
		{Index: 11, Head: "cat", Type: Nominal},
		{Index: 12, Head: "obama", Type: Entity},
	}
	res, err := NewPipeline([]Sieve{NewRelaxedStringMatch(nil)}).Resolve(context.Background(), ms)
	require.NoError(t, err)

	c, ok := res.ClusterOf(12)
	require.True(t, ok)
	assert.Equal(t, []int{10, 12}, c.Indexes())
	assert.Same(t, ms[0], c.Representative())
	_, ok = res.ClusterOf(99)
	assert.False(t, ok)
	require.Len(t, res.Chains(), 1)
	assert.Equal(t, 0, res.Chains()[0].ID)
}

func TestBuildSieves(t *testing.T) {
	sieves, err := BuildSieves([]string{" Pronoun", "relaxed-string"}, SieveOptions{})
	require.NoError(t, err)
	require.Len(t, sieves, 2)
	assert.Equal(t, SievePronoun, sieves[0].Name())
	assert.Equal(t, SieveRelaxedString, sieves[1].Name())

	_, err = BuildSieves([]string{"exact-string", "nope"}, DefaultSieveOptions())
	assert.True(t, errors.Is(err, ErrUnknownSieve))

	_, err = BuildSieves([]string{"pronoun", "PRONOUN"}, DefaultSieveOptions())
	assert.True(t, errors.Is(err, ErrDuplicateSieve))

	all, err := BuildSieves(nil, DefaultSieveOptions())
	require.NoError(t, err)
	assert.Len(t, all, len(DefaultSieveOrder))
	assert.True(t, KnownSieve("Relaxed-Head"))
	assert.False(t, KnownSieve("fuzzy"))
	assert.Equal(t, []string{"exact-string", "precise-head", "pronoun", "relaxed-head", "relaxed-string"}, SieveNames())
}

func TestResolveAll(t *testing.T) {
	docs := []Document{
		{ID: "a", Mentions: randomDocument(1, 30)},
		{Mentions: randomDocument(2, 30)},
		{ID: "c", Mentions: nil},
	}
	p := NewPipeline(DefaultSieves())
	results, err := ResolveAll(context.Background(), p, docs, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "a", results[0].ID)
	assert.NotEmpty(t, results[1].ID)
	assert.Equal(t, "c", results[2].ID)
	assert.Equal(t, 0, results[2].Result.Len())

	want, err := p.Resolve(context.Background(), randomDocument(1, 30))
	require.NoError(t, err)
	assert.Equal(t, want.Partition(), results[0].Result.Partition())
}

func TestResolveAllReportsFailingDocument(t *testing.T) {
	docs := []Document{
		{ID: "ok", Mentions: randomDocument(1, 5)},
		{ID: "broken", Mentions: []*Mention{nil}},
	}
	_, err := ResolveAll(context.Background(), NewPipeline(DefaultSieves()), docs, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNilMention))
	assert.Contains(t, err.Error(), "broken")
}
