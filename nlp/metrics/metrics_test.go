package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oarkflow/coref/nlp/coref"
)

func TestCollectorObservesPipeline(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	require.NoError(t, err)

	ms := []*coref.Mention{
		{Index: 0, Head: "Obama", Type: coref.Entity},
		{Index: 1, Head: "cat", Type: coref.Nominal},
		{Index: 2, Head: "obama", Type: coref.Entity},
	}
	p := coref.NewPipeline(coref.DefaultSieves(), coref.WithObserver(c))
	for i := 0; i < 2; i++ {
		_, err := p.Resolve(context.Background(), ms)
		require.NoError(t, err)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(c.documents))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.merges.WithLabelValues(coref.SieveRelaxedString)))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.merges.WithLabelValues(coref.SievePronoun)))
	assert.Equal(t, len(coref.DefaultSieveOrder), testutil.CollectAndCount(c.sieveDuration))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Subset(t, names, []string{"coref_documents_total", "coref_merges_total", "coref_sieve_duration_seconds", "coref_clusters", "coref_mentions"})
}

func TestNewRejectsDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)
	_, err = New(reg)
	assert.Error(t, err)
}
