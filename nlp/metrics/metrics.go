package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/oarkflow/coref/nlp/coref"
)

// Collector records pipeline activity as Prometheus metrics. It satisfies
// coref.Observer and is safe for concurrent pipelines.
type Collector struct {
	documents     prometheus.Counter
	merges        *prometheus.CounterVec
	sieveDuration *prometheus.HistogramVec
	clusters      prometheus.Histogram
	mentions      prometheus.Histogram
}

var _ coref.Observer = (*Collector)(nil)

func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		documents: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "coref_documents_total",
				Help: "Total number of resolved documents",
			}),
		merges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coref_merges_total",
				Help: "Cluster merges performed, by sieve",
			},
			[]string{"sieve"},
		),
		sieveDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coref_sieve_duration_seconds",
				Help:    "Time spent in one sieve pass",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"sieve"},
		),
		clusters: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "coref_clusters",
				Help:    "Clusters per resolved document",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			}),
		mentions: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "coref_mentions",
				Help:    "Mentions per resolved document",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			}),
	}
	for _, col := range []prometheus.Collector{c.documents, c.merges, c.sieveDuration, c.clusters, c.mentions} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collector) SieveApplied(s coref.SieveStat) {
	c.merges.WithLabelValues(s.Name).Add(float64(s.Merges))
	c.sieveDuration.WithLabelValues(s.Name).Observe(s.Duration.Seconds())
}

func (c *Collector) DocumentResolved(res *coref.Result) {
	c.documents.Inc()
	c.clusters.Observe(float64(res.Len()))
	c.mentions.Observe(float64(res.Len() + res.Merges()))
}
