package collectors

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ChainStats is the read-only view of the ledger the collectors scrape.
type ChainStats interface {
	Length() int
	PendingCount() int
}

type ChainHeightCollector struct {
	stats  ChainStats
	height *prometheus.Desc
}

func NewChainHeightCollector(stats ChainStats) *ChainHeightCollector {
	return &ChainHeightCollector{
		stats: stats,
		height: prometheus.NewDesc(
			prometheus.BuildFQName("hashline", "chain", "height"),
			"Number of sealed blocks in the chain, genesis included",
			nil,
			nil,
		),
	}
}

func (c *ChainHeightCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.height
}

func (c *ChainHeightCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.height, prometheus.GaugeValue, float64(c.stats.Length()))
}

type PendingTransactionsCollector struct {
	stats   ChainStats
	pending *prometheus.Desc
}

func NewPendingTransactionsCollector(stats ChainStats) *PendingTransactionsCollector {
	return &PendingTransactionsCollector{
		stats: stats,
		pending: prometheus.NewDesc(
			prometheus.BuildFQName("hashline", "transactions", "pending_count"),
			"Transactions buffered and waiting to be mined",
			nil,
			nil,
		),
	}
}

func (c *PendingTransactionsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.pending
}

func (c *PendingTransactionsCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.pending, prometheus.GaugeValue, float64(c.stats.PendingCount()))
}
