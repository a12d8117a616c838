// Package rmimetrics exposes Prometheus counters and gauges for the parts
// of the runtime an operator would want visibility into without reading
// logs: how many connections are open, how many calls were dispatched or
// rejected, and how large the method registry has grown. Grounded on
// runZeroInc-conniver's pkg/exporter, the pack's own prometheus/client_golang
// consumer, adapted here from a custom Collector to the more common
// promauto registration style since these are simple counters/gauges
// rather than kernel-derived per-connection samples.
package rmimetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ConnectionsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "rmi",
		Name:      "connections_accepted_total",
		Help:      "Total number of connections accepted by a server listener.",
	})

	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "rmi",
		Name:      "connections_active",
		Help:      "Number of connections currently open on a server.",
	})

	CallsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rmi",
		Name:      "calls_dispatched_total",
		Help:      "Total number of method calls dispatched, by signature.",
	}, []string{"signature"})

	CallsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rmi",
		Name:      "calls_failed_total",
		Help:      "Total number of method calls that returned an error reply, by signature.",
	}, []string{"signature"})

	RegistrySize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "rmi",
		Name:      "registry_size",
		Help:      "Number of methods currently exposed on a server's registry.",
	})

	ArchiveShortReads = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "rmi",
		Name:      "archive_short_reads_total",
		Help:      "Total number of archive reads that failed due to exhausted buffer.",
	})
)
