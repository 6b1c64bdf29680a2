package telemetry

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Counter interface {
	Inc()
	Add(float64)
}

type Gauge interface {
	Set(float64)
	Inc()
	Dec()
}

type Histogram interface {
	Observe(float64)
}

type CounterVec interface {
	With(labels ...string) Counter
}

type NoopStat struct{}

func (NoopStat) Inc()            {}
func (NoopStat) Dec()            {}
func (NoopStat) Add(float64)     {}
func (NoopStat) Set(float64)     {}
func (NoopStat) Observe(float64) {}

type noopCounterVec struct{}

func (noopCounterVec) With(...string) Counter { return NoopStat{} }

type prometheusCounterVec struct {
	vec *prometheus.CounterVec
}

func (p *prometheusCounterVec) With(labelValues ...string) Counter {
	return p.vec.WithLabelValues(labelValues...)
}

// AckBuckets for commit acknowledgement latency (durable append + pop)
var AckBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

var (
	// RecoveryBytesTotal counts bytes handed out by ReadNext
	RecoveryBytesTotal Counter = NoopStat{}

	// RecoveryMessagesTotal counts log messages pulled into the recovery queue
	RecoveryMessagesTotal Counter = NoopStat{}

	// PushedBytesTotal counts bytes accepted by Push
	PushedBytesTotal Counter = NoopStat{}

	// CommitsTotal counts commits handed to the log writer
	CommitsTotal Counter = NoopStat{}

	// PendingCommitRequests tracks commit requests waiting for a commit
	PendingCommitRequests Gauge = NoopStat{}

	// CommitAckSeconds measures time from commit hand-off to acknowledgement
	CommitAckSeconds Histogram = NoopStat{}

	// LogAppendsTotal counts shared log appends by result (success, failed)
	LogAppendsTotal CounterVec = noopCounterVec{}
)

var (
	registry *prometheus.Registry
	initOnce sync.Once
)

// Init replaces the no-op metrics with Prometheus collectors. Safe to call
// more than once; only the first call registers.
func Init() {
	initOnce.Do(func() {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector())
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		RecoveryBytesTotal = newCounter("recovery_bytes_total", "Bytes returned by ReadNext during recovery")
		RecoveryMessagesTotal = newCounter("recovery_messages_total", "Log messages pulled into the recovery queue")
		PushedBytesTotal = newCounter("pushed_bytes_total", "Bytes accepted by Push")
		CommitsTotal = newCounter("commits_total", "Commits handed to the log writer")

		pending := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "logqueue",
			Name:      "pending_commit_requests",
			Help:      "Commit requests waiting to be paired with a commit",
		})
		registry.MustRegister(pending)
		PendingCommitRequests = pending

		ack := prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "logqueue",
			Name:      "commit_ack_seconds",
			Help:      "Latency from commit hand-off to acknowledgement",
			Buckets:   AckBuckets,
		})
		registry.MustRegister(ack)
		CommitAckSeconds = ack

		appends := prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "logqueue",
			Name:      "log_appends_total",
			Help:      "Shared log appends by result",
		}, []string{"result"})
		registry.MustRegister(appends)
		LogAppendsTotal = &prometheusCounterVec{vec: appends}

		log.Debug().Msg("Prometheus metrics registered")
	})
}

func newCounter(name, help string) Counter {
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "logqueue",
		Name:      name,
		Help:      help,
	})
	registry.MustRegister(c)
	return c
}

// Handler serves the registered metrics. Init must have been called.
func Handler() http.Handler {
	if registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
