// Package metrics exports scene-graph and persistence counters to
// Prometheus. A Collector is a manager.Listener; subscribe it to keep the
// scene gauges current and call ObserveReport after every save or load.
package metrics

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/specialistvlad/voxview/internal/datasource"
	"github.com/specialistvlad/voxview/internal/manager"
	"github.com/specialistvlad/voxview/internal/module"
)

const namespace = "voxview"

// Operation labels for persistence metrics.
const (
	OpSave = "save"
	OpLoad = "load"
)

// TypeNamer maps a live module to its registered type name.
type TypeNamer interface {
	ModuleType(m module.Module) string
}

type Collector struct {
	registry *prometheus.Registry
	types    TypeNamer

	dataSources prometheus.Gauge
	modules     *prometheus.GaugeVec
	events      *prometheus.CounterVec
	records     *prometheus.CounterVec
	skipped     *prometheus.CounterVec
	duration    *prometheus.HistogramVec

	dataSourceCount atomic.Int64
	moduleCount     atomic.Int64
}

var _ manager.Listener = (*Collector)(nil)

// New creates a Collector with its own registry, so that several sessions
// in one process (or one test binary) never collide.
func New(types TypeNamer) *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Collector{
		registry: reg,
		types:    types,
		dataSources: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scene_data_sources",
			Help:      "Number of DataSources owned by the session.",
		}),
		modules: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scene_modules",
			Help:      "Number of Modules owned by the session, by type.",
		}, []string{"type"}),
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scene_events_total",
			Help:      "Scene graph additions and removals.",
		}, []string{"event"}),
		records: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_records_total",
			Help:      "State records written or restored, by operation and kind.",
		}, []string{"op", "kind"}),
		skipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_records_skipped_total",
			Help:      "State records dropped, by operation and kind.",
		}, []string{"op", "kind"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "state_duration_seconds",
			Help:      "Time spent saving or loading a state.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Registry exposes the underlying registry, mostly for tests.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Counts returns the number of live DataSources and Modules. Unlike the
// Manager it may be called from any goroutine.
func (c *Collector) Counts() (dataSources, modules int) {
	return int(c.dataSourceCount.Load()), int(c.moduleCount.Load())
}

func (c *Collector) DataSourceAdded(*datasource.DataSource) {
	c.dataSourceCount.Add(1)
	c.dataSources.Inc()
	c.events.WithLabelValues("data_source_added").Inc()
}

func (c *Collector) DataSourceRemoved(*datasource.DataSource) {
	c.dataSourceCount.Add(-1)
	c.dataSources.Dec()
	c.events.WithLabelValues("data_source_removed").Inc()
}

func (c *Collector) ModuleAdded(m module.Module) {
	c.moduleCount.Add(1)
	c.modules.WithLabelValues(c.typeOf(m)).Inc()
	c.events.WithLabelValues("module_added").Inc()
}

func (c *Collector) ModuleRemoved(m module.Module) {
	c.moduleCount.Add(-1)
	c.modules.WithLabelValues(c.typeOf(m)).Dec()
	c.events.WithLabelValues("module_removed").Inc()
}

func (c *Collector) typeOf(m module.Module) string {
	if name := c.types.ModuleType(m); name != "" {
		return name
	}
	return "unknown"
}

// ObserveReport records the outcome of one save or load. A nil report, as
// returned alongside a fatal error, only records the duration.
func (c *Collector) ObserveReport(op string, r *manager.Report, elapsed time.Duration) {
	c.duration.WithLabelValues(op).Observe(elapsed.Seconds())
	if r == nil {
		return
	}
	for kind, n := range r.Records {
		c.records.WithLabelValues(op, kind).Add(float64(n))
	}
	for _, s := range r.Skipped {
		c.skipped.WithLabelValues(op, s.Kind).Inc()
	}
}
