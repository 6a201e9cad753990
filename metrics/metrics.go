package metrics

import (
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/rotblauer/ctoa/params"
	"sort"
)

const (
	TrackPointsName = params.AppName + "/filter/trackpoints"
	MissingName     = params.AppName + "/filter/missing"
	MarkedName      = params.AppName + "/filter/marked"
	RemovedName     = params.AppName + "/filter/removed"
)

// FilterMetrics counts outlier filter activity across passes.
type FilterMetrics struct {
	Registry metrics.Registry

	TrackPoints metrics.Counter
	Missing     metrics.Counter
	Marked      metrics.Counter
	Removed     metrics.Counter
}

// NewFilterMetrics registers the filter counters in reg,
// or in a fresh registry if reg is nil.
// Counters already present in reg are reused.
func NewFilterMetrics(reg metrics.Registry) *FilterMetrics {
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	return &FilterMetrics{
		Registry:    reg,
		TrackPoints: metrics.GetOrRegisterCounter(TrackPointsName, reg),
		Missing:     metrics.GetOrRegisterCounter(MissingName, reg),
		Marked:      metrics.GetOrRegisterCounter(MarkedName, reg),
		Removed:     metrics.GetOrRegisterCounter(RemovedName, reg),
	}
}

// Counts returns a snapshot of every counter in the registry, by name.
func (m *FilterMetrics) Counts() map[string]int64 {
	out := make(map[string]int64)
	m.Registry.Each(func(name string, i interface{}) {
		if c, ok := i.(metrics.Counter); ok {
			out[name] = c.Snapshot().Count()
		}
	})
	return out
}

// Names returns the registered counter names, sorted.
func (m *FilterMetrics) Names() []string {
	counts := m.Counts()
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
