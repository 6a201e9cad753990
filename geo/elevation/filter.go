package elevation

import (
	"github.com/beevik/etree"
	"github.com/rotblauer/ctoa/gpxdoc"
	"github.com/rotblauer/ctoa/metrics"
	"github.com/rotblauer/ctoa/params"
	"log/slog"
	"math"
)

// OutlierFilter removes track points whose elevation deviates from the
// average of a symmetric window of neighboring track points.
//
// The filter walks the whole tree depth-first, in document order.
// Removals are deferred until every node at a sibling level has been
// visited, so each window is computed against the level as it was loaded.
type OutlierFilter struct {
	Config   *params.ElevationFilterConfig
	Accessor *Accessor
	Metrics  *metrics.FilterMetrics

	logger *slog.Logger
}

// Mark records a track point found to deviate beyond the factor.
type Mark struct {
	Lat       string  `json:"lat" yaml:"lat"`
	Lon       string  `json:"lon" yaml:"lon"`
	Elevation float64 `json:"ele" yaml:"ele"`
	Average   float64 `json:"avg" yaml:"avg"`
	Deviation float64 `json:"deviation" yaml:"deviation"`
	Path      string  `json:"path" yaml:"path"`

	// Removed is false for dry runs, and for marks superseded
	// by a later mark under params.RemoveLastMarked.
	Removed bool `json:"removed" yaml:"removed"`
}

// Result summarizes one filter pass.
type Result struct {
	TrackPoints      int    `json:"trackpoints" yaml:"trackpoints"`
	MissingElevation int    `json:"missing_elevation" yaml:"missing_elevation"`
	Marked           int    `json:"marked" yaml:"marked"`
	Removed          int    `json:"removed" yaml:"removed"`
	Marks            []Mark `json:"marks" yaml:"marks"`
}

// NewOutlierFilter validates config and builds a filter.
// A nil config uses params.DefaultElevationFilterConfig; a nil logger
// logs to slog's default logger.
func NewOutlierFilter(config *params.ElevationFilterConfig, logger *slog.Logger) (*OutlierFilter, error) {
	if config == nil {
		config = params.DefaultElevationFilterConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.With("filter", "elevation")
	}
	acc, err := NewAccessor(config.CacheSize, logger)
	if err != nil {
		return nil, err
	}
	return &OutlierFilter{
		Config:   config,
		Accessor: acc,
		Metrics:  metrics.NewFilterMetrics(nil),
		logger:   logger,
	}, nil
}

// FilterDocument runs one pass over doc, mutating it in place.
func (f *OutlierFilter) FilterDocument(doc *gpxdoc.Document) *Result {
	return f.FilterElements(doc.Root())
}

// FilterElements runs one pass over the sibling level holding first,
// starting at first, and over everything below it.
func (f *OutlierFilter) FilterElements(first *etree.Element) *Result {
	res := &Result{}
	if first == nil {
		return res
	}
	level := []*etree.Element{first}
	gpxdoc.WalkSiblings(first, gpxdoc.After, func(sib *etree.Element) bool {
		level = append(level, sib)
		return true
	})
	f.FilterLevel(level, res)
	return res
}

// FilterLevel filters one level of sibling nodes and recurses into their children.
// Marks and counts are accumulated in res.
func (f *OutlierFilter) FilterLevel(nodes []*etree.Element, res *Result) {
	var marked []*etree.Element
	var marks []int // indexes into res.Marks, parallel to marked

	for _, node := range nodes {
		children := gpxdoc.Children(node)
		if !isTrackPoint(node) {
			f.FilterLevel(children, res)
			continue
		}

		res.TrackPoints++
		f.Metrics.TrackPoints.Inc(1)

		ele, ok := f.Accessor.Current(node)
		if f.Config.Verbose {
			f.logTrackPoint(node, ele, ok)
		}

		// A point without elevation is never marked.
		if !ok {
			res.MissingElevation++
			f.Metrics.Missing.Inc(1)
		} else {
			avg := f.WindowAverage(node, ele)
			dev := f.Deviation(ele, avg)
			if dev > f.Config.Factor {
				lat, _ := gpxdoc.Attr(node, params.LatitudeAttr)
				lon, _ := gpxdoc.Attr(node, params.LongitudeAttr)
				res.Marks = append(res.Marks, Mark{
					Lat:       lat,
					Lon:       lon,
					Elevation: ele,
					Average:   avg,
					Deviation: dev,
					Path:      gpxdoc.Path(node),
				})
				res.Marked++
				f.Metrics.Marked.Inc(1)
				marked = append(marked, node)
				marks = append(marks, len(res.Marks)-1)
				f.logger.Debug("Marked elevation outlier",
					"lat", lat, "lon", lon, "ele", ele, "avg", avg, "deviation", dev)
			}
		}

		f.FilterLevel(children, res)
	}

	if len(marked) == 0 || f.Config.DryRun {
		return
	}
	if f.Config.Removal == params.RemoveLastMarked {
		marked = marked[len(marked)-1:]
		marks = marks[len(marks)-1:]
	}
	for i, node := range marked {
		if err := gpxdoc.Detach(node); err != nil {
			f.logger.Error("Failed to detach track point", "path", res.Marks[marks[i]].Path, "error", err)
			continue
		}
		res.Marks[marks[i]].Removed = true
		res.Removed++
		f.Metrics.Removed.Inc(1)
	}
}

// WindowAverage averages ele with Radius track point elevations on either side of node.
// When a side runs out of neighbors (track boundary or a neighbor without
// elevation), the last available value on that side fills the remaining
// slots, falling back to ele itself. The sum therefore always has exactly
// 2*Radius+1 terms.
func (f *OutlierFilter) WindowAverage(node *etree.Element, ele float64) float64 {
	sum := ele
	sum += f.windowSide(node, gpxdoc.Before, ele)
	sum += f.windowSide(node, gpxdoc.After, ele)
	return sum / float64(f.Config.WindowSize())
}

func (f *OutlierFilter) windowSide(node *etree.Element, dir gpxdoc.Direction, ele float64) float64 {
	radius := f.Config.Radius
	values := f.Accessor.Neighbors(node, dir, radius)
	sum := 0.0
	last := ele
	for _, v := range values {
		sum += v
		last = v
	}
	if missing := radius - len(values); missing > 0 {
		sum += float64(missing) * last
	}
	return sum
}

// Deviation measures how far ele is from avg under the configured rule.
func (f *OutlierFilter) Deviation(ele, avg float64) float64 {
	if f.Config.Deviation == params.DeviationPlain {
		return math.Abs(ele - avg)
	}
	return math.Abs(math.Abs(ele) - math.Abs(avg))
}

func (f *OutlierFilter) logTrackPoint(node *etree.Element, ele float64, ok bool) {
	lat, latOK := gpxdoc.Attr(node, params.LatitudeAttr)
	lon, lonOK := gpxdoc.Attr(node, params.LongitudeAttr)
	if !latOK || !lonOK {
		return
	}
	if !ok {
		f.logger.Info("Track point", "lat", lat, "lon", lon, "ele", "missing")
		return
	}
	f.logger.Info("Track point", "lat", lat, "lon", lon, "ele", ele)
}
