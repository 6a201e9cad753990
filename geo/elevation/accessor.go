package elevation

import (
	"github.com/beevik/etree"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rotblauer/ctoa/common"
	"github.com/rotblauer/ctoa/gpxdoc"
	"github.com/rotblauer/ctoa/params"
	"log/slog"
)

// Sentinel stands in for an elevation that is not available at some position.
// It is far below any elevation a GPS fix on the Earth's surface can report.
const Sentinel = -8000.0

type reading struct {
	ele float64
	ok  bool
}

// Accessor resolves track point elevations, for a point itself
// or for a sibling track point at some offset from it.
// Accessor never modifies the tree.
type Accessor struct {
	cache  *lru.Cache[*etree.Element, reading]
	logger *slog.Logger
}

// NewAccessor returns an Accessor memoizing up to cacheSize parsed elevations.
// A zero cacheSize disables the cache. A nil logger discards diagnostics.
func NewAccessor(cacheSize int, logger *slog.Logger) (*Accessor, error) {
	if logger == nil {
		logger = common.DiscardLogger()
	}
	a := &Accessor{logger: logger}
	if cacheSize > 0 {
		c, err := lru.New[*etree.Element, reading](cacheSize)
		if err != nil {
			return nil, err
		}
		a.cache = c
	}
	return a, nil
}

// Current returns the elevation of track point el.
// It is read from the first "ele" child with non-blank text, parsed leniently
// (see common.ParseLeadingFloat), so malformed text yields 0 rather than an error.
// Without such a child Current logs a diagnostic and returns (Sentinel, false).
func (a *Accessor) Current(el *etree.Element) (float64, bool) {
	ele, ok := a.lookup(el)
	if !ok {
		lat, _ := gpxdoc.Attr(el, params.LatitudeAttr)
		lon, _ := gpxdoc.Attr(el, params.LongitudeAttr)
		a.logger.Warn("Track point without elevation data", "lat", lat, "lon", lon)
	}
	return ele, ok
}

// Neighbor returns the elevation of the offset-th track point from el,
// walking siblings in direction dir. A negative offset walks the other way.
// Only siblings tagged trkpt with at least one child are counted.
// Offset 0 is Current(el). When the walk runs off the end of the siblings,
// or the point reached has no elevation, Neighbor returns (Sentinel, false)
// without logging.
func (a *Accessor) Neighbor(el *etree.Element, offset int, dir gpxdoc.Direction) (float64, bool) {
	if offset == 0 {
		return a.Current(el)
	}
	if offset < 0 {
		offset, dir = -offset, -dir
	}
	var target *etree.Element
	n := 0
	gpxdoc.WalkSiblings(el, dir, func(sib *etree.Element) bool {
		if !countsAsTrackPoint(sib) {
			return true
		}
		n++
		if n == offset {
			target = sib
			return false
		}
		return true
	})
	if target == nil {
		return Sentinel, false
	}
	return a.lookup(target)
}

// Neighbors returns the elevations at offsets 1..n from el in direction dir,
// stopping early at the first offset where Neighbor would be unavailable.
// It costs a single sibling walk instead of one walk per offset.
func (a *Accessor) Neighbors(el *etree.Element, dir gpxdoc.Direction, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, 0, n)
	gpxdoc.WalkSiblings(el, dir, func(sib *etree.Element) bool {
		if !countsAsTrackPoint(sib) {
			return true
		}
		ele, ok := a.lookup(sib)
		if !ok {
			return false
		}
		out = append(out, ele)
		return len(out) < n
	})
	return out
}

func (a *Accessor) lookup(el *etree.Element) (float64, bool) {
	if a.cache != nil {
		if r, ok := a.cache.Get(el); ok {
			return r.ele, r.ok
		}
	}
	r := read(el)
	if a.cache != nil {
		a.cache.Add(el, r)
	}
	return r.ele, r.ok
}

func read(el *etree.Element) reading {
	for _, child := range gpxdoc.Children(el) {
		if gpxdoc.Tag(child) != params.ElevationTag {
			continue
		}
		text, ok := gpxdoc.Text(child)
		if !ok {
			continue
		}
		return reading{ele: common.ParseLeadingFloat(text), ok: true}
	}
	return reading{ele: Sentinel, ok: false}
}

func isTrackPoint(el *etree.Element) bool {
	return gpxdoc.Tag(el) == params.TrackPointTag
}

// countsAsTrackPoint is the neighbor-walk notion of a track point:
// childless trkpt elements are passed over.
func countsAsTrackPoint(el *etree.Element) bool {
	return isTrackPoint(el) && gpxdoc.HasChildren(el)
}
