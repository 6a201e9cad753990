package trackpoint

import (
	"errors"
	"fmt"
	"github.com/beevik/etree"
	"github.com/paulmach/orb"
	"github.com/rotblauer/ctoa/gpxdoc"
	"github.com/rotblauer/ctoa/params"
	"strconv"
	"time"
)

var ErrNoCoordinates = errors.New("track point has no coordinates")

// ElevationSource resolves the elevation of a track point element.
type ElevationSource interface {
	Current(el *etree.Element) (float64, bool)
}

// TrackPoint is a read-only snapshot of one GPX trkpt element.
// Lat and Lon keep the attribute text as written.
type TrackPoint struct {
	Lat          string    `json:"lat" yaml:"lat"`
	Lon          string    `json:"lon" yaml:"lon"`
	Elevation    float64   `json:"elevation" yaml:"elevation"`
	HasElevation bool      `json:"has_elevation" yaml:"has_elevation"`
	Time         time.Time `json:"time,omitempty" yaml:"time,omitempty"`
	Path         string    `json:"path" yaml:"path"`
}

// FromElement snapshots el. A <time> child that is not RFC3339 leaves Time zero.
func FromElement(el *etree.Element, src ElevationSource) *TrackPoint {
	tp := &TrackPoint{Path: gpxdoc.Path(el)}
	tp.Lat, _ = gpxdoc.Attr(el, params.LatitudeAttr)
	tp.Lon, _ = gpxdoc.Attr(el, params.LongitudeAttr)
	tp.Elevation, tp.HasElevation = src.Current(el)
	if t := el.SelectElement(params.TimeTag); t != nil {
		if text, ok := gpxdoc.Text(t); ok {
			tp.Time, _ = time.Parse(time.RFC3339, text)
		}
	}
	return tp
}

// Point parses the coordinates as an orb point (lon, lat).
func (tp *TrackPoint) Point() (orb.Point, error) {
	if tp.Lat == "" || tp.Lon == "" {
		return orb.Point{}, ErrNoCoordinates
	}
	lat, err := strconv.ParseFloat(tp.Lat, 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("lat: %w", err)
	}
	lon, err := strconv.ParseFloat(tp.Lon, 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("lon: %w", err)
	}
	return orb.Point{lon, lat}, nil
}

type TrackPoints []*TrackPoint

// Collect snapshots every trkpt at or below root, in document order.
func Collect(root *etree.Element, src ElevationSource) TrackPoints {
	var out TrackPoints
	if root == nil {
		return out
	}
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		if el.Tag == params.TrackPointTag {
			out = append(out, FromElement(el, src))
		}
		for _, child := range gpxdoc.Children(el) {
			walk(child)
		}
	}
	walk(root)
	return out
}

// Elevations returns the available elevations, in order.
func (tps TrackPoints) Elevations() []float64 {
	out := make([]float64, 0, len(tps))
	for _, tp := range tps {
		if tp.HasElevation {
			out = append(out, tp.Elevation)
		}
	}
	return out
}

// LineString returns the points with parseable coordinates.
func (tps TrackPoints) LineString() orb.LineString {
	ls := make(orb.LineString, 0, len(tps))
	for _, tp := range tps {
		if p, err := tp.Point(); err == nil {
			ls = append(ls, p)
		}
	}
	return ls
}
