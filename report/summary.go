package report

import (
	"github.com/beevik/etree"
	"github.com/mitchellh/hashstructure/v2"
	"github.com/montanaflynn/stats"
	"github.com/paulmach/orb/geo"
	"github.com/rotblauer/ctoa/common"
	"github.com/rotblauer/ctoa/types/trackpoint"
	"time"
)

// Summary describes the track points of one document.
// Elevation figures are rounded to centimeters.
type Summary struct {
	TrackPoints      int `json:"trackpoints" yaml:"trackpoints"`
	WithElevation    int `json:"with_elevation" yaml:"with_elevation"`
	MissingElevation int `json:"missing_elevation" yaml:"missing_elevation"`

	// Implausible counts elevations outside what a fix on or above
	// the Earth's surface can report (see common.PlausibleElevation).
	Implausible int `json:"implausible" yaml:"implausible"`

	Elevation ElevationStats `json:"elevation" yaml:"elevation"`

	Ascent  float64 `json:"ascent" yaml:"ascent"`
	Descent float64 `json:"descent" yaml:"descent"`

	// Distance is the great-circle path length in meters over points with
	// parseable coordinates, ignoring track and segment boundaries.
	Distance float64 `json:"distance" yaml:"distance"`

	Start    time.Time     `json:"start,omitempty" yaml:"start,omitempty"`
	End      time.Time     `json:"end,omitempty" yaml:"end,omitempty"`
	Duration time.Duration `json:"duration" yaml:"duration"`

	// Fingerprint hashes the (lat, lon, ele) sequence.
	// Equal fingerprints mean the filter changed nothing.
	Fingerprint uint64 `json:"fingerprint" yaml:"fingerprint"`
}

type ElevationStats struct {
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Median float64 `json:"median" yaml:"median"`
	StdDev float64 `json:"stddev" yaml:"stddev"`
	P95    float64 `json:"p95" yaml:"p95"`
}

const elevationPrecision = 2

type fingerprintPoint struct {
	Lat, Lon string
	Ele      float64
	Has      bool
}

// Summarize collects a Summary of every track point at or below root.
func Summarize(root *etree.Element, src trackpoint.ElevationSource) Summary {
	return SummarizePoints(trackpoint.Collect(root, src))
}

func SummarizePoints(tps trackpoint.TrackPoints) Summary {
	s := Summary{TrackPoints: len(tps)}

	eles := tps.Elevations()
	s.WithElevation = len(eles)
	s.MissingElevation = s.TrackPoints - s.WithElevation
	for _, e := range eles {
		if !common.PlausibleElevation(e) {
			s.Implausible++
		}
	}
	s.Elevation = elevationStats(eles)
	s.Ascent, s.Descent = climb(eles)

	if ls := tps.LineString(); len(ls) > 1 {
		s.Distance = common.DecimalToFixed(geo.Length(ls), 1)
	}

	for _, tp := range tps {
		if tp.Time.IsZero() {
			continue
		}
		if s.Start.IsZero() || tp.Time.Before(s.Start) {
			s.Start = tp.Time
		}
		if tp.Time.After(s.End) {
			s.End = tp.Time
		}
	}
	if !s.Start.IsZero() {
		s.Duration = s.End.Sub(s.Start)
	}

	s.Fingerprint = fingerprint(tps)
	return s
}

func elevationStats(eles []float64) ElevationStats {
	if len(eles) == 0 {
		return ElevationStats{}
	}
	statsMustFloat := func(fn func() (float64, error)) float64 {
		out, _ := fn()
		return common.DecimalToFixed(out, elevationPrecision)
	}
	data := stats.Float64Data(eles)
	return ElevationStats{
		Min:    statsMustFloat(data.Min),
		Max:    statsMustFloat(data.Max),
		Mean:   statsMustFloat(data.Mean),
		Median: statsMustFloat(data.Median),
		StdDev: statsMustFloat(data.StandardDeviation),
		P95: statsMustFloat(func() (float64, error) {
			return data.Percentile(95)
		}),
	}
}

// climb sums the positive and negative elevation changes between consecutive values.
func climb(eles []float64) (ascent, descent float64) {
	for i := 1; i < len(eles); i++ {
		d := eles[i] - eles[i-1]
		if d > 0 {
			ascent += d
		} else {
			descent -= d
		}
	}
	return common.DecimalToFixed(ascent, elevationPrecision), common.DecimalToFixed(descent, elevationPrecision)
}

func fingerprint(tps trackpoint.TrackPoints) uint64 {
	seq := make([]fingerprintPoint, len(tps))
	for i, tp := range tps {
		seq[i] = fingerprintPoint{Lat: tp.Lat, Lon: tp.Lon, Ele: tp.Elevation, Has: tp.HasElevation}
	}
	hash, err := hashstructure.Hash(seq, hashstructure.FormatV2, nil)
	if err != nil {
		return 0
	}
	return hash
}
