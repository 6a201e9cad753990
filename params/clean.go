package params

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig wraps every ElevationFilterConfig validation failure.
var ErrInvalidConfig = errors.New("invalid elevation filter config")

// RemovalPolicy decides which of the track points marked at one sibling
// level are actually detached once that level's loop is done.
type RemovalPolicy string

const (
	// RemoveLastMarked detaches only the last point marked at a level.
	// Earlier marks at the same level are overwritten, as the original ctoa did.
	RemoveLastMarked RemovalPolicy = "last"

	// RemoveAllMarked detaches every point marked at a level.
	RemoveAllMarked RemovalPolicy = "all"
)

// DeviationRule decides how a point's elevation is compared to its window average.
type DeviationRule string

const (
	// DeviationLegacy compares | |ele| - |avg| |.
	// Points of opposite sign near sea level can be under- or over-flagged.
	DeviationLegacy DeviationRule = "legacy"

	// DeviationPlain compares |ele - avg|.
	DeviationPlain DeviationRule = "plain"
)

type ElevationFilterConfig struct {
	// Radius is the number of neighboring track points on each side
	// that contribute to the window average. The window is 2*Radius+1 samples.
	Radius int `json:"radius" yaml:"radius"`

	// Factor is the maximum tolerated deviation from the window average.
	// A point deviating by strictly more than Factor is marked.
	Factor float64 `json:"factor" yaml:"factor"`

	// Verbose emits one diagnostic record per track point.
	Verbose bool `json:"verbose" yaml:"verbose"`

	Removal   RemovalPolicy `json:"removal" yaml:"removal"`
	Deviation DeviationRule `json:"deviation" yaml:"deviation"`

	// DryRun marks and reports points without detaching them.
	DryRun bool `json:"dry_run" yaml:"dry_run"`

	// CacheSize bounds the parsed-elevation LRU cache.
	// Zero disables the cache.
	CacheSize int `json:"cache_size" yaml:"cache_size"`
}

func DefaultElevationFilterConfig() *ElevationFilterConfig {
	return &ElevationFilterConfig{
		Radius:    8,
		Factor:    32,
		Verbose:   false,
		Removal:   RemoveLastMarked,
		Deviation: DeviationLegacy,
		DryRun:    false,
		CacheSize: 4096,
	}
}

// Validate checks the config for values the filter cannot work with.
func (c *ElevationFilterConfig) Validate() error {
	if c.Radius < 0 {
		return fmt.Errorf("%w: radius must be non-negative, got %d", ErrInvalidConfig, c.Radius)
	}
	if c.Factor < 0 || math.IsNaN(c.Factor) {
		return fmt.Errorf("%w: factor must be a non-negative number, got %v", ErrInvalidConfig, c.Factor)
	}
	switch c.Removal {
	case RemoveLastMarked, RemoveAllMarked:
	default:
		return fmt.Errorf("%w: unknown removal policy %q (want %q or %q)", ErrInvalidConfig, c.Removal, RemoveLastMarked, RemoveAllMarked)
	}
	switch c.Deviation {
	case DeviationLegacy, DeviationPlain:
	default:
		return fmt.Errorf("%w: unknown deviation rule %q (want %q or %q)", ErrInvalidConfig, c.Deviation, DeviationLegacy, DeviationPlain)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("%w: cache size must be non-negative, got %d", ErrInvalidConfig, c.CacheSize)
	}
	return nil
}

// WindowSize is the number of samples in one window average.
func (c *ElevationFilterConfig) WindowSize() int {
	return 2*c.Radius + 1
}
