package params

import (
	"compress/gzip"
	"github.com/ethereum/go-ethereum/metrics"
)

func init() {
	metrics.Enabled = true
}

const (
	AppName = "ctoa"

	// EnvPrefix prefixes environment overrides for CLI flags, eg. CTOA_RADIUS.
	EnvPrefix = "CTOA"

	// ConfigFileName is looked up in the user's home directory (".ctoa.yaml").
	ConfigFileName = ".ctoa"

	// CleanedSuffix is appended to the input base name when no output path is given.
	CleanedSuffix = "_cleaned"

	GZipExt = ".gz"
)

var DefaultGZipCompressionLevel = gzip.BestCompression

// TrackPointTag and ElevationTag name the only GPX elements the filter interprets.
const (
	TrackPointTag = "trkpt"
	ElevationTag  = "ele"
	LatitudeAttr  = "lat"
	LongitudeAttr = "lon"

	// TimeTag is only read for reports.
	TimeTag = "time"
)
