package testdata

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// basepath is the root directory of this package.
var basepath string

func init() {
	_, currentFile, _, _ := runtime.Caller(0)
	basepath = filepath.Dir(currentFile)
}

// Path returns the absolute path the given relative file or directory path,
// relative to this testdata/ directory in the user's GOPATH.
// If rel is already absolute, it is returned unmodified.
// Taken from https://github.com/grpc/grpc-go/blob/master/testdata/testdata.go.
func Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}

	return filepath.Join(basepath, rel)
}

// Source_Spike is a single-segment track with one 400m elevation spike.
var Source_Spike = "./gpx/spike.gpx"

// Source_MultiSegment has two tracks, three segments, waypoints and extensions.
var Source_MultiSegment = "./gpx/multi_segment.gpx"

// NoElevation marks a TrackXML point that has children but no <ele>.
const NoElevation = "none"

// TrackXML builds a GPX document with one track and one segment,
// one point per elevation text. Points are 0.001 degrees apart.
// An elevation of NoElevation yields a point with only a <time> child.
func TrackXML(eles ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<gpx version="1.1" creator="testdata" xmlns="http://www.topografix.com/GPX/1/1">` + "\n")
	b.WriteString("\t<trk>\n\t\t<name>test</name>\n\t\t<trkseg>\n")
	for i, ele := range eles {
		fmt.Fprintf(&b, "\t\t\t<trkpt lat=\"%.3f\" lon=\"%.3f\">\n", 46.0+float64(i)/1000, 7.0+float64(i)/1000)
		if ele != NoElevation {
			fmt.Fprintf(&b, "\t\t\t\t<ele>%s</ele>\n", ele)
		}
		fmt.Fprintf(&b, "\t\t\t\t<time>2024-06-01T10:%02d:%02dZ</time>\n", (i/60)%60, i%60)
		b.WriteString("\t\t\t</trkpt>\n")
	}
	b.WriteString("\t\t</trkseg>\n\t</trk>\n</gpx>\n")
	return b.String()
}

// TrackXMLFloats is TrackXML for numeric elevations.
func TrackXMLFloats(eles ...float64) string {
	texts := make([]string, len(eles))
	for i, e := range eles {
		texts[i] = fmt.Sprintf("%g", e)
	}
	return TrackXML(texts...)
}
