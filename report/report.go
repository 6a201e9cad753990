package report

import (
	"encoding/json"
	"fmt"
	"github.com/dustin/go-humanize"
	"github.com/rotblauer/ctoa/geo/elevation"
	"github.com/rotblauer/ctoa/params"
	"gopkg.in/yaml.v3"
	"io"
	"strings"
	"time"
)

// Format names a Report rendering.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatNone Format = "none"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML, FormatNone:
		return f, nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown report format %q (want text, json, yaml or none)", s)
}

// Report describes one clean run.
type Report struct {
	Input  string `json:"input" yaml:"input"`
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	Config *params.ElevationFilterConfig `json:"config" yaml:"config"`

	Before Summary `json:"before" yaml:"before"`
	After  Summary `json:"after" yaml:"after"`

	Marked  int              `json:"marked" yaml:"marked"`
	Removed int              `json:"removed" yaml:"removed"`
	Marks   []elevation.Mark `json:"marks" yaml:"marks"`
}

// New builds a Report from the summaries taken around a filter pass.
func New(input, output string, config *params.ElevationFilterConfig, before, after Summary, res *elevation.Result) *Report {
	r := &Report{
		Input:  input,
		Output: output,
		Config: config,
		Before: before,
		After:  after,
	}
	if res != nil {
		r.Marked = res.Marked
		r.Removed = res.Removed
		r.Marks = res.Marks
	}
	return r
}

// Changed reports whether the document's (lat, lon, ele) sequence changed.
func (r *Report) Changed() bool {
	return r.Before.Fingerprint != r.After.Fingerprint
}

// Write renders r in format f. FormatNone writes nothing.
func (r *Report) Write(w io.Writer, f Format) error {
	switch f {
	case FormatText, "":
		return r.WriteText(w)
	case FormatJSON:
		return r.WriteJSON(w)
	case FormatYAML:
		return r.WriteYAML(w)
	case FormatNone:
		return nil
	}
	return fmt.Errorf("unknown report format %q", f)
}

func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func (r *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

func (r *Report) WriteText(w io.Writer) error {
	b := new(strings.Builder)
	fmt.Fprintf(b, "input:   %s\n", r.Input)
	if r.Output != "" {
		fmt.Fprintf(b, "output:  %s\n", r.Output)
	}
	if r.Config != nil {
		fmt.Fprintf(b, "filter:  radius=%d factor=%s removal=%s deviation=%s",
			r.Config.Radius, humanize.Ftoa(r.Config.Factor), r.Config.Removal, r.Config.Deviation)
		if r.Config.DryRun {
			b.WriteString(" (dry run)")
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(b, "marked:  %s\n", humanize.Comma(int64(r.Marked)))
	fmt.Fprintf(b, "removed: %s\n", humanize.Comma(int64(r.Removed)))
	b.WriteString("\n")
	writeSummaryText(b, "before", r.Before)
	writeSummaryText(b, "after", r.After)
	if len(r.Marks) > 0 {
		b.WriteString("\nmarked points:\n")
		for _, m := range r.Marks {
			state := "kept"
			if m.Removed {
				state = "removed"
			}
			fmt.Fprintf(b, "  %-7s lat=%s lon=%s ele=%s avg=%s dev=%s %s\n",
				state, m.Lat, m.Lon, humanize.Ftoa(m.Elevation),
				humanize.FtoaWithDigits(m.Average, 2), humanize.FtoaWithDigits(m.Deviation, 2), m.Path)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteSummaryText renders a single summary, as the stats command prints it.
func WriteSummaryText(w io.Writer, label string, s Summary) error {
	b := new(strings.Builder)
	writeSummaryText(b, label, s)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeSummaryText(b *strings.Builder, label string, s Summary) {
	fmt.Fprintf(b, "%s:\n", label)
	fmt.Fprintf(b, "  trackpoints:  %s (%s with elevation, %s missing, %s implausible)\n",
		humanize.Comma(int64(s.TrackPoints)), humanize.Comma(int64(s.WithElevation)),
		humanize.Comma(int64(s.MissingElevation)), humanize.Comma(int64(s.Implausible)))
	if s.WithElevation > 0 {
		e := s.Elevation
		fmt.Fprintf(b, "  elevation:    min=%s max=%s mean=%s median=%s stddev=%s p95=%s\n",
			humanize.Ftoa(e.Min), humanize.Ftoa(e.Max), humanize.Ftoa(e.Mean),
			humanize.Ftoa(e.Median), humanize.Ftoa(e.StdDev), humanize.Ftoa(e.P95))
		fmt.Fprintf(b, "  climb:        +%sm -%sm\n", humanize.Ftoa(s.Ascent), humanize.Ftoa(s.Descent))
	}
	fmt.Fprintf(b, "  distance:     %s\n", humanizeMeters(s.Distance))
	if s.Duration > 0 {
		fmt.Fprintf(b, "  duration:     %s (%s to %s)\n", s.Duration,
			s.Start.Format(time.RFC3339), s.End.Format(time.RFC3339))
	}
	fmt.Fprintf(b, "  fingerprint:  %x\n", s.Fingerprint)
}

func humanizeMeters(m float64) string {
	value, prefix := humanize.ComputeSI(m)
	return humanize.FtoaWithDigits(value, 2) + " " + prefix + "m"
}

// Stats is one file's summary, as the stats command renders it.
type Stats struct {
	File    string `json:"file" yaml:"file"`
	Summary `yaml:",inline"`
}

func (s *Stats) Write(w io.Writer, f Format) error {
	switch f {
	case FormatText, "":
		return WriteSummaryText(w, s.File, s.Summary)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	case FormatNone:
		return nil
	}
	return fmt.Errorf("unknown report format %q", f)
}
