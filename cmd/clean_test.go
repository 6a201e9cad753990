package cmd

import (
	"bytes"
	"errors"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/rotblauer/ctoa/common"
	"github.com/rotblauer/ctoa/gpxdoc"
	ctoametrics "github.com/rotblauer/ctoa/metrics"
	"github.com/rotblauer/ctoa/params"
	"github.com/rotblauer/ctoa/testing/testdata"
	"github.com/spf13/viper"
	"os"
	"path/filepath"
	"testing"
)

func TestCleanedPath(t *testing.T) {
	cases := map[string]string{
		"ride.gpx":           "ride_cleaned.gpx",
		"dir/ride.gpx.gz":    "dir/ride_cleaned.gpx.gz",
		"ride":               "ride_cleaned",
		"dir.v1/ride":        "dir.v1/ride_cleaned",
		"a.b.gpx":            "a.b_cleaned.gpx",
		"/abs/path/trip.GPX": "/abs/path/trip_cleaned.GPX",
		"weird.gz":           "weird_cleaned.gz",
	}
	for in, want := range cases {
		if got := cleanedPath(in); got != want {
			t.Errorf("cleanedPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func copyFixture(t *testing.T, rel, name string) string {
	t.Helper()
	data, err := os.ReadFile(testdata.Path(rel))
	if err != nil {
		t.Fatal(err)
	}
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, data, 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func spikeConfig() *params.ElevationFilterConfig {
	config := params.DefaultElevationFilterConfig()
	config.Radius = 2
	config.Factor = 100
	return config
}

func TestCleanFile(t *testing.T) {
	spike := copyFixture(t, testdata.Source_Spike, "spike.gpx")
	out := cleanedPath(spike)

	registry := metrics.NewRegistry()
	r, err := cleanFile(spike, out, spikeConfig(), registry, common.DiscardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if r.Input != spike || r.Output != out || r.Removed != 1 || !r.Changed() {
		t.Errorf("report = %+v", r)
	}

	doc, err := gpxdoc.Load(filepath.Join(filepath.Dir(spike), "spike_cleaned.gpx"))
	if err != nil {
		t.Fatal(err)
	}
	if n := len(doc.FindElements("//trkpt")); n != 5 {
		t.Errorf("cleaned spike has %d points, want 5", n)
	}

	// The input is untouched.
	orig, err := gpxdoc.Load(spike)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(orig.FindElements("//trkpt")); n != 6 {
		t.Errorf("input has %d points, want 6", n)
	}

	counts := ctoametrics.NewFilterMetrics(registry).Counts()
	if counts[ctoametrics.TrackPointsName] != 6 || counts[ctoametrics.RemovedName] != 1 {
		t.Errorf("counts = %v, want 6 trackpoints and 1 removed", counts)
	}
}

func TestCleanFile_LoadFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.gpx")
	_, err := cleanFile(missing, cleanedPath(missing), spikeConfig(), metrics.NewRegistry(), common.DiscardLogger())
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want not exist", err)
	}
	if _, err := os.Stat(cleanedPath(missing)); !os.IsNotExist(err) {
		t.Errorf("output written for failed input: %v", err)
	}
}

func TestCleanFile_DryRunWritesNothing(t *testing.T) {
	spike := copyFixture(t, testdata.Source_Spike, "spike.gpx")
	config := spikeConfig()
	config.DryRun = true

	r, err := cleanFile(spike, cleanedPath(spike), config, metrics.NewRegistry(), common.DiscardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if r.Output != "" || r.Marked != 1 || r.Removed != 0 || r.Changed() {
		t.Errorf("report = %+v", r)
	}
	if _, err := os.Stat(cleanedPath(spike)); !os.IsNotExist(err) {
		t.Errorf("dry run wrote output: %v", err)
	}
}

func TestCleanFile_GzipOutput(t *testing.T) {
	spike := copyFixture(t, testdata.Source_Spike, "spike.gpx")
	out := filepath.Join(t.TempDir(), "out.gpx.gz")
	if _, err := cleanFile(spike, out, spikeConfig(), metrics.NewRegistry(), common.DiscardLogger()); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) < 2 || raw[0] != 0x1f || raw[1] != 0x8b {
		t.Error("output is not gzip")
	}
	doc, err := gpxdoc.Load(out)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(doc.FindElements("//trkpt")); n != 5 {
		t.Errorf("got %d points, want 5", n)
	}
}

func TestFilterConfigFromViper(t *testing.T) {
	defer viper.Reset()
	viper.Set("radius", 3)
	viper.Set("factor", 12.5)
	viper.Set("removal", "ALL")
	viper.Set("deviation", "plain")
	viper.Set("cache-size", 0)
	config, err := filterConfigFromViper()
	if err != nil {
		t.Fatal(err)
	}
	if config.Radius != 3 || config.Factor != 12.5 || config.Removal != params.RemoveAllMarked ||
		config.Deviation != params.DeviationPlain || config.CacheSize != 0 {
		t.Errorf("config = %+v", config)
	}

	viper.Set("removal", "some")
	if _, err := filterConfigFromViper(); !errors.Is(err, params.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestPrintTrackPoints(t *testing.T) {
	doc, err := gpxdoc.LoadString(testdata.TrackXML("100", testdata.NoElevation))
	if err != nil {
		t.Fatal(err)
	}
	buf := new(bytes.Buffer)
	if err := printTrackPoints(buf, doc.Root()); err != nil {
		t.Fatal(err)
	}
	want := "Att: lat = 46.000 \t lon = 7.000 \t ele = 100\n" +
		"Att: lat = 46.001 \t lon = 7.001 \t ele = \n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}
