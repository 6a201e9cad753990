package elevation

import (
	"bytes"
	"github.com/beevik/etree"
	"github.com/rotblauer/ctoa/gpxdoc"
	"github.com/rotblauer/ctoa/testing/testdata"
	"log/slog"
	"strings"
	"testing"
)

func loadPoints(t *testing.T, xml string) (*gpxdoc.Document, []*etree.Element) {
	t.Helper()
	doc, err := gpxdoc.LoadString(xml)
	if err != nil {
		t.Fatal(err)
	}
	seg := doc.FindElement("//trkseg")
	if seg == nil {
		t.Fatal("no trkseg")
	}
	return doc, gpxdoc.Children(seg)
}

func newTestAccessor(t *testing.T, cacheSize int) (*Accessor, *bytes.Buffer) {
	t.Helper()
	buf := new(bytes.Buffer)
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	acc, err := NewAccessor(cacheSize, logger)
	if err != nil {
		t.Fatal(err)
	}
	return acc, buf
}

func TestSentinelBelowEarthSurface(t *testing.T) {
	if Sentinel > -1000 {
		t.Fatalf("sentinel %v collides with plausible elevations", Sentinel)
	}
}

func TestAccessor_Current(t *testing.T) {
	cases := []struct {
		name    string
		inner   string
		wantEle float64
		wantOK  bool
	}{
		{"plain", `<ele>1234.5</ele>`, 1234.5, true},
		{"negative", `<ele>-12</ele>`, -12, true},
		{"padded", `<ele>  88 </ele>`, 88, true},
		{"unit suffix", `<ele>12.5m</ele>`, 12.5, true},
		{"garbage parses as zero", `<ele>abc</ele>`, 0, true},
		{"missing", `<time>2024-06-01T10:00:00Z</time>`, Sentinel, false},
		{"empty", `<ele></ele>`, Sentinel, false},
		{"blank", `<ele>   </ele>`, Sentinel, false},
		{"first non-empty wins", `<ele/><ele>7</ele><ele>9</ele>`, 7, true},
		{"nested ele is not a child", `<extensions><ele>5</ele></extensions>`, Sentinel, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, pts := loadPoints(t, `<gpx><trk><trkseg><trkpt lat="1" lon="2">`+c.inner+`</trkpt></trkseg></trk></gpx>`)
			acc, logs := newTestAccessor(t, 0)
			ele, ok := acc.Current(pts[0])
			if ele != c.wantEle || ok != c.wantOK {
				t.Errorf("Current = (%v, %v), want (%v, %v)", ele, ok, c.wantEle, c.wantOK)
			}
			logged := strings.Contains(logs.String(), "Track point without elevation data")
			if logged == ok {
				t.Errorf("diagnostic logged=%v for ok=%v: %s", logged, ok, logs.String())
			}
		})
	}
}

func TestAccessor_Neighbor(t *testing.T) {
	xml := `<gpx><trk><trkseg>
		<trkpt lat="0" lon="0"><ele>10</ele></trkpt>
		<trkpt lat="x" lon="x"/>
		<extensions><ele>999</ele></extensions>
		<trkpt lat="1" lon="1"><ele>20</ele></trkpt>
		<!-- comment -->
		<trkpt lat="2" lon="2"><ele>30</ele></trkpt>
		<trkpt lat="3" lon="3"><time>t</time></trkpt>
		<trkpt lat="4" lon="4"><ele>50</ele></trkpt>
	</trkseg></trk></gpx>`
	_, nodes := loadPoints(t, xml)
	// nodes: 0:trkpt(10) 1:trkpt(childless) 2:extensions 3:trkpt(20) 4:trkpt(30) 5:trkpt(no ele) 6:trkpt(50)
	acc, logs := newTestAccessor(t, 0)

	cases := []struct {
		name   string
		from   int
		offset int
		dir    gpxdoc.Direction
		want   float64
		wantOK bool
	}{
		{"self", 3, 0, gpxdoc.After, 20, true},
		{"after 1 skips childless and non-trkpt", 0, 1, gpxdoc.After, 20, true},
		{"after 2", 0, 2, gpxdoc.After, 30, true},
		{"after 3 has no elevation", 0, 3, gpxdoc.After, Sentinel, false},
		{"after 4", 0, 4, gpxdoc.After, 50, true},
		{"after 5 runs off the end", 0, 5, gpxdoc.After, Sentinel, false},
		{"before 1", 4, 1, gpxdoc.Before, 20, true},
		{"before 2", 4, 2, gpxdoc.Before, 10, true},
		{"before 3 runs off the start", 4, 3, gpxdoc.Before, Sentinel, false},
		{"negative offset walks the other way", 4, -1, gpxdoc.After, 20, true},
		{"first point has nothing before", 0, 1, gpxdoc.Before, Sentinel, false},
	}
	for _, c := range cases {
		got, ok := acc.Neighbor(nodes[c.from], c.offset, c.dir)
		if got != c.want || ok != c.wantOK {
			t.Errorf("%s: Neighbor(%d, %d, %s) = (%v, %v), want (%v, %v)", c.name, c.from, c.offset, c.dir, got, ok, c.want, c.wantOK)
		}
	}
	if logs.Len() != 0 {
		t.Errorf("non-zero offsets must not log, got: %s", logs.String())
	}
}

func TestAccessor_NeighborsMatchesNeighbor(t *testing.T) {
	_, pts := loadPoints(t, testdata.TrackXML("1", "2", "3", testdata.NoElevation, "5", "6", "7", "8"))
	for _, size := range []int{0, 2} {
		acc, _ := newTestAccessor(t, size)
		for i, pt := range pts {
			for _, dir := range []gpxdoc.Direction{gpxdoc.Before, gpxdoc.After} {
				got := acc.Neighbors(pt, dir, 4)
				var want []float64
				for off := 1; off <= 4; off++ {
					v, ok := acc.Neighbor(pt, off, dir)
					if !ok {
						break
					}
					want = append(want, v)
				}
				if len(got) != len(want) {
					t.Fatalf("cache=%d point %d %s: Neighbors=%v, Neighbor loop=%v", size, i, dir, got, want)
				}
				for k := range got {
					if got[k] != want[k] {
						t.Fatalf("cache=%d point %d %s: Neighbors=%v, Neighbor loop=%v", size, i, dir, got, want)
					}
				}
			}
		}
	}
}

func TestAccessor_NeighborsZero(t *testing.T) {
	_, pts := loadPoints(t, testdata.TrackXML("1", "2"))
	acc, _ := newTestAccessor(t, 0)
	if got := acc.Neighbors(pts[0], gpxdoc.After, 0); len(got) != 0 {
		t.Errorf("Neighbors(n=0) = %v, want empty", got)
	}
}

func TestAccessor_ReadOnly(t *testing.T) {
	doc, pts := loadPoints(t, testdata.TrackXML("1", testdata.NoElevation, "3"))
	before := doc.String()
	acc, _ := newTestAccessor(t, 16)
	for _, pt := range pts {
		acc.Current(pt)
		acc.Neighbor(pt, 1, gpxdoc.After)
		acc.Neighbors(pt, gpxdoc.Before, 3)
	}
	if doc.String() != before {
		t.Error("accessor modified the document")
	}
}
