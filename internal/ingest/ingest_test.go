package ingest_test

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"barrel/internal/fault"
	"barrel/internal/ingest"
	"barrel/internal/testsupport"
	"barrel/internal/timeseries"
)

func TestParseName(t *testing.T) {
	info, err := ingest.ParseName("/data/2015/bar_3g_l2_fspc_20150826_v05.csv")
	if err != nil {
		t.Fatalf("ParseName: %v", err)
	}
	want := ingest.FileInfo{
		Path:    "/data/2015/bar_3g_l2_fspc_20150826_v05.csv",
		Payload: "3G",
		Kind:    ingest.KindSpectra,
		Day:     "20150826",
		Version: 5,
	}
	if diff := cmp.Diff(want, info); diff != "" {
		t.Fatalf("FileInfo mismatch (-want +got):\n%s", diff)
	}

	for _, name := range []string{
		"bar_3g_l2_magn_20150826_v05.csv",
		"bar_3g_l1_fspc_20150826_v05.csv",
		"bar_3g_l2_fspc_2015082_v05.csv",
		"bar_3g_l2_fspc_20150826_v05.cdf",
	} {
		if _, err := ingest.ParseName(name); err == nil {
			t.Fatalf("expected %q to be rejected", name)
		}
	}
}

func TestParseKind(t *testing.T) {
	for input, want := range map[string]ingest.Kind{
		"ephemeris": ingest.KindEphemeris,
		"EPHM":      ingest.KindEphemeris,
		"spectra":   ingest.KindSpectra,
		" fspc ":    ingest.KindSpectra,
	} {
		got, err := ingest.ParseKind(input)
		if err != nil || got != want {
			t.Fatalf("ParseKind(%q) = %q, %v", input, got, err)
		}
	}
	if _, err := ingest.ParseKind("all"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestDiscoverKeepsFlightDatesAndNewestVersion(t *testing.T) {
	root := t.TempDir()
	e := testsupport.EphemerisExport("3G", "20150825", -60, 3)
	testsupport.WriteExport(t, filepath.Join(root, "3g"), e)
	e.Version = 3
	newest := testsupport.WriteExport(t, filepath.Join(root, "3g", "reprocessed"), e)
	testsupport.WriteExport(t, filepath.Join(root, "3f"), testsupport.EphemerisExport("3F", "20150825", -61, 3))
	testsupport.WriteExport(t, root, testsupport.EphemerisExport("3F", "20150901", -61, 3))
	testsupport.WriteExport(t, root, testsupport.SpectraExport("3F", "20150825", 0, []float64{1, 2}))
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	found, err := ingest.Discover(root, ingest.KindEphemeris, []string{"20150825", "20150826"})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected one flight day, got %v", found)
	}
	day := found["20150825"]
	if len(day) != 2 {
		t.Fatalf("expected two payloads, got %v", day)
	}
	if day["3G"].Path != newest || day["3G"].Version != 3 {
		t.Fatalf("expected newest 3G version, got %+v", day["3G"])
	}

	all, err := ingest.Discover(root, ingest.KindEphemeris, nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected every day without a filter, got %d", len(all))
	}
}

func TestLoadSpectraDropsSentinelsAndSorts(t *testing.T) {
	dir := t.TempDir()
	start := time.Date(2015, 8, 26, 0, 0, 0, 0, time.UTC)
	e := testsupport.SpectraExport("3g", "20150826", 0, []float64{5, 6, 7, 8})
	e.Times[0], e.Times[1] = e.Times[1], e.Times[0]
	e.Values[0][2] = timeseries.Sentinel
	e.Values[3][3] = math.NaN()
	path := testsupport.WriteExport(t, dir, e)

	reading, err := ingest.Load(path, ingest.KindSpectra, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if reading.Payload != "3G" || reading.Day != "20150826" || reading.Kind != ingest.KindSpectra {
		t.Fatalf("unexpected reading metadata %+v", reading)
	}
	if reading.Rows != 4 || reading.Dropped != 2 {
		t.Fatalf("expected 4 rows with 2 dropped, got %d/%d", reading.Rows, reading.Dropped)
	}
	if !reading.Table.IsSorted() {
		t.Fatal("spectra should be sorted")
	}
	wantTimes := []time.Time{start, start.Add(50 * time.Millisecond)}
	if diff := cmp.Diff(wantTimes, reading.Table.Times()); diff != "" {
		t.Fatalf("times mismatch (-want +got):\n%s", diff)
	}
	got, _ := reading.Table.Column("FSPC1a")
	if diff := cmp.Diff([]float64{6, 5}, got); diff != "" {
		t.Fatalf("FSPC1a mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(ingest.DefaultSpectraColumns, reading.Table.Columns()); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSelectsConfiguredColumns(t *testing.T) {
	path := testsupport.WriteExport(t, t.TempDir(), testsupport.EphemerisExport("3F", "20150825", -61, 5))
	reading, err := ingest.Load(path, ingest.KindEphemeris, []string{"GPS_Lon", "GPS_Lat"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff([]string{"GPS_Lon", "GPS_Lat"}, reading.Table.Columns()); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
	if reading.Table.Len() != 5 || reading.Dropped != 0 {
		t.Fatalf("unexpected rows %d dropped %d", reading.Table.Len(), reading.Dropped)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	path := testsupport.WriteExport(t, dir, testsupport.EphemerisExport("3F", "20150825", -61, 2))

	if _, err := ingest.Load(path, ingest.KindEphemeris, []string{"GPS_Alt", "B_Field"}); !errors.Is(err, fault.ErrInput) {
		t.Fatalf("expected input error for missing column, got %v", err)
	}
	if _, err := ingest.Load(path, ingest.KindSpectra, nil); !errors.Is(err, fault.ErrInput) {
		t.Fatalf("expected input error for kind mismatch, got %v", err)
	}
	bad := filepath.Join(dir, "bar_3g_l2_ephm_20150825_v01.csv")
	if err := os.WriteFile(bad, []byte("Epoch,GPS_Alt\nyesterday,1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ingest.Load(bad, ingest.KindEphemeris, []string{"GPS_Alt"}); !errors.Is(err, fault.ErrInput) {
		t.Fatalf("expected input error for bad timestamp, got %v", err)
	}
}
