package lookup

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const sectorCSV = `SEKTOR,SUBSEKTOR,MSIC_5D
S3-MANUFACTURING,SS31,10101
S1-MINING,SS11,08103
S1-MINING,SS11,08102
S1-MINING,SS12,09001
S1-MINING,SS11,08103
S3-MANUFACTURING,SS31,10102
,SS99,99999
S2-CONSTRUCTION,,
`

const geoCSV = `NEGERI,DAERAH
JOHOR,KLUANG
JOHOR,BATU PAHAT
SELANGOR,PETALING
JOHOR,KLUANG
SELANGOR,KLANG
`

func writeLookups(t *testing.T, sector, geo string) string {
	t.Helper()
	dir := t.TempDir()
	if sector != "" {
		if err := os.WriteFile(filepath.Join(dir, SectorFile), []byte(sector), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if geo != "" {
		if err := os.WriteFile(filepath.Join(dir, GeoFile), []byte(geo), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestCatalogQueries(t *testing.T) {
	catalog, err := Load(writeLookups(t, sectorCSV, geoCSV))
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}

	tests := []struct {
		name string
		got  []string
		want []string
	}{
		{"sectors sorted dedup", catalog.Sectors(), []string{"S1-MINING", "S2-CONSTRUCTION", "S3-MANUFACTURING"}},
		{"subsectors of S1", catalog.Subsectors("S1-MINING"), []string{"SS11", "SS12"}},
		{"subsectors of sector without subs", catalog.Subsectors("S2-CONSTRUCTION"), []string{}},
		{"subsectors of unknown sector", catalog.Subsectors("S9"), []string{}},
		{"msic dedup sorted", catalog.MSICCodes("S1-MINING", "SS11"), []string{"08102", "08103"}},
		{"msic other branch", catalog.MSICCodes("S1-MINING", "SS12"), []string{"09001"}},
		{"msic unknown pair", catalog.MSICCodes("S1-MINING", "SS31"), []string{}},
		{"states", catalog.States(), []string{"JOHOR", "SELANGOR"}},
		{"districts sorted dedup", catalog.Districts("JOHOR"), []string{"BATU PAHAT", "KLUANG"}},
		{"districts unknown state", catalog.Districts("PERAK"), []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.want) {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestCatalogSkipsEmptyKeyRows(t *testing.T) {
	catalog, err := Load(writeLookups(t, sectorCSV, geoCSV))
	if err != nil {
		t.Fatal(err)
	}
	for _, sector := range catalog.Sectors() {
		if sector == "" {
			t.Error("empty sector keys must be skipped")
		}
	}
	// the row with empty SEKTOR must not leak its subsector anywhere
	for _, sub := range catalog.Subsectors("") {
		t.Errorf("lookup by empty sector returned %q", sub)
	}
}

func TestCatalogQueriesReturnCopies(t *testing.T) {
	catalog, err := Load(writeLookups(t, sectorCSV, geoCSV))
	if err != nil {
		t.Fatal(err)
	}
	first := catalog.Sectors()
	first[0] = "MUTATED"
	if catalog.Sectors()[0] == "MUTATED" {
		t.Error("query results must be independent copies")
	}
}

func TestCatalogStats(t *testing.T) {
	catalog, err := Load(writeLookups(t, sectorCSV, geoCSV))
	if err != nil {
		t.Fatal(err)
	}
	stats := catalog.Stats()
	if stats.Sectors != 3 {
		t.Errorf("Sectors = %d, want 3", stats.Sectors)
	}
	if stats.States != 2 {
		t.Errorf("States = %d, want 2", stats.States)
	}
	if stats.Districts != 4 {
		t.Errorf("Districts = %d, want 4", stats.Districts)
	}
}

func TestCatalogMissingFile(t *testing.T) {
	if _, err := Load(writeLookups(t, sectorCSV, "")); err == nil {
		t.Fatal("missing geo lookup should fail the load")
	}
	if _, err := Load(writeLookups(t, "", geoCSV)); err == nil {
		t.Fatal("missing sector lookup should fail the load")
	}
}

func TestCatalogMissingColumn(t *testing.T) {
	badSector := "SEKTOR,SUBSEKTOR\nS1,SS11\n"
	if _, err := Load(writeLookups(t, badSector, geoCSV)); err == nil {
		t.Fatal("sector lookup without MSIC_5D column should fail")
	}

	badGeo := "NEGERI\nJOHOR\n"
	if _, err := Load(writeLookups(t, sectorCSV, badGeo)); err == nil {
		t.Fatal("geo lookup without DAERAH column should fail")
	}
}

func TestCatalogIgnoresExtraColumns(t *testing.T) {
	extra := "SEKTOR,SUBSEKTOR,MSIC_5D,NOTES\nS1,SS11,08103,ok\n"
	catalog, err := Load(writeLookups(t, extra, geoCSV))
	if err != nil {
		t.Fatalf("extra columns should be tolerated: %v", err)
	}
	if got := catalog.MSICCodes("S1", "SS11"); len(got) != 1 || got[0] != "08103" {
		t.Errorf("MSICCodes = %v, want [08103]", got)
	}
}
