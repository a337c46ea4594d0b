package lookup

import (
	"fmt"
	"path/filepath"
	"sort"

	log "github.com/sirupsen/logrus"

	"beqc/adapters/tabular"
	"beqc/domain/survey"
	"beqc/internal/errors"
)

// Lookup table file names inside the lookup directory
const (
	SectorFile = "lookup_sektor_subsektor_msic.csv"
	GeoFile    = "lookup_negeri_daerah.csv"
)

// Catalog serves the cascading form hierarchies. It is loaded once at
// startup and never mutated, so concurrent readers need no locking.
type Catalog struct {
	sectors          []string
	subsBySector     map[string][]string
	msicBySectorSub  map[string][]string
	states           []string
	districtsByState map[string][]string

	msicRows int
	geoRows  int
}

// Load reads both lookup tables from dir. A missing file or a missing
// required column is an error; the forms cannot render without the
// hierarchy.
func Load(dir string) (*Catalog, error) {
	c := &Catalog{
		subsBySector:     make(map[string][]string),
		msicBySectorSub:  make(map[string][]string),
		districtsByState: make(map[string][]string),
	}

	if err := c.loadSectors(filepath.Join(dir, SectorFile)); err != nil {
		return nil, err
	}
	if err := c.loadGeo(filepath.Join(dir, GeoFile)); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"sectors":   len(c.sectors),
		"msic_rows": c.msicRows,
		"states":    len(c.states),
		"geo_rows":  c.geoRows,
	}).Info("lookup catalog loaded")

	return c, nil
}

func (c *Catalog) loadSectors(path string) error {
	table, err := tabular.NewReader(path).Read()
	if err != nil {
		return errors.Wrap(err, "failed to load sector lookup")
	}
	for _, col := range []string{survey.ColSector, survey.ColSubsector, survey.ColMSIC} {
		if !table.HasColumn(col) {
			return errors.LookupInvalid(SectorFile, fmt.Sprintf("missing column %s", col))
		}
	}

	sectorSet := map[string]struct{}{}
	subSet := map[string]map[string]struct{}{}
	msicSet := map[string]map[string]struct{}{}

	for i := range table.Rows {
		sector := table.Cell(i, survey.ColSector)
		sub := table.Cell(i, survey.ColSubsector)
		msic := table.Cell(i, survey.ColMSIC)
		if sector == "" {
			continue
		}
		c.msicRows++
		sectorSet[sector] = struct{}{}
		if sub == "" {
			continue
		}
		if subSet[sector] == nil {
			subSet[sector] = map[string]struct{}{}
		}
		subSet[sector][sub] = struct{}{}
		if msic == "" {
			continue
		}
		key := pairKey(sector, sub)
		if msicSet[key] == nil {
			msicSet[key] = map[string]struct{}{}
		}
		msicSet[key][msic] = struct{}{}
	}

	c.sectors = sortedKeys(sectorSet)
	for sector, subs := range subSet {
		c.subsBySector[sector] = sortedKeys(subs)
	}
	for key, codes := range msicSet {
		c.msicBySectorSub[key] = sortedKeys(codes)
	}
	return nil
}

func (c *Catalog) loadGeo(path string) error {
	table, err := tabular.NewReader(path).Read()
	if err != nil {
		return errors.Wrap(err, "failed to load state lookup")
	}
	for _, col := range []string{survey.ColState, survey.ColDistrict} {
		if !table.HasColumn(col) {
			return errors.LookupInvalid(GeoFile, fmt.Sprintf("missing column %s", col))
		}
	}

	stateSet := map[string]struct{}{}
	districtSet := map[string]map[string]struct{}{}

	for i := range table.Rows {
		state := table.Cell(i, survey.ColState)
		district := table.Cell(i, survey.ColDistrict)
		if state == "" {
			continue
		}
		c.geoRows++
		stateSet[state] = struct{}{}
		if district == "" {
			continue
		}
		if districtSet[state] == nil {
			districtSet[state] = map[string]struct{}{}
		}
		districtSet[state][district] = struct{}{}
	}

	c.states = sortedKeys(stateSet)
	for state, districts := range districtSet {
		c.districtsByState[state] = sortedKeys(districts)
	}
	return nil
}

// Sectors returns all distinct sectors, sorted
func (c *Catalog) Sectors() []string {
	return copyOf(c.sectors)
}

// Subsectors returns the distinct subsectors under a sector, sorted.
// Unknown sectors yield an empty slice, never an error.
func (c *Catalog) Subsectors(sector string) []string {
	return copyOf(c.subsBySector[sector])
}

// MSICCodes returns the distinct MSIC codes under a sector and subsector,
// sorted
func (c *Catalog) MSICCodes(sector, subsector string) []string {
	return copyOf(c.msicBySectorSub[pairKey(sector, subsector)])
}

// States returns all distinct states, sorted
func (c *Catalog) States() []string {
	return copyOf(c.states)
}

// Districts returns the distinct districts in a state, sorted
func (c *Catalog) Districts(state string) []string {
	return copyOf(c.districtsByState[state])
}

// Stats summarizes the catalog for the dashboard
type Stats struct {
	Sectors   int `json:"sectors"`
	MSICRows  int `json:"msic_rows"`
	States    int `json:"states"`
	Districts int `json:"districts"`
}

func (c *Catalog) Stats() Stats {
	districts := 0
	for _, d := range c.districtsByState {
		districts += len(d)
	}
	return Stats{
		Sectors:   len(c.sectors),
		MSICRows:  c.msicRows,
		States:    len(c.states),
		Districts: districts,
	}
}

func pairKey(a, b string) string {
	return a + "\x1f" + b
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func copyOf(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	return out
}
