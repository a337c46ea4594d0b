package testkit

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"beqc/adapters/tabular"
	"beqc/domain/survey"
)

// GeneratorConfig configures the synthetic establishment generator
type GeneratorConfig struct {
	Rows        int     `json:"rows"`
	Seed        int64   `json:"seed"`
	AnomalyRate float64 `json:"anomaly_rate"`
}

// DefaultGeneratorConfig returns sensible defaults for demo batches
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Rows:        200,
		Seed:        42,
		AnomalyRate: 0.08,
	}
}

// Generator produces synthetic establishment records whose indicators move
// together the way real survey responses do, with a controlled share of
// planted anomalies.
type Generator struct {
	config GeneratorConfig
	rng    *rand.Rand
}

// NewGenerator creates a seeded generator
func NewGenerator(config GeneratorConfig) *Generator {
	if config.Rows <= 0 {
		config.Rows = DefaultGeneratorConfig().Rows
	}
	return &Generator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// sectorPool is the synthetic MSIC hierarchy
var sectorPool = []struct {
	sector string
	subs   []struct {
		sub   string
		codes []string
	}
}{
	{"S1-MINING", []struct {
		sub   string
		codes []string
	}{
		{"SS11", []string{"08102", "08103", "08109"}},
		{"SS12", []string{"09001", "09002"}},
	}},
	{"S3-MANUFACTURING", []struct {
		sub   string
		codes []string
	}{
		{"SS31", []string{"10101", "10102", "10711"}},
		{"SS32", []string{"13910", "14101"}},
		{"SS33", []string{"22201", "25111"}},
	}},
	{"S5-SERVICES", []struct {
		sub   string
		codes []string
	}{
		{"SS51", []string{"49110", "52101"}},
		{"SS52", []string{"56103", "55101"}},
	}},
}

// geoPool is the synthetic state and district hierarchy
var geoPool = []struct {
	state     string
	districts []string
}{
	{"JOHOR", []string{"JOHOR BAHRU", "KLUANG", "BATU PAHAT"}},
	{"SELANGOR", []string{"PETALING", "KLANG", "HULU LANGAT"}},
	{"PERAK", []string{"KINTA", "LARUT MATANG"}},
	{"PULAU PINANG", []string{"TIMUR LAUT", "SEBERANG PERAI TENGAH"}},
	{"SARAWAK", []string{"KUCHING", "MIRI"}},
}

func (g *Generator) sample(dist distuv.LogNormal) float64 {
	// inverse transform keeps sampling deterministic under our own seed
	u := g.rng.Float64()
	if u <= 0 {
		u = math.SmallestNonzeroFloat64
	}
	return dist.Quantile(u)
}

// Record generates one valid single-mode record for a target
func (g *Generator) Record(target survey.Target) survey.Record {
	row := g.numericRow()
	values := make(survey.NumMap)
	for _, f := range target.Features() {
		values[f] = row[f]
	}

	sector := sectorPool[g.rng.Intn(len(sectorPool))]
	sub := sector.subs[g.rng.Intn(len(sector.subs))]
	geo := geoPool[g.rng.Intn(len(geoPool))]

	return survey.Record{
		Sector:    sector.sector,
		Subsector: sub.sub,
		MSIC:      sub.codes[g.rng.Intn(len(sub.codes))],
		State:     geo.state,
		District:  geo.districts[g.rng.Intn(len(geo.districts))],
		Target:    target,
		Values:    values,
	}
}

// Table generates a batch with the full column set, anomalies included
func (g *Generator) Table() *tabular.Table {
	columns := append(survey.CategoricalColumns(),
		string(survey.TargetOutput),
		string(survey.TargetInput),
		string(survey.TargetValueAdded),
		string(survey.TargetWages),
		survey.ColFixedAssets,
		string(survey.TargetEmployees),
	)
	table := tabular.NewTable(columns...)

	for i := 0; i < g.config.Rows; i++ {
		sector := sectorPool[g.rng.Intn(len(sectorPool))]
		sub := sector.subs[g.rng.Intn(len(sector.subs))]
		geo := geoPool[g.rng.Intn(len(geoPool))]
		nums := g.numericRow()

		if g.rng.Float64() < g.config.AnomalyRate {
			g.plantAnomaly(nums)
		}

		row := tabular.Row{
			survey.ColSector:    sector.sector,
			survey.ColSubsector: sub.sub,
			survey.ColMSIC:      sub.codes[g.rng.Intn(len(sub.codes))],
			survey.ColState:     geo.state,
			survey.ColDistrict:  geo.districts[g.rng.Intn(len(geo.districts))],
		}
		for col, v := range nums {
			row[col] = survey.FormatValue(col, math.Round(v*100)/100)
		}
		table.AppendRow(row)
	}
	return table
}

// numericRow draws one coherent set of indicators
func (g *Generator) numericRow() survey.NumMap {
	employees := math.Max(1, math.Round(g.sample(distuv.LogNormal{Mu: 3.0, Sigma: 0.9})))
	wagePerHead := g.sample(distuv.LogNormal{Mu: 10.3, Sigma: 0.25})
	wages := math.Round(employees * wagePerHead)
	assets := math.Round(g.sample(distuv.LogNormal{Mu: 12.0, Sigma: 1.0}))

	output := math.Round((wages*2.2 + assets*0.4) * g.sample(distuv.LogNormal{Mu: 0, Sigma: 0.3}))
	inputShare := 0.45 + 0.2*g.rng.Float64()
	input := math.Round(output * inputShare)
	valueAdded := output - input

	return survey.NumMap{
		string(survey.TargetEmployees):  employees,
		string(survey.TargetWages):      wages,
		survey.ColFixedAssets:           assets,
		string(survey.TargetOutput):     output,
		string(survey.TargetInput):      input,
		string(survey.TargetValueAdded): valueAdded,
	}
}

// plantAnomaly distorts one indicator far outside its plausible band
func (g *Generator) plantAnomaly(nums survey.NumMap) {
	targets := []string{
		string(survey.TargetOutput),
		string(survey.TargetInput),
		string(survey.TargetValueAdded),
		string(survey.TargetWages),
		string(survey.TargetEmployees),
	}
	col := targets[g.rng.Intn(len(targets))]
	factor := 8.0
	if g.rng.Float64() < 0.5 {
		factor = 0.1
	}
	v := nums[col] * factor
	if col == string(survey.TargetEmployees) {
		v = math.Max(1, math.Round(v))
	}
	nums[col] = v
}
