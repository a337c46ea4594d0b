package predict

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"beqc/adapters/tabular"
	"beqc/domain/core"
	"beqc/domain/survey"
	"beqc/ports"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// quantilePredictor scores tables against per-target quantile model files
// found in the model directory. Targets without a model file, or whose
// feature columns are absent from the input, are left unscored.
type quantilePredictor struct {
	coverage float64
}

// NewQuantilePredictor creates the local scoring backend. Coverage sets the
// band width used when a model synthesizes bounds from its sigma.
func NewQuantilePredictor(coverage float64) ports.Predictor {
	return &quantilePredictor{coverage: coverage}
}

func (p *quantilePredictor) Mode() string { return "quantile" }

// targetScore holds one target's computed band column cells, joined into
// the result table only after every goroutine has finished.
type targetScore struct {
	target survey.Target
	cells  []bandCells
}

type bandCells struct {
	ok   bool
	band Band
}

func (p *quantilePredictor) Predict(ctx context.Context, table *tabular.Table, modelDir string) (*tabular.Table, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}

	result := table.Clone()

	var mu sync.Mutex
	var scored []targetScore

	g, ctx := errgroup.WithContext(ctx)
	for _, target := range survey.AllTargets() {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			score, err := p.scoreTarget(table, modelDir, target)
			if err != nil {
				if errors.Is(err, core.ErrModelMissing) || errors.Is(err, core.ErrColumnMissing) {
					log.WithFields(log.Fields{
						"target": target,
						"reason": err,
					}).Debug("target not scored")
					return nil
				}
				return fmt.Errorf("scoring %s: %w", target, err)
			}
			mu.Lock()
			scored = append(scored, *score)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// apply in fixed target order so column layout is deterministic
	for _, target := range survey.AllTargets() {
		for _, s := range scored {
			if s.target != target {
				continue
			}
			applyScore(result, s)
		}
	}

	return result, nil
}

func (p *quantilePredictor) scoreTarget(table *tabular.Table, modelDir string, target survey.Target) (*targetScore, error) {
	model, err := LoadModel(modelDir, target)
	if err != nil {
		return nil, err
	}

	for _, f := range model.Features {
		if !table.HasColumn(f) {
			return nil, fmt.Errorf("%w: %s", core.ErrColumnMissing, f)
		}
	}

	score := &targetScore{target: target, cells: make([]bandCells, table.NumRows())}
	for i := range table.Rows {
		values := make(survey.NumMap, len(model.Features))
		complete := true
		for _, f := range model.Features {
			v, ok := table.Float(i, f)
			if !ok {
				complete = false
				break
			}
			values[f] = v
		}
		if !complete {
			continue
		}
		score.cells[i] = bandCells{ok: true, band: model.Score(values, p.coverage)}
	}
	return score, nil
}

func applyScore(result *tabular.Table, s targetScore) {
	lowCol := string(s.target) + "_PRED_LOW"
	medCol := string(s.target) + "_PRED_MED"
	upCol := string(s.target) + "_PRED_UP"
	result.EnsureColumn(lowCol)
	result.EnsureColumn(medCol)
	result.EnsureColumn(upCol)
	for i, c := range s.cells {
		if !c.ok {
			continue
		}
		result.SetFloat(i, lowCol, round2(c.band.Low))
		result.SetFloat(i, medCol, round2(c.band.Med))
		result.SetFloat(i, upCol, round2(c.band.Up))
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
