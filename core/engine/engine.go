// Package engine drives the derivative-free search over priority-curve
// coefficients: it evaluates candidate curves against every weather scenario
// and keeps the coefficient vector with the best average revenue.
package engine

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/orbitalsys/taskopt/core/curve"
	"github.com/orbitalsys/taskopt/core/events"
	"github.com/orbitalsys/taskopt/core/logger"
	"github.com/orbitalsys/taskopt/core/model"
	"github.com/orbitalsys/taskopt/core/revenue"
	"github.com/orbitalsys/taskopt/core/schedule"
	"github.com/orbitalsys/taskopt/internal/eventbus"
)

// Engine owns one order table and optimizes curve coefficients against it.
// The table's scratch columns are mutated on every evaluation, so an Engine
// must not be shared; use Table.Clone to run cases concurrently elsewhere.
type Engine struct {
	cfg    Config
	table  *model.Table
	sched  *schedule.Scheduler
	score  curve.ScoreFunc
	method optimize.Method
	rng    *rand.Rand
	jitter *distuv.Normal
	log    logger.Logger
	bus    eventbus.EventBus
	runID  string

	totals []float64
}

// New builds an engine. The table must already carry weather columns. bus may
// be nil when no observers are attached.
func New(cfg Config, table *model.Table, sched *schedule.Scheduler, rng *rand.Rand, log logger.Logger, bus eventbus.EventBus) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if table.Scenarios() == 0 {
		return nil, fmt.Errorf("order table carries no weather scenarios")
	}
	if cfg.JitterStd > 0 && rng == nil {
		return nil, fmt.Errorf("jitter configured without a random source")
	}
	method, err := methodFor(cfg.Method)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	e := &Engine{
		cfg:    cfg,
		table:  table,
		sched:  sched,
		score:  curve.ScoreFunc{Offset: cfg.ScoreOffset},
		method: method,
		rng:    rng,
		log:    log,
		bus:    bus,
		runID:  uuid.NewString(),
		totals: make([]float64, table.Scenarios()),
	}
	if cfg.JitterStd > 0 {
		e.jitter = &distuv.Normal{Mu: 0, Sigma: cfg.JitterStd, Src: rng}
	}
	return e, nil
}

// RunID identifies this engine run in events and metrics.
func (e *Engine) RunID() string { return e.runID }

// Run optimizes every configured starting point, then reruns the best result
// as one refinement case. Skipped cases (inadmissible starting curves) appear
// in the results flagged as skipped.
func (e *Engine) Run(ctx context.Context) ([]Result, error) {
	e.publish(events.RunStarted{
		RunID:     e.runID,
		Cases:     len(e.cfg.Cases),
		Scenarios: e.table.Scenarios(),
		Method:    e.cfg.Method,
	})
	e.log.Infof("running %d weather scenarios", e.table.Scenarios())
	e.log.Infof("optimization method: %s", e.cfg.Method)

	results := make([]Result, 0, len(e.cfg.Cases)+1)
	for i, coeffs := range e.cfg.Cases {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := e.runCase(i, coeffs, false)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}

	best := bestResult(results)
	if best < 0 {
		e.log.Warnf("all starting curves were rejected; skipping refinement pass")
		return results, nil
	}

	// Refinement pass: reseed the search from the best point found.
	e.log.Infof("refinement pass from case %d (revenue %.2f)", results[best].Index, results[best].Revenue)
	res, err := e.runCase(len(e.cfg.Cases), results[best].Coefficients, true)
	if err != nil {
		return results, err
	}
	results = append(results, res)
	return results, nil
}

// Evaluate runs the cost function once per configured case without searching.
func (e *Engine) Evaluate(ctx context.Context) ([]Result, error) {
	results := make([]Result, 0, len(e.cfg.Cases))
	for i, coeffs := range e.cfg.Cases {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		start := time.Now()
		cost := e.cost(coeffs)
		results = append(results, Result{
			CaseID:       uuid.NewString(),
			Index:        i,
			Status:       StatusConverged,
			Coefficients: append([]float64(nil), coeffs...),
			Revenue:      -cost,
			Cost:         cost,
			Elapsed:      time.Since(start),
		})
	}
	return results, nil
}

func bestResult(results []Result) int {
	best := -1
	for i, r := range results {
		if r.Status == StatusSkipped {
			continue
		}
		if best < 0 || r.Cost < results[best].Cost {
			best = i
		}
	}
	return best
}

func (e *Engine) runCase(index int, coeffs []float64, refinement bool) (Result, error) {
	start := time.Now()
	caseID := uuid.NewString()
	e.publish(events.CaseStarted{RunID: e.runID, CaseID: caseID, Index: index, Coefficients: coeffs})
	e.log.Infof("case %d", index)

	c, err := curve.New(e.cfg.Basis, coeffs)
	if err != nil {
		return Result{}, fmt.Errorf("case %d: %w", index, err)
	}
	if curve.ValidityPenalty(c) > 1 {
		e.log.Warnf("case %d starting point is not within the required bounds: %v", index, coeffs)
		e.log.Debugw("rejected starting curve", map[string]any{
			"case":   index,
			"values": curve.SampleValues(c),
		})
		res := Result{
			CaseID:       caseID,
			Index:        index,
			Status:       StatusSkipped,
			Coefficients: append([]float64(nil), coeffs...),
			Elapsed:      time.Since(start),
			Refinement:   refinement,
		}
		e.completed(res)
		return res, nil
	}

	problem := optimize.Problem{Func: e.cost}
	settings := &optimize.Settings{
		MajorIterations: e.cfg.MaxIterations,
		Converger: &optimize.FunctionConverge{
			Absolute:   e.cfg.Tolerance,
			Iterations: 50,
		},
	}

	opt, err := optimize.Minimize(problem, curve.Sanitize(coeffs), settings, e.method)
	status := StatusConverged
	switch {
	case opt != nil && (opt.Status == optimize.IterationLimit || opt.Status == optimize.FunctionEvaluationLimit):
		// Budget exhaustion keeps the best point found.
		e.log.Warnf("case %d: %v; keeping best point found", index, opt.Status)
		status = StatusBudgetExhausted
	case err != nil:
		return Result{}, fmt.Errorf("optimization failed for starting point %d: %w", index, err)
	case opt == nil:
		return Result{}, fmt.Errorf("optimization failed for starting point %d: no result", index)
	case opt.Status == optimize.Failure:
		return Result{}, fmt.Errorf("optimization failed for starting point %d: %v", index, opt.Status)
	}

	res := Result{
		CaseID:       caseID,
		Index:        index,
		Status:       status,
		Coefficients: append([]float64(nil), opt.X...),
		Revenue:      -opt.F,
		Cost:         opt.F,
		Elapsed:      time.Since(start),
		Refinement:   refinement,
	}
	e.log.Infof("time elapsed for case %d: %s", index, res.Elapsed)
	e.completed(res)
	return res, nil
}

// cost is the scalar objective minimized by the search: the negated,
// penalty-scaled average revenue over all weather scenarios, plus a small
// perturbation so the search does not stall on a flat plateau.
func (e *Engine) cost(coefficients []float64) float64 {
	start := time.Now()

	c, err := curve.New(e.cfg.Basis, curve.Sanitize(coefficients))
	if err != nil {
		// Cannot happen after Validate, but keep the objective total.
		return 0
	}
	penalty := curve.ValidityPenalty(c)

	t := e.table
	for i, o := range t.Orders {
		t.Priority[i] = c.Evaluate(o.DollarPerArea)
		t.Score[i] = e.score.Score(t.Priority[i])
	}

	for s := 0; s < t.Scenarios(); s++ {
		t.ResetSchedule()
		predicted := t.Predicted[s]
		for i := range t.Orders {
			t.TotalScore[i] = t.Score[i] * (1 - predicted[i])
		}
		e.sched.Schedule(t)
		e.totals[s] = revenue.TotalDollars(t, s)
	}
	avg, err := revenue.Average(e.totals)
	if err != nil {
		return 0
	}

	cost := -(avg / penalty)
	if e.jitter != nil {
		cost += e.jitter.Rand()
	}

	elapsed := time.Since(start)
	e.log.Debugw("cost evaluation", map[string]any{
		"cost":    cost,
		"penalty": penalty,
		"elapsed": elapsed.String(),
	})
	e.publish(events.EvaluationCompleted{RunID: e.runID, Cost: cost, Penalty: penalty, Elapsed: elapsed})
	return cost
}

func (e *Engine) completed(res Result) {
	e.publish(events.CaseCompleted{
		RunID:        e.runID,
		CaseID:       res.CaseID,
		Index:        res.Index,
		Status:       res.Status,
		Revenue:      res.Revenue,
		Coefficients: res.Coefficients,
		Elapsed:      res.Elapsed,
		Refinement:   res.Refinement,
	})
}

func (e *Engine) publish(ev eventbus.Event) {
	if e.bus != nil {
		e.bus.Publish(ev)
	}
}
