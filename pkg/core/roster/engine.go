// Package roster is the constraint model builder and soft-optimization
// engine: it translates staff, dates, and rule configuration into boolean
// decision variables, hard constraints, and penalized soft constraints, runs
// the solver, and interprets the assignment back into a symbol grid with a
// quantified violation report. One call, one model; nothing survives between
// invocations, so concurrent solves need no coordination.
package roster

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shiftgrid/shiftgrid/pkg/core/model"
	"github.com/shiftgrid/shiftgrid/pkg/core/solver"
)

// Solve budget defaults, used when the request leaves them unset.
const (
	DefaultTimeout = 30 * time.Second
	DefaultWorkers = 4
)

var infeasibleHints = []string{
	"remove or adjust conflicting pre-filled cells on the same dates",
	"relax must_work/must_off calendar rules that clash with pre-filled cells",
	"mark hard staff groups as soft (hard: false) so coverage becomes a penalty",
}

var noSolutionHints = []string{
	"increase timeoutSeconds: the search produced nothing within budget",
	"the instance was not proven infeasible; a longer run may still find a roster",
}

// Solve runs one complete invocation: build the model, run the catalogue
// stages in order, minimize the weighted violations, and extract the result.
// Infeasibility and an empty-handed timeout are statuses on the Result, not
// errors; errors are reserved for malformed requests.
func Solve(ctx context.Context, req *model.Request, logger *zap.Logger) (*model.Result, error) {
	start := time.Now()
	runID := uuid.New()
	logger = logger.With(zap.String("run_id", runID.String()))

	b := newBuild(req, logger)
	logger.Info("model variables created",
		zap.Int("staff", len(req.Staff)),
		zap.Int("dates", len(req.Dates)),
		zap.Int("variables", b.m.NumVars()))

	for _, stage := range catalogue() {
		before := len(b.violations)
		if err := stage.Apply(b); err != nil {
			return nil, fmt.Errorf("constraint stage %s: %w", stage.Name(), err)
		}
		logger.Debug("constraint stage applied",
			zap.String("stage", stage.Name()),
			zap.Int("soft_instances", len(b.violations)-before))
	}

	b.m.Minimize(b.objectiveTerms())

	timeout := DefaultTimeout
	if req.TimeoutSeconds > 0 {
		timeout = time.Duration(req.TimeoutSeconds * float64(time.Second))
	}
	workers := DefaultWorkers
	if req.Workers > 0 {
		workers = req.Workers
	}

	sol, err := solver.Solve(ctx, b.m, solver.Options{Timeout: timeout, Workers: workers})
	if err != nil {
		return nil, fmt.Errorf("solver: %w", err)
	}
	logger.Info("solver finished",
		zap.String("status", sol.Status.String()),
		zap.Int64("nodes", sol.Nodes),
		zap.Duration("solve_duration", sol.Duration))

	result := &model.Result{
		RunID:     runID,
		Duration:  time.Since(start),
		Overrides: b.overrides,
	}

	switch sol.Status {
	case solver.StatusInfeasible:
		result.Status = model.StatusInfeasible
		result.Hints = infeasibleHints
		logger.Warn("hard constraints cannot be jointly satisfied")
		return result, nil
	case solver.StatusUnknown:
		result.Status = model.StatusNoSolution
		result.Hints = noSolutionHints
		logger.Warn("no solution found within budget, infeasibility not proven")
		return result, nil
	}

	schedule, violations, totalPenalty, err := extract(b, sol)
	if err != nil {
		return nil, err
	}

	result.Success = true
	result.IsOptimal = sol.Status == solver.StatusOptimal
	if result.IsOptimal {
		result.Status = model.StatusOptimal
	} else {
		result.Status = model.StatusFeasible
	}
	result.Schedule = schedule
	result.Violations = violations
	result.TotalPenalty = totalPenalty
	return result, nil
}
