package roster

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/shiftgrid/shiftgrid/pkg/core/model"
	"github.com/shiftgrid/shiftgrid/pkg/core/solver"
)

// groupCoverageStage bounds each staff group's absence-equivalent score per
// date. A full day off removes a worker entirely while an early shift only
// thins the afternoon, so OFF counts 2 and EARLY counts 1 against the budget;
// the default budget of 2 tolerates one day off or two early shifts. Groups
// marked hard enforce the budget outright; everyone else pays a penalty.
type groupCoverageStage struct{}

func (s *groupCoverageStage) Name() string { return "group_coverage" }

func (s *groupCoverageStage) Apply(b *Build) error {
	weight, enabled := b.req.Weights.Weight(model.CategoryGroupCoverage)

	for _, g := range b.req.Groups {
		if !g.Hard && !enabled {
			continue
		}
		members := b.groupMembers(g)
		if len(members) == 0 {
			b.logger.Warn("staff group has no resolvable members, skipping",
				zap.String("group", g.Name))
			continue
		}
		budget := g.CoverageBudget
		if budget == 0 {
			budget = model.DefaultCoverageBudget
		}

		for di, date := range b.req.Dates {
			terms := make([]solver.Term, 0, 2*len(members))
			for _, si := range members {
				terms = append(terms,
					solver.Term{Var: b.varFor(si, di, model.Off), Coef: 2},
					solver.Term{Var: b.varFor(si, di, model.Early), Coef: 1},
				)
			}
			if g.Hard {
				b.m.AddLinearRange(terms, 0, budget)
				continue
			}
			v := b.addViolation(model.CategoryGroupCoverage, weight,
				fmt.Sprintf("group %s over coverage budget %d on %s", g.Name, budget, date))
			b.m.AddAtMostUnless(terms, budget, v)
		}
	}
	return nil
}
