package roster

import (
	"fmt"

	"github.com/shiftgrid/shiftgrid/pkg/core/model"
	"github.com/shiftgrid/shiftgrid/pkg/core/solver"
)

// restDayWindow and restDayMaxWork express the rest-day rule: in any window
// of 6 consecutive days a staff member works at most 5.
const (
	restDayWindow  = 6
	restDayMaxWork = 5
)

// restDayStage penalizes windows without a rest day. This category should
// carry the largest weight of all soft stages: labor compliance outranks the
// convenience rules (see model.DefaultPenaltyWeights).
type restDayStage struct{}

func (s *restDayStage) Name() string { return "rest_day" }

func (s *restDayStage) Apply(b *Build) error {
	weight, enabled := b.req.Weights.Weight(model.CategoryRestDay)
	if !enabled || len(b.req.Dates) < restDayWindow {
		return nil
	}

	for si, st := range b.req.Staff {
		for w := 0; w+restDayWindow <= len(b.req.Dates); w++ {
			terms := make([]solver.Term, 0, restDayWindow)
			for di := w; di < w+restDayWindow; di++ {
				terms = append(terms, solver.Term{Var: b.varFor(si, di, model.Work), Coef: 1})
			}
			v := b.addViolation(model.CategoryRestDay, weight,
				fmt.Sprintf("staff %s has no rest day between %s and %s",
					st.ID, b.req.Dates[w], b.req.Dates[w+restDayWindow-1]))
			b.m.AddAtMostUnless(terms, restDayMaxWork, v)
		}
	}
	return nil
}
