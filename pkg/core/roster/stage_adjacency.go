package roster

import (
	"fmt"
	"time"

	"github.com/shiftgrid/shiftgrid/pkg/core/model"
	"github.com/shiftgrid/shiftgrid/pkg/core/solver"
)

// adjacentPatterns lists the day-to-day sequences considered uncomfortable:
// a day off butting against an early or late shift, in either order.
var adjacentPatterns = [][2]model.ShiftCategory{
	{model.Early, model.Off},
	{model.Late, model.Off},
	{model.Off, model.Early},
	{model.Off, model.Late},
}

// adjacencyStage penalizes the patterns above on consecutive calendar days.
// One indicator covers all patterns of a (staff, day pair): only one category
// holds per day, so at most one pattern can fire there anyway. Lowest default
// weight of the catalogue; pure comfort.
type adjacencyStage struct{}

func (s *adjacencyStage) Name() string { return "adjacent_pattern" }

func (s *adjacencyStage) Apply(b *Build) error {
	weight, enabled := b.req.Weights.Weight(model.CategoryAdjacentPattern)
	if !enabled || len(b.req.Dates) < 2 {
		return nil
	}

	for di := 0; di+1 < len(b.req.Dates); di++ {
		consecutive, err := consecutiveDays(b.req.Dates[di], b.req.Dates[di+1])
		if err != nil {
			return err
		}
		if !consecutive {
			continue
		}
		for si, st := range b.req.Staff {
			v := b.addViolation(model.CategoryAdjacentPattern, weight,
				fmt.Sprintf("staff %s has an off day adjacent to an early/late shift on %s/%s",
					st.ID, b.req.Dates[di], b.req.Dates[di+1]))
			for _, pattern := range adjacentPatterns {
				terms := []solver.Term{
					{Var: b.varFor(si, di, pattern[0]), Coef: 1},
					{Var: b.varFor(si, di+1, pattern[1]), Coef: 1},
				}
				b.m.AddAtMostUnless(terms, 1, v)
			}
		}
	}
	return nil
}

func consecutiveDays(a, bdate string) (bool, error) {
	ta, err := time.Parse(model.DateLayout, a)
	if err != nil {
		return false, fmt.Errorf("invalid date %q: %w", a, err)
	}
	tb, err := time.Parse(model.DateLayout, bdate)
	if err != nil {
		return false, fmt.Errorf("invalid date %q: %w", bdate, err)
	}
	return tb.Sub(ta) == 24*time.Hour, nil
}
