package roster

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/shiftgrid/shiftgrid/pkg/core/model"
	"github.com/shiftgrid/shiftgrid/pkg/core/solver"
)

// priorityStage penalizes mismatches against per-staff, per-weekday category
// preferences: a preferred category that was not assigned, or an avoided one
// that was.
type priorityStage struct{}

func (s *priorityStage) Name() string { return "preference" }

func (s *priorityStage) Apply(b *Build) error {
	weight, enabled := b.req.Weights.Weight(model.CategoryPreference)
	if !enabled || len(b.req.PriorityRules) == 0 {
		return nil
	}

	for _, rule := range b.req.PriorityRules {
		si, ok := b.staffIndex[rule.StaffID]
		if !ok {
			b.logger.Warn("priority rule references unknown staff, skipping",
				zap.String("staff_id", rule.StaffID))
			continue
		}
		day, err := rule.WeekdayValue()
		if err != nil {
			return err
		}

		for di, date := range b.req.Dates {
			weekday, err := model.Weekday(date)
			if err != nil {
				return err
			}
			if weekday != day {
				continue
			}

			if rule.Prefer != nil {
				v := b.addViolation(model.CategoryPreference, weight,
					fmt.Sprintf("staff %s prefers %s on %s", rule.StaffID, *rule.Prefer, date))
				terms := []solver.Term{{Var: b.varFor(si, di, *rule.Prefer), Coef: 1}}
				b.m.AddAtLeastUnless(terms, 1, v)
			}
			if rule.Avoid != nil {
				v := b.addViolation(model.CategoryPreference, weight,
					fmt.Sprintf("staff %s avoids %s on %s", rule.StaffID, *rule.Avoid, date))
				terms := []solver.Term{{Var: b.varFor(si, di, *rule.Avoid), Coef: 1}}
				b.m.AddAtMostUnless(terms, 0, v)
			}
		}
	}
	return nil
}
