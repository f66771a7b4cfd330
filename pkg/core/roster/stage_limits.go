package roster

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/shiftgrid/shiftgrid/pkg/core/model"
	"github.com/shiftgrid/shiftgrid/pkg/core/solver"
)

// dailyLimitStage bounds the total number of staff off on each date within
// the configured band. Under-staffing and over-staffing get separate
// indicators so the reporter can tell the two apart.
type dailyLimitStage struct{}

func (s *dailyLimitStage) Name() string { return "daily_limit" }

func (s *dailyLimitStage) Apply(b *Build) error {
	weight, enabled := b.req.Weights.Weight(model.CategoryDailyLimit)
	if !enabled || b.req.DailyOffLimit == nil {
		return nil
	}
	limit := *b.req.DailyOffLimit

	for di, date := range b.req.Dates {
		terms := make([]solver.Term, 0, len(b.req.Staff))
		for si := range b.req.Staff {
			terms = append(terms, solver.Term{Var: b.varFor(si, di, model.Off), Coef: 1})
		}

		over := b.addViolation(model.CategoryDailyLimit, weight,
			fmt.Sprintf("more than %d staff off on %s", limit.Max, date))
		b.m.AddAtMostUnless(terms, limit.Max, over)

		if limit.Min > 0 {
			under := b.addViolation(model.CategoryDailyLimit, weight,
				fmt.Sprintf("fewer than %d staff off on %s", limit.Min, date))
			b.m.AddAtLeastUnless(terms, limit.Min, under)
		}
	}
	return nil
}

// typeLimitStage bounds how many staff of one type may be off per date.
type typeLimitStage struct{}

func (s *typeLimitStage) Name() string { return "type_limit" }

func (s *typeLimitStage) Apply(b *Build) error {
	weight, enabled := b.req.Weights.Weight(model.CategoryTypeLimit)
	if !enabled || len(b.req.TypeOffLimits) == 0 {
		return nil
	}

	byType := make(map[string][]int)
	for si, st := range b.req.Staff {
		byType[st.Type] = append(byType[st.Type], si)
	}

	for _, limit := range b.req.TypeOffLimits {
		members := byType[limit.Type]
		if len(members) == 0 {
			b.logger.Warn("type limit matches no staff, skipping",
				zap.String("type", limit.Type))
			continue
		}
		for di, date := range b.req.Dates {
			terms := make([]solver.Term, 0, len(members))
			for _, si := range members {
				terms = append(terms, solver.Term{Var: b.varFor(si, di, model.Off), Coef: 1})
			}
			v := b.addViolation(model.CategoryTypeLimit, weight,
				fmt.Sprintf("more than %d %s staff off on %s", limit.Max, limit.Type, date))
			b.m.AddAtMostUnless(terms, limit.Max, v)
		}
	}
	return nil
}

// periodLimitStage bounds each staff member's OFF days across the whole
// horizon. The sum runs over the same shared variable set the pre-fill locks
// pinned, so locked OFF days count automatically; there is no parallel
// assigned-only tally to drift out of sync. The maximum side uses one
// indicator per unit of overage, so a roster 2 days over the cap reports 2
// violations. Pre-filled overage beyond the cap stays a paid violation, never
// infeasibility: the solver must not be cornered by the user's own locks.
type periodLimitStage struct{}

func (s *periodLimitStage) Name() string { return "period_limit" }

func (s *periodLimitStage) Apply(b *Build) error {
	weight, enabled := b.req.Weights.Weight(model.CategoryPeriodLimit)
	if !enabled || b.req.PeriodOffLimit == nil {
		return nil
	}

	for si, st := range b.req.Staff {
		band := b.req.PeriodOffLimit.Band(st.ID)

		lockedOff := 0
		for _, date := range b.req.Dates {
			if cell, ok := b.lockedAt(st.ID, date); ok && cell.category == model.Off {
				lockedOff++
			}
		}
		remaining := band.Max - lockedOff
		b.logger.Info("period off allowance",
			zap.String("staff_id", st.ID),
			zap.Int("max", band.Max),
			zap.Int("prefilled_off", lockedOff),
			zap.Int("remaining", remaining))
		if remaining < 0 {
			b.logger.Warn("pre-filled off days already exceed period maximum, overage will be reported as violations",
				zap.String("staff_id", st.ID),
				zap.Int("max", band.Max),
				zap.Int("prefilled_off", lockedOff))
		}

		terms := make([]solver.Term, 0, len(b.req.Dates))
		for di := range b.req.Dates {
			terms = append(terms, solver.Term{Var: b.varFor(si, di, model.Off), Coef: 1})
		}

		// One indicator per unit of possible overage: the k-th turns true
		// only once the off count passes max+k-1.
		for k := 1; band.Max+k <= len(b.req.Dates); k++ {
			v := b.addViolation(model.CategoryPeriodLimit, weight,
				fmt.Sprintf("staff %s over period off max %d (unit %d)", st.ID, band.Max, k))
			b.m.AddAtMostUnless(terms, band.Max+k-1, v)
		}

		if band.Min > 0 {
			v := b.addViolation(model.CategoryPeriodLimit, weight,
				fmt.Sprintf("staff %s under period off min %d", st.ID, band.Min))
			b.m.AddAtLeastUnless(terms, band.Min, v)
		}
	}
	return nil
}
