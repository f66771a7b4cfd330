package roster

import (
	"fmt"

	"github.com/shiftgrid/shiftgrid/pkg/core/model"
	"github.com/shiftgrid/shiftgrid/pkg/core/solver"
	"github.com/shiftgrid/shiftgrid/pkg/core/symbol"
)

// extract walks every (staff, date) cell of the solved assignment, encodes it
// back to a symbol (echoing annotation pre-fills verbatim), and aggregates
// the triggered violation indicators per category in stage order.
func extract(b *Build, sol *solver.Solution) (map[string]map[string]string, []model.ViolationGroup, int, error) {
	schedule := make(map[string]map[string]string, len(b.req.Staff))
	for si, st := range b.req.Staff {
		row := make(map[string]string, len(b.req.Dates))
		for di, date := range b.req.Dates {
			cat, err := assignedCategory(b, sol, si, di)
			if err != nil {
				return nil, nil, 0, fmt.Errorf("staff %s date %s: %w", st.ID, date, err)
			}
			original := ""
			if cell, ok := b.lockedAt(st.ID, date); ok {
				original = cell.symbol
			}
			row[date] = symbol.Encode(cat, original)
		}
		schedule[st.ID] = row
	}

	var order []string
	groups := make(map[string]*model.ViolationGroup)
	totalPenalty := 0
	for _, rec := range b.violations {
		if !sol.Values[rec.Var] {
			continue
		}
		g, ok := groups[rec.Category]
		if !ok {
			g = &model.ViolationGroup{Category: rec.Category, Weight: rec.Weight}
			groups[rec.Category] = g
			order = append(order, rec.Category)
		}
		g.Count++
		g.Penalty += rec.Weight
		g.Details = append(g.Details, rec.Label)
		totalPenalty += rec.Weight
	}

	violations := make([]model.ViolationGroup, 0, len(order))
	for _, category := range order {
		violations = append(violations, *groups[category])
	}
	return schedule, violations, totalPenalty, nil
}

// assignedCategory finds the single true category variable for a cell. The
// exactly-one constraint guarantees there is exactly one in any solution the
// solver reports.
func assignedCategory(b *Build, sol *solver.Solution, si, di int) (model.ShiftCategory, error) {
	for _, cat := range model.AllCategories {
		if sol.Values[b.varFor(si, di, cat)] {
			return cat, nil
		}
	}
	return model.Work, fmt.Errorf("no category assigned")
}
