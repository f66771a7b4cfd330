package roster

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/shiftgrid/shiftgrid/pkg/core/model"
	"github.com/shiftgrid/shiftgrid/pkg/core/solver"
)

// lockedCell is a pre-filled assignment after decoding: the category the
// solver must honor and the original symbol for verbatim echo in the output.
type lockedCell struct {
	category model.ShiftCategory
	symbol   string
}

// ViolationRecord links one soft-constraint instance to its indicator
// variable. Produced by the catalogue stages, consumed by the objective
// builder and the reporter.
type ViolationRecord struct {
	Category string
	Var      solver.Var
	Weight   int
	Label    string
}

// Build is the per-invocation model context. It owns the variable set, the
// decoded locks, and the violation records for exactly one solve call;
// nothing in it is shared across invocations.
type Build struct {
	req    *model.Request
	logger *zap.Logger
	m      *solver.Model

	staffIndex map[string]int
	dateIndex  map[string]int

	// vars is indexed [staff][date][category]; every (staff, date) carries
	// a hard exactly-one constraint over its four category variables.
	vars [][][]solver.Var

	locked     map[string]map[string]lockedCell
	violations []ViolationRecord
	overrides  []string
}

// newBuild creates the model context and runs the variable factory: four
// boolean variables per (staff, date) plus the exactly-one constraint. This
// happens before any catalogue stage and is never optional.
func newBuild(req *model.Request, logger *zap.Logger) *Build {
	b := &Build{
		req:        req,
		logger:     logger,
		m:          solver.NewModel(),
		staffIndex: make(map[string]int, len(req.Staff)),
		dateIndex:  make(map[string]int, len(req.Dates)),
		locked:     make(map[string]map[string]lockedCell),
	}
	for i, st := range req.Staff {
		b.staffIndex[st.ID] = i
	}
	for i, date := range req.Dates {
		b.dateIndex[date] = i
	}

	b.vars = make([][][]solver.Var, len(req.Staff))
	for si, st := range req.Staff {
		b.vars[si] = make([][]solver.Var, len(req.Dates))
		for di, date := range req.Dates {
			cells := make([]solver.Var, len(model.AllCategories))
			for _, cat := range model.AllCategories {
				cells[cat] = b.m.NewBool(fmt.Sprintf("%s/%s/%s", st.ID, date, cat))
			}
			b.vars[si][di] = cells
			b.m.AddExactlyOne(cells...)
		}
	}
	return b
}

// varFor returns the decision variable for (staff index, date index, category).
func (b *Build) varFor(si, di int, cat model.ShiftCategory) solver.Var {
	return b.vars[si][di][cat]
}

// lock records a decoded pre-filled cell and pins its variable.
func (b *Build) lock(staffID, date string, cat model.ShiftCategory, sym string) {
	si := b.staffIndex[staffID]
	di := b.dateIndex[date]
	b.m.Fix(b.varFor(si, di, cat), true)
	if b.locked[staffID] == nil {
		b.locked[staffID] = make(map[string]lockedCell)
	}
	b.locked[staffID][date] = lockedCell{category: cat, symbol: sym}
}

// lockedAt returns the pre-filled cell for (staffID, date), if any.
func (b *Build) lockedAt(staffID, date string) (lockedCell, bool) {
	cell, ok := b.locked[staffID][date]
	return cell, ok
}

// addViolation creates the indicator variable for one soft-constraint
// instance and records it for the objective builder and the reporter.
func (b *Build) addViolation(category string, weight int, label string) solver.Var {
	v := b.m.NewBool("violation/" + label)
	b.violations = append(b.violations, ViolationRecord{
		Category: category,
		Var:      v,
		Weight:   weight,
		Label:    label,
	})
	return v
}

// groupMembers resolves a group's member indices from both the group's own
// member list and staff that declare the group in their Groups field.
// Unknown member IDs are skipped with a warning.
func (b *Build) groupMembers(g model.StaffGroup) []int {
	seen := make(map[int]bool)
	var members []int
	for _, id := range g.Members {
		si, ok := b.staffIndex[id]
		if !ok {
			b.logger.Warn("group references unknown staff, skipping member",
				zap.String("group", g.Name), zap.String("staff_id", id))
			continue
		}
		if !seen[si] {
			seen[si] = true
			members = append(members, si)
		}
	}
	for si, st := range b.req.Staff {
		for _, name := range st.Groups {
			if name == g.Name && !seen[si] {
				seen[si] = true
				members = append(members, si)
			}
		}
	}
	return members
}

// objectiveTerms sums every recorded violation into the minimization target.
// With no enabled soft stage the slice is empty and the solver simply returns
// the first assignment satisfying the hard constraints.
func (b *Build) objectiveTerms() []solver.Term {
	terms := make([]solver.Term, 0, len(b.violations))
	for _, rec := range b.violations {
		terms = append(terms, solver.Term{Var: rec.Var, Coef: rec.Weight})
	}
	return terms
}
