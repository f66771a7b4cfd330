// Package solver provides a small boolean constraint model and a
// branch-and-bound engine over it: boolean variables, exactly-one groups,
// reified linear inequalities, and minimization of a weighted sum of
// variables. It is the capability contract the roster engine builds against;
// any CP-SAT/ILP engine offering the same operations is substitutable.
package solver

import "math"

// Var identifies a boolean decision variable within one Model.
type Var int

// NoVar marks the absence of a guard variable.
const NoVar Var = -1

// Term is one weighted variable in a linear expression. Coefficients must be
// non-negative.
type Term struct {
	Var  Var
	Coef int
}

type fixedVar struct {
	v   Var
	val bool
}

// linear is sum(terms) in [lo, hi], enforced while guard is false or absent.
// Setting guard true waives the constraint entirely.
type linear struct {
	terms []Term
	lo    int
	hi    int
	guard Var
}

// Model is a set of boolean variables and constraints, built once per solve
// and discarded afterwards. Not safe for concurrent mutation.
type Model struct {
	names      []string
	exactlyOne [][]Var
	fixes      []fixedVar
	linears    []linear
	objective  []Term
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{}
}

// NewBool creates a boolean variable. The name is only used in diagnostics.
func (m *Model) NewBool(name string) Var {
	m.names = append(m.names, name)
	return Var(len(m.names) - 1)
}

// NumVars returns the number of variables created so far.
func (m *Model) NumVars() int {
	return len(m.names)
}

// Name returns the diagnostic name of v.
func (m *Model) Name(v Var) string {
	return m.names[v]
}

// AddExactlyOne requires exactly one of vars to be true.
func (m *Model) AddExactlyOne(vars ...Var) {
	group := make([]Var, len(vars))
	copy(group, vars)
	m.exactlyOne = append(m.exactlyOne, group)
}

// Fix pins v to val as a hard constraint.
func (m *Model) Fix(v Var, val bool) {
	m.fixes = append(m.fixes, fixedVar{v: v, val: val})
}

// AddLinearRange requires lo <= sum(terms) <= hi as a hard constraint.
func (m *Model) AddLinearRange(terms []Term, lo, hi int) {
	m.addLinear(terms, lo, hi, NoVar)
}

// AddAtMostUnless requires sum(terms) <= hi unless guard is true. The solver
// is free to set guard true to waive the constraint; the objective decides
// whether that is worth the penalty.
func (m *Model) AddAtMostUnless(terms []Term, hi int, guard Var) {
	m.addLinear(terms, 0, hi, guard)
}

// AddAtLeastUnless requires sum(terms) >= lo unless guard is true.
func (m *Model) AddAtLeastUnless(terms []Term, lo int, guard Var) {
	m.addLinear(terms, lo, math.MaxInt32, guard)
}

func (m *Model) addLinear(terms []Term, lo, hi int, guard Var) {
	copied := make([]Term, len(terms))
	copy(copied, terms)
	m.linears = append(m.linears, linear{terms: copied, lo: lo, hi: hi, guard: guard})
}

// Minimize sets the objective to sum(terms). Calling it with no terms leaves
// the model as a pure satisfaction problem: the first full assignment found is
// reported optimal.
func (m *Model) Minimize(terms []Term) {
	copied := make([]Term, len(terms))
	copy(copied, terms)
	m.objective = copied
}
