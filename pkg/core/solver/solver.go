package solver

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Status classifies the outcome of a Solve call.
type Status int

const (
	// StatusOptimal means the best solution found was proven minimal.
	StatusOptimal Status = iota
	// StatusFeasible means a solution was found but the time budget ran out
	// before optimality was proven.
	StatusFeasible
	// StatusInfeasible means the constraints were proven unsatisfiable.
	StatusInfeasible
	// StatusUnknown means the time budget ran out before any solution was
	// found; the instance may or may not be satisfiable.
	StatusUnknown
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusFeasible:
		return "feasible"
	case StatusInfeasible:
		return "infeasible"
	}
	return "unknown"
}

// Options configures one Solve call.
type Options struct {
	// Timeout is the wall-clock budget. Zero means no limit beyond ctx.
	Timeout time.Duration
	// Workers is the number of parallel search workers. Values below 1 run a
	// single worker.
	Workers int
}

// Solution is the outcome of a Solve call. Values is indexed by Var and only
// meaningful for StatusOptimal and StatusFeasible.
type Solution struct {
	Status    Status
	Values    []bool
	Objective int
	Nodes     int64
	Duration  time.Duration
	Workers   int
}

const unassigned int8 = -1

// shared is the cross-worker incumbent store. Workers prune against bestObj;
// the mutex only guards incumbent replacement.
type shared struct {
	mu      sync.Mutex
	bestObj atomic.Int64
	best    []bool
	found   atomic.Bool
	nodes   atomic.Int64
}

func (s *shared) record(values []int8, obj int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if obj >= s.bestObj.Load() && s.found.Load() {
		return
	}
	snapshot := make([]bool, len(values))
	for i, v := range values {
		snapshot[i] = v == 1
	}
	s.best = snapshot
	s.bestObj.Store(obj)
	s.found.Store(true)
}

// Solve runs a parallel branch-and-bound search over m. Each worker explores
// the full space with a different branching order and prunes against the
// globally best objective, so one worker finishing exhaustively proves the
// incumbent optimal (or the model infeasible). Which of several equally
// optimal assignments wins is timing-dependent and not a contract.
func Solve(ctx context.Context, m *Model, opts Options) (*Solution, error) {
	start := time.Now()

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	searchCtx, stopSearch := context.WithCancel(ctx)
	defer stopSearch()

	sh := &shared{}
	sh.bestObj.Store(math.MaxInt64)

	exhausted := make([]bool, workers)
	g, groupCtx := errgroup.WithContext(searchCtx)
	for i := 0; i < workers; i++ {
		worker := i
		g.Go(func() error {
			s := newSearcher(m, sh, worker, workers)
			exhausted[worker] = s.run(groupCtx)
			if exhausted[worker] {
				// A completed exhaustive search settles the instance; stop
				// the remaining workers.
				stopSearch()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	proven := false
	for _, done := range exhausted {
		if done {
			proven = true
			break
		}
	}

	sol := &Solution{
		Nodes:    sh.nodes.Load(),
		Duration: time.Since(start),
		Workers:  workers,
	}
	switch {
	case proven && sh.found.Load():
		sol.Status = StatusOptimal
	case proven:
		sol.Status = StatusInfeasible
	case sh.found.Load():
		sol.Status = StatusFeasible
	default:
		sol.Status = StatusUnknown
	}
	if sh.found.Load() {
		sol.Values = sh.best
		sol.Objective = int(sh.bestObj.Load())
	}
	return sol, nil
}

// searcher is one worker's depth-first search state.
type searcher struct {
	m      *Model
	sh     *shared
	order  []Var // branching order, rotated per worker
	values []int8
	trail  []Var
	queue  []Var

	objCoef    []int64
	curObj     int64
	varGroups  [][]int
	varLinears [][]int
	nodes      int64
}

func newSearcher(m *Model, sh *shared, worker, workers int) *searcher {
	n := m.NumVars()
	s := &searcher{
		m:          m,
		sh:         sh,
		order:      make([]Var, n),
		values:     make([]int8, n),
		objCoef:    make([]int64, n),
		varGroups:  make([][]int, n),
		varLinears: make([][]int, n),
	}
	for i := range s.values {
		s.values[i] = unassigned
	}

	// Rotate the branching order so workers explore the space in different
	// directions while each remains complete on its own.
	offset := 0
	if workers > 1 && n > 0 {
		offset = worker * n / workers
	}
	for i := 0; i < n; i++ {
		s.order[i] = Var((i + offset) % n)
	}

	for _, t := range m.objective {
		s.objCoef[t.Var] += int64(t.Coef)
	}
	for gi, group := range m.exactlyOne {
		for _, v := range group {
			s.varGroups[v] = append(s.varGroups[v], gi)
		}
	}
	for ci, c := range m.linears {
		for _, t := range c.terms {
			s.varLinears[t.Var] = append(s.varLinears[t.Var], ci)
		}
		if c.guard != NoVar {
			s.varLinears[c.guard] = append(s.varLinears[c.guard], ci)
		}
	}
	return s
}

// run returns true when the worker exhausted its search space, which proves
// the incumbent optimal (or the model infeasible when no incumbent exists).
func (s *searcher) run(ctx context.Context) bool {
	defer func() { s.sh.nodes.Add(s.nodes) }()

	// Seed the hard fixed assignments. A conflict here settles the model
	// without any search.
	for _, f := range s.m.fixes {
		if !s.assign(f.v, f.val) {
			return true
		}
	}
	// Run the exactly-one and linear checks once over all constraints so
	// implications of the seed assignments (and degenerate groups) surface
	// before branching.
	if !s.sweepAll() {
		return true
	}
	return s.search(ctx, 0)
}

func (s *searcher) search(ctx context.Context, depth int) bool {
	if depth%64 == 0 {
		select {
		case <-ctx.Done():
			return false
		default:
		}
	}
	s.nodes++

	// Bound: the objective only grows as more indicator variables turn true,
	// so a node already at or above the incumbent cannot improve on it.
	if s.sh.found.Load() && s.curObj >= s.sh.bestObj.Load() {
		return true
	}

	v := s.nextVar()
	if v == NoVar {
		s.sh.record(s.values, s.curObj)
		return true
	}

	for _, val := range s.branchValues(v) {
		mark := len(s.trail)
		if s.assign(v, val) {
			if !s.search(ctx, depth+1) {
				s.undoTo(mark)
				return false
			}
		}
		s.undoTo(mark)
	}
	return true
}

func (s *searcher) nextVar() Var {
	for _, v := range s.order {
		if s.values[v] == unassigned {
			return v
		}
	}
	return NoVar
}

// branchValues orders the two polarities: indicator variables first try not
// paying their penalty, everything else first tries true so exactly-one
// groups resolve quickly.
func (s *searcher) branchValues(v Var) [2]bool {
	if s.objCoef[v] > 0 {
		return [2]bool{false, true}
	}
	return [2]bool{true, false}
}

// assign sets v and propagates to fixpoint. Returns false on conflict; the
// caller unwinds via undoTo.
func (s *searcher) assign(v Var, val bool) bool {
	s.queue = s.queue[:0]
	if !s.set(v, val) {
		return false
	}
	for i := 0; i < len(s.queue); i++ {
		u := s.queue[i]
		for _, gi := range s.varGroups[u] {
			if !s.checkGroup(gi) {
				return false
			}
		}
		for _, ci := range s.varLinears[u] {
			if !s.checkLinear(ci) {
				return false
			}
		}
	}
	return true
}

// sweepAll runs every constraint check once, queueing any implications.
func (s *searcher) sweepAll() bool {
	s.queue = s.queue[:0]
	for gi := range s.m.exactlyOne {
		if !s.checkGroup(gi) {
			return false
		}
	}
	for ci := range s.m.linears {
		if !s.checkLinear(ci) {
			return false
		}
	}
	for i := 0; i < len(s.queue); i++ {
		u := s.queue[i]
		for _, gi := range s.varGroups[u] {
			if !s.checkGroup(gi) {
				return false
			}
		}
		for _, ci := range s.varLinears[u] {
			if !s.checkLinear(ci) {
				return false
			}
		}
	}
	return true
}

func (s *searcher) set(v Var, val bool) bool {
	switch s.values[v] {
	case unassigned:
	case 1:
		return val
	default:
		return !val
	}
	if val {
		s.values[v] = 1
		s.curObj += s.objCoef[v]
	} else {
		s.values[v] = 0
	}
	s.trail = append(s.trail, v)
	s.queue = append(s.queue, v)
	return true
}

func (s *searcher) undoTo(mark int) {
	for i := len(s.trail) - 1; i >= mark; i-- {
		v := s.trail[i]
		if s.values[v] == 1 {
			s.curObj -= s.objCoef[v]
		}
		s.values[v] = unassigned
	}
	s.trail = s.trail[:mark]
}

func (s *searcher) checkGroup(gi int) bool {
	group := s.m.exactlyOne[gi]
	trueCount := 0
	openCount := 0
	for _, v := range group {
		switch s.values[v] {
		case 1:
			trueCount++
		case unassigned:
			openCount++
		}
	}
	switch {
	case trueCount > 1:
		return false
	case trueCount == 1:
		for _, v := range group {
			if s.values[v] == unassigned && !s.set(v, false) {
				return false
			}
		}
	case openCount == 0:
		return false
	case openCount == 1:
		for _, v := range group {
			if s.values[v] == unassigned {
				return s.set(v, true)
			}
		}
	}
	return true
}

func (s *searcher) checkLinear(ci int) bool {
	c := &s.m.linears[ci]

	if c.guard != NoVar && s.values[c.guard] == 1 {
		return true // waived
	}

	minSum, maxSum := 0, 0
	for _, t := range c.terms {
		switch s.values[t.Var] {
		case 1:
			minSum += t.Coef
			maxSum += t.Coef
		case unassigned:
			maxSum += t.Coef
		}
	}

	violated := minSum > c.hi || maxSum < c.lo

	if c.guard != NoVar && s.values[c.guard] == unassigned {
		if violated {
			// The inequality can no longer hold; the only way out is to pay
			// the penalty.
			return s.set(c.guard, true)
		}
		return true // not yet enforced, nothing to propagate
	}

	if violated {
		return false
	}

	// Bound propagation on the enforced inequality.
	slack := c.hi - minSum
	surplus := maxSum - c.lo
	for _, t := range c.terms {
		if s.values[t.Var] != unassigned {
			continue
		}
		if t.Coef > slack {
			if !s.set(t.Var, false) {
				return false
			}
		} else if t.Coef > surplus {
			if !s.set(t.Var, true) {
				return false
			}
		}
	}
	return true
}
