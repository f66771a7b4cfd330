package model

import (
	"time"

	"github.com/google/uuid"
)

// Status classifies the outcome of one solve invocation.
type Status string

const (
	// StatusOptimal means the objective was proven minimal within budget.
	StatusOptimal Status = "optimal"
	// StatusFeasible means a solution was found but optimality was not
	// proven before the timeout.
	StatusFeasible Status = "feasible"
	// StatusInfeasible means the hard constraints alone cannot be satisfied.
	StatusInfeasible Status = "infeasible"
	// StatusNoSolution means the search produced nothing within budget; the
	// instance may or may not be satisfiable.
	StatusNoSolution Status = "no_solution"
)

// ViolationGroup aggregates every triggered violation of one soft category.
type ViolationGroup struct {
	Category string   `json:"category"`
	Count    int      `json:"count"`
	Weight   int      `json:"weight"`
	Penalty  int      `json:"penalty"`
	Details  []string `json:"details"`
}

// Result is the outcome of one solve invocation.
type Result struct {
	Success bool      `json:"success"`
	Status  Status    `json:"status"`
	RunID   uuid.UUID `json:"runId"`

	// Schedule is the dense resolved grid, staffID -> date -> symbol.
	// Annotation symbols from pre-filled cells appear verbatim. Empty when
	// Success is false.
	Schedule map[string]map[string]string `json:"schedule,omitempty"`

	IsOptimal    bool             `json:"isOptimal"`
	Duration     time.Duration    `json:"duration"`
	Violations   []ViolationGroup `json:"violations"`
	TotalPenalty int              `json:"totalPenalty"`

	// Hints carries human-readable remediation suggestions on infeasibility.
	Hints []string `json:"hints,omitempty"`

	// Overrides records calendar rules that were superseded by pre-filled
	// cells. Informational, never counted as violations.
	Overrides []string `json:"overrides,omitempty"`
}
