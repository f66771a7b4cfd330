package model

// Request is one complete solve invocation: the staff list, the planning
// horizon, the constraint configuration, any locked cells, and the solve
// budget. A Request is read-only for the duration of the solve and nothing
// about it survives past the returned Result.
type Request struct {
	Staff []Staff  `yaml:"staff" validate:"required,min=1,dive"`
	Dates []string `yaml:"dates" validate:"required,min=1,dive,datetime=2006-01-02"`

	CalendarRules []CalendarRule `yaml:"calendarRules,omitempty" validate:"dive"`
	Groups        []StaffGroup   `yaml:"groups,omitempty" validate:"dive"`

	DailyOffLimit  *OffBand        `yaml:"dailyOffLimit,omitempty"`
	TypeOffLimits  []TypeOffLimit  `yaml:"typeOffLimits,omitempty" validate:"dive"`
	PeriodOffLimit *PeriodOffLimit `yaml:"periodOffLimit,omitempty"`
	PriorityRules  []PriorityRule  `yaml:"priorityRules,omitempty" validate:"dive"`

	// Weights enables and weighs the soft stages; see DefaultPenaltyWeights.
	Weights PenaltyWeights `yaml:"weights,omitempty"`

	// Prefilled holds locked cells as staffID -> date -> symbol. Sparse: only
	// non-empty cells appear.
	Prefilled map[string]map[string]string `yaml:"prefilled,omitempty"`

	// TimeoutSeconds is the solver wall-clock budget. Zero uses the
	// environment default.
	TimeoutSeconds float64 `yaml:"timeoutSeconds,omitempty" validate:"omitempty,gt=0"`

	// Workers is the solver's parallel search width. Zero uses the
	// environment default.
	Workers int `yaml:"workers,omitempty" validate:"omitempty,min=1"`
}

// StaffByID returns the staff entry for id, or nil if unknown.
func (r *Request) StaffByID(id string) *Staff {
	for i := range r.Staff {
		if r.Staff[i].ID == id {
			return &r.Staff[i]
		}
	}
	return nil
}

// PrefilledSymbol returns the locked symbol for (staffID, date), if any.
func (r *Request) PrefilledSymbol(staffID, date string) (string, bool) {
	cells, ok := r.Prefilled[staffID]
	if !ok {
		return "", false
	}
	symbol, ok := cells[date]
	return symbol, ok
}
