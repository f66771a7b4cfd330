package roster

// Stage is one step of the constraint catalogue. Stages run in a fixed order:
// later stages rely on the hard constraints of earlier ones (pre-filled locks
// in particular), and the reporter lists violations in stage order. A soft
// stage disables itself when its weight or configuration is absent.
type Stage interface {
	Name() string
	Apply(b *Build) error
}

// catalogue returns the constraint-builder stages in their binding order.
func catalogue() []Stage {
	return []Stage{
		&prefillStage{},
		&calendarStage{},
		&groupCoverageStage{},
		&dailyLimitStage{},
		&typeLimitStage{},
		&periodLimitStage{},
		&restDayStage{},
		&adjacencyStage{},
		&priorityStage{},
	}
}
