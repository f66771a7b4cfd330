package model

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// ShiftCategory is the internal classification of a single roster cell.
// Exactly one category holds for every (staff, date) pair in a solution.
type ShiftCategory int

const (
	Work ShiftCategory = iota
	Off
	Early
	Late
)

// AllCategories lists every category in decision-variable order.
var AllCategories = []ShiftCategory{Work, Off, Early, Late}

func (c ShiftCategory) String() string {
	switch c {
	case Work:
		return "work"
	case Off:
		return "off"
	case Early:
		return "early"
	case Late:
		return "late"
	}
	return fmt.Sprintf("ShiftCategory(%d)", int(c))
}

// ParseShiftCategory converts the text form used in request documents.
func ParseShiftCategory(s string) (ShiftCategory, error) {
	switch s {
	case "work":
		return Work, nil
	case "off":
		return Off, nil
	case "early":
		return Early, nil
	case "late":
		return Late, nil
	}
	return Work, fmt.Errorf("unknown shift category %q", s)
}

// UnmarshalYAML accepts the lowercase text form (work/off/early/late).
func (c *ShiftCategory) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseShiftCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalYAML emits the lowercase text form.
func (c ShiftCategory) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// Staff represents one rosterable staff member.
type Staff struct {
	ID     string   `yaml:"id" validate:"required"`
	Name   string   `yaml:"name"`
	Type   string   `yaml:"type"` // staff-type tag for per-type daily limits
	Groups []string `yaml:"groups,omitempty"`
}

// DateLayout is the wire format for roster dates.
const DateLayout = "2006-01-02"

// Weekday returns the day of week for an ISO roster date.
func Weekday(date string) (time.Weekday, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Sunday, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t.Weekday(), nil
}

// CalendarRuleKind marks a calendar rule as forcing work or forcing a day off.
type CalendarRuleKind string

const (
	CalendarMustWork CalendarRuleKind = "must_work"
	CalendarMustOff  CalendarRuleKind = "must_off"
)

// CalendarRule designates specific dates as must-work or must-off for all staff.
// Either a single explicit date or a recurrence rule expanded across the horizon.
// A pre-filled cell on the same (staff, date) always wins over the rule.
type CalendarRule struct {
	Date  string           `yaml:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	RRule string           `yaml:"rrule,omitempty"`
	Kind  CalendarRuleKind `yaml:"kind" validate:"required,oneof=must_work must_off"`
}

// StaffGroup is a named set of staff that must maintain mutual coverage.
// On any single date the group's absence-equivalent score (OFF counts 2,
// EARLY counts 1) may not exceed CoverageBudget.
type StaffGroup struct {
	Name    string   `yaml:"name" validate:"required"`
	Members []string `yaml:"members" validate:"required,min=1"`

	// CoverageBudget is the tolerated absence-equivalent score per date.
	// Zero means the default budget of 2 (one full day off, or two earlies).
	CoverageBudget int `yaml:"coverageBudget,omitempty" validate:"omitempty,min=1"`

	// Hard makes the coverage budget a hard constraint instead of a penalized one.
	Hard bool `yaml:"hard,omitempty"`
}

// DefaultCoverageBudget is the absence-equivalent budget applied when a group
// does not configure its own.
const DefaultCoverageBudget = 2

// OffBand bounds a count of OFF assignments to [Min, Max].
type OffBand struct {
	Min int `yaml:"min" validate:"min=0"`
	Max int `yaml:"max" validate:"min=0"`
}

// TypeOffLimit bounds how many staff of one type may be off on a single date.
type TypeOffLimit struct {
	Type string `yaml:"type" validate:"required"`
	Max  int    `yaml:"max" validate:"min=0"`
}

// PeriodOffLimit bounds each staff member's OFF days across the whole horizon.
// PerStaff overrides replace the default band for the named staff members.
type PeriodOffLimit struct {
	OffBand  `yaml:",inline"`
	PerStaff map[string]OffBand `yaml:"perStaff,omitempty"`
}

// Band returns the effective band for a staff member.
func (l PeriodOffLimit) Band(staffID string) OffBand {
	if band, ok := l.PerStaff[staffID]; ok {
		return band
	}
	return l.OffBand
}

// PriorityRule expresses a per-staff, per-weekday category preference.
// Prefer penalizes days where the category was not assigned; Avoid penalizes
// days where it was. At least one of the two must be set.
type PriorityRule struct {
	StaffID string         `yaml:"staffId" validate:"required"`
	Weekday string         `yaml:"weekday" validate:"required,oneof=sunday monday tuesday wednesday thursday friday saturday"`
	Prefer  *ShiftCategory `yaml:"prefer,omitempty"`
	Avoid   *ShiftCategory `yaml:"avoid,omitempty"`
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// WeekdayValue resolves the rule's weekday name.
func (r PriorityRule) WeekdayValue() (time.Weekday, error) {
	day, ok := weekdayNames[r.Weekday]
	if !ok {
		return time.Sunday, fmt.Errorf("unknown weekday %q", r.Weekday)
	}
	return day, nil
}
