package roster

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/shiftgrid/shiftgrid/pkg/core/model"
)

// calendarStage applies per-date must-work / must-off designations to all
// staff as hard constraints. A pre-filled cell on the same (staff, date)
// wins: the rule is not applied there and the override is recorded as
// informational, never as an error or a violation.
type calendarStage struct{}

func (s *calendarStage) Name() string { return "calendar" }

func (s *calendarStage) Apply(b *Build) error {
	for _, rule := range b.req.CalendarRules {
		dates, err := s.ruleDates(b, rule)
		if err != nil {
			return err
		}
		for _, date := range dates {
			s.applyOnDate(b, rule.Kind, date)
		}
	}
	return nil
}

// ruleDates expands a rule to the horizon dates it designates. Explicit dates
// outside the horizon are skipped with a warning; recurrence rules are
// evaluated against the horizon bounds only.
func (s *calendarStage) ruleDates(b *Build, rule model.CalendarRule) ([]string, error) {
	if rule.Date != "" {
		if _, ok := b.dateIndex[rule.Date]; !ok {
			b.logger.Warn("calendar rule date outside planning horizon, skipping",
				zap.String("date", rule.Date), zap.String("kind", string(rule.Kind)))
			return nil, nil
		}
		return []string{rule.Date}, nil
	}
	if rule.RRule == "" {
		b.logger.Warn("calendar rule has neither date nor rrule, skipping",
			zap.String("kind", string(rule.Kind)))
		return nil, nil
	}

	r, err := rrule.StrToRRule(rule.RRule)
	if err != nil {
		return nil, fmt.Errorf("invalid calendar rrule %q: %w", rule.RRule, err)
	}
	first, err := time.Parse(model.DateLayout, b.req.Dates[0])
	if err != nil {
		return nil, err
	}
	last, err := time.Parse(model.DateLayout, b.req.Dates[len(b.req.Dates)-1])
	if err != nil {
		return nil, err
	}
	r.DTStart(first)

	var dates []string
	for _, t := range r.Between(first, last, true) {
		date := t.Format(model.DateLayout)
		if _, ok := b.dateIndex[date]; ok {
			dates = append(dates, date)
		}
	}
	return dates, nil
}

func (s *calendarStage) applyOnDate(b *Build, kind model.CalendarRuleKind, date string) {
	forced := model.Work
	if kind == model.CalendarMustOff {
		forced = model.Off
	}
	di := b.dateIndex[date]

	for si, st := range b.req.Staff {
		if cell, ok := b.lockedAt(st.ID, date); ok {
			// Explicit user intent wins over the calendar rule.
			if cell.category != forced {
				note := fmt.Sprintf("calendar %s on %s overridden by pre-filled %s for staff %s",
					kind, date, cell.category, st.ID)
				b.overrides = append(b.overrides, note)
				b.logger.Info("calendar rule overridden by pre-filled cell",
					zap.String("staff_id", st.ID), zap.String("date", date),
					zap.String("rule", string(kind)),
					zap.String("prefilled", cell.category.String()))
			}
			continue
		}
		b.m.Fix(b.varFor(si, di, forced), true)
	}
}
