package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/shiftgrid/shiftgrid/pkg/core/model"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadRequest loads and validates a solve request document from a YAML file.
func LoadRequest(path string) (*model.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read request file: %w", err)
	}

	var req model.Request
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request file: %w", err)
	}

	if err := ValidateRequest(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// ValidateRequest validates the request struct plus the cross-field rules the
// struct tags cannot express: band ordering, calendar rule completeness, and
// rrule syntax.
func ValidateRequest(req *model.Request) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("request validation failed: %w", err)
	}

	for i, rule := range req.CalendarRules {
		if rule.Date == "" && rule.RRule == "" {
			return fmt.Errorf("calendarRules[%d]: either date or rrule is required", i)
		}
		if rule.RRule != "" {
			if _, err := rrule.StrToRRule(rule.RRule); err != nil {
				return fmt.Errorf("invalid rrule in calendarRules[%d]: %w", i, err)
			}
		}
	}

	if limit := req.DailyOffLimit; limit != nil && limit.Max < limit.Min {
		return fmt.Errorf("dailyOffLimit: max (%d) below min (%d)", limit.Max, limit.Min)
	}
	if limit := req.PeriodOffLimit; limit != nil {
		if limit.Max < limit.Min {
			return fmt.Errorf("periodOffLimit: max (%d) below min (%d)", limit.Max, limit.Min)
		}
		for id, band := range limit.PerStaff {
			if band.Max < band.Min {
				return fmt.Errorf("periodOffLimit.perStaff[%s]: max (%d) below min (%d)", id, band.Max, band.Min)
			}
		}
	}

	for i, rule := range req.PriorityRules {
		if rule.Prefer == nil && rule.Avoid == nil {
			return fmt.Errorf("priorityRules[%d]: either prefer or avoid is required", i)
		}
	}

	for category, weight := range req.Weights {
		if weight < 0 {
			return fmt.Errorf("weights[%s]: negative weight %d", category, weight)
		}
	}
	return nil
}

// ApplyDefaults fills the solve budget from the environment config when the
// request leaves it unset.
func ApplyDefaults(req *model.Request, cfg *Config) {
	if req.TimeoutSeconds <= 0 {
		req.TimeoutSeconds = cfg.Solver.TimeoutSeconds
	}
	if req.Workers <= 0 {
		req.Workers = cfg.Solver.Workers
	}
}
