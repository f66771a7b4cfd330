package roster

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shiftgrid/shiftgrid/pkg/core/model"
	"github.com/shiftgrid/shiftgrid/pkg/core/symbol"
)

// weekdays starting Monday 2025-03-03.
var week = []string{"2025-03-03", "2025-03-04", "2025-03-05", "2025-03-06", "2025-03-07"}

func newRequest(staff []model.Staff, dates []string) *model.Request {
	return &model.Request{
		Staff:          staff,
		Dates:          dates,
		TimeoutSeconds: 10,
		Workers:        2,
	}
}

func solveRequest(t *testing.T, req *model.Request) *model.Result {
	t.Helper()
	result, err := Solve(context.Background(), req, zap.NewNop())
	require.NoError(t, err)
	return result
}

func findViolations(result *model.Result, category string) *model.ViolationGroup {
	for i := range result.Violations {
		if result.Violations[i].Category == category {
			return &result.Violations[i]
		}
	}
	return nil
}

func countSymbol(result *model.Result, staffID, sym string) int {
	count := 0
	for _, s := range result.Schedule[staffID] {
		if s == sym {
			count++
		}
	}
	return count
}

func TestSolve_EveryCellGetsExactlyOneCategory(t *testing.T) {
	req := newRequest([]model.Staff{{ID: "a"}, {ID: "b"}}, week)

	result := solveRequest(t, req)
	require.True(t, result.Success)
	assert.Equal(t, model.StatusOptimal, result.Status)
	assert.True(t, result.IsOptimal)

	for _, st := range req.Staff {
		require.Len(t, result.Schedule[st.ID], len(week))
		for _, date := range week {
			sym, ok := result.Schedule[st.ID][date]
			require.True(t, ok, "missing cell %s/%s", st.ID, date)
			_, known := symbol.Decode(sym)
			assert.True(t, known, "cell %s/%s holds unknown symbol %q", st.ID, date, sym)
		}
	}
}

func TestSolve_NoSoftConfigMeansNoViolationsAndZeroPenalty(t *testing.T) {
	req := newRequest([]model.Staff{{ID: "a"}, {ID: "b"}}, week)
	req.CalendarRules = []model.CalendarRule{{Date: week[2], Kind: model.CalendarMustOff}}

	result := solveRequest(t, req)
	require.True(t, result.Success)
	assert.Empty(t, result.Violations)
	assert.Zero(t, result.TotalPenalty)
	for _, st := range req.Staff {
		assert.Equal(t, symbol.SymbolOff, result.Schedule[st.ID][week[2]])
	}
}

// Scenario A: two staff, one pre-filled off day each, rest-day weight high.
// The five-day window is too short for the six-day rest rule to trigger.
func TestSolve_PrefilledOffDaysPreserved(t *testing.T) {
	req := newRequest([]model.Staff{{ID: "a"}, {ID: "b"}}, week)
	req.Weights = model.PenaltyWeights{model.CategoryRestDay: 10}
	req.Prefilled = map[string]map[string]string{
		"a": {week[1]: "×"},
		"b": {week[3]: "×"},
	}

	result := solveRequest(t, req)
	require.True(t, result.Success)
	assert.Equal(t, "×", result.Schedule["a"][week[1]])
	assert.Equal(t, "×", result.Schedule["b"][week[3]])
	assert.Empty(t, result.Violations)
}

func TestSolve_AnnotationSymbolEchoedVerbatim(t *testing.T) {
	req := newRequest([]model.Staff{{ID: "a"}}, week)
	req.Prefilled = map[string]map[string]string{"a": {week[0]: "研"}}

	result := solveRequest(t, req)
	require.True(t, result.Success)
	assert.Equal(t, "研", result.Schedule["a"][week[0]])
}

func TestSolve_PrefilledVariantSymbolKeepsCategory(t *testing.T) {
	req := newRequest([]model.Staff{{ID: "a"}}, week)
	req.Prefilled = map[string]map[string]string{"a": {week[0]: "x"}}

	result := solveRequest(t, req)
	require.True(t, result.Success)
	cat, _ := symbol.Decode(result.Schedule["a"][week[0]])
	assert.Equal(t, model.Off, cat)
}

func TestSolve_InvalidPrefillReferencesSkipped(t *testing.T) {
	req := newRequest([]model.Staff{{ID: "a"}}, week)
	req.Workers = 1
	req.Prefilled = map[string]map[string]string{
		"ghost": {week[0]: "×"},
		"a":     {"2030-01-01": "×"},
	}

	result := solveRequest(t, req)
	require.True(t, result.Success)
	assert.Zero(t, countSymbol(result, "a", "×"))
}

func TestSolve_UnknownPrefilledSymbolTreatedAsWork(t *testing.T) {
	req := newRequest([]model.Staff{{ID: "a"}}, week)
	req.Prefilled = map[string]map[string]string{"a": {week[0]: "?"}}

	result := solveRequest(t, req)
	require.True(t, result.Success)
	assert.Equal(t, symbol.SymbolWork, result.Schedule["a"][week[0]])
}

// Scenario B: period max 3 with 2 pre-filled off days leaves at most one more
// off day; with nothing pushing toward absence, none is assigned.
func TestSolve_PeriodLimitCountsPrefilledOffDays(t *testing.T) {
	dates := []string{
		"2025-03-03", "2025-03-04", "2025-03-05", "2025-03-06", "2025-03-07",
		"2025-03-08", "2025-03-09", "2025-03-10", "2025-03-11", "2025-03-12",
	}
	req := newRequest([]model.Staff{{ID: "x"}}, dates)
	// A single worker keeps tie-breaking deterministic: a third off day would
	// still be within the allowance, so an alternate search order could pick it.
	req.Workers = 1
	req.PeriodOffLimit = &model.PeriodOffLimit{OffBand: model.OffBand{Max: 3}}
	req.Weights = model.PenaltyWeights{model.CategoryPeriodLimit: 4}
	req.Prefilled = map[string]map[string]string{
		"x": {dates[1]: "×", dates[5]: "×"},
	}

	result := solveRequest(t, req)
	require.True(t, result.Success)
	assert.Equal(t, 2, countSymbol(result, "x", "×"))
	assert.Empty(t, result.Violations)
}

// Scenario C: five locked off days against a maximum of three still solve;
// the overage surfaces as two violation units, never as infeasibility.
func TestSolve_PeriodLimitOverageReportedNotInfeasible(t *testing.T) {
	dates := []string{
		"2025-03-03", "2025-03-04", "2025-03-05", "2025-03-06", "2025-03-07",
		"2025-03-08", "2025-03-09", "2025-03-10", "2025-03-11", "2025-03-12",
	}
	req := newRequest([]model.Staff{{ID: "x"}}, dates)
	req.PeriodOffLimit = &model.PeriodOffLimit{OffBand: model.OffBand{Max: 3}}
	req.Weights = model.PenaltyWeights{model.CategoryPeriodLimit: 4}
	req.Prefilled = map[string]map[string]string{
		"x": {dates[0]: "×", dates[2]: "×", dates[4]: "×", dates[6]: "×", dates[8]: "×"},
	}

	result := solveRequest(t, req)
	require.True(t, result.Success)
	assert.Equal(t, 5, countSymbol(result, "x", "×"))

	group := findViolations(result, model.CategoryPeriodLimit)
	require.NotNil(t, group)
	assert.Equal(t, 2, group.Count)
	assert.Equal(t, 4, group.Weight)
	assert.Equal(t, 8, group.Penalty)
	assert.Equal(t, 8, result.TotalPenalty)
}

// Scenario D: a must-work calendar day yields to a pre-filled off cell; the
// override is noted, not counted as a violation.
func TestSolve_CalendarMustWorkYieldsToPrefill(t *testing.T) {
	req := newRequest([]model.Staff{{ID: "x"}, {ID: "y"}, {ID: "z"}}, week)
	req.CalendarRules = []model.CalendarRule{{Date: week[2], Kind: model.CalendarMustWork}}
	req.Prefilled = map[string]map[string]string{"y": {week[2]: "×"}}

	result := solveRequest(t, req)
	require.True(t, result.Success)
	assert.Equal(t, "×", result.Schedule["y"][week[2]])
	assert.Equal(t, symbol.SymbolWork, result.Schedule["x"][week[2]])
	assert.Equal(t, symbol.SymbolWork, result.Schedule["z"][week[2]])
	assert.Len(t, result.Overrides, 1)
	assert.Empty(t, result.Violations)
}

func TestSolve_CalendarRRuleExpandsAcrossHorizon(t *testing.T) {
	dates := []string{
		"2025-03-03", "2025-03-04", "2025-03-05", "2025-03-06", "2025-03-07",
		"2025-03-08", "2025-03-09",
	}
	req := newRequest([]model.Staff{{ID: "a"}}, dates)
	req.Workers = 1
	req.CalendarRules = []model.CalendarRule{{RRule: "FREQ=WEEKLY;BYDAY=SU", Kind: model.CalendarMustOff}}

	result := solveRequest(t, req)
	require.True(t, result.Success)
	assert.Equal(t, symbol.SymbolOff, result.Schedule["a"]["2025-03-09"])
	assert.Equal(t, symbol.SymbolWork, result.Schedule["a"]["2025-03-03"])
}

func TestSolve_GroupCoverageSoftRecordsViolation(t *testing.T) {
	req := newRequest([]model.Staff{{ID: "a"}, {ID: "b"}}, week)
	req.Groups = []model.StaffGroup{{Name: "front", Members: []string{"a", "b"}}}
	req.Weights = model.PenaltyWeights{model.CategoryGroupCoverage: 6}
	req.Prefilled = map[string]map[string]string{
		"a": {week[0]: "×"},
		"b": {week[0]: "×"},
	}

	result := solveRequest(t, req)
	require.True(t, result.Success)
	assert.Equal(t, "×", result.Schedule["a"][week[0]])
	assert.Equal(t, "×", result.Schedule["b"][week[0]])

	group := findViolations(result, model.CategoryGroupCoverage)
	require.NotNil(t, group)
	assert.Equal(t, 1, group.Count)
	assert.Equal(t, 6, group.Penalty)
}

func TestSolve_GroupCoverageHardIsInfeasible(t *testing.T) {
	req := newRequest([]model.Staff{{ID: "a"}, {ID: "b"}}, week)
	req.Groups = []model.StaffGroup{{Name: "front", Members: []string{"a", "b"}, Hard: true}}
	req.Prefilled = map[string]map[string]string{
		"a": {week[0]: "×"},
		"b": {week[0]: "×"},
	}

	result := solveRequest(t, req)
	assert.False(t, result.Success)
	assert.Equal(t, model.StatusInfeasible, result.Status)
	assert.NotEmpty(t, result.Hints)
	assert.Empty(t, result.Schedule)
}

func TestSolve_GroupMembershipViaStaffGroupsField(t *testing.T) {
	req := newRequest([]model.Staff{
		{ID: "a", Groups: []string{"front"}},
		{ID: "b", Groups: []string{"front"}},
	}, week)
	req.Groups = []model.StaffGroup{{Name: "front", Members: []string{"a"}, Hard: true}}
	req.Prefilled = map[string]map[string]string{
		"a": {week[0]: "×"},
		"b": {week[0]: "×"},
	}

	// b joins the group through its Groups field, so the hard budget still trips.
	result := solveRequest(t, req)
	assert.False(t, result.Success)
	assert.Equal(t, model.StatusInfeasible, result.Status)
}

func TestSolve_RestDayRulePenalizesSixLockedWorkDays(t *testing.T) {
	dates := []string{
		"2025-03-03", "2025-03-04", "2025-03-05", "2025-03-06", "2025-03-07",
		"2025-03-08",
	}
	req := newRequest([]model.Staff{{ID: "a"}}, dates)
	req.Weights = model.PenaltyWeights{model.CategoryRestDay: 10}
	cells := make(map[string]string, len(dates))
	for _, date := range dates {
		cells[date] = "○"
	}
	req.Prefilled = map[string]map[string]string{"a": cells}

	result := solveRequest(t, req)
	require.True(t, result.Success)

	group := findViolations(result, model.CategoryRestDay)
	require.NotNil(t, group)
	assert.Equal(t, 1, group.Count)
	assert.Equal(t, 10, group.Penalty)
}

func TestSolve_RestDayRuleAvoidedWhenFree(t *testing.T) {
	dates := []string{
		"2025-03-03", "2025-03-04", "2025-03-05", "2025-03-06", "2025-03-07",
		"2025-03-08", "2025-03-09",
	}
	req := newRequest([]model.Staff{{ID: "a"}}, dates)
	req.Weights = model.PenaltyWeights{model.CategoryRestDay: 10}

	result := solveRequest(t, req)
	require.True(t, result.Success)
	assert.Empty(t, result.Violations)
	// At least one non-work day must appear in every six-day window.
	nonWork := len(dates) - countSymbol(result, "a", symbol.SymbolWork)
	assert.GreaterOrEqual(t, nonWork, 1)
}

func TestSolve_AdjacentPatternPenalized(t *testing.T) {
	req := newRequest([]model.Staff{{ID: "a"}}, week)
	req.Weights = model.PenaltyWeights{model.CategoryAdjacentPattern: 1}
	req.Prefilled = map[string]map[string]string{
		"a": {week[0]: "早", week[1]: "×"},
	}

	result := solveRequest(t, req)
	require.True(t, result.Success)

	group := findViolations(result, model.CategoryAdjacentPattern)
	require.NotNil(t, group)
	assert.Equal(t, 1, group.Count)
	assert.Equal(t, 1, group.Penalty)
}

func TestSolve_DailyLimitBoundsOffCount(t *testing.T) {
	req := newRequest([]model.Staff{{ID: "a"}, {ID: "b"}, {ID: "c"}}, week[:1])
	req.DailyOffLimit = &model.OffBand{Min: 1, Max: 1}
	req.Weights = model.PenaltyWeights{model.CategoryDailyLimit: 5}

	result := solveRequest(t, req)
	require.True(t, result.Success)
	assert.Empty(t, result.Violations)

	offCount := 0
	for _, st := range req.Staff {
		if result.Schedule[st.ID][week[0]] == symbol.SymbolOff {
			offCount++
		}
	}
	assert.Equal(t, 1, offCount)
}

func TestSolve_DailyLimitOverstaffedReportsViolation(t *testing.T) {
	req := newRequest([]model.Staff{{ID: "a"}, {ID: "b"}}, week[:1])
	req.DailyOffLimit = &model.OffBand{Max: 1}
	req.Weights = model.PenaltyWeights{model.CategoryDailyLimit: 5}
	req.Prefilled = map[string]map[string]string{
		"a": {week[0]: "×"},
		"b": {week[0]: "×"},
	}

	result := solveRequest(t, req)
	require.True(t, result.Success)

	group := findViolations(result, model.CategoryDailyLimit)
	require.NotNil(t, group)
	assert.Equal(t, 1, group.Count)
	assert.Equal(t, 5, group.Penalty)
}

func TestSolve_TypeLimitBoundsPerTypeOffCount(t *testing.T) {
	req := newRequest([]model.Staff{
		{ID: "a", Type: "nurse"},
		{ID: "b", Type: "nurse"},
		{ID: "c", Type: "clerk"},
	}, week[:1])
	req.TypeOffLimits = []model.TypeOffLimit{{Type: "nurse", Max: 1}}
	req.Weights = model.PenaltyWeights{model.CategoryTypeLimit: 4}
	req.Prefilled = map[string]map[string]string{
		"a": {week[0]: "×"},
		"b": {week[0]: "×"},
		"c": {week[0]: "×"},
	}

	result := solveRequest(t, req)
	require.True(t, result.Success)

	group := findViolations(result, model.CategoryTypeLimit)
	require.NotNil(t, group)
	assert.Equal(t, 1, group.Count)
	assert.Equal(t, 4, group.Penalty)
}

func TestSolve_PriorityPreferAssignsCategory(t *testing.T) {
	req := newRequest([]model.Staff{{ID: "a"}}, week)
	req.PriorityRules = []model.PriorityRule{{StaffID: "a", Weekday: "monday", Prefer: categoryPtr(model.Off)}}
	req.Weights = model.PenaltyWeights{model.CategoryPreference: 2}

	result := solveRequest(t, req)
	require.True(t, result.Success)
	// week[0] is a Monday.
	assert.Equal(t, symbol.SymbolOff, result.Schedule["a"][week[0]])
	assert.Empty(t, result.Violations)
}

func TestSolve_PriorityAvoidConflictsWithPrefillReportsViolation(t *testing.T) {
	req := newRequest([]model.Staff{{ID: "a"}}, week)
	req.PriorityRules = []model.PriorityRule{{StaffID: "a", Weekday: "monday", Avoid: categoryPtr(model.Off)}}
	req.Weights = model.PenaltyWeights{model.CategoryPreference: 2}
	req.Prefilled = map[string]map[string]string{"a": {week[0]: "×"}}

	result := solveRequest(t, req)
	require.True(t, result.Success)
	assert.Equal(t, "×", result.Schedule["a"][week[0]])

	group := findViolations(result, model.CategoryPreference)
	require.NotNil(t, group)
	assert.Equal(t, 1, group.Count)
	assert.Equal(t, 2, group.Penalty)
}

func categoryPtr(c model.ShiftCategory) *model.ShiftCategory {
	return &c
}
