package validator

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/fujishimakensetsu/shiftmaker/pkg/calendar"
	"github.com/fujishimakensetsu/shiftmaker/pkg/holiday"
	"github.com/fujishimakensetsu/shiftmaker/pkg/logger"
	"github.com/fujishimakensetsu/shiftmaker/pkg/model"
	"github.com/fujishimakensetsu/shiftmaker/pkg/scheduler/solver"
)

func testStaff() []model.Staff {
	return []model.Staff{
		{ID: 1, Name: "田中", Type: model.StaffRegular, MaxDays: 31},
		{ID: 2, Name: "鈴木", Type: model.StaffPartTime, MaxDays: 2, AssignedLocations: []model.LocationID{2}},
		{ID: 3, Name: "佐藤", Type: model.StaffRegular, MaxDays: 31},
		{ID: 4, Name: "山田", Type: model.StaffPartTime, MaxDays: 31},
	}
}

func testDays() []model.ResolvedDay {
	return []model.ResolvedDay{
		{Date: "2026-01-10", Locations: []model.LocationDay{
			{ID: 1, Name: "FIP", IsWorking: true, MinStaff: 1, MaxStaff: 2},
			{ID: 2, Name: "大宮", IsWorking: true, MinStaff: 1, MaxStaff: 2, PartTimePriority: true},
		}},
		{Date: "2026-01-11", Locations: []model.LocationDay{
			{ID: 1, Name: "FIP", IsWorking: false, MinStaff: 1, MaxStaff: 2},
			{ID: 2, Name: "大宮", IsWorking: true, MinStaff: 1, MaxStaff: 2, PartTimePriority: true},
		}},
	}
}

func result(shift map[string]model.DayShift) *model.AssignmentResult {
	r := model.NewAssignmentResult(2026, 1, testStaff())
	for date, day := range shift {
		r.Shift[date] = day
		seen := map[model.StaffID]bool{}
		for _, ids := range day {
			for _, id := range ids {
				if !seen[id] {
					seen[id] = true
					r.StaffCounts[id]++
				}
			}
		}
	}
	return r
}

func hasType(conflicts []Conflict, ct ConflictType) bool {
	for _, c := range conflicts {
		if c.Type == ct {
			return true
		}
	}
	return false
}

func TestConflictDetector_DetectAll(t *testing.T) {
	tests := []struct {
		name     string
		shift    map[string]model.DayShift
		ng       model.NGDays
		expected ConflictType
	}{
		{"同日重复分配", map[string]model.DayShift{"2026-01-10": {1: {1}, 2: {1, 2}}}, nil, ConflictDoubleBooking},
		{"NG日出勤", map[string]model.DayShift{"2026-01-10": {1: {3}}}, model.NGDays{3: {"2026-01-10"}}, ConflictNGDay},
		{"パート所属拠点外", map[string]model.DayShift{"2026-01-10": {1: {2}}}, nil, ConflictLocation},
		{"不营业日分配", map[string]model.DayShift{"2026-01-11": {1: {1}}}, nil, ConflictNotOperating},
		{"超过最多人数", map[string]model.DayShift{"2026-01-10": {1: {1, 3, 4}}}, nil, ConflictOverCapacity},
		{"パート超过1名", map[string]model.DayShift{"2026-01-10": {2: {2, 4}}}, nil, ConflictPartTimeCap},
		{"只有パート", map[string]model.DayShift{"2026-01-10": {2: {4}}}, nil, ConflictLonePartTimer},
		{"名册外员工", map[string]model.DayShift{"2026-01-10": {1: {9}}}, nil, ConflictUnknownStaff},
		{"日历外日期", map[string]model.DayShift{"2026-01-12": {1: {1}}}, nil, ConflictNotOperating},
		{"超过月上限", map[string]model.DayShift{
			"2026-01-10": {2: {1, 2}},
			"2026-01-11": {2: {3, 2}},
			"2026-01-12": {2: {1, 2}},
		}, nil, ConflictMaxDays},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := testDays()
			if tt.expected == ConflictMaxDays {
				days = append(days, model.ResolvedDay{Date: "2026-01-12", Locations: []model.LocationDay{
					{ID: 2, Name: "大宮", IsWorking: true, MinStaff: 1, MaxStaff: 2, PartTimePriority: true},
				}})
			}
			conflicts := NewConflictDetector(nil).DetectAll(result(tt.shift), days, testStaff(), tt.ng)
			if !hasType(conflicts, tt.expected) {
				t.Errorf("expected %s, got %+v", tt.expected, conflicts)
			}
			if !HasErrors(conflicts) {
				t.Error("expected error severity")
			}
		})
	}
}

func TestConflictDetector_Clean(t *testing.T) {
	shift := map[string]model.DayShift{
		"2026-01-10": {1: {1}, 2: {3, 2}},
		"2026-01-11": {1: {}, 2: {1, 4}},
	}
	conflicts := NewConflictDetector(nil).DetectAll(result(shift), testDays(), testStaff(), nil)
	if len(conflicts) != 0 {
		t.Errorf("expected no conflicts, got %+v", conflicts)
	}
}

func TestConflictDetector_CountMismatch(t *testing.T) {
	r := result(map[string]model.DayShift{"2026-01-10": {1: {1}}})
	r.StaffCounts[1] = 5

	conflicts := NewConflictDetector(nil).DetectAll(r, testDays(), testStaff(), nil)
	if !hasType(conflicts, ConflictCountMismatch) {
		t.Errorf("expected count mismatch, got %+v", conflicts)
	}
	if HasErrors(conflicts) {
		t.Error("count mismatch should only be a warning")
	}

	conflicts = NewConflictDetector(&DetectorConfig{CheckCounts: false}).DetectAll(r, testDays(), testStaff(), nil)
	if len(conflicts) != 0 {
		t.Errorf("count check disabled, got %+v", conflicts)
	}
}

func TestConflictDetector_Consecutive(t *testing.T) {
	var days []model.ResolvedDay
	shift := map[string]model.DayShift{}
	for d := 1; d <= 5; d++ {
		date := fmt.Sprintf("2026-01-%02d", d)
		days = append(days, model.ResolvedDay{Date: date, Locations: []model.LocationDay{
			{ID: 1, Name: "FIP", IsWorking: true, MinStaff: 1, MaxStaff: 1},
		}})
		shift[date] = model.DayShift{1: {1}}
	}

	detector := NewConflictDetector(&DetectorConfig{MaxConsecutiveDays: 3})
	conflicts := detector.DetectAll(result(shift), days, testStaff(), nil)

	n := 0
	for _, c := range conflicts {
		if c.Type == ConflictConsecutive {
			n++
			if c.Date != "2026-01-04" {
				t.Errorf("streak should be reported on the 4th day, got %s", c.Date)
			}
		}
	}
	if n != 1 {
		t.Errorf("expected one consecutive warning, got %d", n)
	}
	if HasErrors(conflicts) {
		t.Errorf("unexpected errors: %+v", conflicts)
	}
}

func TestConflictDetector_SolverOutputIsClean(t *testing.T) {
	settings := model.DefaultSettings()
	ng := model.NGDays{1: {"2026-03-07"}, 2: {"2026-03-08"}}
	resolver := calendar.NewResolver(holiday.NewCalendar())
	days := resolver.Resolve(2026, 3, settings.Locations, nil)

	s := solver.NewGreedySolver(resolver).WithLogger(logger.NewSchedulerLoggerFrom(zerolog.Nop()))
	r := s.AssignDays(2026, 3, days, settings.Staff, ng)

	conflicts := NewConflictDetector(&DetectorConfig{CheckCounts: true}).DetectAll(r, days, settings.Staff, ng)
	if HasErrors(conflicts) || len(conflicts) != 0 {
		t.Errorf("solver output should be conflict free, got %+v", conflicts)
	}
}
