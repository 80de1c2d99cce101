package stats

import (
	"strings"
	"testing"

	"github.com/fujishimakensetsu/shiftmaker/pkg/model"
)

func TestCoverageAnalyzer_Analyze(t *testing.T) {
	analyzer := NewCoverageAnalyzer()

	days := []model.ResolvedDay{
		{Date: "2026-01-10", Locations: []model.LocationDay{
			{ID: 1, Name: "FIP", IsWorking: true, MinStaff: 1, MaxStaff: 2},
			{ID: 2, Name: "大宮", IsWorking: true, MinStaff: 2, MaxStaff: 2, FlexibleStaffing: true},
		}},
		{Date: "2026-01-11", Locations: []model.LocationDay{
			{ID: 1, Name: "FIP", IsWorking: true, MinStaff: 1, MaxStaff: 2},
			{ID: 2, Name: "大宮", IsWorking: false, MinStaff: 2, MaxStaff: 2},
		}},
	}

	r := model.NewAssignmentResult(2026, 1, nil)
	r.Shift["2026-01-10"] = model.DayShift{1: {1, 2}, 2: {3}}
	r.Shift["2026-01-11"] = model.DayShift{1: {}, 2: {}}

	metrics := analyzer.Analyze(r, days)

	if metrics.OperatingSlots != 3 {
		t.Errorf("OperatingSlots = %d, expected 3", metrics.OperatingSlots)
	}
	if metrics.FilledSlots != 1 {
		t.Errorf("FilledSlots = %d, expected 1", metrics.FilledSlots)
	}
	if metrics.AssignedStaff != 3 || metrics.Capacity != 6 || metrics.UnfilledCapacity != 3 {
		t.Errorf("unexpected totals: %+v", metrics)
	}
	// min 合计 4，满足 1 + 1 + 0
	if metrics.DemandSatisfaction != 50 {
		t.Errorf("DemandSatisfaction = %f, expected 50", metrics.DemandSatisfaction)
	}
	if len(metrics.Understaffed) != 2 {
		t.Fatalf("expected 2 understaffed slots, got %+v", metrics.Understaffed)
	}
	u := metrics.Understaffed[0]
	if u.Date != "2026-01-10" || u.LocationID != 2 || u.Shortage != 1 || !u.FlexibleStaffing {
		t.Errorf("unexpected understaffed slot: %+v", u)
	}
	if len(metrics.DailyCoverage) != 2 || metrics.DailyCoverage[1].Operating != 1 {
		t.Errorf("unexpected daily coverage: %+v", metrics.DailyCoverage)
	}
	if len(metrics.LocationCoverage) != 2 || metrics.LocationCoverage[0].Understaffed != 1 {
		t.Errorf("unexpected location coverage: %+v", metrics.LocationCoverage)
	}
}

func TestCoverageAnalyzer_NoOperatingDays(t *testing.T) {
	days := []model.ResolvedDay{{Date: "2026-01-01", Locations: []model.LocationDay{{ID: 1, IsWorking: false}}}}
	metrics := NewCoverageAnalyzer().Analyze(model.NewAssignmentResult(2026, 1, nil), days)

	if metrics.OverallCoverage != 100 || metrics.DemandSatisfaction != 100 {
		t.Errorf("no operating days should count as fully covered: %+v", metrics)
	}
}

func TestCoverageAnalyzer_Report(t *testing.T) {
	analyzer := NewCoverageAnalyzer()
	metrics := &CoverageMetrics{
		OperatingSlots: 2,
		Understaffed: []UnderstaffedSlot{
			{Date: "2026-01-10", LocationName: "大宮", Required: 2, Assigned: 1, Shortage: 1},
		},
	}

	report := analyzer.GenerateCoverageReport(metrics)
	if !strings.Contains(report, "2026-01-10 大宮 (需要2人，仅有1人，缺1人)") {
		t.Errorf("report missing understaffed line:\n%s", report)
	}
}
