package model

import (
	"testing"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if len(s.Locations) != 3 {
		t.Fatalf("expected 3 default locations, got %d", len(s.Locations))
	}
	if len(s.Staff) != 4 {
		t.Fatalf("expected 4 default staff, got %d", len(s.Staff))
	}
	if err := s.Validate(); err != nil {
		t.Errorf("default settings should be valid: %v", err)
	}

	omiya := s.Locations[1]
	if !omiya.PartTimePriority || !omiya.FlexibleStaffing {
		t.Error("大宮 should use part-time priority with flexible staffing")
	}
	if !omiya.IsClosedOn(Wednesday) || omiya.WorksOn(Monday) {
		t.Error("大宮 weekday pattern is wrong")
	}
}

func TestSettings_NormalizeLegacyLabels(t *testing.T) {
	s := &Settings{
		Staff: []Staff{
			{ID: 1, Name: "A", Type: "社員", MaxDays: 20},
			{ID: 2, Name: "B", Type: "パート", MaxDays: 10},
		},
		Locations: []Location{{ID: 1, MinStaff: 1, MaxStaff: 1}},
	}

	if err := s.Normalize(); err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if s.Staff[0].Type != StaffRegular || s.Staff[1].Type != StaffPartTime {
		t.Errorf("legacy labels not converted: %v %v", s.Staff[0].Type, s.Staff[1].Type)
	}
	if s.NGDays == nil || s.Exceptions == nil {
		t.Error("nil maps should be initialised")
	}
	if s.Staff[0].AssignedLocations == nil || s.Locations[0].WorkingDays == nil {
		t.Error("nil slices should be initialised")
	}

	bad := &Settings{Staff: []Staff{{ID: 1, Type: "契約"}}}
	if err := bad.Normalize(); err == nil {
		t.Error("unknown staff type should fail")
	}
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Settings)
		wantErr bool
	}{
		{"默认配置", func(s *Settings) {}, false},
		{"最少人数为0", func(s *Settings) { s.Locations[0].MinStaff = 0 }, true},
		{"最多人数小于最少人数", func(s *Settings) { s.Locations[0].MinStaff = 3; s.Locations[0].MaxStaff = 2 }, true},
		{"星期越界", func(s *Settings) { s.Locations[0].WorkingDays = []Weekday{7} }, true},
		{"拠点ID重复", func(s *Settings) { s.Locations[1].ID = s.Locations[0].ID }, true},
		{"员工ID重复", func(s *Settings) { s.Staff[1].ID = s.Staff[0].ID }, true},
		{"未知雇佣类型", func(s *Settings) { s.Staff[0].Type = "contract" }, true},
		{"出勤上限越界", func(s *Settings) { s.Staff[0].MaxDays = 40 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSettings_NextIDs(t *testing.T) {
	s := DefaultSettings()
	if s.NextLocationID() != 4 {
		t.Errorf("NextLocationID = %d", s.NextLocationID())
	}
	if s.NextStaffID() != 5 {
		t.Errorf("NextStaffID = %d", s.NextStaffID())
	}

	empty := &Settings{}
	if empty.NextLocationID() != 1 || empty.NextStaffID() != 1 {
		t.Error("empty roster should start ids at 1")
	}
}

func TestSettings_Clone(t *testing.T) {
	s := DefaultSettings()
	s.NGDays[1] = []string{"2026-01-10"}
	s.Exceptions["2026-01"] = MonthExceptions{1: {Add: []string{"2026-01-07"}}}

	c := s.Clone()
	c.Locations[0].ClosedDays[0] = Sunday
	c.Staff[1].AssignedLocations[0] = 9
	c.NGDays[1][0] = "2026-01-11"
	c.Exceptions["2026-01"][1].Add[0] = "2026-01-08"

	if s.Locations[0].ClosedDays[0] != Wednesday {
		t.Error("clone shares closed days")
	}
	if s.Staff[1].AssignedLocations[0] != 2 {
		t.Error("clone shares assigned locations")
	}
	if s.NGDays[1][0] != "2026-01-10" {
		t.Error("clone shares ng days")
	}
	if s.Exceptions["2026-01"][1].Add[0] != "2026-01-07" {
		t.Error("clone shares exceptions")
	}
}

func TestSettings_Find(t *testing.T) {
	s := DefaultSettings()
	if i, ok := s.FindLocation(3); !ok || i != 2 {
		t.Errorf("FindLocation(3) = %d, %v", i, ok)
	}
	if _, ok := s.FindStaff(99); ok {
		t.Error("FindStaff(99) should not be found")
	}
}
