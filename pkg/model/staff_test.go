package model

import (
	"testing"
)

func TestParseStaffType(t *testing.T) {
	tests := []struct {
		input    string
		expected StaffType
		wantErr  bool
	}{
		{"社員", StaffRegular, false},
		{"パート", StaffPartTime, false},
		{"regular", StaffRegular, false},
		{"part_time", StaffPartTime, false},
		{"part-time", StaffPartTime, false},
		{"アルバイト", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStaffType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStaffType(%q) err = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("ParseStaffType(%q) = %s, expected %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestStaff_CanWorkAt(t *testing.T) {
	tests := []struct {
		name     string
		staff    Staff
		loc      LocationID
		expected bool
	}{
		{"社員不受限制", Staff{Type: StaffRegular, AssignedLocations: []LocationID{2}}, 1, true},
		{"パート无限制", Staff{Type: StaffPartTime}, 3, true},
		{"パート所属拠点", Staff{Type: StaffPartTime, AssignedLocations: []LocationID{2}}, 2, true},
		{"パート非所属拠点", Staff{Type: StaffPartTime, AssignedLocations: []LocationID{2}}, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.staff.CanWorkAt(tt.loc); got != tt.expected {
				t.Errorf("CanWorkAt(%d) = %v, expected %v", tt.loc, got, tt.expected)
			}
		})
	}
}

func TestStaffType_Label(t *testing.T) {
	if StaffRegular.Label() != "社員" || StaffPartTime.Label() != "パート" {
		t.Error("unexpected staff type labels")
	}
}
