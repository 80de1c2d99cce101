package model

import "fmt"

// StaffType 雇佣类型
type StaffType string

const (
	StaffRegular  StaffType = "regular"   // 社員
	StaffPartTime StaffType = "part_time" // パート
)

// legacyStaffTypes 旧版设置文件中的日文标签
var legacyStaffTypes = map[string]StaffType{
	"社員":        StaffRegular,
	"パート":       StaffPartTime,
	"regular":   StaffRegular,
	"part_time": StaffPartTime,
	"part-time": StaffPartTime,
}

// ParseStaffType 解析雇佣类型，兼容日文标签
func ParseStaffType(s string) (StaffType, error) {
	if t, ok := legacyStaffTypes[s]; ok {
		return t, nil
	}
	return "", fmt.Errorf("未知的雇佣类型: %q", s)
}

// Label 返回日文标签
func (t StaffType) Label() string {
	switch t {
	case StaffRegular:
		return "社員"
	case StaffPartTime:
		return "パート"
	default:
		return string(t)
	}
}

// Staff 员工
type Staff struct {
	ID                StaffID      `json:"id" yaml:"id" validate:"min=1"`
	Name              string       `json:"name" yaml:"name"`
	Type              StaffType    `json:"type" yaml:"type" validate:"oneof=regular part_time"`
	MaxDays           int          `json:"max_days" yaml:"max_days" validate:"min=0,max=31"`
	AssignedLocations []LocationID `json:"assigned_locations" yaml:"assigned_locations"` // 仅对パート生效，空表示不限
}

// NewStaff 创建带默认值的员工
func NewStaff(id StaffID, name string) Staff {
	return Staff{
		ID:                id,
		Name:              name,
		Type:              StaffRegular,
		MaxDays:           31,
		AssignedLocations: []LocationID{},
	}
}

// IsPartTime 检查是否为パート
func (s *Staff) IsPartTime() bool {
	return s.Type == StaffPartTime
}

// CanWorkAt 检查是否可在指定拠点工作
func (s *Staff) CanWorkAt(loc LocationID) bool {
	if !s.IsPartTime() || len(s.AssignedLocations) == 0 {
		return true
	}
	for _, id := range s.AssignedLocations {
		if id == loc {
			return true
		}
	}
	return false
}

// Clone 深拷贝
func (s Staff) Clone() Staff {
	s.AssignedLocations = append([]LocationID(nil), s.AssignedLocations...)
	return s
}

// NGDays 员工不可出勤日，按员工ID索引
type NGDays map[StaffID][]string

// Clone 深拷贝
func (n NGDays) Clone() NGDays {
	if n == nil {
		return nil
	}
	out := make(NGDays, len(n))
	for id, dates := range n {
		out[id] = append([]string(nil), dates...)
	}
	return out
}
