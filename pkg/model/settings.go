package model

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Settings 全部配置数据（拠点、员工、NG日、例外日）
type Settings struct {
	Locations  []Location `json:"locations" yaml:"locations" validate:"dive"`
	Staff      []Staff    `json:"staff" yaml:"staff" validate:"dive"`
	NGDays     NGDays     `json:"ng_days" yaml:"ng_days"`
	Exceptions Exceptions `json:"exceptions" yaml:"exceptions"`
}

var validate = validator.New()

// DefaultSettings 返回初始配置
func DefaultSettings() *Settings {
	fip := NewLocation(1, "FIP")
	fip.WorkingDays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
	fip.ClosedDays = []Weekday{Wednesday, Thursday}

	omiya := NewLocation(2, "大宮")
	omiya.ClosedDays = []Weekday{Wednesday, Thursday}
	omiya.PartTimePriority = true
	omiya.FlexibleStaffing = true

	negishi := NewLocation(3, "根岸")
	negishi.ClosedDays = []Weekday{Wednesday, Thursday}

	tanaka := NewStaff(1, "田中太郎")
	suzuki := NewStaff(2, "鈴木花子")
	suzuki.Type = StaffPartTime
	suzuki.MaxDays = 12
	suzuki.AssignedLocations = []LocationID{2}
	sato := NewStaff(3, "佐藤次郎")
	yamada := NewStaff(4, "山田美咲")
	yamada.Type = StaffPartTime
	yamada.MaxDays = 10
	yamada.AssignedLocations = []LocationID{2}

	return &Settings{
		Locations:  []Location{fip, omiya, negishi},
		Staff:      []Staff{tanaka, suzuki, sato, yamada},
		NGDays:     NGDays{},
		Exceptions: Exceptions{},
	}
}

// Normalize 在边界处统一数据：补全空集合、转换日文雇佣类型标签
func (s *Settings) Normalize() error {
	if s.NGDays == nil {
		s.NGDays = NGDays{}
	}
	if s.Exceptions == nil {
		s.Exceptions = Exceptions{}
	}
	for i := range s.Locations {
		if s.Locations[i].WorkingDays == nil {
			s.Locations[i].WorkingDays = []Weekday{}
		}
		if s.Locations[i].ClosedDays == nil {
			s.Locations[i].ClosedDays = []Weekday{}
		}
	}
	for i := range s.Staff {
		t, err := ParseStaffType(string(s.Staff[i].Type))
		if err != nil {
			return fmt.Errorf("员工 %d: %w", s.Staff[i].ID, err)
		}
		s.Staff[i].Type = t
		if s.Staff[i].AssignedLocations == nil {
			s.Staff[i].AssignedLocations = []LocationID{}
		}
	}
	return nil
}

// Validate 校验配置
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return err
	}
	seenLoc := make(map[LocationID]bool, len(s.Locations))
	for _, l := range s.Locations {
		if seenLoc[l.ID] {
			return fmt.Errorf("拠点ID重复: %d", l.ID)
		}
		seenLoc[l.ID] = true
	}
	seenStaff := make(map[StaffID]bool, len(s.Staff))
	for _, st := range s.Staff {
		if seenStaff[st.ID] {
			return fmt.Errorf("员工ID重复: %d", st.ID)
		}
		seenStaff[st.ID] = true
	}
	return nil
}

// ValidateLocation 校验单个拠点
func ValidateLocation(l *Location) error {
	return validate.Struct(l)
}

// ValidateStaff 校验单个员工
func ValidateStaff(s *Staff) error {
	return validate.Struct(s)
}

// Clone 深拷贝，保证并发生成时互不共享可变状态
func (s *Settings) Clone() *Settings {
	out := &Settings{
		Locations:  make([]Location, len(s.Locations)),
		Staff:      make([]Staff, len(s.Staff)),
		NGDays:     s.NGDays.Clone(),
		Exceptions: make(Exceptions, len(s.Exceptions)),
	}
	for i, l := range s.Locations {
		out.Locations[i] = l.Clone()
	}
	for i, st := range s.Staff {
		out.Staff[i] = st.Clone()
	}
	for k, m := range s.Exceptions {
		out.Exceptions[k] = m.Clone()
	}
	return out
}

// FindLocation 按ID查找拠点
func (s *Settings) FindLocation(id LocationID) (int, bool) {
	for i, l := range s.Locations {
		if l.ID == id {
			return i, true
		}
	}
	return -1, false
}

// FindStaff 按ID查找员工
func (s *Settings) FindStaff(id StaffID) (int, bool) {
	for i, st := range s.Staff {
		if st.ID == id {
			return i, true
		}
	}
	return -1, false
}

// NextLocationID 返回新拠点ID（当前最大ID+1）
func (s *Settings) NextLocationID() LocationID {
	var maxID LocationID
	for _, l := range s.Locations {
		if l.ID > maxID {
			maxID = l.ID
		}
	}
	return maxID + 1
}

// NextStaffID 返回新员工ID（当前最大ID+1）
func (s *Settings) NextStaffID() StaffID {
	var maxID StaffID
	for _, st := range s.Staff {
		if st.ID > maxID {
			maxID = st.ID
		}
	}
	return maxID + 1
}
