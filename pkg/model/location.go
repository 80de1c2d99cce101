package model

// Location 拠点（可在某日营业的场所）
type Location struct {
	ID               LocationID `json:"id" yaml:"id" validate:"min=1"`
	Name             string     `json:"name" yaml:"name"`
	WorkingDays      []Weekday  `json:"working_days" yaml:"working_days" validate:"dive,min=0,max=6"`
	ClosedDays       []Weekday  `json:"closed_days" yaml:"closed_days" validate:"dive,min=0,max=6"` // 定休日，优先级最高
	WorkOnHolidays   bool       `json:"work_on_holidays" yaml:"work_on_holidays"`
	MinStaff         int        `json:"min_staff" yaml:"min_staff" validate:"min=1"`
	MaxStaff         int        `json:"max_staff" yaml:"max_staff" validate:"gtefield=MinStaff"`
	PartTimePriority bool       `json:"part_time_priority" yaml:"part_time_priority"`
	FlexibleStaffing bool       `json:"flexible_staffing" yaml:"flexible_staffing"` // 仅在 PartTimePriority 下生效
}

// NewLocation 创建带默认值的拠点
func NewLocation(id LocationID, name string) Location {
	return Location{
		ID:             id,
		Name:           name,
		WorkingDays:    []Weekday{Saturday, Sunday},
		ClosedDays:     []Weekday{},
		WorkOnHolidays: true,
		MinStaff:       1,
		MaxStaff:       2,
	}
}

// IsClosedOn 检查是否为定休日
func (l *Location) IsClosedOn(w Weekday) bool {
	return ContainsWeekday(l.ClosedDays, w)
}

// WorksOn 检查是否为常规营业日
func (l *Location) WorksOn(w Weekday) bool {
	return ContainsWeekday(l.WorkingDays, w)
}

// Clone 深拷贝
func (l Location) Clone() Location {
	l.WorkingDays = append([]Weekday(nil), l.WorkingDays...)
	l.ClosedDays = append([]Weekday(nil), l.ClosedDays...)
	return l
}

// DateOverride 某拠点在某月的营业日覆盖
type DateOverride struct {
	Add    []string `json:"add" yaml:"add"`       // 强制营业
	Remove []string `json:"remove" yaml:"remove"` // 强制休业，优先于 Add
}

// MonthExceptions 单月例外日，按拠点ID索引
type MonthExceptions map[LocationID]DateOverride

// Clone 深拷贝
func (m MonthExceptions) Clone() MonthExceptions {
	if m == nil {
		return nil
	}
	out := make(MonthExceptions, len(m))
	for id, o := range m {
		out[id] = DateOverride{
			Add:    append([]string(nil), o.Add...),
			Remove: append([]string(nil), o.Remove...),
		}
	}
	return out
}

// Exceptions 全部例外日，按年月键 (YYYY-MM) 索引
type Exceptions map[string]MonthExceptions

// ForMonth 返回指定年月的例外日
func (e Exceptions) ForMonth(year, month int) MonthExceptions {
	if e == nil {
		return MonthExceptions{}
	}
	if m, ok := e[MonthKey(year, month)]; ok && m != nil {
		return m
	}
	return MonthExceptions{}
}
