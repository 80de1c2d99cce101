package model

// LocationDay 某拠点在某日的营业判定
type LocationDay struct {
	ID               LocationID `json:"id"`
	Name             string     `json:"name"`
	IsWorking        bool       `json:"is_working"`
	IsClosedDay      bool       `json:"is_closed_day"` // 仅用于展示
	MinStaff         int        `json:"min_staff"`
	MaxStaff         int        `json:"max_staff"`
	PartTimePriority bool       `json:"part_time_priority"`
	FlexibleStaffing bool       `json:"flexible_staffing"`
}

// ResolvedDay 日历解析结果（单日）
type ResolvedDay struct {
	Date        string        `json:"date"` // YYYY-MM-DD
	Day         int           `json:"day"`
	Weekday     Weekday       `json:"weekday"`
	WeekdayName string        `json:"weekday_name"`
	IsHoliday   bool          `json:"is_holiday"`
	HolidayName string        `json:"holiday_name"`
	Locations   []LocationDay `json:"locations"`
}

// DayShift 单日排班：拠点ID -> 按分配顺序排列的员工ID
type DayShift map[LocationID][]StaffID

// AssignmentResult 整月排班结果
type AssignmentResult struct {
	Year        int                 `json:"year"`
	Month       int                 `json:"month"`
	Shift       map[string]DayShift `json:"shift"`
	StaffCounts map[StaffID]int     `json:"staff_counts"`
}

// NewAssignmentResult 创建空结果，所有员工计数为0
func NewAssignmentResult(year, month int, staff []Staff) *AssignmentResult {
	counts := make(map[StaffID]int, len(staff))
	for _, s := range staff {
		counts[s.ID] = 0
	}
	return &AssignmentResult{
		Year:        year,
		Month:       month,
		Shift:       make(map[string]DayShift),
		StaffCounts: counts,
	}
}

// Assigned 返回某日某拠点的分配
func (r *AssignmentResult) Assigned(date string, loc LocationID) []StaffID {
	day, ok := r.Shift[date]
	if !ok {
		return nil
	}
	return day[loc]
}

// IsAssignedOn 检查员工在某日是否已被分配到任何拠点
func (r *AssignmentResult) IsAssignedOn(date string, id StaffID) bool {
	for _, ids := range r.Shift[date] {
		for _, sid := range ids {
			if sid == id {
				return true
			}
		}
	}
	return false
}

// DaysAssigned 统计员工在结果中实际出勤的天数
func (r *AssignmentResult) DaysAssigned(id StaffID) int {
	n := 0
	for date := range r.Shift {
		if r.IsAssignedOn(date, id) {
			n++
		}
	}
	return n
}
