// Package validator 提供排班验证功能
package validator

import (
	"fmt"
	"sort"

	"github.com/fujishimakensetsu/shiftmaker/pkg/model"
)

// ConflictType 冲突类型
type ConflictType string

const (
	ConflictDoubleBooking ConflictType = "double_booking"  // 同一天分配到多个拠点
	ConflictMaxDays       ConflictType = "max_days"        // 超过月出勤上限
	ConflictNGDay         ConflictType = "ng_day"          // NG日出勤
	ConflictLocation      ConflictType = "location"        // パート不在所属拠点
	ConflictNotOperating  ConflictType = "not_operating"   // 拠点当天不营业
	ConflictOverCapacity  ConflictType = "over_capacity"   // 超过 max_staff
	ConflictPartTimeCap   ConflictType = "part_time_cap"   // パート優先拠点パート超过1名
	ConflictLonePartTimer ConflictType = "lone_part_timer" // パート優先拠点没有社員
	ConflictUnknownStaff  ConflictType = "unknown_staff"   // 名册中不存在
	ConflictCountMismatch ConflictType = "count_mismatch"  // 出勤天数与排班不一致
	ConflictConsecutive   ConflictType = "consecutive"     // 连续出勤天数过多
)

// 严重程度
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Conflict 冲突信息
type Conflict struct {
	Type       ConflictType     `json:"type"`
	Severity   string           `json:"severity"`
	StaffID    model.StaffID    `json:"staff_id,omitempty"`
	LocationID model.LocationID `json:"location_id,omitempty"`
	Date       string           `json:"date,omitempty"`
	Message    string           `json:"message"`
}

// DetectorConfig 检测器配置
type DetectorConfig struct {
	MaxConsecutiveDays int  // 最大连续出勤天数，0 表示不检查
	CheckCounts        bool // 是否核对 StaffCounts
}

// DefaultDetectorConfig 返回默认配置
func DefaultDetectorConfig() *DetectorConfig {
	return &DetectorConfig{
		MaxConsecutiveDays: 6,
		CheckCounts:        true,
	}
}

// ConflictDetector 冲突检测器
type ConflictDetector struct {
	config *DetectorConfig
}

// NewConflictDetector 创建冲突检测器
func NewConflictDetector(config *DetectorConfig) *ConflictDetector {
	if config == nil {
		config = DefaultDetectorConfig()
	}
	return &ConflictDetector{config: config}
}

// DetectAll 对照解析后的日历、名册和NG日检测排班中的全部冲突
//
// 结果按日期、拠点顺序排列，员工级别的冲突排在最后。
func (d *ConflictDetector) DetectAll(result *model.AssignmentResult, days []model.ResolvedDay, staff []model.Staff, ngDays model.NGDays) []Conflict {
	conflicts := []Conflict{}
	if result == nil {
		return conflicts
	}

	staffByID := make(map[model.StaffID]*model.Staff, len(staff))
	for i := range staff {
		staffByID[staff[i].ID] = &staff[i]
	}
	ng := make(map[model.StaffID]model.DateSet, len(ngDays))
	for id, dates := range ngDays {
		ng[id] = model.NewDateSet(dates)
	}

	counted := make(map[model.StaffID]int)
	known := make(map[string]map[model.LocationID]bool, len(days))

	for _, day := range days {
		dayShift := result.Shift[day.Date]
		busy := make(map[model.StaffID]model.LocationID)
		known[day.Date] = make(map[model.LocationID]bool, len(day.Locations))

		for _, loc := range day.Locations {
			known[day.Date][loc.ID] = true
			ids := dayShift[loc.ID]
			if len(ids) == 0 {
				continue
			}

			if !loc.IsWorking {
				conflicts = append(conflicts, Conflict{
					Type:       ConflictNotOperating,
					Severity:   SeverityError,
					LocationID: loc.ID,
					Date:       day.Date,
					Message:    fmt.Sprintf("%s 当天不营业，却分配了%d人", loc.Name, len(ids)),
				})
			}
			if len(ids) > loc.MaxStaff {
				conflicts = append(conflicts, Conflict{
					Type:       ConflictOverCapacity,
					Severity:   SeverityError,
					LocationID: loc.ID,
					Date:       day.Date,
					Message:    fmt.Sprintf("%s 分配%d人，超过上限%d人", loc.Name, len(ids), loc.MaxStaff),
				})
			}

			partTimers, regulars := 0, 0
			for _, id := range ids {
				s, ok := staffByID[id]
				if !ok {
					conflicts = append(conflicts, Conflict{
						Type:       ConflictUnknownStaff,
						Severity:   SeverityError,
						StaffID:    id,
						LocationID: loc.ID,
						Date:       day.Date,
						Message:    fmt.Sprintf("员工 %d 不在名册中", id),
					})
					continue
				}

				if other, dup := busy[id]; dup {
					conflicts = append(conflicts, Conflict{
						Type:       ConflictDoubleBooking,
						Severity:   SeverityError,
						StaffID:    id,
						LocationID: loc.ID,
						Date:       day.Date,
						Message:    fmt.Sprintf("%s 同一天已分配到拠点 %d", s.Name, other),
					})
				} else {
					busy[id] = loc.ID
					counted[id]++
				}

				if ng[id].Has(day.Date) {
					conflicts = append(conflicts, Conflict{
						Type:       ConflictNGDay,
						Severity:   SeverityError,
						StaffID:    id,
						LocationID: loc.ID,
						Date:       day.Date,
						Message:    fmt.Sprintf("%s 在NG日出勤", s.Name),
					})
				}
				if !s.CanWorkAt(loc.ID) {
					conflicts = append(conflicts, Conflict{
						Type:       ConflictLocation,
						Severity:   SeverityError,
						StaffID:    id,
						LocationID: loc.ID,
						Date:       day.Date,
						Message:    fmt.Sprintf("%s 不能在 %s 出勤", s.Name, loc.Name),
					})
				}

				if s.IsPartTime() {
					partTimers++
				} else {
					regulars++
				}
			}

			if loc.PartTimePriority {
				if partTimers > 1 {
					conflicts = append(conflicts, Conflict{
						Type:       ConflictPartTimeCap,
						Severity:   SeverityError,
						LocationID: loc.ID,
						Date:       day.Date,
						Message:    fmt.Sprintf("%s 分配了%d名パート，最多1名", loc.Name, partTimers),
					})
				}
				if partTimers > 0 && regulars == 0 {
					conflicts = append(conflicts, Conflict{
						Type:       ConflictLonePartTimer,
						Severity:   SeverityError,
						LocationID: loc.ID,
						Date:       day.Date,
						Message:    fmt.Sprintf("%s 只有パート，没有社員", loc.Name),
					})
				}
			}
		}
	}

	conflicts = append(conflicts, d.detectUnknownSlots(result, known)...)
	conflicts = append(conflicts, d.detectStaffViolations(result, staff, counted)...)
	conflicts = append(conflicts, d.detectConsecutiveDays(result, days, staff)...)

	return conflicts
}

// detectUnknownSlots 排班中存在日历里没有的日期或拠点
func (d *ConflictDetector) detectUnknownSlots(result *model.AssignmentResult, known map[string]map[model.LocationID]bool) []Conflict {
	var conflicts []Conflict

	dates := make([]string, 0, len(result.Shift))
	for date := range result.Shift {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	for _, date := range dates {
		locs := make([]model.LocationID, 0, len(result.Shift[date]))
		for id := range result.Shift[date] {
			locs = append(locs, id)
		}
		sort.Slice(locs, func(i, j int) bool { return locs[i] < locs[j] })

		for _, id := range locs {
			if len(result.Shift[date][id]) == 0 || known[date][id] {
				continue
			}
			conflicts = append(conflicts, Conflict{
				Type:       ConflictNotOperating,
				Severity:   SeverityError,
				LocationID: id,
				Date:       date,
				Message:    fmt.Sprintf("拠点 %d 在 %s 没有营业日程", id, date),
			})
		}
	}
	return conflicts
}

// detectStaffViolations 月出勤上限和天数核对
func (d *ConflictDetector) detectStaffViolations(result *model.AssignmentResult, staff []model.Staff, counted map[model.StaffID]int) []Conflict {
	var conflicts []Conflict
	for _, s := range staff {
		n := counted[s.ID]
		if n > s.MaxDays {
			conflicts = append(conflicts, Conflict{
				Type:     ConflictMaxDays,
				Severity: SeverityError,
				StaffID:  s.ID,
				Message:  fmt.Sprintf("%s 出勤%d天，超过上限%d天", s.Name, n, s.MaxDays),
			})
		}
		if d.config.CheckCounts && result.StaffCounts[s.ID] != n {
			conflicts = append(conflicts, Conflict{
				Type:     ConflictCountMismatch,
				Severity: SeverityWarning,
				StaffID:  s.ID,
				Message:  fmt.Sprintf("%s 记录出勤%d天，排班中实际%d天", s.Name, result.StaffCounts[s.ID], n),
			})
		}
	}
	return conflicts
}

// detectConsecutiveDays 连续出勤天数超过阈值时给出警告，每段只报告一次
func (d *ConflictDetector) detectConsecutiveDays(result *model.AssignmentResult, days []model.ResolvedDay, staff []model.Staff) []Conflict {
	limit := d.config.MaxConsecutiveDays
	if limit <= 0 {
		return nil
	}

	var conflicts []Conflict
	for _, s := range staff {
		streak := 0
		for _, day := range days {
			if !result.IsAssignedOn(day.Date, s.ID) {
				streak = 0
				continue
			}
			streak++
			if streak == limit+1 {
				conflicts = append(conflicts, Conflict{
					Type:     ConflictConsecutive,
					Severity: SeverityWarning,
					StaffID:  s.ID,
					Date:     day.Date,
					Message:  fmt.Sprintf("%s 连续出勤超过%d天", s.Name, limit),
				})
			}
		}
	}
	return conflicts
}

// HasErrors 是否存在错误级别的冲突
func HasErrors(conflicts []Conflict) bool {
	for _, c := range conflicts {
		if c.Severity == SeverityError {
			return true
		}
	}
	return false
}
