// Package solver 提供排班求解器
package solver

import (
	"sort"
	"time"

	"github.com/fujishimakensetsu/shiftmaker/pkg/calendar"
	"github.com/fujishimakensetsu/shiftmaker/pkg/logger"
	"github.com/fujishimakensetsu/shiftmaker/pkg/model"
)

// Input 单月排班输入，调用方负责提供完整的名册副本
type Input struct {
	Year       int
	Month      int
	Locations  []model.Location
	Staff      []model.Staff
	NGDays     model.NGDays
	Exceptions model.MonthExceptions
}

// Solver 求解器接口
type Solver interface {
	// Solve 生成整月排班
	Solve(in *Input) *model.AssignmentResult

	// Name 返回求解器名称
	Name() string
}

// GreedySolver 贪心求解器
//
// 按日期升序、拠点按名册顺序逐一分配；候选员工按当月累计出勤天数升序排列，
// 相同天数时保持名册顺序，因此相同输入总是得到相同结果。
type GreedySolver struct {
	resolver *calendar.Resolver
	logger   *logger.SchedulerLogger
}

// NewGreedySolver 创建贪心求解器
func NewGreedySolver(resolver *calendar.Resolver) *GreedySolver {
	return &GreedySolver{
		resolver: resolver,
		logger:   logger.NewSchedulerLogger(),
	}
}

// WithLogger 替换日志器
func (s *GreedySolver) WithLogger(l *logger.SchedulerLogger) *GreedySolver {
	s.logger = l
	return s
}

// Name 返回求解器名称
func (s *GreedySolver) Name() string {
	return "GreedySolver"
}

// Solve 解析日历并生成排班
func (s *GreedySolver) Solve(in *Input) *model.AssignmentResult {
	days := s.resolver.Resolve(in.Year, in.Month, in.Locations, in.Exceptions)
	return s.AssignDays(in.Year, in.Month, days, in.Staff, in.NGDays)
}

// AssignDays 基于已解析的日历生成排班
func (s *GreedySolver) AssignDays(year, month int, days []model.ResolvedDay, staff []model.Staff, ngDays model.NGDays) *model.AssignmentResult {
	startTime := time.Now()
	monthKey := model.MonthKey(year, month)
	numLocations := 0
	if len(days) > 0 {
		numLocations = len(days[0].Locations)
	}
	s.logger.StartSchedule(monthKey, len(staff), numLocations, len(days))

	result := model.NewAssignmentResult(year, month, staff)
	st := &monthState{
		staff:  staff,
		ng:     make(map[model.StaffID]model.DateSet, len(ngDays)),
		counts: result.StaffCounts,
	}
	for id, dates := range ngDays {
		st.ng[id] = model.NewDateSet(dates)
	}

	slots := 0
	for _, day := range days {
		dayShift := make(model.DayShift, len(day.Locations))
		busy := make(map[model.StaffID]bool)

		for _, loc := range day.Locations {
			if !loc.IsWorking {
				dayShift[loc.ID] = []model.StaffID{}
				continue
			}

			candidates := st.candidates(loc.ID, day.Date, busy)

			var assigned []model.StaffID
			if loc.PartTimePriority {
				assigned = st.assignPartTimePriority(loc, candidates, busy)
			} else {
				assigned = st.assignDefault(loc, candidates, busy)
			}

			if len(assigned) < loc.MinStaff {
				s.logger.Shortage(day.Date, int(loc.ID), len(assigned), loc.MinStaff)
			}
			slots += len(assigned)
			dayShift[loc.ID] = assigned
		}

		result.Shift[day.Date] = dayShift
	}

	s.logger.ScheduleComplete(monthKey, time.Since(startTime), slots)
	return result
}

// monthState 单次求解的可变状态，仅由当前调用持有
type monthState struct {
	staff  []model.Staff
	ng     map[model.StaffID]model.DateSet
	counts map[model.StaffID]int
}

// candidates 返回可分配的员工（名册顺序）
func (st *monthState) candidates(loc model.LocationID, date string, busy map[model.StaffID]bool) []*model.Staff {
	var out []*model.Staff
	for i := range st.staff {
		s := &st.staff[i]

		// パート的所属拠点限制
		if !s.CanWorkAt(loc) {
			continue
		}
		if st.ng[s.ID].Has(date) {
			continue
		}
		if st.counts[s.ID] >= s.MaxDays {
			continue
		}
		// 同一天只能分配到一个拠点
		if busy[s.ID] {
			continue
		}
		out = append(out, s)
	}
	return out
}

// byLoad 按累计出勤天数升序排列，保持名册顺序作为平局规则
func (st *monthState) byLoad(list []*model.Staff) []*model.Staff {
	sorted := make([]*model.Staff, len(list))
	copy(sorted, list)
	sort.SliceStable(sorted, func(i, j int) bool {
		return st.counts[sorted[i].ID] < st.counts[sorted[j].ID]
	})
	return sorted
}

func (st *monthState) assign(id model.StaffID, busy map[model.StaffID]bool, assigned []model.StaffID) []model.StaffID {
	st.counts[id]++
	busy[id] = true
	return append(assigned, id)
}

// assignDefault 默认策略：负荷最低者优先，直到填满 max_staff
func (st *monthState) assignDefault(loc model.LocationDay, candidates []*model.Staff, busy map[model.StaffID]bool) []model.StaffID {
	assigned := []model.StaffID{}
	for _, s := range st.byLoad(candidates) {
		if len(assigned) >= loc.MaxStaff {
			break
		}
		assigned = st.assign(s.ID, busy, assigned)
	}
	return assigned
}

// assignPartTimePriority パート優先策略
//
// 先确保1名社員，再最多1名パート；无パート且启用 flexible_staffing 时
// 最少人数降为1；最后用社員补足到最少人数（不超过 max_staff）。
func (st *monthState) assignPartTimePriority(loc model.LocationDay, candidates []*model.Staff, busy map[model.StaffID]bool) []model.StaffID {
	var partTimers, regulars []*model.Staff
	for _, s := range candidates {
		if s.IsPartTime() {
			partTimers = append(partTimers, s)
		} else {
			regulars = append(regulars, s)
		}
	}
	partTimers = st.byLoad(partTimers)
	regulars = st.byLoad(regulars)

	assigned := []model.StaffID{}
	taken := make(map[model.StaffID]bool)

	// 1. 先确保1名社員
	if len(regulars) > 0 && len(assigned) < loc.MaxStaff {
		assigned = st.assign(regulars[0].ID, busy, assigned)
		taken[regulars[0].ID] = true
	}

	// 2. パート最多1名，且必须已有社員在岗
	partTimeAssigned := false
	if len(assigned) > 0 && len(partTimers) > 0 && len(assigned) < loc.MaxStaff {
		assigned = st.assign(partTimers[0].ID, busy, assigned)
		partTimeAssigned = true
	}

	// 3. 没有パート时放宽最少人数
	minRequired := loc.MinStaff
	if loc.FlexibleStaffing && !partTimeAssigned && minRequired > 1 {
		minRequired = 1
	}

	// 4. 用社員补足到最少人数
	for _, s := range regulars {
		if len(assigned) >= loc.MaxStaff || len(assigned) >= minRequired {
			break
		}
		if taken[s.ID] {
			continue
		}
		assigned = st.assign(s.ID, busy, assigned)
		taken[s.ID] = true
	}

	return assigned
}
