package stats

import (
	"fmt"
	"strings"

	"github.com/fujishimakensetsu/shiftmaker/pkg/model"
)

// CoverageMetrics 覆盖率指标
type CoverageMetrics struct {
	OperatingSlots   int     `json:"operating_slots"`   // 营业的拠点日数
	FilledSlots      int     `json:"filled_slots"`      // 达到最少人数的拠点日数
	RequiredStaff    int     `json:"required_staff"`    // 最少人数合计
	AssignedStaff    int     `json:"assigned_staff"`    // 实际分配人次
	Capacity         int     `json:"capacity"`          // 最多人数合计
	UnfilledCapacity int     `json:"unfilled_capacity"` // 剩余可分配人次
	OverallCoverage  float64 `json:"overall_coverage"`  // 达标拠点日占比 (%)

	// 人力需求满足度：每个拠点日最多计入 min_staff 人
	DemandSatisfaction float64 `json:"demand_satisfaction"`

	DailyCoverage    []DayCoverage      `json:"daily_coverage"`
	LocationCoverage []LocationCoverage `json:"location_coverage"`
	Understaffed     []UnderstaffedSlot `json:"understaffed"`
}

// DayCoverage 每日覆盖情况
type DayCoverage struct {
	Date      string `json:"date"`
	Operating int    `json:"operating"`
	Required  int    `json:"required"`
	Assigned  int    `json:"assigned"`
}

// LocationCoverage 各拠点覆盖情况
type LocationCoverage struct {
	LocationID    model.LocationID `json:"location_id"`
	LocationName  string           `json:"location_name"`
	OperatingDays int              `json:"operating_days"`
	Assigned      int              `json:"assigned"`
	Understaffed  int              `json:"understaffed"`
}

// UnderstaffedSlot 人手不足的拠点日
type UnderstaffedSlot struct {
	Date             string           `json:"date"`
	LocationID       model.LocationID `json:"location_id"`
	LocationName     string           `json:"location_name"`
	Required         int              `json:"required"`
	Assigned         int              `json:"assigned"`
	Shortage         int              `json:"shortage"`
	FlexibleStaffing bool             `json:"flexible_staffing"`
}

// CoverageAnalyzer 覆盖率分析器
type CoverageAnalyzer struct{}

// NewCoverageAnalyzer 创建覆盖率分析器
func NewCoverageAnalyzer() *CoverageAnalyzer {
	return &CoverageAnalyzer{}
}

// Analyze 对照解析后的日历分析排班覆盖率
func (c *CoverageAnalyzer) Analyze(result *model.AssignmentResult, days []model.ResolvedDay) *CoverageMetrics {
	metrics := &CoverageMetrics{
		DailyCoverage:    make([]DayCoverage, 0, len(days)),
		LocationCoverage: []LocationCoverage{},
		Understaffed:     []UnderstaffedSlot{},
	}
	if result == nil {
		return metrics
	}

	locIndex := make(map[model.LocationID]int)
	satisfied := 0

	for _, day := range days {
		dc := DayCoverage{Date: day.Date}

		for _, loc := range day.Locations {
			idx, ok := locIndex[loc.ID]
			if !ok {
				idx = len(metrics.LocationCoverage)
				locIndex[loc.ID] = idx
				metrics.LocationCoverage = append(metrics.LocationCoverage, LocationCoverage{
					LocationID:   loc.ID,
					LocationName: loc.Name,
				})
			}
			if !loc.IsWorking {
				continue
			}

			assigned := len(result.Assigned(day.Date, loc.ID))

			dc.Operating++
			dc.Required += loc.MinStaff
			dc.Assigned += assigned

			metrics.OperatingSlots++
			metrics.RequiredStaff += loc.MinStaff
			metrics.AssignedStaff += assigned
			metrics.Capacity += loc.MaxStaff
			satisfied += min(assigned, loc.MinStaff)

			lc := &metrics.LocationCoverage[idx]
			lc.OperatingDays++
			lc.Assigned += assigned

			if assigned >= loc.MinStaff {
				metrics.FilledSlots++
				continue
			}
			lc.Understaffed++
			metrics.Understaffed = append(metrics.Understaffed, UnderstaffedSlot{
				Date:             day.Date,
				LocationID:       loc.ID,
				LocationName:     loc.Name,
				Required:         loc.MinStaff,
				Assigned:         assigned,
				Shortage:         loc.MinStaff - assigned,
				FlexibleStaffing: loc.FlexibleStaffing,
			})
		}

		metrics.DailyCoverage = append(metrics.DailyCoverage, dc)
	}

	metrics.UnfilledCapacity = metrics.Capacity - metrics.AssignedStaff
	if metrics.OperatingSlots > 0 {
		metrics.OverallCoverage = float64(metrics.FilledSlots) / float64(metrics.OperatingSlots) * 100
	} else {
		metrics.OverallCoverage = 100
	}
	if metrics.RequiredStaff > 0 {
		metrics.DemandSatisfaction = float64(satisfied) / float64(metrics.RequiredStaff) * 100
	} else {
		metrics.DemandSatisfaction = 100
	}

	return metrics
}

// GenerateCoverageReport 生成覆盖率报告
func (c *CoverageAnalyzer) GenerateCoverageReport(metrics *CoverageMetrics) string {
	var b strings.Builder

	b.WriteString("=== 覆盖率分析报告 ===\n\n")
	b.WriteString("【整体覆盖情况】\n")
	fmt.Fprintf(&b, "  营业拠点日: %d\n", metrics.OperatingSlots)
	fmt.Fprintf(&b, "  达标拠点日: %d\n", metrics.FilledSlots)
	fmt.Fprintf(&b, "  分配人次: %d / 上限 %d\n", metrics.AssignedStaff, metrics.Capacity)
	fmt.Fprintf(&b, "  覆盖率: %.1f%%\n", metrics.OverallCoverage)
	fmt.Fprintf(&b, "  需求满足度: %.1f%%\n\n", metrics.DemandSatisfaction)

	if len(metrics.LocationCoverage) > 0 {
		b.WriteString("【拠点别】\n")
		for _, lc := range metrics.LocationCoverage {
			fmt.Fprintf(&b, "  - %s: 营业%d日，分配%d人次，不足%d日\n",
				lc.LocationName, lc.OperatingDays, lc.Assigned, lc.Understaffed)
		}
		b.WriteString("\n")
	}

	if len(metrics.Understaffed) > 0 {
		b.WriteString("【人手不足】\n")
		for _, u := range metrics.Understaffed {
			fmt.Fprintf(&b, "  - %s %s (需要%d人，仅有%d人，缺%d人)\n",
				u.Date, u.LocationName, u.Required, u.Assigned, u.Shortage)
		}
	}

	return b.String()
}
