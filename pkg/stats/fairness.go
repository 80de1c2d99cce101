// Package stats 提供排班统计分析功能
package stats

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/fujishimakensetsu/shiftmaker/pkg/model"
)

// FairnessMetrics 公平性指标
type FairnessMetrics struct {
	// 出勤天数公平性
	WorkloadGini     float64 `json:"workload_gini"`      // 出勤天数基尼系数 (0=完全公平, 1=完全不公平)
	WorkloadVariance float64 `json:"workload_variance"`  // 出勤天数方差
	WorkloadStdDev   float64 `json:"workload_std_dev"`   // 出勤天数标准差
	AvgDaysPerStaff  float64 `json:"avg_days_per_staff"` // 人均出勤天数
	MaxDays          float64 `json:"max_days"`
	MinDays          float64 `json:"min_days"`
	DaysRange        float64 `json:"days_range"`

	// 上限利用率公平性，消除社員与パート上限不同带来的差异
	UtilizationGini float64 `json:"utilization_gini"`

	// 周末出勤公平性
	WeekendGini float64 `json:"weekend_gini"`

	StaffStats []StaffStat `json:"staff_stats"`

	// 综合评分 (0-100)
	OverallFairnessScore float64 `json:"overall_fairness_score"`
}

// StaffStat 员工统计
type StaffStat struct {
	StaffID     model.StaffID   `json:"staff_id"`
	StaffName   string          `json:"staff_name"`
	Type        model.StaffType `json:"type"`
	Days        int             `json:"days"`
	MaxDays     int             `json:"max_days"`
	WeekendDays int             `json:"weekend_days"`
	Utilization float64         `json:"utilization"` // 出勤天数 / 上限
	Deviation   float64         `json:"deviation"`   // 与平均值的偏差百分比
}

// FairnessAnalyzer 公平性分析器
type FairnessAnalyzer struct{}

// NewFairnessAnalyzer 创建公平性分析器
func NewFairnessAnalyzer() *FairnessAnalyzer {
	return &FairnessAnalyzer{}
}

// Analyze 分析排班公平性
func (f *FairnessAnalyzer) Analyze(result *model.AssignmentResult, staff []model.Staff) *FairnessMetrics {
	if result == nil || len(staff) == 0 {
		return &FairnessMetrics{
			StaffStats:           []StaffStat{},
			OverallFairnessScore: 100,
		}
	}

	weekendDays := countWeekendDays(result)

	staffStats := make([]StaffStat, 0, len(staff))
	days := make([]float64, 0, len(staff))
	utilization := make([]float64, 0, len(staff))
	weekends := make([]float64, 0, len(staff))

	for _, s := range staff {
		st := StaffStat{
			StaffID:     s.ID,
			StaffName:   s.Name,
			Type:        s.Type,
			Days:        result.StaffCounts[s.ID],
			MaxDays:     s.MaxDays,
			WeekendDays: weekendDays[s.ID],
		}
		if s.MaxDays > 0 {
			st.Utilization = float64(st.Days) / float64(s.MaxDays)
		}
		staffStats = append(staffStats, st)
		days = append(days, float64(st.Days))
		utilization = append(utilization, st.Utilization)
		weekends = append(weekends, float64(st.WeekendDays))
	}

	avg := stat.Mean(days, nil)
	variance := stat.PopVariance(days, nil)
	stdDev := math.Sqrt(variance)
	maxDays, minDays := floats.Max(days), floats.Min(days)

	for i := range staffStats {
		if avg > 0 {
			staffStats[i].Deviation = (float64(staffStats[i].Days) - avg) / avg * 100
		}
	}

	// 按出勤天数倒序，相同天数按ID
	sort.SliceStable(staffStats, func(i, j int) bool {
		if staffStats[i].Days != staffStats[j].Days {
			return staffStats[i].Days > staffStats[j].Days
		}
		return staffStats[i].StaffID < staffStats[j].StaffID
	})

	workloadGini := Gini(days)
	utilizationGini := Gini(utilization)
	weekendGini := Gini(weekends)

	return &FairnessMetrics{
		WorkloadGini:         workloadGini,
		WorkloadVariance:     variance,
		WorkloadStdDev:       stdDev,
		AvgDaysPerStaff:      avg,
		MaxDays:              maxDays,
		MinDays:              minDays,
		DaysRange:            maxDays - minDays,
		UtilizationGini:      utilizationGini,
		WeekendGini:          weekendGini,
		StaffStats:           staffStats,
		OverallFairnessScore: overallScore(utilizationGini, weekendGini, stdDev, avg),
	}
}

// countWeekendDays 统计每名员工的土日出勤天数
func countWeekendDays(result *model.AssignmentResult) map[model.StaffID]int {
	out := make(map[model.StaffID]int)
	for date, day := range result.Shift {
		t, err := time.Parse(model.DateLayout, date)
		if err != nil {
			continue
		}
		wd := model.WeekdayOf(t)
		if wd != model.Saturday && wd != model.Sunday {
			continue
		}
		for _, ids := range day {
			for _, id := range ids {
				out[id]++
			}
		}
	}
	return out
}

// Gini 计算基尼系数，结果截断到 [0, 1]
func Gini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := floats.Sum(sorted)
	if sum == 0 {
		return 0
	}

	gini := 0.0
	for i, v := range sorted {
		gini += (2*float64(i+1) - float64(n) - 1) * v
	}

	gini = gini / (float64(n) * sum)
	return math.Max(0, math.Min(1, gini))
}

// overallScore 综合公平性评分
func overallScore(utilizationGini, weekendGini, stdDev, avg float64) float64 {
	const (
		utilizationWeight = 0.5
		weekendWeight     = 0.3
		stdDevWeight      = 0.2
	)

	// 基尼系数转换为分数 (0=100分, 1=0分)
	utilizationScore := (1 - utilizationGini) * 100
	weekendScore := (1 - weekendGini) * 100

	// 变异系数越低分数越高
	cvScore := 100.0
	if avg > 0 {
		cv := stdDev / avg
		cvScore = math.Max(0, 100-cv*200)
	}

	score := utilizationWeight*utilizationScore +
		weekendWeight*weekendScore +
		stdDevWeight*cvScore

	return math.Max(0, math.Min(100, score))
}
