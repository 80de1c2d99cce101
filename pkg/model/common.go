// Package model 定义排班引擎的核心数据模型
package model

import (
	"fmt"
	"time"
)

// DateLayout 日期格式 (ISO 8601)
const DateLayout = "2006-01-02"

// LocationID 拠点ID
type LocationID int

// StaffID 员工ID
type StaffID int

// Weekday 星期（0=周一 ... 6=周日）
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayLabels = [7]string{"月", "火", "水", "木", "金", "土", "日"}

// WeekdayOf 返回日期对应的星期（周一为0）
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

// Label 返回日文星期标签
func (w Weekday) Label() string {
	if w < Monday || w > Sunday {
		return ""
	}
	return weekdayLabels[w]
}

// Valid 检查星期取值是否合法
func (w Weekday) Valid() bool {
	return w >= Monday && w <= Sunday
}

// ContainsWeekday 检查星期集合中是否包含指定星期
func ContainsWeekday(days []Weekday, w Weekday) bool {
	for _, d := range days {
		if d == w {
			return true
		}
	}
	return false
}

// MonthKey 返回年月键 (YYYY-MM)
func MonthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// ParseMonthKey 解析年月键 (YYYY-MM)
func ParseMonthKey(key string) (year, month int, err error) {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return 0, 0, fmt.Errorf("年月格式无效 %q，应为YYYY-MM: %w", key, err)
	}
	return t.Year(), int(t.Month()), nil
}

// DaysIn 返回指定年月的天数
func DaysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ValidMonth 检查年月是否合法
func ValidMonth(year, month int) bool {
	return year >= 1 && year <= 9999 && month >= 1 && month <= 12
}

// DateSet 日期集合
type DateSet map[string]struct{}

// NewDateSet 从日期列表创建集合
func NewDateSet(dates []string) DateSet {
	set := make(DateSet, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}
	return set
}

// Has 检查集合中是否包含日期
func (s DateSet) Has(date string) bool {
	_, ok := s[date]
	return ok
}
