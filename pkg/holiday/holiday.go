// Package holiday 提供日本国民祝日计算
//
// 规则覆盖 1980 至 2099 年：固定日期祝日、ハッピーマンデー、春分/秋分近似公式、
// 2019-2021 年的特例调整、振替休日和国民の休日。
package holiday

import (
	"math"
	"sort"
	"sync"
	"time"
)

const (
	MinYear = 1980
	MaxYear = 2099

	nameSubstitute = "振替休日"
	nameCitizens   = "国民の休日"
)

// Holiday 祝日
type Holiday struct {
	Date string `json:"date"` // YYYY-MM-DD
	Name string `json:"name"`
}

// Calendar 日本祝日日历，按年缓存计算结果，可并发使用
type Calendar struct {
	mu    sync.Mutex
	years map[int]map[string]string
}

// NewCalendar 创建祝日日历
func NewCalendar() *Calendar {
	return &Calendar{years: make(map[int]map[string]string)}
}

// IsHoliday 检查是否为祝日
func (c *Calendar) IsHoliday(t time.Time) bool {
	return c.HolidayName(t) != ""
}

// HolidayName 返回祝日名称，非祝日返回空字符串
func (c *Calendar) HolidayName(t time.Time) string {
	return c.year(t.Year())[dateKey(t.Year(), t.Month(), t.Day())]
}

// Holidays 返回指定年份的全部祝日（按日期升序）
func (c *Calendar) Holidays(year int) []Holiday {
	m := c.year(year)
	out := make([]Holiday, 0, len(m))
	for d, name := range m {
		out = append(out, Holiday{Date: d, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func (c *Calendar) year(y int) map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.years[y]; ok {
		return m
	}
	m := compute(y)
	c.years[y] = m
	return m
}

func dateKey(y int, m time.Month, d int) string {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}

// nthMonday 返回某月第n个周一的日期
func nthMonday(y int, m time.Month, n int) int {
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(time.Monday) - int(first.Weekday()) + 7) % 7
	return 1 + offset + (n-1)*7
}

// vernalEquinox 春分日
func vernalEquinox(y int) int {
	return int(math.Floor(20.8431 + 0.242194*float64(y-1980) - math.Floor(float64(y-1980)/4)))
}

// autumnalEquinox 秋分日
func autumnalEquinox(y int) int {
	return int(math.Floor(23.2488 + 0.242194*float64(y-1980) - math.Floor(float64(y-1980)/4)))
}

func compute(y int) map[string]string {
	h := make(map[string]string)
	if y < MinYear || y > MaxYear {
		return h
	}
	add := func(m time.Month, d int, name string) {
		h[dateKey(y, m, d)] = name
	}

	add(time.January, 1, "元日")
	if y >= 2000 {
		add(time.January, nthMonday(y, time.January, 2), "成人の日")
	} else {
		add(time.January, 15, "成人の日")
	}
	add(time.February, 11, "建国記念の日")
	switch {
	case y >= 2020:
		add(time.February, 23, "天皇誕生日")
	case y >= 1989 && y <= 2018:
		add(time.December, 23, "天皇誕生日")
	case y < 1989:
		add(time.April, 29, "天皇誕生日")
	}
	add(time.March, vernalEquinox(y), "春分の日")
	switch {
	case y >= 2007:
		add(time.April, 29, "昭和の日")
		add(time.May, 4, "みどりの日")
	case y >= 1989:
		add(time.April, 29, "みどりの日")
	}
	add(time.May, 3, "憲法記念日")
	add(time.May, 5, "こどもの日")

	switch {
	case y == 2020:
		add(time.July, 23, "海の日")
	case y == 2021:
		add(time.July, 22, "海の日")
	case y >= 2003:
		add(time.July, nthMonday(y, time.July, 3), "海の日")
	case y >= 1996:
		add(time.July, 20, "海の日")
	}

	switch {
	case y == 2020:
		add(time.August, 10, "山の日")
	case y == 2021:
		add(time.August, 8, "山の日")
	case y >= 2016:
		add(time.August, 11, "山の日")
	}

	if y >= 2003 {
		add(time.September, nthMonday(y, time.September, 3), "敬老の日")
	} else {
		add(time.September, 15, "敬老の日")
	}
	add(time.September, autumnalEquinox(y), "秋分の日")

	switch {
	case y == 2020:
		add(time.July, 24, "スポーツの日")
	case y == 2021:
		add(time.July, 23, "スポーツの日")
	case y >= 2022:
		add(time.October, nthMonday(y, time.October, 2), "スポーツの日")
	case y >= 2000:
		add(time.October, nthMonday(y, time.October, 2), "体育の日")
	default:
		add(time.October, 10, "体育の日")
	}
	add(time.November, 3, "文化の日")
	add(time.November, 23, "勤労感謝の日")

	switch y {
	case 1989:
		add(time.February, 24, "昭和天皇の大喪の礼")
	case 1990:
		add(time.November, 12, "即位礼正殿の儀")
	case 1993:
		add(time.June, 9, "結婚の儀")
	case 2019:
		add(time.May, 1, "休日（祝日扱い）")
		add(time.October, 22, "休日（祝日扱い）")
	}

	addCitizensHolidays(y, h)
	addSubstituteHolidays(y, h)
	return h
}

// addCitizensHolidays 前后均为祝日的平日成为国民の休日
func addCitizensHolidays(y int, h map[string]string) {
	if y < 1986 {
		return
	}
	var found []string
	start := time.Date(y, time.January, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC)
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		if _, ok := h[key]; ok || d.Weekday() == time.Sunday {
			continue
		}
		_, prev := h[d.AddDate(0, 0, -1).Format("2006-01-02")]
		_, next := h[d.AddDate(0, 0, 1).Format("2006-01-02")]
		if prev && next {
			found = append(found, key)
		}
	}
	for _, key := range found {
		h[key] = nameCitizens
	}
}

// addSubstituteHolidays 周日的祝日顺延到之后第一个非祝日
func addSubstituteHolidays(y int, h map[string]string) {
	var sundays []time.Time
	for key := range h {
		d, _ := time.Parse("2006-01-02", key)
		if d.Weekday() == time.Sunday && h[key] != nameCitizens {
			sundays = append(sundays, d)
		}
	}
	sort.Slice(sundays, func(i, j int) bool { return sundays[i].Before(sundays[j]) })

	for _, d := range sundays {
		next := d.AddDate(0, 0, 1)
		if y >= 2007 {
			for {
				if _, ok := h[next.Format("2006-01-02")]; !ok {
					break
				}
				next = next.AddDate(0, 0, 1)
			}
		} else if _, ok := h[next.Format("2006-01-02")]; ok {
			continue
		}
		if next.Year() == y {
			h[next.Format("2006-01-02")] = nameSubstitute
		}
	}
}
