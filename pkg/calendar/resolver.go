// Package calendar 解析月度日历：逐日、逐拠点判定是否营业
package calendar

import (
	"time"

	"github.com/fujishimakensetsu/shiftmaker/pkg/model"
)

// HolidayCalendar 祝日查询接口
type HolidayCalendar interface {
	IsHoliday(t time.Time) bool
	HolidayName(t time.Time) string
}

// Resolver 日历解析器
type Resolver struct {
	holidays HolidayCalendar
}

// NewResolver 创建日历解析器
func NewResolver(holidays HolidayCalendar) *Resolver {
	return &Resolver{holidays: holidays}
}

// overrides 单个拠点的例外日集合
type overrides struct {
	add    model.DateSet
	remove model.DateSet
}

// Resolve 返回指定年月每一天的营业判定，按日期升序
func (r *Resolver) Resolve(year, month int, locations []model.Location, exceptions model.MonthExceptions) []model.ResolvedDay {
	perLoc := make(map[model.LocationID]overrides, len(exceptions))
	for id, o := range exceptions {
		perLoc[id] = overrides{
			add:    model.NewDateSet(o.Add),
			remove: model.NewDateSet(o.Remove),
		}
	}

	numDays := model.DaysIn(year, month)
	days := make([]model.ResolvedDay, 0, numDays)

	for day := 1; day <= numDays; day++ {
		d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		weekday := model.WeekdayOf(d)
		dateStr := d.Format(model.DateLayout)

		isHoliday := false
		holidayName := ""
		if r.holidays != nil {
			isHoliday = r.holidays.IsHoliday(d)
			holidayName = r.holidays.HolidayName(d)
		}

		info := model.ResolvedDay{
			Date:        dateStr,
			Day:         day,
			Weekday:     weekday,
			WeekdayName: weekday.Label(),
			IsHoliday:   isHoliday,
			HolidayName: holidayName,
			Locations:   make([]model.LocationDay, 0, len(locations)),
		}

		for i := range locations {
			loc := &locations[i]
			isClosedDay := loc.IsClosedOn(weekday)
			info.Locations = append(info.Locations, model.LocationDay{
				ID:               loc.ID,
				Name:             loc.Name,
				IsWorking:        isWorking(loc, weekday, isHoliday, isClosedDay, dateStr, perLoc[loc.ID]),
				IsClosedDay:      isClosedDay,
				MinStaff:         loc.MinStaff,
				MaxStaff:         loc.MaxStaff,
				PartTimePriority: loc.PartTimePriority,
				FlexibleStaffing: loc.FlexibleStaffing,
			})
		}

		days = append(days, info)
	}

	return days
}

// isWorking 按优先级判定：定休日 > 祝日 > 常规营业日，之后依次应用 add、remove
func isWorking(loc *model.Location, weekday model.Weekday, isHoliday, isClosedDay bool, date string, o overrides) bool {
	// 定休日不受例外日和祝日影响
	if isClosedDay {
		return false
	}

	working := false
	if isHoliday {
		working = loc.WorkOnHolidays
	} else {
		working = loc.WorksOn(weekday)
	}

	if o.add.Has(date) {
		working = true
	}
	if o.remove.Has(date) {
		working = false
	}
	return working
}
