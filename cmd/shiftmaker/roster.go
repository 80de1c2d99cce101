package main

import (
	"github.com/spf13/cobra"

	"github.com/fujishimakensetsu/shiftmaker/pkg/model"
)

// locationFlags 拠点相关参数，只应用显式指定的项
type locationFlags struct {
	name             string
	workingDays      []int
	closedDays       []int
	workOnHolidays   bool
	minStaff         int
	maxStaff         int
	partTimePriority bool
	flexible         bool
}

func (f *locationFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.name, "name", "", "拠点名")
	fs.IntSliceVar(&f.workingDays, "working-days", nil, "营业星期 (0=月 ... 6=日)")
	fs.IntSliceVar(&f.closedDays, "closed-days", nil, "定休日星期 (0=月 ... 6=日)")
	fs.BoolVar(&f.workOnHolidays, "work-on-holidays", true, "节假日是否营业")
	fs.IntVar(&f.minStaff, "min-staff", 1, "最少人数")
	fs.IntVar(&f.maxStaff, "max-staff", 2, "最多人数")
	fs.BoolVar(&f.partTimePriority, "part-time-priority", false, "パート优先分配")
	fs.BoolVar(&f.flexible, "flexible-staffing", false, "有パート时允许少于最少人数")
}

func (f *locationFlags) apply(cmd *cobra.Command, l *model.Location) {
	fs := cmd.Flags()
	if fs.Changed("name") {
		l.Name = f.name
	}
	if fs.Changed("working-days") {
		l.WorkingDays = toWeekdays(f.workingDays)
	}
	if fs.Changed("closed-days") {
		l.ClosedDays = toWeekdays(f.closedDays)
	}
	if fs.Changed("work-on-holidays") {
		l.WorkOnHolidays = f.workOnHolidays
	}
	if fs.Changed("min-staff") {
		l.MinStaff = f.minStaff
	}
	if fs.Changed("max-staff") {
		l.MaxStaff = f.maxStaff
	}
	if fs.Changed("part-time-priority") {
		l.PartTimePriority = f.partTimePriority
	}
	if fs.Changed("flexible-staffing") {
		l.FlexibleStaffing = f.flexible
	}
}

func toWeekdays(days []int) []model.Weekday {
	out := make([]model.Weekday, len(days))
	for i, d := range days {
		out[i] = model.Weekday(d)
	}
	return out
}

func newLocationsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locations",
		Short: "管理拠点",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "列出拠点",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.settings.Load(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, s.Locations)
		},
	})

	var addFlags locationFlags
	add := &cobra.Command{
		Use:   "add",
		Short: "新增拠点",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			loc := model.NewLocation(0, addFlags.name)
			addFlags.apply(cmd, &loc)
			loc, err := c.settings.AddLocation(cmd.Context(), loc)
			if err != nil {
				return err
			}
			return printJSON(cmd, loc)
		},
	}
	addFlags.bind(add)
	_ = add.MarkFlagRequired("name")
	cmd.AddCommand(add)

	var updateFlags locationFlags
	update := &cobra.Command{
		Use:   "update ID",
		Short: "修改拠点",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			loc, err := c.settings.UpdateLocation(cmd.Context(), model.LocationID(id), func(l *model.Location) {
				updateFlags.apply(cmd, l)
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, loc)
		},
	}
	updateFlags.bind(update)
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete ID",
		Short: "删除拠点",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := c.settings.DeleteLocation(cmd.Context(), model.LocationID(id)); err != nil {
				return err
			}
			return printJSON(cmd, map[string]int{"deleted": id})
		},
	})

	return cmd
}

// staffFlags 员工相关参数，只应用显式指定的项
type staffFlags struct {
	name      string
	staffType string
	maxDays   int
	locations []int
}

func (f *staffFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.name, "name", "", "姓名")
	fs.StringVar(&f.staffType, "type", string(model.StaffRegular), "雇佣类型 (regular/part_time/社員/パート)")
	fs.IntVar(&f.maxDays, "max-days", 31, "月出勤上限")
	fs.IntSliceVar(&f.locations, "locations", nil, "パート可出勤的拠点ID")
}

func (f *staffFlags) apply(cmd *cobra.Command, s *model.Staff) {
	fs := cmd.Flags()
	if fs.Changed("name") {
		s.Name = f.name
	}
	if fs.Changed("type") {
		s.Type = model.StaffType(f.staffType)
	}
	if fs.Changed("max-days") {
		s.MaxDays = f.maxDays
	}
	if fs.Changed("locations") {
		s.AssignedLocations = make([]model.LocationID, len(f.locations))
		for i, id := range f.locations {
			s.AssignedLocations[i] = model.LocationID(id)
		}
	}
}

func newStaffCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staff",
		Short: "管理员工",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "列出员工",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.settings.Load(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, s.Staff)
		},
	})

	var addFlags staffFlags
	add := &cobra.Command{
		Use:   "add",
		Short: "新增员工",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			st := model.NewStaff(0, addFlags.name)
			addFlags.apply(cmd, &st)
			st, err := c.settings.AddStaff(cmd.Context(), st)
			if err != nil {
				return err
			}
			return printJSON(cmd, st)
		},
	}
	addFlags.bind(add)
	_ = add.MarkFlagRequired("name")
	cmd.AddCommand(add)

	var updateFlags staffFlags
	update := &cobra.Command{
		Use:   "update ID",
		Short: "修改员工",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			st, err := c.settings.UpdateStaff(cmd.Context(), model.StaffID(id), func(s *model.Staff) {
				updateFlags.apply(cmd, s)
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, st)
		},
	}
	updateFlags.bind(update)
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete ID",
		Short: "删除员工",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := c.settings.DeleteStaff(cmd.Context(), model.StaffID(id)); err != nil {
				return err
			}
			return printJSON(cmd, map[string]int{"deleted": id})
		},
	})

	return cmd
}
