package main

import (
	"github.com/spf13/cobra"

	"github.com/fujishimakensetsu/shiftmaker/internal/repository"
)

func newShiftsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shifts",
		Short: "管理已保存的排班",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "列出已保存的排班",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := c.shifts.List(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, list)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show YYYY-MM",
		Short: "显示指定月份的排班",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, month, err := parseMonth(args[0])
			if err != nil {
				return err
			}
			rec, err := c.shifts.Load(cmd.Context(), year, month)
			if err != nil {
				return err
			}
			return printJSON(cmd, rec)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "save FILE",
		Short: "校验并保存人工修改后的排班",
		Long:  "FILE 为 shifts show 输出格式的排班记录（json/yaml，- 表示标准输入）。存在冲突时不保存。",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var rec repository.ShiftRecord
			if err := decodeInput(cmd, args[0], &rec); err != nil {
				return err
			}
			conflicts, err := c.svc.SaveEdited(cmd.Context(), &rec)
			if err != nil {
				if len(conflicts) > 0 {
					if perr := printJSON(cmd, conflicts); perr != nil {
						return perr
					}
				}
				return err
			}
			return printJSON(cmd, &rec)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete YYYY-MM",
		Short: "删除指定月份的排班",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, month, err := parseMonth(args[0])
			if err != nil {
				return err
			}
			if err := c.shifts.Delete(cmd.Context(), year, month); err != nil {
				return err
			}
			return printJSON(cmd, map[string]string{"deleted": args[0]})
		},
	})

	return cmd
}
