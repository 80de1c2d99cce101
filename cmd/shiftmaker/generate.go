package main

import (
	"github.com/spf13/cobra"

	"github.com/fujishimakensetsu/shiftmaker/internal/service"
	"github.com/fujishimakensetsu/shiftmaker/pkg/model"
)

func newCalendarCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "calendar YYYY-MM",
		Short: "显示指定月份各拠点的营业日历",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, month, err := parseMonth(args[0])
			if err != nil {
				return err
			}
			days, err := c.svc.Calendar(cmd.Context(), year, month)
			if err != nil {
				return err
			}
			return printJSON(cmd, days)
		},
	}
}

// generateOutput generate 命令的输出
type generateOutput struct {
	*service.Generation
	Saved bool `json:"saved"`
}

func newGenerateCmd(c *cli) *cobra.Command {
	var (
		months         int
		save           bool
		ngFile         string
		exceptionsFile string
	)

	cmd := &cobra.Command{
		Use:   "generate YYYY-MM",
		Short: "生成月度排班",
		Long: `从指定月份开始生成排班。

--ng-file 指定的NG日只用于本次生成；--exceptions-file 指定的例外日
（按 YYYY-MM 分组）会保存到配置中。`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, month, err := parseMonth(args[0])
			if err != nil {
				return err
			}

			ov := &service.Overrides{}
			if ngFile != "" {
				var ng model.NGDays
				if err := decodeInput(cmd, ngFile, &ng); err != nil {
					return err
				}
				if ng == nil {
					ng = model.NGDays{}
				}
				ov.NGDays = ng
			}
			if exceptionsFile != "" {
				if err := decodeInput(cmd, exceptionsFile, &ov.Exceptions); err != nil {
					return err
				}
			}

			gens, err := c.svc.GenerateMonths(cmd.Context(), year, month, months, ov)
			if err != nil {
				return err
			}

			out := make([]generateOutput, len(gens))
			for i, g := range gens {
				out[i].Generation = g
				if save {
					if _, err := c.svc.Save(cmd.Context(), g); err != nil {
						return err
					}
					out[i].Saved = true
				}
			}

			if len(out) == 1 {
				return printJSON(cmd, out[0])
			}
			return printJSON(cmd, out)
		},
	}

	cmd.Flags().IntVarP(&months, "months", "n", 1, "连续生成的月数 (1-12)")
	cmd.Flags().BoolVar(&save, "save", false, "保存生成结果")
	cmd.Flags().StringVar(&ngFile, "ng-file", "", "本次使用的NG日文件 (json/yaml)")
	cmd.Flags().StringVar(&exceptionsFile, "exceptions-file", "", "例外日文件 (json/yaml)，会被保存")
	return cmd
}
