package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/fujishimakensetsu/shiftmaker/internal/repository"
	apperrors "github.com/fujishimakensetsu/shiftmaker/pkg/errors"
	"github.com/fujishimakensetsu/shiftmaker/pkg/model"
)

func newNGDaysCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ngdays",
		Short: "管理员工NG日",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "显示NG日",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.settings.Load(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, s.NGDays)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set FILE",
		Short: "用文件内容替换全部NG日",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ng model.NGDays
			if err := decodeInput(cmd, args[0], &ng); err != nil {
				return err
			}
			if err := c.settings.SetNGDays(cmd.Context(), ng); err != nil {
				return err
			}
			return printJSON(cmd, ng)
		},
	})

	return cmd
}

func newExceptionsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exceptions",
		Short: "管理月度例外日",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show YYYY-MM",
		Short: "显示指定月份的例外日",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, month, err := parseMonth(args[0])
			if err != nil {
				return err
			}
			ex, err := c.settings.MonthExceptions(cmd.Context(), year, month)
			if err != nil {
				return err
			}
			return printJSON(cmd, ex)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set YYYY-MM FILE",
		Short: "替换指定月份的例外日",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, month, err := parseMonth(args[0])
			if err != nil {
				return err
			}
			var ex model.MonthExceptions
			if err := decodeInput(cmd, args[1], &ex); err != nil {
				return err
			}
			if err := c.settings.SetMonthExceptions(cmd.Context(), year, month, ex); err != nil {
				return err
			}
			return printJSON(cmd, ex)
		},
	})

	return cmd
}

func newSettingsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "导入导出全部配置",
	}

	var (
		format string
		output string
	)
	export := &cobra.Command{
		Use:   "export",
		Short: "导出配置",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := repository.FormatFromPath(output)
			if cmd.Flags().Changed("format") || output == "" {
				parsed, err := repository.ParseFormat(format)
				if err != nil {
					return err
				}
				f = parsed
			}
			data, err := c.settings.Export(cmd.Context(), f)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return apperrors.Wrap(err, apperrors.CodeInternal, "写出文件失败")
			}
			return nil
		},
	}
	export.Flags().StringVarP(&format, "format", "f", string(repository.FormatJSON), "格式 (json/yaml)")
	export.Flags().StringVarP(&output, "output", "o", "", "输出文件，默认标准输出")
	cmd.AddCommand(export)

	cmd.AddCommand(&cobra.Command{
		Use:   "import FILE",
		Short: "导入配置，只替换文件中包含的部分",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			s, err := c.settings.Import(cmd.Context(), data, repository.FormatFromPath(args[0]))
			if err != nil {
				return err
			}
			return printJSON(cmd, s)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "恢复初始配置",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.settings.Reset(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, s)
		},
	})

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "显示版本信息",
		Args:  exactArgs(0),
		// 不需要配置和存储
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printJSON(cmd, map[string]string{
				"version":    Version,
				"build_time": BuildTime,
				"git_commit": GitCommit,
			})
		},
	}
}
