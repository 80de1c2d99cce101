package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fujishimakensetsu/shiftmaker/internal/config"
	"github.com/fujishimakensetsu/shiftmaker/internal/metrics"
	"github.com/fujishimakensetsu/shiftmaker/internal/repository"
	"github.com/fujishimakensetsu/shiftmaker/internal/service"
	"github.com/fujishimakensetsu/shiftmaker/pkg/calendar"
	apperrors "github.com/fujishimakensetsu/shiftmaker/pkg/errors"
	"github.com/fujishimakensetsu/shiftmaker/pkg/holiday"
	"github.com/fujishimakensetsu/shiftmaker/pkg/logger"
	"github.com/fujishimakensetsu/shiftmaker/pkg/model"
)

// cli 命令共享的依赖，在 PersistentPreRunE 中初始化
type cli struct {
	cfgPath string
	envFile string

	cfg      *config.Config
	store    repository.Store
	settings *repository.SettingsRepository
	shifts   *repository.ShiftRepository
	svc      *service.ShiftService
	recorder *metrics.Recorder
}

// run 执行命令并返回进程退出码
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	c := &cli{}
	root := newRootCmd(c)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if cerr := c.close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintf(stderr, "错误: %v\n", err)
		return apperrors.GetExitCode(err)
	}
	return apperrors.ExitOK
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:               "shiftmaker",
		Short:             "拠点别月度排班生成工具",
		Long:              "shiftmaker 根据拠点营业规则、员工出勤上限和NG日，生成每月各拠点的排班。",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.open,
	}
	root.PersistentFlags().StringVarP(&c.cfgPath, "config", "c", "", "配置文件 (yaml/json)")
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", ".env 文件")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return apperrors.Wrap(err, apperrors.CodeInvalidInput, "参数错误")
	})

	root.AddCommand(
		newCalendarCmd(c),
		newGenerateCmd(c),
		newShiftsCmd(c),
		newLocationsCmd(c),
		newStaffCmd(c),
		newNGDaysCmd(c),
		newExceptionsCmd(c),
		newSettingsCmd(c),
		newVersionCmd(),
	)
	return root
}

// open 加载配置并打开存储
func (c *cli) open(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(c.envFile); err != nil {
		return apperrors.Wrap(err, apperrors.CodeInvalidInput, "加载 .env 失败")
	}
	cfg, err := config.Load(c.cfgPath)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInvalidInput, "加载配置失败")
	}
	c.cfg = cfg

	logger.Init(logger.Config{
		Level:  cfg.App.LogLevel,
		Format: cfg.App.LogFormat,
		Output: "stderr",
	})

	store, err := repository.OpenStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	c.store = store

	recorder, err := metrics.NewRecorder(nil)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "注册监控指标失败")
	}
	c.recorder = recorder

	c.settings = repository.NewSettingsRepository(store)
	c.shifts = repository.NewShiftRepository(store)
	c.svc = service.NewShiftService(c.settings, c.shifts, calendar.NewResolver(holiday.NewCalendar()), service.Options{
		MaxParallelMonths: cfg.Generate.MaxParallelMonths,
		Timeout:           cfg.Generate.Timeout,
		Recorder:          recorder,
	})
	return nil
}

// close 写出监控指标并关闭存储
func (c *cli) close() error {
	var err error
	if c.recorder != nil && c.cfg != nil && c.cfg.Metrics.Enabled {
		if werr := c.recorder.WriteTextfile(c.cfg.Metrics.TextfilePath); werr != nil {
			logger.WithError(werr).Str("path", c.cfg.Metrics.TextfilePath).Msg("写出监控指标失败")
		}
	}
	if c.store != nil {
		if cerr := c.store.Close(); cerr != nil {
			err = apperrors.Storage(cerr, "关闭存储")
		}
		c.store = nil
	}
	return err
}

// exactArgs 参数个数不符时返回输入错误
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return apperrors.Wrap(err, apperrors.CodeInvalidInput, "参数错误")
		}
		return nil
	}
}

// printJSON 以缩进JSON输出到标准输出
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseMonth 解析 YYYY-MM 参数
func parseMonth(arg string) (int, int, error) {
	year, month, err := model.ParseMonthKey(arg)
	if err != nil {
		return 0, 0, apperrors.Wrap(err, apperrors.CodeInvalidMonth, "年月格式无效")
	}
	return year, month, nil
}

// parseID 解析数字ID参数
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 1 {
		return 0, apperrors.InvalidInput("id", fmt.Sprintf("%q 不是有效的ID", arg))
	}
	return id, nil
}

// readInput 读取文件内容，"-" 表示标准输入
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInvalidInput, "读取输入失败")
	}
	return data, nil
}

// decodeInput 读取并按扩展名解码文件，标准输入按JSON解析
func decodeInput(cmd *cobra.Command, path string, v any) error {
	data, err := readInput(cmd, path)
	if err != nil {
		return err
	}
	name := path
	if path == "-" {
		name = "stdin.json"
	}
	return repository.DecodeFile(name, data, v)
}
