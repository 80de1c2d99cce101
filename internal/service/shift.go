// Package service 组合仓储与排班引擎，提供排班生成流程
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fujishimakensetsu/shiftmaker/internal/metrics"
	"github.com/fujishimakensetsu/shiftmaker/internal/repository"
	"github.com/fujishimakensetsu/shiftmaker/pkg/calendar"
	apperrors "github.com/fujishimakensetsu/shiftmaker/pkg/errors"
	"github.com/fujishimakensetsu/shiftmaker/pkg/logger"
	"github.com/fujishimakensetsu/shiftmaker/pkg/model"
	"github.com/fujishimakensetsu/shiftmaker/pkg/scheduler/solver"
	"github.com/fujishimakensetsu/shiftmaker/pkg/stats"
	"github.com/fujishimakensetsu/shiftmaker/pkg/validator"
)

// Overrides 生成请求中临时指定的数据，nil 表示使用已保存的配置
type Overrides struct {
	NGDays     model.NGDays     `json:"ng_days,omitempty"`
	Exceptions model.Exceptions `json:"exceptions,omitempty"` // 按年月键，生成时会保存
}

// Stats 生成结果统计
type Stats struct {
	Fairness *stats.FairnessMetrics `json:"fairness"`
	Coverage *stats.CoverageMetrics `json:"coverage"`
}

// Generation 单月生成结果
type Generation struct {
	RunID      uuid.UUID               `json:"run_id"`
	Result     *model.AssignmentResult `json:"result"`
	Days       []model.ResolvedDay     `json:"days"`
	Stats      Stats                   `json:"stats"`
	Conflicts  []validator.Conflict    `json:"conflicts"`
	NGDays     model.NGDays            `json:"-"`
	Exceptions model.MonthExceptions   `json:"-"`
	Duration   time.Duration           `json:"-"`
}

// Options 服务选项
type Options struct {
	MaxParallelMonths int
	Timeout           time.Duration
	Recorder          *metrics.Recorder // 可为 nil
}

// ShiftService 排班服务
type ShiftService struct {
	settings *repository.SettingsRepository
	shifts   *repository.ShiftRepository
	resolver *calendar.Resolver
	detector *validator.ConflictDetector
	fairness *stats.FairnessAnalyzer
	coverage *stats.CoverageAnalyzer
	recorder *metrics.Recorder
	parallel int
	timeout  time.Duration
}

// NewShiftService 创建排班服务
func NewShiftService(settings *repository.SettingsRepository, shifts *repository.ShiftRepository, resolver *calendar.Resolver, opts Options) *ShiftService {
	if opts.MaxParallelMonths < 1 {
		opts.MaxParallelMonths = 1
	}
	return &ShiftService{
		settings: settings,
		shifts:   shifts,
		resolver: resolver,
		detector: validator.NewConflictDetector(nil),
		fairness: stats.NewFairnessAnalyzer(),
		coverage: stats.NewCoverageAnalyzer(),
		recorder: opts.Recorder,
		parallel: opts.MaxParallelMonths,
		timeout:  opts.Timeout,
	}
}

// Calendar 解析指定月份的营业日历
func (s *ShiftService) Calendar(ctx context.Context, year, month int) ([]model.ResolvedDay, error) {
	if !model.ValidMonth(year, month) {
		return nil, apperrors.InvalidMonth(year, month)
	}
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return nil, err
	}
	return s.resolver.Resolve(year, month, settings.Locations, settings.Exceptions.ForMonth(year, month)), nil
}

// Generate 生成单月排班
func (s *ShiftService) Generate(ctx context.Context, year, month int, ov *Overrides) (*Generation, error) {
	gens, err := s.GenerateMonths(ctx, year, month, 1, ov)
	if err != nil {
		return nil, err
	}
	return gens[0], nil
}

// GenerateMonths 从指定月份起连续生成 n 个月
//
// 各月份使用配置的深拷贝并行计算，结果按月份顺序返回。
func (s *ShiftService) GenerateMonths(ctx context.Context, year, month, n int, ov *Overrides) ([]*Generation, error) {
	if !model.ValidMonth(year, month) {
		return nil, apperrors.InvalidMonth(year, month)
	}
	if n < 1 || n > 12 {
		return nil, apperrors.InvalidInput("months", "应为1到12")
	}
	if ov == nil {
		ov = &Overrides{}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	months := make([][2]int, n)
	for i := range months {
		t := time.Date(year, time.Month(month)+time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		months[i] = [2]int{t.Year(), int(t.Month())}
	}

	inRange, err := exceptionMonths(ov.Exceptions, months)
	if err != nil {
		return nil, err
	}

	settings, err := s.settings.Load(ctx)
	if err != nil {
		return nil, err
	}
	if ov.NGDays != nil {
		settings.NGDays = ov.NGDays.Clone()
	}
	for key, monthEx := range ov.Exceptions {
		if monthEx == nil {
			monthEx = model.MonthExceptions{}
		}
		settings.Exceptions[key] = monthEx.Clone()
	}

	gens := make([]*Generation, n)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.parallel)
	for i, ym := range months {
		snapshot := settings.Clone()
		eg.Go(func() error {
			g, err := s.generate(egCtx, snapshot, ym[0], ym[1])
			if err != nil {
				return err
			}
			gens[i] = g
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		if s.recorder != nil {
			s.recorder.RecordFailure()
		}
		return nil, err
	}

	// 生成成功后才保存请求中的例外日
	for key, monthEx := range ov.Exceptions {
		ym := inRange[key]
		if err := s.settings.SetMonthExceptions(ctx, ym[0], ym[1], monthEx); err != nil {
			return nil, err
		}
	}
	return gens, nil
}

// exceptionMonths 检查请求中的例外日只包含本次生成范围内的月份，返回年月键到年月的映射
func exceptionMonths(ex model.Exceptions, months [][2]int) (map[string][2]int, error) {
	inRange := make(map[string][2]int, len(months))
	for _, ym := range months {
		inRange[model.MonthKey(ym[0], ym[1])] = ym
	}
	for key := range ex {
		if _, ok := inRange[key]; !ok {
			return nil, apperrors.InvalidInput("exceptions", fmt.Sprintf("%s 不在生成范围内", key))
		}
	}
	return inRange, nil
}

// generate 对单月执行解析、分配、校验和统计
func (s *ShiftService) generate(ctx context.Context, settings *model.Settings, year, month int) (*Generation, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeTimeout, "排班生成被取消")
	}

	runID := uuid.New()
	ctx = logger.ContextWithRunID(ctx, runID.String())
	log := logger.WithContext(ctx)
	monthKey := model.MonthKey(year, month)

	start := time.Now()
	exceptions := settings.Exceptions.ForMonth(year, month)
	days := s.resolver.Resolve(year, month, settings.Locations, exceptions)

	engine := solver.NewGreedySolver(s.resolver).WithLogger(logger.NewSchedulerLoggerFrom(*log))
	result := engine.AssignDays(year, month, days, settings.Staff, settings.NGDays)
	duration := time.Since(start)

	conflicts := s.detector.DetectAll(result, days, settings.Staff, settings.NGDays)
	coverage := s.coverage.Analyze(result, days)

	if s.recorder != nil {
		s.recorder.RecordGeneration(monthKey, duration, coverage.AssignedStaff, len(coverage.Understaffed))
		for _, c := range conflicts {
			s.recorder.RecordConflict(string(c.Type))
		}
	}
	if validator.HasErrors(conflicts) {
		log.Error().Int("conflicts", len(conflicts)).Str("month", monthKey).Msg("排班结果存在冲突")
	}
	if len(coverage.Understaffed) > 0 {
		log.Warn().Int("understaffed", len(coverage.Understaffed)).Str("month", monthKey).Msg("部分拠点人手不足")
	}

	return &Generation{
		RunID:  runID,
		Result: result,
		Days:   days,
		Stats: Stats{
			Fairness: s.fairness.Analyze(result, settings.Staff),
			Coverage: coverage,
		},
		Conflicts:  conflicts,
		NGDays:     settings.NGDays,
		Exceptions: exceptions,
		Duration:   duration,
	}, nil
}

// Save 保存生成结果
func (s *ShiftService) Save(ctx context.Context, g *Generation) (*repository.ShiftRecord, error) {
	rec := repository.NewShiftRecord(g.Result, g.NGDays, g.Exceptions)
	rec.RunID = g.RunID
	if err := s.shifts.Save(ctx, rec); err != nil {
		return nil, err
	}
	logger.Info().
		Str("month", rec.ID).
		Str("run_id", rec.RunID.String()).
		Msg("排班已保存")
	return rec, nil
}

// SaveEdited 校验人工修改后的排班并保存，存在错误级冲突时拒绝保存
func (s *ShiftService) SaveEdited(ctx context.Context, rec *repository.ShiftRecord) ([]validator.Conflict, error) {
	if !model.ValidMonth(rec.Year, rec.Month) {
		return nil, apperrors.InvalidMonth(rec.Year, rec.Month)
	}
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return nil, err
	}
	if rec.NGDays == nil {
		rec.NGDays = settings.NGDays.Clone()
	}
	if rec.Exceptions == nil {
		rec.Exceptions = settings.Exceptions.ForMonth(rec.Year, rec.Month).Clone()
	}

	result := rec.Result()
	result.StaffCounts = make(map[model.StaffID]int, len(settings.Staff))
	for _, st := range settings.Staff {
		result.StaffCounts[st.ID] = result.DaysAssigned(st.ID)
	}
	rec.StaffCounts = result.StaffCounts

	days := s.resolver.Resolve(rec.Year, rec.Month, settings.Locations, rec.Exceptions)
	conflicts := s.detector.DetectAll(result, days, settings.Staff, rec.NGDays)
	if validator.HasErrors(conflicts) {
		return conflicts, conflictError(conflicts)
	}
	if err := s.shifts.Save(ctx, rec); err != nil {
		return conflicts, err
	}
	return conflicts, nil
}

// conflictError 将首个错误级冲突转换为应用错误
func conflictError(conflicts []validator.Conflict) error {
	var msgs []string
	var first *validator.Conflict
	for i := range conflicts {
		c := &conflicts[i]
		if c.Severity != validator.SeverityError {
			continue
		}
		if first == nil {
			first = c
		}
		msgs = append(msgs, c.Message)
	}
	return apperrors.ScheduleConflict(fmt.Sprint(first.StaffID), first.Date, first.Message).
		WithDetails(strings.Join(msgs, "; ")).
		WithField("conflicts", len(msgs))
}
