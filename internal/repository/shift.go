package repository

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/fujishimakensetsu/shiftmaker/pkg/errors"
	"github.com/fujishimakensetsu/shiftmaker/pkg/model"
)

// ShiftRecord 已保存的月度排班
type ShiftRecord struct {
	ID          string                    `json:"id" yaml:"id"`
	RunID       uuid.UUID                 `json:"run_id" yaml:"run_id"`
	Year        int                       `json:"year" yaml:"year"`
	Month       int                       `json:"month" yaml:"month"`
	ShiftData   map[string]model.DayShift `json:"shift_data" yaml:"shift_data"`
	StaffCounts map[model.StaffID]int     `json:"staff_counts" yaml:"staff_counts"`
	NGDays      model.NGDays              `json:"ng_days" yaml:"ng_days"`
	Exceptions  model.MonthExceptions     `json:"exceptions" yaml:"exceptions"`
	CreatedAt   time.Time                 `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time                 `json:"updated_at" yaml:"updated_at"`
}

// NewShiftRecord 由排班结果构建记录，同时保存生成时的NG日和例外日快照
func NewShiftRecord(result *model.AssignmentResult, ng model.NGDays, exceptions model.MonthExceptions) *ShiftRecord {
	return &ShiftRecord{
		Year:        result.Year,
		Month:       result.Month,
		ShiftData:   result.Shift,
		StaffCounts: result.StaffCounts,
		NGDays:      ng.Clone(),
		Exceptions:  exceptions.Clone(),
	}
}

// Result 还原为排班结果
func (r *ShiftRecord) Result() *model.AssignmentResult {
	return &model.AssignmentResult{
		Year:        r.Year,
		Month:       r.Month,
		Shift:       r.ShiftData,
		StaffCounts: r.StaffCounts,
	}
}

// ShiftSummary 排班列表项
type ShiftSummary struct {
	ID        string    `json:"id"`
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	RunID     uuid.UUID `json:"run_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ShiftRepository 月度排班仓储
type ShiftRepository struct {
	store Store
	now   func() time.Time
}

// NewShiftRepository 创建排班仓储
func NewShiftRepository(store Store) *ShiftRepository {
	return &ShiftRepository{store: store, now: time.Now}
}

// Save 保存（覆盖）月度排班，覆盖时保留首次创建时间
func (r *ShiftRepository) Save(ctx context.Context, rec *ShiftRecord) error {
	if !model.ValidMonth(rec.Year, rec.Month) {
		return apperrors.InvalidMonth(rec.Year, rec.Month)
	}

	now := r.now().UTC()
	rec.ID = model.MonthKey(rec.Year, rec.Month)
	if rec.RunID == uuid.Nil {
		rec.RunID = uuid.New()
	}
	if rec.ShiftData == nil {
		rec.ShiftData = map[string]model.DayShift{}
	}
	if rec.StaffCounts == nil {
		rec.StaffCounts = map[model.StaffID]int{}
	}

	rec.CreatedAt = now
	existing, err := r.Load(ctx, rec.Year, rec.Month)
	switch {
	case err == nil:
		rec.CreatedAt = existing.CreatedAt
	case !IsNotFound(err):
		return err
	}
	rec.UpdatedAt = now

	data, err := json.Marshal(rec)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "序列化排班失败")
	}
	return r.store.Put(ctx, ShiftKey(rec.Year, rec.Month), data)
}

// Load 读取月度排班
func (r *ShiftRepository) Load(ctx context.Context, year, month int) (*ShiftRecord, error) {
	if !model.ValidMonth(year, month) {
		return nil, apperrors.InvalidMonth(year, month)
	}
	data, err := r.store.Get(ctx, ShiftKey(year, month))
	if IsNotFound(err) {
		return nil, apperrors.NotFound("排班", model.MonthKey(year, month))
	}
	if err != nil {
		return nil, err
	}

	var rec ShiftRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, apperrors.Storage(err, "解析排班 "+model.MonthKey(year, month))
	}
	return &rec, nil
}

// Delete 删除月度排班
func (r *ShiftRepository) Delete(ctx context.Context, year, month int) error {
	if !model.ValidMonth(year, month) {
		return apperrors.InvalidMonth(year, month)
	}
	err := r.store.Delete(ctx, ShiftKey(year, month))
	if IsNotFound(err) {
		return apperrors.NotFound("排班", model.MonthKey(year, month))
	}
	return err
}

// List 列出已保存的排班，按年月倒序
func (r *ShiftRepository) List(ctx context.Context) ([]ShiftSummary, error) {
	keys, err := r.store.Keys(ctx, ShiftKeyPrefix)
	if err != nil {
		return nil, err
	}

	out := make([]ShiftSummary, 0, len(keys))
	for _, key := range keys {
		year, month, err := model.ParseMonthKey(trimShiftKey(key))
		if err != nil {
			continue
		}
		rec, err := r.Load(ctx, year, month)
		if apperrors.Is(err, apperrors.CodeNotFound) {
			// 列出与读取之间被删除
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, ShiftSummary{
			ID:        rec.ID,
			Year:      rec.Year,
			Month:     rec.Month,
			RunID:     rec.RunID,
			UpdatedAt: rec.UpdatedAt,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Month > out[j].Month
	})
	return out, nil
}
