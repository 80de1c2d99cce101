package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	apperrors "github.com/fujishimakensetsu/shiftmaker/pkg/errors"
	"github.com/fujishimakensetsu/shiftmaker/pkg/model"
)

// SettingsRepository 配置仓储
//
// 每次修改都是读取、变更、整体写回；同一进程内的修改由互斥锁串行化。
type SettingsRepository struct {
	store Store
	mu    sync.Mutex
	now   func() time.Time
}

// NewSettingsRepository 创建配置仓储
func NewSettingsRepository(store Store) *SettingsRepository {
	return &SettingsRepository{store: store, now: time.Now}
}

// Load 读取配置，尚未保存过时返回默认配置
func (r *SettingsRepository) Load(ctx context.Context) (*model.Settings, error) {
	data, err := r.store.Get(ctx, SettingsKey)
	if IsNotFound(err) {
		return model.DefaultSettings(), nil
	}
	if err != nil {
		return nil, err
	}

	var s model.Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, apperrors.Storage(err, "解析配置")
	}
	if err := s.Normalize(); err != nil {
		return nil, apperrors.FromValidation(err)
	}
	return &s, nil
}

// Save 校验并保存配置
func (r *SettingsRepository) Save(ctx context.Context, s *model.Settings) error {
	if err := s.Normalize(); err != nil {
		return apperrors.FromValidation(err)
	}
	if err := s.Validate(); err != nil {
		return apperrors.FromValidation(err)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "序列化配置失败")
	}
	return r.store.Put(ctx, SettingsKey, data)
}

// Reset 恢复默认配置
func (r *SettingsRepository) Reset(ctx context.Context) (*model.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := model.DefaultSettings()
	if err := r.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// update 读取、变更并写回
func (r *SettingsRepository) update(ctx context.Context, fn func(s *model.Settings) error) (*model.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	if err := r.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// AddLocation 新增拠点，ID 为现有最大值加一
func (r *SettingsRepository) AddLocation(ctx context.Context, loc model.Location) (model.Location, error) {
	_, err := r.update(ctx, func(s *model.Settings) error {
		loc.ID = s.NextLocationID()
		if err := model.ValidateLocation(&loc); err != nil {
			return apperrors.FromValidation(err)
		}
		s.Locations = append(s.Locations, loc)
		return nil
	})
	return loc, err
}

// UpdateLocation 修改拠点
func (r *SettingsRepository) UpdateLocation(ctx context.Context, id model.LocationID, fn func(l *model.Location)) (model.Location, error) {
	var out model.Location
	_, err := r.update(ctx, func(s *model.Settings) error {
		i, ok := s.FindLocation(id)
		if !ok {
			return apperrors.NotFound("拠点", strconv.Itoa(int(id)))
		}
		fn(&s.Locations[i])
		s.Locations[i].ID = id
		if err := model.ValidateLocation(&s.Locations[i]); err != nil {
			return apperrors.FromValidation(err)
		}
		out = s.Locations[i]
		return nil
	})
	return out, err
}

// DeleteLocation 删除拠点
func (r *SettingsRepository) DeleteLocation(ctx context.Context, id model.LocationID) error {
	_, err := r.update(ctx, func(s *model.Settings) error {
		i, ok := s.FindLocation(id)
		if !ok {
			return apperrors.NotFound("拠点", strconv.Itoa(int(id)))
		}
		s.Locations = append(s.Locations[:i], s.Locations[i+1:]...)
		return nil
	})
	return err
}

// AddStaff 新增员工，ID 为现有最大值加一
func (r *SettingsRepository) AddStaff(ctx context.Context, st model.Staff) (model.Staff, error) {
	_, err := r.update(ctx, func(s *model.Settings) error {
		st.ID = s.NextStaffID()
		t, err := model.ParseStaffType(string(st.Type))
		if err != nil {
			return apperrors.InvalidInput("type", err.Error())
		}
		st.Type = t
		if err := model.ValidateStaff(&st); err != nil {
			return apperrors.FromValidation(err)
		}
		s.Staff = append(s.Staff, st)
		return nil
	})
	return st, err
}

// UpdateStaff 修改员工
func (r *SettingsRepository) UpdateStaff(ctx context.Context, id model.StaffID, fn func(st *model.Staff)) (model.Staff, error) {
	var out model.Staff
	_, err := r.update(ctx, func(s *model.Settings) error {
		i, ok := s.FindStaff(id)
		if !ok {
			return apperrors.NotFound("员工", strconv.Itoa(int(id)))
		}
		fn(&s.Staff[i])
		s.Staff[i].ID = id
		t, err := model.ParseStaffType(string(s.Staff[i].Type))
		if err != nil {
			return apperrors.InvalidInput("type", err.Error())
		}
		s.Staff[i].Type = t
		if err := model.ValidateStaff(&s.Staff[i]); err != nil {
			return apperrors.FromValidation(err)
		}
		out = s.Staff[i]
		return nil
	})
	return out, err
}

// DeleteStaff 删除员工
func (r *SettingsRepository) DeleteStaff(ctx context.Context, id model.StaffID) error {
	_, err := r.update(ctx, func(s *model.Settings) error {
		i, ok := s.FindStaff(id)
		if !ok {
			return apperrors.NotFound("员工", strconv.Itoa(int(id)))
		}
		s.Staff = append(s.Staff[:i], s.Staff[i+1:]...)
		return nil
	})
	return err
}

// SetNGDays 整体替换NG日
func (r *SettingsRepository) SetNGDays(ctx context.Context, ng model.NGDays) error {
	_, err := r.update(ctx, func(s *model.Settings) error {
		s.NGDays = ng.Clone()
		return nil
	})
	return err
}

// MonthExceptions 返回指定月份的例外日
func (r *SettingsRepository) MonthExceptions(ctx context.Context, year, month int) (model.MonthExceptions, error) {
	if !model.ValidMonth(year, month) {
		return nil, apperrors.InvalidMonth(year, month)
	}
	s, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	return s.Exceptions.ForMonth(year, month), nil
}

// SetMonthExceptions 替换指定月份的例外日
func (r *SettingsRepository) SetMonthExceptions(ctx context.Context, year, month int, ex model.MonthExceptions) error {
	if !model.ValidMonth(year, month) {
		return apperrors.InvalidMonth(year, month)
	}
	_, err := r.update(ctx, func(s *model.Settings) error {
		if ex == nil {
			ex = model.MonthExceptions{}
		}
		s.Exceptions[model.MonthKey(year, month)] = ex.Clone()
		return nil
	})
	return err
}

// Export 导出全部配置
func (r *SettingsRepository) Export(ctx context.Context, format Format) ([]byte, error) {
	s, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	exportedAt := r.now()
	doc := SettingsDocument{
		ExportDate: &exportedAt,
		Locations:  &s.Locations,
		Staff:      &s.Staff,
		NGDays:     &s.NGDays,
		Exceptions: &s.Exceptions,
	}
	return encode(doc, format)
}

// Import 导入配置，只替换文档中出现的部分
func (r *SettingsRepository) Import(ctx context.Context, data []byte, format Format) (*model.Settings, error) {
	var doc SettingsDocument
	if err := decode(data, format, &doc); err != nil {
		return nil, apperrors.InvalidInput("settings", fmt.Sprintf("无法解析%s: %v", format, err))
	}

	return r.update(ctx, func(s *model.Settings) error {
		if doc.Locations != nil {
			s.Locations = *doc.Locations
		}
		if doc.Staff != nil {
			s.Staff = *doc.Staff
		}
		if doc.NGDays != nil {
			s.NGDays = *doc.NGDays
		}
		if doc.Exceptions != nil {
			s.Exceptions = *doc.Exceptions
		}
		return nil
	})
}
