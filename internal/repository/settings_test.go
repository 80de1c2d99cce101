package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/fujishimakensetsu/shiftmaker/pkg/errors"
	"github.com/fujishimakensetsu/shiftmaker/pkg/model"
)

func newSettingsRepo(t *testing.T) *SettingsRepository {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	r := NewSettingsRepository(s)
	r.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return r
}

func TestSettingsRepository_LoadDefaults(t *testing.T) {
	r := newSettingsRepo(t)
	s, err := r.Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, s.Locations, 3)
	assert.Len(t, s.Staff, 4)
	assert.Equal(t, "FIP", s.Locations[0].Name)
}

func TestSettingsRepository_LocationCRUD(t *testing.T) {
	ctx := context.Background()
	r := newSettingsRepo(t)

	loc := model.NewLocation(0, "川口")
	loc.ID = 99
	added, err := r.AddLocation(ctx, loc)
	require.NoError(t, err)
	assert.Equal(t, model.LocationID(4), added.ID, "id is max+1 regardless of input")

	updated, err := r.UpdateLocation(ctx, 4, func(l *model.Location) {
		l.MaxStaff = 3
		l.ID = 100
	})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.MaxStaff)
	assert.Equal(t, model.LocationID(4), updated.ID)

	_, err = r.UpdateLocation(ctx, 4, func(l *model.Location) { l.MaxStaff = 0 })
	assert.True(t, apperrors.Is(err, apperrors.CodeValidationFail), "max < min must be rejected: %v", err)

	_, err = r.UpdateLocation(ctx, 42, func(l *model.Location) {})
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))

	require.NoError(t, r.DeleteLocation(ctx, 2))
	assert.True(t, apperrors.Is(r.DeleteLocation(ctx, 2), apperrors.CodeNotFound))

	s, err := r.Load(ctx)
	require.NoError(t, err)
	require.Len(t, s.Locations, 3)
	assert.Equal(t, 3, s.Locations[2].MaxStaff)
}

func TestSettingsRepository_StaffCRUD(t *testing.T) {
	ctx := context.Background()
	r := newSettingsRepo(t)

	added, err := r.AddStaff(ctx, model.Staff{Name: "新人", Type: "パート", MaxDays: 8, AssignedLocations: []model.LocationID{1}})
	require.NoError(t, err)
	assert.Equal(t, model.StaffID(5), added.ID)
	assert.Equal(t, model.StaffPartTime, added.Type)

	_, err = r.AddStaff(ctx, model.Staff{Name: "x", Type: "契約", MaxDays: 5})
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))

	updated, err := r.UpdateStaff(ctx, 5, func(st *model.Staff) { st.Type = "社員" })
	require.NoError(t, err)
	assert.Equal(t, model.StaffRegular, updated.Type)

	_, err = r.UpdateStaff(ctx, 5, func(st *model.Staff) { st.MaxDays = 40 })
	assert.True(t, apperrors.Is(err, apperrors.CodeValidationFail))

	require.NoError(t, r.DeleteStaff(ctx, 1))
	assert.True(t, apperrors.Is(r.DeleteStaff(ctx, 1), apperrors.CodeNotFound))

	s, err := r.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, s.Staff, 4)
}

func TestSettingsRepository_NGDaysAndExceptions(t *testing.T) {
	ctx := context.Background()
	r := newSettingsRepo(t)

	require.NoError(t, r.SetNGDays(ctx, model.NGDays{1: {"2026-03-01"}}))
	ex := model.MonthExceptions{2: {Add: []string{"2026-03-04"}}}
	require.NoError(t, r.SetMonthExceptions(ctx, 2026, 3, ex))

	got, err := r.MonthExceptions(ctx, 2026, 3)
	require.NoError(t, err)
	assert.Equal(t, ex, got)

	empty, err := r.MonthExceptions(ctx, 2026, 4)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = r.MonthExceptions(ctx, 2026, 13)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidMonth))

	s, err := r.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-03-01"}, s.NGDays[1])
}

func TestSettingsRepository_ExportImport(t *testing.T) {
	ctx := context.Background()

	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			src := newSettingsRepo(t)
			require.NoError(t, src.SetNGDays(ctx, model.NGDays{3: {"2026-05-05"}}))
			require.NoError(t, src.SetMonthExceptions(ctx, 2026, 5, model.MonthExceptions{2: {Add: []string{"2026-05-06"}, Remove: []string{}}}))

			data, err := src.Export(ctx, format)
			require.NoError(t, err)
			assert.Contains(t, string(data), "export_date")

			dst := newSettingsRepo(t)
			_, err = dst.Reset(ctx)
			require.NoError(t, err)
			imported, err := dst.Import(ctx, data, format)
			require.NoError(t, err)

			want, err := src.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, want.Staff, imported.Staff)
			assert.Equal(t, want.NGDays, imported.NGDays)
			assert.Equal(t, []string{"2026-05-06"}, imported.Exceptions.ForMonth(2026, 5)[2].Add)
			assert.Equal(t, len(want.Locations), len(imported.Locations))
		})
	}
}

func TestSettingsRepository_ImportPartial(t *testing.T) {
	ctx := context.Background()
	r := newSettingsRepo(t)

	doc := `{"staff": [{"id": 7, "name": "鈴木", "type": "パート", "max_days": 4, "assigned_locations": []}]}`
	s, err := r.Import(ctx, []byte(doc), FormatJSON)
	require.NoError(t, err)

	require.Len(t, s.Staff, 1)
	assert.Equal(t, model.StaffPartTime, s.Staff[0].Type)
	assert.Len(t, s.Locations, 3, "sections absent from the document are kept")

	_, err = r.Import(ctx, []byte("{not json"), FormatJSON)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))

	bad := `{"locations": [{"id": 1, "name": "x", "min_staff": 3, "max_staff": 1}]}`
	_, err = r.Import(ctx, []byte(bad), FormatJSON)
	assert.True(t, apperrors.Is(err, apperrors.CodeValidationFail))

	after, err := r.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, after.Locations, 3, "rejected import must not be persisted")
}

func TestSettingsRepository_ImportYAMLLabels(t *testing.T) {
	ctx := context.Background()
	r := newSettingsRepo(t)

	doc := strings.Join([]string{
		"staff:",
		"  - id: 1",
		"    name: 田中",
		"    type: 社員",
		"    max_days: 20",
		"  - id: 2",
		"    name: 山田",
		"    type: パート",
		"    max_days: 8",
		"    assigned_locations: [2]",
	}, "\n")

	s, err := r.Import(ctx, []byte(doc), FormatYAML)
	require.NoError(t, err)
	require.Len(t, s.Staff, 2)
	assert.Equal(t, model.StaffRegular, s.Staff[0].Type)
	assert.Equal(t, []model.LocationID{2}, s.Staff[1].AssignedLocations)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("xml")
	assert.True(t, apperrors.Is(err, apperrors.CodeUnsupportedFormat))

	assert.Equal(t, FormatYAML, FormatFromPath("ng.yaml"))
	assert.Equal(t, FormatJSON, FormatFromPath("ng.txt"))
}
