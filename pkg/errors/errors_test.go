package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestAppError_Error(t *testing.T) {
	err := New(CodeNotFound, "月份排班不存在")
	if err.Error() != "[NOT_FOUND] 月份排班不存在" {
		t.Errorf("Error() = %q", err.Error())
	}

	wrapped := Wrap(fmt.Errorf("connection refused"), CodeStorageError, "读取失败")
	if wrapped.Error() != "[STORAGE_ERROR] 读取失败: connection refused" {
		t.Errorf("Error() = %q", wrapped.Error())
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil", nil, ExitOK},
		{"参数错误", InvalidInput("month", "超出范围"), ExitUsage},
		{"年月错误", InvalidMonth(2026, 13), ExitUsage},
		{"校验失败", New(CodeValidationFail, "x"), ExitUsage},
		{"排班冲突", ScheduleConflict("1", "2026-01-10", "重复分配"), ExitUsage},
		{"不存在", NotFound("拠点", "9"), ExitNotFound},
		{"存储错误", Storage(fmt.Errorf("disk full"), "save"), ExitStorage},
		{"被包装的AppError", fmt.Errorf("outer: %w", NotFound("员工", "3")), ExitNotFound},
		{"普通错误", fmt.Errorf("boom"), ExitInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.expected {
				t.Errorf("GetExitCode() = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestIsAndGetCode(t *testing.T) {
	cause := fmt.Errorf("no rows")
	err := fmt.Errorf("load: %w", Storage(cause, "get"))

	if !Is(err, CodeStorageError) {
		t.Error("Is should see through fmt wrapping")
	}
	if Is(err, CodeNotFound) {
		t.Error("Is matched the wrong code")
	}
	if GetCode(err) != CodeStorageError {
		t.Errorf("GetCode() = %s", GetCode(err))
	}
	if GetCode(cause) != CodeUnknown {
		t.Errorf("GetCode(plain) = %s", GetCode(cause))
	}
	if !errors.Is(err, cause) {
		t.Error("Unwrap should expose the cause")
	}
}

func TestValidationErrors(t *testing.T) {
	ve := &ValidationErrors{}
	if ve.HasErrors() {
		t.Error("empty collection should have no errors")
	}
	ve.Add("max_staff", "不能小于 min_staff")
	ve.Add("name", "必填")

	if !ve.HasErrors() {
		t.Error("expected errors")
	}
	appErr := ve.ToAppError()
	if appErr.Code != CodeValidationFail || len(appErr.Fields) != 2 {
		t.Errorf("unexpected AppError: %+v", appErr)
	}
}

type sample struct {
	MinStaff int    `validate:"min=1"`
	MaxStaff int    `validate:"gtefield=MinStaff"`
	Type     string `validate:"oneof=regular part_time"`
}

func TestFromValidation(t *testing.T) {
	err := validator.New().Struct(&sample{MinStaff: 0, MaxStaff: -1, Type: "x"})
	appErr := FromValidation(err)

	if appErr.Code != CodeValidationFail {
		t.Fatalf("code = %s", appErr.Code)
	}
	for _, field := range []string{"sample.MinStaff", "sample.MaxStaff", "sample.Type"} {
		if _, ok := appErr.Fields[field]; !ok {
			t.Errorf("missing field %s in %v", field, appErr.Fields)
		}
	}
	if GetExitCode(appErr) != ExitUsage {
		t.Errorf("exit code = %d", GetExitCode(appErr))
	}

	if FromValidation(nil) != nil {
		t.Error("nil should stay nil")
	}
	plain := FromValidation(fmt.Errorf("拠点ID重复: 1"))
	if plain.Code != CodeValidationFail || plain.Cause == nil {
		t.Errorf("plain error should be wrapped: %+v", plain)
	}
	existing := NotFound("拠点", "1")
	if FromValidation(existing) != existing {
		t.Error("existing AppError should be returned as-is")
	}
}
