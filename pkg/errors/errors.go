// Package errors 提供统一的错误处理框架
package errors

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Code 错误码
type Code string

const (
	// 通用错误码
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL_ERROR"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeNotFound     Code = "NOT_FOUND"
	CodeTimeout      Code = "TIMEOUT"

	// 排班相关
	CodeInvalidMonth      Code = "INVALID_MONTH"
	CodeScheduleConflict  Code = "SCHEDULE_CONFLICT"
	CodeUnderstaffed      Code = "UNDERSTAFFED"
	CodeUnsupportedFormat Code = "UNSUPPORTED_FORMAT"

	// 数据相关
	CodeStorageError   Code = "STORAGE_ERROR"
	CodeValidationFail Code = "VALIDATION_FAILED"
)

// 进程退出码
const (
	ExitOK       = 0
	ExitInternal = 1
	ExitUsage    = 2
	ExitNotFound = 3
	ExitStorage  = 4
)

// AppError 应用错误
type AppError struct {
	Code     Code                   `json:"code"`
	Message  string                 `json:"message"`
	Details  string                 `json:"details,omitempty"`
	ExitCode int                    `json:"-"`
	Cause    error                  `json:"-"`
	Fields   map[string]interface{} `json:"fields,omitempty"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails 添加详细信息
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// WithCause 添加原因
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithField 添加字段
func (e *AppError) WithField(key string, value interface{}) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// New 创建新错误
func New(code Code, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		ExitCode: codeToExitCode(code),
	}
}

// Wrap 包装错误
func Wrap(err error, code Code, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		ExitCode: codeToExitCode(code),
		Cause:    err,
	}
}

// codeToExitCode 错误码转进程退出码
func codeToExitCode(code Code) int {
	switch code {
	case CodeInvalidInput, CodeValidationFail, CodeInvalidMonth, CodeUnsupportedFormat, CodeScheduleConflict:
		return ExitUsage
	case CodeNotFound:
		return ExitNotFound
	case CodeStorageError:
		return ExitStorage
	default:
		return ExitInternal
	}
}

// Is 检查错误是否为特定类型
func Is(err error, code Code) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode 获取错误码
func GetCode(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetExitCode 获取进程退出码，nil 返回 0
func GetExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.ExitCode
	}
	return ExitInternal
}

// 预定义错误
var (
	ErrNotFound     = New(CodeNotFound, "资源不存在")
	ErrInvalidInput = New(CodeInvalidInput, "输入参数无效")
	ErrInternal     = New(CodeInternal, "内部错误")
	ErrTimeout      = New(CodeTimeout, "操作超时")
)

// InvalidInput 创建输入无效错误
func InvalidInput(field, reason string) *AppError {
	return New(CodeInvalidInput, fmt.Sprintf("字段 '%s' 无效: %s", field, reason))
}

// NotFound 创建资源不存在错误
func NotFound(resource, id string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s '%s' 不存在", resource, id))
}

// InvalidMonth 创建年月无效错误
func InvalidMonth(year, month int) *AppError {
	return New(CodeInvalidMonth, fmt.Sprintf("年月无效: %d-%d", year, month)).
		WithField("year", year).
		WithField("month", month)
}

// Storage 包装存储层错误
func Storage(err error, op string) *AppError {
	return Wrap(err, CodeStorageError, fmt.Sprintf("存储操作失败: %s", op))
}

// ScheduleConflict 创建排班冲突错误
func ScheduleConflict(staffID, date, details string) *AppError {
	return New(CodeScheduleConflict, fmt.Sprintf("员工 %s 在 %s 存在排班冲突: %s", staffID, date, details))
}

// UnsupportedFormat 创建格式不支持错误
func UnsupportedFormat(format string) *AppError {
	return New(CodeUnsupportedFormat, fmt.Sprintf("不支持的格式: %s", format))
}

// ValidationErrors 验证错误集合
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// ValidationError 单个验证错误
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error 实现 error 接口
func (ve *ValidationErrors) Error() string {
	if len(ve.Errors) == 0 {
		return "验证失败"
	}
	return fmt.Sprintf("验证失败: %s - %s", ve.Errors[0].Field, ve.Errors[0].Message)
}

// Add 添加验证错误
func (ve *ValidationErrors) Add(field, message string) {
	ve.Errors = append(ve.Errors, ValidationError{Field: field, Message: message})
}

// HasErrors 检查是否有错误
func (ve *ValidationErrors) HasErrors() bool {
	return len(ve.Errors) > 0
}

// ToAppError 转换为 AppError
func (ve *ValidationErrors) ToAppError() *AppError {
	err := New(CodeValidationFail, "验证失败")
	err.Fields = make(map[string]interface{})
	for _, e := range ve.Errors {
		err.Fields[e.Field] = e.Message
	}
	if len(ve.Errors) > 0 {
		err.Details = ve.Error()
	}
	return err
}

// FromValidation 将校验错误转换为 AppError
//
// validator.ValidationErrors 按字段展开，其他错误整体作为原因保留。
func FromValidation(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		ve := &ValidationErrors{}
		for _, fe := range fieldErrs {
			ve.Add(fe.Namespace(), describeTag(fe))
		}
		return ve.ToAppError().WithCause(err)
	}
	return Wrap(err, CodeValidationFail, "验证失败")
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "必填"
	case "min":
		return fmt.Sprintf("不能小于 %s", fe.Param())
	case "max":
		return fmt.Sprintf("不能大于 %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("必须为 %s 之一", fe.Param())
	case "gtefield":
		return fmt.Sprintf("不能小于 %s", fe.Param())
	default:
		return fmt.Sprintf("不满足 %s", fe.Tag())
	}
}
