// Package repository 提供数据访问层
//
// 所有数据以键值形式保存：配置为单个文档（键 settings），
// 每月排班一个文档（键 shift:YYYY-MM）。Store 的实现决定实际介质。
package repository

import (
	"context"
	"database/sql"
	"strings"

	apperrors "github.com/fujishimakensetsu/shiftmaker/pkg/errors"
	"github.com/fujishimakensetsu/shiftmaker/pkg/model"
)

// 键名
const (
	SettingsKey    = "settings"
	ShiftKeyPrefix = "shift:"
)

// Store 键值存储接口
type Store interface {
	// Get 读取键值，不存在时返回 NOT_FOUND 错误
	Get(ctx context.Context, key string) ([]byte, error)

	// Put 写入（覆盖）键值
	Put(ctx context.Context, key string, value []byte) error

	// Delete 删除键值，不存在时返回 NOT_FOUND 错误
	Delete(ctx context.Context, key string) error

	// Keys 返回指定前缀的全部键，按字典序
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Close 释放底层资源
	Close() error
}

// DB 数据库接口
type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// IsNotFound 检查是否为键不存在
func IsNotFound(err error) bool {
	return apperrors.Is(err, apperrors.CodeNotFound)
}

func errKeyNotFound(key string) error {
	return apperrors.NotFound("key", key)
}

// ShiftKey 返回月份排班的键
func ShiftKey(year, month int) string {
	return ShiftKeyPrefix + model.MonthKey(year, month)
}

func trimShiftKey(key string) string {
	return strings.TrimPrefix(key, ShiftKeyPrefix)
}
