package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	apperrors "github.com/fujishimakensetsu/shiftmaker/pkg/errors"
)

// PostgresStore 基于 kv_store 表的存储
type PostgresStore struct {
	db     DB
	closer func() error
}

// NewPostgresStore 创建 PostgreSQL 存储，closer 在 Close 时调用（可为 nil）
func NewPostgresStore(db DB, closer func() error) *PostgresStore {
	return &PostgresStore{db: db, closer: closer}
}

// Get 读取键值
func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errKeyNotFound(key)
	}
	if err != nil {
		return nil, apperrors.Storage(err, "读取 "+key)
	}
	return value, nil
}

// Put 写入键值
func (s *PostgresStore) Put(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return apperrors.Storage(err, "写入 "+key)
	}
	return nil
}

// Delete 删除键值
func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = $1`, key)
	if err != nil {
		return apperrors.Storage(err, "删除 "+key)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Storage(err, "删除 "+key)
	}
	if n == 0 {
		return errKeyNotFound(key)
	}
	return nil
}

// Keys 列出指定前缀的键
func (s *PostgresStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM kv_store WHERE key LIKE $1 ESCAPE '\' ORDER BY key`,
		escapeLike(prefix)+"%",
	)
	if err != nil {
		return nil, apperrors.Storage(err, "列出键")
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, apperrors.Storage(err, "列出键")
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage(err, "列出键")
	}
	return keys, nil
}

// Close 关闭连接
func (s *PostgresStore) Close() error {
	if s.closer != nil {
		return s.closer()
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
