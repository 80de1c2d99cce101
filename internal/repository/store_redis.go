package repository

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/fujishimakensetsu/shiftmaker/pkg/errors"
)

const scanBatch = 100

// RedisStore Redis 存储，所有键加统一前缀
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore 创建 Redis 存储
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// Get 读取键值
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errKeyNotFound(key)
	}
	if err != nil {
		return nil, apperrors.Storage(err, "读取 "+key)
	}
	return data, nil
}

// Put 写入键值，不设置过期时间
func (s *RedisStore) Put(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return apperrors.Storage(err, "写入 "+key)
	}
	return nil
}

// Delete 删除键值
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	n, err := s.client.Del(ctx, s.prefix+key).Result()
	if err != nil {
		return apperrors.Storage(err, "删除 "+key)
	}
	if n == 0 {
		return errKeyNotFound(key)
	}
	return nil
}

// Keys 用 SCAN 遍历指定前缀的键
func (s *RedisStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	pattern := escapeGlob(s.prefix+prefix) + "*"

	var keys []string
	var cursor uint64
	for {
		batch, next, err := s.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return nil, apperrors.Storage(err, "列出键")
		}
		for _, k := range batch {
			keys = append(keys, strings.TrimPrefix(k, s.prefix))
		}

		// 游标归零即遍历结束
		cursor = next
		if cursor == 0 {
			break
		}
	}

	// SCAN 可能返回重复键
	sort.Strings(keys)
	out := keys[:0]
	for i, k := range keys {
		if i == 0 || k != keys[i-1] {
			out = append(out, k)
		}
	}
	return out, nil
}

// Close 关闭客户端
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}
