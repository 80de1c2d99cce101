package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	apperrors "github.com/fujishimakensetsu/shiftmaker/pkg/errors"
)

const fileExt = ".json"

// FileStore 本地文件存储，每个键一个文件
type FileStore struct {
	dir string
	mu  sync.RWMutex
}

// NewFileStore 创建文件存储，目录不存在时自动创建
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.Storage(err, "创建数据目录")
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, url.QueryEscape(key)+fileExt)
}

// Get 读取键值
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errKeyNotFound(key)
	}
	if err != nil {
		return nil, apperrors.Storage(err, "读取 "+key)
	}
	return data, nil
}

// Put 写入键值，先写临时文件再重命名，保证读取方不会看到半截内容
func (s *FileStore) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return apperrors.Storage(err, "写入 "+key)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return apperrors.Storage(err, "写入 "+key)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return apperrors.Storage(err, "写入 "+key)
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		os.Remove(tmpName)
		return apperrors.Storage(err, "写入 "+key)
	}
	return nil
}

// Delete 删除键值
func (s *FileStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return errKeyNotFound(key)
	}
	if err != nil {
		return apperrors.Storage(err, "删除 "+key)
	}
	return nil
}

// Keys 列出指定前缀的键
func (s *FileStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, apperrors.Storage(err, "列出键")
	}

	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fileExt) || strings.HasPrefix(name, ".tmp-") {
			continue
		}
		key, err := url.QueryUnescape(strings.TrimSuffix(name, fileExt))
		if err != nil {
			return nil, apperrors.Storage(fmt.Errorf("文件名无效 %s: %w", name, err), "列出键")
		}
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Close 无需释放资源
func (s *FileStore) Close() error {
	return nil
}
