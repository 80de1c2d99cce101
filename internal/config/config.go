// Package config 提供配置管理
//
// 加载顺序：内置默认值 → 配置文件（YAML/JSON，可选）→ 环境变量。
// 环境变量以 SHIFTMAKER_ 为前缀，层级用双下划线分隔，
// 例如 SHIFTMAKER_STORE__BACKEND=postgres。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix 环境变量前缀
const EnvPrefix = "SHIFTMAKER_"

// 存储后端
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config 应用配置
type Config struct {
	App      AppConfig      `json:"app"`
	Store    StoreConfig    `json:"store"`
	Database DatabaseConfig `json:"database"`
	Redis    RedisConfig    `json:"redis"`
	Generate GenerateConfig `json:"generate"`
	Metrics  MetricsConfig  `json:"metrics"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name      string `json:"name" validate:"required"`
	Env       string `json:"env" validate:"oneof=development production test"`
	LogLevel  string `json:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `json:"log_format" validate:"oneof=json console"`
}

// StoreConfig 数据存储配置
type StoreConfig struct {
	Backend string `json:"backend" validate:"oneof=file postgres redis"`
	DataDir string `json:"data_dir" validate:"required_if=Backend file"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host            string        `json:"host"`
	Port            int           `json:"port" validate:"min=1,max=65535"`
	Name            string        `json:"name"`
	User            string        `json:"user"`
	Password        string        `json:"password"`
	SSLMode         string        `json:"ssl_mode"`
	MaxOpenConns    int           `json:"max_open_conns" validate:"min=1"`
	MaxIdleConns    int           `json:"max_idle_conns" validate:"min=0,ltefield=MaxOpenConns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`
	SlowQuery       time.Duration `json:"slow_query"`
}

// DSN 返回数据库连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// RedisConfig Redis配置
type RedisConfig struct {
	Host      string `json:"host"`
	Port      int    `json:"port" validate:"min=1,max=65535"`
	Password  string `json:"password"`
	DB        int    `json:"db" validate:"min=0"`
	PoolSize  int    `json:"pool_size" validate:"min=1"`
	KeyPrefix string `json:"key_prefix"`
}

// Addr 返回Redis地址
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GenerateConfig 排班生成配置
type GenerateConfig struct {
	MaxParallelMonths int           `json:"max_parallel_months" validate:"min=1,max=12"`
	Timeout           time.Duration `json:"timeout"`
}

// MetricsConfig 监控配置
type MetricsConfig struct {
	Enabled      bool   `json:"enabled"`
	TextfilePath string `json:"textfile_path" validate:"required_if=Enabled true"`
}

// Default 返回内置默认配置
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:      "shiftmaker",
			Env:       "development",
			LogLevel:  "info",
			LogFormat: "json",
		},
		Store: StoreConfig{
			Backend: BackendFile,
			DataDir: "data",
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			Name:            "shiftmaker",
			User:            "shiftmaker",
			Password:        "shiftmaker",
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
			SlowQuery:       200 * time.Millisecond,
		},
		Redis: RedisConfig{
			Host:      "localhost",
			Port:      6379,
			PoolSize:  10,
			KeyPrefix: "shiftmaker:",
		},
		Generate: GenerateConfig{
			MaxParallelMonths: 3,
			Timeout:           30 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled:      false,
			TextfilePath: "shiftmaker.prom",
		},
	}
}

// Load 加载配置，path 为空时只读取默认值和环境变量
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("读取环境变量失败: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv 将 .env 文件中的变量写入进程环境，文件不存在时忽略
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("读取 %s 失败: %w", f, err)
		}
	}
	return nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("配置无效: %w", err)
	}
	return nil
}

// IsDevelopment 检查是否为开发环境
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction 检查是否为生产环境
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// IsTest 检查是否为测试环境
func (c *Config) IsTest() bool {
	return c.App.Env == "test"
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("不支持的配置文件格式: %s", path)
	}
}

// envKey SHIFTMAKER_STORE__DATA_DIR → store.data_dir
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}
