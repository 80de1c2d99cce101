package repository

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	apperrors "github.com/fujishimakensetsu/shiftmaker/pkg/errors"
	"github.com/fujishimakensetsu/shiftmaker/pkg/model"
)

// Format 导入导出格式
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat 解析格式名
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", apperrors.UnsupportedFormat(s)
	}
}

// FormatFromPath 按扩展名推断格式，无法识别时使用 JSON
func FormatFromPath(path string) Format {
	if f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), ".")); err == nil {
		return f
	}
	return FormatJSON
}

// SettingsDocument 配置导入导出文档，nil 字段表示文档中未出现
type SettingsDocument struct {
	ExportDate *time.Time        `json:"export_date,omitempty" yaml:"export_date,omitempty"`
	Locations  *[]model.Location `json:"locations,omitempty" yaml:"locations,omitempty"`
	Staff      *[]model.Staff    `json:"staff,omitempty" yaml:"staff,omitempty"`
	NGDays     *model.NGDays     `json:"ng_days,omitempty" yaml:"ng_days,omitempty"`
	Exceptions *model.Exceptions `json:"exceptions,omitempty" yaml:"exceptions,omitempty"`
}

func encode(v any, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(v, "", "  ")
	case FormatYAML:
		return yaml.Marshal(v)
	default:
		return nil, apperrors.UnsupportedFormat(string(format))
	}
}

func decode(data []byte, format Format, v any) error {
	switch format {
	case FormatJSON:
		return json.Unmarshal(data, v)
	case FormatYAML:
		return yaml.Unmarshal(data, v)
	default:
		return apperrors.UnsupportedFormat(string(format))
	}
}

// DecodeFile 按文件扩展名解码任意数据文件（NG日、例外日等）
func DecodeFile(path string, data []byte, v any) error {
	if err := decode(data, FormatFromPath(path), v); err != nil {
		return apperrors.InvalidInput(filepath.Base(path), err.Error())
	}
	return nil
}

// Encode 按格式编码
func Encode(v any, format Format) ([]byte, error) {
	return encode(v, format)
}
