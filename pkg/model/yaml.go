package model

import (
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"
)

// decodeIDKeyed 解码以ID为键的YAML映射，键可以是整数或数字字符串
func decodeIDKeyed[K ~int, V any](data []byte) (map[K]V, error) {
	var raw map[any]V
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	out := make(map[K]V, len(raw))
	for k, v := range raw {
		id, err := strconv.Atoi(fmt.Sprint(k))
		if err != nil {
			return nil, fmt.Errorf("ID键无效 %q: %w", fmt.Sprint(k), err)
		}
		out[K(id)] = v
	}
	return out, nil
}

// UnmarshalYAML 实现 yaml.BytesUnmarshaler
func (n *NGDays) UnmarshalYAML(data []byte) error {
	m, err := decodeIDKeyed[StaffID, []string](data)
	if err != nil {
		return err
	}
	*n = m
	return nil
}

// UnmarshalYAML 实现 yaml.BytesUnmarshaler
func (m *MonthExceptions) UnmarshalYAML(data []byte) error {
	ex, err := decodeIDKeyed[LocationID, DateOverride](data)
	if err != nil {
		return err
	}
	*m = ex
	return nil
}

// UnmarshalYAML 实现 yaml.BytesUnmarshaler
func (d *DayShift) UnmarshalYAML(data []byte) error {
	shift, err := decodeIDKeyed[LocationID, []StaffID](data)
	if err != nil {
		return err
	}
	*d = shift
	return nil
}
