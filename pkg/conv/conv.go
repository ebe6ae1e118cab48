// Package conv 提供类型转换、map/slice 转换等泛型工具，主要用于读取 YAML/JSON 解析出的 map[string]any 配置。
package conv

import (
	"fmt"
	"strconv"
	"strings"
)

// ToFloat64 将 any 转为 float64。
// 支持各类整数与浮点数；bool 视为 1.0/0.0；数字字符串会被解析。
func ToFloat64(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case uint:
		return float64(val), true
	case bool:
		if val {
			return 1.0, true
		}
		return 0.0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// ToInt 将 any 转为 int。
// 浮点数只接受整数值（如 YAML/JSON 解析得到的 3.0）。
func ToInt(v any) (int, bool) {
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case int32:
		return int(val), true
	case uint64:
		return int(val), true
	case float64:
		if val != float64(int(val)) {
			return 0, false
		}
		return int(val), true
	case float32:
		if val != float32(int(val)) {
			return 0, false
		}
		return int(val), true
	default:
		return 0, false
	}
}

// ConvertSlice 将 []T 按 convert 转为 []U，convert 返回 false 的元素被跳过。
func ConvertSlice[T, U any](s []T, convert func(T) (U, bool)) []U {
	if s == nil {
		return nil
	}
	out := make([]U, 0, len(s))
	for _, v := range s {
		if u, ok := convert(v); ok {
			out = append(out, u)
		}
	}
	return out
}

// SliceAnyToString 将 []any（即 []interface{}）转为 []string。
// 元素为 string 直接保留，为数字时按最短形式格式化。
func SliceAnyToString(v any) []string {
	switch raw := v.(type) {
	case []string:
		return append([]string(nil), raw...)
	case []any:
		return ConvertSlice(raw, func(e any) (string, bool) {
			if s, ok := e.(string); ok {
				return s, true
			}
			if f, ok := ToFloat64(e); ok {
				return strconv.FormatFloat(f, 'f', -1, 64), true
			}
			return "", false
		})
	default:
		return nil
	}
}

// SliceAnyToInt 将 []any 转为 []int；存在无法转换的元素时返回错误。
func SliceAnyToInt(v any) ([]int, error) {
	switch raw := v.(type) {
	case []int:
		return append([]int(nil), raw...), nil
	case []any:
		out := make([]int, 0, len(raw))
		for _, e := range raw {
			n, ok := ToInt(e)
			if !ok {
				return nil, fmt.Errorf("not an integer: %v", e)
			}
			out = append(out, n)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("not a list: %T", v)
	}
}

// ConfigGet 从 map[string]any（如 YAML/JSON 解析结果）按 key 取 T，取不到或类型不符时返回 defaultVal。
func ConfigGet[T any](m map[string]any, key string, defaultVal T) T {
	if m == nil {
		return defaultVal
	}
	v, ok := m[key]
	if !ok {
		return defaultVal
	}
	t, ok := v.(T)
	if !ok {
		return defaultVal
	}
	return t
}

// ConfigGetInt64 从 config 取 int64。YAML/JSON 常得到 int 或 float64，此处兼容并统一为 int64。
func ConfigGetInt64(m map[string]any, key string, defaultVal int64) int64 {
	if m == nil {
		return defaultVal
	}
	n, ok := ToInt(m[key])
	if !ok {
		return defaultVal
	}
	return int64(n)
}

// ConfigGetFloat64 从 config 取 float64，兼容整数写法（YAML 中 1 与 1.0）。
func ConfigGetFloat64(m map[string]any, key string, defaultVal float64) float64 {
	if m == nil {
		return defaultVal
	}
	f, ok := ToFloat64(m[key])
	if !ok {
		return defaultVal
	}
	return f
}

// ConfigGetStrings 从 config 取字符串列表。
func ConfigGetStrings(m map[string]any, key string) []string {
	if m == nil {
		return nil
	}
	return SliceAnyToString(m[key])
}

// ConfigGetMap 从 config 取嵌套 map；YAML 解析出的 map[string]any 与 JSON 一致。
func ConfigGetMap(m map[string]any, key string) map[string]any {
	return ConfigGet[map[string]any](m, key, nil)
}
