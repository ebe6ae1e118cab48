package core

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind 标记单元格值的类型。
type Kind uint8

const (
	KindNull   Kind = iota // 空值（NaN / NaT / 空字符串等）
	KindNumber             // 数值
	KindString             // 文本
	KindTime               // 日期时间
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindTime:
		return "time"
	default:
		return "null"
	}
}

// Value 是一个可为空的单元格值，贯穿记录与表格。
// 零值即为 Null。
type Value struct {
	kind Kind
	num  float64
	str  string
	t    time.Time
}

// Null 返回空值。
func Null() Value { return Value{} }

// Number 返回数值；NaN 视为空值。
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: KindNumber, num: f}
}

// String 返回文本值。
func String(s string) Value { return Value{kind: KindString, str: s} }

// Time 返回时间值；零时间视为空值（NaT）。
func Time(t time.Time) Value {
	if t.IsZero() {
		return Value{}
	}
	return Value{kind: KindTime, t: t}
}

func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsNull() bool   { return v.kind == KindNull }
func (v Value) IsNumber() bool { return v.kind == KindNumber }

// Float 返回数值；文本值会尝试按数字解析。
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindString:
		return ParseNumber(v.str)
	default:
		return 0, false
	}
}

// TimeValue 返回时间值。
func (v Value) TimeValue() (time.Time, bool) {
	if v.kind != KindTime {
		return time.Time{}, false
	}
	return v.t, true
}

// Text 返回值的文本形式（CSV 输出使用）。空值为空字符串。
func (v Value) Text() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindString:
		return v.str
	case KindTime:
		return v.t.Format("2006-01-02")
	default:
		return ""
	}
}

// Interface 返回适合 CEL / JSON 使用的原生值。
func (v Value) Interface() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	case KindTime:
		return v.t
	default:
		return nil
	}
}

// Equal 比较两个值（类型与内容均相同）。
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindString:
		return v.str == o.str
	case KindTime:
		return v.t.Equal(o.t)
	default:
		return true
	}
}

// Less 定义同类型值的顺序：数值按大小，文本按字典序，时间按先后。
// 用于众数并列时取最小值。
func (v Value) Less(o Value) bool {
	if v.kind != o.kind {
		return v.kind < o.kind
	}
	switch v.kind {
	case KindNumber:
		return v.num < o.num
	case KindString:
		return v.str < o.str
	case KindTime:
		return v.t.Before(o.t)
	default:
		return false
	}
}

// nullTokens 是读取 CSV 时视为空值的标记（大小写不敏感）。
var nullTokens = map[string]struct{}{
	"":     {},
	"nan":  {},
	"na":   {},
	"n/a":  {},
	"null": {},
	"none": {},
	"nat":  {},
}

// IsNullToken 判断文本是否为空值标记。
func IsNullToken(s string) bool {
	_, ok := nullTokens[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// ParseValue 把原始文本解析为 Value：空值标记 → Null，数字 → Number，其它 → String。
func ParseValue(s string) Value {
	if IsNullToken(s) {
		return Null()
	}
	if f, ok := ParseNumber(s); ok {
		return Number(f)
	}
	return String(s)
}

// ParseNumber 解析十进制有限数字。inf / Infinity / NaN 与十六进制写法不算数字。
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, "xX_") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
