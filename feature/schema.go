package feature

import (
	"log"
	"sort"
	"strings"

	"github.com/rushteam/riskit/core"
)

// DefaultClientFields 是聚类模型训练时使用的客户字段（顺序即模型输入顺序）。
var DefaultClientFields = []string{
	"SEX",
	"INSURED_VALUE",
	"PREMIUM",
	"SEATS_NUM",
	"CARRYING_CAPACITY",
	"CCM_TON",
	"MAKE",
	"USAGE",
	"CLAIM_PAID",
}

// SchemaCheck 是字段集合比对结果。
type SchemaCheck struct {
	Missing []string // 必需但不存在的字段（按必需字段顺序）
	Extra   []string // 存在但不需要的字段（字典序）
}

// OK 表示没有缺失字段（多余字段不影响）。
func (c SchemaCheck) OK() bool { return len(c.Missing) == 0 }

// Schema 描述模型期望的输入字段。
type Schema struct {
	Required []string

	// Logf 用于输出多余字段告警，为空时使用标准库 log.Printf
	Logf func(format string, args ...any)
}

// NewSchema 创建 Schema；required 为空时使用 DefaultClientFields。
func NewSchema(required []string) *Schema {
	if len(required) == 0 {
		required = DefaultClientFields
	}
	return &Schema{Required: append([]string(nil), required...)}
}

// Check 计算缺失字段（required − present）与多余字段（present − required）。
func (s *Schema) Check(present []string) SchemaCheck {
	have := make(map[string]struct{}, len(present))
	for _, f := range present {
		have[f] = struct{}{}
	}
	want := make(map[string]struct{}, len(s.Required))
	var check SchemaCheck
	for _, f := range s.Required {
		want[f] = struct{}{}
		if _, ok := have[f]; !ok {
			check.Missing = append(check.Missing, f)
		}
	}
	seen := make(map[string]struct{}, len(present))
	for _, f := range present {
		if _, ok := want[f]; ok {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		check.Extra = append(check.Extra, f)
	}
	sort.Strings(check.Extra)
	return check
}

// Conform 校验记录并按必需字段顺序重排：
//   - 有缺失字段：返回 MISSING_FIELDS 错误，错误消息列出全部缺失字段
//   - 有多余字段：输出告警并丢弃，继续处理
//
// 返回的新记录只包含 Required 字段，原记录不变。
func (s *Schema) Conform(rec *core.Record) (*core.Record, SchemaCheck, error) {
	check := s.Check(rec.Fields())
	if !check.OK() {
		return nil, check, core.NewMissingFieldsError(check.Missing)
	}
	if len(check.Extra) > 0 {
		s.logf("[riskit] warning: record has unexpected fields that will be ignored: [%s]", strings.Join(check.Extra, ", "))
	}
	return rec.Project(s.Required), check, nil
}

func (s *Schema) logf(format string, args ...any) {
	if s.Logf != nil {
		s.Logf(format, args...)
		return
	}
	log.Printf(format, args...)
}
