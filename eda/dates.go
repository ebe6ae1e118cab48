package eda

import (
	"sort"
	"time"

	"github.com/rushteam/riskit/core"
	"github.com/rushteam/riskit/frame"
	"github.com/rushteam/riskit/pkg/datefmt"
)

// toTime 把单元格转换为日期：时间值原样保留，文本按 datefmt 规则解析，其余为空。
func toTime(v core.Value) (time.Time, bool) {
	switch v.Kind() {
	case core.KindTime:
		return v.TimeValue()
	case core.KindString:
		return datefmt.Parse(v.Text())
	default:
		return time.Time{}, false
	}
}

// DateConversion 是一列日期转换的结果。
type DateConversion struct {
	Column string
	Parsed int // 成功解析的单元格数
	Nulls  int // 转换后为空的单元格数（包括原本为空的）
}

// ConvertDates 把各列原地转换为日期值，无法识别的单元格置为空。
func ConvertDates(t *frame.Table, cols ...string) ([]DateConversion, error) {
	out := make([]DateConversion, 0, len(cols))
	for _, name := range cols {
		col, err := t.MustColumn(name)
		if err != nil {
			return nil, err
		}
		conv := DateConversion{Column: name}
		for i, v := range col.Values {
			if tm, ok := toTime(v); ok {
				col.Values[i] = core.Time(tm)
				conv.Parsed++
				continue
			}
			col.Values[i] = core.Null()
			conv.Nulls++
		}
		out = append(out, conv)
	}
	return out, nil
}

// DateSummary 是日期列的描述统计。
type DateSummary struct {
	Column    string
	Min, Max  time.Time
	RangeDays int
	HasRange  bool // 存在至少一个有效日期
	Nulls     int
	Unique    int
}

// SummarizeDates 计算各日期列的最早、最晚、跨度天数、空值数与不同日期数。
// 文本单元格按 datefmt 规则解析，解析失败计为空值。
func SummarizeDates(t *frame.Table, cols ...string) ([]DateSummary, error) {
	out := make([]DateSummary, 0, len(cols))
	for _, name := range cols {
		col, err := t.MustColumn(name)
		if err != nil {
			return nil, err
		}
		s := DateSummary{Column: name}
		unique := make(map[int64]struct{})
		for _, v := range col.Values {
			tm, ok := toTime(v)
			if !ok {
				s.Nulls++
				continue
			}
			unique[tm.UnixNano()] = struct{}{}
			if !s.HasRange || tm.Before(s.Min) {
				s.Min = tm
			}
			if !s.HasRange || tm.After(s.Max) {
				s.Max = tm
			}
			s.HasRange = true
		}
		s.Unique = len(unique)
		if s.HasRange {
			s.RangeDays = int(s.Max.Sub(s.Min).Hours() / 24)
		}
		out = append(out, s)
	}
	return out, nil
}

// 日期分组粒度
const (
	FreqYear  = "Y"
	FreqMonth = "M"
	FreqDay   = "D"
)

// PeriodCount 是一个时间段内的记录数。
type PeriodCount struct {
	Period string
	Count  int
}

// DateCounts 按年/月/日统计日期列的分布（按时间段升序），无效日期不计入。
func DateCounts(t *frame.Table, name, freq string) ([]PeriodCount, error) {
	col, err := t.MustColumn(name)
	if err != nil {
		return nil, err
	}
	layout := "2006"
	switch freq {
	case FreqMonth:
		layout = "2006-01"
	case FreqDay:
		layout = "2006-01-02"
	}
	counts := make(map[string]int)
	for _, v := range col.Values {
		if tm, ok := toTime(v); ok {
			counts[tm.Format(layout)]++
		}
	}
	out := make([]PeriodCount, 0, len(counts))
	for p, n := range counts {
		out = append(out, PeriodCount{Period: p, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out, nil
}
