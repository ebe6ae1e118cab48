// Package eda 提供表级别的探索性分析与清洗：空值检查、按分布填充、IQR 异常值、描述统计、日期列处理。
// 所有修改都在传入的 frame.Table 上原地进行。
package eda

import (
	"fmt"
	"log"
	"sort"

	"github.com/rushteam/riskit/core"
	"github.com/rushteam/riskit/frame"
)

// Logf 是本包输出分析日志使用的函数，默认为标准库 log.Printf。
var Logf = log.Printf

func numericColumn(t *frame.Table, name string) (*frame.Column, error) {
	col, err := t.MustColumn(name)
	if err != nil {
		return nil, err
	}
	if !col.IsNumeric() {
		return nil, &core.DomainError{
			Module:  core.ModuleEDA,
			Code:    core.ErrorCodeNotNumeric,
			Message: fmt.Sprintf("eda: column %q is not numeric", name),
			Fields:  []string{name},
		}
	}
	return col, nil
}

// Mode 返回出现次数最多的非空值；次数相同时取最小值。全为空时返回 false。
func Mode(values []core.Value) (core.Value, bool) {
	nonNull := make([]core.Value, 0, len(values))
	for _, v := range values {
		if !v.IsNull() {
			nonNull = append(nonNull, v)
		}
	}
	if len(nonNull) == 0 {
		return core.Null(), false
	}
	sort.SliceStable(nonNull, func(i, j int) bool { return nonNull[i].Less(nonNull[j]) })

	best, bestCount := nonNull[0], 0
	for i := 0; i < len(nonNull); {
		j := i + 1
		for j < len(nonNull) && nonNull[j].Equal(nonNull[i]) {
			j++
		}
		if j-i > bestCount {
			best, bestCount = nonNull[i], j-i
		}
		i = j
	}
	return best, true
}
