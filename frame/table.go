// Package frame 提供一个最小的列式内存表：按列存储可为空的单元格值，
// 支持 CSV 读写与逐行转换为 core.Record。
package frame

import (
	"fmt"

	"github.com/rushteam/riskit/core"
)

// Column 是表中的一列。
type Column struct {
	Name   string
	Values []core.Value
}

// NullCount 返回空值数量。
func (c *Column) NullCount() int {
	n := 0
	for _, v := range c.Values {
		if v.IsNull() {
			n++
		}
	}
	return n
}

// IsNumeric 判断列是否为数值列：所有非空值均为数值。
// 全空列视为数值列（与读取 CSV 时空列推断为浮点类型一致）。
func (c *Column) IsNumeric() bool {
	for _, v := range c.Values {
		if !v.IsNull() && !v.IsNumber() {
			return false
		}
	}
	return true
}

// Floats 返回所有非空数值（按行顺序）。
func (c *Column) Floats() []float64 {
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if f, ok := v.Float(); ok && v.IsNumber() {
			out = append(out, f)
		}
	}
	return out
}

// Table 是列式表，所有列长度相同。
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// New 创建只有表头的空表。
func New(names ...string) *Table {
	t := &Table{index: make(map[string]int, len(names))}
	for _, n := range names {
		_ = t.AddColumn(n, nil)
	}
	return t
}

// NumRows 返回行数。
func (t *Table) NumRows() int { return t.rows }

// Names 返回列名（按顺序）。
func (t *Table) Names() []string {
	out := make([]string, len(t.columns))
	for i, c := range t.columns {
		out[i] = c.Name
	}
	return out
}

// Column 按名称取列。
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// MustColumn 按名称取列，不存在时返回错误。
func (t *Table) MustColumn(name string) (*Column, error) {
	c, ok := t.Column(name)
	if !ok {
		return nil, core.NewDomainError(core.ModuleEDA, core.ErrorCodeNotFound, fmt.Sprintf("frame: column %q not found", name))
	}
	return c, nil
}

// AddColumn 追加一列；values 为 nil 时以 Null 填满。
// 表非空时 values 长度必须等于行数。
func (t *Table) AddColumn(name string, values []core.Value) error {
	if t.index == nil {
		t.index = make(map[string]int)
	}
	if _, ok := t.index[name]; ok {
		return fmt.Errorf("frame: duplicate column %q", name)
	}
	if values == nil {
		values = make([]core.Value, t.rows)
	}
	if len(t.columns) > 0 && len(values) != t.rows {
		return fmt.Errorf("frame: column %q has %d values, table has %d rows", name, len(values), t.rows)
	}
	if len(t.columns) == 0 {
		t.rows = len(values)
	}
	t.index[name] = len(t.columns)
	t.columns = append(t.columns, &Column{Name: name, Values: values})
	return nil
}

// AppendRow 按列顺序追加一行；values 短于列数时补 Null。
func (t *Table) AppendRow(values []core.Value) error {
	if len(values) > len(t.columns) {
		return fmt.Errorf("frame: row has %d values, table has %d columns", len(values), len(t.columns))
	}
	for i, c := range t.columns {
		v := core.Null()
		if i < len(values) {
			v = values[i]
		}
		c.Values = append(c.Values, v)
	}
	t.rows++
	return nil
}

// AppendRecord 按列名追加一条记录；表为空（无列）时以记录字段建表。
// 记录中不存在的列补 Null，表中不存在的字段被忽略。
func (t *Table) AppendRecord(rec *core.Record) error {
	if len(t.columns) == 0 {
		for _, f := range rec.Fields() {
			if err := t.AddColumn(f, nil); err != nil {
				return err
			}
		}
	}
	values := make([]core.Value, len(t.columns))
	for i, c := range t.columns {
		v, _ := rec.Get(c.Name)
		values[i] = v
	}
	return t.AppendRow(values)
}

// Row 返回第 i 行的记录副本。
func (t *Table) Row(i int) (*core.Record, error) {
	if i < 0 || i >= t.rows {
		return nil, fmt.Errorf("frame: row %d out of range [0,%d)", i, t.rows)
	}
	names := t.Names()
	values := make([]core.Value, len(t.columns))
	for j, c := range t.columns {
		values[j] = c.Values[i]
	}
	return core.NewRecord(names, values), nil
}

// Records 返回所有行的记录副本。
func (t *Table) Records() []*core.Record {
	out := make([]*core.Record, 0, t.rows)
	for i := 0; i < t.rows; i++ {
		rec, _ := t.Row(i)
		out = append(out, rec)
	}
	return out
}

// NumericColumns 返回所有数值列的列名（按顺序）。
func (t *Table) NumericColumns() []string {
	var out []string
	for _, c := range t.columns {
		if c.IsNumeric() {
			out = append(out, c.Name)
		}
	}
	return out
}
