package core

// Record 是一条有序的扁平记录：字段名 → 值，保留字段顺序。
// 客户记录由外部行创建，校验后按必需字段重排，并在评分过程中追加派生字段
// （聚类编号、风险等级、投影坐标）。
type Record struct {
	fields []string
	values map[string]Value
}

// NewRecord 按给定字段与值创建记录；values 比 fields 短时缺省为 Null。
func NewRecord(fields []string, values []Value) *Record {
	r := &Record{values: make(map[string]Value, len(fields))}
	for i, f := range fields {
		v := Null()
		if i < len(values) {
			v = values[i]
		}
		r.Set(f, v)
	}
	return r
}

// Fields 返回字段顺序的副本。
func (r *Record) Fields() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.fields...)
}

// Len 返回字段数量。
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.fields)
}

// Has 判断字段是否存在。
func (r *Record) Has(field string) bool {
	if r == nil {
		return false
	}
	_, ok := r.values[field]
	return ok
}

// Get 读取字段值；字段不存在时返回 (Null, false)。
func (r *Record) Get(field string) (Value, bool) {
	if r == nil {
		return Null(), false
	}
	v, ok := r.values[field]
	return v, ok
}

// Set 写入字段值；新字段追加到末尾，已有字段原位覆盖。
func (r *Record) Set(field string, v Value) {
	if r.values == nil {
		r.values = make(map[string]Value)
	}
	if _, ok := r.values[field]; !ok {
		r.fields = append(r.fields, field)
	}
	r.values[field] = v
}

// Values 按字段顺序返回值。
func (r *Record) Values() []Value {
	if r == nil {
		return nil
	}
	out := make([]Value, len(r.fields))
	for i, f := range r.fields {
		out[i] = r.values[f]
	}
	return out
}

// Project 返回只包含 fields（按其顺序）的新记录；不存在的字段跳过。
func (r *Record) Project(fields []string) *Record {
	out := &Record{values: make(map[string]Value, len(fields))}
	for _, f := range fields {
		if v, ok := r.Get(f); ok {
			out.Set(f, v)
		}
	}
	return out
}

// Clone 深拷贝记录。
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	return r.Project(r.fields)
}

// Map 返回字段 → 原生值的 map（CEL 规则、JSON 输出使用）。
func (r *Record) Map() map[string]any {
	out := make(map[string]any, r.Len())
	if r == nil {
		return out
	}
	for _, f := range r.fields {
		out[f] = r.values[f].Interface()
	}
	return out
}
