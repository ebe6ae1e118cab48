package frame

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rushteam/riskit/core"
)

// ReadCSV 读取带表头的 CSV。
// 类型推断按列进行：列内所有非空单元格都能解析为数字时为数值列，否则整列保留原始文本。
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("frame: empty csv")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	header = trimHeader(header)

	raw := make([][]string, len(header))
	rows := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", rows+1, err)
		}
		if len(rec) > len(header) {
			return nil, fmt.Errorf("frame: row %d has %d fields, header has %d", rows+1, len(rec), len(header))
		}
		for i := range header {
			cell := ""
			if i < len(rec) {
				cell = rec[i]
			}
			raw[i] = append(raw[i], cell)
		}
		rows++
	}

	t := &Table{index: make(map[string]int, len(header))}
	for i, name := range header {
		if err := t.AddColumn(name, inferColumn(raw[i], rows)); err != nil {
			return nil, err
		}
	}
	t.rows = rows
	return t, nil
}

// ReadCSVFile 从文件读取 CSV。
func ReadCSVFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	t, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func trimHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		out[i] = h
	}
	return out
}

func inferColumn(cells []string, rows int) []core.Value {
	values := make([]core.Value, rows)
	numeric := true
	for _, c := range cells {
		if core.IsNullToken(c) {
			continue
		}
		if _, ok := core.ParseNumber(c); !ok {
			numeric = false
			break
		}
	}
	for i, c := range cells {
		switch {
		case core.IsNullToken(c):
			values[i] = core.Null()
		case numeric:
			f, _ := core.ParseNumber(c)
			values[i] = core.Number(f)
		default:
			values[i] = core.String(c)
		}
	}
	return values
}

// WriteCSV 写出表头与所有行，空值写为空字符串。
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Names()); err != nil {
		return err
	}
	row := make([]string, len(t.columns))
	for i := 0; i < t.rows; i++ {
		for j, c := range t.columns {
			row[j] = c.Values[i].Text()
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile 写出到文件，必要时创建父目录。
func (t *Table) WriteCSVFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := t.WriteCSV(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write csv %s: %w", path, err)
	}
	return f.Close()
}
