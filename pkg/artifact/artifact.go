// Package artifact 读取离线训练导出的模型/预处理文件。
// 文件格式按扩展名判断：.yaml/.yml 使用 YAML，其余按 JSON 解析。
package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Metadata 是所有导出文件共有的元信息。
type Metadata struct {
	// Kind 文件类型（preprocessor / kmeans / pca），可为空
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`
	// Version 模型版本
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	// CreatedAt 导出时间
	CreatedAt string `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// IsYAML 判断路径是否为 YAML 文件。
func IsYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Decode 按格式解析 data 到 v。JSON 解析拒绝未知字段，避免字段名拼写错误被静默忽略。
func Decode(data []byte, yamlFormat bool, v any) error {
	if yamlFormat {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("parse yaml: %w", err)
		}
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("parse json: %w", err)
	}
	return nil
}

// Load 读取并解析文件到 v。
func Load(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read artifact: %w", err)
	}
	if err := Decode(data, IsYAML(path), v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
