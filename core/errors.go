package core

import (
	"errors"
	"fmt"
	"strings"
)

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX），兼容 fmt.Errorf("%w") 包装
//
// 使用场景：
//   - Schema 错误：MISSING_FIELDS
//   - Model 错误：DIMENSION_MISMATCH, INVALID_ARTIFACT
//   - EDA 错误：NO_IMPUTATION_VALUE, NOT_NUMERIC
//   - Store 错误：NOT_FOUND
type DomainError struct {
	Code    string   // 错误代码（如 "MISSING_FIELDS", "NOT_FOUND"）
	Message string   // 错误消息
	Module  string   // 模块名称（如 "schema", "model", "eda"）
	Fields  []string // 相关字段（缺失列、出错列等），可为空
}

func (e *DomainError) Error() string {
	return e.Message
}

// IsDomainError 检查错误链中是否存在 DomainError
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// GetDomainError 获取错误链中的 DomainError，如果不存在则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// NewMissingFieldsError 创建缺失字段错误，消息中列出全部缺失字段。
func NewMissingFieldsError(missing []string) *DomainError {
	return &DomainError{
		Module:  ModuleSchema,
		Code:    ErrorCodeMissingFields,
		Message: fmt.Sprintf("schema: missing required fields: [%s]", strings.Join(missing, ", ")),
		Fields:  append([]string(nil), missing...),
	}
}

// 错误代码常量
const (
	// 通用错误代码
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误

	// 领域错误代码
	ErrorCodeMissingFields     = "MISSING_FIELDS"      // 缺少必需字段
	ErrorCodeDimensionMismatch = "DIMENSION_MISMATCH"  // 向量维度与模型不一致
	ErrorCodeInvalidArtifact   = "INVALID_ARTIFACT"    // 模型/预处理文件内容无效
	ErrorCodeNoImputationValue = "NO_IMPUTATION_VALUE" // 全为空值，无法确定填充值
	ErrorCodeNotNumeric        = "NOT_NUMERIC"         // 列/值不是数值
)

// 模块名称常量
const (
	ModuleSchema  = "schema"  // 输入校验
	ModuleFeature = "feature" // 特征预处理
	ModuleModel   = "model"   // 聚类/投影模型
	ModuleRisk    = "risk"    // 风险分级
	ModuleEDA     = "eda"     // 探索性分析
	ModuleStore   = "store"   // 存储模块
	ModuleSink    = "sink"    // 结果输出
	ModuleService = "service" // 评分服务
)

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	return hasCode(err, ErrorCodeNotFound)
}

// IsMissingFields 检查错误是否为 MISSING_FIELDS
func IsMissingFields(err error) bool {
	return hasCode(err, ErrorCodeMissingFields)
}

// IsDimensionMismatch 检查错误是否为 DIMENSION_MISMATCH
func IsDimensionMismatch(err error) bool {
	return hasCode(err, ErrorCodeDimensionMismatch)
}

// IsNoImputationValue 检查错误是否为 NO_IMPUTATION_VALUE
func IsNoImputationValue(err error) bool {
	return hasCode(err, ErrorCodeNoImputationValue)
}
