package model

import (
	"sort"
	"strings"

	"github.com/anzhiyu-c/myblog/pkg/constant"
)

// ValidationError 表示表单校验失败，Fields 保存 字段名 -> 错误提示。
// 非字段错误使用空字符串作为键。
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError 创建一个空的校验错误，用 Add 追加字段错误
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add 记录字段错误，同一字段只保留第一条
func (e *ValidationError) Add(field, message string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

// HasErrors 为真时表示至少有一个字段不合法
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// Get 返回字段错误，供模板使用
func (e *ValidationError) Get(field string) string {
	if e == nil {
		return ""
	}
	return e.Fields[field]
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "表单校验失败: " + strings.Join(parts, "; ")
}

// Unwrap 使 errors.Is(err, constant.ErrBadRequest) 成立
func (e *ValidationError) Unwrap() error {
	return constant.ErrBadRequest
}
