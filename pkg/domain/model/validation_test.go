package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/anzhiyu-c/myblog/pkg/constant"
)

func TestValidationError(t *testing.T) {
	verr := NewValidationError()
	if verr.HasErrors() {
		t.Fatal("新建的校验错误不应包含字段")
	}
	verr.Add("title", "必填")
	verr.Add("title", "太长")
	verr.Add("content", "必填")

	if got := verr.Get("title"); got != "必填" {
		t.Errorf("Get(title) = %q, 期望保留第一条", got)
	}
	if !verr.HasErrors() {
		t.Error("HasErrors 应为 true")
	}

	wrapped := fmt.Errorf("创建文章: %w", verr)
	if !errors.Is(wrapped, constant.ErrBadRequest) {
		t.Error("校验错误应能匹配 ErrBadRequest")
	}
	var target *ValidationError
	if !errors.As(wrapped, &target) || target.Get("content") != "必填" {
		t.Error("errors.As 应能取回校验错误")
	}

	var nilErr *ValidationError
	if nilErr.HasErrors() || nilErr.Get("x") != "" {
		t.Error("nil 校验错误应安全可用")
	}
}
