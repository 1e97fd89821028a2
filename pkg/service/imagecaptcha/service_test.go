package imagecaptcha

import (
	"context"
	"strings"
	"testing"

	"github.com/anzhiyu-c/myblog/pkg/constant"
	"github.com/anzhiyu-c/myblog/pkg/service/utility"
)

func TestGenerateAndVerify(t *testing.T) {
	ctx := context.Background()
	cache := utility.NewMemoryCacheService()
	defer cache.Stop()
	svc := NewImageCaptchaService(true, cache)

	ch, err := svc.Generate(ctx)
	if err != nil {
		t.Fatalf("Generate 失败: %v", err)
	}
	if ch.ID == "" || !strings.HasPrefix(string(ch.Image), "data:image/png;base64,") {
		t.Fatalf("验证码格式不正确: id=%q image=%.30s", ch.ID, ch.Image)
	}
	answer, _ := cache.Get(ctx, constant.CaptchaKeyPrefix+ch.ID)
	if len(answer) != DefaultLength {
		t.Fatalf("缓存中的答案应为 %d 位, 得到 %q", DefaultLength, answer)
	}

	if err := svc.Verify(ctx, ch.ID, " "+answer+" "); err != nil {
		t.Errorf("正确答案应通过: %v", err)
	}
	if err := svc.Verify(ctx, ch.ID, answer); err == nil {
		t.Error("验证码只能使用一次")
	}
}

func TestVerifyFailures(t *testing.T) {
	ctx := context.Background()
	cache := utility.NewMemoryCacheService()
	defer cache.Stop()
	svc := NewImageCaptchaService(true, cache)

	ch, err := svc.Generate(ctx)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		id     string
		answer string
	}{
		{name: "缺少ID", id: "", answer: "1234"},
		{name: "缺少答案", id: ch.ID, answer: "  "},
		{name: "未知ID", id: "unknown", answer: "1234"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.Verify(ctx, tt.id, tt.answer); err == nil {
				t.Error("期望验证失败")
			}
		})
	}
}

func TestDisabled(t *testing.T) {
	svc := NewImageCaptchaService(false, utility.NewMemoryCacheService())
	ch, err := svc.Generate(context.Background())
	if ch != nil || err != nil {
		t.Errorf("未启用时 Generate 应返回 nil, 得到 %v %v", ch, err)
	}
	if err := svc.Verify(context.Background(), "", ""); err != nil {
		t.Errorf("未启用时 Verify 应直接通过: %v", err)
	}
}
