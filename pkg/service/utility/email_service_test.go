package utility

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anzhiyu-c/myblog/pkg/config"
)

type recordingMailer struct {
	to, subject, body string
}

func (m *recordingMailer) Send(to, subject, body string) error {
	m.to, m.subject, m.body = to, subject, body
	return nil
}

func TestSendPasswordResetEmail(t *testing.T) {
	cfg, err := config.NewConfigWithPath(filepath.Join(t.TempDir(), "conf.ini"))
	if err != nil {
		t.Fatal(err)
	}
	mailer := &recordingMailer{}
	svc := NewEmailServiceWithMailer(cfg, mailer)

	link := "http://127.0.0.1:8000/password-reset-confirm/abc/tok/"
	if err := svc.SendPasswordResetEmail(context.Background(), "a@example.com", "<alice>", link); err != nil {
		t.Fatalf("发送失败: %v", err)
	}
	if mailer.to != "a@example.com" {
		t.Errorf("收件人 = %q", mailer.to)
	}
	if !strings.Contains(mailer.subject, "MyBlog") {
		t.Errorf("主题 = %q", mailer.subject)
	}
	if !strings.Contains(mailer.body, link) {
		t.Errorf("正文缺少重置链接: %s", mailer.body)
	}
	if strings.Contains(mailer.body, "<alice>") {
		t.Error("用户名应被转义")
	}
}
