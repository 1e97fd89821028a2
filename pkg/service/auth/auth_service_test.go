package auth_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/anzhiyu-c/myblog/internal/infra/persistence/storetest"
	"github.com/anzhiyu-c/myblog/pkg/constant"
	"github.com/anzhiyu-c/myblog/pkg/domain/model"
	"github.com/anzhiyu-c/myblog/pkg/idgen"
	"github.com/anzhiyu-c/myblog/pkg/service/auth"
	"github.com/anzhiyu-c/myblog/pkg/service/utility"
)

type sentMail struct {
	to, username, url string
}

type fakeEmailService struct {
	sent []sentMail
}

func (f *fakeEmailService) SendPasswordResetEmail(ctx context.Context, toEmail, username, resetURL string) error {
	f.sent = append(f.sent, sentMail{to: toEmail, username: username, url: resetURL})
	return nil
}

type fixture struct {
	store  *storetest.Store
	tokens auth.TokenService
	svc    auth.AuthService
	mail   *fakeEmailService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	if err := idgen.InitSqidsEncoderWithSeed("auth-test"); err != nil {
		t.Fatal(err)
	}
	store := storetest.New(t)
	cache := utility.NewMemoryCacheService()
	t.Cleanup(cache.Stop)

	tokens := auth.NewTokenService([]byte("test-secret"), time.Hour, cache)
	mail := &fakeEmailService{}
	return &fixture{
		store:  store,
		tokens: tokens,
		svc:    auth.NewAuthService(store.Repos.User, tokens, mail, "http://blog.test/"),
		mail:   mail,
	}
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	f.store.CreateUser(t, "taken")

	tests := []struct {
		name      string
		req       model.RegisterRequest
		wantField string
	}{
		{name: "缺少用户名", req: model.RegisterRequest{Password1: "s3cret-pass", Password2: "s3cret-pass"}, wantField: "username"},
		{name: "用户名含非法字符", req: model.RegisterRequest{Username: "bad name", Password1: "s3cret-pass", Password2: "s3cret-pass"}, wantField: "username"},
		{name: "用户名超长", req: model.RegisterRequest{Username: strings.Repeat("a", 151), Password1: "s3cret-pass", Password2: "s3cret-pass"}, wantField: "username"},
		{name: "用户名已存在", req: model.RegisterRequest{Username: "Taken", Password1: "s3cret-pass", Password2: "s3cret-pass"}, wantField: "username"},
		{name: "邮箱无效", req: model.RegisterRequest{Username: "new", Email: "nope", Password1: "s3cret-pass", Password2: "s3cret-pass"}, wantField: "email"},
		{name: "两次密码不一致", req: model.RegisterRequest{Username: "new", Password1: "s3cret-pass", Password2: "s3cret-pas"}, wantField: "password2"},
		{name: "密码太短", req: model.RegisterRequest{Username: "new", Password1: "short", Password2: "short"}, wantField: "password2"},
		{name: "密码全是数字", req: model.RegisterRequest{Username: "new", Password1: "1234567890", Password2: "1234567890"}, wantField: "password2"},
		{name: "缺少密码", req: model.RegisterRequest{Username: "new"}, wantField: "password1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := f.svc.Register(context.Background(), &req)
			var verr *model.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("期望 ValidationError, 得到 %v", err)
			}
			if verr.Get(tt.wantField) == "" {
				t.Errorf("字段 %s 应有错误, 得到 %v", tt.wantField, verr.Fields)
			}
		})
	}
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	user, err := f.svc.Register(ctx, &model.RegisterRequest{
		Username: "carol", Email: "carol@example.com", Password1: "s3cret-pass", Password2: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("Register 失败: %v", err)
	}
	if user.ID == 0 || user.PasswordHash == "s3cret-pass" {
		t.Errorf("用户未正确保存: %+v", user)
	}

	if _, err := f.svc.Login(ctx, "carol", "wrong-pass"); !errors.Is(err, constant.ErrInvalidCredentials) {
		t.Errorf("错误密码应返回 ErrInvalidCredentials, 得到 %v", err)
	}
	if _, err := f.svc.Login(ctx, "nobody", "s3cret-pass"); !errors.Is(err, constant.ErrInvalidCredentials) {
		t.Errorf("不存在的用户应返回 ErrInvalidCredentials, 得到 %v", err)
	}

	logged, err := f.svc.Login(ctx, "carol", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login 失败: %v", err)
	}
	if logged.LastLoginAt == nil {
		t.Error("登录后应记录 LastLoginAt")
	}
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.store.CreateUser(t, "dave")

	token, err := f.tokens.IssueSession(user)
	if err != nil {
		t.Fatal(err)
	}
	got, err := f.svc.Authenticate(ctx, token)
	if err != nil || got.ID != user.ID {
		t.Fatalf("Authenticate = %+v, %v", got, err)
	}

	if _, err := f.svc.Authenticate(ctx, token+"x"); !errors.Is(err, constant.ErrInvalidToken) {
		t.Errorf("篡改的令牌应返回 ErrInvalidToken, 得到 %v", err)
	}

	if err := f.tokens.RevokeSession(ctx, token); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Authenticate(ctx, token); !errors.Is(err, constant.ErrInvalidToken) {
		t.Errorf("注销后的令牌应返回 ErrInvalidToken, 得到 %v", err)
	}
	if err := f.tokens.RevokeSession(ctx, "garbage"); err != nil {
		t.Errorf("注销无效令牌不应报错: %v", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.store.CreateUser(t, "erin")

	if err := f.svc.RequestPasswordReset(ctx, "unknown@example.com"); err != nil {
		t.Errorf("未注册邮箱应静默成功: %v", err)
	}
	if len(f.mail.sent) != 0 {
		t.Fatalf("未注册邮箱不应发送邮件")
	}

	if err := f.svc.RequestPasswordReset(ctx, "ERIN@example.com"); err != nil {
		t.Fatal(err)
	}
	if len(f.mail.sent) != 1 || f.mail.sent[0].to != user.Email {
		t.Fatalf("应向 %s 发送一封邮件, 得到 %+v", user.Email, f.mail.sent)
	}

	link := strings.TrimPrefix(f.mail.sent[0].url, "http://blog.test/password-reset-confirm/")
	parts := strings.Split(strings.TrimSuffix(link, "/"), "/")
	if len(parts) != 2 {
		t.Fatalf("重置链接格式不正确: %s", f.mail.sent[0].url)
	}
	uid, token := parts[0], parts[1]

	if _, err := f.svc.CheckPasswordReset(ctx, uid, token+"x"); !errors.Is(err, constant.ErrInvalidToken) {
		t.Errorf("篡改的重置令牌应返回 ErrInvalidToken, 得到 %v", err)
	}
	if _, err := f.svc.CheckPasswordReset(ctx, "!!", token); !errors.Is(err, constant.ErrInvalidToken) {
		t.Errorf("无效 uid 应返回 ErrInvalidToken, 得到 %v", err)
	}

	mismatch := &model.SetPasswordRequest{NewPassword1: "brand-new-pass", NewPassword2: "other-pass"}
	if err := f.svc.PerformPasswordReset(ctx, uid, token, mismatch); !errors.Is(err, constant.ErrBadRequest) {
		t.Errorf("密码不一致应返回 ErrBadRequest, 得到 %v", err)
	}

	ok := &model.SetPasswordRequest{NewPassword1: "brand-new-pass", NewPassword2: "brand-new-pass"}
	if err := f.svc.PerformPasswordReset(ctx, uid, token, ok); err != nil {
		t.Fatalf("PerformPasswordReset 失败: %v", err)
	}
	if _, err := f.svc.Login(ctx, "erin", "brand-new-pass"); err != nil {
		t.Errorf("新密码应能登录: %v", err)
	}
	if err := f.svc.PerformPasswordReset(ctx, uid, token, ok); !errors.Is(err, constant.ErrInvalidToken) {
		t.Errorf("密码修改后旧链接应失效, 得到 %v", err)
	}
}
