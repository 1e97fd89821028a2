package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/anzhiyu-c/myblog/internal/pkg/security"
	"github.com/anzhiyu-c/myblog/pkg/constant"
	"github.com/anzhiyu-c/myblog/pkg/domain/model"
	"github.com/anzhiyu-c/myblog/pkg/domain/repository"
	"github.com/anzhiyu-c/myblog/pkg/idgen"
	"github.com/anzhiyu-c/myblog/pkg/service/utility"
)

// UsernameMaxLength 是用户名的最大字符数
const UsernameMaxLength = 150

// AuthService 定义了所有认证相关的业务逻辑接口
type AuthService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	// Login 校验用户名和密码，失败统一返回 ErrInvalidCredentials
	Login(ctx context.Context, username, password string) (*model.User, error)
	// Authenticate 根据会话令牌找到当前用户
	Authenticate(ctx context.Context, token string) (*model.User, error)
	// RequestPasswordReset 给使用该邮箱的每个用户发送重置链接，邮箱不存在时静默成功
	RequestPasswordReset(ctx context.Context, email string) error
	// CheckPasswordReset 校验重置链接，返回链接对应的用户
	CheckPasswordReset(ctx context.Context, uid, token string) (*model.User, error)
	PerformPasswordReset(ctx context.Context, uid, token string, req *model.SetPasswordRequest) error
}

type authService struct {
	userRepo repository.UserRepository
	tokenSvc TokenService
	emailSvc utility.EmailService
	siteURL  string
}

// NewAuthService 是 authService 的构造函数
func NewAuthService(
	userRepo repository.UserRepository,
	tokenSvc TokenService,
	emailSvc utility.EmailService,
	siteURL string,
) AuthService {
	return &authService{
		userRepo: userRepo,
		tokenSvc: tokenSvc,
		emailSvc: emailSvc,
		siteURL:  strings.TrimRight(siteURL, "/"),
	}
}

func validUsernameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("@.+-_", r)
}

// ValidateUsername 返回用户名格式错误提示，空字符串表示通过
func ValidateUsername(username string) string {
	if username == "" {
		return "请填写用户名。"
	}
	if utf8.RuneCountInString(username) > UsernameMaxLength {
		return fmt.Sprintf("用户名不能超过 %d 个字符。", UsernameMaxLength)
	}
	for _, r := range username {
		if !validUsernameRune(r) {
			return "用户名只能包含字母、数字和 @/./+/-/_ 字符。"
		}
	}
	return ""
}

func validateNewPassword(verr *model.ValidationError, field1, field2, password1, password2, username string) {
	if password1 == "" {
		verr.Add(field1, "请填写密码。")
	}
	if password2 == "" {
		verr.Add(field2, "请再次输入密码。")
	}
	if password1 == "" || password2 == "" {
		return
	}
	if password1 != password2 {
		verr.Add(field2, "两次输入的密码不一致。")
		return
	}
	if msg := security.ValidatePassword(password2, username); msg != "" {
		verr.Add(field2, msg)
	}
}

func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	verr := model.NewValidationError()

	if msg := ValidateUsername(username); msg != "" {
		verr.Add("username", msg)
	} else {
		exists, err := s.userRepo.ExistsByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		if exists {
			verr.Add("username", "已存在一位使用该名字的用户。")
		}
	}
	if email != "" {
		if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
			verr.Add("email", "请输入有效的电子邮箱地址。")
		}
	}
	validateNewPassword(verr, "password1", "password2", req.Password1, req.Password2, username)
	if verr.HasErrors() {
		return nil, verr
	}

	hash, err := security.HashPassword(req.Password1)
	if err != nil {
		return nil, fmt.Errorf("密码加密失败: %w", err)
	}
	user := &model.User{Username: username, Email: email, PasswordHash: hash}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// 并发注册同名用户时由唯一约束兜底
		if errors.Is(err, constant.ErrConflict) {
			verr.Add("username", "已存在一位使用该名字的用户。")
			return nil, verr
		}
		return nil, err
	}
	log.Printf("[AuthService] 新用户注册: %s (#%d)", user.Username, user.ID)
	return user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, constant.ErrNotFound) {
			return nil, constant.ErrInvalidCredentials
		}
		return nil, err
	}
	if !security.CheckPasswordHash(password, user.PasswordHash) {
		return nil, constant.ErrInvalidCredentials
	}

	now := time.Now().UTC().Truncate(time.Second)
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		log.Printf("[AuthService] 更新用户 %s 的登录时间失败: %v", user.Username, err)
	} else {
		user.LastLoginAt = &now
	}
	return user, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.tokenSvc.ParseSession(ctx, token)
	if err != nil {
		return nil, err
	}
	userID, err := idgen.DecodeUserID(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", constant.ErrInvalidToken, err)
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, constant.ErrNotFound) {
			return nil, fmt.Errorf("%w: 用户已不存在", constant.ErrInvalidToken)
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		verr := model.NewValidationError()
		verr.Add("email", "请填写电子邮箱地址。")
		return verr
	}
	users, err := s.userRepo.FindAllByEmail(ctx, email)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		log.Printf("[AuthService] 邮箱 %s 未注册，忽略重置请求", email)
		return nil
	}

	for _, user := range users {
		uid, err := idgen.GeneratePublicID(user.ID, idgen.EntityTypeUser)
		if err != nil {
			return err
		}
		resetURL := fmt.Sprintf("%s/password-reset-confirm/%s/%s/", s.siteURL, uid, s.tokenSvc.MakeResetToken(user))
		if err := s.emailSvc.SendPasswordResetEmail(ctx, user.Email, user.Username, resetURL); err != nil {
			return err
		}
	}
	return nil
}

func (s *authService) CheckPasswordReset(ctx context.Context, uid, token string) (*model.User, error) {
	userID, err := idgen.DecodeUserID(uid)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", constant.ErrInvalidToken, err)
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, constant.ErrNotFound) {
			return nil, fmt.Errorf("%w: 用户不存在", constant.ErrInvalidToken)
		}
		return nil, err
	}
	if err := s.tokenSvc.CheckResetToken(user, token); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) PerformPasswordReset(ctx context.Context, uid, token string, req *model.SetPasswordRequest) error {
	user, err := s.CheckPasswordReset(ctx, uid, token)
	if err != nil {
		return err
	}

	verr := model.NewValidationError()
	validateNewPassword(verr, "new_password1", "new_password2", req.NewPassword1, req.NewPassword2, user.Username)
	if verr.HasErrors() {
		return verr
	}

	hash, err := security.HashPassword(req.NewPassword1)
	if err != nil {
		return fmt.Errorf("密码加密失败: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	log.Printf("[AuthService] 用户 %s 已重置密码", user.Username)
	return nil
}
