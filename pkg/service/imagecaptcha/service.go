// pkg/service/imagecaptcha/service.go
/*
 * @Description: 注册页使用的图形验证码服务
 */
package imagecaptcha

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/google/uuid"
	"github.com/mojocn/base64Captcha"

	"github.com/anzhiyu-c/myblog/pkg/constant"
	"github.com/anzhiyu-c/myblog/pkg/service/utility"
)

// DefaultLength 是验证码的数字位数
const DefaultLength = 4

// Challenge 是渲染到注册表单里的一道验证码
type Challenge struct {
	ID    string
	Image template.URL
}

// ImageCaptchaService 定义了图形验证码服务的接口
type ImageCaptchaService interface {
	Enabled() bool
	// Generate 生成验证码，未启用时返回 nil
	Generate(ctx context.Context) (*Challenge, error)
	// Verify 验证验证码，无论成功与否都会删除答案
	Verify(ctx context.Context, captchaID, answer string) error
}

type imageCaptchaService struct {
	enabled  bool
	cacheSvc utility.CacheService
	driver   base64Captcha.Driver
}

// NewImageCaptchaService 创建一个新的 ImageCaptchaService 实例
func NewImageCaptchaService(enabled bool, cacheSvc utility.CacheService) ImageCaptchaService {
	return &imageCaptchaService{
		enabled:  enabled,
		cacheSvc: cacheSvc,
		driver:   base64Captcha.NewDriverDigit(80, 240, DefaultLength, 0.7, 80),
	}
}

func (s *imageCaptchaService) Enabled() bool {
	return s.enabled
}

func (s *imageCaptchaService) Generate(ctx context.Context) (*Challenge, error) {
	if !s.enabled {
		return nil, nil
	}
	_, content, answer := s.driver.GenerateIdQuestionAnswer()
	item, err := s.driver.DrawCaptcha(content)
	if err != nil {
		return nil, fmt.Errorf("生成验证码失败: %w", err)
	}

	// 答案只保存在缓存里，ID 使用 UUID
	id := uuid.NewString()
	if err := s.cacheSvc.Set(ctx, constant.CaptchaKeyPrefix+id, answer, constant.CaptchaTTL); err != nil {
		return nil, fmt.Errorf("保存验证码失败: %w", err)
	}
	return &Challenge{ID: id, Image: template.URL(item.EncodeB64string())}, nil
}

func (s *imageCaptchaService) Verify(ctx context.Context, captchaID, answer string) error {
	if !s.enabled {
		return nil
	}
	if captchaID == "" {
		return errors.New("验证码已失效，请重新输入。")
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return errors.New("请输入验证码。")
	}

	// 一次性验证码
	stored, err := s.cacheSvc.GetDel(ctx, constant.CaptchaKeyPrefix+captchaID)
	if err != nil {
		return fmt.Errorf("读取验证码失败: %w", err)
	}

	if stored == "" {
		return errors.New("验证码已过期，请重新输入。")
	}
	if !strings.EqualFold(answer, stored) {
		return errors.New("验证码错误。")
	}
	return nil
}
