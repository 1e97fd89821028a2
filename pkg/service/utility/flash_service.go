package utility

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/anzhiyu-c/myblog/pkg/constant"
	"github.com/anzhiyu-c/myblog/pkg/domain/model"
)

// FlashService 保存只显示一次的提示消息。boxID 由浏览器 Cookie 携带。
type FlashService interface {
	Add(ctx context.Context, boxID, level, text string) error
	// Pop 取出并清空消息盒中的全部消息
	Pop(ctx context.Context, boxID string) ([]model.FlashMessage, error)
}

type flashService struct {
	cache CacheService
}

// NewFlashService 创建基于 CacheService 的提示消息服务
func NewFlashService(cache CacheService) FlashService {
	return &flashService{cache: cache}
}

func (s *flashService) key(boxID string) string {
	return constant.FlashKeyPrefix + boxID
}

func (s *flashService) Add(ctx context.Context, boxID, level, text string) error {
	if boxID == "" {
		return fmt.Errorf("消息盒 ID 不能为空")
	}
	payload, err := json.Marshal(model.FlashMessage{Level: level, Text: text})
	if err != nil {
		return err
	}
	if err := s.cache.PushWithTTL(ctx, s.key(boxID), constant.FlashTTL, string(payload)); err != nil {
		return fmt.Errorf("保存提示消息失败: %w", err)
	}
	return nil
}

func (s *flashService) Pop(ctx context.Context, boxID string) ([]model.FlashMessage, error) {
	if boxID == "" {
		return nil, nil
	}
	raw, err := s.cache.TakeList(ctx, s.key(boxID))
	if err != nil {
		return nil, fmt.Errorf("读取提示消息失败: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	messages := make([]model.FlashMessage, 0, len(raw))
	for _, item := range raw {
		var msg model.FlashMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			log.Printf("[FlashService] 忽略无法解析的提示消息: %v", err)
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}
