package repository

import (
	"context"

	"github.com/anzhiyu-c/myblog/pkg/domain/model"
)

// SettingRepository 定义了配置数据操作的契约
type SettingRepository interface {
	FindByKey(ctx context.Context, key string) (*model.Setting, error)
	// Save 插入或覆盖一条配置
	Save(ctx context.Context, setting *model.Setting) error
}
