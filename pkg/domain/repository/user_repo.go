package repository

import (
	"context"
	"time"

	"github.com/anzhiyu-c/myblog/pkg/domain/model"
)

// UserRepository 定义了用户数据操作的契约。
// 查询不到记录时返回包装了 constant.ErrNotFound 的错误。
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	// FindAllByEmail 返回使用该邮箱的全部用户，邮箱比较不区分大小写
	FindAllByEmail(ctx context.Context, email string) ([]*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
	// Delete 删除用户及其文章、文章下的评论和该用户的评论，应在事务中调用
	Delete(ctx context.Context, id uint) error
}
