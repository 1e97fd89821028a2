package repository

import (
	"context"

	"github.com/anzhiyu-c/myblog/pkg/domain/model"
)

// PostCategoryRepository 定义了文章分类的数据仓库接口。
type PostCategoryRepository interface {
	Create(ctx context.Context, category *model.PostCategory) error
	FindBySlug(ctx context.Context, slug string) (*model.PostCategory, error)
	List(ctx context.Context) ([]*model.PostCategory, error)
	// Delete 删除分类，引用它的文章 category_id 置空
	Delete(ctx context.Context, id uint) error
}
