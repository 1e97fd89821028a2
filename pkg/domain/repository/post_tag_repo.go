package repository

import (
	"context"

	"github.com/anzhiyu-c/myblog/pkg/domain/model"
)

// PostTagRepository 定义了文章标签的数据仓库接口。
type PostTagRepository interface {
	Create(ctx context.Context, tag *model.PostTag) error
	FindBySlug(ctx context.Context, slug string) (*model.PostTag, error)
	List(ctx context.Context) ([]*model.PostTag, error)
	// Delete 删除标签及其全部文章关联
	Delete(ctx context.Context, id uint) error
}
