package repository

import (
	"context"

	"github.com/anzhiyu-c/myblog/pkg/domain/model"
)

// PostRepository 定义了文章数据操作的契约。
// 返回的文章都已填充作者名、分类和标签。
type PostRepository interface {
	// Create 写入文章并回填 ID，Category 与 Tags 只读取其 ID
	Create(ctx context.Context, post *model.Post) error
	// Update 覆盖标题、正文、作者和分类
	Update(ctx context.Context, post *model.Post) error
	// SetTags 用给定集合替换文章的标签
	SetTags(ctx context.Context, postID uint, tagIDs []uint) error
	// Delete 删除文章及其评论和标签关联，应在事务中调用
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Post, error)
	Count(ctx context.Context) (int, error)
	// List 按 date_posted 倒序 (id 倒序兜底) 返回一页文章
	List(ctx context.Context, offset, limit int) ([]*model.Post, error)
	ListByAuthor(ctx context.Context, authorID uint) ([]*model.Post, error)
}
