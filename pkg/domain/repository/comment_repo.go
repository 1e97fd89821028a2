package repository

import (
	"context"

	"github.com/anzhiyu-c/myblog/pkg/domain/model"
)

// CommentRepository 定义了评论数据操作的契约
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	// ListByPostID 按 date_posted 正序 (id 正序兜底) 返回文章的全部评论
	ListByPostID(ctx context.Context, postID uint) ([]*model.Comment, error)
	CountByPostIDs(ctx context.Context, postIDs []uint) (map[uint]int, error)
}
