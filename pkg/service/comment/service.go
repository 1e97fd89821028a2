// pkg/service/comment/service.go
package comment

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/anzhiyu-c/myblog/pkg/domain/model"
	"github.com/anzhiyu-c/myblog/pkg/domain/repository"
	"github.com/anzhiyu-c/myblog/pkg/service/policy"
)

// Service 封装了评论的业务逻辑
type Service struct {
	repos repository.Repositories
}

// NewService 是评论 Service 的构造函数
func NewService(repos repository.Repositories) *Service {
	return &Service{repos: repos}
}

// Create 为文章发表一条评论。
// 检查顺序：文章不存在返回 ErrNotFound，未登录返回 ErrUnauthorized，内容为空返回 *model.ValidationError。
func (s *Service) Create(ctx context.Context, actor *model.Actor, postID uint, form *model.CommentForm) (*model.Comment, error) {
	post, err := s.repos.Post.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := policy.RequireAuthenticated(actor); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(form.Content)
	if content == "" {
		verr := model.NewValidationError()
		verr.Add("content", "评论内容不能为空。")
		return nil, verr
	}

	comment := &model.Comment{
		PostID:     post.ID,
		AuthorID:   actor.ID,
		AuthorName: actor.Username,
		Content:    content,
		DatePosted: time.Now().UTC().Truncate(time.Second),
	}
	if err := s.repos.Comment.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("保存评论失败: %w", err)
	}
	log.Printf("[CommentService] 用户 %s 评论了文章 #%d (评论 #%d)", actor.Username, post.ID, comment.ID)
	return comment, nil
}

// ListByPost 返回文章的全部评论，按发布时间正序
func (s *Service) ListByPost(ctx context.Context, postID uint) ([]*model.Comment, error) {
	return s.repos.Comment.ListByPostID(ctx, postID)
}
