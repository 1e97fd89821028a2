// pkg/service/post/service.go
package post

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/anzhiyu-c/myblog/internal/pkg/paginator"
	"github.com/anzhiyu-c/myblog/pkg/constant"
	"github.com/anzhiyu-c/myblog/pkg/domain/model"
	"github.com/anzhiyu-c/myblog/pkg/domain/repository"
	"github.com/anzhiyu-c/myblog/pkg/service/policy"
	"github.com/anzhiyu-c/myblog/pkg/service/post_category"
	"github.com/anzhiyu-c/myblog/pkg/service/post_tag"
)

// ListResult 是文章列表的一页
type ListResult struct {
	Posts []*model.Post
	Page  paginator.Page
}

// DetailResult 是文章详情及其评论
type DetailResult struct {
	Post     *model.Post
	Comments []*model.Comment
}

// Service 封装了文章的业务逻辑
type Service struct {
	repos repository.Repositories
	tm    repository.TransactionManager
}

// NewService 是文章 Service 的构造函数。repos 用于只读查询，写操作都通过 tm 在事务中执行。
func NewService(repos repository.Repositories, tm repository.TransactionManager) *Service {
	return &Service{repos: repos, tm: tm}
}

// List 返回按发布时间倒序的一页文章，每页 constant.PostsPerPage 篇
func (s *Service) List(ctx context.Context, pageParam string) (*ListResult, error) {
	total, err := s.repos.Post.Count(ctx)
	if err != nil {
		return nil, err
	}
	page := paginator.Compute(total, constant.PostsPerPage, pageParam)
	if total == 0 {
		return &ListResult{Page: page}, nil
	}

	posts, err := s.repos.Post.List(ctx, page.Offset(), page.Limit())
	if err != nil {
		return nil, err
	}
	if err := s.fillCommentCounts(ctx, posts); err != nil {
		return nil, err
	}
	return &ListResult{Posts: posts, Page: page}, nil
}

func (s *Service) fillCommentCounts(ctx context.Context, posts []*model.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	counts, err := s.repos.Comment.CountByPostIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, p := range posts {
		p.CommentCount = counts[p.ID]
	}
	return nil
}

// Detail 返回文章及其按时间正序的评论
func (s *Service) Detail(ctx context.Context, id uint) (*DetailResult, error) {
	post, err := s.repos.Post.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.repos.Comment.ListByPostID(ctx, id)
	if err != nil {
		return nil, err
	}
	post.CommentCount = len(comments)
	return &DetailResult{Post: post, Comments: comments}, nil
}

// ValidateForm 校验并规范化表单，返回去除首尾空白后的副本
func ValidateForm(form *model.PostForm) (*model.PostForm, error) {
	clean := &model.PostForm{
		Title:    strings.TrimSpace(form.Title),
		Content:  strings.TrimSpace(form.Content),
		Category: strings.TrimSpace(form.Category),
		Tags:     strings.TrimSpace(form.Tags),
	}

	verr := model.NewValidationError()
	switch {
	case clean.Title == "":
		verr.Add("title", "标题不能为空。")
	case utf8.RuneCountInString(clean.Title) > model.PostTitleMaxLength:
		verr.Add("title", fmt.Sprintf("标题不能超过 %d 个字符（当前 %d 个）。",
			model.PostTitleMaxLength, utf8.RuneCountInString(clean.Title)))
	}
	if clean.Content == "" {
		verr.Add("content", "正文不能为空。")
	}
	if msg := post_category.ValidateName(clean.Category); msg != "" {
		verr.Add("category", msg)
	}
	if msg := post_tag.ValidateNames(clean.Tags); msg != "" {
		verr.Add("tags", msg)
	}

	if verr.HasErrors() {
		return nil, verr
	}
	return clean, nil
}

// Create 发布新文章，作者总是 actor
func (s *Service) Create(ctx context.Context, actor *model.Actor, form *model.PostForm) (*model.Post, error) {
	if err := policy.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	clean, err := ValidateForm(form)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		Title:    clean.Title,
		Content:  clean.Content,
		AuthorID: actor.ID,
	}
	err = s.tm.Do(ctx, func(repos repository.Repositories) error {
		if err := s.applyTaxonomy(ctx, repos, post, clean); err != nil {
			return err
		}
		if err := repos.Post.Create(ctx, post); err != nil {
			return err
		}
		return repos.Post.SetTags(ctx, post.ID, post_tag.IDs(post.Tags))
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[PostService] 用户 %s 发布了文章 #%d", actor.Username, post.ID)
	return s.repos.Post.FindByID(ctx, post.ID)
}

// applyTaxonomy 解析表单中的分类和标签并写入 post
func (s *Service) applyTaxonomy(ctx context.Context, repos repository.Repositories, post *model.Post, form *model.PostForm) error {
	category, err := post_category.Resolve(ctx, repos.PostCategory, form.Category)
	if err != nil {
		return err
	}
	tags, err := post_tag.Resolve(ctx, repos.PostTag, form.Tags)
	if err != nil {
		return err
	}
	post.Category = category
	post.Tags = tags
	return nil
}

// loadOwned 先确认文章存在，再确认 actor 有权修改
func (s *Service) loadOwned(ctx context.Context, actor *model.Actor, id uint) (*model.Post, error) {
	post, err := s.repos.Post.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.RequireModifyPost(actor, post); err != nil {
		return nil, err
	}
	return post, nil
}

// GetForEdit 返回可由 actor 编辑的文章
func (s *Service) GetForEdit(ctx context.Context, actor *model.Actor, id uint) (*model.Post, error) {
	return s.loadOwned(ctx, actor, id)
}

// Update 用表单内容覆盖文章，分类和标签整体替换
func (s *Service) Update(ctx context.Context, actor *model.Actor, id uint, form *model.PostForm) (*model.Post, error) {
	post, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	clean, err := ValidateForm(form)
	if err != nil {
		return nil, err
	}

	post.Title = clean.Title
	post.Content = clean.Content
	post.AuthorID = actor.ID
	err = s.tm.Do(ctx, func(repos repository.Repositories) error {
		if err := s.applyTaxonomy(ctx, repos, post, clean); err != nil {
			return err
		}
		if err := repos.Post.Update(ctx, post); err != nil {
			return err
		}
		return repos.Post.SetTags(ctx, post.ID, post_tag.IDs(post.Tags))
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[PostService] 用户 %s 更新了文章 #%d", actor.Username, post.ID)
	return s.repos.Post.FindByID(ctx, post.ID)
}

// Delete 删除文章及其评论和标签关联
func (s *Service) Delete(ctx context.Context, actor *model.Actor, id uint) error {
	if _, err := s.loadOwned(ctx, actor, id); err != nil {
		return err
	}
	err := s.tm.Do(ctx, func(repos repository.Repositories) error {
		return repos.Post.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	log.Printf("[PostService] 用户 %s 删除了文章 #%d", actor.Username, id)
	return nil
}

// ListByAuthor 返回 actor 自己的文章，用于个人主页
func (s *Service) ListByAuthor(ctx context.Context, actor *model.Actor) ([]*model.Post, error) {
	if err := policy.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	posts, err := s.repos.Post.ListByAuthor(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if err := s.fillCommentCounts(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}
