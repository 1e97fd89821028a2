package post_tag

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/gosimple/slug"

	"github.com/anzhiyu-c/myblog/internal/pkg/strutil"
	"github.com/anzhiyu-c/myblog/pkg/constant"
	"github.com/anzhiyu-c/myblog/pkg/domain/model"
	"github.com/anzhiyu-c/myblog/pkg/domain/repository"
)

// NameMaxLength 是标签名称允许的最大字符数
const NameMaxLength = 100

// MaxTagsPerPost 是单篇文章允许的最多标签数
const MaxTagsPerPost = 10

// Service 封装了文章标签的业务逻辑。
type Service struct {
	repo repository.PostTagRepository
}

// NewService 是 PostTag Service 的构造函数。
func NewService(repo repository.PostTagRepository) *Service {
	return &Service{repo: repo}
}

// List 返回全部标签，按名称排序
func (s *Service) List(ctx context.Context) ([]*model.PostTag, error) {
	return s.repo.List(ctx)
}

// ValidateNames 检查逗号分隔的标签输入，返回面向用户的错误提示；空字符串表示通过
func ValidateNames(raw string) string {
	names := strutil.SplitNames(raw)
	if len(names) > MaxTagsPerPost {
		return fmt.Sprintf("每篇文章最多 %d 个标签。", MaxTagsPerPost)
	}
	for _, name := range names {
		if utf8.RuneCountInString(name) > NameMaxLength {
			return fmt.Sprintf("标签名称不能超过 %d 个字符。", NameMaxLength)
		}
		if slug.Make(name) == "" {
			return fmt.Sprintf("标签 %q 至少需要包含一个字母或数字。", name)
		}
	}
	return ""
}

// Resolve 把逗号分隔的标签名称解析为标签集合，不存在的标签会被创建。
// slug 相同的名称视为同一个标签。repo 可以是事务内的仓储。
func Resolve(ctx context.Context, repo repository.PostTagRepository, raw string) ([]*model.PostTag, error) {
	if msg := ValidateNames(raw); msg != "" {
		return nil, fmt.Errorf("标签: %s: %w", msg, constant.ErrBadRequest)
	}

	var tags []*model.PostTag
	seen := make(map[string]struct{})
	for _, name := range strutil.SplitNames(raw) {
		tagSlug := slug.Make(name)
		if _, ok := seen[tagSlug]; ok {
			continue
		}
		seen[tagSlug] = struct{}{}

		tag, err := repo.FindBySlug(ctx, tagSlug)
		if errors.Is(err, constant.ErrNotFound) {
			tag = &model.PostTag{Name: name, Slug: tagSlug}
			err = repo.Create(ctx, tag)
		}
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// IDs 返回标签 ID 列表
func IDs(tags []*model.PostTag) []uint {
	ids := make([]uint, len(tags))
	for i, t := range tags {
		ids[i] = t.ID
	}
	return ids
}
