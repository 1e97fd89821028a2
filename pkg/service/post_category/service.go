package post_category

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gosimple/slug"

	"github.com/anzhiyu-c/myblog/pkg/constant"
	"github.com/anzhiyu-c/myblog/pkg/domain/model"
	"github.com/anzhiyu-c/myblog/pkg/domain/repository"
)

// NameMaxLength 是分类名称允许的最大字符数
const NameMaxLength = 100

// Service 封装了文章分类的业务逻辑。
type Service struct {
	repo repository.PostCategoryRepository
}

// NewService 是 PostCategory Service 的构造函数。
func NewService(repo repository.PostCategoryRepository) *Service {
	return &Service{repo: repo}
}

// List 返回全部分类，按名称排序
func (s *Service) List(ctx context.Context) ([]*model.PostCategory, error) {
	return s.repo.List(ctx)
}

// ValidateName 检查分类名称，返回面向用户的错误提示；空字符串表示通过
func ValidateName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if utf8.RuneCountInString(name) > NameMaxLength {
		return fmt.Sprintf("分类名称不能超过 %d 个字符。", NameMaxLength)
	}
	if slug.Make(name) == "" {
		return "分类名称至少需要包含一个字母或数字。"
	}
	return ""
}

// Resolve 按 slug 查找分类，不存在时创建。名称为空时返回 nil 表示未分类。
// repo 可以是事务内的仓储。
func Resolve(ctx context.Context, repo repository.PostCategoryRepository, name string) (*model.PostCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	if msg := ValidateName(name); msg != "" {
		return nil, fmt.Errorf("分类 %q: %s: %w", name, msg, constant.ErrBadRequest)
	}

	categorySlug := slug.Make(name)
	existing, err := repo.FindBySlug(ctx, categorySlug)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, constant.ErrNotFound) {
		return nil, err
	}

	category := &model.PostCategory{Name: name, Slug: categorySlug}
	if err := repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}
