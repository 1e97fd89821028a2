package ent

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"

	"github.com/anzhiyu-c/myblog/pkg/constant"
	"github.com/anzhiyu-c/myblog/pkg/domain/model"
	"github.com/anzhiyu-c/myblog/pkg/domain/repository"
)

type postCategoryRepo struct {
	baseRepo
}

// NewPostCategoryRepo 创建 PostCategoryRepository 的实现
func NewPostCategoryRepo(drv dialect.ExecQuerier, dialectName string) repository.PostCategoryRepository {
	return &postCategoryRepo{baseRepo{drv: drv, dialect: dialectName}}
}

func (r *postCategoryRepo) Create(ctx context.Context, category *model.PostCategory) error {
	category.CreatedAt = dbTime(category.CreatedAt)
	id, err := r.insert(ctx, r.builder().Insert(tableCategories).
		Columns("name", "slug", "created_at").
		Values(category.Name, category.Slug, category.CreatedAt))
	if err != nil {
		return fmt.Errorf("创建分类失败: %w", err)
	}
	category.ID = id
	return nil
}

func (r *postCategoryRepo) list(ctx context.Context, pred *sql.Predicate) ([]*model.PostCategory, error) {
	b := r.builder()
	t := b.Table(tableCategories)
	s := b.Select(t.C("id"), t.C("name"), t.C("slug"), t.C("created_at")).From(t).OrderBy(t.C("name"))
	if pred != nil {
		s.Where(pred)
	}
	rows, err := r.query(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("查询分类失败: %w", err)
	}
	defer rows.Close()

	var categories []*model.PostCategory
	for rows.Next() {
		var (
			c         model.PostCategory
			id        int64
			createdAt nullTime
		)
		if err := rows.Scan(&id, &c.Name, &c.Slug, &createdAt); err != nil {
			return nil, err
		}
		c.ID = uint(id)
		c.CreatedAt = createdAt.Time
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

func (r *postCategoryRepo) FindBySlug(ctx context.Context, slug string) (*model.PostCategory, error) {
	categories, err := r.list(ctx, sql.EQ("slug", slug))
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("分类 %q: %w", slug, constant.ErrNotFound)
	}
	return categories[0], nil
}

func (r *postCategoryRepo) List(ctx context.Context) ([]*model.PostCategory, error) {
	return r.list(ctx, nil)
}

func (r *postCategoryRepo) Delete(ctx context.Context, id uint) error {
	if _, err := r.exec(ctx, r.builder().Update(tablePosts).SetNull("category_id").Where(sql.EQ("category_id", id))); err != nil {
		return fmt.Errorf("解除文章与分类 #%d 的关联失败: %w", id, err)
	}
	res, err := r.exec(ctx, r.builder().Delete(tableCategories).Where(sql.EQ("id", id)))
	if err != nil {
		return fmt.Errorf("删除分类 #%d 失败: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("分类 #%d: %w", id, constant.ErrNotFound)
	}
	return nil
}
