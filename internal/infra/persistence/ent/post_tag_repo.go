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

type postTagRepo struct {
	baseRepo
}

// NewPostTagRepo 创建 PostTagRepository 的实现
func NewPostTagRepo(drv dialect.ExecQuerier, dialectName string) repository.PostTagRepository {
	return &postTagRepo{baseRepo{drv: drv, dialect: dialectName}}
}

func (r *postTagRepo) Create(ctx context.Context, tag *model.PostTag) error {
	tag.CreatedAt = dbTime(tag.CreatedAt)
	id, err := r.insert(ctx, r.builder().Insert(tableTags).
		Columns("name", "slug", "created_at").
		Values(tag.Name, tag.Slug, tag.CreatedAt))
	if err != nil {
		return fmt.Errorf("创建标签失败: %w", err)
	}
	tag.ID = id
	return nil
}

func (r *postTagRepo) list(ctx context.Context, pred *sql.Predicate) ([]*model.PostTag, error) {
	b := r.builder()
	t := b.Table(tableTags)
	s := b.Select(t.C("id"), t.C("name"), t.C("slug"), t.C("created_at")).From(t).OrderBy(t.C("name"))
	if pred != nil {
		s.Where(pred)
	}
	rows, err := r.query(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("查询标签失败: %w", err)
	}
	defer rows.Close()

	var tags []*model.PostTag
	for rows.Next() {
		var (
			tag       model.PostTag
			id        int64
			createdAt nullTime
		)
		if err := rows.Scan(&id, &tag.Name, &tag.Slug, &createdAt); err != nil {
			return nil, err
		}
		tag.ID = uint(id)
		tag.CreatedAt = createdAt.Time
		tags = append(tags, &tag)
	}
	return tags, rows.Err()
}

func (r *postTagRepo) FindBySlug(ctx context.Context, slug string) (*model.PostTag, error) {
	tags, err := r.list(ctx, sql.EQ("slug", slug))
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return nil, fmt.Errorf("标签 %q: %w", slug, constant.ErrNotFound)
	}
	return tags[0], nil
}

func (r *postTagRepo) List(ctx context.Context) ([]*model.PostTag, error) {
	return r.list(ctx, nil)
}

func (r *postTagRepo) Delete(ctx context.Context, id uint) error {
	if _, err := r.exec(ctx, r.builder().Delete(tablePostTagLinks).Where(sql.EQ("tag_id", id))); err != nil {
		return fmt.Errorf("删除标签 #%d 的文章关联失败: %w", id, err)
	}
	res, err := r.exec(ctx, r.builder().Delete(tableTags).Where(sql.EQ("id", id)))
	if err != nil {
		return fmt.Errorf("删除标签 #%d 失败: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("标签 #%d: %w", id, constant.ErrNotFound)
	}
	return nil
}
