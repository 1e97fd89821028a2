package ent

import (
	"context"
	stdsql "database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"

	"github.com/anzhiyu-c/myblog/pkg/constant"
	"github.com/anzhiyu-c/myblog/pkg/domain/model"
	"github.com/anzhiyu-c/myblog/pkg/domain/repository"
)

type postRepo struct {
	baseRepo
}

// NewPostRepo 创建 PostRepository 的实现
func NewPostRepo(drv dialect.ExecQuerier, dialectName string) repository.PostRepository {
	return &postRepo{baseRepo{drv: drv, dialect: dialectName}}
}

func categoryID(p *model.Post) any {
	if p.Category == nil || p.Category.ID == 0 {
		return nil
	}
	return p.Category.ID
}

func (r *postRepo) Create(ctx context.Context, post *model.Post) error {
	post.DatePosted = dbTime(post.DatePosted)
	id, err := r.insert(ctx, r.builder().Insert(tablePosts).
		Columns("title", "content", "date_posted", "author_id", "category_id").
		Values(post.Title, post.Content, post.DatePosted, post.AuthorID, categoryID(post)))
	if err != nil {
		return fmt.Errorf("创建文章失败: %w", err)
	}
	post.ID = id
	return nil
}

func (r *postRepo) Update(ctx context.Context, post *model.Post) error {
	ub := r.builder().Update(tablePosts).
		Set("title", post.Title).
		Set("content", post.Content).
		Set("author_id", post.AuthorID)
	if cid := categoryID(post); cid != nil {
		ub.Set("category_id", cid)
	} else {
		ub.SetNull("category_id")
	}
	res, err := r.exec(ctx, ub.Where(sql.EQ("id", post.ID)))
	if err != nil {
		return fmt.Errorf("更新文章 #%d 失败: %w", post.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("文章 #%d: %w", post.ID, constant.ErrNotFound)
	}
	return nil
}

func (r *postRepo) SetTags(ctx context.Context, postID uint, tagIDs []uint) error {
	if _, err := r.exec(ctx, r.builder().Delete(tablePostTagLinks).Where(sql.EQ("post_id", postID))); err != nil {
		return fmt.Errorf("清除文章 #%d 的标签失败: %w", postID, err)
	}
	if len(tagIDs) == 0 {
		return nil
	}
	ib := r.builder().Insert(tablePostTagLinks).Columns("post_id", "tag_id")
	seen := make(map[uint]struct{}, len(tagIDs))
	for _, tagID := range tagIDs {
		if _, ok := seen[tagID]; ok {
			continue
		}
		seen[tagID] = struct{}{}
		ib.Values(postID, tagID)
	}
	if _, err := r.exec(ctx, ib); err != nil {
		return fmt.Errorf("关联文章 #%d 的标签失败: %w", postID, err)
	}
	return nil
}

func (r *postRepo) Delete(ctx context.Context, id uint) error {
	posts := r.builder().Table(tablePosts)
	n, err := r.countInt(ctx, r.builder().Select(sql.Count("*")).From(posts).Where(sql.EQ(posts.C("id"), id)))
	if err != nil {
		return fmt.Errorf("查询文章 #%d 失败: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("文章 #%d: %w", id, constant.ErrNotFound)
	}
	return r.deleteByIDs(ctx, []uint{id})
}

// deleteByIDs 删除文章及其标签关联和评论
func (r *postRepo) deleteByIDs(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	args := toAnySlice(ids)
	if _, err := r.exec(ctx, r.builder().Delete(tablePostTagLinks).Where(sql.In("post_id", args...))); err != nil {
		return fmt.Errorf("删除文章标签关联失败: %w", err)
	}
	if _, err := r.exec(ctx, r.builder().Delete(tableComments).Where(sql.In("post_id", args...))); err != nil {
		return fmt.Errorf("删除文章评论失败: %w", err)
	}
	if _, err := r.exec(ctx, r.builder().Delete(tablePosts).Where(sql.In("id", args...))); err != nil {
		return fmt.Errorf("删除文章失败: %w", err)
	}
	return nil
}

// selectPosts 构造带作者名和分类的文章查询。
// 连接的表都先起别名再取列，否则 Join 生成的别名会让列引用失效。
func (r *postRepo) selectPosts() (*sql.Selector, *sql.SelectTable) {
	b := r.builder()
	p, u, c := b.Table(tablePosts).As("p"), b.Table(tableUsers).As("u"), b.Table(tableCategories).As("c")
	s := b.Select(
		p.C("id"), p.C("title"), p.C("content"), p.C("date_posted"), p.C("author_id"), u.C("username"),
		c.C("id"), c.C("name"), c.C("slug"), c.C("created_at"),
	).
		From(p).
		Join(u).On(p.C("author_id"), u.C("id")).
		LeftJoin(c).On(p.C("category_id"), c.C("id"))
	return s, p
}

func (r *postRepo) fetch(ctx context.Context, s *sql.Selector) ([]*model.Post, error) {
	rows, err := r.query(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("查询文章失败: %w", err)
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		var (
			p                      model.Post
			id, authorID           int64
			datePosted, catCreated nullTime
			catID                  stdsql.NullInt64
			catName, catSlug       stdsql.NullString
		)
		if err := rows.Scan(&id, &p.Title, &p.Content, &datePosted, &authorID, &p.AuthorName,
			&catID, &catName, &catSlug, &catCreated); err != nil {
			return nil, fmt.Errorf("读取文章失败: %w", err)
		}
		p.ID = uint(id)
		p.AuthorID = uint(authorID)
		p.DatePosted = datePosted.Time
		if catID.Valid {
			p.Category = &model.PostCategory{
				ID:        uint(catID.Int64),
				Name:      catName.String,
				Slug:      catSlug.String,
				CreatedAt: catCreated.Time,
			}
		}
		posts = append(posts, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachTags(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// attachTags 一次查询填充所有文章的标签，标签按名称排序
func (r *postRepo) attachTags(ctx context.Context, posts []*model.Post) error {
	if len(posts) == 0 {
		return nil
	}
	byID := make(map[uint]*model.Post, len(posts))
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	b := r.builder()
	l, t := b.Table(tablePostTagLinks).As("l"), b.Table(tableTags).As("t")
	rows, err := r.query(ctx, b.Select(l.C("post_id"), t.C("id"), t.C("name"), t.C("slug"), t.C("created_at")).
		From(l).
		Join(t).On(l.C("tag_id"), t.C("id")).
		Where(sql.In(l.C("post_id"), toAnySlice(ids)...)).
		OrderBy(t.C("name")))
	if err != nil {
		return fmt.Errorf("查询文章标签失败: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			postID, tagID int64
			tag           model.PostTag
			createdAt     nullTime
		)
		if err := rows.Scan(&postID, &tagID, &tag.Name, &tag.Slug, &createdAt); err != nil {
			return fmt.Errorf("读取文章标签失败: %w", err)
		}
		tag.ID = uint(tagID)
		tag.CreatedAt = createdAt.Time
		if p, ok := byID[uint(postID)]; ok {
			p.Tags = append(p.Tags, &tag)
		}
	}
	return rows.Err()
}

func (r *postRepo) FindByID(ctx context.Context, id uint) (*model.Post, error) {
	s, p := r.selectPosts()
	posts, err := r.fetch(ctx, s.Where(sql.EQ(p.C("id"), id)).Limit(1))
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, fmt.Errorf("文章 #%d: %w", id, constant.ErrNotFound)
	}
	return posts[0], nil
}

func (r *postRepo) Count(ctx context.Context) (int, error) {
	n, err := r.countInt(ctx, r.builder().Select(sql.Count("*")).From(r.builder().Table(tablePosts)))
	if err != nil {
		return 0, fmt.Errorf("统计文章数量失败: %w", err)
	}
	return n, nil
}

func (r *postRepo) List(ctx context.Context, offset, limit int) ([]*model.Post, error) {
	s, p := r.selectPosts()
	s.OrderBy(sql.Desc(p.C("date_posted")), sql.Desc(p.C("id"))).
		Offset(offset).
		Limit(limit)
	return r.fetch(ctx, s)
}

func (r *postRepo) ListByAuthor(ctx context.Context, authorID uint) ([]*model.Post, error) {
	s, p := r.selectPosts()
	s.Where(sql.EQ(p.C("author_id"), authorID)).
		OrderBy(sql.Desc(p.C("date_posted")), sql.Desc(p.C("id")))
	return r.fetch(ctx, s)
}
