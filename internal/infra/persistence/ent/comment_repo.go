package ent

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"

	"github.com/anzhiyu-c/myblog/pkg/domain/model"
	"github.com/anzhiyu-c/myblog/pkg/domain/repository"
)

type commentRepo struct {
	baseRepo
}

// NewCommentRepo 创建 CommentRepository 的实现
func NewCommentRepo(drv dialect.ExecQuerier, dialectName string) repository.CommentRepository {
	return &commentRepo{baseRepo{drv: drv, dialect: dialectName}}
}

func (r *commentRepo) Create(ctx context.Context, comment *model.Comment) error {
	comment.DatePosted = dbTime(comment.DatePosted)
	id, err := r.insert(ctx, r.builder().Insert(tableComments).
		Columns("post_id", "author_id", "content", "date_posted").
		Values(comment.PostID, comment.AuthorID, comment.Content, comment.DatePosted))
	if err != nil {
		return fmt.Errorf("创建评论失败: %w", err)
	}
	comment.ID = id
	return nil
}

func (r *commentRepo) ListByPostID(ctx context.Context, postID uint) ([]*model.Comment, error) {
	b := r.builder()
	c, u := b.Table(tableComments).As("c"), b.Table(tableUsers).As("u")
	rows, err := r.query(ctx, b.Select(
		c.C("id"), c.C("post_id"), c.C("author_id"), u.C("username"), c.C("content"), c.C("date_posted"),
	).
		From(c).
		Join(u).On(c.C("author_id"), u.C("id")).
		Where(sql.EQ(c.C("post_id"), postID)).
		OrderBy(sql.Asc(c.C("date_posted")), sql.Asc(c.C("id"))))
	if err != nil {
		return nil, fmt.Errorf("查询文章 #%d 的评论失败: %w", postID, err)
	}
	defer rows.Close()

	var comments []*model.Comment
	for rows.Next() {
		var (
			cm                model.Comment
			id, pid, authorID int64
			datePosted        nullTime
		)
		if err := rows.Scan(&id, &pid, &authorID, &cm.AuthorName, &cm.Content, &datePosted); err != nil {
			return nil, fmt.Errorf("读取评论失败: %w", err)
		}
		cm.ID, cm.PostID, cm.AuthorID = uint(id), uint(pid), uint(authorID)
		cm.DatePosted = datePosted.Time
		comments = append(comments, &cm)
	}
	return comments, rows.Err()
}

func (r *commentRepo) CountByPostIDs(ctx context.Context, postIDs []uint) (map[uint]int, error) {
	counts := make(map[uint]int, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}
	b := r.builder()
	c := b.Table(tableComments)
	rows, err := r.query(ctx, b.Select(c.C("post_id"), sql.Count("*")).
		From(c).
		Where(sql.In(c.C("post_id"), toAnySlice(postIDs)...)).
		GroupBy(c.C("post_id")))
	if err != nil {
		return nil, fmt.Errorf("统计评论数量失败: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var postID, n int64
		if err := rows.Scan(&postID, &n); err != nil {
			return nil, err
		}
		counts[uint(postID)] = int(n)
	}
	return counts, rows.Err()
}
