package comment_test

import (
	"context"
	"errors"
	"testing"

	"github.com/anzhiyu-c/myblog/internal/infra/persistence/storetest"
	"github.com/anzhiyu-c/myblog/pkg/constant"
	"github.com/anzhiyu-c/myblog/pkg/domain/model"
	"github.com/anzhiyu-c/myblog/pkg/service/comment"
)

func TestCreate(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	svc := comment.NewService(s.Repos)
	alice := s.CreateUser(t, "alice").Actor()
	bob := s.CreateUser(t, "bob").Actor()

	p := &model.Post{Title: "t", Content: "c", AuthorID: alice.ID}
	if err := s.Repos.Post.Create(ctx, p); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		actor   *model.Actor
		postID  uint
		content string
		wantErr error
	}{
		{name: "文章不存在优先于未登录", actor: nil, postID: p.ID + 1, content: "hi", wantErr: constant.ErrNotFound},
		{name: "未登录", actor: nil, postID: p.ID, content: "hi", wantErr: constant.ErrUnauthorized},
		{name: "空内容", actor: bob, postID: p.ID, content: "  \n ", wantErr: constant.ErrBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.actor, tt.postID, &model.CommentForm{Content: tt.content})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Create = %v, 期望 %v", err, tt.wantErr)
			}
		})
	}

	got, _ := svc.ListByPost(ctx, p.ID)
	if len(got) != 0 {
		t.Fatalf("失败的请求不应创建评论, 得到 %d 条", len(got))
	}

	first, err := svc.Create(ctx, bob, p.ID, &model.CommentForm{Content: " 写得好 "})
	if err != nil {
		t.Fatalf("Create 失败: %v", err)
	}
	if first.AuthorID != bob.ID || first.PostID != p.ID || first.Content != "写得好" || first.DatePosted.IsZero() {
		t.Errorf("评论字段不正确: %+v", first)
	}
	if _, err := svc.Create(ctx, alice, p.ID, &model.CommentForm{Content: "谢谢"}); err != nil {
		t.Fatal(err)
	}

	got, err = svc.ListByPost(ctx, p.ID)
	if err != nil || len(got) != 2 {
		t.Fatalf("ListByPost = %d 条, %v", len(got), err)
	}
	if got[0].AuthorName != "bob" || got[1].AuthorName != "alice" {
		t.Errorf("评论应按发布时间正序: %s, %s", got[0].AuthorName, got[1].AuthorName)
	}
}
