package post_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/anzhiyu-c/myblog/internal/infra/persistence/storetest"
	"github.com/anzhiyu-c/myblog/pkg/constant"
	"github.com/anzhiyu-c/myblog/pkg/domain/model"
	"github.com/anzhiyu-c/myblog/pkg/service/post"
)

func newService(t *testing.T) (*post.Service, *storetest.Store) {
	t.Helper()
	s := storetest.New(t)
	return post.NewService(s.Repos, s.TM), s
}

func TestCreateSetsAuthorToActor(t *testing.T) {
	ctx := context.Background()
	svc, s := newService(t)
	alice := s.CreateUser(t, "alice").Actor()

	created, err := svc.Create(ctx, alice, &model.PostForm{
		Title:    "  Hello  ",
		Content:  "first post",
		Category: "Notes",
		Tags:     "go, web",
	})
	if err != nil {
		t.Fatalf("Create 失败: %v", err)
	}
	if created.AuthorID != alice.ID || created.AuthorName != "alice" {
		t.Errorf("作者应为 alice, 得到 #%d %s", created.AuthorID, created.AuthorName)
	}
	if created.Title != "Hello" {
		t.Errorf("标题应去除首尾空白, 得到 %q", created.Title)
	}
	if created.Category == nil || created.Category.Name != "Notes" {
		t.Errorf("分类 = %+v", created.Category)
	}
	if created.TagNames() != "go, web" {
		t.Errorf("标签 = %q", created.TagNames())
	}
	if created.DatePosted.IsZero() {
		t.Error("DatePosted 应自动填充")
	}
}

func TestCreateRequiresAuthentication(t *testing.T) {
	svc, s := newService(t)
	_, err := svc.Create(context.Background(), nil, &model.PostForm{Title: "t", Content: "c"})
	if !errors.Is(err, constant.ErrUnauthorized) {
		t.Errorf("匿名发布应返回 ErrUnauthorized, 得到 %v", err)
	}
	if n, _ := s.Repos.Post.Count(context.Background()); n != 0 {
		t.Errorf("不应创建文章, 当前 %d 篇", n)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, s := newService(t)
	alice := s.CreateUser(t, "alice").Actor()

	tests := []struct {
		name      string
		form      model.PostForm
		wantField string
	}{
		{name: "空标题", form: model.PostForm{Title: "   ", Content: "c"}, wantField: "title"},
		{name: "标题超长", form: model.PostForm{Title: strings.Repeat("字", 201), Content: "c"}, wantField: "title"},
		{name: "空正文", form: model.PostForm{Title: "t", Content: "\n\t "}, wantField: "content"},
		{name: "无效分类", form: model.PostForm{Title: "t", Content: "c", Category: "!!!"}, wantField: "category"},
		{name: "无效标签", form: model.PostForm{Title: "t", Content: "c", Tags: "ok, ???"}, wantField: "tags"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := tt.form
			_, err := svc.Create(context.Background(), alice, &form)
			var verr *model.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("期望 ValidationError, 得到 %v", err)
			}
			if verr.Get(tt.wantField) == "" {
				t.Errorf("字段 %s 应有错误, 得到 %v", tt.wantField, verr.Fields)
			}
		})
	}

	if n, _ := s.Repos.Post.Count(context.Background()); n != 0 {
		t.Errorf("校验失败时不应创建文章, 当前 %d 篇", n)
	}

	exact, err := svc.Create(context.Background(), alice, &model.PostForm{Title: strings.Repeat("字", 200), Content: "c"})
	if err != nil || exact == nil {
		t.Errorf("200 个字符的标题应允许: %v", err)
	}
}

func TestUpdateAndDeleteAuthorization(t *testing.T) {
	ctx := context.Background()
	svc, s := newService(t)
	alice := s.CreateUser(t, "alice").Actor()
	bob := s.CreateUser(t, "bob").Actor()

	p, err := svc.Create(ctx, alice, &model.PostForm{Title: "mine", Content: "c", Tags: "keep"})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		actor   *model.Actor
		id      uint
		wantErr error
	}{
		{name: "其他用户编辑", actor: bob, id: p.ID, wantErr: constant.ErrForbidden},
		{name: "匿名编辑", actor: nil, id: p.ID, wantErr: constant.ErrForbidden},
		{name: "文章不存在优先于无权限", actor: bob, id: p.ID + 100, wantErr: constant.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.GetForEdit(ctx, tt.actor, tt.id); !errors.Is(err, tt.wantErr) {
				t.Errorf("GetForEdit = %v, 期望 %v", err, tt.wantErr)
			}
			if _, err := svc.Update(ctx, tt.actor, tt.id, &model.PostForm{Title: "hacked", Content: "x"}); !errors.Is(err, tt.wantErr) {
				t.Errorf("Update = %v, 期望 %v", err, tt.wantErr)
			}
			if err := svc.Delete(ctx, tt.actor, tt.id); !errors.Is(err, tt.wantErr) {
				t.Errorf("Delete = %v, 期望 %v", err, tt.wantErr)
			}
		})
	}

	unchanged, err := s.Repos.Post.FindByID(ctx, p.ID)
	if err != nil || unchanged.Title != "mine" || unchanged.TagNames() != "keep" {
		t.Errorf("被拒绝的操作不应修改文章: %+v %v", unchanged, err)
	}
}

func TestUpdateReplacesFields(t *testing.T) {
	ctx := context.Background()
	svc, s := newService(t)
	alice := s.CreateUser(t, "alice").Actor()

	p, err := svc.Create(ctx, alice, &model.PostForm{Title: "v1", Content: "c1", Category: "A", Tags: "x, y"})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := svc.Update(ctx, alice, p.ID, &model.PostForm{Title: "v2", Content: "c2", Tags: "z"})
	if err != nil {
		t.Fatalf("Update 失败: %v", err)
	}
	if updated.Title != "v2" || updated.Content != "c2" || updated.Category != nil || updated.TagNames() != "z" {
		t.Errorf("更新结果不正确: %+v tags=%q", updated, updated.TagNames())
	}
	if !updated.DatePosted.Equal(p.DatePosted) {
		t.Error("更新不应修改发布时间")
	}

	if _, err := svc.Update(ctx, alice, p.ID, &model.PostForm{Title: "", Content: "c3"}); !errors.Is(err, constant.ErrBadRequest) {
		t.Errorf("无效更新应返回 ErrBadRequest, 得到 %v", err)
	}
	again, _ := s.Repos.Post.FindByID(ctx, p.ID)
	if again.Title != "v2" {
		t.Errorf("无效更新不应生效, 标题 = %q", again.Title)
	}
}

func TestDeleteRemovesPostAndComments(t *testing.T) {
	ctx := context.Background()
	svc, s := newService(t)
	alice := s.CreateUser(t, "alice").Actor()

	p, err := svc.Create(ctx, alice, &model.PostForm{Title: "t", Content: "c"})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Repos.Comment.Create(ctx, &model.Comment{PostID: p.ID, AuthorID: alice.ID, Content: "hi"}); err != nil {
		t.Fatal(err)
	}

	if err := svc.Delete(ctx, alice, p.ID); err != nil {
		t.Fatalf("Delete 失败: %v", err)
	}
	if _, err := svc.Detail(ctx, p.ID); !errors.Is(err, constant.ErrNotFound) {
		t.Errorf("删除后 Detail 应返回 ErrNotFound, 得到 %v", err)
	}
	counts, _ := s.Repos.Comment.CountByPostIDs(ctx, []uint{p.ID})
	if counts[p.ID] != 0 {
		t.Errorf("评论应随文章删除, 剩余 %d", counts[p.ID])
	}
}

func TestListPagination(t *testing.T) {
	ctx := context.Background()
	svc, s := newService(t)
	alice := s.CreateUser(t, "alice").Actor()

	empty, err := svc.List(ctx, "")
	if err != nil || len(empty.Posts) != 0 || empty.Page.NumPages != 0 || empty.Page.Number != 1 {
		t.Errorf("空列表 = %+v, %v", empty, err)
	}

	var ids []uint
	for i := 0; i < 12; i++ {
		p, err := svc.Create(ctx, alice, &model.PostForm{Title: fmt.Sprintf("post %d", i), Content: "c"})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, p.ID)
	}
	if err := s.Repos.Comment.Create(ctx, &model.Comment{PostID: ids[11], AuthorID: alice.ID, Content: "x"}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		page      string
		wantFirst uint
		wantLen   int
		wantNum   int
	}{
		{page: "", wantFirst: ids[11], wantLen: 5, wantNum: 1},
		{page: "2", wantFirst: ids[6], wantLen: 5, wantNum: 2},
		{page: "3", wantFirst: ids[1], wantLen: 2, wantNum: 3},
		{page: "abc", wantFirst: ids[11], wantLen: 5, wantNum: 1},
		{page: "99", wantFirst: ids[1], wantLen: 2, wantNum: 3},
		{page: "last", wantFirst: ids[1], wantLen: 2, wantNum: 3},
	}
	for _, tt := range tests {
		t.Run("page="+tt.page, func(t *testing.T) {
			res, err := svc.List(ctx, tt.page)
			if err != nil {
				t.Fatal(err)
			}
			if res.Page.Number != tt.wantNum || res.Page.NumPages != 3 {
				t.Errorf("Page = %+v", res.Page)
			}
			if len(res.Posts) != tt.wantLen || res.Posts[0].ID != tt.wantFirst {
				t.Errorf("得到 %d 篇, 首篇 #%d; 期望 %d 篇, 首篇 #%d", len(res.Posts), res.Posts[0].ID, tt.wantLen, tt.wantFirst)
			}
		})
	}

	first, _ := svc.List(ctx, "1")
	if first.Posts[0].CommentCount != 1 || first.Posts[1].CommentCount != 0 {
		t.Errorf("评论数 = %d, %d", first.Posts[0].CommentCount, first.Posts[1].CommentCount)
	}
}

func TestListByAuthor(t *testing.T) {
	ctx := context.Background()
	svc, s := newService(t)
	alice := s.CreateUser(t, "alice").Actor()
	bob := s.CreateUser(t, "bob").Actor()

	for _, a := range []*model.Actor{alice, bob, alice} {
		if _, err := svc.Create(ctx, a, &model.PostForm{Title: "t", Content: "c"}); err != nil {
			t.Fatal(err)
		}
	}
	mine, err := svc.ListByAuthor(ctx, alice)
	if err != nil || len(mine) != 2 {
		t.Errorf("ListByAuthor = %d 篇, %v", len(mine), err)
	}
	if _, err := svc.ListByAuthor(ctx, nil); !errors.Is(err, constant.ErrUnauthorized) {
		t.Errorf("匿名访问应返回 ErrUnauthorized, 得到 %v", err)
	}
}
