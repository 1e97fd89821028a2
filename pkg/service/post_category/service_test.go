package post_category_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/anzhiyu-c/myblog/internal/infra/persistence/storetest"
	"github.com/anzhiyu-c/myblog/pkg/constant"
	"github.com/anzhiyu-c/myblog/pkg/service/post_category"
)

func TestResolveCategory(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)

	none, err := post_category.Resolve(ctx, s.Repos.PostCategory, "   ")
	if err != nil || none != nil {
		t.Errorf("空名称应返回 nil: %v %v", none, err)
	}

	created, err := post_category.Resolve(ctx, s.Repos.PostCategory, " Tech Notes ")
	if err != nil {
		t.Fatal(err)
	}
	if created.Name != "Tech Notes" || created.Slug != "tech-notes" || created.ID == 0 {
		t.Errorf("创建的分类不正确: %+v", created)
	}

	again, err := post_category.Resolve(ctx, s.Repos.PostCategory, "tech notes")
	if err != nil || again.ID != created.ID {
		t.Errorf("同 slug 的分类应复用: %+v %v", again, err)
	}

	if _, err := post_category.Resolve(ctx, s.Repos.PostCategory, "???"); !errors.Is(err, constant.ErrBadRequest) {
		t.Errorf("无效名称应返回 ErrBadRequest, 得到 %v", err)
	}
	if _, err := post_category.Resolve(ctx, s.Repos.PostCategory, strings.Repeat("a", 101)); !errors.Is(err, constant.ErrBadRequest) {
		t.Errorf("超长名称应返回 ErrBadRequest, 得到 %v", err)
	}
}
