package policy

import (
	"errors"
	"testing"

	"github.com/anzhiyu-c/myblog/pkg/constant"
	"github.com/anzhiyu-c/myblog/pkg/domain/model"
)

func TestPolicy(t *testing.T) {
	alice := &model.Actor{ID: 1, Username: "alice"}
	bob := &model.Actor{ID: 2, Username: "bob"}
	post := &model.Post{ID: 10, AuthorID: alice.ID}

	tests := []struct {
		name          string
		actor         *model.Actor
		wantAuth      bool
		wantOwner     bool
		wantModify    bool
		wantComment   bool
		wantModifyErr error
	}{
		{name: "匿名访问者", actor: nil, wantModifyErr: constant.ErrForbidden},
		{name: "零值身份视为匿名", actor: &model.Actor{}, wantModifyErr: constant.ErrForbidden},
		{name: "作者本人", actor: alice, wantAuth: true, wantOwner: true, wantModify: true, wantComment: true},
		{name: "其他用户", actor: bob, wantAuth: true, wantComment: true, wantModifyErr: constant.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAuthenticated(tt.actor); got != tt.wantAuth {
				t.Errorf("IsAuthenticated = %v, 期望 %v", got, tt.wantAuth)
			}
			if got := IsOwner(tt.actor, post); got != tt.wantOwner {
				t.Errorf("IsOwner = %v, 期望 %v", got, tt.wantOwner)
			}
			if got := CanModifyPost(tt.actor, post); got != tt.wantModify {
				t.Errorf("CanModifyPost = %v, 期望 %v", got, tt.wantModify)
			}
			if got := CanCreatePost(tt.actor); got != tt.wantAuth {
				t.Errorf("CanCreatePost = %v, 期望 %v", got, tt.wantAuth)
			}
			if got := CanComment(tt.actor); got != tt.wantComment {
				t.Errorf("CanComment = %v, 期望 %v", got, tt.wantComment)
			}
			err := RequireModifyPost(tt.actor, post)
			if tt.wantModifyErr == nil && err != nil {
				t.Errorf("RequireModifyPost 返回 %v", err)
			}
			if tt.wantModifyErr != nil && !errors.Is(err, tt.wantModifyErr) {
				t.Errorf("RequireModifyPost = %v, 期望 %v", err, tt.wantModifyErr)
			}
		})
	}

	if err := RequireModifyPost(alice, nil); !errors.Is(err, constant.ErrForbidden) {
		t.Errorf("文章为空时应返回 ErrForbidden, 得到 %v", err)
	}

	if !errors.Is(RequireAuthenticated(nil), constant.ErrUnauthorized) {
		t.Error("匿名访问者应返回 ErrUnauthorized")
	}
	if RequireAuthenticated(bob) != nil {
		t.Error("已登录用户不应返回错误")
	}
}
