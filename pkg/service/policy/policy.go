// Package policy 集中定义谁可以对文章和评论做什么。
// 所有判断都是无状态的纯函数，actor 为 nil 表示匿名访问者。
package policy

import (
	"fmt"

	"github.com/anzhiyu-c/myblog/pkg/constant"
	"github.com/anzhiyu-c/myblog/pkg/domain/model"
)

// IsAuthenticated 判断是否为已登录用户
func IsAuthenticated(actor *model.Actor) bool {
	return actor != nil && actor.ID != 0
}

// IsOwner 判断 actor 是否为文章作者
func IsOwner(actor *model.Actor, post *model.Post) bool {
	return IsAuthenticated(actor) && post != nil && post.AuthorID == actor.ID
}

// CanModifyPost 编辑和删除文章都要求已登录且为作者本人
func CanModifyPost(actor *model.Actor, post *model.Post) bool {
	return IsAuthenticated(actor) && IsOwner(actor, post)
}

// CanCreatePost 任何已登录用户都可以发布文章
func CanCreatePost(actor *model.Actor) bool {
	return IsAuthenticated(actor)
}

// CanComment 任何已登录用户都可以评论
func CanComment(actor *model.Actor) bool {
	return IsAuthenticated(actor)
}

// RequireModifyPost 不满足 CanModifyPost 时返回 ErrForbidden
func RequireModifyPost(actor *model.Actor, post *model.Post) error {
	if !CanModifyPost(actor, post) {
		if post == nil {
			return fmt.Errorf("修改文章: %w", constant.ErrForbidden)
		}
		return fmt.Errorf("修改文章 #%d: %w", post.ID, constant.ErrForbidden)
	}
	return nil
}

// RequireAuthenticated 匿名访问时返回 ErrUnauthorized
func RequireAuthenticated(actor *model.Actor) error {
	if !IsAuthenticated(actor) {
		return constant.ErrUnauthorized
	}
	return nil
}
