package model

import "time"

// Comment 是文章评论的核心领域模型
type Comment struct {
	ID         uint
	PostID     uint
	AuthorID   uint
	AuthorName string
	Content    string
	DatePosted time.Time
}

// CommentForm 是文章详情页的评论表单
type CommentForm struct {
	Content string `form:"content"`
}
