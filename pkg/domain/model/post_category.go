package model

import "time"

// PostCategory 是文章分类的核心领域模型。
type PostCategory struct {
	ID        uint
	CreatedAt time.Time
	Name      string
	Slug      string
}
