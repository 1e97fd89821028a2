package model

import "time"

// PostTag 是文章标签的核心领域模型。
type PostTag struct {
	ID        uint
	CreatedAt time.Time
	Name      string
	Slug      string
}
