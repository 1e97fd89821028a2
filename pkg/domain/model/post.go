package model

import "time"

// PostTitleMaxLength 是文章标题允许的最大字符数
const PostTitleMaxLength = 200

// Post 是文章的核心领域模型
type Post struct {
	ID         uint
	Title      string
	Content    string
	DatePosted time.Time
	AuthorID   uint
	AuthorName string
	Category   *PostCategory
	Tags       []*PostTag

	// CommentCount 由服务层填充
	CommentCount int
}

// TagNames 返回逗号分隔的标签名称，用于回填编辑表单
func (p *Post) TagNames() string {
	names := ""
	for i, t := range p.Tags {
		if i > 0 {
			names += ", "
		}
		names += t.Name
	}
	return names
}

// PostForm 是创建与编辑文章共用的表单。
// 表单中不包含作者字段，作者总是当前登录用户。
type PostForm struct {
	Title    string `form:"title"`
	Content  string `form:"content"`
	Category string `form:"category"`
	Tags     string `form:"tags"`
}

// NewPostForm 用已有文章回填表单
func NewPostForm(p *Post) *PostForm {
	form := &PostForm{Title: p.Title, Content: p.Content, Tags: p.TagNames()}
	if p.Category != nil {
		form.Category = p.Category.Name
	}
	return form
}
