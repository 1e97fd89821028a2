package model

// Actor 是发起请求的身份。nil 表示匿名访问者。
type Actor struct {
	ID       uint
	Username string
}
