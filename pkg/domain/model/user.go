// pkg/domain/model/user.go
package model

import "time"

type User struct {
	ID           uint
	CreatedAt    time.Time
	Username     string
	Email        string
	PasswordHash string
	LastLoginAt  *time.Time
}

// Actor 返回该用户作为请求发起者的身份
func (u *User) Actor() *Actor {
	if u == nil {
		return nil
	}
	return &Actor{ID: u.ID, Username: u.Username}
}

// RegisterRequest 定义了注册表单
type RegisterRequest struct {
	Username      string `form:"username"`
	Email         string `form:"email"`
	Password1     string `form:"password1"`
	Password2     string `form:"password2"`
	CaptchaID     string `form:"captcha_id"`
	CaptchaAnswer string `form:"captcha_answer"`
}

// LoginRequest 定义了登录表单
type LoginRequest struct {
	Username string `form:"username"`
	Password string `form:"password"`
	Next     string `form:"next"`
}

// PasswordResetRequest 定义了申请重置密码的表单
type PasswordResetRequest struct {
	Email string `form:"email"`
}

// SetPasswordRequest 定义了设置新密码的表单
type SetPasswordRequest struct {
	NewPassword1 string `form:"new_password1"`
	NewPassword2 string `form:"new_password2"`
}
