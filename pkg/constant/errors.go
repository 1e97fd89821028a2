package constant

import "errors"

// 定义业务逻辑相关的标准错误
var (
	// ErrNotFound 表示资源未找到，由 Handler 转换为 404 页面
	ErrNotFound = errors.New("资源未找到")

	// ErrForbidden 表示无权操作，由 Handler 转换为 403 页面
	ErrForbidden = errors.New("操作禁止")

	// ErrUnauthorized 表示需要登录，由 Handler 转换为跳转到登录页
	ErrUnauthorized = errors.New("未经授权的访问")

	// ErrConflict 表示唯一约束冲突，例如并发注册同名用户
	ErrConflict = errors.New("资源冲突")

	// ErrBadRequest 表示请求参数错误，表单错误会包装它
	ErrBadRequest = errors.New("错误的请求")

	// ErrInvalidToken 表示无效或过期的令牌 (会话、密码重置链接)
	ErrInvalidToken = errors.New("无效令牌")

	// ErrInvalidCredentials 表示用户名或密码错误
	ErrInvalidCredentials = errors.New("用户名或密码错误")

	// ErrInvalidPublicID 表示无效的公共ID
	ErrInvalidPublicID = errors.New("无效的公共ID")
)
