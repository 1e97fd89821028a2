package constant

import "time"

// 缓存键前缀
const (
	// RevokedSessionKeyPrefix + jti，记录已注销的会话
	RevokedSessionKeyPrefix = "myblog:session:revoked:"
	// FlashKeyPrefix + 消息盒 ID，保存待显示的一次性提示消息
	FlashKeyPrefix = "myblog:flash:"
	// CaptchaKeyPrefix + 验证码 ID，保存验证码答案
	CaptchaKeyPrefix = "myblog:captcha:"
)

// Cookie 名称
const (
	SessionCookieName = "myblog_session"
	FlashCookieName   = "myblog_flash"
)

const (
	// PostsPerPage 是文章列表每页显示的数量
	PostsPerPage = 5
	// FlashTTL 是提示消息的最长保留时间
	FlashTTL = 10 * time.Minute
	// CaptchaTTL 是验证码答案的有效期
	CaptchaTTL = 5 * time.Minute
	// PasswordResetTTL 是密码重置链接的有效期
	PasswordResetTTL = 3 * 24 * time.Hour
)

// 提示消息级别，与模板中的 CSS 类对应
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
)

// settings 表中的配置键
const (
	SettingKeySecret = "session_secret"
	SettingKeyIDSeed = "id_seed"
)
