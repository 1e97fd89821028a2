package auth

import "github.com/golang-jwt/jwt/v5"

// ActorKey 是用于在 gin.Context 中存储当前登录用户 (*model.Actor) 的键。
const ActorKey = "actor"

// SessionTokenKey 是用于在 gin.Context 中存储当前会话令牌的键，注销时使用。
const SessionTokenKey = "session_token"

// SessionClaims 定义了会话 JWT 的 Claims 结构体。
// Subject 保存用户的公共 ID，ID (jti) 用于注销。
type SessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}
