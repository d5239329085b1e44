package public

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// recipientSessionCookie 接收端会话 cookie 名
// 解锁令牌缓存按该会话隔离，一个接收端答对不会向其他访客泄露完整视图。
const recipientSessionCookie = "reveal_session"

// recipientSessionID 读取接收端会话标识，不存在时返回空
func recipientSessionID(c *gin.Context) string {
	sid, err := c.Cookie(recipientSessionCookie)
	if err != nil {
		return ""
	}
	return sid
}

// ensureRecipientSession 取接收端会话标识，首次验证通过时签发
func ensureRecipientSession(c *gin.Context, ttl time.Duration) string {
	if sid := recipientSessionID(c); sid != "" {
		return sid
	}
	sid := uuid.NewString()
	maxAge := int(ttl.Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	c.SetCookie(recipientSessionCookie, sid, maxAge, "/", "", false, true)
	return sid
}

// recipientUnlockKey 解锁令牌缓存键，按会话加分享令牌双重限定
func recipientUnlockKey(sessionID, shareToken string) string {
	return sessionID + ":" + shareToken
}
