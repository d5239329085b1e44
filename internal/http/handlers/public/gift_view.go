package public

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/liwu-next/internal/http/response"
	"github.com/liwu-next/internal/service"
)

// ViewGift 按分享令牌解析接收端视图
// 只信请求自带的解锁令牌；未带令牌时仅回查本会话缓存，绝不跨访客复用。
func (h *Handler) ViewGift(c *gin.Context) {
	shareToken := c.Param("share_token")
	unlockToken := strings.TrimSpace(c.Query("unlock_token"))

	ctx := c.Request.Context()
	fromCache := false
	cacheKey := ""
	if unlockToken == "" && h.UnlockTokenCache != nil {
		if sid := recipientSessionID(c); sid != "" {
			cacheKey = recipientUnlockKey(sid, shareToken)
			if cached, ok := h.UnlockTokenCache.Get(ctx, cacheKey); ok {
				unlockToken = cached
				fromCache = true
			}
		}
	}

	view, err := h.ViewService.Resolve(ctx, shareToken, unlockToken)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.gift_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	// 缓存令牌已失效（锁配置变更或过期），清掉避免反复提交无效令牌
	if view.Locked && fromCache && h.UnlockTokenCache != nil {
		h.UnlockTokenCache.Evict(ctx, cacheKey)
	}
	response.Success(c, view)
}
