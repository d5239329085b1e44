package public

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/liwu-next/internal/cache"
	"github.com/liwu-next/internal/constants"
	"github.com/liwu-next/internal/http/response"
	"github.com/liwu-next/internal/service"
)

// SetLockRequest 设置秘密问题请求
type SetLockRequest struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
	Hint     string `json:"hint"`
}

// VerifySecretRequest 答案校验请求
type VerifySecretRequest struct {
	Answer         string                       `json:"answer" binding:"required"`
	CaptchaPayload service.CaptchaVerifyPayload `json:"captcha_payload"`
}

// SetGiftLock 设置秘密问题挑战，仅草稿态允许
func (h *Handler) SetGiftLock(c *gin.Context) {
	senderID, ok := getSenderID(c)
	if !ok {
		return
	}
	giftID, ok := parseGiftID(c)
	if !ok {
		return
	}
	var req SetLockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.LockService.SetChallenge(senderID, giftID, req.Question, req.Answer, req.Hint); err != nil {
		respondGiftLockError(c, err)
		return
	}
	response.Success(c, gin.H{"locked": true})
}

// ClearGiftLock 移除秘密问题挑战
func (h *Handler) ClearGiftLock(c *gin.Context) {
	senderID, ok := getSenderID(c)
	if !ok {
		return
	}
	giftID, ok := parseGiftID(c)
	if !ok {
		return
	}

	if err := h.LockService.ClearChallenge(senderID, giftID); err != nil {
		respondGiftLockError(c, err)
		return
	}
	response.Success(c, gin.H{"locked": false})
}

// VerifySecret 校验答案并签发解锁令牌
// 礼物不存在与答案错误返回同一错误，不暴露礼物是否存在。
func (h *Handler) VerifySecret(c *gin.Context) {
	shareToken := c.Param("share_token")
	var req VerifySecretRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if h.CaptchaService != nil {
		if captchaErr := h.CaptchaService.Verify(constants.CaptchaSceneVerifySecret, req.CaptchaPayload); captchaErr != nil {
			switch {
			case errors.Is(captchaErr, service.ErrCaptchaRequired):
				respondError(c, response.CodeBadRequest, "error.captcha_required", nil)
			case errors.Is(captchaErr, service.ErrCaptchaInvalid):
				respondError(c, response.CodeBadRequest, "error.captcha_invalid", nil)
			default:
				respondError(c, response.CodeInternal, "error.internal", captchaErr)
			}
			return
		}
	}

	if err := h.checkVerifyRateLimit(c, shareToken); err != nil {
		respondGiftLockError(c, err)
		return
	}

	unlockToken, expiresAt, err := h.LockService.Verify(shareToken, req.Answer)
	if err != nil {
		respondGiftLockError(c, err)
		return
	}

	// 按接收端会话兜底缓存一份，同一访客丢失令牌后可静默续用
	if h.UnlockTokenCache != nil {
		ttl := time.Until(expiresAt)
		sid := ensureRecipientSession(c, ttl)
		h.UnlockTokenCache.Put(c.Request.Context(), recipientUnlockKey(sid, shareToken), unlockToken, ttl)
	}
	response.Success(c, gin.H{
		"unlock_token": unlockToken,
		"expires_at":   expiresAt,
	})
}

// checkVerifyRateLimit 按 IP+分享令牌做固定窗口限流，给暴力猜答案增加成本
func (h *Handler) checkVerifyRateLimit(c *gin.Context, shareToken string) error {
	if h.Config == nil {
		return nil
	}
	limit := h.Config.Security.VerifyRateLimit
	if limit.MaxAttempts <= 0 || limit.WindowSeconds <= 0 {
		return nil
	}
	key := fmt.Sprintf("ratelimit:verify:%s:%s", c.ClientIP(), shareToken)
	count, err := cache.Incr(c.Request.Context(), key, time.Duration(limit.WindowSeconds)*time.Second)
	if err != nil {
		// 限流器不可用时放行，不把缓存故障放大成业务故障
		return nil
	}
	if count > int64(limit.MaxAttempts) {
		return service.ErrVerifyTooMany
	}
	return nil
}
