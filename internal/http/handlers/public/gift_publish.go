package public

import (
	"github.com/gin-gonic/gin"

	"github.com/liwu-next/internal/http/response"
)

// ApplyCouponRequest 优惠码兑换请求
type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// ApplyCoupon 兑换优惠码
func (h *Handler) ApplyCoupon(c *gin.Context) {
	senderID, ok := getSenderID(c)
	if !ok {
		return
	}
	giftID, ok := parseGiftID(c)
	if !ok {
		return
	}
	var req ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	gift, err := h.PublishService.ApplyCoupon(senderID, giftID, req.Code)
	if err != nil {
		respondGiftPublishError(c, err)
		return
	}
	response.Success(c, newGiftAuthorView(gift))
}

// PublishGift 发布礼物
// 重复发布幂等返回已有分享令牌，不视为错误。
func (h *Handler) PublishGift(c *gin.Context) {
	senderID, ok := getSenderID(c)
	if !ok {
		return
	}
	giftID, ok := parseGiftID(c)
	if !ok {
		return
	}

	gift, err := h.PublishService.Publish(senderID, giftID)
	if err != nil {
		respondGiftPublishError(c, err)
		return
	}
	response.Success(c, newGiftAuthorView(gift))
}

// MarkGiftPaid 外部支付确认回调
// 支付网关如何验证不在核心范围内，这里只落支付状态转移。
func (h *Handler) MarkGiftPaid(c *gin.Context) {
	senderID, ok := getSenderID(c)
	if !ok {
		return
	}
	giftID, ok := parseGiftID(c)
	if !ok {
		return
	}

	// 归属校验后再落状态
	if _, err := h.GiftService.Get(senderID, giftID); err != nil {
		respondGiftPublishError(c, err)
		return
	}
	gift, err := h.PublishService.MarkPaid(giftID)
	if err != nil {
		respondGiftPublishError(c, err)
		return
	}
	response.Success(c, newGiftAuthorView(gift))
}
