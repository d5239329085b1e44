package public

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	handlershared "github.com/liwu-next/internal/http/handlers/shared"
	"github.com/liwu-next/internal/http/response"
	"github.com/liwu-next/internal/models"
	"github.com/liwu-next/internal/repository"
	"github.com/liwu-next/internal/service"
)

// CreateGiftRequest 创建草稿请求
type CreateGiftRequest struct {
	Config models.GiftConfig `json:"config"`
}

// UpdateGiftRequest 草稿配置更新请求（提供的分组整组替换）
type UpdateGiftRequest struct {
	Config models.GiftConfig `json:"config"`
}

// giftAuthorView 作者侧礼物视图
type giftAuthorView struct {
	ID            uint              `json:"id"`
	Status        string            `json:"status"`
	PaymentState  string            `json:"payment_state"`
	Config        models.GiftConfig `json:"config"`
	ConfigVersion uint              `json:"config_version"`
	HasLock       bool              `json:"has_lock"`
	LockQuestion  string            `json:"lock_question,omitempty"`
	LockHint      string            `json:"lock_hint,omitempty"`
	PriceAmount   models.Money      `json:"price_amount"`
	Currency      string            `json:"currency"`
	ShareToken    *string           `json:"share_token,omitempty"`
	PublishedAt   *time.Time        `json:"published_at,omitempty"`
	MediaRefs     []models.MediaRef `json:"media_refs,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// CreateGift 创建草稿礼物
func (h *Handler) CreateGift(c *gin.Context) {
	senderID, ok := getSenderID(c)
	if !ok {
		return
	}
	var req CreateGiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	gift, err := h.GiftService.CreateDraft(senderID, req.Config)
	if err != nil {
		respondGiftAuthorError(c, err)
		return
	}
	response.Success(c, newGiftAuthorView(gift))
}

// UpdateGift 草稿自动保存（分组级合并更新）
func (h *Handler) UpdateGift(c *gin.Context) {
	senderID, ok := getSenderID(c)
	if !ok {
		return
	}
	giftID, ok := parseGiftID(c)
	if !ok {
		return
	}
	var req UpdateGiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	gift, err := h.GiftService.Autosave(senderID, giftID, req.Config)
	if err != nil {
		respondGiftAuthorError(c, err)
		return
	}
	response.Success(c, newGiftAuthorView(gift))
}

// GetGift 查询单个礼物
func (h *Handler) GetGift(c *gin.Context) {
	senderID, ok := getSenderID(c)
	if !ok {
		return
	}
	giftID, ok := parseGiftID(c)
	if !ok {
		return
	}

	gift, err := h.GiftService.Get(senderID, giftID)
	if err != nil {
		respondGiftAuthorError(c, err)
		return
	}
	response.Success(c, newGiftAuthorView(gift))
}

// ListGifts 分页查询礼物列表
func (h *Handler) ListGifts(c *gin.Context) {
	senderID, ok := getSenderID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	gifts, total, err := h.GiftService.List(repository.GiftListFilter{
		SenderID: senderID,
		Status:   c.Query("status"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondGiftAuthorError(c, err)
		return
	}

	views := make([]*giftAuthorView, 0, len(gifts))
	for i := range gifts {
		views = append(views, newGiftAuthorView(&gifts[i]))
	}
	totalPage := (total + int64(pageSize) - 1) / int64(pageSize)
	response.SuccessWithPage(c, views, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	})
}

// DeleteGift 删除草稿礼物
func (h *Handler) DeleteGift(c *gin.Context) {
	senderID, ok := getSenderID(c)
	if !ok {
		return
	}
	giftID, ok := parseGiftID(c)
	if !ok {
		return
	}

	if err := h.GiftService.DeleteDraft(senderID, giftID); err != nil {
		respondGiftAuthorError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// PreviewGift 作者预览，绕过锁返回完整视图
func (h *Handler) PreviewGift(c *gin.Context) {
	senderID, ok := getSenderID(c)
	if !ok {
		return
	}
	giftID, ok := parseGiftID(c)
	if !ok {
		return
	}

	full, err := h.ViewService.Preview(senderID, giftID)
	if err != nil {
		respondGiftAuthorError(c, err)
		return
	}
	response.Success(c, full)
}

func parseGiftID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return 0, false
	}
	return uint(id), true
}

func newGiftAuthorView(gift *models.Gift) *giftAuthorView {
	if gift == nil {
		return nil
	}
	return &giftAuthorView{
		ID:            gift.ID,
		Status:        service.DisplayStatus(gift),
		PaymentState:  gift.PaymentState,
		Config:        gift.Config,
		ConfigVersion: gift.ConfigVersion,
		HasLock:       gift.HasLock(),
		LockQuestion:  gift.LockQuestion,
		LockHint:      gift.LockHint,
		PriceAmount:   gift.PriceAmount,
		Currency:      gift.Currency,
		ShareToken:    gift.ShareToken,
		PublishedAt:   gift.PublishedAt,
		MediaRefs:     gift.MediaRefs,
		CreatedAt:     gift.CreatedAt,
		UpdatedAt:     gift.UpdatedAt,
	}
}
