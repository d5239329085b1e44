package service

import (
	"context"
	"fmt"
	"time"

	"github.com/liwu-next/internal/cache"
	"github.com/liwu-next/internal/constants"
	"github.com/liwu-next/internal/models"
	"github.com/liwu-next/internal/repository"
	"github.com/liwu-next/internal/reveal"
)

// ViewService 视图解析服务
type ViewService struct {
	giftRepo repository.GiftRepository
	lockSvc  *LockService
}

// NewViewService 创建视图解析服务
func NewViewService(giftRepo repository.GiftRepository, lockSvc *LockService) *ViewService {
	return &ViewService{giftRepo: giftRepo, lockSvc: lockSvc}
}

// LockedView 锁定视图，只暴露挑战本身
type LockedView struct {
	Question string `json:"question"`
	Hint     string `json:"hint,omitempty"`
}

// FullView 完整视图，已剥离归属与锁配置等仅作者可见字段
type FullView struct {
	Config    models.GiftConfig `json:"config"`
	MediaRefs []models.MediaRef `json:"media_refs"`
	Stages    []string          `json:"stages"`
}

// ResolvedView 视图解析结果
type ResolvedView struct {
	Locked bool        `json:"locked"`
	Lock   *LockedView `json:"lock,omitempty"`
	Full   *FullView   `json:"full,omitempty"`
}

// Resolve 按分享令牌解析视图
// 有锁且未出示有效解锁令牌时返回锁定视图，配置与媒体一概不下发。
func (s *ViewService) Resolve(ctx context.Context, shareToken, unlockToken string) (*ResolvedView, error) {
	gift, err := s.giftRepo.GetByShareToken(shareToken)
	if err != nil {
		return nil, err
	}
	if gift == nil || !gift.IsPublished() {
		return nil, ErrNotFound
	}

	if gift.HasLock() && !s.lockSvc.ValidateUnlockToken(gift, unlockToken) {
		return &ResolvedView{
			Locked: true,
			Lock: &LockedView{
				Question: gift.LockQuestion,
				Hint:     gift.LockHint,
			},
		}, nil
	}

	// 已发布配置不可变，完整视图可按锁版本缓存
	cacheKey := fmt.Sprintf("view:%s:%d", shareToken, gift.LockVersion)
	var cached FullView
	if found, err := cache.GetJSON(ctx, cacheKey, &cached); err == nil && found {
		return &ResolvedView{Full: &cached}, nil
	}

	full := buildFullView(gift)
	_ = cache.SetJSON(ctx, cacheKey, full, time.Hour)
	return &ResolvedView{Full: full}, nil
}

// Preview 作者预览，身份已由登录态证明，越过锁直接返回完整视图
func (s *ViewService) Preview(senderID, giftID uint) (*FullView, error) {
	gift, err := getOwnedGift(s.giftRepo, senderID, giftID)
	if err != nil {
		return nil, err
	}
	return buildFullView(gift), nil
}

// DisplayStatus 计算对作者展示的状态
// awaiting_payment 是派生态：草稿定价未清零且支付门槛未满足。
func DisplayStatus(gift *models.Gift) string {
	if gift == nil {
		return ""
	}
	if gift.IsPublished() {
		return constants.GiftStatusPublished
	}
	if !gift.PayableComplete() && gift.PriceAmount.IsPositive() {
		return constants.GiftStatusAwaitingPayment
	}
	return constants.GiftStatusDraft
}

func buildFullView(gift *models.Gift) *FullView {
	refs := gift.MediaRefs
	if refs == nil {
		refs = []models.MediaRef{}
	}
	return &FullView{
		Config:    gift.Config,
		MediaRefs: refs,
		Stages:    reveal.PlanNames(gift.Config, false),
	}
}
