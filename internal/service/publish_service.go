package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/liwu-next/internal/constants"
	"github.com/liwu-next/internal/logger"
	"github.com/liwu-next/internal/models"
	"github.com/liwu-next/internal/queue"
	"github.com/liwu-next/internal/repository"
)

// PublishService 发布闸门服务
type PublishService struct {
	db             *gorm.DB
	giftRepo       repository.GiftRepository
	couponRepo     repository.CouponRepository
	redemptionRepo repository.CouponRedemptionRepository
	queueClient    *queue.Client
}

// NewPublishService 创建发布闸门服务
func NewPublishService(
	db *gorm.DB,
	giftRepo repository.GiftRepository,
	couponRepo repository.CouponRepository,
	redemptionRepo repository.CouponRedemptionRepository,
	queueClient *queue.Client,
) *PublishService {
	return &PublishService{
		db:             db,
		giftRepo:       giftRepo,
		couponRepo:     couponRepo,
		redemptionRepo: redemptionRepo,
		queueClient:    queueClient,
	}
}

// ApplyCoupon 兑换优惠码
// 同一礼物重复兑换同一码视为成功幂等返回，不会重复扣减库存。
func (s *PublishService) ApplyCoupon(senderID, giftID uint, code string) (*models.Gift, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrCouponInvalid
	}

	gift, err := getOwnedGift(s.giftRepo, senderID, giftID)
	if err != nil {
		return nil, err
	}
	if gift.Status != constants.GiftStatusDraft {
		return nil, ErrGiftNotEditable
	}

	// 先查既有兑换记录，幂等判定以持久化事实为准
	existing, err := s.redemptionRepo.GetByGiftID(gift.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if strings.EqualFold(existing.Code, code) {
			return gift, nil
		}
		return nil, ErrCouponInvalid
	}

	coupon, err := s.couponRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if !couponRedeemable(coupon, time.Now()) {
		return nil, ErrCouponInvalid
	}

	if err := s.redeemCoupon(gift.ID, coupon); err != nil {
		if errors.Is(err, ErrCouponInvalid) {
			return nil, err
		}
		// gift_id 唯一索引兜底并发重复兑换，事务已回滚不会多扣库存
		dup, dupErr := s.redemptionRepo.GetByGiftID(gift.ID)
		if dupErr == nil && dup != nil && strings.EqualFold(dup.Code, code) {
			return s.giftRepo.GetByID(gift.ID)
		}
		return nil, err
	}

	gift.PaymentState = constants.PaymentStateCouponRedeemed
	gift.CouponID = &coupon.ID
	return gift, nil
}

// redeemCoupon 在单个事务内扣减库存并落核销记录与支付状态
// 任何一步失败整体回滚，库存计数与核销记录保持一致。
func (s *PublishService) redeemCoupon(giftID uint, coupon *models.Coupon) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.couponRepo.WithTx(tx).IncrementUsedCount(coupon.ID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrCouponInvalid
		}
		redemption := &models.CouponRedemption{
			CouponID:  coupon.ID,
			GiftID:    giftID,
			Code:      coupon.Code,
			CreatedAt: time.Now(),
		}
		if err := s.redemptionRepo.WithTx(tx).Create(redemption); err != nil {
			return err
		}
		return s.giftRepo.WithTx(tx).UpdatePaymentState(giftID, constants.PaymentStateCouponRedeemed, &coupon.ID)
	})
}

// MarkPaid 外部支付确认回调，仅落支付状态转移
func (s *PublishService) MarkPaid(giftID uint) (*models.Gift, error) {
	gift, err := s.giftRepo.GetByID(giftID)
	if err != nil {
		return nil, err
	}
	if gift == nil {
		return nil, ErrGiftNotFound
	}
	if gift.PaymentState == constants.PaymentStatePaid {
		return gift, nil
	}
	if err := s.giftRepo.UpdatePaymentState(gift.ID, constants.PaymentStatePaid, nil); err != nil {
		return nil, err
	}
	gift.PaymentState = constants.PaymentStatePaid
	return gift, nil
}

// Publish 发布礼物
// 条件更新保证并发重复发布只铸造一次分享令牌，已发布时幂等返回既有记录。
func (s *PublishService) Publish(senderID, giftID uint) (*models.Gift, error) {
	gift, err := getOwnedGift(s.giftRepo, senderID, giftID)
	if err != nil {
		return nil, err
	}
	if gift.IsPublished() {
		return gift, nil
	}
	if !gift.PayableComplete() {
		return nil, ErrPaymentRequired
	}
	if err := ValidateForPublish(gift.Config); err != nil {
		return nil, err
	}

	shareToken := mintShareToken()
	publishedAt := time.Now()
	ok, err := s.giftRepo.PublishIf(gift.ID, shareToken, publishedAt)
	if err != nil {
		return nil, err
	}
	if !ok {
		// 并发发布已先行完成，重读返回既有记录
		return s.giftRepo.GetByID(gift.ID)
	}

	gift.Status = constants.GiftStatusPublished
	gift.ShareToken = &shareToken
	gift.PublishedAt = &publishedAt

	if s.queueClient != nil {
		if err := s.queueClient.EnqueueGiftPublishedNotify(queue.GiftPublishedNotifyPayload{
			GiftID:     gift.ID,
			SenderID:   gift.SenderID,
			ShareToken: shareToken,
		}); err != nil {
			logger.Warnw("gift_published_notify_enqueue_failed",
				"gift_id", gift.ID,
				"error", err,
			)
		}
	}
	return gift, nil
}

func couponRedeemable(coupon *models.Coupon, now time.Time) bool {
	if coupon == nil || !coupon.IsActive {
		return false
	}
	if coupon.StartsAt != nil && now.Before(*coupon.StartsAt) {
		return false
	}
	if coupon.EndsAt != nil && now.After(*coupon.EndsAt) {
		return false
	}
	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		return false
	}
	return true
}

func mintShareToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
