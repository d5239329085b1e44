package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/liwu-next/internal/constants"
	"github.com/liwu-next/internal/models"
)

var testCouponSeq int

func createTestCoupon(t *testing.T, db *gorm.DB, usageLimit int) *models.Coupon {
	t.Helper()
	testCouponSeq++
	now := time.Now()
	later := now.Add(24 * time.Hour)
	coupon := &models.Coupon{
		Code:       fmt.Sprintf("CODE%d", testCouponSeq),
		Value:      models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		UsageLimit: usageLimit,
		StartsAt:   &now,
		EndsAt:     &later,
		IsActive:   true,
	}
	if err := db.Create(coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	return coupon
}

func TestApplyCouponMarksGiftRedeemed(t *testing.T) {
	giftSvc, _, publishSvc, _, _, db := newGiftServices(t)
	sender := createTestSender(t, db)
	gift := createDraftGift(t, giftSvc, sender.ID)
	coupon := createTestCoupon(t, db, 0)

	updated, err := publishSvc.ApplyCoupon(sender.ID, gift.ID, coupon.Code)
	if err != nil {
		t.Fatalf("apply coupon failed: %v", err)
	}
	if updated.PaymentState != constants.PaymentStateCouponRedeemed {
		t.Fatalf("payment state want coupon_redeemed got %s", updated.PaymentState)
	}
	if updated.CouponID == nil || *updated.CouponID != coupon.ID {
		t.Fatalf("coupon id not recorded: %v", updated.CouponID)
	}
}

func TestApplyCouponIdempotentPerGift(t *testing.T) {
	giftSvc, _, publishSvc, _, _, db := newGiftServices(t)
	sender := createTestSender(t, db)
	gift := createDraftGift(t, giftSvc, sender.ID)
	coupon := createTestCoupon(t, db, 5)

	if _, err := publishSvc.ApplyCoupon(sender.ID, gift.ID, coupon.Code); err != nil {
		t.Fatalf("first apply failed: %v", err)
	}
	// 同一礼物重复兑换同一码：幂等成功，不重复扣库存
	if _, err := publishSvc.ApplyCoupon(sender.ID, gift.ID, coupon.Code); err != nil {
		t.Fatalf("repeat apply failed: %v", err)
	}

	var reloaded models.Coupon
	if err := db.First(&reloaded, coupon.ID).Error; err != nil {
		t.Fatalf("reload coupon failed: %v", err)
	}
	if reloaded.UsedCount != 1 {
		t.Fatalf("used count want 1 got %d", reloaded.UsedCount)
	}

	// 换一个码则拒绝
	other := createTestCoupon(t, db, 5)
	if _, err := publishSvc.ApplyCoupon(sender.ID, gift.ID, other.Code); !errors.Is(err, ErrCouponInvalid) {
		t.Fatalf("second coupon on same gift want ErrCouponInvalid got %v", err)
	}
}

func TestRedeemCouponRollsBackIncrementOnDuplicate(t *testing.T) {
	giftSvc, _, publishSvc, _, _, db := newGiftServices(t)
	sender := createTestSender(t, db)
	gift := createDraftGift(t, giftSvc, sender.ID)
	coupon := createTestCoupon(t, db, 5)

	// 预置核销记录模拟并发先行者，唯一索引会让本次插入失败
	seeded := &models.CouponRedemption{
		CouponID:  coupon.ID,
		GiftID:    gift.ID,
		Code:      coupon.Code,
		CreatedAt: time.Now(),
	}
	if err := db.Create(seeded).Error; err != nil {
		t.Fatalf("seed redemption failed: %v", err)
	}

	if err := publishSvc.redeemCoupon(gift.ID, coupon); err == nil {
		t.Fatalf("duplicate redemption want error got nil")
	}

	// 事务回滚后库存扣减也要撤销
	var reloaded models.Coupon
	if err := db.First(&reloaded, coupon.ID).Error; err != nil {
		t.Fatalf("reload coupon failed: %v", err)
	}
	if reloaded.UsedCount != 0 {
		t.Fatalf("used count want 0 after rollback got %d", reloaded.UsedCount)
	}
}

func TestApplyCouponRejectsExhaustedAndExpired(t *testing.T) {
	giftSvc, _, publishSvc, _, _, db := newGiftServices(t)
	sender := createTestSender(t, db)

	exhausted := createTestCoupon(t, db, 1)
	first := createDraftGift(t, giftSvc, sender.ID)
	if _, err := publishSvc.ApplyCoupon(sender.ID, first.ID, exhausted.Code); err != nil {
		t.Fatalf("apply within limit failed: %v", err)
	}
	second := createDraftGift(t, giftSvc, sender.ID)
	if _, err := publishSvc.ApplyCoupon(sender.ID, second.ID, exhausted.Code); !errors.Is(err, ErrCouponInvalid) {
		t.Fatalf("exhausted coupon want ErrCouponInvalid got %v", err)
	}

	expired := createTestCoupon(t, db, 0)
	past := time.Now().Add(-time.Hour)
	if err := db.Model(expired).Update("ends_at", &past).Error; err != nil {
		t.Fatalf("expire coupon failed: %v", err)
	}
	third := createDraftGift(t, giftSvc, sender.ID)
	if _, err := publishSvc.ApplyCoupon(sender.ID, third.ID, expired.Code); !errors.Is(err, ErrCouponInvalid) {
		t.Fatalf("expired coupon want ErrCouponInvalid got %v", err)
	}

	fourth := createDraftGift(t, giftSvc, sender.ID)
	if _, err := publishSvc.ApplyCoupon(sender.ID, fourth.ID, "NO-SUCH-CODE"); !errors.Is(err, ErrCouponInvalid) {
		t.Fatalf("unknown coupon want ErrCouponInvalid got %v", err)
	}
}

func TestPublishRequiresPayment(t *testing.T) {
	giftSvc, _, publishSvc, _, _, db := newGiftServices(t)
	sender := createTestSender(t, db)
	gift := createDraftGift(t, giftSvc, sender.ID)

	if _, err := publishSvc.Publish(sender.ID, gift.ID); !errors.Is(err, ErrPaymentRequired) {
		t.Fatalf("publish unpaid want ErrPaymentRequired got %v", err)
	}

	coupon := createTestCoupon(t, db, 0)
	if _, err := publishSvc.ApplyCoupon(sender.ID, gift.ID, coupon.Code); err != nil {
		t.Fatalf("apply coupon failed: %v", err)
	}
	published, err := publishSvc.Publish(sender.ID, gift.ID)
	if err != nil {
		t.Fatalf("publish after coupon failed: %v", err)
	}
	if published.ShareToken == nil || *published.ShareToken == "" {
		t.Fatalf("published gift missing share token")
	}
	if published.PublishedAt == nil {
		t.Fatalf("published gift missing published_at")
	}
}

func TestPublishRequiresValidConfig(t *testing.T) {
	giftSvc, _, publishSvc, _, _, db := newGiftServices(t)
	sender := createTestSender(t, db)

	gift, err := giftSvc.CreateDraft(sender.ID, models.GiftConfig{})
	if err != nil {
		t.Fatalf("create draft failed: %v", err)
	}
	if _, err := publishSvc.MarkPaid(gift.ID); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if _, err := publishSvc.Publish(sender.ID, gift.ID); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("publish without identity want ErrConfigInvalid got %v", err)
	}
}

func TestPublishIdempotentKeepsShareToken(t *testing.T) {
	giftSvc, _, publishSvc, _, _, db := newGiftServices(t)
	sender := createTestSender(t, db)
	gift := createDraftGift(t, giftSvc, sender.ID)

	if _, err := publishSvc.MarkPaid(gift.ID); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	first, err := publishSvc.Publish(sender.ID, gift.ID)
	if err != nil {
		t.Fatalf("first publish failed: %v", err)
	}
	second, err := publishSvc.Publish(sender.ID, gift.ID)
	if err != nil {
		t.Fatalf("second publish failed: %v", err)
	}
	if *first.ShareToken != *second.ShareToken {
		t.Fatalf("share token changed on republish: %s vs %s", *first.ShareToken, *second.ShareToken)
	}
}

func TestMarkPaidIdempotent(t *testing.T) {
	giftSvc, _, publishSvc, _, _, db := newGiftServices(t)
	sender := createTestSender(t, db)
	gift := createDraftGift(t, giftSvc, sender.ID)

	if _, err := publishSvc.MarkPaid(gift.ID); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	again, err := publishSvc.MarkPaid(gift.ID)
	if err != nil {
		t.Fatalf("repeat mark paid failed: %v", err)
	}
	if again.PaymentState != constants.PaymentStatePaid {
		t.Fatalf("payment state want paid got %s", again.PaymentState)
	}
}
