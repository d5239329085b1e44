package service

import (
	"context"
	"errors"
	"testing"

	"github.com/liwu-next/internal/constants"
	"github.com/liwu-next/internal/models"
)

func TestResolveUnknownTokenNotFound(t *testing.T) {
	_, _, _, viewSvc, _, _ := newGiftServices(t)

	if _, err := viewSvc.Resolve(context.Background(), "missing", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown share token want ErrNotFound got %v", err)
	}
}

func TestResolveUnlockedGiftReturnsFullView(t *testing.T) {
	giftSvc, _, publishSvc, viewSvc, _, db := newGiftServices(t)
	sender := createTestSender(t, db)
	gift := createDraftGift(t, giftSvc, sender.ID)

	if _, err := giftSvc.Autosave(sender.ID, gift.ID, models.GiftConfig{
		Message: &models.MessageGroup{Body: "正文"},
	}); err != nil {
		t.Fatalf("autosave failed: %v", err)
	}
	if _, err := publishSvc.MarkPaid(gift.ID); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	published, err := publishSvc.Publish(sender.ID, gift.ID)
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	view, err := viewSvc.Resolve(context.Background(), *published.ShareToken, "")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if view.Locked || view.Full == nil {
		t.Fatalf("gift without lock should resolve to full view: %+v", view)
	}
	if view.Full.Config.Message == nil || view.Full.Config.Message.Body != "正文" {
		t.Fatalf("full view missing config: %+v", view.Full.Config)
	}
	if len(view.Full.Stages) == 0 {
		t.Fatalf("full view missing stage plan")
	}
}

func TestResolveLockedGiftHidesContent(t *testing.T) {
	giftSvc, lockSvc, publishSvc, viewSvc, _, db := newGiftServices(t)
	sender := createTestSender(t, db)
	gift := createDraftGift(t, giftSvc, sender.ID)

	if err := lockSvc.SetChallenge(sender.ID, gift.ID, "我们初遇的城市", "Paris", "法国"); err != nil {
		t.Fatalf("set challenge failed: %v", err)
	}
	if _, err := publishSvc.MarkPaid(gift.ID); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	published, err := publishSvc.Publish(sender.ID, gift.ID)
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	shareToken := *published.ShareToken

	// 未出示令牌：锁定视图，只暴露问题与提示
	view, err := viewSvc.Resolve(context.Background(), shareToken, "")
	if err != nil {
		t.Fatalf("resolve without token failed: %v", err)
	}
	if !view.Locked || view.Lock == nil || view.Full != nil {
		t.Fatalf("locked gift without token should resolve locked: %+v", view)
	}
	if view.Lock.Question != "我们初遇的城市" || view.Lock.Hint != "法国" {
		t.Fatalf("locked view mismatch: %+v", view.Lock)
	}

	// 伪造令牌同样锁定
	view, err = viewSvc.Resolve(context.Background(), shareToken, "forged-token")
	if err != nil {
		t.Fatalf("resolve with forged token failed: %v", err)
	}
	if !view.Locked {
		t.Fatalf("forged token should not unlock")
	}

	// 正确答案换取的令牌解锁完整视图
	unlockToken, _, err := lockSvc.Verify(shareToken, " paris ")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	view, err = viewSvc.Resolve(context.Background(), shareToken, unlockToken)
	if err != nil {
		t.Fatalf("resolve with unlock token failed: %v", err)
	}
	if view.Locked || view.Full == nil {
		t.Fatalf("valid unlock token should yield full view: %+v", view)
	}
}

func TestResolveDraftGiftNotFound(t *testing.T) {
	giftSvc, _, _, viewSvc, giftRepo, db := newGiftServices(t)
	sender := createTestSender(t, db)
	gift := createDraftGift(t, giftSvc, sender.ID)

	// 草稿不应通过任何分享令牌可见，即使令牌被预先写入
	token := "draft-peek-token"
	if err := db.Model(&models.Gift{}).Where("id = ?", gift.ID).
		Update("share_token", token).Error; err != nil {
		t.Fatalf("force share token failed: %v", err)
	}
	if loaded, err := giftRepo.GetByShareToken(token); err != nil || loaded == nil {
		t.Fatalf("expected gift visible by token: %v %v", loaded, err)
	}
	if _, err := viewSvc.Resolve(context.Background(), token, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("draft gift via token want ErrNotFound got %v", err)
	}
}

func TestPreviewBypassesLock(t *testing.T) {
	giftSvc, lockSvc, _, viewSvc, _, db := newGiftServices(t)
	owner := createTestSender(t, db)
	stranger := createTestSender(t, db)
	gift := createDraftGift(t, giftSvc, owner.ID)

	if err := lockSvc.SetChallenge(owner.ID, gift.ID, "问题", "answer", ""); err != nil {
		t.Fatalf("set challenge failed: %v", err)
	}

	full, err := viewSvc.Preview(owner.ID, gift.ID)
	if err != nil {
		t.Fatalf("owner preview failed: %v", err)
	}
	if full == nil || full.Config.Identity == nil {
		t.Fatalf("preview missing config")
	}

	if _, err := viewSvc.Preview(stranger.ID, gift.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger preview want ErrForbidden got %v", err)
	}
}

func TestDisplayStatus(t *testing.T) {
	priced, err := models.NewMoneyFromString("9.90")
	if err != nil {
		t.Fatalf("parse money failed: %v", err)
	}
	free, err := models.NewMoneyFromString("0")
	if err != nil {
		t.Fatalf("parse money failed: %v", err)
	}

	cases := []struct {
		name string
		gift models.Gift
		want string
	}{
		{
			name: "published",
			gift: models.Gift{Status: constants.GiftStatusPublished, PaymentState: constants.PaymentStatePaid},
			want: constants.GiftStatusPublished,
		},
		{
			name: "unpaid priced draft",
			gift: models.Gift{Status: constants.GiftStatusDraft, PaymentState: constants.PaymentStateUnpaid, PriceAmount: priced},
			want: constants.GiftStatusAwaitingPayment,
		},
		{
			name: "unpaid free draft",
			gift: models.Gift{Status: constants.GiftStatusDraft, PaymentState: constants.PaymentStateUnpaid, PriceAmount: free},
			want: constants.GiftStatusDraft,
		},
		{
			name: "coupon redeemed draft",
			gift: models.Gift{Status: constants.GiftStatusDraft, PaymentState: constants.PaymentStateCouponRedeemed, PriceAmount: priced},
			want: constants.GiftStatusDraft,
		},
		{
			name: "paid draft",
			gift: models.Gift{Status: constants.GiftStatusDraft, PaymentState: constants.PaymentStatePaid, PriceAmount: priced},
			want: constants.GiftStatusDraft,
		},
	}
	for _, tc := range cases {
		if got := DisplayStatus(&tc.gift); got != tc.want {
			t.Fatalf("%s: display status want %s got %s", tc.name, tc.want, got)
		}
	}
}
