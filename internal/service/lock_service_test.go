package service

import (
	"errors"
	"testing"

	"github.com/liwu-next/internal/models"
)

func publishTestGift(t *testing.T, giftSvc *GiftService, publishSvc *PublishService, senderID uint) *models.Gift {
	t.Helper()
	gift := createDraftGift(t, giftSvc, senderID)
	if _, err := publishSvc.MarkPaid(gift.ID); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	published, err := publishSvc.Publish(senderID, gift.ID)
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	return published
}

func TestNormalizeAnswer(t *testing.T) {
	cases := map[string]string{
		"Paris":     "paris",
		"  paris  ": "paris",
		"\tPARIS\n": "paris",
		"东京":        "东京",
	}
	for input, want := range cases {
		if got := NormalizeAnswer(input); got != want {
			t.Fatalf("NormalizeAnswer(%q) want %q got %q", input, want, got)
		}
	}
}

func TestVerifyAcceptsNormalizedVariants(t *testing.T) {
	giftSvc, lockSvc, publishSvc, _, _, db := newGiftServices(t)
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

	for _, answer := range []string{"Paris", " paris ", "PARIS"} {
		token, expiresAt, err := lockSvc.Verify(shareToken, answer)
		if err != nil {
			t.Fatalf("verify %q failed: %v", answer, err)
		}
		if token == "" || expiresAt.IsZero() {
			t.Fatalf("verify %q returned empty token", answer)
		}
	}

	if _, _, err := lockSvc.Verify(shareToken, "London"); !errors.Is(err, ErrIncorrectAnswer) {
		t.Fatalf("wrong answer want ErrIncorrectAnswer got %v", err)
	}
}

func TestVerifyDoesNotLeakGiftExistence(t *testing.T) {
	giftSvc, lockSvc, publishSvc, _, _, db := newGiftServices(t)
	sender := createTestSender(t, db)

	// 不存在的分享令牌
	if _, _, err := lockSvc.Verify("no-such-token", "x"); !errors.Is(err, ErrIncorrectAnswer) {
		t.Fatalf("missing gift want ErrIncorrectAnswer got %v", err)
	}

	// 已发布但未配置挑战
	published := publishTestGift(t, giftSvc, publishSvc, sender.ID)
	if _, _, err := lockSvc.Verify(*published.ShareToken, "x"); !errors.Is(err, ErrIncorrectAnswer) {
		t.Fatalf("gift without lock want ErrIncorrectAnswer got %v", err)
	}
}

func TestUnlockTokenInvalidatedByLockChange(t *testing.T) {
	giftSvc, lockSvc, publishSvc, _, giftRepo, db := newGiftServices(t)
	sender := createTestSender(t, db)
	gift := createDraftGift(t, giftSvc, sender.ID)

	if err := lockSvc.SetChallenge(sender.ID, gift.ID, "问题", "answer", ""); err != nil {
		t.Fatalf("set challenge failed: %v", err)
	}
	if _, err := publishSvc.MarkPaid(gift.ID); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	published, err := publishSvc.Publish(sender.ID, gift.ID)
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	token, _, err := lockSvc.Verify(*published.ShareToken, "Answer")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	current, err := giftRepo.GetByID(gift.ID)
	if err != nil {
		t.Fatalf("reload gift failed: %v", err)
	}
	if !lockSvc.ValidateUnlockToken(current, token) {
		t.Fatalf("fresh unlock token should validate")
	}

	// 锁版本自增后旧令牌静默失效
	if err := giftRepo.UpdateLock(gift.ID, "新问题", current.LockAnswerHash, ""); err != nil {
		t.Fatalf("update lock failed: %v", err)
	}
	bumped, err := giftRepo.GetByID(gift.ID)
	if err != nil {
		t.Fatalf("reload gift failed: %v", err)
	}
	if bumped.LockVersion != current.LockVersion+1 {
		t.Fatalf("lock version want %d got %d", current.LockVersion+1, bumped.LockVersion)
	}
	if lockSvc.ValidateUnlockToken(bumped, token) {
		t.Fatalf("stale unlock token should not validate after lock change")
	}
}

func TestSetChallengeRejectsPublishedAndBlankInput(t *testing.T) {
	giftSvc, lockSvc, publishSvc, _, _, db := newGiftServices(t)
	sender := createTestSender(t, db)

	draft := createDraftGift(t, giftSvc, sender.ID)
	if err := lockSvc.SetChallenge(sender.ID, draft.ID, " ", "answer", ""); !errors.Is(err, ErrLockInvalid) {
		t.Fatalf("blank question want ErrLockInvalid got %v", err)
	}
	if err := lockSvc.SetChallenge(sender.ID, draft.ID, "问题", "  ", ""); !errors.Is(err, ErrLockInvalid) {
		t.Fatalf("blank answer want ErrLockInvalid got %v", err)
	}

	published := publishTestGift(t, giftSvc, publishSvc, sender.ID)
	if err := lockSvc.SetChallenge(sender.ID, published.ID, "问题", "answer", ""); !errors.Is(err, ErrGiftNotEditable) {
		t.Fatalf("set challenge on published want ErrGiftNotEditable got %v", err)
	}
	if err := lockSvc.ClearChallenge(sender.ID, published.ID); !errors.Is(err, ErrGiftNotEditable) {
		t.Fatalf("clear challenge on published want ErrGiftNotEditable got %v", err)
	}
}
