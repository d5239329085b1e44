package service

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/liwu-next/internal/config"
	"github.com/liwu-next/internal/models"
	"github.com/liwu-next/internal/repository"
)

func openServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Sender{},
		&models.Gift{},
		&models.MediaRef{},
		&models.Coupon{},
		&models.CouponRedemption{},
	); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func newServiceTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.SecretKey = "test-jwt-secret-0123456789abcdef0123456789abcdef"
	cfg.JWT.ExpireHours = 24
	cfg.Unlock.SecretKey = "test-unlock-secret-0123456789abcdef0123456789ab"
	cfg.Unlock.ExpireHours = 72
	cfg.Gift.AutosaveMaxRetries = 3
	cfg.Gift.DraftTTLDays = 30
	cfg.Gift.PriceAmount = "9.90"
	cfg.Gift.Currency = "USD"
	cfg.Security.PasswordPolicy.MinLength = 8
	return cfg
}

var testSenderSeq int

func createTestSender(t *testing.T, db *gorm.DB) *models.Sender {
	t.Helper()
	testSenderSeq++
	sender := &models.Sender{
		Email:        fmt.Sprintf("sender%d@example.com", testSenderSeq),
		PasswordHash: "x",
		Status:       "active",
	}
	if err := db.Create(sender).Error; err != nil {
		t.Fatalf("create sender failed: %v", err)
	}
	return sender
}

func createDraftGift(t *testing.T, svc *GiftService, senderID uint) *models.Gift {
	t.Helper()
	gift, err := svc.CreateDraft(senderID, models.GiftConfig{
		Identity: &models.IdentityGroup{SenderName: "阿明", RecipientName: "小雨"},
	})
	if err != nil {
		t.Fatalf("create draft failed: %v", err)
	}
	return gift
}

func newGiftServices(t *testing.T) (*GiftService, *LockService, *PublishService, *ViewService, repository.GiftRepository, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t)
	cfg := newServiceTestConfig()
	giftRepo := repository.NewGormGiftRepository(db)
	mediaRepo := repository.NewGormMediaRefRepository(db)
	couponRepo := repository.NewGormCouponRepository(db)
	redemptionRepo := repository.NewGormCouponRedemptionRepository(db)

	giftSvc := NewGiftService(cfg, giftRepo, mediaRepo)
	lockSvc := NewLockService(cfg, giftRepo)
	publishSvc := NewPublishService(db, giftRepo, couponRepo, redemptionRepo, nil)
	viewSvc := NewViewService(giftRepo, lockSvc)
	return giftSvc, lockSvc, publishSvc, viewSvc, giftRepo, db
}
