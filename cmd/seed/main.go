package main

import (
	"time"

	"github.com/liwu-next/internal/config"
	"github.com/liwu-next/internal/constants"
	"github.com/liwu-next/internal/logger"
	"github.com/liwu-next/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 演示寄件人账号
	demoEmail := "demo@example.com"
	var existingSender models.Sender
	if err := models.DB.Where("email = ?", demoEmail).First(&existingSender).Error; err != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte("Demo1234"), bcrypt.DefaultCost)
		if err != nil {
			stdLog.Fatalf("Failed to hash demo password: %v", err)
		}
		sender := models.Sender{
			Email:        demoEmail,
			PasswordHash: string(hash),
			DisplayName:  "Demo Sender",
			Status:       constants.SenderStatusActive,
			Locale:       "zh-CN",
		}
		if err := models.DB.Create(&sender).Error; err != nil {
			stdLog.Printf("Failed to create demo sender: %v", err)
		} else {
			stdLog.Printf("Created demo sender: %s", demoEmail)
		}
	} else {
		stdLog.Printf("Demo sender already exists: %s", demoEmail)
	}

	// 演示优惠码
	now := time.Now()
	yearLater := now.AddDate(1, 0, 0)
	coupons := []models.Coupon{
		{
			Code:       "LOVE10",
			Value:      models.NewMoneyFromDecimal(decimal.NewFromFloat(10)),
			UsageLimit: 0,
			StartsAt:   &now,
			EndsAt:     &yearLater,
			IsActive:   true,
		},
		{
			Code:       "LAUNCH100",
			Value:      models.NewMoneyFromDecimal(decimal.NewFromFloat(100)),
			UsageLimit: 100,
			StartsAt:   &now,
			EndsAt:     &yearLater,
			IsActive:   true,
		},
	}

	for _, coupon := range coupons {
		var existing models.Coupon
		if err := models.DB.Where("code = ?", coupon.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&coupon).Error; err != nil {
				stdLog.Printf("Failed to create coupon %s: %v", coupon.Code, err)
			} else {
				stdLog.Printf("Created coupon: %s", coupon.Code)
			}
		} else {
			stdLog.Printf("Coupon already exists: %s", coupon.Code)
		}
	}

	stdLog.Println("Seed completed")
}
