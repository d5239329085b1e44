package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/liwu-next/internal/models"
)

// CouponRedemptionRepository 优惠券核销记录数据访问接口
type CouponRedemptionRepository interface {
	GetByGiftID(giftID uint) (*models.CouponRedemption, error)
	Create(redemption *models.CouponRedemption) error
	WithTx(tx *gorm.DB) CouponRedemptionRepository
}

// GormCouponRedemptionRepository 基于 Gorm 的核销记录仓储实现
type GormCouponRedemptionRepository struct {
	db *gorm.DB
}

// NewGormCouponRedemptionRepository 创建核销记录仓储
func NewGormCouponRedemptionRepository(db *gorm.DB) *GormCouponRedemptionRepository {
	return &GormCouponRedemptionRepository{db: db}
}

// WithTx 返回绑定事务的仓储副本
func (r *GormCouponRedemptionRepository) WithTx(tx *gorm.DB) CouponRedemptionRepository {
	if tx == nil {
		return r
	}
	return &GormCouponRedemptionRepository{db: tx}
}

// GetByGiftID 查询礼物已有的核销记录，未找到时返回 nil
func (r *GormCouponRedemptionRepository) GetByGiftID(giftID uint) (*models.CouponRedemption, error) {
	var redemption models.CouponRedemption
	if err := r.db.Where("gift_id = ?", giftID).First(&redemption).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &redemption, nil
}

// Create 创建核销记录，gift_id 唯一索引保证每个礼物最多核销一次
func (r *GormCouponRedemptionRepository) Create(redemption *models.CouponRedemption) error {
	return r.db.Create(redemption).Error
}
