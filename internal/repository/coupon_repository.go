package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/liwu-next/internal/models"
)

// CouponRepository 优惠券数据访问接口
type CouponRepository interface {
	GetByCode(code string) (*models.Coupon, error)
	Create(coupon *models.Coupon) error
	// IncrementUsedCount 带上限条件自增已用次数，超限时返回 false。
	IncrementUsedCount(id uint) (bool, error)
	WithTx(tx *gorm.DB) CouponRepository
}

// GormCouponRepository 基于 Gorm 的优惠券仓储实现
type GormCouponRepository struct {
	db *gorm.DB
}

// NewGormCouponRepository 创建优惠券仓储
func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// WithTx 返回绑定事务的仓储副本
func (r *GormCouponRepository) WithTx(tx *gorm.DB) CouponRepository {
	if tx == nil {
		return r
	}
	return &GormCouponRepository{db: tx}
}

// GetByCode 按兑换码查询，未找到时返回 nil
func (r *GormCouponRepository) GetByCode(code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.Where("code = ?", code).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

// Create 创建优惠券
func (r *GormCouponRepository) Create(coupon *models.Coupon) error {
	return r.db.Create(coupon).Error
}

// IncrementUsedCount 条件自增已用次数，usage_limit 为零表示不限次数
func (r *GormCouponRepository) IncrementUsedCount(id uint) (bool, error) {
	result := r.db.Model(&models.Coupon{}).
		Where("id = ? AND (usage_limit = 0 OR used_count < usage_limit)", id).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
