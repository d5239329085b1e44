package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon 发布优惠码
type Coupon struct {
	ID         uint           `gorm:"primarykey" json:"id"`                               // 主键
	Code       string         `gorm:"uniqueIndex;not null" json:"code"`                   // 优惠码
	Value      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"value"` // 抵扣金额（覆盖定价即免费发布）
	UsageLimit int            `gorm:"not null;default:0" json:"usage_limit"`              // 总使用上限（0 表示不限制）
	UsedCount  int            `gorm:"not null;default:0" json:"used_count"`               // 已使用次数
	StartsAt   *time.Time     `gorm:"index" json:"starts_at"`                             // 生效时间
	EndsAt     *time.Time     `gorm:"index" json:"ends_at"`                               // 失效时间
	IsActive   bool           `gorm:"not null;default:true" json:"is_active"`             // 是否启用
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt  time.Time      `gorm:"index" json:"updated_at"`                            // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间
}

// TableName 指定表名
func (Coupon) TableName() string {
	return "coupons"
}

// CouponRedemption 优惠码兑换记录
// 每个礼物至多一条成功兑换，(gift_id) 唯一索引保证幂等。
type CouponRedemption struct {
	ID        uint           `gorm:"primarykey" json:"id"`               // 主键
	CouponID  uint           `gorm:"index;not null" json:"coupon_id"`    // 优惠码ID
	GiftID    uint           `gorm:"uniqueIndex;not null" json:"gift_id"` // 礼物ID
	Code      string         `gorm:"index;not null" json:"code"`         // 兑换时的优惠码快照
	CreatedAt time.Time      `gorm:"index" json:"created_at"`            // 创建时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                     // 软删除时间
}

// TableName 指定表名
func (CouponRedemption) TableName() string {
	return "coupon_redemptions"
}
