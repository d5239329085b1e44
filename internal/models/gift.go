package models

import (
	"time"

	"gorm.io/gorm"
)

// Gift 礼物表
type Gift struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                      // 主键
	SenderID       uint           `gorm:"index;not null" json:"sender_id"`                           // 发送者ID（创建后不变）
	Status         string         `gorm:"index;not null" json:"status"`                              // 状态（draft/published）
	PaymentState   string         `gorm:"not null" json:"payment_state"`                             // 支付状态（unpaid/coupon_redeemed/paid）
	Config         GiftConfig     `gorm:"type:json" json:"config"`                                   // 内容配置
	ConfigVersion  uint           `gorm:"not null;default:0" json:"config_version"`                  // 配置版本（自动保存乐观锁）
	LockQuestion   string         `gorm:"type:varchar(500)" json:"-"`                                // 秘密问题
	LockAnswerHash string         `gorm:"type:varchar(200)" json:"-"`                                // 归一化答案哈希
	LockHint       string         `gorm:"type:varchar(500)" json:"-"`                                // 答案提示
	LockVersion    uint           `gorm:"not null;default:0" json:"-"`                               // 锁版本（挑战变更后旧令牌失效）
	PriceAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price_amount"` // 定价金额
	Currency       string         `gorm:"type:varchar(10);not null" json:"currency"`                 // 币种
	CouponID       *uint          `gorm:"index" json:"coupon_id,omitempty"`                          // 已兑换优惠码ID
	ShareToken     *string        `gorm:"uniqueIndex" json:"share_token,omitempty"`                  // 公开分享令牌（发布时一次性铸造）
	PublishedAt    *time.Time     `gorm:"index" json:"published_at,omitempty"`                       // 发布时间
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt      time.Time      `json:"updated_at"`                                                // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间

	// 关联
	MediaRefs []MediaRef `gorm:"foreignKey:GiftID" json:"media_refs,omitempty"` // 媒体引用
}

// TableName 指定表名
func (Gift) TableName() string {
	return "gifts"
}

// HasLock 是否配置了秘密问题挑战
func (g *Gift) HasLock() bool {
	return g != nil && g.LockAnswerHash != ""
}

// IsPublished 是否已发布
func (g *Gift) IsPublished() bool {
	return g != nil && g.Status == "published"
}

// PayableComplete 支付门槛是否已满足
func (g *Gift) PayableComplete() bool {
	if g == nil {
		return false
	}
	return g.PaymentState == "paid" || g.PaymentState == "coupon_redeemed"
}

// MediaRef 媒体引用表
// 文件字节归媒体存储所有，引用列表归礼物所有。
type MediaRef struct {
	ID          uint           `gorm:"primarykey" json:"id"`                   // 主键
	GiftID      uint           `gorm:"index;not null" json:"gift_id"`          // 礼物ID
	URL         string         `gorm:"type:varchar(500);not null" json:"url"`  // 访问路径
	ContentType string         `gorm:"type:varchar(100)" json:"content_type"`  // MIME 类型
	SizeBytes   int64          `gorm:"not null;default:0" json:"size_bytes"`   // 文件大小
	Scene       string         `gorm:"type:varchar(20);not null" json:"scene"` // 上传场景
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                // 创建时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                         // 软删除时间
}

// TableName 指定表名
func (MediaRef) TableName() string {
	return "media_refs"
}
