package models

import (
	"time"

	"gorm.io/gorm"
)

// Sender 发送者账号表
type Sender struct {
	ID           uint           `gorm:"primarykey" json:"id"`                     // 主键
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`        // 邮箱
	PasswordHash string         `gorm:"type:varchar(200);not null" json:"-"`      // 密码哈希
	DisplayName  string         `gorm:"type:varchar(100)" json:"display_name"`    // 昵称
	Status       string         `gorm:"type:varchar(20);not null" json:"status"`  // 状态（active/disabled）
	TokenVersion uint64         `gorm:"not null;default:0" json:"-"`              // 令牌版本（改密后旧令牌失效）
	Locale       string         `gorm:"type:varchar(20)" json:"locale,omitempty"` // 语言
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                  // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                               // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                           // 软删除时间
}

// TableName 指定表名
func (Sender) TableName() string {
	return "senders"
}
