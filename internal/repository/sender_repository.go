package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/liwu-next/internal/models"
)

// SenderRepository 寄件人数据访问接口
type SenderRepository interface {
	GetByID(id uint) (*models.Sender, error)
	GetByEmail(email string) (*models.Sender, error)
	Create(sender *models.Sender) error
	Update(sender *models.Sender) error
	BumpTokenVersion(id uint) error
}

// GormSenderRepository 基于 Gorm 的寄件人仓储实现
type GormSenderRepository struct {
	db *gorm.DB
}

// NewGormSenderRepository 创建寄件人仓储
func NewGormSenderRepository(db *gorm.DB) *GormSenderRepository {
	return &GormSenderRepository{db: db}
}

// GetByID 按主键查询，未找到时返回 nil
func (r *GormSenderRepository) GetByID(id uint) (*models.Sender, error) {
	var sender models.Sender
	if err := r.db.First(&sender, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sender, nil
}

// GetByEmail 按邮箱查询，未找到时返回 nil
func (r *GormSenderRepository) GetByEmail(email string) (*models.Sender, error) {
	var sender models.Sender
	if err := r.db.Where("email = ?", email).First(&sender).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sender, nil
}

// Create 创建寄件人
func (r *GormSenderRepository) Create(sender *models.Sender) error {
	return r.db.Create(sender).Error
}

// Update 保存寄件人
func (r *GormSenderRepository) Update(sender *models.Sender) error {
	return r.db.Save(sender).Error
}

// BumpTokenVersion 令牌版本自增，使已签发的登录令牌全部失效
func (r *GormSenderRepository) BumpTokenVersion(id uint) error {
	return r.db.Model(&models.Sender{}).
		Where("id = ?", id).
		UpdateColumn("token_version", gorm.Expr("token_version + 1")).Error
}
