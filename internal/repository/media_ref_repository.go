package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/liwu-next/internal/models"
)

// MediaRefRepository 媒体引用数据访问接口
type MediaRefRepository interface {
	Create(ref *models.MediaRef) error
	GetByID(id uint) (*models.MediaRef, error)
	ListByGift(giftID uint) ([]models.MediaRef, error)
	DeleteByGift(giftID uint) error
}

// GormMediaRefRepository 基于 Gorm 的媒体引用仓储实现
type GormMediaRefRepository struct {
	db *gorm.DB
}

// NewGormMediaRefRepository 创建媒体引用仓储
func NewGormMediaRefRepository(db *gorm.DB) *GormMediaRefRepository {
	return &GormMediaRefRepository{db: db}
}

// Create 创建媒体引用
func (r *GormMediaRefRepository) Create(ref *models.MediaRef) error {
	return r.db.Create(ref).Error
}

// GetByID 按主键查询，未找到时返回 nil
func (r *GormMediaRefRepository) GetByID(id uint) (*models.MediaRef, error) {
	var ref models.MediaRef
	if err := r.db.First(&ref, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ref, nil
}

// ListByGift 查询礼物下全部媒体引用
func (r *GormMediaRefRepository) ListByGift(giftID uint) ([]models.MediaRef, error) {
	var refs []models.MediaRef
	if err := r.db.Where("gift_id = ?", giftID).Order("id ASC").Find(&refs).Error; err != nil {
		return nil, err
	}
	return refs, nil
}

// DeleteByGift 删除礼物下全部媒体引用
func (r *GormMediaRefRepository) DeleteByGift(giftID uint) error {
	return r.db.Where("gift_id = ?", giftID).Delete(&models.MediaRef{}).Error
}
