package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/liwu-next/internal/constants"
	"github.com/liwu-next/internal/models"
)

// GiftRepository 礼物数据访问接口
type GiftRepository interface {
	GetByID(id uint) (*models.Gift, error)
	GetByShareToken(token string) (*models.Gift, error)
	Create(gift *models.Gift) error
	Update(gift *models.Gift) error
	// UpdateConfigWithVersion 乐观锁更新配置，版本不匹配时返回 false。
	UpdateConfigWithVersion(id uint, expectVersion uint, config models.GiftConfig) (bool, error)
	// UpdateLock 更新锁配置并使旧解锁令牌失效
	UpdateLock(id uint, question, answerHash, hint string) error
	ClearLock(id uint) error
	UpdatePaymentState(id uint, state string, couponID *uint) error
	// PublishIf 草稿态条件发布，已发布时返回 false。
	PublishIf(id uint, shareToken string, publishedAt time.Time) (bool, error)
	DeleteDraft(id uint) (bool, error)
	ListBySender(filter GiftListFilter) ([]models.Gift, int64, error)
	WithTx(tx *gorm.DB) GiftRepository
}

// GormGiftRepository 基于 Gorm 的礼物仓储实现
type GormGiftRepository struct {
	db *gorm.DB
}

// NewGormGiftRepository 创建礼物仓储
func NewGormGiftRepository(db *gorm.DB) *GormGiftRepository {
	return &GormGiftRepository{db: db}
}

// WithTx 返回绑定事务的仓储副本
func (r *GormGiftRepository) WithTx(tx *gorm.DB) GiftRepository {
	if tx == nil {
		return r
	}
	return &GormGiftRepository{db: tx}
}

// GetByID 按主键查询，未找到时返回 nil
func (r *GormGiftRepository) GetByID(id uint) (*models.Gift, error) {
	var gift models.Gift
	if err := r.db.Preload("MediaRefs").First(&gift, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &gift, nil
}

// GetByShareToken 按分享令牌查询已发布礼物，未找到时返回 nil
func (r *GormGiftRepository) GetByShareToken(token string) (*models.Gift, error) {
	var gift models.Gift
	err := r.db.Preload("MediaRefs").
		Where("share_token = ?", token).
		First(&gift).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &gift, nil
}

// Create 创建礼物
func (r *GormGiftRepository) Create(gift *models.Gift) error {
	return r.db.Create(gift).Error
}

// Update 保存礼物
func (r *GormGiftRepository) Update(gift *models.Gift) error {
	return r.db.Save(gift).Error
}

// UpdateConfigWithVersion 乐观锁更新配置内容，命中行数为零表示版本冲突
func (r *GormGiftRepository) UpdateConfigWithVersion(id uint, expectVersion uint, config models.GiftConfig) (bool, error) {
	result := r.db.Model(&models.Gift{}).
		Where("id = ? AND config_version = ?", id, expectVersion).
		Updates(map[string]interface{}{
			"config":         config,
			"config_version": gorm.Expr("config_version + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// UpdateLock 更新秘密问题，锁版本自增以静默失效旧解锁令牌
func (r *GormGiftRepository) UpdateLock(id uint, question, answerHash, hint string) error {
	return r.db.Model(&models.Gift{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"lock_question":    question,
			"lock_answer_hash": answerHash,
			"lock_hint":        hint,
			"lock_version":     gorm.Expr("lock_version + 1"),
		}).Error
}

// ClearLock 移除秘密问题，锁版本同样自增
func (r *GormGiftRepository) ClearLock(id uint) error {
	return r.db.Model(&models.Gift{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"lock_question":    "",
			"lock_answer_hash": "",
			"lock_hint":        "",
			"lock_version":     gorm.Expr("lock_version + 1"),
		}).Error
}

// UpdatePaymentState 更新支付状态与关联优惠券
func (r *GormGiftRepository) UpdatePaymentState(id uint, state string, couponID *uint) error {
	updates := map[string]interface{}{"payment_state": state}
	if couponID != nil {
		updates["coupon_id"] = *couponID
	}
	return r.db.Model(&models.Gift{}).Where("id = ?", id).Updates(updates).Error
}

// PublishIf 草稿态条件发布，已发布或不存在时命中行数为零
func (r *GormGiftRepository) PublishIf(id uint, shareToken string, publishedAt time.Time) (bool, error) {
	result := r.db.Model(&models.Gift{}).
		Where("id = ? AND status = ?", id, constants.GiftStatusDraft).
		Updates(map[string]interface{}{
			"status":       constants.GiftStatusPublished,
			"share_token":  shareToken,
			"published_at": publishedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteDraft 仅删除草稿态礼物，已发布礼物不可删除
func (r *GormGiftRepository) DeleteDraft(id uint) (bool, error) {
	result := r.db.Where("id = ? AND status = ?", id, constants.GiftStatusDraft).
		Delete(&models.Gift{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListBySender 按寄件人分页查询礼物列表
func (r *GormGiftRepository) ListBySender(filter GiftListFilter) ([]models.Gift, int64, error) {
	query := r.db.Model(&models.Gift{}).Where("sender_id = ?", filter.SenderID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var gifts []models.Gift
	err := applyPagination(query, filter.Page, filter.PageSize).
		Order("id DESC").
		Find(&gifts).Error
	if err != nil {
		return nil, 0, err
	}
	return gifts, total, nil
}
