package service

import (
	"strings"
	"time"

	"github.com/liwu-next/internal/config"
	"github.com/liwu-next/internal/constants"
	"github.com/liwu-next/internal/models"
	"github.com/liwu-next/internal/repository"
)

// GiftService 礼物草稿服务
type GiftService struct {
	cfg       *config.Config
	giftRepo  repository.GiftRepository
	mediaRepo repository.MediaRefRepository
}

// NewGiftService 创建礼物草稿服务
func NewGiftService(cfg *config.Config, giftRepo repository.GiftRepository, mediaRepo repository.MediaRefRepository) *GiftService {
	return &GiftService{cfg: cfg, giftRepo: giftRepo, mediaRepo: mediaRepo}
}

// CreateDraft 创建草稿礼物
func (s *GiftService) CreateDraft(senderID uint, cfg models.GiftConfig) (*models.Gift, error) {
	if senderID == 0 {
		return nil, ErrUnauthenticated
	}
	price, err := models.NewMoneyFromString(s.cfg.Gift.PriceAmount)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	gift := &models.Gift{
		SenderID:     senderID,
		Status:       constants.GiftStatusDraft,
		PaymentState: constants.PaymentStateUnpaid,
		Config:       cfg,
		PriceAmount:  price,
		Currency:     s.cfg.Gift.Currency,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.giftRepo.Create(gift); err != nil {
		return nil, err
	}
	return gift, nil
}

// getOwnedGift 按主键取礼物并校验归属
// 未知 ID 报 NotFound，礼物存在但属他人时报 Forbidden，两者对调用方的重试语义不同。
func getOwnedGift(repo repository.GiftRepository, senderID, giftID uint) (*models.Gift, error) {
	gift, err := repo.GetByID(giftID)
	if err != nil {
		return nil, err
	}
	if gift == nil {
		return nil, ErrGiftNotFound
	}
	if gift.SenderID != senderID {
		return nil, ErrForbidden
	}
	return gift, nil
}

// Get 查询寄件人名下礼物
func (s *GiftService) Get(senderID, giftID uint) (*models.Gift, error) {
	return getOwnedGift(s.giftRepo, senderID, giftID)
}

// List 分页查询寄件人礼物列表
func (s *GiftService) List(filter repository.GiftListFilter) ([]models.Gift, int64, error) {
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}
	return s.giftRepo.ListBySender(filter)
}

// Autosave 自动保存草稿配置
// 分组级合并后走乐观锁更新，版本冲突时重读重放，重试耗尽报冲突。
func (s *GiftService) Autosave(senderID, giftID uint, patch models.GiftConfig) (*models.Gift, error) {
	maxRetries := s.cfg.Gift.AutosaveMaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		gift, err := getOwnedGift(s.giftRepo, senderID, giftID)
		if err != nil {
			return nil, err
		}
		if gift.Status != constants.GiftStatusDraft {
			return nil, ErrGiftNotEditable
		}

		merged := gift.Config
		merged.Merge(patch)

		ok, err := s.giftRepo.UpdateConfigWithVersion(gift.ID, gift.ConfigVersion, merged)
		if err != nil {
			return nil, err
		}
		if ok {
			gift.Config = merged
			gift.ConfigVersion++
			return gift, nil
		}
	}
	return nil, ErrAutosaveConflict
}

// ReplaceConfig 整体替换草稿配置（显式保存，仍带版本冲突保护）
func (s *GiftService) ReplaceConfig(senderID, giftID uint, cfg models.GiftConfig) (*models.Gift, error) {
	gift, err := getOwnedGift(s.giftRepo, senderID, giftID)
	if err != nil {
		return nil, err
	}
	if gift.Status != constants.GiftStatusDraft {
		return nil, ErrGiftNotEditable
	}

	ok, err := s.giftRepo.UpdateConfigWithVersion(gift.ID, gift.ConfigVersion, cfg)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAutosaveConflict
	}
	gift.Config = cfg
	gift.ConfigVersion++
	return gift, nil
}

// DeleteDraft 删除草稿，已发布礼物不可删除
func (s *GiftService) DeleteDraft(senderID, giftID uint) error {
	gift, err := getOwnedGift(s.giftRepo, senderID, giftID)
	if err != nil {
		return err
	}
	if gift.Status != constants.GiftStatusDraft {
		return ErrGiftNotDeletable
	}

	ok, err := s.giftRepo.DeleteDraft(gift.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrGiftNotDeletable
	}
	return s.mediaRepo.DeleteByGift(gift.ID)
}

// AttachMedia 登记上传媒体并回填到视觉分组
func (s *GiftService) AttachMedia(senderID, giftID uint, ref *models.MediaRef) (*models.Gift, error) {
	gift, err := getOwnedGift(s.giftRepo, senderID, giftID)
	if err != nil {
		return nil, err
	}
	if gift.Status != constants.GiftStatusDraft {
		return nil, ErrGiftNotEditable
	}

	ref.GiftID = gift.ID
	if err := s.mediaRepo.Create(ref); err != nil {
		return nil, err
	}

	if ref.Scene == constants.UploadScenePhoto {
		patch := models.GiftConfig{Visuals: appendPhoto(gift.Config.Visuals, ref.URL)}
		return s.Autosave(senderID, giftID, patch)
	}
	return gift, nil
}

// ValidateForPublish 发布前配置校验，身份分组为唯一必填分组
func ValidateForPublish(cfg models.GiftConfig) error {
	if cfg.Identity == nil {
		return ErrConfigInvalid
	}
	if strings.TrimSpace(cfg.Identity.SenderName) == "" ||
		strings.TrimSpace(cfg.Identity.RecipientName) == "" {
		return ErrConfigInvalid
	}
	return nil
}

func appendPhoto(visuals *models.VisualsGroup, url string) *models.VisualsGroup {
	next := models.VisualsGroup{}
	if visuals != nil {
		next = *visuals
	}
	next.Photos = append(append(models.StringArray{}, next.Photos...), url)
	return &next
}
