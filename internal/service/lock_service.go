package service

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/liwu-next/internal/config"
	"github.com/liwu-next/internal/constants"
	"github.com/liwu-next/internal/models"
	"github.com/liwu-next/internal/repository"
)

// LockService 秘密问题挑战服务
type LockService struct {
	cfg      *config.Config
	giftRepo repository.GiftRepository
}

// NewLockService 创建秘密问题挑战服务
func NewLockService(cfg *config.Config, giftRepo repository.GiftRepository) *LockService {
	return &LockService{cfg: cfg, giftRepo: giftRepo}
}

// UnlockClaims 解锁令牌 JWT 声明
// LockVersion 绑定签发时的锁版本，挑战变更后旧令牌静默失效。
type UnlockClaims struct {
	GiftID      uint `json:"gift_id"`
	LockVersion uint `json:"lock_version"`
	jwt.RegisteredClaims
}

// SetChallenge 设置秘密问题，仅草稿态允许
func (s *LockService) SetChallenge(senderID, giftID uint, question, answer, hint string) error {
	gift, err := getOwnedGift(s.giftRepo, senderID, giftID)
	if err != nil {
		return err
	}
	if gift.Status != constants.GiftStatusDraft {
		return ErrGiftNotEditable
	}

	question = strings.TrimSpace(question)
	normalized := NormalizeAnswer(answer)
	if question == "" || normalized == "" {
		return ErrLockInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(normalized), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.giftRepo.UpdateLock(gift.ID, question, string(hash), strings.TrimSpace(hint))
}

// ClearChallenge 移除秘密问题，仅草稿态允许
func (s *LockService) ClearChallenge(senderID, giftID uint) error {
	gift, err := getOwnedGift(s.giftRepo, senderID, giftID)
	if err != nil {
		return err
	}
	if gift.Status != constants.GiftStatusDraft {
		return ErrGiftNotEditable
	}
	return s.giftRepo.ClearLock(gift.ID)
}

// Verify 校验答案并签发解锁令牌
// 礼物不存在、未配置挑战、答案错误一律返回同一个错误，避免探测礼物是否存在。
func (s *LockService) Verify(shareToken, answer string) (string, time.Time, error) {
	gift, err := s.giftRepo.GetByShareToken(shareToken)
	if err != nil {
		return "", time.Time{}, err
	}
	if gift == nil || !gift.IsPublished() || !gift.HasLock() {
		return "", time.Time{}, ErrIncorrectAnswer
	}

	normalized := NormalizeAnswer(answer)
	if err := bcrypt.CompareHashAndPassword([]byte(gift.LockAnswerHash), []byte(normalized)); err != nil {
		return "", time.Time{}, ErrIncorrectAnswer
	}
	return s.mintUnlockToken(gift)
}

// ValidateUnlockToken 校验解锁令牌是否对该礼物当前锁版本有效
func (s *LockService) ValidateUnlockToken(gift *models.Gift, tokenString string) bool {
	if gift == nil || strings.TrimSpace(tokenString) == "" {
		return false
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UnlockClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Unlock.SecretKey), nil
	})
	if err != nil || !token.Valid {
		return false
	}
	return claims.GiftID == gift.ID && claims.LockVersion == gift.LockVersion
}

func (s *LockService) mintUnlockToken(gift *models.Gift) (string, time.Time, error) {
	expireHours := s.cfg.Unlock.ExpireHours
	if expireHours <= 0 {
		expireHours = 72
	}
	expiresAt := time.Now().Add(time.Duration(expireHours) * time.Hour)
	claims := UnlockClaims{
		GiftID:      gift.ID,
		LockVersion: gift.LockVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.Unlock.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// NormalizeAnswer 归一化答案（去首尾空白并大小写折叠），存储与校验共用同一规则
func NormalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}
