package service

import (
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/liwu-next/internal/config"
	"github.com/liwu-next/internal/constants"
	"github.com/liwu-next/internal/models"
	"github.com/liwu-next/internal/repository"
)

// AuthService 寄件人认证服务
type AuthService struct {
	cfg        *config.Config
	senderRepo repository.SenderRepository
}

// NewAuthService 创建寄件人认证服务
func NewAuthService(cfg *config.Config, senderRepo repository.SenderRepository) *AuthService {
	return &AuthService{cfg: cfg, senderRepo: senderRepo}
}

// SenderJWTClaims 寄件人登录 JWT 声明
type SenderJWTClaims struct {
	SenderID     uint   `json:"sender_id"`
	Email        string `json:"email"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// GenerateJWT 生成寄件人登录令牌
func (s *AuthService) GenerateJWT(sender *models.Sender) (string, time.Time, error) {
	expireHours := s.cfg.JWT.ExpireHours
	if expireHours <= 0 {
		expireHours = 24
	}
	expiresAt := time.Now().Add(time.Duration(expireHours) * time.Hour)
	claims := SenderJWTClaims{
		SenderID:     sender.ID,
		Email:        sender.Email,
		TokenVersion: sender.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseJWT 解析寄件人登录令牌
func (s *AuthService) ParseJWT(tokenString string) (*SenderJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &SenderJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, ErrTokenInvalid
	}
	if claims, ok := token.Claims.(*SenderJWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrTokenInvalid
}

// Authenticate 校验令牌并核对令牌版本，版本落后视为已吊销
func (s *AuthService) Authenticate(tokenString string) (*models.Sender, error) {
	claims, err := s.ParseJWT(tokenString)
	if err != nil {
		return nil, err
	}
	sender, err := s.senderRepo.GetByID(claims.SenderID)
	if err != nil {
		return nil, err
	}
	if sender == nil {
		return nil, ErrUnauthenticated
	}
	if sender.Status != constants.SenderStatusActive {
		return nil, ErrForbidden
	}
	if sender.TokenVersion != claims.TokenVersion {
		return nil, ErrTokenRevoked
	}
	return sender, nil
}

// Register 寄件人注册
func (s *AuthService) Register(email, password, displayName, locale string) (*models.Sender, string, time.Time, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, password); err != nil {
		return nil, "", time.Time{}, err
	}

	exist, err := s.senderRepo.GetByEmail(normalized)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if exist != nil {
		return nil, "", time.Time{}, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	name := strings.TrimSpace(displayName)
	if name == "" {
		name = resolveDisplayNameFromEmail(normalized)
	}
	sender := &models.Sender{
		Email:        normalized,
		PasswordHash: string(hashedPassword),
		DisplayName:  name,
		Status:       constants.SenderStatusActive,
		Locale:       strings.TrimSpace(locale),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.senderRepo.Create(sender); err != nil {
		return nil, "", time.Time{}, err
	}

	token, expiresAt, err := s.GenerateJWT(sender)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return sender, token, expiresAt, nil
}

// Login 寄件人登录
func (s *AuthService) Login(email, password string) (*models.Sender, string, time.Time, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	sender, err := s.senderRepo.GetByEmail(normalized)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if sender == nil {
		return nil, "", time.Time{}, ErrLoginFailed
	}
	if sender.Status != constants.SenderStatusActive {
		return nil, "", time.Time{}, ErrForbidden
	}
	if err := bcrypt.CompareHashAndPassword([]byte(sender.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrLoginFailed
	}

	token, expiresAt, err := s.GenerateJWT(sender)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return sender, token, expiresAt, nil
}

// ChangePassword 登录态修改密码，成功后吊销所有已签发令牌
func (s *AuthService) ChangePassword(senderID uint, oldPassword, newPassword string) error {
	sender, err := s.senderRepo.GetByID(senderID)
	if err != nil {
		return err
	}
	if sender == nil {
		return ErrNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(sender.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrLoginFailed
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, newPassword); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	sender.PasswordHash = string(hashedPassword)
	sender.UpdatedAt = time.Now()
	sender.TokenVersion++
	return s.senderRepo.Update(sender)
}

// GetSenderByID 获取寄件人信息
func (s *AuthService) GetSenderByID(id uint) (*models.Sender, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	sender, err := s.senderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sender == nil {
		return nil, ErrNotFound
	}
	return sender, nil
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrEmailInvalid
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrEmailInvalid
	}
	return normalized, nil
}

func resolveDisplayNameFromEmail(email string) string {
	parts := strings.SplitN(email, "@", 2)
	if len(parts) == 2 && strings.TrimSpace(parts[0]) != "" {
		return strings.TrimSpace(parts[0])
	}
	return email
}
