package service

import (
	"strings"
	"sync"
	"time"

	"github.com/mojocn/base64Captcha"

	"github.com/liwu-next/internal/config"
	"github.com/liwu-next/internal/constants"
)

// CaptchaVerifyPayload 验证码校验请求载荷
type CaptchaVerifyPayload struct {
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// CaptchaImageChallenge 图片验证码挑战
type CaptchaImageChallenge struct {
	CaptchaID   string `json:"captcha_id"`
	ImageBase64 string `json:"image_base64"`
}

// CaptchaService 验证码服务
// 按场景开关决定是否需要验证码，目前仅支持图片验证码。
// 对 verify-secret 场景启用后可给暴力猜答案增加摩擦。
type CaptchaService struct {
	cfg config.CaptchaConfig

	mu         sync.Mutex
	imageStore base64Captcha.Store
}

// NewCaptchaService 创建验证码服务
func NewCaptchaService(cfg config.CaptchaConfig) *CaptchaService {
	return &CaptchaService{cfg: cfg}
}

// Enabled 验证码功能是否启用
func (s *CaptchaService) Enabled() bool {
	return s != nil && strings.EqualFold(s.cfg.Provider, "image")
}

// SceneEnabled 指定场景是否要求验证码
func (s *CaptchaService) SceneEnabled(scene string) bool {
	if !s.Enabled() {
		return false
	}
	switch scene {
	case constants.CaptchaSceneLogin:
		return s.cfg.Scenes.Login
	case constants.CaptchaSceneVerifySecret:
		return s.cfg.Scenes.VerifySecret
	default:
		return false
	}
}

// GenerateImageChallenge 生成图片验证码
func (s *CaptchaService) GenerateImageChallenge() (*CaptchaImageChallenge, error) {
	if !s.Enabled() {
		return nil, ErrCaptchaRequired
	}

	driver := base64Captcha.NewDriverString(
		s.resolvedHeight(),
		s.resolvedWidth(),
		s.cfg.Image.NoiseCount,
		s.cfg.Image.ShowLine,
		s.resolvedLength(),
		"0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ",
		nil,
		base64Captcha.DefaultEmbeddedFonts,
		nil,
	)
	captcha := base64Captcha.NewCaptcha(driver, s.ensureImageStore())
	id, b64s, _, err := captcha.Generate()
	if err != nil {
		return nil, err
	}
	return &CaptchaImageChallenge{
		CaptchaID:   strings.TrimSpace(id),
		ImageBase64: strings.TrimSpace(b64s),
	}, nil
}

// Verify 按场景校验验证码，场景未启用时直接通过
func (s *CaptchaService) Verify(scene string, payload CaptchaVerifyPayload) error {
	if !s.SceneEnabled(scene) {
		return nil
	}

	captchaID := strings.TrimSpace(payload.CaptchaID)
	captchaCode := strings.TrimSpace(payload.CaptchaCode)
	if captchaID == "" || captchaCode == "" {
		return ErrCaptchaRequired
	}
	if !s.ensureImageStore().Verify(captchaID, captchaCode, true) {
		return ErrCaptchaInvalid
	}
	return nil
}

func (s *CaptchaService) ensureImageStore() base64Captcha.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.imageStore == nil {
		maxStore := s.cfg.Image.MaxStore
		if maxStore <= 0 {
			maxStore = 10240
		}
		expire := s.cfg.Image.ExpireSeconds
		if expire <= 0 {
			expire = 300
		}
		s.imageStore = base64Captcha.NewMemoryStore(maxStore, time.Duration(expire)*time.Second)
	}
	return s.imageStore
}

func (s *CaptchaService) resolvedLength() int {
	if s.cfg.Image.Length < 4 || s.cfg.Image.Length > 8 {
		return 5
	}
	return s.cfg.Image.Length
}

func (s *CaptchaService) resolvedWidth() int {
	if s.cfg.Image.Width <= 0 {
		return 240
	}
	return s.cfg.Image.Width
}

func (s *CaptchaService) resolvedHeight() int {
	if s.cfg.Image.Height <= 0 {
		return 80
	}
	return s.cfg.Image.Height
}
