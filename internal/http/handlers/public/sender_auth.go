package public

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/liwu-next/internal/constants"
	"github.com/liwu-next/internal/http/response"
	"github.com/liwu-next/internal/i18n"
	"github.com/liwu-next/internal/models"
	"github.com/liwu-next/internal/service"
)

// SenderRegisterRequest 注册请求
type SenderRegisterRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
}

// SenderLoginRequest 登录请求
type SenderLoginRequest struct {
	Email          string                       `json:"email" binding:"required"`
	Password       string                       `json:"password" binding:"required"`
	CaptchaPayload service.CaptchaVerifyPayload `json:"captcha_payload"`
}

// SenderChangePasswordRequest 修改密码请求
type SenderChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

type senderAuthView struct {
	Sender    *senderView `json:"sender"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
}

type senderView struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Locale      string `json:"locale,omitempty"`
}

// SenderRegister 寄件人注册
func (h *Handler) SenderRegister(c *gin.Context) {
	var req SenderRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	locale := i18n.ResolveLocale(c)
	sender, token, expiresAt, err := h.AuthService.Register(req.Email, req.Password, req.DisplayName, locale)
	if err != nil {
		respondSenderAuthError(c, err)
		return
	}
	response.Success(c, senderAuthView{
		Sender:    newSenderView(sender),
		Token:     token,
		ExpiresAt: expiresAt,
	})
}

// SenderLogin 寄件人登录
func (h *Handler) SenderLogin(c *gin.Context) {
	var req SenderLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if h.CaptchaService != nil {
		if captchaErr := h.CaptchaService.Verify(constants.CaptchaSceneLogin, req.CaptchaPayload); captchaErr != nil {
			switch {
			case errors.Is(captchaErr, service.ErrCaptchaRequired):
				respondError(c, response.CodeBadRequest, "error.captcha_required", nil)
			case errors.Is(captchaErr, service.ErrCaptchaInvalid):
				respondError(c, response.CodeBadRequest, "error.captcha_invalid", nil)
			default:
				respondError(c, response.CodeInternal, "error.internal", captchaErr)
			}
			return
		}
	}

	sender, token, expiresAt, err := h.AuthService.Login(req.Email, req.Password)
	if err != nil {
		respondSenderAuthError(c, err)
		return
	}
	response.Success(c, senderAuthView{
		Sender:    newSenderView(sender),
		Token:     token,
		ExpiresAt: expiresAt,
	})
}

// SenderProfile 当前登录寄件人信息
func (h *Handler) SenderProfile(c *gin.Context) {
	senderID, ok := getSenderID(c)
	if !ok {
		return
	}
	sender, err := h.AuthService.GetSenderByID(senderID)
	if err != nil {
		respondSenderAuthError(c, err)
		return
	}
	response.Success(c, newSenderView(sender))
}

// SenderChangePassword 修改密码
func (h *Handler) SenderChangePassword(c *gin.Context) {
	senderID, ok := getSenderID(c)
	if !ok {
		return
	}
	var req SenderChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.AuthService.ChangePassword(senderID, req.OldPassword, req.NewPassword); err != nil {
		respondSenderAuthError(c, err)
		return
	}
	response.Success(c, gin.H{"changed": true})
}

func newSenderView(sender *models.Sender) *senderView {
	if sender == nil {
		return nil
	}
	return &senderView{
		ID:          sender.ID,
		Email:       sender.Email,
		DisplayName: sender.DisplayName,
		Locale:      sender.Locale,
	}
}
