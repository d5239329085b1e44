package public

import (
	"github.com/gin-gonic/gin"

	"github.com/liwu-next/internal/http/response"
)

// GetCaptcha 生成图片验证码挑战
func (h *Handler) GetCaptcha(c *gin.Context) {
	if h.CaptchaService == nil || !h.CaptchaService.Enabled() {
		response.Success(c, gin.H{"enabled": false})
		return
	}
	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{
		"enabled":      true,
		"captcha_id":   challenge.CaptchaID,
		"image_base64": challenge.ImageBase64,
	})
}
