package public

import "github.com/liwu-next/internal/provider"

// Handler 公开与寄件人侧 API 处理器入口
type Handler struct {
	*provider.Container
}

// New 创建处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
