package service

import (
	"fmt"

	"github.com/liwu-next/internal/logger"
	"github.com/liwu-next/internal/models"
)

// Notifier 发布通知发送接口，邮件等具体投递方式在实现层接入
type Notifier interface {
	NotifyGiftPublished(sender *models.Sender, gift *models.Gift, shareToken string) error
}

// LogNotifier 日志通知实现，把分享链接写入结构化日志
type LogNotifier struct {
	// BaseURL 拼接分享链接的站点前缀
	BaseURL string
}

// NewLogNotifier 创建日志通知实现
func NewLogNotifier(baseURL string) *LogNotifier {
	return &LogNotifier{BaseURL: baseURL}
}

// NotifyGiftPublished 记录发布通知
func (n *LogNotifier) NotifyGiftPublished(sender *models.Sender, gift *models.Gift, shareToken string) error {
	if sender == nil || gift == nil {
		return nil
	}
	shareURL := shareToken
	if n.BaseURL != "" {
		shareURL = fmt.Sprintf("%s/gifts/view/%s", n.BaseURL, shareToken)
	}
	logger.Infow("gift_published_notify",
		"gift_id", gift.ID,
		"sender_id", sender.ID,
		"receiver_email", sender.Email,
		"share_url", shareURL,
	)
	return nil
}
