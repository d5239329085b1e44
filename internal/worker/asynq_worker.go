package worker

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/hibiken/asynq"

	"github.com/liwu-next/internal/constants"
	"github.com/liwu-next/internal/logger"
	"github.com/liwu-next/internal/provider"
	"github.com/liwu-next/internal/queue"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskGiftPublishedNotify, c.handleGiftPublishedNotify)
	mux.HandleFunc(queue.TaskDraftMediaCleanup, c.handleDraftMediaCleanup)
}

func (c *Consumer) handleGiftPublishedNotify(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_gift_published_notify_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.GiftPublishedNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_gift_published_notify_unmarshal_failed", "error", err)
		return err
	}
	if payload.GiftID == 0 {
		logger.Debugw("worker_gift_published_notify_skip_invalid_payload", "gift_id", payload.GiftID)
		return nil
	}

	gift, err := c.GiftRepo.GetByID(payload.GiftID)
	if err != nil {
		logger.Warnw("worker_gift_published_notify_fetch_gift_failed", "gift_id", payload.GiftID, "error", err)
		return err
	}
	if gift == nil || !gift.IsPublished() {
		logger.Debugw("worker_gift_published_notify_skip_not_published", "gift_id", payload.GiftID)
		return nil
	}

	sender, err := c.SenderRepo.GetByID(gift.SenderID)
	if err != nil {
		logger.Warnw("worker_gift_published_notify_fetch_sender_failed", "gift_id", gift.ID, "sender_id", gift.SenderID, "error", err)
		return err
	}
	if sender == nil || strings.TrimSpace(sender.Email) == "" {
		logger.Debugw("worker_gift_published_notify_skip_empty_receiver", "gift_id", gift.ID)
		return nil
	}
	if c.Notifier == nil {
		logger.Warnw("worker_gift_published_notify_skip_notifier_nil", "gift_id", gift.ID)
		return nil
	}

	if err := c.Notifier.NotifyGiftPublished(sender, gift, payload.ShareToken); err != nil {
		logger.Warnw("worker_gift_published_notify_failed",
			"gift_id", gift.ID,
			"sender_id", sender.ID,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handleDraftMediaCleanup(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_draft_media_cleanup_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.DraftMediaCleanupPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_draft_media_cleanup_unmarshal_failed", "error", err)
		return err
	}
	if payload.GiftID == 0 {
		logger.Debugw("worker_draft_media_cleanup_skip_invalid_payload", "gift_id", payload.GiftID)
		return nil
	}

	gift, err := c.GiftRepo.GetByID(payload.GiftID)
	if err != nil {
		logger.Warnw("worker_draft_media_cleanup_fetch_gift_failed", "gift_id", payload.GiftID, "error", err)
		return err
	}
	if gift != nil && gift.Status != constants.GiftStatusDraft {
		logger.Debugw("worker_draft_media_cleanup_skip_not_draft", "gift_id", payload.GiftID)
		return nil
	}

	refs, err := c.MediaRefRepo.ListByGift(payload.GiftID)
	if err != nil {
		logger.Warnw("worker_draft_media_cleanup_list_failed", "gift_id", payload.GiftID, "error", err)
		return err
	}
	for _, ref := range refs {
		removeUploadedFile(ref.URL)
	}
	if err := c.MediaRefRepo.DeleteByGift(payload.GiftID); err != nil {
		logger.Warnw("worker_draft_media_cleanup_delete_failed", "gift_id", payload.GiftID, "error", err)
		return err
	}
	logger.Infow("worker_draft_media_cleanup_done", "gift_id", payload.GiftID, "count", len(refs))
	return nil
}

// removeUploadedFile 尽力删除磁盘文件，失败只记日志不阻塞任务
func removeUploadedFile(url string) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(url), "/")
	if !strings.HasPrefix(trimmed, "uploads/") {
		return
	}
	if err := os.Remove(filepath.Clean(trimmed)); err != nil && !os.IsNotExist(err) {
		logger.Debugw("worker_media_file_remove_failed", "path", trimmed, "error", err)
	}
}
