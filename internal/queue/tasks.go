package queue

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/liwu-next/internal/constants"
)

const (
	// TaskGiftPublishedNotify 礼物发布通知任务
	TaskGiftPublishedNotify = constants.TaskGiftPublishedNotify
	// TaskDraftMediaCleanup 过期草稿媒体清理任务
	TaskDraftMediaCleanup = constants.TaskDraftMediaCleanup
)

// GiftPublishedNotifyPayload 礼物发布通知任务载荷
type GiftPublishedNotifyPayload struct {
	GiftID     uint   `json:"gift_id"`
	SenderID   uint   `json:"sender_id"`
	ShareToken string `json:"share_token"`
}

// DraftMediaCleanupPayload 过期草稿媒体清理任务载荷
type DraftMediaCleanupPayload struct {
	GiftID uint `json:"gift_id"`
}

// NewGiftPublishedNotifyTask 创建礼物发布通知任务
func NewGiftPublishedNotifyTask(payload GiftPublishedNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskGiftPublishedNotify, body), nil
}

// NewDraftMediaCleanupTask 创建过期草稿媒体清理任务
func NewDraftMediaCleanupTask(payload DraftMediaCleanupPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDraftMediaCleanup, body), nil
}
