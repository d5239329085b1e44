package public

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/liwu-next/internal/http/response"
	"github.com/liwu-next/internal/queue"
)

// UploadGiftMedia 上传礼物媒体文件（multipart，支持多文件，逐个追加）
func (h *Handler) UploadGiftMedia(c *gin.Context) {
	senderID, ok := getSenderID(c)
	if !ok {
		return
	}
	giftID, ok := parseGiftID(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		if file, ferr := c.FormFile("file"); ferr == nil && file != nil {
			files = append(files, file)
		}
	}
	if len(files) == 0 {
		respondError(c, response.CodeBadRequest, "error.media_invalid", nil)
		return
	}

	scene := c.DefaultPostForm("scene", "photo")
	results := make([]gin.H, 0, len(files))
	for _, file := range files {
		ref, err := h.UploadService.SaveFile(file, scene)
		if err != nil {
			respondUploadError(c, err)
			return
		}
		if _, err := h.GiftService.AttachMedia(senderID, giftID, ref); err != nil {
			respondUploadError(c, err)
			return
		}
		results = append(results, gin.H{"id": ref.ID, "url": ref.URL})
	}

	// 草稿过期清理任务失败不影响上传结果
	h.enqueueDraftCleanup(giftID)
	response.Success(c, results)
}

func (h *Handler) enqueueDraftCleanup(giftID uint) {
	if h.QueueClient == nil || h.Config == nil {
		return
	}
	ttlDays := h.Config.Gift.DraftTTLDays
	if ttlDays <= 0 {
		return
	}
	delay := time.Duration(ttlDays) * 24 * time.Hour
	_ = h.QueueClient.EnqueueDraftMediaCleanup(queue.DraftMediaCleanupPayload{GiftID: giftID}, delay)
}
