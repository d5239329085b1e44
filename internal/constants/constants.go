package constants

// 礼物状态常量
const (
	GiftStatusDraft     = "draft"
	GiftStatusPublished = "published"
	// GiftStatusAwaitingPayment 为派生状态，仅用于对外展示，不落库
	GiftStatusAwaitingPayment = "awaiting_payment"
)

// 支付状态常量
const (
	PaymentStateUnpaid         = "unpaid"
	PaymentStateCouponRedeemed = "coupon_redeemed"
	PaymentStatePaid           = "paid"
)

// 发送者状态常量
const (
	SenderStatusActive   = "active"
	SenderStatusDisabled = "disabled"
)

// 揭示阶段常量（顺序即规范顺序）
const (
	StageUnlock           = "unlock"
	StageEntry            = "entry"
	StageIntroAnimation   = "intro_animation"
	StageOpeningAnimation = "opening_animation"
	StageEmotionalBeat    = "emotional_beat"
	StageMessageReveal    = "message_reveal"
	StageLetters          = "letters"
	StagePhotos           = "photos"
	StageConversation     = "conversation"
	StageMapConnection    = "map_connection"
	StageProposal         = "proposal"
	StageCelebration      = "celebration"
)

// 异步任务常量
const (
	TaskGiftPublishedNotify = "gift:published_notify"
	TaskDraftMediaCleanup   = "gift:draft_media_cleanup"
)

// 队列名称常量
const (
	QueueDefault = "default"
)

// 验证码场景常量
const (
	CaptchaSceneVerifySecret = "verify_secret"
	CaptchaSceneLogin        = "login"
)

// 上传场景常量
const (
	UploadScenePhoto  = "photo"
	UploadSceneLetter = "letter"
	UploadSceneCommon = "common"
)
