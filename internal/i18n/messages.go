package i18n

// messages 文案目录（key 与 handler 错误映射保持一致）
var messages = map[string]map[string]string{
	"zh-CN": {
		"error.bad_request":          "请求参数有误",
		"error.internal":             "服务器内部错误，请稍后重试",
		"error.unauthenticated":      "请先登录",
		"error.forbidden":            "无权操作该礼物",
		"error.not_found":            "资源不存在",
		"error.gift_not_found":       "礼物不存在",
		"error.gift_not_editable":    "礼物已发布，无法修改",
		"error.gift_not_deletable":   "礼物已发布，无法删除",
		"error.incorrect_answer":     "答案不正确",
		"error.coupon_invalid":       "优惠码无效",
		"error.payment_required":     "礼物尚未支付，无法发布",
		"error.upstream_unavailable": "上游服务暂不可用，请稍后重试",
		"error.config_invalid":       "礼物内容配置无效",
		"error.lock_invalid":         "秘密问题配置无效",
		"error.media_invalid":        "媒体文件无效",
		"error.upload_failed":        "文件上传失败",
		"error.email_exists":         "该邮箱已注册",
		"error.email_invalid":        "邮箱格式不正确",
		"error.password_weak":        "密码强度不足",
		"error.login_failed":         "邮箱或密码错误",
		"error.login_too_many":       "登录过于频繁，请稍后再试",
		"error.verify_too_many":      "尝试过于频繁，请稍后再试",
		"error.token_invalid":        "登录状态已失效，请重新登录",
		"error.token_revoked":        "登录状态已失效，请重新登录",
		"error.auth_header_missing":  "缺少认证信息",
		"error.auth_header_invalid":  "认证信息格式错误",
		"error.captcha_required":     "请完成验证码",
		"error.captcha_invalid":      "验证码错误",
		"error.autosave_conflict":    "保存冲突，请重试",
		"error.rate_limited":         "操作过于频繁，请 %d 秒后重试",
	},
	"en-US": {
		"error.bad_request":          "Invalid request",
		"error.internal":             "Internal server error, please retry later",
		"error.unauthenticated":      "Please sign in first",
		"error.forbidden":            "You do not own this gift",
		"error.not_found":            "Resource not found",
		"error.gift_not_found":       "Gift not found",
		"error.gift_not_editable":    "Gift is published and read-only",
		"error.gift_not_deletable":   "Published gifts cannot be deleted",
		"error.incorrect_answer":     "Incorrect answer",
		"error.coupon_invalid":       "Invalid coupon code",
		"error.payment_required":     "Payment or coupon required before publishing",
		"error.upstream_unavailable": "Upstream service unavailable, please retry",
		"error.config_invalid":       "Invalid gift content configuration",
		"error.lock_invalid":         "Invalid secret question configuration",
		"error.media_invalid":        "Invalid media file",
		"error.upload_failed":        "Upload failed",
		"error.email_exists":         "Email already registered",
		"error.email_invalid":        "Invalid email address",
		"error.password_weak":        "Password too weak",
		"error.login_failed":         "Wrong email or password",
		"error.login_too_many":       "Too many login attempts, please retry later",
		"error.verify_too_many":      "Too many attempts, please retry later",
		"error.token_invalid":        "Session expired, please sign in again",
		"error.token_revoked":        "Session expired, please sign in again",
		"error.auth_header_missing":  "Missing authorization header",
		"error.auth_header_invalid":  "Malformed authorization header",
		"error.captcha_required":     "Captcha required",
		"error.captcha_invalid":      "Wrong captcha",
		"error.autosave_conflict":    "Save conflict, please retry",
		"error.rate_limited":         "Too many requests, retry in %d seconds",
	},
}
