package service

import "errors"

// 服务层哨兵错误，处理器按 errors.Is 映射为 HTTP 状态与多语言文案。
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("record not found")

	ErrGiftNotFound     = errors.New("gift not found")
	ErrGiftNotEditable  = errors.New("gift not editable")
	ErrGiftNotDeletable = errors.New("gift not deletable")
	ErrAutosaveConflict = errors.New("autosave version conflict")
	ErrConfigInvalid    = errors.New("gift config invalid")

	ErrLockInvalid     = errors.New("lock config invalid")
	ErrIncorrectAnswer = errors.New("incorrect answer")
	ErrTokenInvalid    = errors.New("token invalid")
	ErrTokenRevoked    = errors.New("token revoked")

	ErrCouponInvalid   = errors.New("coupon invalid")
	ErrPaymentRequired = errors.New("payment required")

	ErrEmailExists  = errors.New("email already exists")
	ErrEmailInvalid = errors.New("email invalid")
	ErrPasswordWeak = errors.New("password too weak")
	ErrLoginFailed  = errors.New("login failed")
	ErrLoginTooMany = errors.New("too many login attempts")

	ErrVerifyTooMany = errors.New("too many verify attempts")

	ErrMediaInvalid = errors.New("media invalid")
	ErrUploadFailed = errors.New("upload failed")

	ErrCaptchaRequired = errors.New("captcha required")
	ErrCaptchaInvalid  = errors.New("captcha invalid")

	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
