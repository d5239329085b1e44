package public

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/liwu-next/internal/http/response"
	"github.com/liwu-next/internal/service"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var giftOwnershipErrorRules = []mappedHandlerError{
	{target: service.ErrUnauthenticated, code: response.CodeUnauthorized, key: "error.unauthenticated"},
	{target: service.ErrForbidden, code: response.CodeForbidden, key: "error.forbidden"},
	{target: service.ErrGiftNotFound, code: response.CodeNotFound, key: "error.gift_not_found"},
}

var giftDraftErrorRules = []mappedHandlerError{
	{target: service.ErrGiftNotEditable, code: response.CodeConflict, key: "error.gift_not_editable"},
	{target: service.ErrGiftNotDeletable, code: response.CodeConflict, key: "error.gift_not_deletable"},
	{target: service.ErrAutosaveConflict, code: response.CodeConflict, key: "error.autosave_conflict"},
	{target: service.ErrConfigInvalid, code: response.CodeBadRequest, key: "error.config_invalid"},
}

var giftPublishErrorRules = []mappedHandlerError{
	{target: service.ErrCouponInvalid, code: response.CodeBadRequest, key: "error.coupon_invalid"},
	{target: service.ErrPaymentRequired, code: response.CodePaymentRequired, key: "error.payment_required"},
}

var giftLockErrorRules = []mappedHandlerError{
	{target: service.ErrLockInvalid, code: response.CodeBadRequest, key: "error.lock_invalid"},
	{target: service.ErrIncorrectAnswer, code: response.CodeBadRequest, key: "error.incorrect_answer"},
	{target: service.ErrVerifyTooMany, code: response.CodeTooManyRequests, key: "error.verify_too_many"},
}

var senderAuthErrorRules = []mappedHandlerError{
	{target: service.ErrEmailInvalid, code: response.CodeBadRequest, key: "error.email_invalid"},
	{target: service.ErrEmailExists, code: response.CodeBadRequest, key: "error.email_exists"},
	{target: service.ErrPasswordWeak, code: response.CodeBadRequest, key: "error.password_weak"},
	{target: service.ErrLoginFailed, code: response.CodeBadRequest, key: "error.login_failed"},
	{target: service.ErrLoginTooMany, code: response.CodeTooManyRequests, key: "error.login_too_many"},
	{target: service.ErrForbidden, code: response.CodeForbidden, key: "error.forbidden"},
	{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.not_found"},
}

var uploadErrorRules = []mappedHandlerError{
	{target: service.ErrMediaInvalid, code: response.CodeBadRequest, key: "error.media_invalid"},
	{target: service.ErrUploadFailed, code: response.CodeInternal, key: "error.upload_failed"},
	{target: service.ErrUpstreamUnavailable, code: response.CodeInternal, key: "error.upstream_unavailable"},
}

func respondGiftAuthorError(c *gin.Context, err error) {
	respondWithMappedError(c, err,
		concatMappedHandlerErrors(giftOwnershipErrorRules, giftDraftErrorRules),
		response.CodeInternal, "error.internal")
}

func respondGiftPublishError(c *gin.Context, err error) {
	respondWithMappedError(c, err,
		concatMappedHandlerErrors(giftOwnershipErrorRules, giftDraftErrorRules, giftPublishErrorRules),
		response.CodeInternal, "error.internal")
}

func respondGiftLockError(c *gin.Context, err error) {
	respondWithMappedError(c, err,
		concatMappedHandlerErrors(giftOwnershipErrorRules, giftDraftErrorRules, giftLockErrorRules),
		response.CodeInternal, "error.internal")
}

func respondSenderAuthError(c *gin.Context, err error) {
	respondWithMappedError(c, err, senderAuthErrorRules, response.CodeInternal, "error.internal")
}

func respondUploadError(c *gin.Context, err error) {
	respondWithMappedError(c, err,
		concatMappedHandlerErrors(giftOwnershipErrorRules, giftDraftErrorRules, uploadErrorRules),
		response.CodeInternal, "error.internal")
}
