package public

import (
	"github.com/gin-gonic/gin"

	handlershared "github.com/liwu-next/internal/http/handlers/shared"
)

func getContextUintWithKeys(c *gin.Context, key, invalidKey, typeInvalidKey string) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, key, invalidKey, typeInvalidKey)
}

func getSenderID(c *gin.Context) (uint, bool) {
	return getContextUintWithKeys(c, "sender_id", "error.bad_request", "error.internal")
}
