package public

import (
	"github.com/gin-gonic/gin"

	handlershared "github.com/liwu-next/internal/http/handlers/shared"
)

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}
