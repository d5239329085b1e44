package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// DefaultLocale 默认语言
const DefaultLocale = "zh-CN"

var supportedLocales = map[string]string{
	"zh-cn": "zh-CN",
	"zh":    "zh-CN",
	"en-us": "en-US",
	"en":    "en-US",
}

// ResolveLocale 从请求解析语言（优先 query，其次 Accept-Language）
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if locale := normalizeLocale(c.Query("locale")); locale != "" {
		return locale
	}
	header := c.GetHeader("Accept-Language")
	for _, part := range strings.Split(header, ",") {
		tag := part
		if idx := strings.Index(tag, ";"); idx >= 0 {
			tag = tag[:idx]
		}
		if locale := normalizeLocale(tag); locale != "" {
			return locale
		}
	}
	return DefaultLocale
}

// T 返回 key 对应语言的文案，缺失时回退默认语言再回退 key 本身
func T(locale, key string) string {
	normalized := normalizeLocale(locale)
	if normalized == "" {
		normalized = DefaultLocale
	}
	if table, ok := messages[normalized]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if normalized != DefaultLocale {
		if msg, ok := messages[DefaultLocale][key]; ok {
			return msg
		}
	}
	return key
}

// Sprintf 按 locale 取模板并格式化
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}

func normalizeLocale(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return ""
	}
	if locale, ok := supportedLocales[trimmed]; ok {
		return locale
	}
	return ""
}
