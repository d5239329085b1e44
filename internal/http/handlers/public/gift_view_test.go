package public

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/liwu-next/internal/cache"
	"github.com/liwu-next/internal/config"
	"github.com/liwu-next/internal/models"
	"github.com/liwu-next/internal/provider"
	"github.com/liwu-next/internal/repository"
	"github.com/liwu-next/internal/service"
)

type responseEnvelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

// setupViewTestRouter 搭起收件人视图路由，返回路由器和一个已上锁发布礼物的分享令牌
func setupViewTestRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Sender{},
		&models.Gift{},
		&models.MediaRef{},
		&models.Coupon{},
		&models.CouponRedemption{},
	); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.Unlock.SecretKey = "test-unlock-secret-0123456789abcdef0123456789ab"
	cfg.Unlock.ExpireHours = 72
	cfg.Gift.AutosaveMaxRetries = 3
	cfg.Gift.DraftTTLDays = 30
	cfg.Gift.PriceAmount = "9.90"
	cfg.Gift.Currency = "USD"

	giftRepo := repository.NewGormGiftRepository(db)
	mediaRepo := repository.NewGormMediaRefRepository(db)
	couponRepo := repository.NewGormCouponRepository(db)
	redemptionRepo := repository.NewGormCouponRedemptionRepository(db)

	giftSvc := service.NewGiftService(cfg, giftRepo, mediaRepo)
	lockSvc := service.NewLockService(cfg, giftRepo)
	publishSvc := service.NewPublishService(db, giftRepo, couponRepo, redemptionRepo, nil)
	viewSvc := service.NewViewService(giftRepo, lockSvc)

	sender := &models.Sender{Email: "viewer@example.com", PasswordHash: "x", Status: "active"}
	if err := db.Create(sender).Error; err != nil {
		t.Fatalf("create sender failed: %v", err)
	}
	gift, err := giftSvc.CreateDraft(sender.ID, models.GiftConfig{
		Identity: &models.IdentityGroup{SenderName: "阿明", RecipientName: "小雨"},
	})
	if err != nil {
		t.Fatalf("create draft failed: %v", err)
	}
	if err := lockSvc.SetChallenge(sender.ID, gift.ID, "我们初次旅行去了哪座城市", "Paris", "欧洲"); err != nil {
		t.Fatalf("set challenge failed: %v", err)
	}
	if _, err := publishSvc.MarkPaid(gift.ID); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	published, err := publishSvc.Publish(sender.ID, gift.ID)
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	h := New(&provider.Container{
		Config:           cfg,
		ViewService:      viewSvc,
		LockService:      lockSvc,
		UnlockTokenCache: cache.NewMemoryUnlockTokenCache(),
	})
	r := gin.New()
	r.GET("/api/v1/gifts/view/:share_token", h.ViewGift)
	r.POST("/api/v1/gifts/view/:share_token/verify-secret", h.VerifySecret)
	return r, *published.ShareToken
}

// requestView 请求收件人视图，返回 locked 标志
func requestView(t *testing.T, r *gin.Engine, path string, cookie *http.Cookie) bool {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("view status want 200 got %d", w.Code)
	}
	var env responseEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope failed: %v", err)
	}
	if env.StatusCode != 0 {
		t.Fatalf("view status_code want 0 got %d msg=%s", env.StatusCode, env.Msg)
	}
	var view struct {
		Locked bool `json:"locked"`
	}
	if err := json.Unmarshal(env.Data, &view); err != nil {
		t.Fatalf("decode view failed: %v", err)
	}
	return view.Locked
}

func TestViewGiftUnlockScopedToVerifiedVisitor(t *testing.T) {
	r, shareToken := setupViewTestRouter(t)
	viewPath := "/api/v1/gifts/view/" + shareToken

	// 未验证访客只能看到锁定视图
	if !requestView(t, r, viewPath, nil) {
		t.Fatalf("unverified visitor should see locked view")
	}

	// 接收端答对挑战，拿到解锁令牌和会话 cookie
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, viewPath+"/verify-secret",
		bytes.NewBufferString(`{"answer":"paris"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("verify status want 200 got %d", w.Code)
	}
	var env responseEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode verify envelope failed: %v", err)
	}
	if env.StatusCode != 0 {
		t.Fatalf("verify status_code want 0 got %d msg=%s", env.StatusCode, env.Msg)
	}
	var verifyData struct {
		UnlockToken string `json:"unlock_token"`
	}
	if err := json.Unmarshal(env.Data, &verifyData); err != nil {
		t.Fatalf("decode verify data failed: %v", err)
	}
	if verifyData.UnlockToken == "" {
		t.Fatalf("verify should return unlock token")
	}
	var sessionCookie *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == recipientSessionCookie {
			sessionCookie = ck
		}
	}
	if sessionCookie == nil || sessionCookie.Value == "" {
		t.Fatalf("verify should set recipient session cookie")
	}

	// 别的访客既无令牌也无会话，依旧只能看到锁定视图
	if !requestView(t, r, viewPath, nil) {
		t.Fatalf("stranger must stay locked after another visitor verified")
	}

	// 带解锁令牌的请求拿到完整视图
	if requestView(t, r, viewPath+"?unlock_token="+verifyData.UnlockToken, nil) {
		t.Fatalf("token bearer should see full view")
	}

	// 验证过的会话凭 cookie 免令牌解锁
	if requestView(t, r, viewPath, sessionCookie) {
		t.Fatalf("verified session should see full view via cookie")
	}
}
