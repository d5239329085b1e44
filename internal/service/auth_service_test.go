package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/liwu-next/internal/repository"
)

var testAuthSeq int

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := openServiceTestDB(t)
	cfg := newServiceTestConfig()
	return NewAuthService(cfg, repository.NewGormSenderRepository(db))
}

func uniqueEmail() string {
	testAuthSeq++
	return fmt.Sprintf("auth%d@example.com", testAuthSeq)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	email := uniqueEmail()

	sender, token, expiresAt, err := svc.Register("  "+email+"  ", "Secret1234", "", "zh-CN")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if sender.Email != email {
		t.Fatalf("email not normalized: %s", sender.Email)
	}
	if sender.DisplayName == "" {
		t.Fatalf("display name should default from email")
	}
	if token == "" || expiresAt.IsZero() {
		t.Fatalf("register should issue a token")
	}

	if _, _, _, err := svc.Register(email, "Secret1234", "", ""); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("duplicate register want ErrEmailExists got %v", err)
	}

	if _, _, _, err := svc.Login(email, "wrong-password"); !errors.Is(err, ErrLoginFailed) {
		t.Fatalf("wrong password want ErrLoginFailed got %v", err)
	}
	logged, _, _, err := svc.Login(email, "Secret1234")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if logged.ID != sender.ID {
		t.Fatalf("login returned wrong sender: %d vs %d", logged.ID, sender.ID)
	}
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	svc := newAuthService(t)

	if _, _, _, err := svc.Register("not-an-email", "Secret1234", "", ""); !errors.Is(err, ErrEmailInvalid) {
		t.Fatalf("invalid email want ErrEmailInvalid got %v", err)
	}
	if _, _, _, err := svc.Register(uniqueEmail(), "short", "", ""); !errors.Is(err, ErrPasswordWeak) {
		t.Fatalf("short password want ErrPasswordWeak got %v", err)
	}
}

func TestAuthenticateRoundTrip(t *testing.T) {
	svc := newAuthService(t)
	email := uniqueEmail()

	sender, token, _, err := svc.Register(email, "Secret1234", "", "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	authed, err := svc.Authenticate(token)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if authed.ID != sender.ID {
		t.Fatalf("authenticated wrong sender")
	}

	if _, err := svc.Authenticate("garbage.token.value"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("garbage token want ErrTokenInvalid got %v", err)
	}
}

func TestChangePasswordRevokesOldTokens(t *testing.T) {
	svc := newAuthService(t)
	email := uniqueEmail()

	sender, oldToken, _, err := svc.Register(email, "Secret1234", "", "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := svc.ChangePassword(sender.ID, "wrong", "NewSecret1234"); !errors.Is(err, ErrLoginFailed) {
		t.Fatalf("change password with wrong old want ErrLoginFailed got %v", err)
	}
	if err := svc.ChangePassword(sender.ID, "Secret1234", "NewSecret1234"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	// 版本号已前进，旧令牌视为吊销
	if _, err := svc.Authenticate(oldToken); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("old token after password change want ErrTokenRevoked got %v", err)
	}

	if _, _, _, err := svc.Login(email, "Secret1234"); !errors.Is(err, ErrLoginFailed) {
		t.Fatalf("old password after change want ErrLoginFailed got %v", err)
	}
	if _, newToken, _, err := svc.Login(email, "NewSecret1234"); err != nil || newToken == "" {
		t.Fatalf("login with new password failed: %v", err)
	} else if _, err := svc.Authenticate(newToken); err != nil {
		t.Fatalf("new token should authenticate: %v", err)
	}
}
