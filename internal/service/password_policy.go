package service

import (
	"unicode"

	"github.com/liwu-next/internal/config"
)

// validatePassword 校验密码是否符合配置的密码策略
func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	if policy.MinLength <= 0 &&
		!policy.RequireUpper &&
		!policy.RequireLower &&
		!policy.RequireNumber {
		return nil
	}

	if policy.MinLength > 0 && len([]rune(password)) < policy.MinLength {
		return ErrPasswordWeak
	}

	var hasUpper, hasLower, hasNumber bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasNumber = true
		}
	}

	if policy.RequireUpper && !hasUpper {
		return ErrPasswordWeak
	}
	if policy.RequireLower && !hasLower {
		return ErrPasswordWeak
	}
	if policy.RequireNumber && !hasNumber {
		return ErrPasswordWeak
	}
	return nil
}
