package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie holds the operator's signed session token.
const SessionCookie = "admin_auth"

const LocRawToken = "raw_token"

// GetRawAccessToken looks in the session cookie, then Locals set by the
// auth middleware, then an Authorization: Bearer header.
func GetRawAccessToken(c *fiber.Ctx) string {
	if v := strings.TrimSpace(c.Cookies(SessionCookie)); v != "" {
		return v
	}
	if v, ok := c.Locals(LocRawToken).(string); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	const p = "Bearer "
	auth := c.Get(fiber.HeaderAuthorization)
	if len(auth) > len(p) && strings.EqualFold(auth[:len(p)], p) {
		return strings.TrimSpace(auth[len(p):])
	}
	return ""
}

func SetRawAccessToken(c *fiber.Ctx, raw string) {
	if strings.TrimSpace(raw) != "" {
		c.Locals(LocRawToken, strings.TrimSpace(raw))
	}
}

const (
	LocAdminEmail   = "admin_email"
	LocAdminName    = "admin_name"
	LocAdminLoginAt = "admin_login_at"
)

// AdminEmail is the signed-in operator, set by the auth middleware.
func AdminEmail(c *fiber.Ctx) string {
	v, _ := c.Locals(LocAdminEmail).(string)
	return v
}

func AdminName(c *fiber.Ctx) string {
	v, _ := c.Locals(LocAdminName).(string)
	return v
}
