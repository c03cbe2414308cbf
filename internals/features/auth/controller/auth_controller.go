package controller

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"schooladmin_backend/internals/features/auth/model"
	"schooladmin_backend/internals/features/auth/service"
	helper "schooladmin_backend/internals/helpers"
	"schooladmin_backend/internals/listing/screen"
)

type AuthController struct {
	Svc     *service.AuthService
	Screens *screen.Registry
	Secure  bool
}

func NewAuthController(svc *service.AuthService, screens *screen.Registry, secure bool) *AuthController {
	return &AuthController{Svc: svc, Screens: screens, Secure: secure}
}

var validate = validator.New()

func (ac *AuthController) setSessionCookie(c *fiber.Ctx, value string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     helper.SessionCookie,
		Value:    value,
		HTTPOnly: true,
		Secure:   ac.Secure,
		SameSite: "Lax",
		Path:     "/",
		Expires:  expires,
	})
}

// POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req model.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid input format")
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, service.ErrInvalidCredentials.Error())
	}

	admin, err := ac.Svc.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
		}
		log.Printf("[ERROR] login: %v", err)
		return helper.JsonError(c, fiber.StatusBadGateway, "Login is unavailable right now. Please try again.")
	}

	token, exp, err := ac.Svc.Issue(admin)
	if err != nil {
		log.Printf("[ERROR] issue session: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to start session")
	}
	ac.setSessionCookie(c, token, exp)

	return helper.JsonOK(c, "Login successful", fiber.Map{
		"user":         admin,
		"access_token": token,
		"expires_at":   exp,
	})
}

// POST /api/auth/logout is idempotent: it always clears the cookie.
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	raw := helper.GetRawAccessToken(c)
	email, err := ac.Svc.Logout(c.UserContext(), raw)
	if err != nil {
		log.Printf("[WARN] failed to blacklist token: %v", err)
	}
	if email != "" && ac.Screens != nil {
		if n := ac.Screens.DropOwner(email); n > 0 {
			log.Printf("[INFO] logout %s closed %d screens", email, n)
		}
	}
	ac.setSessionCookie(c, "", time.Now().Add(-time.Hour))
	return helper.JsonOK(c, "Logout successful", nil)
}

// GET /api/auth/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	loginAt, _ := c.Locals(helper.LocAdminLoginAt).(time.Time)
	return helper.JsonOK(c, "ok", fiber.Map{
		"user": model.Admin{
			Email:   helper.AdminEmail(c),
			Name:    helper.AdminName(c),
			LoginAt: loginAt,
		},
	})
}
