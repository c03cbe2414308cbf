package auth

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"schooladmin_backend/internals/features/auth/model"
	"schooladmin_backend/internals/features/auth/service"
	helper "schooladmin_backend/internals/helpers"
)

// Verifier restores an operator from a raw session token.
type Verifier interface {
	Verify(ctx context.Context, raw string) (model.Admin, error)
}

func authenticate(c *fiber.Ctx, v Verifier) (model.Admin, error) {
	raw := helper.GetRawAccessToken(c)
	admin, err := v.Verify(c.UserContext(), raw)
	if err != nil {
		return model.Admin{}, err
	}
	helper.SetRawAccessToken(c, raw)
	c.Locals(helper.LocAdminEmail, admin.Email)
	c.Locals(helper.LocAdminName, admin.Name)
	c.Locals(helper.LocAdminLoginAt, admin.LoginAt)
	return admin, nil
}

// AuthMiddleware guards the admin API: 401 without a valid session.
func AuthMiddleware(v Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := authenticate(c, v); err != nil {
			switch {
			case errors.Is(err, service.ErrMissingToken),
				errors.Is(err, service.ErrInvalidToken),
				errors.Is(err, service.ErrRevoked):
				return helper.JsonError(c, fiber.StatusUnauthorized, unwrapMessage(err))
			default:
				log.Printf("[ERROR] session check: %v", err)
				return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
			}
		}
		return c.Next()
	}
}

func unwrapMessage(err error) string {
	for _, known := range []error{service.ErrMissingToken, service.ErrRevoked, service.ErrInvalidToken} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return err.Error()
}

// PageGuard sends signed-out visitors of admin pages to /login, and
// signed-in visitors of /login back to /.
func PageGuard(v Verifier, loginPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, err := authenticate(c, v)
		signedIn := err == nil
		onLogin := c.Path() == loginPath

		switch {
		case !signedIn && !onLogin:
			return c.Redirect(loginPath, fiber.StatusFound)
		case signedIn && onLogin:
			return c.Redirect("/", fiber.StatusFound)
		}
		return c.Next()
	}
}
