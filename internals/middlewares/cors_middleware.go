package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

var defaultOrigins = []string{
	"http://localhost:5173",
	"http://localhost:3000",
	"http://127.0.0.1:5500",
}

// CorsMiddleware allows the admin UI origins; origins is a comma separated
// list that replaces the local defaults when set.
func CorsMiddleware(origins string) fiber.Handler {
	allowed := defaultOrigins
	if strings.TrimSpace(origins) != "" {
		allowed = nil
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				allowed = append(allowed, o)
			}
		}
	}
	return cors.New(cors.Config{
		AllowOrigins:     strings.Join(allowed, ", "),
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowCredentials: true,
	})
}
