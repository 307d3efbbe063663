package http

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/jeffperkel/CPG-POD-TEST/internal/application/dto"
	"github.com/jeffperkel/CPG-POD-TEST/internal/application/ledger"
)

// HeaderAPIKey header con la clave de acceso a /api.
const HeaderAPIKey = "X-API-Key"

// LocalUserID clave en c.Locals del usuario que registra.
const LocalUserID = "user_id"

// APIKeyMiddleware exige X-API-Key igual a apiKey. Con apiKey vacío no verifica nada.
func APIKeyMiddleware(apiKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if apiKey == "" {
			return c.Next()
		}
		got := c.Get(HeaderAPIKey)
		if got == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_API_KEY", Message: "header X-API-Key requerido"})
		}
		if subtle.ConstantTimeCompare([]byte(got), []byte(apiKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "API key inválida"})
		}
		return c.Next()
	}
}

// UserMiddleware toma el query param user_id (por defecto api_user) y lo deja en c.Locals.
func UserMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(LocalUserID, c.Query("user_id", ledger.DefaultUserID))
		return c.Next()
	}
}

// GetUserID devuelve el usuario de la petición (después de UserMiddleware).
func GetUserID(c *fiber.Ctx) string {
	v := c.Locals(LocalUserID)
	if v == nil {
		return ledger.DefaultUserID
	}
	s, _ := v.(string)
	if s == "" {
		return ledger.DefaultUserID
	}
	return s
}
