package serverutils

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret []byte

// SetJwtSecret installs the signing secret; call once at bootstrap before
// any route using JwtMiddleware is served.
func SetJwtSecret(secret string) {
	jwtSecret = []byte(secret)
}

func JwtMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if authHeader == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("missing authorization header"))
	}

	tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("invalid authorization header"))
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("invalid or expired token"))
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok {
		if sub, ok := claims["sub"].(string); ok {
			ctx.Locals("user_id", sub)
		}
	}

	return ctx.Next()
}
