package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

type TokenClaims struct {
	UserID   int
	UUID     string
	Username string
}

// Auth devolve o guardião das rotas protegidas. Sem token → 401; token
// inválido ou expirado → 403. O segredo é injetado, nunca lido de ambiente
// aqui dentro.
func Auth(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			return c.Status(401).JSON(fiber.Map{"erro": "Token não informado"})
		}

		claims, ok := ParseToken(auth[7:], jwtSecret)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"erro": "Token inválido"})
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("user_uuid", claims.UUID)
		c.Locals("username", claims.Username)

		return c.Next()
	}
}

// ParseToken valida assinatura e expiração e expõe as claims embutidas.
// É a única forma das operações protegidas saberem quem está pedindo.
func ParseToken(tokenStr, jwtSecret string) (TokenClaims, bool) {
	token, err := jwt.ParseWithClaims(tokenStr, &jwt.MapClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return TokenClaims{}, false
	}

	claims := token.Claims.(*jwt.MapClaims)
	tc := TokenClaims{}
	if id, ok := (*claims)["user_id"].(float64); ok {
		tc.UserID = int(id)
	}
	tc.UUID, _ = (*claims)["uuid"].(string)
	tc.Username, _ = (*claims)["username"].(string)

	if tc.UserID == 0 {
		return TokenClaims{}, false
	}
	return tc, true
}
