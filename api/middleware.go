package api

import (
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/Domenick1991/mysterytrips/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ctxSubject = "subject"
	ctxRole    = "role"
)

// Claims are issued by the back office; only the role is checked here.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware accepts HS256 bearer tokens whose role is one of roles.
func AuthMiddleware(secret string, roles []string) gin.HandlerFunc {
	key := []byte(secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			writeError(c, fmt.Errorf("%w: missing bearer token", domain.ErrUnauthorized))
			return
		}

		claims := &Claims{}
		token, err := parser.ParseWithClaims(strings.TrimSpace(raw), claims, func(t *jwt.Token) (any, error) {
			return key, nil
		})
		if err != nil || !token.Valid {
			log.Printf("api: rejected token for %s: %v", c.FullPath(), err)
			writeError(c, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized))
			return
		}
		if !slices.Contains(roles, claims.Role) {
			writeError(c, fmt.Errorf("%w: role %q not allowed", domain.ErrUnauthorized, claims.Role))
			return
		}

		c.Set(ctxSubject, claims.Subject)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}
