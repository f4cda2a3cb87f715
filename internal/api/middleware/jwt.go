package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/yoockh/skillsync/internal/api/response"
	"github.com/yoockh/skillsync/internal/utils"
)

const ContextUserID = "user_id"

type JWTConfig struct {
	Secret   string
	Issuer   string // optional
	Audience string // optional
}

// userClaims accepts tokens carrying the user in "id" (issued by the
// SkillSync auth service) or in the standard "sub" claim.
type userClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
}

func (c *userClaims) user() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}

func unauthorized(c *gin.Context, msg string) {
	response.Abort(c, utils.E(utils.CodeUnauthorized, "JWTAuth", msg, nil))
}

func JWTAuth(cfg JWTConfig) gin.HandlerFunc {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	parser := jwt.NewParser(opts...)

	return func(c *gin.Context) {
		if cfg.Secret == "" {
			response.Abort(c, utils.E(utils.CodeInternal, "JWTAuth", "JWT_SECRET is not set", nil))
			return
		}

		raw := bearerToken(c)
		if raw == "" {
			unauthorized(c, "missing bearer token")
			return
		}

		claims := &userClaims{}
		tok, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
			return []byte(cfg.Secret), nil
		})
		if err != nil || tok == nil || !tok.Valid {
			unauthorized(c, "invalid token")
			return
		}

		userID := claims.user()
		if userID == "" {
			unauthorized(c, "token has no user")
			return
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// bearerToken reads the Authorization header, falling back to the "token"
// query parameter for websocket clients that cannot set headers.
func bearerToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if c.GetHeader("Upgrade") != "" {
		return strings.TrimSpace(c.Query("token"))
	}
	return ""
}
