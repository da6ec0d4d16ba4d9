package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/wingfest/backend/internal/models"
)

func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

func parseToken(c *gin.Context) (jwt.MapClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return nil, false
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, false
	}
	return claims, true
}

func setIdentity(c *gin.Context, claims jwt.MapClaims) {
	if id, ok := claims["user_id"].(float64); ok {
		c.Set("user_id", int(id))
	}
	if username, ok := claims["username"].(string); ok {
		c.Set("username", username)
	}
}

// AuthMiddleware requires a valid Bearer token and puts user_id/username on
// the context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}
		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuth sets the caller's identity when a valid token is present and
// stays silent otherwise. Used by reads that personalize their response,
// like the bird detail's can_vote/has_voted flags.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := parseToken(c); ok {
			setIdentity(c, claims)
		}
		c.Next()
	}
}

// JudgeCheck answers whether a user id belongs to the judge panel. Kept as
// an opaque predicate so handlers and the scoring package never reach into
// role storage themselves.
type JudgeCheck func(userID int) bool

// JudgeRoleCheck backs JudgeCheck with the judge_roles table.
func JudgeRoleCheck(db *gorm.DB) JudgeCheck {
	return func(userID int) bool {
		var count int64
		db.Model(&models.JudgeRole{}).Where("user_id = ?", userID).Count(&count)
		return count > 0
	}
}

// RequireJudge gates judge-only routes. Must run after AuthMiddleware.
func RequireJudge(isJudge JudgeCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}
		id, ok := userID.(int)
		if !ok || !isJudge(id) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only judges can do that"})
			c.Abort()
			return
		}
		c.Next()
	}
}
