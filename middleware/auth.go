package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/relatoria/api-go/utils"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

func parseBearer(c *gin.Context) (*utils.UserClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	bearerToken := strings.Split(authHeader, " ")
	if len(bearerToken) != 2 {
		return nil, false
	}

	claims := jwt.MapClaims{}
	parsedToken, err := jwt.ParseWithClaims(bearerToken[1], claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !parsedToken.Valid {
		return nil, false
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, false
	}
	username, _ := claims["username"].(string)
	isStaff, _ := claims["is_staff"].(bool)

	return &utils.UserClaims{
		UserID:   uint(userID),
		Username: username,
		IsStaff:  isStaff,
	}, true
}

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := parseBearer(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header with a valid token is required"})
			c.Abort()
			return
		}

		c.Set(string(utils.UserContextKey), user)
		c.Next()
	}
}

// OptionalAuthMiddleware populates the principal when a valid bearer token
// is present and lets anonymous requests through untouched. The report
// submission and public detail routes need both audiences.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, ok := parseBearer(c); ok {
			c.Set(string(utils.UserContextKey), user)
		}
		c.Next()
	}
}

// StaffRequired gates the administrative routes. It runs after
// AuthMiddleware.
func StaffRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := utils.GetUser(c)
		if user == nil || !user.IsStaff {
			c.JSON(http.StatusForbidden, gin.H{"error": "Staff access required", "redirect": "/"})
			c.Abort()
			return
		}
		c.Next()
	}
}
