package middleware

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "session"

const sessionTTL = 24 * time.Hour

func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// SessionToken signs a session token carrying the authenticated identity.
func SessionToken(userID uint, username string) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"exp":      time.Now().Add(sessionTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// SetSession attaches the session cookie to the response.
func SetSession(c *gin.Context, token string) {
	c.SetCookie(SessionCookie, token, int(sessionTTL.Seconds()), "/", "", false, true)
}

// ClearSession removes the session cookie.
func ClearSession(c *gin.Context) {
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
}

func parseSession(c *gin.Context) (uint, string, bool) {
	raw, err := c.Cookie(SessionCookie)
	if err != nil || raw == "" {
		return 0, "", false
	}

	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return 0, "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", false
	}
	id, ok := claims["user_id"].(float64)
	if !ok {
		return 0, "", false
	}
	username, _ := claims["username"].(string)
	return uint(id), username, true
}

// RequireSession guards browser pages: a missing or invalid session redirects
// to the login page, a valid one puts the identity on the request context.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, username, ok := parseSession(c)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set("user_id", userID)
		c.Set("username", username)
		c.Next()
	}
}
