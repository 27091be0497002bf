package utils

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name,omitempty"`
	jwt.RegisteredClaims
}

// GenerateAccessToken mints the short-lived token carrying identity claims.
func GenerateAccessToken(userID, username, email, fullName string, accessTTL time.Duration) (string, error) {
	claims := Claims{
		UserID:   userID,
		Username: username,
		Email:    email,
		FullName: fullName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

// GenerateRefreshToken mints the long-lived token carrying the user id only.
func GenerateRefreshToken(userID string, refreshTTL time.Duration) (string, error) {
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(refreshTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_REFRESH_SECRET")))
}

func ValidateToken(tokenStr string, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return token.Claims.(*Claims), nil
}

// AcceptRefreshToken reports whether a presented refresh token matches the
// currently stored one. Rotation overwrites the stored value, so a token that
// was rotated out is rejected even while its signature is still valid.
func AcceptRefreshToken(stored *string, presented string) bool {
	return stored != nil && presented != "" && *stored == presented
}

func AccessTTL() time.Duration {
	min, _ := strconv.Atoi(os.Getenv("ACCESS_TOKEN_TTL_MINUTES"))
	if min <= 0 {
		min = 15
	}
	return time.Duration(min) * time.Minute
}

func RefreshTTL() time.Duration {
	days, _ := strconv.Atoi(os.Getenv("REFRESH_TOKEN_TTL_DAYS"))
	if days <= 0 {
		days = 14
	}
	return time.Duration(days) * 24 * time.Hour
}

func cookieDomain() string {
	return os.Getenv("COOKIE_DOMAIN")
}

// SetAuthCookies attaches the token pair as HttpOnly/Secure cookies. The
// refresh cookie is scoped to /auth so it only travels on refresh/logout.
func SetAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	domain := cookieDomain()
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     "accessToken",
		Value:    accessToken,
		Path:     "/",
		Domain:   domain,
		MaxAge:   int(AccessTTL().Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode, // for cross-site
	})
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     "refreshToken",
		Value:    refreshToken,
		Path:     "/auth",
		Domain:   domain,
		MaxAge:   int(RefreshTTL().Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func ClearAuthCookies(c *gin.Context) {
	domain := cookieDomain()
	c.SetCookie("accessToken", "", -1, "/", domain, true, true)
	c.SetCookie("refreshToken", "", -1, "/auth", domain, true, true)
}
