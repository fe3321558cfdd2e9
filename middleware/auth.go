package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	StaffIDKey   = "staffId"
	StaffRoleKey = "staffRole"
)

// StaffClaims is the payload of a staff session token.
type StaffClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 session token for a staff account.
func IssueToken(secret []byte, staffID uint, role string, ttl time.Duration, now time.Time) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("jwt secret not configured")
	}
	jti, err := utils.GenerateSecureToken(16)
	if err != nil {
		return "", err
	}
	claims := StaffClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(staffID), 10),
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseToken validates signature and expiry and returns the claims.
func ParseToken(secret []byte, tokenString string) (*StaffClaims, error) {
	claims := &StaffClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}
	return claims, nil
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "bearer ") {
		return strings.TrimSpace(authHeader[7:]), true
	}
	return "", false
}

// RequireStaff rejects requests without a valid staff token and stores the
// staff id in the context for AuditedBy.
func RequireStaff(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			utils.JSONError(c, http.StatusUnauthorized, "error.unauthorized", "missing bearer token")
			c.Abort()
			return
		}
		claims, err := ParseToken(secret, raw)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "error.invalidToken", "invalid or expired token")
			c.Abort()
			return
		}
		id, err := strconv.ParseUint(claims.Subject, 10, 64)
		if err != nil || id == 0 {
			utils.JSONError(c, http.StatusUnauthorized, "error.invalidToken", "invalid token subject")
			c.Abort()
			return
		}
		c.Set(StaffIDKey, uint(id))
		c.Set(StaffRoleKey, claims.Role)
		c.Next()
	}
}

// RequireRole must run after RequireStaff.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(StaffRoleKey) != role {
			utils.JSONError(c, http.StatusForbidden, "error.forbidden", "insufficient role")
			c.Abort()
			return
		}
		c.Next()
	}
}

// StaffID returns the authenticated staff id, if any.
func StaffID(c *gin.Context) *uint {
	v, ok := c.Get(StaffIDKey)
	if !ok {
		return nil
	}
	id, ok := v.(uint)
	if !ok {
		return nil
	}
	return &id
}
