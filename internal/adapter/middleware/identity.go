package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const identityKey = "identity"

// Identity is the caller as asserted by a verified bearer token.
type Identity struct {
	UserID string
	Role   string
	Name   string
}

// Claims carries the role next to the standard subject claim.
type Claims struct {
	Role string `json:"role"`
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// JWTIdentity verifies HS256 bearer tokens and stores the Identity on the
// context. Paths starting with any of skip pass through untouched.
func JWTIdentity(secret []byte, skip ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			for _, p := range skip {
				if strings.HasPrefix(path, p) {
					return next(c)
				}
			}

			raw := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authorization is required", "code": "UNAUTHORIZED"})
			}
			id, err := ParseToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired token", "code": "UNAUTHORIZED"})
			}
			c.Set(identityKey, id)
			return next(c)
		}
	}
}

func bearerToken(h string) string {
	parts := strings.SplitN(strings.TrimSpace(h), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// ParseToken validates raw against secret and returns the identity it names.
func ParseToken(secret []byte, raw string) (Identity, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Identity{}, err
	}
	if !tok.Valid || claims.Subject == "" || claims.Role == "" {
		return Identity{}, errors.New("token is missing sub or role")
	}
	return Identity{UserID: claims.Subject, Role: claims.Role, Name: claims.Name}, nil
}

// IssueToken signs an HS256 token for id. ttl <= 0 means no expiry.
func IssueToken(secret []byte, id Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: id.Role,
		Name: id.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  id.UserID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// IdentityFrom returns the identity JWTIdentity stored, if any.
func IdentityFrom(c echo.Context) (Identity, bool) {
	id, ok := c.Get(identityKey).(Identity)
	return id, ok
}
