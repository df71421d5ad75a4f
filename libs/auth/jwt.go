package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims are the registered claims the web front reads from the bearer
// token issued by the scheduling API. The signature is the API's concern;
// the front only needs the subject and the expiry.
type Claims struct {
	Sub   string `json:"sub"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Exp   int64  `json:"exp"`
	Iat   int64  `json:"iat"`
}

// ExpiresAt reports the token expiry, if the token carries one.
func (c *Claims) ExpiresAt() (time.Time, bool) {
	if c == nil || c.Exp <= 0 {
		return time.Time{}, false
	}
	return time.Unix(c.Exp, 0), true
}

func (c *Claims) Expired(now time.Time) bool {
	exp, ok := c.ExpiresAt()
	return ok && !now.Before(exp)
}

// ParseJWTNoVerify decodes the payload segment without checking the
// signature or the expiry.
func ParseJWTNoVerify(token string) (*Claims, error) {
	parts := strings.Split(strings.TrimSpace(token), ".")
	if len(parts) != 3 {
		return nil, ErrInvalidToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return nil, ErrInvalidToken
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// TokenExpiry returns the token's exp claim, or now+fallback when the token
// is opaque or carries no expiry.
func TokenExpiry(token string, now time.Time, fallback time.Duration) time.Time {
	claims, err := ParseJWTNoVerify(token)
	if err != nil {
		return now.Add(fallback)
	}
	if exp, ok := claims.ExpiresAt(); ok {
		return exp
	}
	return now.Add(fallback)
}
