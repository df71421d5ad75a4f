// Package session keeps the API's bearer token in an encrypted cookie.
// The cookie is sealed with NaCl secretbox under a key derived from
// SESSION_SECRET, so the browser can neither read nor alter it.
package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/barberpro/barberweb/libs/auth"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	CookieName = "barber_session"

	// DefaultTTL applies when the API token carries no exp claim.
	DefaultTTL = 30 * 24 * time.Hour

	nonceSize = 24
)

var (
	ErrNoSession = errors.New("no session")
	ErrInvalid   = errors.New("invalid session cookie")
	ErrExpired   = errors.New("session expired")
)

type Data struct {
	Token   string `json:"t"`
	UserID  string `json:"u"`
	Name    string `json:"n"`
	Expires int64  `json:"e"`
}

func (d Data) ExpiresAt() time.Time { return time.Unix(d.Expires, 0) }

type Manager struct {
	key    [32]byte
	secure bool
	now    func() time.Time
}

func NewManager(secret string, secure bool) (*Manager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("session secret is required")
	}
	return &Manager{
		key:    sha256.Sum256([]byte(secret)),
		secure: secure,
		now:    time.Now,
	}, nil
}

func (m *Manager) Seal(d Data) (string, error) {
	msg, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", err
	}
	box := secretbox.Seal(nonce[:], msg, &nonce, &m.key)
	return base64.RawURLEncoding.EncodeToString(box), nil
}

func (m *Manager) Open(value string) (Data, error) {
	box, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil || len(box) < nonceSize+secretbox.Overhead {
		return Data{}, ErrInvalid
	}
	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])
	msg, ok := secretbox.Open(nil, box[nonceSize:], &nonce, &m.key)
	if !ok {
		return Data{}, ErrInvalid
	}
	var d Data
	if err := json.Unmarshal(msg, &d); err != nil || d.Token == "" {
		return Data{}, ErrInvalid
	}
	if !m.now().Before(d.ExpiresAt()) {
		return Data{}, ErrExpired
	}
	return d, nil
}

// Start signs the user in. The cookie lives as long as the API token.
func (m *Manager) Start(w http.ResponseWriter, token, userID, name string) error {
	exp := auth.TokenExpiry(token, m.now(), DefaultTTL)
	value, err := m.Seal(Data{Token: token, UserID: userID, Name: name, Expires: exp.Unix()})
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) Get(r *http.Request) (Data, error) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return Data{}, ErrNoSession
	}
	return m.Open(c.Value)
}

type ctxKey struct{}

func FromContext(ctx context.Context) (Data, bool) {
	d, ok := ctx.Value(ctxKey{}).(Data)
	return d, ok
}

func NewContext(ctx context.Context, d Data) context.Context {
	return context.WithValue(ctx, ctxKey{}, d)
}

// RequireAuth sends guests to /login and puts the session in the context.
func (m *Manager) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d, err := m.Get(r)
		if err != nil {
			if !errors.Is(err, ErrNoSession) {
				m.Clear(w)
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), d)))
	})
}

// RequireGuest sends signed-in users to the dashboard.
func (m *Manager) RequireGuest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := m.Get(r); err == nil {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
