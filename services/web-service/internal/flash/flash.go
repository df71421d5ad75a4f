package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const CookieName = "barber_flash"

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Message is a one-shot toast shown on the next rendered page.
type Message struct {
	Kind Kind   `json:"k"`
	Text string `json:"m"`
}

func Set(w http.ResponseWriter, kind Kind, text string) {
	raw, err := json.Marshal(Message{Kind: kind, Text: text})
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func Success(w http.ResponseWriter, text string) { Set(w, KindSuccess, text) }

func Error(w http.ResponseWriter, text string) { Set(w, KindError, text) }

func Info(w http.ResponseWriter, text string) { Set(w, KindInfo, text) }

// Pop reads the pending message, if any, and expires the cookie.
func Pop(w http.ResponseWriter, r *http.Request) (Message, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return Message{}, false
	}
	http.SetCookie(w, &http.Cookie{Name: CookieName, Path: "/", MaxAge: -1})

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return Message{}, false
	}
	var m Message
	if err := json.Unmarshal(raw, &m); err != nil || m.Text == "" {
		return Message{}, false
	}
	switch m.Kind {
	case KindSuccess, KindError, KindInfo:
	default:
		m.Kind = KindInfo
	}
	return m, true
}
