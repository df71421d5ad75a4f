package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/barberpro/barberweb/services/web-service/internal/format"
	"github.com/barberpro/barberweb/services/web-service/internal/landing"
	"github.com/barberpro/barberweb/services/web-service/internal/model"
)

// Session is the answer of POST /session.
type Session struct {
	ID    model.ID `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Token string   `json:"token"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	err := c.do(ctx, call{
		op: "login", method: http.MethodPost, path: "/session",
		body: map[string]string{"email": email, "password": password},
	}, &s)
	if err != nil {
		return nil, err
	}
	if s.Token == "" {
		return nil, errors.New("POST /session: empty token")
	}
	return &s, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) error {
	return c.do(ctx, call{
		op: "register", method: http.MethodPost, path: "/users",
		body: map[string]string{"name": name, "email": email, "password": password},
	}, nil)
}

func (c *Client) Me(ctx context.Context) (model.User, error) {
	var u model.User
	err := c.do(ctx, call{op: "me", method: http.MethodGet, path: "/me"}, &u)
	return u, err
}

func (c *Client) UpdateUser(ctx context.Context, name, address string) error {
	return c.do(ctx, call{
		op: "update_user", method: http.MethodPut, path: "/users",
		body: map[string]string{"name": name, "endereco": address},
	}, nil)
}

func (c *Client) ListHaircuts(ctx context.Context, active bool) ([]model.HaircutCatalogItem, error) {
	var items []model.HaircutCatalogItem
	err := c.do(ctx, call{
		op: "list_haircuts", method: http.MethodGet, path: "/haircuts",
		query: url.Values{"status": {strconv.FormatBool(active)}},
	}, &items)
	return items, err
}

// ListPublicHaircuts lists a shop's active haircuts for its public page.
func (c *Client) ListPublicHaircuts(ctx context.Context, userID string) ([]model.HaircutCatalogItem, error) {
	var items []model.HaircutCatalogItem
	err := c.do(ctx, call{
		op: "list_public_haircuts", method: http.MethodGet, path: "/haircuts",
		query: url.Values{"status": {"true"}, "user_id": {userID}},
	}, &items)
	return items, err
}

func (c *Client) CreateHaircut(ctx context.Context, name string, priceCents int64) error {
	return c.do(ctx, call{
		op: "create_haircut", method: http.MethodPost, path: "/haircut",
		body: map[string]any{"name": name, "price": format.Reais(priceCents)},
	}, nil)
}

// HaircutCheck reports whether the user's subscription is active.
func (c *Client) HaircutCheck(ctx context.Context) (bool, error) {
	var body struct {
		Subscriptions *struct {
			Status string `json:"status"`
		} `json:"subscriptions"`
	}
	err := c.do(ctx, call{op: "haircut_check", method: http.MethodGet, path: "/haircut/check"}, &body)
	return err == nil && body.Subscriptions != nil && body.Subscriptions.Status == "active", err
}

// HaircutCount accepts a bare number or {"count": n}.
func (c *Client) HaircutCount(ctx context.Context) (int, error) {
	var raw json.RawMessage
	if err := c.do(ctx, call{op: "haircut_count", method: http.MethodGet, path: "/haircut/count"}, &raw); err != nil {
		return 0, err
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var wrapped struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return 0, fmt.Errorf("GET /haircut/count: unexpected body %s", raw)
	}
	return wrapped.Count, nil
}

func (c *Client) ListSchedule(ctx context.Context) ([]model.NativeBooking, error) {
	var items []model.NativeBooking
	err := c.do(ctx, call{op: "list_schedule", method: http.MethodGet, path: "/schedule"}, &items)
	return items, err
}

func (c *Client) UpdateScheduleStatus(ctx context.Context, id string, status model.Status) error {
	return c.do(ctx, call{
		op: "update_schedule", method: http.MethodPut, path: "/schedule",
		body: map[string]string{"schedule_id": id, "status": string(status)},
	}, nil)
}

func (c *Client) DeleteSchedule(ctx context.Context, id string) error {
	return c.do(ctx, call{
		op: "delete_schedule", method: http.MethodDelete, path: "/schedule/delete",
		body: map[string]string{"id": id},
	}, nil)
}

func (c *Client) ListTelegram(ctx context.Context) ([]model.BotBooking, error) {
	var items []model.BotBooking
	err := c.do(ctx, call{op: "list_telegram", method: http.MethodGet, path: "/telegramlist"}, &items)
	return items, err
}

func (c *Client) UpdateTelegramStatus(ctx context.Context, id string, status model.Status) error {
	return c.do(ctx, call{
		op: "update_telegram", method: http.MethodPut, path: "/telegramlist",
		body: map[string]string{"id": id, "status": string(status)},
	}, nil)
}

// NewSchedule is the body of POST /schedule.
type NewSchedule struct {
	Customer  string `json:"customer"`
	HaircutID string `json:"haircut_id"`
	Phone     string `json:"clientCelular"`
	Email     string `json:"clientEmail"`
	DataHora  string `json:"dataHora"`
}

func (c *Client) CreateSchedule(ctx context.Context, s NewSchedule) error {
	return c.do(ctx, call{op: "create_schedule", method: http.MethodPost, path: "/schedule", body: s}, nil)
}

// AvailableTimes asks for the free slots of a day (YYYY-MM-DD). The API
// answers either a bare array or {"horarios": [...]}.
func (c *Client) AvailableTimes(ctx context.Context, date string) ([]string, error) {
	var raw json.RawMessage
	err := c.do(ctx, call{
		op: "available_times", method: http.MethodPost, path: "/schedule/times",
		body: map[string]string{"data": date},
	}, &raw)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var times []string
	if err := json.Unmarshal(raw, &times); err == nil {
		return times, nil
	}
	var wrapped struct {
		Horarios []string `json:"horarios"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("POST /schedule/times: unexpected body: %w", err)
	}
	return wrapped.Horarios, nil
}

// Checkout is the answer of /subscribe and /create-portal. For the portal
// SessionID already is the URL to open.
type Checkout struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

func (c *Client) Subscribe(ctx context.Context) (Checkout, error) {
	var out Checkout
	err := c.do(ctx, call{op: "subscribe", method: http.MethodPost, path: "/subscribe"}, &out)
	return out, err
}

func (c *Client) CreatePortal(ctx context.Context) (Checkout, error) {
	var out Checkout
	err := c.do(ctx, call{op: "create_portal", method: http.MethodPost, path: "/create-portal"}, &out)
	return out, err
}

// PublicBooking is a booking request sent from a shop's public page.
type PublicBooking struct {
	UserID      string
	HaircutID   string
	Name        string
	Email       string
	Phone       string
	ScheduledAt time.Time
}

func (b PublicBooking) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		UserID      string `json:"userId"`
		HaircutID   string `json:"haircutId"`
		Name        string `json:"name"`
		Email       string `json:"email,omitempty"`
		Phone       string `json:"celular"`
		ScheduledAt string `json:"scheduledAt"`
	}{
		UserID:      b.UserID,
		HaircutID:   b.HaircutID,
		Name:        b.Name,
		Email:       b.Email,
		Phone:       b.Phone,
		ScheduledAt: ISOString(b.ScheduledAt),
	})
}

// SimulateBooking posts an unauthenticated booking request. The idempotency
// key lets the API drop a resubmitted form.
func (c *Client) SimulateBooking(ctx context.Context, b PublicBooking, idempotencyKey string) error {
	h := http.Header{}
	if idempotencyKey != "" {
		h.Set("Idempotency-Key", idempotencyKey)
	}
	return c.do(WithToken(ctx, ""), call{
		op: "simulate_booking", method: http.MethodPost, path: "/simular-agendamento",
		body: b, headers: h,
	}, nil)
}

// ISOString renders t the way the API stores timestamps: UTC, milliseconds.
func ISOString(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

func (c *Client) ListClients(ctx context.Context) ([]model.ClientRecord, error) {
	var items []model.ClientRecord
	err := c.do(ctx, call{op: "list_clients", method: http.MethodGet, path: "/clientes"}, &items)
	return items, err
}

func (c *Client) CreateClient(ctx context.Context, cl model.ClientRecord) error {
	cl.ID = ""
	return c.do(ctx, call{op: "create_client", method: http.MethodPost, path: "/clientes", body: clientBody(cl)}, nil)
}

func (c *Client) UpdateClient(ctx context.Context, cl model.ClientRecord) error {
	if cl.ID == "" {
		return errors.New("update client: missing id")
	}
	return c.do(ctx, call{
		op: "update_client", method: http.MethodPut, path: "/clientes/" + url.PathEscape(cl.ID),
		body: clientBody(cl),
	}, nil)
}

func clientBody(cl model.ClientRecord) map[string]string {
	return map[string]string{
		"name":     cl.Name,
		"celular":  cl.Phone,
		"email":    cl.Email,
		"endereco": cl.Address,
	}
}

// GetLandingConfig loads a shop's public page settings. It needs no token,
// so the public booking page can call it. A signed-in owner who never saved
// a config gets the defaults; without a token a 404 is returned as is, since
// the shop has no public page.
func (c *Client) GetLandingConfig(ctx context.Context, userID string) (landing.Config, error) {
	var cfg landing.Config
	q := url.Values{}
	if userID != "" {
		q.Set("user_id", userID)
	}
	err := c.do(ctx, call{op: "get_landing_config", method: http.MethodGet, path: "/landing-page-config", query: q}, &cfg)
	if IsStatus(err, http.StatusNotFound) && TokenFromContext(ctx) != "" {
		return landing.DefaultConfig(), nil
	}
	if err != nil {
		return landing.Config{}, err
	}
	return cfg.WithDefaults(), nil
}

func (c *Client) SaveLandingConfig(ctx context.Context, cfg landing.Config) error {
	return c.do(ctx, call{op: "save_landing_config", method: http.MethodPost, path: "/landing-page-config", body: cfg}, nil)
}
