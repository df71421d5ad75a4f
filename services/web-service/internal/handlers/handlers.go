// Package handlers holds the page handlers. Each one is a thin shell:
// read the form or query, call the backend API through the typed client,
// normalize what comes back and render a template.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/barberpro/barberweb/libs/httpx"
	"github.com/barberpro/barberweb/services/web-service/internal/apiclient"
	"github.com/barberpro/barberweb/services/web-service/internal/flash"
	"github.com/barberpro/barberweb/services/web-service/internal/landing"
	"github.com/barberpro/barberweb/services/web-service/internal/model"
	"github.com/barberpro/barberweb/services/web-service/internal/schedule"
	"github.com/barberpro/barberweb/services/web-service/internal/session"
	"github.com/barberpro/barberweb/services/web-service/internal/views"
)

// API is the part of the backend client the pages use.
type API interface {
	Login(ctx context.Context, email, password string) (*apiclient.Session, error)
	Register(ctx context.Context, name, email, password string) error
	Me(ctx context.Context) (model.User, error)
	UpdateUser(ctx context.Context, name, address string) error

	ListHaircuts(ctx context.Context, active bool) ([]model.HaircutCatalogItem, error)
	ListPublicHaircuts(ctx context.Context, userID string) ([]model.HaircutCatalogItem, error)
	CreateHaircut(ctx context.Context, name string, priceCents int64) error
	HaircutCheck(ctx context.Context) (bool, error)
	HaircutCount(ctx context.Context) (int, error)

	ListSchedule(ctx context.Context) ([]model.NativeBooking, error)
	UpdateScheduleStatus(ctx context.Context, id string, status model.Status) error
	DeleteSchedule(ctx context.Context, id string) error
	ListTelegram(ctx context.Context) ([]model.BotBooking, error)
	UpdateTelegramStatus(ctx context.Context, id string, status model.Status) error
	CreateSchedule(ctx context.Context, s apiclient.NewSchedule) error
	AvailableTimes(ctx context.Context, date string) ([]string, error)

	Subscribe(ctx context.Context) (apiclient.Checkout, error)
	CreatePortal(ctx context.Context) (apiclient.Checkout, error)
	SimulateBooking(ctx context.Context, b apiclient.PublicBooking, idempotencyKey string) error

	ListClients(ctx context.Context) ([]model.ClientRecord, error)
	CreateClient(ctx context.Context, c model.ClientRecord) error
	UpdateClient(ctx context.Context, c model.ClientRecord) error

	GetLandingConfig(ctx context.Context, userID string) (landing.Config, error)
	SaveLandingConfig(ctx context.Context, cfg landing.Config) error
}

type Config struct {
	// Location is the display time zone for dates typed into forms and
	// dates rendered from the API.
	Location             *time.Location
	TelegramBotURL       string
	StripePublishableKey string
	// BookingLimit guards the public booking POST. Nil disables it.
	BookingLimit httpx.Middleware
	Now          func() time.Time
}

type Handler struct {
	api      API
	views    *views.Renderer
	sessions *session.Manager
	logger   *slog.Logger

	loc          *time.Location
	telegramBot  string
	stripeKey    string
	bookingLimit httpx.Middleware
	now          func() time.Time
}

func New(api API, v *views.Renderer, sessions *session.Manager, logger *slog.Logger, cfg Config) *Handler {
	h := &Handler{
		api:          api,
		views:        v,
		sessions:     sessions,
		logger:       logger,
		loc:          cfg.Location,
		telegramBot:  cfg.TelegramBotURL,
		stripeKey:    cfg.StripePublishableKey,
		bookingLimit: cfg.BookingLimit,
		now:          cfg.Now,
	}
	if h.loc == nil {
		h.loc = time.UTC
	}
	if h.now == nil {
		h.now = time.Now
	}
	return h
}

func (h *Handler) Register(mux *http.ServeMux) {
	guest := func(f http.HandlerFunc) http.Handler { return h.sessions.RequireGuest(f) }
	authed := func(f http.HandlerFunc) http.Handler { return h.sessions.RequireAuth(f) }

	mux.HandleFunc("GET /{$}", h.Home)
	mux.Handle("GET /static/", views.Static())

	mux.Handle("GET /login", guest(h.LoginPage))
	mux.Handle("POST /login", guest(h.Login))
	mux.Handle("GET /register", guest(h.SignUpPage))
	mux.Handle("POST /register", guest(h.SignUp))
	mux.HandleFunc("POST /logout", h.Logout)

	mux.Handle("GET /dashboard", authed(h.Dashboard))
	mux.Handle("POST /dashboard/{id}/finish", authed(h.FinishAppointment))
	mux.Handle("POST /dashboard/{id}/cancel", authed(h.CancelAppointment))
	mux.Handle("POST /dashboard/{id}/delete", authed(h.DeleteAppointment))

	mux.Handle("GET /new", authed(h.NewAppointmentPage))
	mux.Handle("POST /new", authed(h.CreateAppointment))

	mux.Handle("GET /haircuts", authed(h.Haircuts))
	mux.Handle("GET /haircuts/new", authed(h.NewHaircutPage))
	mux.Handle("POST /haircuts/new", authed(h.CreateHaircut))

	mux.Handle("GET /clients", authed(h.Clients))
	mux.Handle("POST /clients", authed(h.CreateClient))
	mux.Handle("POST /clients/{id}", authed(h.UpdateClient))

	mux.Handle("GET /reports", authed(h.Reports))
	mux.Handle("GET /reports/export.xlsx", authed(h.ExportReport))

	mux.Handle("GET /plans", authed(h.Plans))
	mux.Handle("POST /plans/subscribe", authed(h.Subscribe))
	mux.Handle("POST /plans/portal", authed(h.Portal))

	mux.Handle("GET /profile", authed(h.Profile))
	mux.Handle("POST /profile", authed(h.UpdateProfile))

	mux.Handle("GET /landing/edit", authed(h.LandingEditor))
	mux.Handle("POST /landing/edit", authed(h.SaveLanding))
	mux.Handle("POST /landing/edit/reset", authed(h.ResetLanding))

	mux.HandleFunc("GET /agendar/{userID}", h.BookingPage)
	mux.Handle("POST /agendar/{userID}", httpx.Chain(http.HandlerFunc(h.SubmitBooking), h.bookingLimit))

	mux.HandleFunc("POST /api/format/phone", h.FormatPhone)
	mux.HandleFunc("POST /api/format/price", h.FormatPrice)
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "home", views.Page{Title: "Início"})
}

// render fills the per-request parts of the page (signed-in user, pending
// toast) and executes the template.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, p views.Page) {
	if sess, ok := session.FromContext(r.Context()); ok {
		p.UserName = sess.Name
	}
	if p.Flash == nil {
		if m, ok := flash.Pop(w, r); ok {
			p.Flash = &m
		}
	}
	p.TelegramBotURL = h.telegramBot
	h.views.Render(w, status, name, p)
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.render(w, r, status, "error", views.Page{Title: "Erro", Data: errorData{Status: status, Message: msg}})
}

type errorData struct {
	Status  int
	Message string
}

func errorFlash(text string) *flash.Message {
	return &flash.Message{Kind: flash.KindError, Text: text}
}

// apiCtx attaches the signed-in user's backend token.
func apiCtx(r *http.Request) context.Context {
	sess, _ := session.FromContext(r.Context())
	return apiclient.WithToken(r.Context(), sess.Token)
}

func currentSession(r *http.Request) session.Data {
	sess, _ := session.FromContext(r.Context())
	return sess
}

// expired reports whether the API rejected the session token. The user is
// signed out and sent to the login page.
func (h *Handler) expired(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, apiclient.ErrUnauthorized) {
		return false
	}
	h.sessions.Clear(w)
	flash.Error(w, "Sua sessão expirou. Faça login novamente.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
	return true
}

func (h *Handler) warn(r *http.Request, op string, err error) {
	h.logger.Warn("backend call failed",
		"op", op,
		"request_id", httpx.RequestIDFromContext(r.Context()),
		"err", err,
	)
}

// userMessage prefers the API's own message for client errors.
func userMessage(err error, fallback string) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

type field struct {
	key   string
	label string
}

// missingFields collects every empty required field into one message, or
// returns "" when the form is complete.
func missingFields(form url.Values, fields ...field) string {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(form.Get(f.key)) == "" {
			missing = append(missing, f.label)
		}
	}
	if len(missing) == 0 {
		return ""
	}
	return "Preencha os campos obrigatórios: " + strings.Join(missing, ", ") + "."
}

func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.PostFormValue(key))
}

// localTime combines a YYYY-MM-DD date and an HH:MM[:SS] time in loc.
func localTime(date, clock string, loc *time.Location) (time.Time, bool) {
	clock = schedule.FormatTimeOnly(strings.TrimSpace(clock))
	t, err := time.ParseInLocation("2006-01-02 15:04", strings.TrimSpace(date)+" "+clock, loc)
	return t, err == nil
}
