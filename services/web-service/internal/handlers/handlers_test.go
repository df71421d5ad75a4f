package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/barberpro/barberweb/services/web-service/internal/apiclient"
	"github.com/barberpro/barberweb/services/web-service/internal/model"
	"github.com/barberpro/barberweb/services/web-service/internal/report"
	"github.com/barberpro/barberweb/services/web-service/internal/session"
	"github.com/barberpro/barberweb/services/web-service/internal/views"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var brt = time.FixedZone("BRT", -3*60*60)

type harness struct {
	api      *fakeAPI
	sessions *session.Manager
	mux      *http.ServeMux
}

func newHarness(t *testing.T, api *fakeAPI) *harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	v, err := views.New(logger)
	require.NoError(t, err)
	sessions, err := session.NewManager("test-secret", false)
	require.NoError(t, err)

	h := New(api, v, sessions, logger, Config{
		Location: brt,
		Now:      func() time.Time { return time.Date(2025, 9, 24, 15, 0, 0, 0, brt) },
	})
	mux := http.NewServeMux()
	h.Register(mux)
	return &harness{api: api, sessions: sessions, mux: mux}
}

func (hs *harness) do(t *testing.T, method, target string, form url.Values, signedIn bool) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if signedIn {
		value, err := hs.sessions.Seal(session.Data{
			Token:   "tok",
			UserID:  "42",
			Name:    "Navalha",
			Expires: time.Now().Add(time.Hour).Unix(),
		})
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: value})
	}
	rec := httptest.NewRecorder()
	hs.mux.ServeHTTP(rec, req)
	return rec
}

func agendaFixture() *fakeAPI {
	return &fakeAPI{
		native: []model.NativeBooking{
			{ID: "1", Customer: "Ana", DataHora: "2025-09-24T14:30:00-03:00", Status: "active",
				Haircut: &model.HaircutRef{ID: "3", Name: "Degradê", Price: 4050}},
			{ID: "2", Customer: "Bruno", DataHora: "2025-09-23T09:00:00-03:00", Status: "completed"},
		},
		bot: []model.BotBooking{
			{ID: "9", ScheduledAt: "2025-09-24T10:00:00.000Z", Status: "accepted"},
			{ID: "10", CustomerName: "Carla", ScheduledAt: "2025-09-25T10:00:00.000Z", Status: "pending"},
		},
	}
}

func TestDashboardMergesSources(t *testing.T) {
	hs := newHarness(t, agendaFixture())
	rec := hs.do(t, http.MethodGet, "/dashboard", nil, true)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Ana")
	assert.Contains(t, body, "Cliente Telegram")
	assert.NotContains(t, body, "Bruno")
	assert.NotContains(t, body, "Carla")
	assert.Contains(t, body, "Pendentes: 1")
	assert.Contains(t, body, "R$ 40,50")
	assert.Contains(t, body, "24/09/2025 14:30")
	assert.Contains(t, body, "24/09/2025 07:00")
	assert.Less(t, strings.Index(body, "07:00"), strings.Index(body, "14:30"), "agenda is ordered by time")
}

func TestDashboardFilters(t *testing.T) {
	hs := newHarness(t, agendaFixture())

	rec := hs.do(t, http.MethodGet, "/dashboard?source=app", nil, true)
	assert.Contains(t, rec.Body.String(), "Ana")
	assert.NotContains(t, rec.Body.String(), "Cliente Telegram")

	rec = hs.do(t, http.MethodGet, "/dashboard?removed=app-1", nil, true)
	assert.NotContains(t, rec.Body.String(), "Degradê")
}

func TestDashboardRequiresSession(t *testing.T) {
	hs := newHarness(t, agendaFixture())
	rec := hs.do(t, http.MethodGet, "/dashboard", nil, false)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestDashboardFetchFailure(t *testing.T) {
	api := agendaFixture()
	api.botErr = errors.New("connection refused")
	hs := newHarness(t, api)

	rec := hs.do(t, http.MethodGet, "/dashboard", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Erro ao carregar a agenda.")
	assert.Contains(t, rec.Body.String(), "Nenhum agendamento encontrado.")
}

func TestExpiredTokenSignsOut(t *testing.T) {
	api := agendaFixture()
	api.nativeErr = &apiclient.APIError{Method: http.MethodGet, Path: "/schedule", StatusCode: http.StatusUnauthorized}
	hs := newHarness(t, api)

	rec := hs.do(t, http.MethodGet, "/dashboard", nil, true)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "session cookie is cleared")
}

func TestStatusChangeRoutesBySource(t *testing.T) {
	hs := newHarness(t, agendaFixture())

	rec := hs.do(t, http.MethodPost, "/dashboard/app-1/finish", url.Values{}, true)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard?removed=app-1", rec.Header().Get("Location"))

	hs.do(t, http.MethodPost, "/dashboard/telegram-9/cancel", url.Values{}, true)
	hs.do(t, http.MethodPost, "/dashboard/app-2/delete", url.Values{}, true)

	assert.Equal(t, []statusChange{{"1", model.StatusCompleted}}, hs.api.scheduleStatus)
	assert.Equal(t, []statusChange{{"9", model.StatusInactive}}, hs.api.telegramStatus)
	assert.Equal(t, []string{"2"}, hs.api.deleted)

	rec = hs.do(t, http.MethodPost, "/dashboard/bogus/finish", url.Values{}, true)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	assert.Len(t, hs.api.scheduleStatus, 1)
}

func TestStatusChangeKeepsFilters(t *testing.T) {
	hs := newHarness(t, agendaFixture())

	page := hs.do(t, http.MethodGet, "/dashboard?q=ana&source=app&sort=name", nil, true)
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), `<input type="hidden" name="q" value="ana">`)

	filters := url.Values{"q": {"ana"}, "source": {"app"}, "sort": {"name"}}
	rec := hs.do(t, http.MethodPost, "/dashboard/app-1/finish", filters, true)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard?q=ana&removed=app-1&sort=name&source=app", rec.Header().Get("Location"))

	rec = hs.do(t, http.MethodPost, "/dashboard/bogus/cancel", filters, true)
	assert.Equal(t, "/dashboard?q=ana&sort=name&source=app", rec.Header().Get("Location"))
}

func bookingValues(overrides map[string]string) url.Values {
	form := url.Values{
		"key":        {"key-1"},
		"name":       {"João"},
		"phone":      {"11987654321"},
		"date":       {"2025-09-24"},
		"time":       {"14:30"},
		"haircut_id": {"3"},
	}
	for k, v := range overrides {
		if v == "" {
			form.Del(k)
			continue
		}
		form.Set(k, v)
	}
	return form
}

func TestPublicBookingPostsOnce(t *testing.T) {
	hs := newHarness(t, &fakeAPI{})
	rec := hs.do(t, http.MethodPost, "/agendar/42", bookingValues(nil), false)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/agendar/42?ok=1", rec.Header().Get("Location"))
	require.Len(t, hs.api.bookings, 1)

	got := hs.api.bookings[0]
	assert.Equal(t, "key-1", got.Key)
	assert.Equal(t, "42", got.Booking.UserID)
	assert.Equal(t, "(11) 98765-4321", got.Booking.Phone)
	assert.Equal(t, "2025-09-24T17:30:00.000Z", apiclient.ISOString(got.Booking.ScheduledAt))
}

func TestPublicBookingRejectsIncompleteForm(t *testing.T) {
	hs := newHarness(t, &fakeAPI{})
	rec := hs.do(t, http.MethodPost, "/agendar/42", bookingValues(map[string]string{"phone": "", "time": ""}), false)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, hs.api.bookings)
	assert.Contains(t, rec.Body.String(), "Celular, Horário.")

	rec = hs.do(t, http.MethodPost, "/agendar/42", bookingValues(map[string]string{"phone": "1234"}), false)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, hs.api.bookings)
}

func TestBookingPage(t *testing.T) {
	api := &fakeAPI{haircuts: []model.HaircutCatalogItem{{ID: "3", Name: "Degradê", PriceCents: 4050, Active: true}}}
	hs := newHarness(t, api)

	rec := hs.do(t, http.MethodGet, "/agendar/42", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Aberto agora")
	assert.Contains(t, body, "Degradê - R$ 40,50")
	assert.Contains(t, body, `action="/agendar/42"`)
}

func TestBookingPageUnknownShop(t *testing.T) {
	hs := newHarness(t, &fakeAPI{landErr: &apiclient.APIError{
		Method: http.MethodGet, Path: "/landing-page-config", StatusCode: http.StatusNotFound,
	}})

	rec := hs.do(t, http.MethodGet, "/agendar/999", nil, false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Barbearia não encontrada.")
}

func TestCreateAppointment(t *testing.T) {
	hs := newHarness(t, &fakeAPI{})
	form := url.Values{
		"customer":   {"Ana"},
		"phone":      {"1132654321"},
		"date":       {"2025-09-24"},
		"time":       {"14:30:00"},
		"haircut_id": {"3"},
	}
	rec := hs.do(t, http.MethodPost, "/new", form, true)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	want := []apiclient.NewSchedule{{
		Customer:  "Ana",
		HaircutID: "3",
		Phone:     "(11) 3265-4321",
		DataHora:  "2025-09-24T17:30:00.000Z",
	}}
	if diff := cmp.Diff(want, hs.api.created); diff != "" {
		t.Fatalf("created schedules mismatch (-want +got):\n%s", diff)
	}

	form.Del("customer")
	rec = hs.do(t, http.MethodPost, "/new", form, true)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Len(t, hs.api.created, 1)
}

func TestNewAppointmentLoadsTimes(t *testing.T) {
	hs := newHarness(t, &fakeAPI{times: []string{"09:00", "09:30"}})
	rec := hs.do(t, http.MethodGet, "/new?date=2025-09-24", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<option value="09:30"`)
}

func TestNewHaircutLimit(t *testing.T) {
	hs := newHarness(t, &fakeAPI{count: 3})
	rec := hs.do(t, http.MethodGet, "/haircuts/new", nil, true)
	assert.Contains(t, rec.Body.String(), "Você atingiu seu limite de 3 cortes")

	hs = newHarness(t, &fakeAPI{count: 3, premium: true})
	rec = hs.do(t, http.MethodGet, "/haircuts/new", nil, true)
	assert.NotContains(t, rec.Body.String(), "atingiu seu limite")
}

func TestCreateHaircutParsesCents(t *testing.T) {
	hs := newHarness(t, &fakeAPI{})
	rec := hs.do(t, http.MethodPost, "/haircuts/new", url.Values{"name": {"Barba"}, "price": {"R$ 35,00"}}, true)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, []int64{3500}, hs.api.haircutsMade)

	rec = hs.do(t, http.MethodPost, "/haircuts/new", url.Values{"name": {"Barba"}}, true)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Len(t, hs.api.haircutsMade, 1)
}

func TestLoginStartsSession(t *testing.T) {
	hs := newHarness(t, &fakeAPI{session: &apiclient.Session{ID: "42", Name: "Navalha", Token: "tok"}})
	rec := hs.do(t, http.MethodPost, "/login", url.Values{"email": {"a@b.com"}, "password": {"secret1"}}, false)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	var sealed string
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			sealed = c.Value
		}
	}
	d, err := hs.sessions.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "42", d.UserID)
	assert.Equal(t, "tok", d.Token)
}

func TestLoginFailureKeepsEmail(t *testing.T) {
	hs := newHarness(t, &fakeAPI{loginErr: &apiclient.APIError{StatusCode: http.StatusUnauthorized}})
	rec := hs.do(t, http.MethodPost, "/login", url.Values{"email": {"a@b.com"}, "password": {"nope"}}, false)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "E-mail ou senha incorretos.")
	assert.Contains(t, rec.Body.String(), `value="a@b.com"`)
}

func TestSignUpValidation(t *testing.T) {
	hs := newHarness(t, &fakeAPI{})
	rec := hs.do(t, http.MethodPost, "/register", url.Values{"name": {"Navalha"}, "email": {"a@b.com"}, "password": {"123"}}, false)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, hs.api.registered)

	rec = hs.do(t, http.MethodPost, "/register", url.Values{"name": {"Navalha"}, "email": {"a@b.com"}, "password": {"123456"}}, false)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, []string{"Navalha"}, hs.api.registered)
}

func TestGuestPagesRedirectSignedInUsers(t *testing.T) {
	hs := newHarness(t, &fakeAPI{})
	rec := hs.do(t, http.MethodGet, "/login", nil, true)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestSubscribeFollowsCheckoutURL(t *testing.T) {
	hs := newHarness(t, &fakeAPI{checkout: apiclient.Checkout{URL: "https://checkout.example/s/1"}})
	rec := hs.do(t, http.MethodPost, "/plans/subscribe", url.Values{}, true)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "https://checkout.example/s/1", rec.Header().Get("Location"))

	hs = newHarness(t, &fakeAPI{})
	rec = hs.do(t, http.MethodPost, "/plans/subscribe", url.Values{}, true)
	assert.Equal(t, "/plans", rec.Header().Get("Location"))
}

func TestReportsAndExport(t *testing.T) {
	api := agendaFixture()
	api.native[1].Haircut = &model.HaircutRef{Name: "Barba", Price: 3000}
	api.clients = []model.ClientRecord{{ID: "1", Name: "Ana"}}
	hs := newHarness(t, api)

	rec := hs.do(t, http.MethodGet, "/reports?month=2025-09", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "setembro de 2025")
	assert.Contains(t, rec.Body.String(), "R$ 30,00")

	rec = hs.do(t, http.MethodGet, "/reports/export.xlsx?month=2025-09", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, report.ContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "relatorio-2025-09.xlsx")
	assert.NotZero(t, rec.Body.Len())
}

func TestLandingEditor(t *testing.T) {
	hs := newHarness(t, &fakeAPI{})

	bad := url.Values{
		"title": {"Navalha"}, "days": {"1"},
		"day_0": {"Segunda-feira"}, "start_0": {"18:00"}, "end_0": {"09:00"}, "active_0": {"on"},
	}
	rec := hs.do(t, http.MethodPost, "/landing/edit", bad, true)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, hs.api.savedLanding)

	good := url.Values{
		"title": {"Navalha"}, "days": {"1"}, "field_email": {"on"},
		"day_0": {"Segunda-feira"}, "start_0": {"09:00"}, "end_0": {"18:00"}, "active_0": {"on"},
	}
	rec = hs.do(t, http.MethodPost, "/landing/edit", good, true)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	require.Len(t, hs.api.savedLanding, 1)
	saved := hs.api.savedLanding[0]
	assert.Equal(t, "Navalha", saved.Title)
	assert.True(t, saved.Fields.Email)
	require.Len(t, saved.Hours, 1)
	assert.Equal(t, "09:00", saved.Hours[0].Start)
}

func TestProfileUpdateRefreshesSessionName(t *testing.T) {
	hs := newHarness(t, &fakeAPI{})
	rec := hs.do(t, http.MethodPost, "/profile", url.Values{"name": {"Navalha Nova"}}, true)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, []string{"Navalha Nova"}, hs.api.updatedUsers)

	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			d, err := hs.sessions.Open(c.Value)
			require.NoError(t, err)
			assert.Equal(t, "Navalha Nova", d.Name)
			return
		}
	}
	t.Fatal("session cookie not refreshed")
}

func TestFormatEndpoints(t *testing.T) {
	hs := newHarness(t, &fakeAPI{})

	req := httptest.NewRequest(http.MethodPost, "/api/format/phone", strings.NewReader(`{"value":"11987654321"}`))
	rec := httptest.NewRecorder()
	hs.mux.ServeHTTP(rec, req)
	assert.JSONEq(t, `{"formatted":"(11) 98765-4321","digits":"11987654321","valid":true}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/api/format/price", strings.NewReader(`{"value":"4050"}`))
	rec = httptest.NewRecorder()
	hs.mux.ServeHTTP(rec, req)
	assert.JSONEq(t, `{"formatted":"R$ 40,50","cents":4050}`, rec.Body.String())
}

func TestFilterClients(t *testing.T) {
	items := []model.ClientRecord{
		{ID: "10", Name: "Érica", Phone: "(11) 98765-4321"},
		{ID: "2", Name: "bruno", Email: "bruno@example.com"},
		{ID: "3", Name: "Ana"},
	}

	got := filterClients(items, "", "name")
	assert.Equal(t, []string{"Ana", "bruno", "Érica"}, names(got))

	got = filterClients(items, "", "id")
	assert.Equal(t, []string{"bruno", "Ana", "Érica"}, names(got))

	got = filterClients(items, "98765", "name")
	assert.Equal(t, []string{"Érica"}, names(got))

	got = filterClients(items, "EXAMPLE", "name")
	assert.Equal(t, []string{"bruno"}, names(got))
}

func names(items []model.ClientRecord) []string {
	out := make([]string, len(items))
	for i, c := range items {
		out[i] = c.Name
	}
	return out
}

func TestMissingFields(t *testing.T) {
	form := url.Values{"name": {"  "}, "email": {"a@b.com"}}
	assert.Equal(t, "Preencha os campos obrigatórios: Nome, Senha.",
		missingFields(form, field{"name", "Nome"}, field{"email", "E-mail"}, field{"password", "Senha"}))
	assert.Empty(t, missingFields(form, field{"email", "E-mail"}))
}
