package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/barberpro/barberweb/libs/httpx"
	"github.com/barberpro/barberweb/services/web-service/internal/landing"
	"github.com/barberpro/barberweb/services/web-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	path   string
	query  string
	auth   string
	header http.Header
	body   map[string]any
}

// fakeAPI answers every request with the given status and body and records
// what it received.
func fakeAPI(t *testing.T, status int, body string) (*Client, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			auth:   r.Header.Get("Authorization"),
			header: r.Header.Clone(),
		}
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &rec.body)
		}
		calls = append(calls, rec)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", WithTimeout(2*time.Second)), &calls
}

func TestTokenAndRequestIDAreForwarded(t *testing.T) {
	c, calls := fakeAPI(t, http.StatusOK, `[]`)
	ctx := httpx.ContextWithRequestID(WithToken(context.Background(), "tok-1"), "req-9")

	_, err := c.ListSchedule(ctx)
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	got := (*calls)[0]
	assert.Equal(t, "GET", got.method)
	assert.Equal(t, "/schedule", got.path)
	assert.Equal(t, "Bearer tok-1", got.auth)
	assert.Equal(t, "req-9", got.header.Get(httpx.RequestIDHeader))
}

func TestNon2xxBecomesAPIError(t *testing.T) {
	c, _ := fakeAPI(t, http.StatusBadRequest, `{"error":"Horário indisponível"}`)

	err := c.CreateSchedule(context.Background(), NewSchedule{Customer: "Ana"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Horário indisponível", apiErr.Message)
	assert.Equal(t, "/schedule", apiErr.Path)
	assert.True(t, IsStatus(err, http.StatusBadRequest))
	assert.False(t, errors.Is(err, ErrUnauthorized))
}

func TestUnauthorizedWrapsSentinel(t *testing.T) {
	c, _ := fakeAPI(t, http.StatusUnauthorized, `{"message":"token expirado"}`)

	_, err := c.Me(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "token expirado")
}

func TestTransportErrorIsWrapped(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := New(srv.URL).ListTelegram(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GET /telegramlist")
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestStatusUpdatesTargetTheirEndpoint(t *testing.T) {
	c, calls := fakeAPI(t, http.StatusOK, `{}`)
	ctx := context.Background()

	require.NoError(t, c.UpdateScheduleStatus(ctx, "12", model.StatusCompleted))
	require.NoError(t, c.UpdateTelegramStatus(ctx, "7", model.StatusInactive))
	require.NoError(t, c.DeleteSchedule(ctx, "12"))

	require.Len(t, *calls, 3)
	assert.Equal(t, "PUT", (*calls)[0].method)
	assert.Equal(t, "/schedule", (*calls)[0].path)
	assert.Equal(t, map[string]any{"schedule_id": "12", "status": "completed"}, (*calls)[0].body)
	assert.Equal(t, "/telegramlist", (*calls)[1].path)
	assert.Equal(t, map[string]any{"id": "7", "status": "inactive"}, (*calls)[1].body)
	assert.Equal(t, "DELETE", (*calls)[2].method)
	assert.Equal(t, "/schedule/delete", (*calls)[2].path)
	assert.Equal(t, map[string]any{"id": "12"}, (*calls)[2].body)
}

func TestAvailableTimesShapes(t *testing.T) {
	for _, body := range []string{`["09:00","09:30"]`, `{"horarios":["09:00","09:30"]}`} {
		c, calls := fakeAPI(t, http.StatusOK, body)
		times, err := c.AvailableTimes(context.Background(), "2025-09-24")
		require.NoError(t, err)
		assert.Equal(t, []string{"09:00", "09:30"}, times, body)
		assert.Equal(t, map[string]any{"data": "2025-09-24"}, (*calls)[0].body)
	}

	c, _ := fakeAPI(t, http.StatusOK, `{"unexpected":true}`)
	times, err := c.AvailableTimes(context.Background(), "2025-09-24")
	require.NoError(t, err)
	assert.Empty(t, times)

	c, _ = fakeAPI(t, http.StatusOK, `{"horarios":"indisponivel"}`)
	times, err = c.AvailableTimes(context.Background(), "2025-09-24")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/schedule/times")
	assert.Empty(t, times)
}

func TestListScheduleKeepsRowsWithBadPrice(t *testing.T) {
	c, _ := fakeAPI(t, http.StatusOK, `[
		{"id":1,"customer":"Ana","status":"active","haircut":{"id":"h1","name":"Corte","price":"a combinar"}},
		{"id":2,"customer":"Bia","status":"active","haircut":{"id":"h2","name":"Barba","price":"40.50"}}
	]`)
	rows, err := c.ListSchedule(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(0), rows[0].Haircut.Price.Cents())
	assert.Equal(t, int64(4050), rows[1].Haircut.Price.Cents())
}

func TestHaircuts(t *testing.T) {
	c, calls := fakeAPI(t, http.StatusOK, `[{"id":"h1","name":"Corte","price":"35.00","status":true}]`)
	items, err := c.ListHaircuts(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(3500), items[0].PriceCents)
	assert.Equal(t, "status=false", (*calls)[0].query)

	_, err = c.ListPublicHaircuts(context.Background(), "u 1")
	require.NoError(t, err)
	assert.Equal(t, "status=true&user_id=u+1", (*calls)[1].query)

	require.NoError(t, c.CreateHaircut(context.Background(), "Barba", 2550))
	assert.Equal(t, map[string]any{"name": "Barba", "price": 25.5}, (*calls)[2].body)
}

func TestHaircutCount(t *testing.T) {
	for _, body := range []string{`2`, `{"count":2}`} {
		c, _ := fakeAPI(t, http.StatusOK, body)
		n, err := c.HaircutCount(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	}
}

func TestHaircutCheck(t *testing.T) {
	c, _ := fakeAPI(t, http.StatusOK, `{"id":"u1","subscriptions":{"status":"active"}}`)
	premium, err := c.HaircutCheck(context.Background())
	require.NoError(t, err)
	assert.True(t, premium)
}

func TestLogin(t *testing.T) {
	c, calls := fakeAPI(t, http.StatusOK, `{"id":3,"name":"Rafa","email":"r@x.com","token":"jwt"}`)
	s, err := c.Login(context.Background(), "r@x.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jwt", s.Token)
	assert.Equal(t, model.ID("3"), s.ID)
	assert.Equal(t, "/session", (*calls)[0].path)

	c, _ = fakeAPI(t, http.StatusOK, `{}`)
	_, err = c.Login(context.Background(), "r@x.com", "secret")
	assert.Error(t, err)
}

func TestSimulateBooking(t *testing.T) {
	c, calls := fakeAPI(t, http.StatusCreated, ``)
	ctx := WithToken(context.Background(), "must-not-leak")
	at := time.Date(2025, 9, 24, 14, 30, 0, 0, time.FixedZone("BRT", -3*3600))

	err := c.SimulateBooking(ctx, PublicBooking{
		UserID: "u1", HaircutID: "h1", Name: "Ana", Phone: "(27) 98123-5799", ScheduledAt: at,
	}, "key-1")
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	got := (*calls)[0]
	assert.Equal(t, "/simular-agendamento", got.path)
	assert.Empty(t, got.auth)
	assert.Equal(t, "key-1", got.header.Get("Idempotency-Key"))
	assert.Equal(t, "2025-09-24T17:30:00.000Z", got.body["scheduledAt"])
	assert.Equal(t, "(27) 98123-5799", got.body["celular"])
	assert.NotContains(t, got.body, "email")
}

func TestLandingConfig(t *testing.T) {
	c, calls := fakeAPI(t, http.StatusOK, `{"titulo":"Zé Barber"}`)
	cfg, err := c.GetLandingConfig(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Zé Barber", cfg.Title)
	assert.Len(t, cfg.Hours, 7, "defaults fill missing hours")
	assert.Equal(t, "user_id=u1", (*calls)[0].query)

	c, _ = fakeAPI(t, http.StatusNotFound, `{"error":"not found"}`)
	cfg, err = c.GetLandingConfig(WithToken(context.Background(), "tok"), "u1")
	require.NoError(t, err)
	assert.Equal(t, landing.DefaultConfig(), cfg)

	_, err = c.GetLandingConfig(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusNotFound))

	c, calls = fakeAPI(t, http.StatusOK, `{}`)
	require.NoError(t, c.SaveLandingConfig(context.Background(), landing.DefaultConfig()))
	assert.Equal(t, "Agendamento", (*calls)[0].body["titulo"])
}

func TestClients(t *testing.T) {
	c, calls := fakeAPI(t, http.StatusOK, `[{"id":7,"name":"Ronaldo","celular":"27999999999"}]`)
	items, err := c.ListClients(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "7", items[0].ID)

	require.NoError(t, c.UpdateClient(context.Background(), model.ClientRecord{ID: "7", Name: "Ronaldo"}))
	assert.Equal(t, "PUT", (*calls)[1].method)
	assert.Equal(t, "/clientes/7", (*calls)[1].path)

	assert.Error(t, c.UpdateClient(context.Background(), model.ClientRecord{Name: "x"}))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "boom", errorMessage([]byte(`{"error":"boom"}`)))
	assert.Equal(t, "bad", errorMessage([]byte(`{"message":"bad"}`)))
	assert.Equal(t, "plain text", errorMessage([]byte("plain text")))
	assert.Empty(t, errorMessage([]byte("<html>oops</html>")))
	assert.Empty(t, errorMessage([]byte(`{"error":{"code":1}}`)))
}
