package handlers

import (
	"context"
	"sync"

	"github.com/barberpro/barberweb/services/web-service/internal/apiclient"
	"github.com/barberpro/barberweb/services/web-service/internal/landing"
	"github.com/barberpro/barberweb/services/web-service/internal/model"
)

type statusChange struct {
	ID     string
	Status model.Status
}

type booking struct {
	Booking apiclient.PublicBooking
	Key     string
}

// fakeAPI answers from canned fields and records every write.
type fakeAPI struct {
	mu sync.Mutex

	session   *apiclient.Session
	loginErr  error
	user      model.User
	haircuts  []model.HaircutCatalogItem
	premium   bool
	count     int
	native    []model.NativeBooking
	nativeErr error
	bot       []model.BotBooking
	botErr    error
	times     []string
	checkout  apiclient.Checkout
	clients   []model.ClientRecord
	landing   landing.Config
	landErr   error
	writeErr  error

	registered     []string
	scheduleStatus []statusChange
	telegramStatus []statusChange
	deleted        []string
	created        []apiclient.NewSchedule
	haircutsMade   []int64
	bookings       []booking
	savedLanding   []landing.Config
	savedClients   []model.ClientRecord
	updatedUsers   []string
}

func (f *fakeAPI) Login(context.Context, string, string) (*apiclient.Session, error) {
	return f.session, f.loginErr
}

func (f *fakeAPI) Register(_ context.Context, name, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registered = append(f.registered, name)
	return f.writeErr
}

func (f *fakeAPI) Me(context.Context) (model.User, error) { return f.user, nil }

func (f *fakeAPI) UpdateUser(_ context.Context, name, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updatedUsers = append(f.updatedUsers, name)
	return f.writeErr
}

func (f *fakeAPI) ListHaircuts(context.Context, bool) ([]model.HaircutCatalogItem, error) {
	return f.haircuts, nil
}

func (f *fakeAPI) ListPublicHaircuts(context.Context, string) ([]model.HaircutCatalogItem, error) {
	return f.haircuts, nil
}

func (f *fakeAPI) CreateHaircut(_ context.Context, _ string, cents int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.haircutsMade = append(f.haircutsMade, cents)
	return f.writeErr
}

func (f *fakeAPI) HaircutCheck(context.Context) (bool, error) { return f.premium, nil }

func (f *fakeAPI) HaircutCount(context.Context) (int, error) { return f.count, nil }

func (f *fakeAPI) ListSchedule(context.Context) ([]model.NativeBooking, error) {
	return f.native, f.nativeErr
}

func (f *fakeAPI) UpdateScheduleStatus(_ context.Context, id string, status model.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scheduleStatus = append(f.scheduleStatus, statusChange{id, status})
	return f.writeErr
}

func (f *fakeAPI) DeleteSchedule(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.writeErr
}

func (f *fakeAPI) ListTelegram(context.Context) ([]model.BotBooking, error) {
	return f.bot, f.botErr
}

func (f *fakeAPI) UpdateTelegramStatus(_ context.Context, id string, status model.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.telegramStatus = append(f.telegramStatus, statusChange{id, status})
	return f.writeErr
}

func (f *fakeAPI) CreateSchedule(_ context.Context, s apiclient.NewSchedule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, s)
	return f.writeErr
}

func (f *fakeAPI) AvailableTimes(context.Context, string) ([]string, error) { return f.times, nil }

func (f *fakeAPI) Subscribe(context.Context) (apiclient.Checkout, error) { return f.checkout, nil }

func (f *fakeAPI) CreatePortal(context.Context) (apiclient.Checkout, error) { return f.checkout, nil }

func (f *fakeAPI) SimulateBooking(_ context.Context, b apiclient.PublicBooking, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookings = append(f.bookings, booking{b, key})
	return f.writeErr
}

func (f *fakeAPI) ListClients(context.Context) ([]model.ClientRecord, error) { return f.clients, nil }

func (f *fakeAPI) CreateClient(_ context.Context, c model.ClientRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.savedClients = append(f.savedClients, c)
	return f.writeErr
}

func (f *fakeAPI) UpdateClient(_ context.Context, c model.ClientRecord) error {
	return f.CreateClient(context.Background(), c)
}

func (f *fakeAPI) GetLandingConfig(context.Context, string) (landing.Config, error) {
	if f.landErr != nil {
		return landing.Config{}, f.landErr
	}
	return f.landing.WithDefaults(), nil
}

func (f *fakeAPI) SaveLandingConfig(_ context.Context, cfg landing.Config) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.savedLanding = append(f.savedLanding, cfg)
	return f.writeErr
}
