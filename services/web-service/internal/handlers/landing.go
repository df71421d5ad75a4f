package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/barberpro/barberweb/libs/metrics"
	"github.com/barberpro/barberweb/services/web-service/internal/apiclient"
	"github.com/barberpro/barberweb/services/web-service/internal/flash"
	"github.com/barberpro/barberweb/services/web-service/internal/format"
	"github.com/barberpro/barberweb/services/web-service/internal/landing"
	"github.com/barberpro/barberweb/services/web-service/internal/model"
	"github.com/barberpro/barberweb/services/web-service/internal/resource"
	"github.com/barberpro/barberweb/services/web-service/internal/views"
	"github.com/google/uuid"
)

const maxDays = 7

type landingEditData struct {
	Config    landing.Config
	PublicURL string
	Status    landing.HoursStatus
	Summary   string
}

func (h *Handler) LandingEditor(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	cfg, err := h.api.GetLandingConfig(apiCtx(r), sess.UserID)
	var fl *flash.Message
	if err != nil {
		if h.expired(w, r, err) {
			return
		}
		h.warn(r, "get_landing_config", err)
		fl = errorFlash("Erro ao carregar a landing page.")
		cfg = landing.DefaultConfig()
	}
	h.renderLandingEditor(w, r, http.StatusOK, cfg, fl)
}

func (h *Handler) renderLandingEditor(w http.ResponseWriter, r *http.Request, status int, cfg landing.Config, fl *flash.Message) {
	data := landingEditData{
		Config:    cfg,
		PublicURL: bookingPath(currentSession(r).UserID),
		Status:    landing.Status(cfg, h.now().In(h.loc)),
		Summary:   landing.Summary(cfg),
	}
	h.render(w, r, status, "landing_edit", views.Page{Title: "Landing page", Nav: "landing", Flash: fl, Data: data})
}

// landingFromForm reads the editor form. Days are posted as indexed fields
// (day_0, start_0, end_0, active_0) with "days" holding the row count.
func landingFromForm(r *http.Request) landing.Config {
	checked := func(key string) bool { return r.PostFormValue(key) != "" }
	cfg := landing.Config{
		Title:      formValue(r, "title"),
		LogoURL:    formValue(r, "logo_url"),
		Notice:     formValue(r, "notice"),
		ShowNotice: checked("show_notice"),
		// The booking request cannot go out without these; only email is optional.
		Fields: landing.Fields{
			Name:    true,
			Email:   checked("field_email"),
			Phone:   true,
			Date:    true,
			Time:    true,
			Haircut: true,
		},
	}
	n, _ := strconv.Atoi(formValue(r, "days"))
	n = min(max(n, 0), maxDays)
	for i := range n {
		idx := strconv.Itoa(i)
		day := formValue(r, "day_"+idx)
		if day == "" {
			continue
		}
		cfg.Hours = append(cfg.Hours, landing.DayHours{
			Day:    day,
			Start:  formValue(r, "start_"+idx),
			End:    formValue(r, "end_"+idx),
			Active: checked("active_" + idx),
		})
	}
	return cfg
}

func (h *Handler) SaveLanding(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	cfg := landingFromForm(r)
	if err := cfg.Validate(); err != nil {
		h.renderLandingEditor(w, r, http.StatusUnprocessableEntity, cfg, errorFlash(landingError(err)))
		return
	}
	h.saveLanding(w, r, cfg.WithDefaults(), "Landing page salva com sucesso!")
}

func (h *Handler) ResetLanding(w http.ResponseWriter, r *http.Request) {
	h.saveLanding(w, r, landing.DefaultConfig(), "Landing page restaurada para o padrão.")
}

func (h *Handler) saveLanding(w http.ResponseWriter, r *http.Request, cfg landing.Config, ok string) {
	if err := h.api.SaveLandingConfig(apiCtx(r), cfg); err != nil {
		if h.expired(w, r, err) {
			return
		}
		h.warn(r, "save_landing_config", err)
		h.renderLandingEditor(w, r, http.StatusBadGateway, cfg, errorFlash(userMessage(err, "Erro ao salvar a landing page.")))
		return
	}
	flash.Success(w, ok)
	redirect(w, r, "/landing/edit")
}

func landingError(err error) string {
	if errors.Is(err, landing.ErrInvalidHours) {
		return "Confira os horários: o início deve ser antes do fim (HH:MM)."
	}
	return "Configuração inválida."
}

type bookingForm struct {
	Key       string
	Name      string
	Email     string
	Phone     string
	Date      string
	Time      string
	HaircutID string
}

type bookingData struct {
	UserID   string
	Config   landing.Config
	Haircuts []model.HaircutCatalogItem
	Hours    landing.HoursStatus
	Summary  string
	Form     bookingForm
	Done     bool
}

// BookingPage is the shop's public page: the landing config, its active
// haircuts and the open/closed chip.
func (h *Handler) BookingPage(w http.ResponseWriter, r *http.Request) {
	form := bookingForm{Key: uuid.NewString()}
	done := r.URL.Query().Get("ok") == "1"
	h.renderBooking(w, r, http.StatusOK, form, done, nil)
}

func (h *Handler) renderBooking(w http.ResponseWriter, r *http.Request, status int, form bookingForm, done bool, fl *flash.Message) {
	userID := r.PathValue("userID")
	var (
		cfg      resource.Resource[landing.Config]
		haircuts resource.Resource[[]model.HaircutCatalogItem]
	)
	ctx := apiclient.WithToken(r.Context(), "")
	_ = resource.LoadAll(ctx,
		resource.Task(&cfg, func(ctx context.Context) (landing.Config, error) { return h.api.GetLandingConfig(ctx, userID) }),
		resource.Task(&haircuts, func(ctx context.Context) ([]model.HaircutCatalogItem, error) {
			return h.api.ListPublicHaircuts(ctx, userID)
		}),
	)
	if cfg.Failed() {
		h.warn(r, "get_landing_config", cfg.Err)
		if apiclient.IsStatus(cfg.Err, http.StatusNotFound) {
			h.renderError(w, r, http.StatusNotFound, "Barbearia não encontrada.")
			return
		}
		h.renderError(w, r, http.StatusBadGateway, "Não foi possível carregar a página de agendamento.")
		return
	}
	if haircuts.Failed() {
		h.warn(r, "list_public_haircuts", haircuts.Err)
		if fl == nil {
			fl = errorFlash(haircuts.Message("os cortes"))
		}
	}

	data := bookingData{
		UserID:   userID,
		Config:   cfg.Data,
		Haircuts: haircuts.Data,
		Hours:    landing.Status(cfg.Data, h.now().In(h.loc)),
		Summary:  landing.Summary(cfg.Data),
		Form:     form,
		Done:     done,
	}
	h.render(w, r, status, "booking", views.Page{Title: cfg.Data.Title, Flash: fl, Data: data})
}

// SubmitBooking validates the whole form before anything is sent, then
// posts exactly one booking request with the date and time combined into
// one timestamp.
func (h *Handler) SubmitBooking(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	userID := r.PathValue("userID")
	form := bookingForm{
		Key:       formValue(r, "key"),
		Name:      formValue(r, "name"),
		Email:     formValue(r, "email"),
		Phone:     format.Phone(formValue(r, "phone")),
		Date:      formValue(r, "date"),
		Time:      formValue(r, "time"),
		HaircutID: formValue(r, "haircut_id"),
	}
	if form.Key == "" {
		form.Key = uuid.NewString()
	}

	msg := missingFields(r.PostForm,
		field{"name", "Nome"},
		field{"phone", "Celular"},
		field{"date", "Data"},
		field{"time", "Horário"},
		field{"haircut_id", "Corte"},
	)
	if msg == "" && !format.ValidPhone(form.Phone) {
		msg = "Informe um celular válido com DDD."
	}
	at, ok := localTime(form.Date, form.Time, h.loc)
	if msg == "" && !ok {
		msg = "Data ou horário inválido."
	}
	if msg != "" {
		metrics.IncPublicBooking("invalid")
		h.renderBooking(w, r, http.StatusUnprocessableEntity, form, false, errorFlash(msg))
		return
	}

	err := h.api.SimulateBooking(r.Context(), apiclient.PublicBooking{
		UserID:      userID,
		HaircutID:   form.HaircutID,
		Name:        form.Name,
		Email:       form.Email,
		Phone:       form.Phone,
		ScheduledAt: at,
	}, form.Key)
	if err != nil {
		metrics.IncPublicBooking("error")
		h.warn(r, "simulate_booking", err)
		h.renderBooking(w, r, http.StatusBadGateway, form, false, errorFlash(userMessage(err, "Erro ao enviar o agendamento. Tente novamente.")))
		return
	}
	metrics.IncPublicBooking("ok")
	flash.Success(w, "Agendamento solicitado! Aguarde a confirmação.")
	redirect(w, r, bookingPath(userID)+"?ok=1")
}
