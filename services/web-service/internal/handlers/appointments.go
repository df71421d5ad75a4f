package handlers

import (
	"net/http"

	"github.com/barberpro/barberweb/services/web-service/internal/apiclient"
	"github.com/barberpro/barberweb/services/web-service/internal/flash"
	"github.com/barberpro/barberweb/services/web-service/internal/format"
	"github.com/barberpro/barberweb/services/web-service/internal/model"
	"github.com/barberpro/barberweb/services/web-service/internal/views"
)

type appointmentForm struct {
	Customer  string
	Phone     string
	Email     string
	Date      string
	Time      string
	HaircutID string
}

type newAppointmentData struct {
	Haircuts []model.HaircutCatalogItem
	Times    []string
	Form     appointmentForm
}

func (h *Handler) NewAppointmentPage(w http.ResponseWriter, r *http.Request) {
	form := appointmentForm{Date: r.URL.Query().Get("date")}
	h.renderNewAppointment(w, r, http.StatusOK, form, nil)
}

// renderNewAppointment loads the active haircuts and, once a date is
// chosen, the free slots of that day.
func (h *Handler) renderNewAppointment(w http.ResponseWriter, r *http.Request, status int, form appointmentForm, fl *flash.Message) {
	ctx := apiCtx(r)
	data := newAppointmentData{Form: form}
	page := views.Page{Title: "Novo agendamento", Nav: "new", Flash: fl, Data: &data}

	haircuts, err := h.api.ListHaircuts(ctx, true)
	if err != nil {
		if h.expired(w, r, err) {
			return
		}
		h.warn(r, "list_haircuts", err)
		if page.Flash == nil {
			page.Flash = errorFlash("Erro ao carregar os cortes.")
		}
	}
	data.Haircuts = haircuts

	if form.Date != "" {
		times, err := h.api.AvailableTimes(ctx, form.Date)
		if err != nil {
			h.warn(r, "available_times", err)
			if page.Flash == nil {
				page.Flash = errorFlash("Erro ao carregar os horários disponíveis.")
			}
		}
		data.Times = times
	}
	h.render(w, r, status, "new", page)
}

func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := appointmentForm{
		Customer:  formValue(r, "customer"),
		Phone:     format.Phone(formValue(r, "phone")),
		Email:     formValue(r, "email"),
		Date:      formValue(r, "date"),
		Time:      formValue(r, "time"),
		HaircutID: formValue(r, "haircut_id"),
	}

	msg := missingFields(r.PostForm, field{"customer", "Cliente"}, field{"date", "Data"}, field{"time", "Horário"})
	if msg == "" && form.Phone != "" && !format.ValidPhone(form.Phone) {
		msg = "Informe um celular válido com DDD."
	}
	at, ok := localTime(form.Date, form.Time, h.loc)
	if msg == "" && !ok {
		msg = "Data ou horário inválido."
	}
	if msg != "" {
		h.renderNewAppointment(w, r, http.StatusUnprocessableEntity, form, errorFlash(msg))
		return
	}

	err := h.api.CreateSchedule(apiCtx(r), apiclient.NewSchedule{
		Customer:  form.Customer,
		HaircutID: form.HaircutID,
		Phone:     form.Phone,
		Email:     form.Email,
		DataHora:  apiclient.ISOString(at),
	})
	if err != nil {
		if h.expired(w, r, err) {
			return
		}
		h.warn(r, "create_schedule", err)
		h.renderNewAppointment(w, r, http.StatusBadGateway, form, errorFlash(userMessage(err, "Erro ao registrar o agendamento.")))
		return
	}
	flash.Success(w, "Agendamento registrado com sucesso!")
	redirect(w, r, "/dashboard")
}
