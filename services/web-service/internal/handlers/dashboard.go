package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/barberpro/barberweb/services/web-service/internal/flash"
	"github.com/barberpro/barberweb/services/web-service/internal/model"
	"github.com/barberpro/barberweb/services/web-service/internal/resource"
	"github.com/barberpro/barberweb/services/web-service/internal/schedule"
	"github.com/barberpro/barberweb/services/web-service/internal/views"
)

type dashboardData struct {
	Items      []model.AppointmentRecord
	Pending    int
	Query      schedule.Query
	RefreshURL string
}

// Dashboard shows the merged agenda of both sources. The two lists are
// fetched together; if either fails the page shows an empty agenda and an
// error toast.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	q := schedule.QueryFromValues(r.URL.Query())
	data := dashboardData{Query: q, RefreshURL: dashboardURL(q, "")}
	page := views.Page{Title: "Agenda", Nav: "dashboard", Data: &data}

	var (
		native resource.Resource[[]model.NativeBooking]
		bot    resource.Resource[[]model.BotBooking]
	)
	ctx := apiCtx(r)
	err := resource.LoadAll(ctx,
		resource.Task(&native, h.api.ListSchedule),
		resource.Task(&bot, h.api.ListTelegram),
	)
	if err != nil {
		if h.expired(w, r, err) {
			return
		}
		h.warn(r, "load_agenda", err)
		msg := native.Message("a agenda")
		if msg == "" {
			msg = bot.Message("a agenda")
		}
		page.Flash = errorFlash(msg)
		h.render(w, r, http.StatusOK, "dashboard", page)
		return
	}

	merged := schedule.Merge(native.Data, bot.Data, h.loc)
	items := merged.Items
	if removed := r.URL.Query().Get("removed"); removed != "" {
		items = schedule.Remove(items, removed)
	}
	data.Items = schedule.Apply(items, q)
	data.Pending = merged.PendingCount
	h.render(w, r, http.StatusOK, "dashboard", page)
}

func (h *Handler) FinishAppointment(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, model.StatusCompleted, "Agendamento finalizado!", "Erro ao finalizar o agendamento.")
}

func (h *Handler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, model.StatusInactive, "Agendamento cancelado.", "Erro ao cancelar o agendamento.")
}

// changeStatus routes the update to the endpoint owning the record, based on
// the id prefix the merger added.
func (h *Handler) changeStatus(w http.ResponseWriter, r *http.Request, status model.Status, ok, failed string) {
	id := r.PathValue("id")
	source, rawID := schedule.StripSourcePrefix(id)
	ctx := apiCtx(r)

	var err error
	switch source {
	case model.SourceApp:
		err = h.api.UpdateScheduleStatus(ctx, rawID, status)
	case model.SourceTelegram:
		err = h.api.UpdateTelegramStatus(ctx, rawID, status)
	default:
		err = errUnknownAppointment
	}
	h.afterChange(w, r, id, err, ok, failed)
}

func (h *Handler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var err error
	if source, rawID := schedule.StripSourcePrefix(id); source == model.SourceApp {
		err = h.api.DeleteSchedule(apiCtx(r), rawID)
	} else {
		err = errUnknownAppointment
	}
	h.afterChange(w, r, id, err, "Agendamento excluído.", "Erro ao excluir o agendamento.")
}

var errUnknownAppointment = errors.New("unknown appointment id")

// afterChange returns to the dashboard with the search, source and sort the
// action was posted from.
func (h *Handler) afterChange(w http.ResponseWriter, r *http.Request, id string, err error, ok, failed string) {
	_ = r.ParseForm()
	q := schedule.QueryFromValues(r.PostForm)
	if err != nil {
		if h.expired(w, r, err) {
			return
		}
		h.warn(r, "change_appointment", err)
		flash.Error(w, userMessage(err, failed))
		redirect(w, r, dashboardURL(q, ""))
		return
	}
	flash.Success(w, ok)
	redirect(w, r, dashboardURL(q, id))
}

func dashboardURL(q schedule.Query, removed string) string {
	v := q.Values()
	if removed != "" {
		v.Set("removed", removed)
	}
	if len(v) == 0 {
		return "/dashboard"
	}
	return (&url.URL{Path: "/dashboard", RawQuery: v.Encode()}).String()
}
