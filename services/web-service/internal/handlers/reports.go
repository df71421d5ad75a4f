package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/barberpro/barberweb/services/web-service/internal/format"
	"github.com/barberpro/barberweb/services/web-service/internal/model"
	"github.com/barberpro/barberweb/services/web-service/internal/report"
	"github.com/barberpro/barberweb/services/web-service/internal/resource"
	"github.com/barberpro/barberweb/services/web-service/internal/schedule"
	"github.com/barberpro/barberweb/services/web-service/internal/views"
)

type reportsData struct {
	Summary report.Summary
	Month   string
}

// loadReport fetches both agendas and the client list concurrently. The
// client count is optional: only an agenda failure is returned.
func (h *Handler) loadReport(r *http.Request) (report.Summary, []model.AppointmentRecord, string, error) {
	var (
		native  resource.Resource[[]model.NativeBooking]
		bot     resource.Resource[[]model.BotBooking]
		clients resource.Resource[[]model.ClientRecord]
	)
	err := resource.LoadAll(apiCtx(r),
		resource.Task(&native, h.api.ListSchedule),
		resource.Task(&bot, h.api.ListTelegram),
		resource.Task(&clients, h.api.ListClients),
	)
	if native.Failed() {
		return report.Summary{}, nil, "", native.Err
	}
	if bot.Failed() {
		return report.Summary{}, nil, "", bot.Err
	}
	if err != nil {
		h.warn(r, "list_clients", err)
	}

	items := schedule.Records(native.Data, bot.Data, h.loc)
	var month string
	var period time.Time
	if m, ok := report.ParseMonth(r.URL.Query().Get("month"), h.loc); ok {
		items = report.InMonth(items, m, h.loc)
		month, period = m.Format("2006-01"), m
	}
	s := report.Build(items, len(clients.Data))
	if month != "" {
		s.Period = format.MonthYear(period)
	}
	return s, items, month, nil
}

func (h *Handler) Reports(w http.ResponseWriter, r *http.Request) {
	s, _, month, err := h.loadReport(r)
	page := views.Page{Title: "Relatórios", Nav: "reports", Data: reportsData{Summary: s, Month: month}}
	if err != nil {
		if h.expired(w, r, err) {
			return
		}
		h.warn(r, "load_report", err)
		page.Flash = errorFlash("Erro ao carregar os relatórios.")
	}
	h.render(w, r, http.StatusOK, "reports", page)
}

func (h *Handler) ExportReport(w http.ResponseWriter, r *http.Request) {
	s, items, month, err := h.loadReport(r)
	if err != nil {
		if h.expired(w, r, err) {
			return
		}
		h.warn(r, "export_report", err)
		h.renderError(w, r, http.StatusBadGateway, "Erro ao carregar os relatórios.")
		return
	}

	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, s, items); err != nil {
		h.logger.Error("xlsx export failed", "err", err)
		h.renderError(w, r, http.StatusInternalServerError, "Erro ao gerar a planilha.")
		return
	}
	name := "relatorio.xlsx"
	if month != "" {
		name = fmt.Sprintf("relatorio-%s.xlsx", month)
	}
	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
