// Package report aggregates the agenda into the reporting cards and exports
// it as a spreadsheet.
package report

import (
	"strings"
	"time"

	"github.com/barberpro/barberweb/services/web-service/internal/model"
)

type Summary struct {
	Period             string // "setembro de 2025", empty for all time
	RegisteredClients  int
	ClientsServed      int // distinct customers with a completed appointment
	Appointments       int // everything except cancelled
	Completed          int
	Pending            int
	GrossCents         int64 // revenue of completed appointments
	AverageTicketCents int64
	BySource           map[model.Source]int
}

func Build(items []model.AppointmentRecord, registeredClients int) Summary {
	s := Summary{
		RegisteredClients: registeredClients,
		BySource:          map[model.Source]int{},
	}
	served := map[string]struct{}{}
	for _, it := range items {
		if it.Status == model.StatusInactive {
			continue
		}
		s.Appointments++
		s.BySource[it.Source]++
		switch it.Status {
		case model.StatusCompleted:
			s.Completed++
			s.GrossCents += it.Service.PriceCents
			served[strings.ToLower(strings.TrimSpace(it.CustomerName))] = struct{}{}
		case model.StatusPending:
			s.Pending++
		}
	}
	s.ClientsServed = len(served)
	if s.Completed > 0 {
		s.AverageTicketCents = s.GrossCents / int64(s.Completed)
	}
	return s
}

// InMonth keeps the records scheduled in month's calendar month (in loc).
// Records without a timestamp are dropped.
func InMonth(items []model.AppointmentRecord, month time.Time, loc *time.Location) []model.AppointmentRecord {
	month = month.In(loc)
	out := make([]model.AppointmentRecord, 0, len(items))
	for _, it := range items {
		if it.ScheduledAt == nil {
			continue
		}
		t := it.ScheduledAt.In(loc)
		if t.Year() == month.Year() && t.Month() == month.Month() {
			out = append(out, it)
		}
	}
	return out
}

// ParseMonth reads "2025-09"; anything else yields ok=false.
func ParseMonth(s string, loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation("2006-01", strings.TrimSpace(s), loc)
	return t, err == nil
}
