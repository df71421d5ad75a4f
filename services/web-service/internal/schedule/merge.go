package schedule

import (
	"slices"
	"strings"
	"time"

	"github.com/barberpro/barberweb/services/web-service/internal/model"
)

const (
	appPrefix      = "app-"
	telegramPrefix = "telegram-"

	defaultCustomer    = "Cliente"
	defaultBotCustomer = "Cliente Telegram"
)

type MergeResult struct {
	Items        []model.AppointmentRecord
	PendingCount int // bot bookings still waiting for the barber's approval
}

// Merge builds the agenda from both sources. Native bookings are kept only
// when active and bot bookings only when accepted; pending bot bookings are
// counted, not listed. The result is ordered by resolved timestamp with a
// stable sort, and a record without a timestamp compares equal to any other.
func Merge(native []model.NativeBooking, bot []model.BotBooking, loc *time.Location) MergeResult {
	out := MergeResult{Items: make([]model.AppointmentRecord, 0, len(native)+len(bot))}

	for _, b := range native {
		if model.ParseStatus(b.Status) != model.StatusActive {
			continue
		}
		out.Items = append(out.Items, record(appPrefix+b.ID.String(), b.Customer, defaultCustomer, b.Haircut, b.Raw(), model.StatusActive, model.SourceApp, loc))
	}

	for _, b := range bot {
		switch model.ParseStatus(b.Status) {
		case model.StatusAccepted:
			out.Items = append(out.Items, record(telegramPrefix+b.ID.String(), b.CustomerName, defaultBotCustomer, b.Haircut, b.Raw(), model.StatusAccepted, model.SourceTelegram, loc))
		case model.StatusPending:
			out.PendingCount++
		}
	}

	SortByTime(out.Items)
	return out
}

func record(id, customer, fallback string, haircut *model.HaircutRef, raw model.RawTimes, status model.Status, source model.Source, loc *time.Location) model.AppointmentRecord {
	name := strings.TrimSpace(customer)
	if name == "" {
		name = fallback
	}
	rec := model.AppointmentRecord{
		ID:           id,
		CustomerName: name,
		Status:       status,
		Source:       source,
	}
	if haircut != nil {
		rec.Service = model.ServiceRef{
			ID:         haircut.ID.String(),
			Name:       haircut.Name,
			PriceCents: haircut.Price.Cents(),
		}
	}
	if t, ok := Resolve(raw, loc); ok {
		rec.ScheduledAt = &t
	}
	d := Normalize(raw, loc)
	rec.DisplayDate, rec.DisplayTime = d.Date, d.Time
	return rec
}

// SortByTime orders records ascending by ScheduledAt, keeping input order
// for ties and for records without a timestamp.
func SortByTime(items []model.AppointmentRecord) {
	slices.SortStableFunc(items, func(a, b model.AppointmentRecord) int {
		if a.ScheduledAt == nil || b.ScheduledAt == nil {
			return 0
		}
		return a.ScheduledAt.Compare(*b.ScheduledAt)
	})
}

// Records converts every booking from both sources, whatever its status,
// in time order. Reports use it; the agenda uses Merge.
func Records(native []model.NativeBooking, bot []model.BotBooking, loc *time.Location) []model.AppointmentRecord {
	out := make([]model.AppointmentRecord, 0, len(native)+len(bot))
	for _, b := range native {
		out = append(out, record(appPrefix+b.ID.String(), b.Customer, defaultCustomer, b.Haircut, b.Raw(), model.ParseStatus(b.Status), model.SourceApp, loc))
	}
	for _, b := range bot {
		out = append(out, record(telegramPrefix+b.ID.String(), b.CustomerName, defaultBotCustomer, b.Haircut, b.Raw(), model.ParseStatus(b.Status), model.SourceTelegram, loc))
	}
	SortByTime(out)
	return out
}

// StripSourcePrefix splits a merged id back into its source and backend id.
func StripSourcePrefix(id string) (model.Source, string) {
	switch {
	case strings.HasPrefix(id, appPrefix):
		return model.SourceApp, strings.TrimPrefix(id, appPrefix)
	case strings.HasPrefix(id, telegramPrefix):
		return model.SourceTelegram, strings.TrimPrefix(id, telegramPrefix)
	default:
		return "", id
	}
}

// Remove drops the record with the given id after the backend confirmed a
// status change. The input slice is not modified.
func Remove(items []model.AppointmentRecord, id string) []model.AppointmentRecord {
	out := make([]model.AppointmentRecord, 0, len(items))
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}
