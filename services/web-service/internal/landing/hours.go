package landing

import (
	"strings"
	"time"

	"github.com/barberpro/barberweb/services/web-service/internal/format"
)

type HoursStatus struct {
	Open   bool
	Label  string // "Aberto agora" / "Fechado"
	Detail string // "Fecha às 18:00", "Abre amanhã às 09:00", ...
}

type window struct{ open, close int }

func weekly(hours []DayHours) map[time.Weekday]window {
	out := make(map[time.Weekday]window, 7)
	for _, h := range hours {
		if !h.Active {
			continue
		}
		day, ok := format.ParseWeekday(h.Day)
		if !ok {
			continue
		}
		open, ok1 := minutes(h.Start)
		closeAt, ok2 := minutes(h.End)
		if !ok1 || !ok2 {
			continue
		}
		out[day] = window{open: open, close: closeAt}
	}
	return out
}

// Status tells whether the shop is open at now (already in the shop's zone).
func Status(cfg Config, now time.Time) HoursStatus {
	days := weekly(cfg.Hours)
	today := now.Weekday()
	mins := now.Hour()*60 + now.Minute()

	if w, ok := days[today]; ok {
		switch {
		case mins >= w.open && mins < w.close:
			return HoursStatus{Open: true, Label: "Aberto agora", Detail: "Fecha às " + clock(w.close)}
		case mins < w.open:
			return HoursStatus{Label: "Fechado", Detail: "Abre às " + clock(w.open)}
		}
	}

	for offset := 1; offset <= 7; offset++ {
		day := (today + time.Weekday(offset)) % 7
		w, ok := days[day]
		if !ok {
			continue
		}
		if offset == 1 {
			return HoursStatus{Label: "Fechado", Detail: "Abre amanhã às " + clock(w.open)}
		}
		return HoursStatus{Label: "Fechado", Detail: "Abre " + strings.ToLower(format.Weekday(day)) + " às " + clock(w.open)}
	}
	return HoursStatus{Label: "Fechado", Detail: "Fechado hoje"}
}

// Summary groups active days sharing the same hours:
// "Seg - Sex: 09:00 - 18:00 | Sáb: 09:00 - 16:00".
func Summary(cfg Config) string {
	type group struct {
		span string
		days []string
	}
	var groups []*group
	index := map[string]*group{}
	for _, h := range cfg.Hours {
		if !h.Active {
			continue
		}
		span := h.Start + " - " + h.End
		g, ok := index[span]
		if !ok {
			g = &group{span: span}
			index[span] = g
			groups = append(groups, g)
		}
		g.days = append(g.days, short(h.Day))
	}
	if len(groups) == 0 {
		return "Sem horários definidos"
	}

	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		label := g.days[0]
		if len(g.days) > 1 {
			label += " - " + g.days[len(g.days)-1]
		}
		parts = append(parts, label+": "+g.span)
	}
	return strings.Join(parts, " | ")
}

func short(day string) string {
	r := []rune(day)
	if len(r) > 3 {
		r = r[:3]
	}
	return string(r)
}
