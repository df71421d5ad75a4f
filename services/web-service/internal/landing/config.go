package landing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/barberpro/barberweb/services/web-service/internal/format"
)

const defaultNotice = "Seu agendamento não será aceito de imediato, o barbeiro terá que aprovar o agendamento. " +
	"Caso aprovado ou reprovado, a devolutiva será enviada via WhatsApp."

// DayHours is one row of the weekly opening hours. Day is the pt-BR weekday
// name ("Segunda-feira"); Start and End are "HH:MM".
type DayHours struct {
	Day    string `json:"dia"`
	Start  string `json:"inicio"`
	End    string `json:"fim"`
	Active bool   `json:"ativo"`
}

// Fields toggles the inputs shown on the public booking form.
type Fields struct {
	Name    bool `json:"nome"`
	Email   bool `json:"email"`
	Phone   bool `json:"celular"`
	Date    bool `json:"data"`
	Time    bool `json:"horario"`
	Haircut bool `json:"corte"`
}

// Config is the barbershop's public page, stored by the API as JSON.
type Config struct {
	Title      string     `json:"titulo"`
	LogoURL    string     `json:"logoImg"`
	Hours      []DayHours `json:"horarios"`
	Notice     string     `json:"textoAviso"`
	ShowNotice bool       `json:"exibirAviso"`
	Fields     Fields     `json:"camposAtivos"`
}

func DefaultConfig() Config {
	return Config{
		Title:   "Agendamento",
		LogoURL: "/static/logo.svg",
		Hours: []DayHours{
			{Day: "Segunda-feira", Start: "09:00", End: "18:00", Active: true},
			{Day: "Terça-feira", Start: "09:00", End: "18:00", Active: true},
			{Day: "Quarta-feira", Start: "09:00", End: "18:00", Active: true},
			{Day: "Quinta-feira", Start: "09:00", End: "18:00", Active: true},
			{Day: "Sexta-feira", Start: "09:00", End: "18:00", Active: true},
			{Day: "Sábado", Start: "09:00", End: "16:00", Active: true},
			{Day: "Domingo", Start: "09:00", End: "14:00", Active: false},
		},
		Notice:     defaultNotice,
		ShowNotice: true,
		Fields:     Fields{Name: true, Email: true, Phone: true, Date: true, Time: true, Haircut: true},
	}
}

// WithDefaults fills what an unsaved or partial config leaves empty.
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if strings.TrimSpace(c.Title) == "" {
		c.Title = def.Title
	}
	if strings.TrimSpace(c.LogoURL) == "" {
		c.LogoURL = def.LogoURL
	}
	if len(c.Hours) == 0 {
		c.Hours = def.Hours
	}
	if c.Fields == (Fields{}) {
		c.Fields = def.Fields
	}
	return c
}

var ErrInvalidHours = errors.New("invalid opening hours")

// Validate checks every active day: a known weekday and Start before End.
func (c Config) Validate() error {
	var errs []error
	for _, h := range c.Hours {
		if !h.Active {
			continue
		}
		if _, ok := format.ParseWeekday(h.Day); !ok {
			errs = append(errs, fmt.Errorf("%w: unknown day %q", ErrInvalidHours, h.Day))
			continue
		}
		open, ok1 := minutes(h.Start)
		closeAt, ok2 := minutes(h.End)
		if !ok1 || !ok2 || open >= closeAt {
			errs = append(errs, fmt.Errorf("%w: %s %s-%s", ErrInvalidHours, h.Day, h.Start, h.End))
		}
	}
	return errors.Join(errs...)
}

// minutes parses "HH:MM" into minutes after midnight.
func minutes(hhmm string) (int, bool) {
	var h, m int
	if _, err := fmt.Sscanf(strings.TrimSpace(hhmm), "%d:%d", &h, &m); err != nil {
		return 0, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

func clock(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}
