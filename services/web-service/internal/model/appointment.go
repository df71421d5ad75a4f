package model

import (
	"strings"
	"time"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusInactive  Status = "inactive"
	StatusAccepted  Status = "accepted"
)

// ParseStatus lowercases the upstream value; "cancelled" is an alias of inactive.
func ParseStatus(s string) Status {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "cancelled", "canceled":
		return StatusInactive
	default:
		return Status(v)
	}
}

func (s Status) Label() string {
	switch s {
	case StatusActive:
		return "Agendado"
	case StatusPending:
		return "Pendente"
	case StatusCompleted:
		return "Finalizado"
	case StatusInactive:
		return "Cancelado"
	case StatusAccepted:
		return "Confirmado"
	default:
		return string(s)
	}
}

type Source string

const (
	SourceApp      Source = "app"
	SourceTelegram Source = "telegram"
)

func (s Source) Label() string {
	switch s {
	case SourceApp:
		return "App"
	case SourceTelegram:
		return "Telegram"
	default:
		return string(s)
	}
}

type ServiceRef struct {
	ID         string
	Name       string
	PriceCents int64
}

// AppointmentRecord is the canonical, display-ready appointment. ID carries
// the source prefix so native and bot ids never collide in one list.
type AppointmentRecord struct {
	ID           string
	CustomerName string
	Service      ServiceRef
	ScheduledAt  *time.Time
	DisplayDate  string
	DisplayTime  string
	Status       Status
	Source       Source
}

// RawTimes holds the date-bearing fields of an upstream record as received.
type RawTimes struct {
	Combined string // dataHora
	ISO      string // scheduled_at / scheduledAt
	DateOnly string // date / data
	TimeOnly string // time / horario
}

func (r RawTimes) Empty() bool {
	return r.Combined == "" && r.ISO == "" && r.DateOnly == "" && r.TimeOnly == ""
}
