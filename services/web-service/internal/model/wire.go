package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ID accepts a JSON string or number; the API is not consistent about it.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Price is an amount in cents. On the wire it is a decimal number of reais,
// sometimes sent as a string ("40.50", "40,50", "R$ 1.234,50"). A value that
// is not an amount ("a combinar") decodes as zero so the rest of the record,
// and the list around it, still loads.
type Price int64

func (p *Price) UnmarshalJSON(data []byte) error {
	*p = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		if cents, err := ParsePriceString(s); err == nil {
			*p = Price(cents)
		}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*p = Price(math.Round(f * 100))
	}
	return nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(p)/100, 'f', -1, 64)), nil
}

func (p Price) Cents() int64 { return int64(p) }

// ParsePriceString reads a decimal amount of reais into cents. When a comma
// is present it is the decimal separator and dots are grouping.
func ParsePriceString(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	if s == "" {
		return 0, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("price %q: %w", s, err)
	}
	return int64(math.Round(f * 100)), nil
}

// Flag reads booleans that may arrive as true/false, "true"/"false" or 0/1.
// Anything unrecognized is false.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	switch strings.ToLower(strings.Trim(string(bytes.TrimSpace(data)), `"`)) {
	case "true", "1", "active", "enabled":
		*f = true
	default:
		*f = false
	}
	return nil
}

type HaircutRef struct {
	ID     ID     `json:"id"`
	Name   string `json:"name"`
	Price  Price  `json:"price"`
	UserID ID     `json:"user_id"`
}

// NativeBooking is one row of GET /schedule. The date may arrive in any of
// the four field families below.
type NativeBooking struct {
	ID          ID          `json:"id"`
	Customer    string      `json:"customer"`
	DataHora    string      `json:"dataHora"`
	ScheduledAt string      `json:"scheduled_at"`
	Date        string      `json:"date"`
	Data        string      `json:"data"`
	Time        string      `json:"time"`
	Horario     string      `json:"horario"`
	Status      string      `json:"status"`
	Haircut     *HaircutRef `json:"haircut"`
}

func (b NativeBooking) Raw() RawTimes {
	return RawTimes{
		Combined: strings.TrimSpace(b.DataHora),
		ISO:      strings.TrimSpace(b.ScheduledAt),
		DateOnly: firstNonEmpty(b.Date, b.Data),
		TimeOnly: firstNonEmpty(b.Time, b.Horario),
	}
}

// BotBooking is one row of GET /telegramlist.
type BotBooking struct {
	ID           ID          `json:"id"`
	CustomerName string      `json:"customerName"`
	ScheduledAt  string      `json:"scheduledAt"`
	Data         string      `json:"data"`
	Horario      string      `json:"horario"`
	Status       string      `json:"status"`
	Haircut      *HaircutRef `json:"haircut"`
}

func (b BotBooking) Raw() RawTimes {
	return RawTimes{
		ISO:      strings.TrimSpace(b.ScheduledAt),
		DateOnly: strings.TrimSpace(b.Data),
		TimeOnly: strings.TrimSpace(b.Horario),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
