package format

import "time"

var weekdays = [...]string{
	time.Sunday:    "Domingo",
	time.Monday:    "Segunda-feira",
	time.Tuesday:   "Terça-feira",
	time.Wednesday: "Quarta-feira",
	time.Thursday:  "Quinta-feira",
	time.Friday:    "Sexta-feira",
	time.Saturday:  "Sábado",
}

var months = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

func Weekday(d time.Weekday) string {
	return weekdays[d]
}

// ParseWeekday is the inverse of Weekday; it also accepts the short form ("Seg", "Sáb").
func ParseWeekday(name string) (time.Weekday, bool) {
	for d, full := range weekdays {
		if name == full || name == ShortWeekday(time.Weekday(d)) {
			return time.Weekday(d), true
		}
	}
	return 0, false
}

// ShortWeekday is the three-letter label: "Seg", "Sáb".
func ShortWeekday(d time.Weekday) string {
	return string([]rune(weekdays[d])[:3])
}

// MonthYear renders "setembro de 2025".
func MonthYear(t time.Time) string {
	return months[t.Month()-1] + " de " + t.Format("2006")
}

func Date(t time.Time) string {
	return t.Format("02/01/2006")
}

func Clock(t time.Time) string {
	return t.Format("15:04")
}
