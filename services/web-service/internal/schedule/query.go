package schedule

import (
	"net/url"
	"slices"
	"strings"

	"github.com/barberpro/barberweb/services/web-service/internal/model"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortBy string

const (
	SortDate  SortBy = "date"
	SortName  SortBy = "name"
	SortPrice SortBy = "price"
)

const SourceAll = "all"

// Query is the dashboard's search box, source filter and sort selector.
type Query struct {
	Search string
	Source string
	SortBy SortBy
}

func QueryFromValues(v url.Values) Query {
	q := Query{
		Search: strings.TrimSpace(v.Get("q")),
		Source: SourceAll,
		SortBy: SortDate,
	}
	switch s := model.Source(v.Get("source")); s {
	case model.SourceApp, model.SourceTelegram:
		q.Source = string(s)
	}
	switch s := SortBy(v.Get("sort")); s {
	case SortName, SortPrice:
		q.SortBy = s
	}
	return q
}

// Values is the inverse of QueryFromValues, used to build links.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	if q.Source != "" && q.Source != SourceAll {
		v.Set("source", q.Source)
	}
	if q.SortBy != "" && q.SortBy != SortDate {
		v.Set("sort", string(q.SortBy))
	}
	return v
}

// Apply filters and orders a copy of items. Every ordering is stable.
func Apply(items []model.AppointmentRecord, q Query) []model.AppointmentRecord {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]model.AppointmentRecord, 0, len(items))
	for _, it := range items {
		if q.Source != "" && q.Source != SourceAll && string(it.Source) != q.Source {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(it.CustomerName), search) {
			continue
		}
		out = append(out, it)
	}

	switch q.SortBy {
	case SortName:
		col := collate.New(language.BrazilianPortuguese)
		slices.SortStableFunc(out, func(a, b model.AppointmentRecord) int {
			return col.CompareString(a.CustomerName, b.CustomerName)
		})
	case SortPrice:
		slices.SortStableFunc(out, func(a, b model.AppointmentRecord) int {
			switch {
			case a.Service.PriceCents > b.Service.PriceCents:
				return -1
			case a.Service.PriceCents < b.Service.PriceCents:
				return 1
			default:
				return 0
			}
		})
	default:
		SortByTime(out)
	}
	return out
}
