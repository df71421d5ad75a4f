package views

import (
	"html/template"
	"sort"
	"strconv"
	"strings"

	"github.com/barberpro/barberweb/services/web-service/internal/format"
)

func funcs() template.FuncMap {
	return template.FuncMap{
		"brl":   format.BRL,
		"phone": format.Phone,
		"initial": func(name string) string {
			r := []rune(strings.TrimSpace(name))
			if len(r) == 0 {
				return "?"
			}
			return strings.ToUpper(string(r[0]))
		},
		// badge caps counters shown on the sidebar.
		"badge": func(n int) string {
			if n > 99 {
				return "99+"
			}
			return strconv.Itoa(n)
		},
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
