// Package views renders the embedded HTML pages. Every page shares one
// layout; the theme tokens and plan catalog are read once from embedded
// YAML and handed to each render.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/barberpro/barberweb/libs/metrics"
	"github.com/barberpro/barberweb/services/web-service/internal/flash"
	"gopkg.in/yaml.v3"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

//go:embed theme.yaml plans.yaml
var configFS embed.FS

type Theme struct {
	Name        string            `yaml:"name"`
	Dark        bool              `yaml:"dark"`
	Colors      map[string]string `yaml:"colors"`
	LightColors map[string]string `yaml:"light_colors"`
}

// CSSVars renders the palette as CSS custom properties.
func (t Theme) CSSVars() template.CSS {
	return template.CSS(cssVars(t.Colors))
}

func (t Theme) LightCSSVars() template.CSS {
	return template.CSS(cssVars(t.LightColors))
}

func cssVars(colors map[string]string) string {
	var b strings.Builder
	for _, k := range sortedKeys(colors) {
		fmt.Fprintf(&b, "--%s:%s;", strings.ReplaceAll(k, "_", "-"), colors[k])
	}
	return b.String()
}

type Plan struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Price    string   `yaml:"price"`
	Features []string `yaml:"features"`
}

type Plans struct {
	FreeHaircutLimit int  `yaml:"free_haircut_limit"`
	Free             Plan `yaml:"free"`
	Premium          Plan `yaml:"premium"`
}

// Page is what every template receives.
type Page struct {
	Title          string
	Nav            string // highlighted sidebar entry
	UserName       string
	Flash          *flash.Message
	Theme          Theme
	Plans          Plans
	TelegramBotURL string
	Data           any
}

type Renderer struct {
	pages  map[string]*template.Template
	theme  Theme
	plans  Plans
	logger *slog.Logger
}

var pageNames = []string{
	"home", "login", "register", "dashboard", "new", "haircuts", "haircut_new",
	"clients", "reports", "plans", "checkout", "profile", "landing_edit", "booking", "error",
}

func New(logger *slog.Logger) (*Renderer, error) {
	r := &Renderer{pages: map[string]*template.Template{}, logger: logger}
	if err := decodeYAML("theme.yaml", &r.theme); err != nil {
		return nil, err
	}
	if err := decodeYAML("plans.yaml", &r.plans); err != nil {
		return nil, err
	}
	if r.plans.FreeHaircutLimit <= 0 {
		return nil, fmt.Errorf("plans.yaml: free_haircut_limit must be positive")
	}

	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs()).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

func decodeYAML(name string, out any) error {
	raw, err := configFS.ReadFile(name)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (r *Renderer) Theme() Theme { return r.theme }

func (r *Renderer) Plans() Plans { return r.plans }

// Render executes the page into a buffer first so a template error becomes
// a clean 500 instead of half a page.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, p Page) {
	t, ok := r.pages[name]
	if !ok {
		r.logger.Error("unknown template", "page", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		metrics.IncPageRender(name, http.StatusInternalServerError)
		return
	}
	p.Theme, p.Plans = r.theme, r.plans

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		r.logger.Error("render failed", "page", name, "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		metrics.IncPageRender(name, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	metrics.IncPageRender(name, status)
}

// Static serves the embedded assets under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
