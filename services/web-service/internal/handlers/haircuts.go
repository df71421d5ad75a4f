package handlers

import (
	"net/http"

	"github.com/barberpro/barberweb/services/web-service/internal/flash"
	"github.com/barberpro/barberweb/services/web-service/internal/format"
	"github.com/barberpro/barberweb/services/web-service/internal/model"
	"github.com/barberpro/barberweb/services/web-service/internal/resource"
	"github.com/barberpro/barberweb/services/web-service/internal/views"
)

type haircutsData struct {
	Items  []model.HaircutCatalogItem
	Status string
}

func (h *Handler) Haircuts(w http.ResponseWriter, r *http.Request) {
	status := "enabled"
	if r.URL.Query().Get("status") == "disabled" {
		status = "disabled"
	}
	data := haircutsData{Status: status}
	page := views.Page{Title: "Modelos de corte", Nav: "haircuts", Data: &data}

	items, err := h.api.ListHaircuts(apiCtx(r), status == "enabled")
	if err != nil {
		if h.expired(w, r, err) {
			return
		}
		h.warn(r, "list_haircuts", err)
		page.Flash = errorFlash("Erro ao carregar os cortes.")
	}
	data.Items = items
	h.render(w, r, http.StatusOK, "haircuts", page)
}

type newHaircutData struct {
	Name         string
	Price        string
	Premium      bool
	Count        int
	Limit        int
	LimitReached bool
}

func (h *Handler) NewHaircutPage(w http.ResponseWriter, r *http.Request) {
	h.renderNewHaircut(w, r, http.StatusOK, newHaircutData{}, nil)
}

// renderNewHaircut checks the subscription and the haircut count together;
// free accounts stop at the plan limit.
func (h *Handler) renderNewHaircut(w http.ResponseWriter, r *http.Request, status int, data newHaircutData, fl *flash.Message) {
	var (
		premium resource.Resource[bool]
		count   resource.Resource[int]
	)
	err := resource.LoadAll(apiCtx(r),
		resource.Task(&premium, h.api.HaircutCheck),
		resource.Task(&count, h.api.HaircutCount),
	)
	if err != nil {
		if h.expired(w, r, err) {
			return
		}
		h.warn(r, "haircut_limits", err)
		if fl == nil {
			fl = errorFlash("Erro ao verificar o seu plano.")
		}
	}
	data.Premium = premium.Data
	data.Count = count.Data
	data.Limit = h.views.Plans().FreeHaircutLimit
	data.LimitReached = !data.Premium && data.Count >= data.Limit
	h.render(w, r, status, "haircut_new", views.Page{Title: "Novo corte", Nav: "haircuts", Flash: fl, Data: &data})
}

func (h *Handler) CreateHaircut(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	data := newHaircutData{Name: formValue(r, "name"), Price: format.MaskBRL(formValue(r, "price"))}
	cents := format.ParseBRLCents(data.Price)

	msg := missingFields(r.PostForm, field{"name", "Nome do corte"}, field{"price", "Valor"})
	if msg == "" && cents <= 0 {
		msg = "Informe um valor maior que zero."
	}
	if msg != "" {
		h.renderNewHaircut(w, r, http.StatusUnprocessableEntity, data, errorFlash(msg))
		return
	}

	if err := h.api.CreateHaircut(apiCtx(r), data.Name, cents); err != nil {
		if h.expired(w, r, err) {
			return
		}
		h.warn(r, "create_haircut", err)
		h.renderNewHaircut(w, r, http.StatusBadGateway, data, errorFlash(userMessage(err, "Erro ao cadastrar o corte.")))
		return
	}
	flash.Success(w, "Corte cadastrado com sucesso!")
	redirect(w, r, "/haircuts")
}
