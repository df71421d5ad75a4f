package handlers

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/barberpro/barberweb/services/web-service/internal/flash"
	"github.com/barberpro/barberweb/services/web-service/internal/format"
	"github.com/barberpro/barberweb/services/web-service/internal/model"
	"github.com/barberpro/barberweb/services/web-service/internal/views"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type clientsData struct {
	Items  []model.ClientRecord
	Search string
	Sort   string
}

func (h *Handler) Clients(w http.ResponseWriter, r *http.Request) {
	data := clientsData{Search: strings.TrimSpace(r.URL.Query().Get("q")), Sort: "name"}
	if r.URL.Query().Get("sort") == "id" {
		data.Sort = "id"
	}
	page := views.Page{Title: "Clientes", Nav: "clients", Data: &data}

	items, err := h.api.ListClients(apiCtx(r))
	if err != nil {
		if h.expired(w, r, err) {
			return
		}
		h.warn(r, "list_clients", err)
		page.Flash = errorFlash("Erro ao carregar os clientes.")
	}
	data.Items = filterClients(items, data.Search, data.Sort)
	h.render(w, r, http.StatusOK, "clients", page)
}

// filterClients matches the search against name, email and phone digits,
// then orders by name (pt-BR collation) or by id (numeric when possible).
func filterClients(items []model.ClientRecord, search, sortBy string) []model.ClientRecord {
	needle := strings.ToLower(search)
	digits := format.PhoneDigits(search)
	out := make([]model.ClientRecord, 0, len(items))
	for _, c := range items {
		if needle != "" &&
			!strings.Contains(strings.ToLower(c.Name), needle) &&
			!strings.Contains(strings.ToLower(c.Email), needle) &&
			(digits == "" || !strings.Contains(format.PhoneDigits(c.Phone), digits)) {
			continue
		}
		out = append(out, c)
	}

	if sortBy == "id" {
		slices.SortStableFunc(out, func(a, b model.ClientRecord) int { return compareIDs(a.ID, b.ID) })
		return out
	}
	col := collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
	slices.SortStableFunc(out, func(a, b model.ClientRecord) int { return col.CompareString(a.Name, b.Name) })
	return out
}

func compareIDs(a, b string) int {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}

func clientFromForm(r *http.Request) model.ClientRecord {
	return model.ClientRecord{
		Name:    formValue(r, "name"),
		Phone:   format.Phone(formValue(r, "phone")),
		Email:   formValue(r, "email"),
		Address: formValue(r, "address"),
	}
}

func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	h.saveClient(w, r, "")
}

func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	h.saveClient(w, r, r.PathValue("id"))
}

func (h *Handler) saveClient(w http.ResponseWriter, r *http.Request, id string) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if msg := missingFields(r.PostForm, field{"name", "Nome"}); msg != "" {
		flash.Error(w, msg)
		redirect(w, r, "/clients")
		return
	}
	c := clientFromForm(r)
	ctx := apiCtx(r)

	var err error
	if id == "" {
		err = h.api.CreateClient(ctx, c)
	} else {
		c.ID = id
		err = h.api.UpdateClient(ctx, c)
	}
	if err != nil {
		if h.expired(w, r, err) {
			return
		}
		h.warn(r, "save_client", err)
		flash.Error(w, userMessage(err, "Erro ao salvar o cliente."))
		redirect(w, r, "/clients")
		return
	}
	flash.Success(w, "Cliente salvo com sucesso!")
	redirect(w, r, "/clients")
}
