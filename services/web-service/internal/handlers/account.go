package handlers

import (
	"net/http"

	"github.com/barberpro/barberweb/services/web-service/internal/flash"
	"github.com/barberpro/barberweb/services/web-service/internal/model"
	"github.com/barberpro/barberweb/services/web-service/internal/views"
)

type plansData struct {
	Premium bool
}

func (h *Handler) Plans(w http.ResponseWriter, r *http.Request) {
	page := views.Page{Title: "Planos", Nav: "plans"}
	u, err := h.api.Me(apiCtx(r))
	if err != nil {
		if h.expired(w, r, err) {
			return
		}
		h.warn(r, "me", err)
		page.Flash = errorFlash("Erro ao carregar a sua assinatura.")
	}
	page.Data = plansData{Premium: u.Premium}
	h.render(w, r, http.StatusOK, "plans", page)
}

type checkoutData struct {
	SessionID      string
	PublishableKey string
}

// Subscribe asks the API for a checkout session. A returned URL is followed
// directly; a bare session id is handed to stripe.js.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	co, err := h.api.Subscribe(apiCtx(r))
	if err != nil {
		if h.expired(w, r, err) {
			return
		}
		h.warn(r, "subscribe", err)
		flash.Error(w, userMessage(err, "Erro ao iniciar a assinatura."))
		redirect(w, r, "/plans")
		return
	}
	switch {
	case co.URL != "":
		redirect(w, r, co.URL)
	case co.SessionID != "" && h.stripeKey != "":
		h.render(w, r, http.StatusOK, "checkout", views.Page{
			Title: "Assinatura",
			Nav:   "plans",
			Data:  checkoutData{SessionID: co.SessionID, PublishableKey: h.stripeKey},
		})
	default:
		h.logger.Warn("subscribe returned no checkout target")
		flash.Error(w, "Erro ao iniciar a assinatura.")
		redirect(w, r, "/plans")
	}
}

func (h *Handler) Portal(w http.ResponseWriter, r *http.Request) {
	co, err := h.api.CreatePortal(apiCtx(r))
	if err != nil {
		if h.expired(w, r, err) {
			return
		}
		h.warn(r, "create_portal", err)
		flash.Error(w, userMessage(err, "Erro ao abrir o portal da assinatura."))
		redirect(w, r, "/plans")
		return
	}
	target := co.URL
	if target == "" {
		target = co.SessionID
	}
	if target == "" {
		flash.Error(w, "Erro ao abrir o portal da assinatura.")
		redirect(w, r, "/plans")
		return
	}
	redirect(w, r, target)
}

type profileData struct {
	User       model.User
	BookingURL string
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	page := views.Page{Title: "Minha conta", Nav: "profile"}
	u, err := h.api.Me(apiCtx(r))
	if err != nil {
		if h.expired(w, r, err) {
			return
		}
		h.warn(r, "me", err)
		page.Flash = errorFlash("Erro ao carregar os seus dados.")
		u = model.User{ID: sess.UserID, Name: sess.Name}
	}
	page.Data = profileData{User: u, BookingURL: bookingPath(sess.UserID)}
	h.render(w, r, http.StatusOK, "profile", page)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if msg := missingFields(r.PostForm, field{"name", "Nome"}); msg != "" {
		flash.Error(w, msg)
		redirect(w, r, "/profile")
		return
	}
	name, address := formValue(r, "name"), formValue(r, "address")
	if err := h.api.UpdateUser(apiCtx(r), name, address); err != nil {
		if h.expired(w, r, err) {
			return
		}
		h.warn(r, "update_user", err)
		flash.Error(w, userMessage(err, "Erro ao atualizar os dados."))
		redirect(w, r, "/profile")
		return
	}

	// Keep the sidebar name in step with the new one.
	sess := currentSession(r)
	if err := h.sessions.Start(w, sess.Token, sess.UserID, name); err != nil {
		h.logger.Error("session refresh failed", "err", err)
	}
	flash.Success(w, "Dados atualizados com sucesso!")
	redirect(w, r, "/profile")
}

func bookingPath(userID string) string {
	if userID == "" {
		return ""
	}
	return "/agendar/" + userID
}
