package handlers

import (
	"net/http"

	"github.com/barberpro/barberweb/services/web-service/internal/apiclient"
	"github.com/barberpro/barberweb/services/web-service/internal/flash"
	"github.com/barberpro/barberweb/services/web-service/internal/views"
)

const minPasswordLen = 6

type authForm struct {
	Name  string
	Email string
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login", views.Page{Title: "Login", Data: authForm{}})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := authForm{Email: formValue(r, "email")}
	page := views.Page{Title: "Login", Data: form}

	if msg := missingFields(r.PostForm, field{"email", "E-mail"}, field{"password", "Senha"}); msg != "" {
		page.Flash = errorFlash(msg)
		h.render(w, r, http.StatusUnprocessableEntity, "login", page)
		return
	}

	s, err := h.api.Login(r.Context(), form.Email, r.PostFormValue("password"))
	if err != nil {
		h.warn(r, "login", err)
		msg := "Erro ao entrar. Tente novamente."
		if apiclient.IsStatus(err, http.StatusUnauthorized) || apiclient.IsStatus(err, http.StatusBadRequest) {
			msg = userMessage(err, "E-mail ou senha incorretos.")
		}
		page.Flash = errorFlash(msg)
		h.render(w, r, http.StatusUnprocessableEntity, "login", page)
		return
	}

	if err := h.sessions.Start(w, s.Token, s.ID.String(), s.Name); err != nil {
		h.logger.Error("session start failed", "err", err)
		h.renderError(w, r, http.StatusInternalServerError, "Não foi possível iniciar a sessão.")
		return
	}
	redirect(w, r, "/dashboard")
}

func (h *Handler) SignUpPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register", views.Page{Title: "Cadastro", Data: authForm{}})
}

func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := authForm{Name: formValue(r, "name"), Email: formValue(r, "email")}
	page := views.Page{Title: "Cadastro", Data: form}
	password := r.PostFormValue("password")

	msg := missingFields(r.PostForm, field{"name", "Nome"}, field{"email", "E-mail"}, field{"password", "Senha"})
	if msg == "" && len([]rune(password)) < minPasswordLen {
		msg = "A senha deve ter pelo menos 6 caracteres."
	}
	if msg != "" {
		page.Flash = errorFlash(msg)
		h.render(w, r, http.StatusUnprocessableEntity, "register", page)
		return
	}

	if err := h.api.Register(r.Context(), form.Name, form.Email, password); err != nil {
		h.warn(r, "register", err)
		page.Flash = errorFlash(userMessage(err, "Erro ao cadastrar. Tente novamente."))
		h.render(w, r, http.StatusUnprocessableEntity, "register", page)
		return
	}
	flash.Success(w, "Conta criada! Faça login para continuar.")
	redirect(w, r, "/login")
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	redirect(w, r, "/login")
}
