package server

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matheus05dev/mindforge-front-sub001/internal/session"
)

// view is a protected page of the application shell
type view struct {
	Path  string
	Title string
}

var views = []view{
	{Path: "/estudos", Title: "Estudos"},
	{Path: "/kanban", Title: "Kanban"},
	{Path: "/conhecimento", Title: "Base de Conhecimento"},
	{Path: "/revisao", Title: "Revisão de Código"},
	{Path: "/decisoes", Title: "Decisões de Arquitetura"},
	{Path: "/perfil", Title: "Perfil"},
}

const layoutTemplates = `
{{define "header"}}<!doctype html>
<html lang="pt-BR">
<head><meta charset="utf-8"><title>{{.Title}} · MindForge</title>{{if .Refresh}}<meta http-equiv="refresh" content="1">{{end}}</head>
<body>
<nav>
  <a href="/">MindForge</a>
  {{if .User}}{{range .Views}}<a href="{{.Path}}">{{.Title}}</a> {{end}}
  <span class="user">{{.User.DisplayName}}</span>
  <form method="post" action="/logout" style="display:inline"><button type="submit">Sair</button></form>
  {{else}}<a href="/login">Entrar</a> <a href="/register">Criar conta</a>{{end}}
</nav>
{{range .Flash}}<div class="toast toast-{{.Kind}}" role="status">{{.Text}}</div>
{{end}}<main>{{end}}

{{define "footer"}}</main>
</body>
</html>{{end}}

{{define "loading"}}{{template "header" .}}<p class="loading" aria-busy="true">Carregando...</p>{{template "footer" .}}{{end}}

{{define "home"}}{{template "header" .}}
<h1>MindForge</h1>
{{if .User}}<p>Olá, {{.User.DisplayName}}!</p>{{else}}<p>Seu segundo cérebro para estudos, projetos e conhecimento.</p>
<p><a href="/login">Entrar</a> ou <a href="/register">criar uma conta</a>.</p>{{end}}
{{template "footer" .}}{{end}}

{{define "login"}}{{template "header" .}}
<h1>Entrar</h1>
<form method="post" action="/login">
  <label>Email <input type="email" name="email" value="{{.Email}}" required></label>
  <label>Senha <input type="password" name="password" required></label>
  <button type="submit">Entrar</button>
</form>
<p><a href="/auth/github">Entrar com GitHub</a></p>
{{template "footer" .}}{{end}}

{{define "register"}}{{template "header" .}}
<h1>Criar conta</h1>
<form method="post" action="/register">
  <label>Nome <input type="text" name="name" value="{{.Name}}" required></label>
  <label>Email <input type="email" name="email" value="{{.Email}}" required></label>
  <label>Senha <input type="password" name="password" minlength="6" required></label>
  <button type="submit">Criar conta</button>
</form>
{{template "footer" .}}{{end}}

{{define "view"}}{{template "header" .}}
<h1>{{.Title}}</h1>
<div id="app" data-api="/api"></div>
{{template "footer" .}}{{end}}

{{define "notfound"}}{{template "header" .}}<h1>Página não encontrada</h1>{{template "footer" .}}{{end}}
`

func parseTemplates() (*template.Template, error) {
	tmpl, err := template.New("pages").Parse(layoutTemplates)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}
	return tmpl, nil
}

// render drains pending notifications into the page data
func (s *Server) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	var user *session.User
	if s.store.IsAuthenticated() {
		user = s.store.User()
		if user == nil {
			user = &session.User{}
		}
	}

	data["User"] = user
	data["Views"] = views
	data["Flash"] = s.flash.Drain()
	if _, ok := data["Title"]; !ok {
		data["Title"] = "MindForge"
	}

	c.HTML(status, name, data)
}

func (s *Server) homePage(c *gin.Context) {
	s.render(c, http.StatusOK, "home", gin.H{"Title": "Início"})
}

func (s *Server) loginPage(c *gin.Context) {
	s.render(c, http.StatusOK, "login", gin.H{"Title": "Entrar"})
}

func (s *Server) registerPage(c *gin.Context) {
	s.render(c, http.StatusOK, "register", gin.H{"Title": "Criar conta"})
}

func (s *Server) viewPage(v view) gin.HandlerFunc {
	return func(c *gin.Context) {
		// A placeholder left by a failed OAuth profile fetch is retried once per page load
		if s.store.User().IsPlaceholder() {
			res := s.store.FetchUser(c.Request.Context())
			s.logger.Debug().
				Str("status", res.Status.String()).
				Msg("Retried profile fetch for placeholder")
		}
		s.render(c, http.StatusOK, "view", gin.H{"Title": v.Title})
	}
}

func (s *Server) notFound(c *gin.Context) {
	s.render(c, http.StatusNotFound, "notfound", gin.H{"Title": "Não encontrado"})
}
