package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matheus05dev/mindforge-front-sub001/internal/account"
	"github.com/matheus05dev/mindforge-front-sub001/internal/guard"
	"github.com/matheus05dev/mindforge-front-sub001/internal/oauth"
)

// login handles the credential form. On failure the form is rendered again
// with the email kept so the user can retry.
func (s *Server) login(c *gin.Context) {
	var in account.LoginInput
	if err := c.ShouldBind(&in); err != nil {
		s.logger.Warn().Err(err).Msg("Invalid login form")
		s.render(c, http.StatusBadRequest, "login", gin.H{"Title": "Entrar"})
		return
	}

	if _, err := s.accounts.Login(c.Request.Context(), in); err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, account.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		s.render(c, status, "login", gin.H{"Title": "Entrar", "Email": in.Email})
		return
	}

	redirect(c, guard.HomePath)
}

func (s *Server) register(c *gin.Context) {
	var in account.RegisterInput
	if err := c.ShouldBind(&in); err != nil {
		s.logger.Warn().Err(err).Msg("Invalid registration form")
		s.render(c, http.StatusBadRequest, "register", gin.H{"Title": "Criar conta"})
		return
	}

	if _, err := s.accounts.Register(c.Request.Context(), in); err != nil {
		status := http.StatusBadRequest
		if !errors.Is(err, account.ErrInvalidInput) {
			status = http.StatusUnprocessableEntity
		}
		s.render(c, status, "register", gin.H{"Title": "Criar conta", "Name": in.Name, "Email": in.Email})
		return
	}

	redirect(c, guard.HomePath)
}

func (s *Server) logout(c *gin.Context) {
	s.accounts.Logout()
	redirect(c, guard.LoginPath)
}

// githubLogin sends the browser to the backend, which runs the OAuth dance
// and comes back to /auth/callback?token=...
func (s *Server) githubLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, s.config.API.GitHubAuthURL)
}

func (s *Server) oauthCallback(c *gin.Context) {
	cb := oauth.NewCallback(s.store, s.flash, s.logger)
	outcome := cb.Handle(c.Request.Context(), c.Request.URL.Query())

	s.logger.Info().
		Str("state", outcome.State.String()).
		Str("profile", outcome.Fetch.Status.String()).
		Msg("OAuth callback finished")

	c.Redirect(http.StatusFound, outcome.Redirect)
}
