package api

import (
	"net/http"

	"github.com/dewabisma/parfum-api/internal/auth"
)

type loginPayload struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type verifyAccountPayload struct {
	Token string `json:"token" validate:"required,len=64"`
}

type requestPasswordResetPayload struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordPayload struct {
	Token    string `json:"token" validate:"required,len=64"`
	Password string `json:"password" validate:"required,min=8"`
}

type oauthLoginPayload struct {
	Token string `json:"token" validate:"required,len=64"`
}

// handleRegister creates an inactive account. The verification token rides
// along in the response until mail delivery exists.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload auth.RegisterInput
	if err := s.decodeBody(r, &payload); err != nil {
		s.renderError(w, r, err)
		return
	}

	user, token, err := s.deps.Auth.Register(r.Context(), payload)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.renderData(w, http.StatusCreated, map[string]any{
		"id":                user.ID,
		"verificationToken": token,
	})
}

// handleRegisterOAuth creates an active oauth-backed account and returns the
// exchange token the client trades for a session.
func (s *Server) handleRegisterOAuth(w http.ResponseWriter, r *http.Request) {
	var payload auth.RegisterOAuthInput
	if err := s.decodeBody(r, &payload); err != nil {
		s.renderError(w, r, err)
		return
	}

	user, token, err := s.deps.Auth.RegisterOAuth(r.Context(), payload)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.renderData(w, http.StatusCreated, map[string]any{
		"id":         user.ID,
		"oauthToken": token,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if err := s.decodeBody(r, &payload); err != nil {
		s.renderError(w, r, err)
		return
	}

	user, token, err := s.deps.Auth.Login(r.Context(), payload.Login, payload.Password)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.renderData(w, http.StatusOK, map[string]any{
		"user":  user,
		"token": token,
	})
}

// handleOAuthLogin trades a stored oauth exchange token for a session token.
func (s *Server) handleOAuthLogin(w http.ResponseWriter, r *http.Request) {
	var payload oauthLoginPayload
	if err := s.decodeBody(r, &payload); err != nil {
		s.renderError(w, r, err)
		return
	}

	user, err := s.deps.Auth.ValidateOauthToken(r.Context(), payload.Token)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	token, err := s.deps.Auth.SignToken(user)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.renderData(w, http.StatusOK, map[string]any{
		"user":  user,
		"token": token,
	})
}

func (s *Server) handleVerifyAccount(w http.ResponseWriter, r *http.Request) {
	var payload verifyAccountPayload
	if err := s.decodeBody(r, &payload); err != nil {
		s.renderError(w, r, err)
		return
	}

	if err := s.deps.Auth.VerifyAccount(r.Context(), payload.Token); err != nil {
		s.renderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var payload requestPasswordResetPayload
	if err := s.decodeBody(r, &payload); err != nil {
		s.renderError(w, r, err)
		return
	}

	token, err := s.deps.Auth.RequestPasswordReset(r.Context(), payload.Email)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.renderData(w, http.StatusOK, map[string]string{"resetToken": token})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var payload resetPasswordPayload
	if err := s.decodeBody(r, &payload); err != nil {
		s.renderError(w, r, err)
		return
	}

	if err := s.deps.Auth.ResetPassword(r.Context(), payload.Token, payload.Password); err != nil {
		s.renderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
