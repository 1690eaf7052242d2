package transport

import (
	"net/http"
	"time"

	"github.com/rpggio/crmdesk/internal/domain/user"
)

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Avatar    string `json:"avatar"`
	Timezone  string `json:"timezone"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Avatar    *string `json:"avatar"`
	Timezone  *string `json:"timezone"`
}

type themeRequest struct {
	Theme user.Theme `json:"theme_preference"`
}

type authResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresAt   time.Time  `json:"expires_at"`
	User        *user.User `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body registerRequest
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	u, err := s.svc.Users.Register(r.Context(), user.RegisterRequest{
		Email:     body.Email,
		Password:  body.Password,
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Phone:     body.Phone,
		Avatar:    body.Avatar,
		Timezone:  body.Timezone,
	})
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	s.writeToken(w, r, http.StatusCreated, u)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	u, err := s.svc.Users.Authenticate(r.Context(), body.Email, body.Password)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	s.writeToken(w, r, http.StatusOK, u)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, err := s.svc.Users.Get(r.Context(), currentUser(r))
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var body profileRequest
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	u, err := s.svc.Users.UpdateProfile(r.Context(), currentUser(r), user.ProfileUpdate{
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Phone:     body.Phone,
		Avatar:    body.Avatar,
		Timezone:  body.Timezone,
	})
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleUpdateTheme(w http.ResponseWriter, r *http.Request) {
	var body themeRequest
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	u, err := s.svc.Users.UpdateTheme(r.Context(), currentUser(r), body.Theme)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) writeToken(w http.ResponseWriter, r *http.Request, status int, u *user.User) {
	token, expires, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	writeJSON(w, status, authResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expires,
		User:        u,
	})
}
