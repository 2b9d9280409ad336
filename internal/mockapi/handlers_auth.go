package mockapi

import (
	"errors"
	"net/http"

	"github.com/TechyShie/ecopulse/internal/domain/account"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// signupRequest leaves the password length unbounded so bcrypt's own
// 72-byte limit surfaces as it does on the real backend.
type signupRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	FullName        string `json:"full_name" validate:"required,max=100"`
	ConfirmPassword string `json:"confirm_password" validate:"omitempty,eqfield=Password"`
}

type signupResponse struct {
	account.User
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := s.decode(r, &req); err != nil {
		writeValidation(w, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			writeDetail(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("hashing password", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	prof, err := s.store.createUser(req.Email, req.FullName, hash)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	token, err := s.tokens.Issue(prof.ID)
	if err != nil {
		s.logger.Error("issuing token", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusCreated, signupResponse{User: prof.Summary(), AccessToken: token, TokenType: "bearer"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req account.LoginRequest
	if err := s.decode(r, &req); err != nil {
		writeValidation(w, err)
		return
	}

	prof, hash, ok := s.store.credentials(req.Email)
	if !ok || bcrypt.CompareHashAndPassword(hash, []byte(req.Password)) != nil {
		// 400 rather than 401 so clients don't treat a typo as an expired session.
		writeDetail(w, http.StatusBadRequest, "Incorrect email or password")
		return
	}

	token, err := s.tokens.Issue(prof.ID)
	if err != nil {
		s.logger.Error("issuing token", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	user := prof.Summary()
	writeJSON(w, http.StatusOK, account.AuthResponse{AccessToken: token, TokenType: "bearer", User: &user})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	prof, ok := s.currentProfile(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, prof.Summary())
}

// currentProfile loads the authenticated user. A token for a user that no
// longer exists is treated as invalid.
func (s *Server) currentProfile(w http.ResponseWriter, r *http.Request) (account.Profile, bool) {
	userID, _ := UserFromContext(r.Context())
	prof, err := s.store.profile(userID)
	if err != nil {
		unauthorized(w, "Could not validate credentials")
		return account.Profile{}, false
	}
	return prof, true
}
