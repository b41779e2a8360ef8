package handlers

import (
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"cableerp/models"
	"cableerp/repository"
	"cableerp/utils"
)

type UserHandler struct {
	Repo   repository.UserRepository
	Tokens *utils.TokenIssuer
}

// Signup handler
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var user models.AppUser
	if !decodeJSON(w, r, &user) {
		return
	}

	if user.Name == "" || user.Email == "" || user.Password == "" {
		writeJSON(w, http.StatusBadRequest, ApiResponse{
			Success: false,
			Message: "Name, email, and password are required",
		})
		return
	}
	// Roles are granted out of band, never self-assigned.
	user.Role = ""

	if err := h.Repo.CreateUser(r.Context(), &user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			writeJSON(w, http.StatusBadRequest, ApiResponse{
				Success: false,
				Message: "User already exists",
			})
			return
		}
		writeError(w, r, err)
		return
	}

	h.respondWithToken(w, r, http.StatusCreated, "User signed up successfully", &user)
}

// Login handler
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &creds) {
		return
	}

	user, err := h.Repo.GetUserByEmail(r.Context(), strings.ToLower(strings.TrimSpace(creds.Email)))
	if err != nil || user == nil {
		writeJSON(w, http.StatusUnauthorized, ApiResponse{
			Success: false,
			Message: "Invalid email or password",
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		writeJSON(w, http.StatusUnauthorized, ApiResponse{
			Success: false,
			Message: "Invalid email or password",
		})
		return
	}

	h.respondWithToken(w, r, http.StatusOK, "Login successful", user)
}

// Me returns the authenticated user.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.Repo.GetUserByID(r.Context(), UserID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil {
		writeJSON(w, http.StatusNotFound, ApiResponse{Success: false, Message: "User not found"})
		return
	}
	user.Password = ""
	ok(w, "", user)
}

func (h *UserHandler) respondWithToken(w http.ResponseWriter, r *http.Request, status int, msg string, user *models.AppUser) {
	token, _, err := h.Tokens.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	user.Password = "" // hide password hash
	writeJSON(w, status, ApiResponse{
		Success: true,
		Message: msg,
		Data:    user,
		Token:   token,
	})
}
