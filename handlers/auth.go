package handlers

import (
	"errors"
	"net/http"

	"kanban-board/database"
	"kanban-board/services"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	authService *services.AuthService
	dataService *database.DataService
}

func NewAuthHandler(authService *services.AuthService, dataService *database.DataService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		dataService: dataService,
	}
}

// userResponse is the public shape of a user. The password hash never
// leaves the server.
type userResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type authResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (req registerRequest) Validate() []FieldError {
	var details []FieldError
	if !validEmail(req.Email) {
		details = append(details, FieldError{Field: "email", Message: "must be a valid email address"})
	}
	if len(req.Password) < 6 {
		details = append(details, FieldError{Field: "password", Message: "must be at least 6 characters"})
	}
	if len(req.Name) < 2 {
		details = append(details, FieldError{Field: "name", Message: "must be at least 2 characters"})
	}
	return details
}

// Register creates a new user and returns it with a fresh token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) || !validate(w, req) {
		return
	}

	if _, err := h.dataService.GetUserByEmail(req.Email); err == nil {
		writeError(w, http.StatusConflict, CodeConflict, "User with this email already exists")
		return
	} else if !errors.Is(err, database.ErrNotFound) {
		writeInternalError(w, "Register error", err)
		return
	}

	hashed, err := h.authService.HashPassword(req.Password)
	if err != nil {
		writeInternalError(w, "Register error", err)
		return
	}

	user, err := h.dataService.CreateUser(req.Email, hashed, req.Name)
	if err != nil {
		// Two racing registrations: the unique index on email wins.
		if database.IsUniqueViolation(err) {
			writeError(w, http.StatusConflict, CodeConflict, "User with this email already exists")
			return
		}
		writeInternalError(w, "Register error", err)
		return
	}

	token, err := h.authService.CreateToken(user.ID)
	if err != nil {
		writeInternalError(w, "Register error", err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		User:  userResponse{ID: user.ID, Email: user.Email, Name: user.Name},
		Token: token,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req loginRequest) Validate() []FieldError {
	var details []FieldError
	if !validEmail(req.Email) {
		details = append(details, FieldError{Field: "email", Message: "must be a valid email address"})
	}
	if req.Password == "" {
		details = append(details, FieldError{Field: "password", Message: "is required"})
	}
	return details
}

// Login verifies credentials and returns the user with a fresh token.
// Unknown email and wrong password yield the same message so accounts
// cannot be enumerated.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) || !validate(w, req) {
		return
	}

	user, err := h.dataService.GetUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, CodeUnauthorized, "Invalid email or password")
			return
		}
		writeInternalError(w, "Login error", err)
		return
	}

	if !h.authService.CheckPassword(req.Password, user.Password) {
		writeError(w, http.StatusUnauthorized, CodeUnauthorized, "Invalid email or password")
		return
	}

	token, err := h.authService.CreateToken(user.ID)
	if err != nil {
		writeInternalError(w, "Login error", err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		User:  userResponse{ID: user.ID, Email: user.Email, Name: user.Name},
		Token: token,
	})
}
