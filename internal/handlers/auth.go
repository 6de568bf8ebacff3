package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"AMESAI_BACK-END/internal/config"
	"AMESAI_BACK-END/internal/dto"
	"AMESAI_BACK-END/internal/middleware"
	"AMESAI_BACK-END/internal/models"
	"AMESAI_BACK-END/internal/store"
	"AMESAI_BACK-END/internal/utils"
)

// AuthHandler handles registration, login and account management
type AuthHandler struct {
	users  store.Users
	config *config.Config
	logger *zap.SugaredLogger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(users store.Users, cfg *config.Config, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{users: users, config: cfg, logger: logger}
}

func validateCredentials(username, password string, passwordRequired bool) map[string]string {
	fields := map[string]string{}
	// Character bound, not a byte bound; multibyte usernames count per rune.
	if n := utf8.RuneCountInString(username); n < 2 || n > 25 {
		fields["username"] = "Username must be between 2 and 25 characters"
	}
	if password == "" && passwordRequired {
		fields["password"] = "Password is required"
	} else if password != "" && len(password) < 6 {
		fields["password"] = "Password must be at least 6 characters"
	}
	return fields
}

func newUserResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
}

// Register handles user registration
// @Summary Register a new user
// @Description Create a new user account with username and password
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "User registration data"
// @Success 201 {object} dto.AuthResponse "User created successfully"
// @Failure 400 {object} dto.ValidationErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Username already taken"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if fields := validateCredentials(req.Username, req.Password, true); len(fields) > 0 {
		utils.WriteValidationErrorResponse(w, fields)
		return
	}

	// Hash password; plaintext never reaches the store
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Errorw("hash password", "err", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Registration failed", "Please try again later")
		return
	}

	user, err := h.users.Create(r.Context(), req.Username, string(hashedPassword))
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			utils.WriteErrorResponse(w, http.StatusConflict, "Username already taken", "Please choose a different username")
			return
		}
		h.logger.Errorw("create user", "err", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Registration failed", "Please try again later")
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Username, &h.config.JWT)
	if err != nil {
		h.logger.Errorw("generate token", "err", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Registration failed", "Please try again later")
		return
	}

	h.logger.Infow("user registered", "user_id", user.ID, "username", user.Username)
	utils.WriteJSONResponse(w, http.StatusCreated, dto.AuthResponse{User: newUserResponse(user), Token: token})
}

// Login handles user login
// @Summary Login user
// @Description Authenticate user with username and password
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.AuthResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if req.Username == "" || req.Password == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing required fields", "Username and password are required")
		return
	}

	// Unknown username and wrong password produce the same response, so the
	// endpoint cannot be used to probe for registered usernames.
	user, err := h.users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.logger.Errorw("look up user", "err", err)
			utils.WriteErrorResponse(w, http.StatusInternalServerError, "Login failed", "Please try again later")
			return
		}
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid credentials", "Username or password is incorrect")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid credentials", "Username or password is incorrect")
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Username, &h.config.JWT)
	if err != nil {
		h.logger.Errorw("generate token", "err", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Login failed", "Please try again later")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.AuthResponse{User: newUserResponse(user), Token: token})
}

// Logout acknowledges a logout request
// @Summary Logout user
// @Description Ends the session; the client discards its token
// @Tags authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.MessageResponse "Logged out"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Tokens are stateless; logout is the client discarding its copy.
	utils.WriteJSONResponse(w, http.StatusOK, dto.MessageResponse{Message: "Logged out successfully"})
}

// Account dispatches by HTTP method for /api/account
func (h *AuthHandler) Account(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.GetAccount(w, r)
	case http.MethodPut:
		h.UpdateAccount(w, r)
	case http.MethodDelete:
		h.DeleteAccount(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// GetAccount returns the current user's account
// @Summary Get own account
// @Tags account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /api/account [get]
func (h *AuthHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "User not authenticated")
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "User not found", "The account no longer exists")
			return
		}
		h.logger.Errorw("load account", "err", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to load account", "Please try again later")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, newUserResponse(user))
}

// UpdateAccount changes the username and optionally the password
// @Summary Update own account
// @Tags account
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateAccountRequest true "New account data"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 409 {object} dto.ErrorResponse "Username already taken"
// @Router /api/account [put]
func (h *AuthHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "User not authenticated")
		return
	}

	var req dto.UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if fields := validateCredentials(req.Username, req.Password, false); len(fields) > 0 {
		utils.WriteValidationErrorResponse(w, fields)
		return
	}

	// Empty password keeps the current hash
	passwordHash := ""
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			h.logger.Errorw("hash password", "err", err)
			utils.WriteErrorResponse(w, http.StatusInternalServerError, "Update failed", "Please try again later")
			return
		}
		passwordHash = string(hashed)
	}

	user, err := h.users.Update(r.Context(), userID, req.Username, passwordHash)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateUsername):
			utils.WriteErrorResponse(w, http.StatusConflict, "Username already taken", "Please choose a different username")
		case errors.Is(err, store.ErrNotFound):
			utils.WriteErrorResponse(w, http.StatusNotFound, "User not found", "The account no longer exists")
		default:
			h.logger.Errorw("update account", "err", err)
			utils.WriteErrorResponse(w, http.StatusInternalServerError, "Update failed", "Please try again later")
		}
		return
	}

	h.logger.Infow("account updated", "user_id", user.ID)
	utils.WriteJSONResponse(w, http.StatusOK, newUserResponse(user))
}

// DeleteAccount removes the account and all of its prediction history
// @Summary Delete own account
// @Description Deletes the account and cascades to all owned history entries
// @Tags account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.MessageResponse "Account deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /api/account [delete]
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "User not authenticated")
		return
	}

	if err := h.users.Delete(r.Context(), userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "User not found", "The account no longer exists")
			return
		}
		h.logger.Errorw("delete account", "err", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Deletion failed", "Please try again later")
		return
	}

	h.logger.Infow("account deleted", "user_id", userID)
	utils.WriteJSONResponse(w, http.StatusOK, dto.MessageResponse{Message: "Account deleted"})
}
