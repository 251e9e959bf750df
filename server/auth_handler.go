package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/123ibadullah/MusicWebApplication/core/auth"
	"github.com/123ibadullah/MusicWebApplication/logger"
	"github.com/123ibadullah/MusicWebApplication/model"
	"github.com/123ibadullah/MusicWebApplication/repository"
)

type contextKey string

const (
	ctxUserID   contextKey = "userID"
	ctxUsername contextKey = "username"
)

// RegisterHandler creates an account and returns a session token.
func (h *APIHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Username, email and password are required")
		return
	}
	if len(req.Password) < 6 {
		respondError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.Error("failed to hash password", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to process password")
		return
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashed,
	}
	if err := h.userRepo.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			logger.Warn("registration with existing username or email",
				logger.String("username", req.Username))
			respondError(w, http.StatusConflict, "Username or email already exists")
			return
		}
		logger.Error("failed to create user", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Username)
	if err != nil {
		logger.Error("failed to generate token", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	logger.Info("user registered", logger.String("username", user.Username))
	respondSuccess(w, "Account created", map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// LoginHandler authenticates by username or email and returns a session token.
func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"` // username or email
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	var user *model.User
	var err error
	if strings.Contains(req.Username, "@") {
		user, err = h.userRepo.GetUserByEmail(r.Context(), req.Username)
	} else {
		user, err = h.userRepo.GetUserByUsername(r.Context(), req.Username)
	}
	if err != nil {
		logger.Error("failed to query user", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if user == nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.Warn("failed login attempt", logger.String("username", req.Username))
		respondError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Username)
	if err != nil {
		logger.Error("failed to generate token", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	logger.Info("user logged in", logger.String("username", user.Username))
	respondSuccess(w, "", map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// ProfileHandler returns the authenticated user's account.
func (h *APIHandler) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	user, err := h.userRepo.GetUserByID(r.Context(), userID)
	if err != nil {
		logger.Error("failed to query user", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}
	respondSuccess(w, "", map[string]interface{}{"user": user})
}

// AuthMiddleware checks for a valid bearer token and stores the identity in
// the request context.
func (h *APIHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondError(w, http.StatusUnauthorized, "Authorization header is required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := auth.ParseToken(parts[1])
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID)
		ctx = context.WithValue(ctx, ctxUsername, claims.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// GetUserIDFromContext extracts the user id set by AuthMiddleware.
func GetUserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(ctxUserID).(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}
