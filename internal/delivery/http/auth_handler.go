package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"lexlink/internal/entity"
	"lexlink/internal/usecase"
)

type AuthHandler struct {
	authUc usecase.AuthUsecase
}

func NewAuthHandler(authUc usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{
		authUc: authUc,
	}
}

// POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req entity.RegisterRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Message: "invalid request body"})
		return
	}

	if req.Email == "" || req.Password == "" || req.Username == "" || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, Response{Message: "email, username, password, and name are required"})
		return
	}
	if len(req.Password) < 6 {
		writeJSON(w, http.StatusBadRequest, Response{Message: "password must be at least 6 characters"})
		return
	}
	if len(req.Username) < 3 {
		writeJSON(w, http.StatusBadRequest, Response{Message: "username must be at least 3 characters"})
		return
	}

	authResponse, err := h.authUc.Register(r.Context(), req)
	if err != nil {
		log.Printf("Register error: %v", err)

		statusCode := http.StatusInternalServerError
		message := "internal server error"

		switch {
		case errors.Is(err, usecase.ErrEmailAlreadyTaken):
			statusCode = http.StatusConflict
			message = "email already taken"
		case errors.Is(err, usecase.ErrUsernameAlreadyTaken):
			statusCode = http.StatusConflict
			message = "username already taken"
		case errors.Is(err, usecase.ErrInvalidRole):
			statusCode = http.StatusBadRequest
			message = err.Error()
		}

		writeJSON(w, statusCode, Response{Message: message})
		return
	}

	h.setRefreshTokenCookie(w, authResponse.RefreshToken)
	authResponse.RefreshToken = ""

	writeJSON(w, http.StatusCreated, Response{Message: "registration successful", Data: authResponse})
}

// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req entity.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Message: "invalid request body"})
		return
	}

	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, Response{Message: "email and password are required"})
		return
	}

	authResponse, err := h.authUc.Login(r.Context(), req)
	if err != nil {
		log.Printf("Login error: %v", err)

		if errors.Is(err, usecase.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, Response{Message: "invalid email or password"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, Response{Message: "internal server error"})
		return
	}

	h.setRefreshTokenCookie(w, authResponse.RefreshToken)
	authResponse.RefreshToken = ""

	writeJSON(w, http.StatusOK, Response{Message: "login successful", Data: authResponse})
}

// POST /auth/refresh
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	refreshToken := h.refreshTokenFromRequest(r)
	if refreshToken == "" {
		writeJSON(w, http.StatusBadRequest, Response{Message: "refresh token is required"})
		return
	}

	authResponse, err := h.authUc.RefreshToken(r.Context(), refreshToken)
	if err != nil {
		log.Printf("Refresh token error: %v", err)

		message := "invalid or expired refresh token"
		switch {
		case errors.Is(err, usecase.ErrExpiredRefreshToken):
			message = "refresh token has expired"
		case errors.Is(err, usecase.ErrRevokedRefreshToken):
			message = "refresh token has been revoked"
		}

		h.clearRefreshTokenCookie(w)
		writeJSON(w, http.StatusUnauthorized, Response{Message: message})
		return
	}

	h.setRefreshTokenCookie(w, authResponse.RefreshToken)
	authResponse.RefreshToken = ""

	writeJSON(w, http.StatusOK, Response{Message: "token refreshed successfully", Data: authResponse})
}

// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	refreshToken := h.refreshTokenFromRequest(r)
	if refreshToken != "" {
		if err := h.authUc.Logout(r.Context(), refreshToken); err != nil {
			log.Printf("Logout error: %v", err)
		}
	}

	h.clearRefreshTokenCookie(w)
	writeJSON(w, http.StatusOK, Response{Message: "logout successful"})
}

// POST /auth/logout-all
func (h *AuthHandler) LogoutAllDevices(w http.ResponseWriter, r *http.Request) {
	userId, ok := CurrentUserId(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	if err := h.authUc.LogoutAllDevices(r.Context(), userId); err != nil {
		log.Printf("Logout all devices error: %v", err)
		writeJSON(w, http.StatusInternalServerError, Response{Message: "internal server error"})
		return
	}

	h.clearRefreshTokenCookie(w)
	writeJSON(w, http.StatusOK, Response{Message: "logged out from all devices successfully"})
}

// refreshTokenFromRequest prefers the HttpOnly cookie, falling back to the
// request body for non-browser clients.
func (h *AuthHandler) refreshTokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie("refresh_token"); err == nil {
		return cookie.Value
	}

	var req entity.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
		return req.RefreshToken
	}
	return ""
}

func (h *AuthHandler) setRefreshTokenCookie(w http.ResponseWriter, token string) {
	cookie := &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true in production with HTTPS
		SameSite: http.SameSiteLaxMode,
		MaxAge:   30 * 24 * 60 * 60,
	}
	http.SetCookie(w, cookie)
}

func (h *AuthHandler) clearRefreshTokenCookie(w http.ResponseWriter) {
	cookie := &http.Cookie{
		Name:     "refresh_token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	}
	http.SetCookie(w, cookie)
}
