package handlers

import (
	"net/http"
	"time"

	"pickem-app-go/logging"
	"pickem-app-go/middleware"
	"pickem-app-go/models"
	"pickem-app-go/services"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService  *services.AuthService
	emailService *services.EmailService
	behindProxy  bool
	logger       *logging.Logger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService *services.AuthService, emailService *services.EmailService, behindProxy bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		emailService: emailService,
		behindProxy:  behindProxy,
		logger:       logging.WithPrefix("AuthHandler"),
	}
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq models.LoginRequest
	if err := decodeJSON(r, &loginReq); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if loginReq.Email == "" || loginReq.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	authResponse, err := h.authService.Login(loginReq.Email, loginReq.Password)
	if err != nil {
		h.logger.Warnf("Login failed for %s: %v", loginReq.Email, err)
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	h.setAuthCookie(w, authResponse.Token)
	h.logger.Infof("User %s (%s) logged in", authResponse.User.Name, authResponse.User.Email)
	writeJSON(w, http.StatusOK, authResponse)
}

// Logout handles POST /api/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   !h.behindProxy,
		SameSite: http.SameSiteStrictMode,
	})

	h.logger.Infof("User logged out from %s", r.RemoteAddr)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Me returns the current user's information
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, user.ToSafeUser())
}

// ForgotPassword handles POST /api/forgot-password. The response never
// reveals whether the email exists. With SMTP configured the reset link is
// mailed; otherwise the token only shows up in the server log for an
// operator to relay.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordResetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	token, err := h.authService.RequestPasswordReset(req.Email)
	switch {
	case err != nil:
		h.logger.Errorf("Password reset request failed for %s: %v", req.Email, err)
	case token == "":
		h.logger.Infof("Password reset requested for unknown email %s", req.Email)
	default:
		h.deliverResetToken(r, req.Email, token)
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "if the email exists, a reset token has been issued",
	})
}

// deliverResetToken mails the reset link when SMTP is configured, falling
// back to the operator-relay log line when it isn't or the send fails.
func (h *AuthHandler) deliverResetToken(r *http.Request, email, token string) {
	if h.emailService.IsConfigured() {
		user, err := h.authService.GetUserByEmail(email)
		if err == nil && user != nil {
			if err := h.emailService.SendPasswordResetEmail(user.Email, user.Name, token, h.baseURL(r)); err == nil {
				return
			}
			h.logger.Errorf("Failed to send reset email to %s, falling back to log", email)
		}
	}
	h.logger.Infof("Password reset token for %s: %s", email, token)
}

// baseURL reconstructs the externally visible origin for links in email.
func (h *AuthHandler) baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// ResetPassword handles POST /api/reset-password
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var form models.PasswordResetForm
	if err := decodeJSON(r, &form); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if form.Token == "" {
		writeError(w, http.StatusBadRequest, "reset token is required")
		return
	}
	if form.ConfirmPassword != "" && form.NewPassword != form.ConfirmPassword {
		writeError(w, http.StatusBadRequest, "passwords do not match")
		return
	}

	if err := h.authService.ResetPassword(form.Token, form.NewPassword); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.Infof("Password reset completed for token %s...", form.Token[:min(8, len(form.Token))])
	writeJSON(w, http.StatusOK, map[string]string{"status": "password reset"})
}

// setAuthCookie sets the authentication cookie
func (h *AuthHandler) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(24 * 180 * time.Hour),
		HttpOnly: true,
		Secure:   !h.behindProxy,
		SameSite: http.SameSiteStrictMode,
	})
}
