package auth

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/saulo-duarte/pestcert-lambda/internal/config"
)

const sessionTTL = 8 * time.Hour

type Handler struct {
	adminEmails  map[string]struct{}
	passwordHash []byte
	secureCookie bool
}

func NewHandler(adminEmails []string, passwordHash string, secureCookie bool) *Handler {
	emails := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		emails[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}
	return &Handler{
		adminEmails:  emails,
		passwordHash: []byte(passwordHash),
		secureCookie: secureCookie,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !h.allowed(email, req.Password) {
		log.WithField("email", email).Warn("Admin login rejected")
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := GenerateJWT(email, RoleAdmin, sessionTTL)
	if err != nil {
		log.WithError(err).Error("Failed to issue admin token")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	expires := time.Now().Add(sessionTTL)
	http.SetCookie(w, h.cookie(token, int(sessionTTL.Seconds())))

	log.WithField("email", email).Info("Admin logged in")
	config.JSON(w, http.StatusOK, loginResponse{Token: token, Role: RoleAdmin, ExpiresAt: expires})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.cookie("", -1))

	config.JSON(w, http.StatusOK, map[string]string{
		"message": "logout successful",
	})
}

func (h *Handler) allowed(email, password string) bool {
	if _, ok := h.adminEmails[email]; !ok || len(h.passwordHash) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword(h.passwordHash, []byte(password)) == nil
}

func (h *Handler) cookie(value string, maxAge int) *http.Cookie {
	c := &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	if h.secureCookie {
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}
