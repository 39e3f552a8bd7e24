package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pollylang/pollylang-backend/internal/domain"
	"github.com/pollylang/pollylang-backend/internal/service/auth"
)

type authService interface {
	Register(ctx context.Context, input auth.RegisterInput) (*auth.AuthResult, error)
	Login(ctx context.Context, input auth.LoginInput) (*auth.AuthResult, error)
}

type sessionCookies interface {
	SessionCookie(token string) *http.Cookie
	ClearCookie() *http.Cookie
}

// AuthHandler serves account endpoints and sets the session cookie.
type AuthHandler struct {
	svc     authService
	cookies sessionCookies
	log     *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(svc authService, cookies sessionCookies, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, cookies: cookies, log: logger.With("handler", "auth")}
}

type registerRequest struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	CharacterName string `json:"characterName"`
}

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

type userIDResponse struct {
	UserID string `json:"userId"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	result, err := h.svc.Register(r.Context(), auth.RegisterInput{
		Username:      req.Username,
		Email:         req.Email,
		Password:      req.Password,
		CharacterName: req.CharacterName,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	http.SetCookie(w, h.cookies.SessionCookie(result.Token))
	writeJSON(w, http.StatusOK, userIDResponse{UserID: result.User.ID.String()})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	result, err := h.svc.Login(r.Context(), auth.LoginInput{
		UsernameOrEmail: req.UsernameOrEmail,
		Password:        req.Password,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	http.SetCookie(w, h.cookies.SessionCookie(result.Token))
	writeJSON(w, http.StatusOK, userIDResponse{UserID: result.User.ID.String()})
}

// Logout handles POST /api/auth/logout. Sessions are stateless, so it only
// expires the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	http.SetCookie(w, h.cookies.ClearCookie())
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (h *AuthHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrMissingFields):
		writeError(w, http.StatusBadRequest, "Missing fields")
	case errors.Is(err, auth.ErrInvalidUsername):
		writeError(w, http.StatusBadRequest, "Invalid username")
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, validationMessage(err))
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, domain.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "Username already taken")
	case errors.Is(err, domain.ErrEmailTaken):
		writeError(w, http.StatusConflict, "Email already in use")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "Account already exists")
	default:
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "Internal error")
	}
}

func validationMessage(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) && len(ve.Errors) > 0 {
		fe := ve.Errors[0]
		return fe.Field + ": " + fe.Message
	}
	return "Invalid request"
}
