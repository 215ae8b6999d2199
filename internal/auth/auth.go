package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Lelo88/menu-api-golang/internal/httpx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName es la cookie alternativa al header Authorization.
const CookieName = "admin_session"

const (
	issuer  = "menu-api"
	subject = "admin"
)

var (
	ErrorDisabled           = errors.New("admin access is disabled")
	ErrorInvalidCredentials = errors.New("invalid credentials")
	ErrorInvalidToken       = errors.New("invalid token")
	ErrorExpiredToken       = errors.New("token has expired")
	ErrorMissingToken       = errors.New("missing token")
)

// Claims es el contenido del token de sesión.
type Claims struct {
	jwt.RegisteredClaims
}

// Session es lo que devuelve el login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Manager emite y verifica tokens HS256 para el único usuario administrador.
// Sin password configurada todo queda bloqueado.
type Manager struct {
	password []byte
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewManager crea el manager. password vacía deshabilita el acceso.
func NewManager(password, secret string, ttl time.Duration) *Manager {
	return &Manager{
		password: []byte(password),
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Enabled indica si se puede iniciar sesión.
func (manager *Manager) Enabled() bool {
	return len(manager.password) > 0 && len(manager.secret) > 0
}

// Login compara la password en tiempo constante y emite un token.
func (manager *Manager) Login(password string) (Session, error) {
	if !manager.Enabled() {
		return Session{}, ErrorDisabled
	}
	if subtle.ConstantTimeCompare([]byte(password), manager.password) != 1 {
		return Session{}, ErrorInvalidCredentials
	}

	issuedAt := manager.now().UTC()
	expiresAt := issuedAt.Add(manager.ttl)
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(manager.secret)
	if err != nil {
		return Session{}, fmt.Errorf("sign token: %w", err)
	}
	return Session{Token: signed, ExpiresAt: expiresAt.Truncate(time.Second)}, nil
}

// Verify valida firma, algoritmo, emisor y vencimiento.
func (manager *Manager) Verify(tokenString string) (*Claims, error) {
	if !manager.Enabled() {
		return nil, ErrorDisabled
	}
	if tokenString == "" {
		return nil, ErrorMissingToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return manager.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithSubject(subject),
		jwt.WithTimeFunc(manager.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrorExpiredToken
		}
		return nil, ErrorInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrorInvalidToken
	}
	return claims, nil
}

// Middleware exige un token válido en Authorization: Bearer o en la cookie.
func (manager *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := manager.Verify(tokenFrom(r))
		if err != nil {
			httpx.Fail(w, r, http.StatusUnauthorized, "unauthorized", "admin session required")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, claims)))
	})
}

func tokenFrom(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := r.Cookie(CookieName); err == nil {
		return cookie.Value
	}
	return ""
}

type loginRequest struct {
	Password string `json:"password"`
}

// Handler maneja POST /admin/login. Además del cuerpo JSON deja la cookie
// de sesión para el back-office web.
func (manager *Manager) Handler(w http.ResponseWriter, r *http.Request) {
	var input loginRequest
	if !httpx.Decode(w, r, &input) {
		return
	}

	session, err := manager.Login(input.Password)
	switch {
	case errors.Is(err, ErrorDisabled):
		httpx.Fail(w, r, http.StatusServiceUnavailable, "admin_disabled", "admin access is not configured")
		return
	case errors.Is(err, ErrorInvalidCredentials):
		httpx.Fail(w, r, http.StatusUnauthorized, "unauthorized", "invalid credentials")
		return
	case err != nil:
		httpx.Fail(w, r, http.StatusInternalServerError, "internal_error", "unexpected error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
	httpx.OK(w, r, http.StatusOK, session)
}

type contextKey struct{}

// ClaimsFrom devuelve los claims guardados por el middleware, si hay.
func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(contextKey{}).(*Claims)
	return claims, ok
}
