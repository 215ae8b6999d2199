package health

import (
	"context"
	"net/http"
	"time"

	"github.com/Lelo88/menu-api-golang/internal/httpx"
)

const readyTimeout = 2 * time.Second

// Pinger es cualquier dependencia que se pueda verificar con un ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapta una función a Pinger.
type PingFunc func(ctx context.Context) error

func (ping PingFunc) Ping(ctx context.Context) error {
	return ping(ctx)
}

// Handler expone /health y /ready.
type Handler struct {
	database Pinger
	cache    Pinger
}

// New crea un handler de health. database nil hace que /ready falle.
func New(database Pinger) *Handler {
	return &Handler{database: database}
}

// WithCache agrega la caché a /ready. Una caché caída no deja al servicio
// fuera de servicio (la carta se lee de la base), solo lo marca degradado.
func (handler *Handler) WithCache(cache Pinger) *Handler {
	handler.cache = cache
	return handler
}

// Health indica si el proceso está vivo. No chequea dependencias.
func (handler *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, r, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready verifica la base de datos (y la caché si está configurada).
func (handler *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if handler.database == nil {
		httpx.Fail(w, r, http.StatusServiceUnavailable, "not_ready", "database pool not configured")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := handler.database.Ping(ctx); err != nil {
		httpx.Fail(w, r, http.StatusServiceUnavailable, "not_ready", "database is not reachable")
		return
	}

	checks := map[string]string{"database": "ok"}
	status := "ready"
	if handler.cache != nil {
		checks["cache"] = "ok"
		if err := handler.cache.Ping(ctx); err != nil {
			checks["cache"] = "unreachable"
			status = "degraded"
		}
	}

	httpx.OK(w, r, http.StatusOK, map[string]any{
		"status": status,
		"checks": checks,
	})
}
