package httpx

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// maxRequestIDLength acota el id que se acepta del cliente; termina en los logs.
const maxRequestIDLength = 128

// RequestIDFrom devuelve el id que middleware.RequestID dejó en el contexto o,
// fuera del router, el header X-Request-Id si es imprimible y corto.
func RequestIDFrom(request *http.Request) string {
	if request == nil {
		return ""
	}
	if requestID := middleware.GetReqID(request.Context()); requestID != "" {
		return requestID
	}

	header := strings.TrimSpace(request.Header.Get(middleware.RequestIDHeader))
	if len(header) > maxRequestIDLength || strings.IndexFunc(header, isControl) >= 0 {
		return ""
	}
	return header
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f
}
