package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"
)

// maxBodyBytes limita el tamaño de los payloads de administración.
const maxBodyBytes = 1 << 20

// Response es el sobre estándar que devuelve la API.
type Response struct {
	Data  any        `json:"data,omitempty"`
	Error *ErrorBody `json:"error,omitempty"`
	Meta  *Meta      `json:"meta,omitempty"`
}

// Meta contiene información de trazabilidad.
type Meta struct {
	RequestID string `json:"request_id,omitempty"`
	TimeUTC   string `json:"time_utc,omitempty"`
}

// ErrorBody describe un error de forma estructurada.
// Nunca lleva detalles internos (SQL, stacktrace).
type ErrorBody struct {
	Code    string `json:"code,omitempty"`    // ej: "invalid_input", "not_found"
	Message string `json:"message,omitempty"` // mensaje para humanos
}

// JSON escribe una respuesta JSON con headers correctos.
// Si falla la serialización responde 500 con un cuerpo fijo.
func JSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)

	if err := enc.Encode(resp); err != nil {
		http.Error(w, `{"error":{"code":"internal","message":"internal server error"}}`, http.StatusInternalServerError)
	}
}

func meta(r *http.Request) *Meta {
	return &Meta{
		RequestID: RequestIDFrom(r),
		TimeUTC:   time.Now().UTC().Format(time.RFC3339),
	}
}

// OK devuelve una respuesta exitosa con data.
func OK(w http.ResponseWriter, r *http.Request, status int, data any) {
	JSON(w, status, Response{Data: data, Meta: meta(r)})
}

// Fail devuelve un error estructurado.
func Fail(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	JSON(w, status, Response{
		Error: &ErrorBody{Code: code, Message: message},
		Meta:  meta(r),
	})
}

// Decode lee el body JSON en dst. Si falla escribe 400 invalid_json y
// devuelve false; el handler solo tiene que cortar.
func Decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		var maxBytesError *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesError):
			Fail(w, r, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
		case errors.Is(err, io.EOF):
			Fail(w, r, http.StatusBadRequest, "invalid_json", "request body is empty")
		default:
			Fail(w, r, http.StatusBadRequest, "invalid_json", "invalid JSON body")
		}
		return false
	}
	return true
}
