package docs

import (
	"embed"
	"net/http"
)

//go:embed openapi.yaml swagger.html
var assets embed.FS

// asset sirve un archivo embebido con su content type.
func asset(name, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := assets.ReadFile(name)
		if err != nil {
			http.Error(w, name+" not found", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", contentType)
		// La documentación cambia solo con un deploy.
		w.Header().Set("Cache-Control", "public, max-age=300")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}
}

// OpenAPI sirve la descripción OpenAPI de la carta y del back-office.
func OpenAPI() http.HandlerFunc {
	return asset("openapi.yaml", "application/yaml; charset=utf-8")
}

// SwaggerUI sirve la página que consume /docs/openapi.yaml.
func SwaggerUI() http.HandlerFunc {
	return asset("swagger.html", "text/html; charset=utf-8")
}
