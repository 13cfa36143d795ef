package handlers

import (
	"net/http"

	"github.com/rs/cors"

	"gitlab.com/tachyons/filedrop/internal/config"
)

var (
	corsHandler = cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut},
		AllowedHeaders: []string{"Content-Type", "Range"},
		ExposedHeaders: []string{"Accept-Ranges", "Content-Range", "Content-Length"},
	})
)

// CorsHandler allows cross-origin reads and uploads unless they were
// disabled in the config
func CorsHandler(config *config.Config, handler http.Handler) http.Handler {
	if !config.General.DisableCrossOriginRequests {
		handler = corsHandler.Handler(handler)
	}
	return handler
}
