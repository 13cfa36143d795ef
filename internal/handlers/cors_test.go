package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/tachyons/filedrop/internal/config"
)

func TestCorsHandler(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("a,b"))
	})

	tests := map[string]struct {
		disabled   bool
		wantOrigin string
	}{
		"enabled": {
			wantOrigin: "*",
		},
		"disabled": {
			disabled:   true,
			wantOrigin: "",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := &config.Config{General: config.General{DisableCrossOriginRequests: tt.disabled}}

			r := httptest.NewRequest(http.MethodGet, "/list", nil)
			r.Header.Set("Origin", "https://example.com")
			w := httptest.NewRecorder()

			CorsHandler(cfg, next).ServeHTTP(w, r)

			require.Equal(t, http.StatusOK, w.Code)
			require.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			require.Equal(t, "a,b", w.Body.String())
		})
	}
}

func TestCorsHandlerPreflightUpload(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	r := httptest.NewRequest(http.MethodOptions, "/upload/report.csv", nil)
	r.Header.Set("Origin", "https://example.com")
	r.Header.Set("Access-Control-Request-Method", http.MethodPut)
	w := httptest.NewRecorder()

	CorsHandler(&config.Config{}, next).ServeHTTP(w, r)

	require.False(t, called)
	require.Equal(t, http.MethodPut, w.Header().Get("Access-Control-Allow-Methods"))
}
