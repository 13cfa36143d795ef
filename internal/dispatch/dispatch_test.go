package dispatch

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubResolver map[string]string

func (s stubResolver) Resolve(urlPath string) (string, bool) {
	path, ok := s[urlPath]
	return path, ok
}

type stubSender struct{}

func (stubSender) Send(w http.ResponseWriter, r *http.Request, path string) {
	io.WriteString(w, "file:"+path)
}

func textHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, body)
	})
}

func TestRouteKey(t *testing.T) {
	tests := map[string]string{
		"/":                 "/",
		"/list":             "/list",
		"/upload/foo.bin":   "/upload/",
		"/Upload/Foo.BIN":   "/upload/",
		"/app.js":           "/",
		"/a.b/c":            "/a.b/",
		"/CSS/Site.css":     "/css/",
		"/upload/no-dot":    "/upload/no-dot",
		"/nested/deep/x.js": "/nested/deep/",
	}

	for path, want := range tests {
		t.Run(path, func(t *testing.T) {
			require.Equal(t, want, RouteKey(path))
		})
	}
}

func TestServeHTTP(t *testing.T) {
	resolver := stubResolver{
		"/app.js":         "/srv/public/app.js",
		"/upload/foo.bin": "/srv/public/upload/foo.bin",
	}

	d := New(resolver, stubSender{},
		Route{Prefix: "/", Handler: textHandler("landing")},
		Route{Prefix: "/list", Handler: textHandler("listing")},
		Route{Prefix: "/upload/", Handler: textHandler("upload")},
		Route{Prefix: "/upload/", Handler: textHandler("shadowed")},
	)

	tests := map[string]struct {
		method     string
		target     string
		wantStatus int
		wantBody   string
	}{
		"static_file": {
			method:     http.MethodGet,
			target:     "/app.js",
			wantStatus: http.StatusOK,
			wantBody:   "file:/srv/public/app.js",
		},
		"static_file_with_query": {
			method:     http.MethodGet,
			target:     "/app.js?v=2",
			wantStatus: http.StatusOK,
			wantBody:   "file:/srv/public/app.js",
		},
		"head_is_a_read": {
			method:     http.MethodHead,
			target:     "/app.js",
			wantStatus: http.StatusOK,
			wantBody:   "file:/srv/public/app.js",
		},
		"landing": {
			method:     http.MethodGet,
			target:     "/",
			wantStatus: http.StatusOK,
			wantBody:   "landing",
		},
		"list": {
			method:     http.MethodGet,
			target:     "/list",
			wantStatus: http.StatusOK,
			wantBody:   "listing",
		},
		"upload_by_route_key": {
			method:     http.MethodPost,
			target:     "/upload/new.bin",
			wantStatus: http.StatusOK,
			wantBody:   "upload",
		},
		"writes_skip_static_resolution": {
			method:     http.MethodPut,
			target:     "/upload/foo.bin",
			wantStatus: http.StatusOK,
			wantBody:   "upload",
		},
		"route_key_is_lower_cased": {
			method:     http.MethodPost,
			target:     "/UPLOAD/foo.bin",
			wantStatus: http.StatusOK,
			wantBody:   "upload",
		},
		"missing_file_without_route": {
			method:     http.MethodGet,
			target:     "/css/missing.css",
			wantStatus: http.StatusInternalServerError,
			wantBody:   "Error loading /css/missing.css",
		},
		"unknown_route": {
			method:     http.MethodGet,
			target:     "/nowhere?x=1",
			wantStatus: http.StatusInternalServerError,
			wantBody:   "Error loading /nowhere?x=1",
		},
		"route_match_is_exact": {
			method:     http.MethodGet,
			target:     "/list/",
			wantStatus: http.StatusInternalServerError,
			wantBody:   "Error loading /list/",
		},
		"upload_without_dot_is_not_routed": {
			method:     http.MethodPost,
			target:     "/upload/foo",
			wantStatus: http.StatusInternalServerError,
			wantBody:   "Error loading /upload/foo",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(tt.method, tt.target, nil)

			d.ServeHTTP(w, r)

			require.Equal(t, tt.wantStatus, w.Code)
			require.Equal(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestServeHTTPRecoversFaults(t *testing.T) {
	d := New(stubResolver{}, stubSender{},
		Route{Prefix: "/list", Handler: http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("directory exploded")
		})},
	)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/list", nil)

	require.NotPanics(t, func() { d.ServeHTTP(w, r) })
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, "Unknown error: directory exploded", w.Body.String())
}

func TestServeHTTPRepanicsAbortHandler(t *testing.T) {
	d := New(stubResolver{}, stubSender{},
		Route{Prefix: "/list", Handler: http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic(http.ErrAbortHandler)
		})},
	)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/list", nil)

	require.PanicsWithValue(t, http.ErrAbortHandler, func() { d.ServeHTTP(w, r) })
}

func TestFileHandler(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	FileHandler(stubSender{}, "./public/index.html").ServeHTTP(w, r)

	require.Equal(t, "file:./public/index.html", w.Body.String())
}
