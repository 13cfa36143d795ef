package httperrors

import (
	"io"
	"net/http"

	"gitlab.com/tachyons/filedrop/internal/errortracking"
	"gitlab.com/tachyons/filedrop/internal/logging"
)

type content struct {
	status int
	body   string
}

var (
	content413 = content{
		http.StatusRequestEntityTooLarge,
		"Upload exceeds the maximum allowed size",
	}
	content414 = content{
		http.StatusRequestURITooLong,
		"Request URI too long",
	}
	content429 = content{
		http.StatusTooManyRequests,
		"Too many requests",
	}
)

// serveErrorPage replaces anything a handler may have prepared for a
// successful response with a plain text error body
func serveErrorPage(w http.ResponseWriter, c content) {
	h := w.Header()
	h.Del("Content-Length")
	h.Del("Content-Range")
	h.Del("Accept-Ranges")
	h.Set("Content-Type", "text/plain; charset=utf-8")
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(c.status)
	io.WriteString(w, c.body)
}

// Serve400 returns a 400 error response with message as body
func Serve400(w http.ResponseWriter, message string) {
	serveErrorPage(w, content{http.StatusBadRequest, message})
}

// Serve413 returns a 413 error response to the http.ResponseWriter
func Serve413(w http.ResponseWriter) {
	serveErrorPage(w, content413)
}

// Serve414 returns a 414 error response to the http.ResponseWriter
func Serve414(w http.ResponseWriter) {
	serveErrorPage(w, content414)
}

// Serve416 returns a 416 response with an empty body, advertising that no
// part of the resource can satisfy the requested range
func Serve416(w http.ResponseWriter) {
	h := w.Header()
	h.Del("Content-Type")
	h.Set("Content-Length", "0")
	h.Set("Content-Range", "bytes */*")
	w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
}

// Serve429 returns a 429 error response to the http.ResponseWriter
func Serve429(w http.ResponseWriter) {
	serveErrorPage(w, content429)
}

// Serve500 returns a 500 error response with message as body
func Serve500(w http.ResponseWriter, message string) {
	serveErrorPage(w, content{http.StatusInternalServerError, message})
}

// Serve500WithRequest logs and reports err before returning a 500 error
// response with message as body
func Serve500WithRequest(w http.ResponseWriter, r *http.Request, message string, err error) {
	logging.LogRequest(r).WithError(err).Error(message)
	errortracking.CaptureErrWithReqAndStackTrace(err, r)
	Serve500(w, message)
}
