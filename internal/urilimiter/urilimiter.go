package urilimiter

import (
	"net/http"
	"strings"

	"gitlab.com/tachyons/filedrop/internal/httperrors"
	"gitlab.com/tachyons/filedrop/internal/logging"
	"gitlab.com/tachyons/filedrop/metrics"
)

// MaxSegmentLength is the longest file name most filesystems store (NAME_MAX)
const MaxSegmentLength = 255

const (
	reasonURILength     = "uri_length"
	reasonSegmentLength = "segment_length"
)

// NewMiddleware rejects with 414 requests whose raw URI is longer than limit,
// and requests with a path segment no file on disk could be named after,
// before a lookup or an upload write fails on it. A limit of 0 only
// disables the URI check.
func NewMiddleware(handler http.Handler, limit int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reason := rejectReason(r, limit); reason != "" {
			logging.LogRequest(r).WithField("reason", reason).Info("rejecting request URI")
			metrics.RejectedURIs.WithLabelValues(reason).Inc()
			httperrors.Serve414(w)

			return
		}

		handler.ServeHTTP(w, r)
	})
}

func rejectReason(r *http.Request, limit int) string {
	if limit > 0 && len(r.RequestURI) > limit {
		return reasonURILength
	}

	for _, segment := range strings.Split(r.URL.Path, "/") {
		if len(segment) > MaxSegmentLength {
			return reasonSegmentLength
		}
	}

	return ""
}
