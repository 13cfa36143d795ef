package healthcheck

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"gitlab.com/tachyons/filedrop/internal/logging"
	"gitlab.com/tachyons/filedrop/metrics"
)

// Check answers requests for a status path. filedrop is healthy while every
// directory it serves from can be opened and listed.
type Check struct {
	statusPath string
	dirs       []string
	results    *prometheus.CounterVec
}

// NewMiddleware answers requests for statusPath and passes everything else
// to handler. An empty statusPath disables the check.
func NewMiddleware(handler http.Handler, statusPath string, dirs ...string) http.Handler {
	if statusPath == "" {
		return handler
	}

	c := &Check{
		statusPath: statusPath,
		dirs:       dirs,
		results:    metrics.HealthChecks,
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != c.statusPath {
			handler.ServeHTTP(w, r)
			return
		}

		c.ServeHTTP(w, r)
	})
}

func (c *Check) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if err := c.verify(); err != nil {
		logging.LogRequest(r).WithError(err).Warn("health check failed")
		c.results.WithLabelValues("failure").Inc()

		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("failure\n"))
		return
	}

	c.results.WithLabelValues("success").Inc()
	w.Write([]byte("success\n"))
}

func (c *Check) verify() error {
	for _, dir := range c.dirs {
		if err := readable(dir); err != nil {
			return err
		}
	}

	return nil
}

func readable(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return err
	}

	if !fi.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	// an unreadable directory still opens, listing it fails
	if _, err := f.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}
