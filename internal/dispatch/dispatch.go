package dispatch

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"gitlab.com/tachyons/filedrop/internal/errortracking"
	"gitlab.com/tachyons/filedrop/internal/httperrors"
	"gitlab.com/tachyons/filedrop/internal/logging"
	"gitlab.com/tachyons/filedrop/internal/request"
	"gitlab.com/tachyons/filedrop/metrics"
)

// Resolver finds the file on disk for a request path
type Resolver interface {
	Resolve(urlPath string) (string, bool)
}

// Sender writes a resolved file to the client
type Sender interface {
	Send(w http.ResponseWriter, r *http.Request, path string)
}

// Route binds a route key to the handler serving it
type Route struct {
	Prefix  string
	Handler http.Handler
}

// Dispatcher serves static files found by its resolver and falls back to
// an ordered route table
type Dispatcher struct {
	resolver Resolver
	sender   Sender
	routes   []Route
	outcomes *prometheus.CounterVec
}

// New returns a Dispatcher. Routes are matched in the given order.
func New(resolver Resolver, sender Sender, routes ...Route) *Dispatcher {
	return &Dispatcher{
		resolver: resolver,
		sender:   sender,
		routes:   append([]Route(nil), routes...),
		outcomes: metrics.DispatchedRequests,
	}
}

// RouteKey returns the key a request path is matched against in the route
// table. Paths with a dot are treated as file requests and keyed by their
// lower-cased directory, including the trailing slash.
func RouteKey(path string) string {
	if !looksLikeFile(path) {
		return path
	}

	return strings.ToLower(path[:strings.LastIndex(path, "/")+1])
}

func looksLikeFile(path string) bool {
	return strings.Contains(path, ".")
}

func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer d.recoverFault(w, r)

	path := r.URL.Path

	if request.IsRead(r) && looksLikeFile(path) {
		if fullPath, ok := d.resolver.Resolve(path); ok {
			d.outcomes.WithLabelValues("static").Inc()
			d.sender.Send(w, r, fullPath)
			return
		}
	}

	if handler := d.match(RouteKey(path)); handler != nil {
		d.outcomes.WithLabelValues("route").Inc()
		handler.ServeHTTP(w, r)
		return
	}

	d.outcomes.WithLabelValues("unresolved").Inc()
	logging.LogRequest(r).Debug("no file or route found")
	httperrors.Serve500(w, "Error loading "+r.URL.RequestURI())
}

func (d *Dispatcher) match(key string) http.Handler {
	for _, route := range d.routes {
		if route.Prefix == key {
			return route.Handler
		}
	}

	return nil
}

// recoverFault turns a panic raised while serving into a 500 response
// carrying the panic message
func (d *Dispatcher) recoverFault(w http.ResponseWriter, r *http.Request) {
	recovered := recover()
	if recovered == nil {
		return
	}

	if recovered == http.ErrAbortHandler {
		panic(recovered)
	}

	err := errortracking.PanicError(recovered)

	d.outcomes.WithLabelValues("fault").Inc()
	logging.LogRequest(r).WithError(err).Error("unhandled fault while dispatching request")
	errortracking.CaptureErrWithReqAndStackTrace(err, r)

	httperrors.Serve500(w, "Unknown error: "+err.Error())
}

// FileHandler always sends the file at path, used for fixed routes such as
// the landing page
func FileHandler(sender Sender, path string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sender.Send(w, r, path)
	})
}
