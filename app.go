package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ghandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"gitlab.com/gitlab-org/labkit/correlation"
	labkitlog "gitlab.com/gitlab-org/labkit/log"
	labmetrics "gitlab.com/gitlab-org/labkit/metrics"
	"golang.org/x/sync/errgroup"

	"gitlab.com/tachyons/filedrop/internal/config"
	"gitlab.com/tachyons/filedrop/internal/customheaders"
	"gitlab.com/tachyons/filedrop/internal/dispatch"
	"gitlab.com/tachyons/filedrop/internal/handlers"
	"gitlab.com/tachyons/filedrop/internal/healthcheck"
	"gitlab.com/tachyons/filedrop/internal/listing"
	"gitlab.com/tachyons/filedrop/internal/logging"
	"gitlab.com/tachyons/filedrop/internal/netutil"
	"gitlab.com/tachyons/filedrop/internal/ratelimiter"
	"gitlab.com/tachyons/filedrop/internal/static"
	"gitlab.com/tachyons/filedrop/internal/transmit"
	"gitlab.com/tachyons/filedrop/internal/upload"
	"gitlab.com/tachyons/filedrop/internal/urilimiter"
	"gitlab.com/tachyons/filedrop/metrics"
)

var metricsMiddleware = labmetrics.NewHandlerFactory(labmetrics.WithNamespace("filedrop"))

type theApp struct {
	config *config.Config
}

// routes returns the route table in match order
func (a *theApp) routes(sender dispatch.Sender) []dispatch.Route {
	dataDir := a.config.Serving.DataDir

	return []dispatch.Route{
		{Prefix: "/", Handler: dispatch.FileHandler(sender, a.config.Serving.LandingPage)},
		{Prefix: "/list", Handler: listing.Handler(dataDir)},
		{Prefix: "/upload/", Handler: upload.New(dataDir, upload.WithMaxSize(a.config.Upload.MaxSize))},
	}
}

func (a *theApp) dispatcher() http.Handler {
	resolver := static.NewResolver(a.config.Serving.SearchPaths()...)
	sender := transmit.New(transmit.WithThreshold(a.config.Serving.LargeFileThreshold))

	return dispatch.New(resolver, sender, a.routes(sender)...)
}

// buildHandlerPipeline wraps the dispatcher in every configured middleware.
// The last middleware added runs first.
func (a *theApp) buildHandlerPipeline() (http.Handler, error) {
	handler := a.dispatcher()

	headers, err := customheaders.ParseHeaderString(a.config.General.CustomHeaders)
	if err != nil {
		return nil, fmt.Errorf("parsing custom headers: %w", err)
	}
	handler = customheaders.NewMiddleware(handler, headers)
	handler = handlers.CorsHandler(a.config, handler)
	handler = healthcheck.NewMiddleware(handler, a.config.General.StatusPath, a.config.Serving.SearchPaths()...)
	handler = urilimiter.NewMiddleware(handler, a.config.General.MaxURILength)

	if a.config.RateLimit.SourceIPLimitPerSecond > 0 {
		rl := ratelimiter.New(
			ratelimiter.WithSourceIPLimitPerSecond(a.config.RateLimit.SourceIPLimitPerSecond),
			ratelimiter.WithSourceIPBurstSize(a.config.RateLimit.SourceIPBurst),
		)
		handler = rl.SourceIPLimiter(handler)
	}

	handler = metricsMiddleware(handler)

	handler, err = logging.BasicAccessLogger(handler, a.config.Log.Format, routeKeyFields)
	if err != nil {
		return nil, err
	}

	correlationOpts := []correlation.InboundHandlerOption{
		correlation.WithSetResponseHeader(),
	}
	if a.config.General.PropagateCorrelationID {
		correlationOpts = append(correlationOpts, correlation.WithPropagation())
	}

	return correlation.InjectCorrelationID(handler, correlationOpts...), nil
}

func routeKeyFields(r *http.Request) labkitlog.Fields {
	return labkitlog.Fields{
		"filedrop_route_key": dispatch.RouteKey(r.URL.Path),
	}
}

func metricsHandler() http.Handler {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return router
}

func (a *theApp) connectionLimiter() *netutil.Limiter {
	if a.config.General.MaxConns == 0 {
		return nil
	}

	return netutil.NewLimiter(a.config.General.MaxConns, netutil.Gauges{
		Max:        metrics.LimitListenerMaxConns,
		Concurrent: metrics.LimitListenerConcurrentConns,
		Waiting:    metrics.LimitListenerWaitingConns,
	})
}

// listen opens every configured listener up front so that an unusable
// address fails startup before anything is served
func (a *theApp) listen(handler http.Handler) ([]listenerConfig, error) {
	var listeners []listenerConfig

	limiter := a.connectionLimiter()
	proxyHandler := ghandlers.ProxyHeaders(handler)

	add := func(addr string, lc listenerConfig) error {
		l, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", addr, err)
		}

		lc.listener = l
		listeners = append(listeners, lc)

		log.WithFields(log.Fields{
			"listener": addr,
			"proxy":    lc.isProxy,
		}).Debug("Set up listener")

		return nil
	}

	var err error
	for _, addr := range a.config.HTTPAddresses() {
		if err = add(addr, listenerConfig{limiter: limiter, handler: handler}); err != nil {
			break
		}
	}

	if err == nil {
		for _, addr := range a.config.ListenProxyStrings.Split() {
			if err = add(addr, listenerConfig{isProxy: true, limiter: limiter, handler: proxyHandler}); err != nil {
				break
			}
		}
	}

	if err == nil && a.config.General.MetricsAddress != "" {
		err = add(a.config.General.MetricsAddress, listenerConfig{handler: metricsHandler()})
	}

	if err != nil {
		closeListeners(listeners)
		return nil, err
	}

	return listeners, nil
}

func closeListeners(listeners []listenerConfig) {
	for _, lc := range listeners {
		lc.listener.Close()
	}
}

// Run serves every listener until ctx is cancelled or one of them fails,
// then shuts all servers down
func (a *theApp) Run(ctx context.Context) error {
	handler, err := a.buildHandlerPipeline()
	if err != nil {
		return err
	}

	listeners, err := a.listen(handler)
	if err != nil {
		return err
	}

	servers := make([]*http.Server, 0, len(listeners))
	for _, lc := range listeners {
		server, err := a.newServer(lc)
		if err != nil {
			closeListeners(listeners)
			return err
		}
		servers = append(servers, server)
	}

	g, gctx := errgroup.WithContext(ctx)

	for i := range listeners {
		server, lc := servers[i], listeners[i]

		g.Go(func() error {
			return a.serve(server, lc)
		})
	}

	g.Go(func() error {
		<-gctx.Done()

		return a.shutdown(servers)
	})

	return g.Wait()
}

func (a *theApp) shutdown(servers []*http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	log.WithField("timeout", a.config.Server.ShutdownTimeout).Info("shutting down servers")

	var result *multierror.Error
	for _, server := range servers {
		if err := server.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

func runApp(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &theApp{config: cfg}

	return a.Run(ctx)
}
