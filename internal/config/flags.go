package config

import (
	"time"

	"github.com/namsral/flag"
)

var (
	port           = flag.Int("port", 8080, "The port to listen on for HTTP requests when no -listen-http address is given")
	metricsAddress = flag.String("metrics-address", "", "The address to listen on for metrics requests")
	statusPath     = flag.String("status-path", "", "The url path for a status page, e.g., /-/healthcheck")
	useHTTP2       = flag.Bool("use-http2", true, "Enable cleartext HTTP/2 (h2c) support")

	publicRoot         = flag.String("public-root", "./public", "The directory static files are served from")
	dataDir            = flag.String("data-dir", "./public/data", "The directory uploaded files are stored in and listed from")
	landingPage        = flag.String("landing-page", "./public/index.html", "The file served for requests to /")
	largeFileThreshold = flag.Int64("large-file-threshold", DefaultLargeFileThreshold, "Files larger than this many bytes are streamed instead of buffered")
	maxUploadSize      = flag.Int64("max-upload-size", 0, "The maximum size of an uploaded file in bytes, 0 for no limit")

	// HTTP rate limits
	rateLimitSourceIP      = flag.Float64("rate-limit-source-ip", 0.0, "Rate limit HTTP requests per second from a single IP, 0 means is disabled")
	rateLimitSourceIPBurst = flag.Int("rate-limit-source-ip-burst", 100, "Rate limit HTTP requests from a single IP, maximum burst allowed per second")

	maxConns     = flag.Int("max-conns", 0, "Limit on the number of concurrent connections to the HTTP or proxy listeners, 0 for no limit")
	maxURILength = flag.Int("max-uri-length", 1024, "Limit the length of URI, 0 for unlimited.")

	serverReadHeaderTimeout = flag.Duration("server-read-header-timeout", 5*time.Second, "ReadHeaderTimeout is the amount of time allowed to read request headers. A zero or negative value means there will be no timeout.")
	serverKeepAlive         = flag.Duration("server-keep-alive", 3*time.Minute, "KeepAlive specifies the keep-alive period for accepted TCP connections. A zero or negative value disables keep-alives.")
	serverShutdownTimeout   = flag.Duration("server-shutdown-timeout", 30*time.Second, "filedrop server shutdown timeout (default: 30s)")

	logFormat         = flag.String("log-format", "text", "The log output format: 'text' or 'json'")
	logVerbose        = flag.Bool("log-verbose", false, "Verbose logging")
	sentryDSN         = flag.String("sentry-dsn", "", "The address for sending sentry crash reporting to")
	sentryEnvironment = flag.String("sentry-environment", "", "The environment for sentry crash reporting")

	propagateCorrelationID     = flag.Bool("propagate-correlation-id", false, "Reuse existing Correlation-ID from the incoming request header `X-Request-ID` if present")
	disableCrossOriginRequests = flag.Bool("disable-cross-origin-requests", false, "Disable cross-origin requests")

	showVersion = flag.Bool("version", false, "Show version")

	// See initFlags()
	listenHTTP  = MultiStringFlag{separator: ","}
	listenProxy = MultiStringFlag{separator: ","}

	header = MultiStringFlag{separator: ";;"}
)

// initFlags will be called from LoadConfig
func initFlags() {
	flag.Var(&listenHTTP, "listen-http", "The address(es) to listen on for HTTP requests, overrides -port")
	flag.Var(&listenProxy, "listen-proxy", "The address(es) to listen on for PROXY protocol requests (https://www.haproxy.org/download/1.8/doc/proxy-protocol.txt)")
	flag.Var(&header, "header", "The additional http header(s) that should be send to the client")

	// read from -config=/path/to/filedrop-config
	flag.String(flag.DefaultConfigFlagname, "", "path to config file")

	flag.Parse()
}
