package config

import (
	"net"
	"strconv"
	"time"

	"github.com/namsral/flag"
	log "github.com/sirupsen/logrus"
)

// DefaultLargeFileThreshold is the size in bytes above which files are
// streamed rather than read into memory.
const DefaultLargeFileThreshold = 1024 * 1000

// Config stores all the config options relevant to filedrop.
type Config struct {
	General   General
	Serving   Serving
	Upload    Upload
	RateLimit RateLimit
	Server    Server
	Log       Log
	Sentry    Sentry

	// These fields contain the raw strings passed for listen-http and
	// listen-proxy. appMain() turns them into listeners.
	ListenHTTPStrings  MultiStringFlag
	ListenProxyStrings MultiStringFlag
}

// General groups settings that are general to filedrop and can not
// be categorized under other head.
type General struct {
	Port           int
	HTTP2          bool
	MaxConns       int
	MaxURILength   int
	MetricsAddress string
	StatusPath     string

	DisableCrossOriginRequests bool
	PropagateCorrelationID     bool

	ShowVersion bool

	CustomHeaders []string
}

// Serving groups settings used to find and transmit files
type Serving struct {
	PublicRoot         string
	DataDir            string
	LandingPage        string
	LargeFileThreshold int64
}

// SearchPaths returns the directories checked, in order, for a requested
// static file.
func (s Serving) SearchPaths() []string {
	return []string{s.PublicRoot, s.DataDir}
}

// Upload groups settings related to receiving uploads
type Upload struct {
	MaxSize int64
}

// RateLimit groups settings related to rate limiting
type RateLimit struct {
	SourceIPLimitPerSecond float64
	SourceIPBurst          int
}

// Server groups settings related to the HTTP servers
type Server struct {
	ReadHeaderTimeout time.Duration
	KeepAlive         time.Duration
	ShutdownTimeout   time.Duration
}

// Log groups settings related to configuring logging
type Log struct {
	Format  string
	Verbose bool
}

// Sentry groups settings related to configuring Sentry
type Sentry struct {
	DSN         string
	Environment string
}

// HTTPAddresses returns the addresses of the plain HTTP listeners. When no
// -listen-http is given the server listens on all interfaces on -port.
func (c *Config) HTTPAddresses() []string {
	if c.ListenHTTPStrings.Len() > 0 {
		return c.ListenHTTPStrings.Split()
	}

	return []string{net.JoinHostPort("", strconv.Itoa(c.General.Port))}
}

func loadConfig() (*Config, error) {
	config := &Config{
		General: General{
			Port:                       *port,
			HTTP2:                      *useHTTP2,
			MaxConns:                   *maxConns,
			MaxURILength:               *maxURILength,
			MetricsAddress:             *metricsAddress,
			StatusPath:                 *statusPath,
			DisableCrossOriginRequests: *disableCrossOriginRequests,
			PropagateCorrelationID:     *propagateCorrelationID,
			CustomHeaders:              header.Split(),
			ShowVersion:                *showVersion,
		},
		Serving: Serving{
			PublicRoot:         *publicRoot,
			DataDir:            *dataDir,
			LandingPage:        *landingPage,
			LargeFileThreshold: *largeFileThreshold,
		},
		Upload: Upload{
			MaxSize: *maxUploadSize,
		},
		RateLimit: RateLimit{
			SourceIPLimitPerSecond: *rateLimitSourceIP,
			SourceIPBurst:          *rateLimitSourceIPBurst,
		},
		Server: Server{
			ReadHeaderTimeout: *serverReadHeaderTimeout,
			KeepAlive:         *serverKeepAlive,
			ShutdownTimeout:   *serverShutdownTimeout,
		},
		Log: Log{
			Format:  *logFormat,
			Verbose: *logVerbose,
		},
		Sentry: Sentry{
			DSN:         *sentryDSN,
			Environment: *sentryEnvironment,
		},

		ListenHTTPStrings:  listenHTTP,
		ListenProxyStrings: listenProxy,
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// LogConfig writes the effective configuration to the debug log
func LogConfig(config *Config) {
	log.WithFields(log.Fields{
		"default-config-filename":       flag.DefaultConfigFlagname,
		"disable-cross-origin-requests": config.General.DisableCrossOriginRequests,
		"listen-http":                   config.HTTPAddresses(),
		"listen-proxy":                  config.ListenProxyStrings.Split(),
		"log-format":                    config.Log.Format,
		"metrics-address":               config.General.MetricsAddress,
		"status-path":                   config.General.StatusPath,
		"use-http2":                     config.General.HTTP2,
		"max-conns":                     config.General.MaxConns,
		"max-uri-length":                config.General.MaxURILength,
		"propagate-correlation-id":      config.General.PropagateCorrelationID,
		"public-root":                   config.Serving.PublicRoot,
		"data-dir":                      config.Serving.DataDir,
		"landing-page":                  config.Serving.LandingPage,
		"large-file-threshold":          config.Serving.LargeFileThreshold,
		"max-upload-size":               config.Upload.MaxSize,
		"rate-limit-source-ip":          config.RateLimit.SourceIPLimitPerSecond,
		"rate-limit-source-ip-burst":    config.RateLimit.SourceIPBurst,
		"server-shutdown-timeout":       config.Server.ShutdownTimeout,
	}).Debug("Start filedrop with configuration")
}

// LoadConfig parses configuration settings passed as command line arguments,
// environment variables or via config file, and populates a Config object
// with those values
func LoadConfig() (*Config, error) {
	initFlags()

	return loadConfig()
}
