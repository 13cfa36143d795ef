package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"gitlab.com/tachyons/filedrop/internal/config"
	"gitlab.com/tachyons/filedrop/internal/errortracking"
	"gitlab.com/tachyons/filedrop/internal/logging"
	"gitlab.com/tachyons/filedrop/internal/validateargs"
	"gitlab.com/tachyons/filedrop/metrics"
)

// VERSION stores the information about the semantic version of application
var VERSION = "dev"

// REVISION stores the information about the git revision of application
var REVISION = "HEAD"

func initErrorReporting(cfg *config.Config) {
	err := errortracking.Initialize(
		cfg.Sentry.DSN,
		cfg.Sentry.Environment,
		fmt.Sprintf("%s-%s", VERSION, REVISION),
	)
	if err != nil {
		log.WithError(err).Warn("Failed to initialize error reporting")
	}
}

func appMain() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("Failed to load config")
	}

	printVersion(cfg.General.ShowVersion, VERSION)

	err = logging.ConfigureLogging(cfg.Log.Format, cfg.Log.Verbose)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize logging")
	}

	if err := validateargs.Sensitive(os.Args[1:]); err != nil {
		log.WithError(err).Warn("Using sensitive arguments")
	}

	if cfg.Sentry.DSN != "" {
		initErrorReporting(cfg)
	}

	log.WithFields(log.Fields{
		"version":  VERSION,
		"revision": REVISION,
	}).Print("filedrop")

	config.LogConfig(cfg)

	if err := runApp(cfg); err != nil {
		errortracking.CaptureErrWithStackTrace(err)
		log.WithError(err).Fatal("filedrop stopped with an error")
	}

	log.Info("filedrop stopped")
}

func printVersion(showVersion bool, version string) {
	if showVersion {
		fmt.Fprintf(os.Stdout, "%s\n", version)
		os.Exit(0)
	}
}

func main() {
	log.SetOutput(os.Stderr)

	metrics.MustRegister()

	appMain()
}
