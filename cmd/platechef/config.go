package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/hammamikhairi/platechef/internal/api"
	"github.com/hammamikhairi/platechef/internal/domain"
	"github.com/hammamikhairi/platechef/internal/gateway"
	"github.com/hammamikhairi/platechef/internal/logger"
)

// config is everything main needs to wire the app. Flags win over
// environment variables, which win over defaults.
type config struct {
	apiURL       string
	identifyPath string
	generatePath string
	healthPath   string
	timeout      time.Duration
	logLevel     logger.Level
	logFile      string
	maxUploadMB  int
	noHealth     bool
	args         []string // photos to select at start-up
}

func (c config) maxUploadBytes() int64 {
	return int64(c.maxUploadMB) << 20
}

func loadConfig(args []string, getenv func(string) string, errOut io.Writer) (config, error) {
	fs := flag.NewFlagSet("platechef", flag.ContinueOnError)
	fs.SetOutput(errOut)

	apiURL := fs.String("api-url", envOr(getenv, api.EnvBaseURL, api.DefaultBaseURL), "backend base URL (env "+api.EnvBaseURL+")")
	identifyPath := fs.String("identify-path", envOr(getenv, gateway.EnvIdentifyPath, gateway.DefaultIdentifyPath), "image analysis endpoint, e.g. /api/images/analyze")
	generatePath := fs.String("generate-path", envOr(getenv, gateway.EnvGeneratePath, gateway.DefaultGeneratePath), "recipe generation endpoint")
	healthPath := fs.String("health-path", envOr(getenv, gateway.EnvHealthPath, gateway.DefaultHealthPath), "backend health endpoint")
	timeout := fs.Duration("timeout", 0, "per-request timeout, 0 waits for the backend")
	verbose := fs.Bool("verbose", false, "enable verbose/debug logging")
	quiet := fs.Bool("quiet", false, "disable all logging")
	logFile := fs.String("log-file", ".platechef-logs/platechef.log", "file to write logs to (use \"stderr\" to log to console)")
	maxUploadMB := fs.Int("max-upload-mb", domain.MaxUploadSize>>20, "largest photo accepted, in MiB")
	noHealth := fs.Bool("no-health", false, "skip the backend health check at start-up")

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	cfg := config{
		apiURL:       *apiURL,
		identifyPath: *identifyPath,
		generatePath: *generatePath,
		healthPath:   *healthPath,
		timeout:      *timeout,
		logLevel:     logger.LevelNormal,
		logFile:      *logFile,
		maxUploadMB:  *maxUploadMB,
		noHealth:     *noHealth,
		args:         fs.Args(),
	}
	if *verbose {
		cfg.logLevel = logger.LevelVerbose
	}
	if *quiet {
		cfg.logLevel = logger.LevelOff
	}

	if cfg.timeout < 0 {
		return config{}, errors.New("-timeout must not be negative")
	}
	if cfg.maxUploadMB <= 0 {
		return config{}, fmt.Errorf("-max-upload-mb must be positive, got %d", cfg.maxUploadMB)
	}
	return cfg, nil
}

func envOr(getenv func(string) string, key, fallback string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return fallback
}
