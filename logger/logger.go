package logger

import (
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	sentrylogrus "github.com/getsentry/sentry-go/logrus"
	"github.com/uhwot/sacklite/config"
	log "github.com/sirupsen/logrus"
)

var logLevel log.Level

var sentryHook *sentrylogrus.Hook

// InitLogger initializes the API logger
func InitLogger() {
	cfg := config.Get()
	log.StandardLogger().ReplaceHooks(make(log.LevelHooks))

	switch cfg.LogLevel {
	case "TRACE":
		logLevel = log.TraceLevel
	case "DEBUG":
		logLevel = log.DebugLevel
	case "WARN", "WARNING":
		logLevel = log.WarnLevel
	case "ERROR":
		logLevel = log.ErrorLevel
	default:
		logLevel = log.InfoLevel
	}

	if !cfg.Debug {
		log.SetFormatter(&log.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.999Z07:00",
			FieldMap: log.FieldMap{
				log.FieldKeyTime: "@timestamp",
			},
		})
	}

	if cfg.SentryDSN != "" {
		hook, err := sentrylogrus.New(
			[]log.Level{log.ErrorLevel, log.FatalLevel, log.PanicLevel},
			sentry.ClientOptions{
				Dsn:        cfg.SentryDSN,
				ServerName: cfg.Hostname,
			},
		)
		if err != nil {
			log.WithField("error", err.Error()).Warn("Sentry hook could not be created")
		} else {
			sentryHook = hook
			log.AddHook(hook)
		}
	}

	log.AddHook(&ctxHook{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logLevel)
}

// FlushLogger sends buffered events to Sentry, if configured
func FlushLogger() {
	if sentryHook != nil {
		sentryHook.Flush(5 * time.Second)
	}
}
