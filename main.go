package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redhatinsights/platform-go-middlewares/v2/request_id"
	log "github.com/sirupsen/logrus"

	"github.com/uhwot/sacklite/config"
	metricsmiddleware "github.com/uhwot/sacklite/internal/middleware"
	l "github.com/uhwot/sacklite/logger"
	"github.com/uhwot/sacklite/pkg/metrics"
	"github.com/uhwot/sacklite/pkg/pubkeys"
	"github.com/uhwot/sacklite/pkg/routes"
	"github.com/uhwot/sacklite/pkg/session"
)

func sessionKey(cfg *config.SackliteConfig) []byte {
	if cfg.SessionSecretKey != "" {
		key, err := base64.StdEncoding.DecodeString(cfg.SessionSecretKey)
		if err != nil {
			l.LogErrorAndPanic("session secret key is not valid base64", err)
		}
		return key
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		l.LogErrorAndPanic("could not generate a session key", err)
	}
	log.Warn("No session secret key configured, sessions will not survive a restart")
	return key
}

func main() {
	config.Init()
	l.InitLogger()
	defer l.FlushLogger()
	metrics.RegisterAPIMetrics()

	cfg := config.Get()
	log.WithFields(log.Fields{
		"Hostname":                cfg.Hostname,
		"WebPort":                 cfg.WebPort,
		"MetricsPort":             cfg.MetricsPort,
		"LogLevel":                cfg.LogLevel,
		"Debug":                   cfg.Debug,
		"BasePath":                cfg.BasePath,
		"DigestEnabled":           cfg.DigestEnabled(),
		"VerifyClientDigest":      cfg.VerifyClientDigest,
		"VerifyNpTicketSignature": cfg.VerifyNpTicketSignature,
		"VerifyNpTicketExpiry":    cfg.VerifyNpTicketExpiry,
		"SessionTTL":              cfg.SessionTTL,
	}).Info("Configuration Values:")

	keys, err := pubkeys.NewStore()
	if err != nil {
		l.LogErrorAndPanic("could not load platform public keys", err)
	}

	sessions, err := session.NewSignedIssuer(sessionKey(cfg), cfg.SessionTTL)
	if err != nil {
		l.LogErrorAndPanic("could not create session issuer", err)
	}
	defer sessions.Stop()

	r := routes.MakeRouter(cfg, keys, sessions,
		request_id.ConfiguredRequestID("x-request-id"),
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		metricsmiddleware.NewPatternMiddleware(),
	)

	mr := chi.NewRouter()
	mr.Get("/", routes.StatusOK)
	mr.Handle("/metrics", promhttp.Handler())

	srv := http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.WebPort),
		Handler: r,
	}

	msrv := http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.MetricsPort),
		Handler: mr,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint
		if err := srv.Shutdown(context.Background()); err != nil {
			log.WithFields(log.Fields{"error": err}).Fatal("HTTP Server Shutdown failed")
		}
		if err := msrv.Shutdown(context.Background()); err != nil {
			log.WithFields(log.Fields{"error": err}).Fatal("HTTP Server Shutdown failed")
		}
		close(idleConnsClosed)
	}()

	go func() {
		if err := msrv.ListenAndServe(); err != http.ErrServerClosed {
			log.WithFields(log.Fields{"error": err}).Fatal("Metrics Service Stopped")
		}
	}()

	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.WithFields(log.Fields{"error": err}).Fatal("Service Stopped")
	}

	<-idleConnsClosed
	log.Info("Everything has shut down, goodbye")
}
