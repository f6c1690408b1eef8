package main

import (
	"net/http"
	"os"

	"github.com/upnetwork-v/webpay-sub001/internal/api"
	"github.com/upnetwork-v/webpay-sub001/internal/config"
	"github.com/upnetwork-v/webpay-sub001/internal/logger"
	"github.com/upnetwork-v/webpay-sub001/internal/monitor"
	"github.com/upnetwork-v/webpay-sub001/internal/store"
	"github.com/upnetwork-v/webpay-sub001/phantom"

	"github.com/rs/zerolog"
)

func main() {
	log := logger.NewConsole(zerolog.InfoLevel)

	if err := config.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	cfg := config.Get()

	pending := store.NewFileStore(cfg.PendingPath, cfg.PendingTTL)
	mon := monitor.New(cfg.AuditURL, cfg.AuditTimeout, cfg.RedirectURL, log)

	session, err := phantom.NewSession(cfg.WalletBaseURL, cfg.RedirectURL, pending, mon, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create wallet session")
	}
	defer session.Close()

	// Pick up a request dispatched before a restart.
	if resumed, err := session.Resume(); err != nil {
		log.Warn().Err(err).Msg("failed to resume pending transaction")
	} else if resumed {
		log.Info().Msg("resumed pending transaction")
	}

	router := api.SetupRouter(session, mon, log)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Msg("listening")
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
