// Command reportbot runs the shift-report Telegram bot: the long-poll update
// loop, the reminder notifier, and the ops HTTP server (health, metrics,
// status).
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-report-bot/internal/bot"
	"github.com/tbourn/go-report-bot/internal/catalog"
	"github.com/tbourn/go-report-bot/internal/config"
	httpapi "github.com/tbourn/go-report-bot/internal/http"
	"github.com/tbourn/go-report-bot/internal/notify"
	"github.com/tbourn/go-report-bot/internal/observability"
	"github.com/tbourn/go-report-bot/internal/repo"
	"github.com/tbourn/go-report-bot/internal/services"
	"github.com/tbourn/go-report-bot/internal/session"
	"github.com/tbourn/go-report-bot/internal/store"
	"github.com/tbourn/go-report-bot/internal/sysutil"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad()
	sysutil.SetupLogger(cfg.LogLevel, cfg.LogPretty)
	if err := cfg.FillFromKeyFile(); err != nil {
		log.Fatal().Err(err).Msg("credentials")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup")
	}

	st, err := store.NewSheets(ctx, cfg.CredentialsFile, cfg.SpreadsheetID)
	if err != nil {
		log.Fatal().Err(err).Msg("sheets client")
	}

	db, err := repo.OpenSQLite(cfg.JournalPath)
	if err != nil {
		log.Fatal().Err(err).Msg("open journal")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate journal")
	}

	cat := catalog.New(st, cfg.Sheets, cfg.CatalogTTL, log.Logger)
	registry := session.NewPromptRegistry()
	sessions := session.NewStore()

	reports := services.NewReportService(st, db, sessions, cfg.Sheets, log.Logger)
	summaries := services.NewSummaryService(st, cfg.Sheets, cfg.MessageLimit)
	admin := services.NewAdminService(st, cat, cfg.Sheets)

	tg, err := bot.NewTelegramTransport(cfg.BotToken)
	if err != nil {
		log.Fatal().Err(err).Msg("telegram")
	}
	transport := bot.NewLimitedTransport(tg, bot.NewSendLimiter(cfg.SendRPS, cfg.SendBurst))

	handler := &bot.Handler{
		Transport:   transport,
		Catalog:     cat,
		Registry:    registry,
		Sessions:    sessions,
		Reports:     reports,
		Summaries:   summaries,
		Admin:       admin,
		RecentCount: cfg.RecentCount,
		Log:         log.Logger,
	}
	poller := &bot.Poller{Transport: tg, Handler: handler, Log: log.Logger}
	notifier := notify.New(cat, transport, db, cfg.NotifyPeriod, cfg.NotifyRetryDelay, log.Logger)

	gin.SetMode(cfg.GinMode)
	engine := gin.New()
	httpapi.RegisterRoutes(engine, httpapi.Deps{
		Catalog:   cat,
		Registry:  registry,
		Sessions:  sessions,
		StartedAt: time.Now(),
	}, cfg)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	go poller.Run(ctx)
	go notifier.Run(ctx)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("ops server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("ops server")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("ops server shutdown")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
