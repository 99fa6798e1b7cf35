package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "immobot/internal/adapters/http_server"
	"immobot/internal/adapters/observability"
	redisad "immobot/internal/adapters/redis"
	"immobot/internal/adapters/telegram"
	"immobot/internal/adapters/whatsapp"
	"immobot/internal/app"
	"immobot/internal/domain"
	"immobot/internal/shared"
	"immobot/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// property store
	backend, closeBackend, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("open property store")
	}
	defer closeBackend()
	store := app.NewPropertyStore(backend)
	if err := store.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("property store unavailable")
	}

	// session snapshots and the shared duplicate filter are optional
	var cache domain.Cache
	var claimer domain.Claimer
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, sessions stay in memory")
		} else {
			defer rc.Close()
			cache, claimer = rc, rc
		}
	}
	sessions := app.NewSessions(store, cache, cfg.SessionTTL)
	go sessions.Run(ctx, cfg.SweepInterval)

	// outbound channel
	var sender domain.Sender
	var bot *telegram.Bot
	switch cfg.Transport {
	case "whatsapp":
		wa, err := whatsapp.New(cfg.WhatsApp)
		if err != nil {
			log.Fatal().Err(err).Msg("whatsapp client")
		}
		sender = wa
	case "telegram":
		b, err := telegram.New(cfg.TelegramToken)
		if err != nil {
			log.Fatal().Err(err).Msg("telegram bot")
		}
		bot, sender = b, b
	case "none":
	default:
		log.Fatal().Str("transport", cfg.Transport).Msg("unknown TRANSPORT (whatsapp|telegram|none)")
	}
	chat := app.NewChatService(sessions, sender).WithClaimer(claimer)

	if bot != nil {
		go bot.Run(ctx, chat.HandleInbound)
	}

	// http
	srv := server.New(log.Logger, 30*time.Second)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Chat:        chat,
		Store:       store,
		VerifyToken: cfg.WhatsApp.VerifyToken,
		Workers:     cfg.Workers,
	})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown")
		}
	}()

	log.Info().
		Str("addr", cfg.HTTPAddr).
		Str("transport", cfg.Transport).
		Str("store", cfg.StoreDriver).
		Msg("immobot listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("immobot stopped")
}
