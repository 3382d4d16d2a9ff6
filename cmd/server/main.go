package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hesab.local/pfm/internal/bot"
	"hesab.local/pfm/internal/config"
	"hesab.local/pfm/internal/handler"
	"hesab.local/pfm/internal/logger"
	"hesab.local/pfm/internal/store"
)

func main() {
	cfg := config.Load()

	port := flag.Int("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	noBot := flag.Bool("no-bot", false, "Serve the web UI only")
	flag.Parse()

	log := logger.NewWithLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := store.Open(ctx, *dbPath)
	if err != nil {
		log.Fatal().Err(err).Str("db", *dbPath).Msg("Failed to open database")
	}
	defer s.Close()

	switch {
	case *noBot:
		log.Info().Msg("Telegram bot disabled by flag")
	case cfg.TelegramToken == "":
		log.Warn().Msg("TELEGRAM_TOKEN is empty, Telegram bot will not run")
	default:
		b, err := bot.New(cfg.TelegramToken, cfg.AllowedUserIDs, s, log.With().Str("component", "bot").Logger())
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to start Telegram bot")
		}
		go b.Run(ctx)
	}

	h := handler.NewHandler(s, log)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", *port),
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown failed")
		}
	}()

	log.Info().Str("addr", "http://localhost"+srv.Addr).Msg("Starting server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
	log.Info().Msg("Server stopped")
}
