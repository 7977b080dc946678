package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/walletspy/walletspy/internal/analyzer"
	"github.com/walletspy/walletspy/internal/config"
	"github.com/walletspy/walletspy/internal/enrich"
	"github.com/walletspy/walletspy/internal/refdata"
	"github.com/walletspy/walletspy/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (defaults apply if empty)")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("load config")
		}
		cfg = loaded
	}

	setupLogger(cfg)
	log.Info().Str("instance", cfg.General.InstanceID).Msg("WalletSpy - Starting")

	ds, err := refdata.LoadDataset(cfg.RefData.OverlayPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load reference data")
	}
	registry := refdata.NewRegistry(ds)

	var opts []analyzer.Option
	if cfg.Enrich.RoastEndpoint != "" {
		opts = append(opts, analyzer.WithRoastProvider(
			enrich.NewRoastClient(cfg.Enrich.RoastEndpoint, cfg.Enrich.RoastAPIKey, cfg.Enrich.Timeout)))
	}
	if cfg.Enrich.SocialEndpoint != "" {
		opts = append(opts, analyzer.WithSocialSearcher(
			enrich.NewSocialClient(cfg.Enrich.SocialEndpoint, cfg.Enrich.Timeout)))
	}
	core := analyzer.New(cfg.Analyzer, registry, opts...)

	srv := server.New(server.Config{
		Addr:         cfg.Server.Addr,
		CacheTTL:     cfg.Server.CacheTTL,
		RateLimitRPS: cfg.Server.RateLimitRPS,
		RateBurst:    cfg.Server.RateBurst,
	}, core, &server.FileFeedSource{Dir: cfg.Server.FeedDir})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Warn().Str("signal", sig.String()).Msg("Shutdown signal received")
		cancel()
	}()

	if err := srv.ListenAndServe(ctx, cfg.Server.ShutdownGrace); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("WalletSpy - Shutdown complete")
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMicro
	level, err := zerolog.ParseLevel(cfg.General.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout)
	if cfg.General.LogFormat == "text" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	log.Logger = logger.Level(level).With().
		Timestamp().
		Str("service", "walletspy").
		Logger()
}
