package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"

	"signalflow/config"
	"signalflow/internal/channel"
	"signalflow/internal/dashboard"
	"signalflow/internal/keepalive"
	"signalflow/internal/metrics"
	"signalflow/logger"
	"signalflow/processor"
	readerTelegram "signalflow/reader/telegram"
	writerTelegram "signalflow/writer/telegram"
)

func main() {
	log := logger.GetLogger()

	// Load environment variables from .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	configPath := flag.String("config", "config/config.yml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		log.WithError(err).Error("Failed to configure logger")
		os.Exit(1)
	}

	log.WithFields(logger.Fields{
		"service": cfg.Signalflow.Name,
		"version": cfg.Signalflow.Version,
	}).Info("starting signalflow")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if strings.ToLower(cfg.Logging.Level) == "report" {
		logger.StartReport(ctx, log, 30*time.Second)
	}

	if cfg.Metrics.CloudWatch.Enabled {
		log.WithEnv("AWS_REGION").WithFields(logger.Fields{
			"namespace": cfg.Metrics.CloudWatch.Namespace,
		}).Info("cloudwatch metrics enabled")
		metrics.InitCloudWatch(cfg.Metrics.CloudWatch.Region, cfg.Metrics.CloudWatch.Namespace)
	}

	channels := channel.NewChannels(
		cfg.Channels.RawBuffer,
		cfg.Channels.OutboundBuffer,
	)
	defer channels.Close()

	go channels.StartMetricsReporting(ctx)

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.WithError(err).Error("failed to connect to Telegram")
		os.Exit(1)
	}
	log.WithFields(logger.Fields{"account": bot.Self.UserName}).Info("authorized on Telegram")

	reader := readerTelegram.NewReader(cfg, bot, channels)
	pipeline := processor.NewPipeline(cfg, channels)
	writer := writerTelegram.NewWriter(cfg, bot, channels)

	statsFn := func() map[string]interface{} {
		ps := pipeline.Stats()
		sent, sendErrors := writer.Stats()
		fingerprints, symbols := pipeline.CacheSize()
		return map[string]interface{}{
			"messages_seen":       ps.MessagesSeen,
			"forwarded":           ps.Forwarded,
			"suppressed":          ps.Suppressed,
			"irrelevant":          ps.Irrelevant,
			"sent":                sent,
			"send_errors":         sendErrors,
			"cached_fingerprints": fingerprints,
			"cooldown_symbols":    symbols,
		}
	}

	dash, err := dashboard.NewServer(cfg.Dashboard, log, dashboard.Info{
		AppName:           cfg.Signalflow.Name,
		Version:           cfg.Signalflow.Version,
		SourceChat:        cfg.Telegram.SourceChatID,
		TargetChat:        cfg.Telegram.TargetChatID,
		KeepAliveInterval: cfg.KeepAlive.Interval,
	}, statsFn)
	if err != nil {
		log.WithError(err).Error("failed to create dashboard server")
		os.Exit(1)
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := reader.Start(ctx); err != nil {
			log.WithError(err).Warn("telegram reader failed to start")
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := pipeline.Start(ctx); err != nil {
			log.WithError(err).Warn("pipeline failed to start")
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := writer.Start(ctx); err != nil {
			log.WithError(err).Warn("telegram writer failed to start")
		}
	}()

	if dash != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := dash.Run(ctx); err != nil {
				log.WithError(err).Warn("dashboard server exited")
			}
		}()
	}

	if pinger := keepalive.New(cfg.KeepAlive, log); pinger != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pinger.Run(ctx)
		}()
	}

	time.Sleep(2 * time.Second)
	log.Info("all components started successfully")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.WithFields(logger.Fields{"signal": sig.String()}).Info("shutdown signal received")

	log.Info("starting graceful shutdown")
	cancel()

	log.Info("stopping telegram writer")
	writer.Stop()

	log.Info("stopping pipeline")
	pipeline.Stop()

	log.Info("stopping telegram reader")
	reader.Stop()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info("graceful shutdown completed")
	case <-time.After(30 * time.Second):
		log.Warn("graceful shutdown timeout exceeded")
	}

	log.Info("signalflow stopped")
}
